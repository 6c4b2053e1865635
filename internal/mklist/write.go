package mklist

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"im2rec/internal/faults"
	"im2rec/internal/logging"
)

// DefaultSeed seeds the shuffle when Options.Seed is nil.
const DefaultSeed = 100

// Options controls how a scanned tree is turned into list files.
type Options struct {
	Exts       []string
	Recursive  bool
	Shuffle    bool
	Seed       *uint64
	Chunks     int
	TrainRatio float64
	TestRatio  float64
	// QueryDir, when set, names a directory mirroring root that holds the
	// query images of a retrieval dataset. Make then also writes
	// "<prefix>_query.lst".
	QueryDir string
}

// DefaultOptions lists every image into a single list.
func DefaultOptions() Options {
	return Options{Exts: DefaultExts, Shuffle: true, Chunks: 1, TrainRatio: 1}
}

// Validate checks chunking and ratios.
func (o Options) Validate() error {
	switch {
	case o.Chunks < 1:
		return fmt.Errorf("chunks must be at least 1, got %d", o.Chunks)
	case o.TrainRatio < 0 || o.TrainRatio > 1:
		return fmt.Errorf("train ratio must be within [0, 1], got %g", o.TrainRatio)
	case o.TestRatio < 0 || o.TestRatio > 1:
		return fmt.Errorf("test ratio must be within [0, 1], got %g", o.TestRatio)
	case o.TrainRatio+o.TestRatio > 1:
		return fmt.Errorf("train ratio %g plus test ratio %g exceeds 1", o.TrainRatio, o.TestRatio)
	}
	return nil
}

// List is one written list file.
type List struct {
	Path  string
	Items int
}

// Make scans root and writes "<prefix>[_<chunk>][_train|_val|_test].lst"
// files. Items are shuffled with a seeded generator before chunking. Each
// chunk holds ceil(n/chunks) items; the last chunk may be shorter. Inside a
// chunk the test split comes first, then train, then validation, each sized
// from the full chunk size. With a train ratio of 1 a chunk is written as a
// single list without a split suffix.
func Make(ctx context.Context, root, prefix string, opts Options, logger *slog.Logger) ([]List, error) {
	if err := opts.Validate(); err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "mklist", "options", "", err)
	}
	logger = logging.NewComponentLogger(logger, "mklist")

	items, err := Scan(root, opts.Recursive, opts.Exts)
	if err != nil {
		return nil, faults.Wrap(faults.ErrSource, "mklist", "scan", root, err)
	}
	if opts.Shuffle {
		seed := uint64(DefaultSeed)
		if opts.Seed != nil {
			seed = *opts.Seed
		}
		rng := rand.New(rand.NewPCG(seed, seed))
		rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	}
	logger.Info("scanned image tree",
		logging.String("root", root),
		logging.Int("images", len(items)),
		logging.Bool("recursive", opts.Recursive),
	)

	if dir := filepath.Dir(prefix); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, faults.Wrap(faults.ErrOutput, "mklist", "mkdir", dir, err)
		}
	}

	chunkSize := (len(items) + opts.Chunks - 1) / opts.Chunks
	var written []List
	for i := 0; i < opts.Chunks; i++ {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		chunk := items[min(i*chunkSize, len(items)):min((i+1)*chunkSize, len(items))]
		base := prefix
		if opts.Chunks > 1 {
			base = fmt.Sprintf("%s_%d", prefix, i)
		}

		if opts.TrainRatio == 1 {
			list, err := writeList(base+".lst", chunk)
			if err != nil {
				return written, err
			}
			written = append(written, list)
			continue
		}

		sep := int(float64(chunkSize) * opts.TrainRatio)
		sepTest := int(float64(chunkSize) * opts.TestRatio)
		if opts.TestRatio > 0 {
			list, err := writeList(base+"_test.lst", clip(chunk, 0, sepTest))
			if err != nil {
				return written, err
			}
			written = append(written, list)
		}
		if opts.TrainRatio+opts.TestRatio < 1 {
			list, err := writeList(base+"_val.lst", clip(chunk, sepTest+sep, len(chunk)))
			if err != nil {
				return written, err
			}
			written = append(written, list)
		}
		list, err := writeList(base+"_train.lst", clip(chunk, sepTest, sepTest+sep))
		if err != nil {
			return written, err
		}
		written = append(written, list)
	}

	if opts.QueryDir != "" {
		list, err := writeQueryList(prefix+"_query.lst", opts.QueryDir, items, logger)
		if err != nil {
			return written, err
		}
		written = append(written, list)
	}

	for _, list := range written {
		logger.Debug("wrote list", logging.String(logging.FieldPath, list.Path), logging.Int("images", list.Items))
	}
	return written, nil
}

func clip(items []Item, from, to int) []Item {
	from = min(from, len(items))
	to = min(max(to, from), len(items))
	return items[from:to]
}

func writeList(path string, items []Item) (List, error) {
	file, err := os.Create(path)
	if err != nil {
		return List{}, faults.Wrap(faults.ErrOutput, "mklist", "create", path, err)
	}
	if err := Write(file, items); err != nil {
		_ = file.Close()
		return List{}, faults.Wrap(faults.ErrOutput, "mklist", "write", path, err)
	}
	if err := file.Close(); err != nil {
		return List{}, faults.Wrap(faults.ErrOutput, "mklist", "close", path, err)
	}
	return List{Path: path, Items: len(items)}, nil
}

// Write renders items as "<id>\t<label>\t<path>" lines with six decimal
// places for the label.
func Write(w io.Writer, items []Item) error {
	buf := bufio.NewWriter(w)
	for _, item := range items {
		line := strconv.AppendUint(nil, item.ID, 10)
		line = append(line, '\t')
		line = strconv.AppendFloat(line, item.Label, 'f', 6, 64)
		line = append(line, '\t')
		line = append(line, item.Path...)
		line = append(line, '\n')
		if _, err := buf.Write(line); err != nil {
			return err
		}
	}
	return buf.Flush()
}
