package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"

	"im2rec/internal/faults"
	"im2rec/internal/imgcodec"
	"im2rec/internal/interp"
	"im2rec/internal/listfile"
	"im2rec/internal/logging"
	"im2rec/internal/manifest"
	"im2rec/internal/source"
	"im2rec/internal/stats"
)

// CheckpointInterval is the default number of records between checkpoint
// logs.
const CheckpointInterval = 5000

// Driver packs one partition of an image list.
type Driver struct {
	job      Job
	logger   *slog.Logger
	source   source.Source
	rng      interp.Rand
	seed     uint64
	runID    string
	progress io.Writer
	now      func() time.Time
	every    int

	color   imgcodec.ColorMode
	mode    interp.Mode
	quality int

	stats stats.Accumulator
}

// Option customizes a Driver.
type Option func(*Driver)

// WithSource replaces the directory source rooted at Job.RootDir.
func WithSource(src source.Source) Option {
	return func(d *Driver) { d.source = src }
}

// WithRand replaces the generator used by random interpolation.
func WithRand(rng interp.Rand) Option {
	return func(d *Driver) { d.rng = rng }
}

// WithRunID sets the run id instead of generating one.
func WithRunID(id string) Option {
	return func(d *Driver) { d.runID = id }
}

// WithProgress shows a progress bar on w. Without it progress is logged at
// debug level.
func WithProgress(w io.Writer) Option {
	return func(d *Driver) { d.progress = w }
}

// WithClock replaces time.Now for elapsed-time reporting.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) { d.now = now }
}

// WithCheckpointInterval logs running statistics every n records instead of
// every CheckpointInterval. Values below 1 keep the default.
func WithCheckpointInterval(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.every = n
		}
	}
}

// New validates job and prepares a Driver.
func New(job Job, logger *slog.Logger, opts ...Option) (*Driver, error) {
	if err := job.Validate(); err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "pipeline", "new", "", err)
	}
	color, err := imgcodec.ParseColorMode(job.Pack.Color)
	if err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "pipeline", "new", "color", err)
	}
	mode, err := interp.ParseMode(job.Pack.InterMethod)
	if err != nil {
		return nil, err
	}
	format, err := imgcodec.NormalizeFormat(job.Pack.Encoding)
	if err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "pipeline", "new", "encoding", err)
	}
	job.Pack.Encoding = format
	if job.Pack.LabelWidth < 1 || job.Pack.NSplit < 1 || job.Pack.Part < 0 || job.Pack.Part >= job.Pack.NSplit {
		return nil, faults.Wrap(faults.ErrConfiguration, "pipeline", "new",
			fmt.Sprintf("invalid label_width=%d nsplit=%d part=%d", job.Pack.LabelWidth, job.Pack.NSplit, job.Pack.Part), nil)
	}

	d := &Driver{
		job:     job,
		logger:  logging.NewComponentLogger(logger, "pipeline"),
		color:   color,
		mode:    mode,
		quality: job.Pack.EffectiveQuality(),
		now:     time.Now,
		every:   CheckpointInterval,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.source == nil {
		d.source = source.NewDir(job.RootDir)
	}
	if d.runID == "" {
		d.runID = uuid.NewString()
	}
	if d.rng == nil {
		d.seed = uint64(d.now().UnixNano())
		if job.Pack.Seed != nil {
			d.seed = *job.Pack.Seed
		}
		d.rng = rand.New(rand.NewPCG(d.seed, d.seed^0x9e3779b97f4a7c15))
	}
	return d, nil
}

// RunID returns the id attached to every log line and manifest row of the run.
func (d *Driver) RunID() string { return d.runID }

// OutputPath returns the container path of the partition.
func (d *Driver) OutputPath() string {
	return PartitionPath(d.job.OutputPath, d.job.Pack.NSplit, d.job.Pack.Part)
}

// Result summarizes a run.
type Result struct {
	RunID      string
	OutputPath string
	IndexPath  string
	Part       int
	NSplit     int
	SpanBegin  int64
	SpanEnd    int64
	Records    int
	Skipped    int
	Duplicates int
	Splits     int
	Bytes      int64
	Seed       uint64
	Elapsed    time.Duration
	Stats      stats.Summary
	Canceled   bool
}

// Run packs the partition. It stops between entries when ctx is canceled and
// returns ctx's error; the container then holds every record written so far.
func (d *Driver) Run(ctx context.Context) (res Result, err error) {
	start := d.now()
	pack := d.job.Pack
	ctx = logging.WithPartition(logging.WithRunID(ctx, d.runID), pack.Part)
	logger := logging.WithContext(ctx, d.logger)

	res = Result{
		RunID:      d.runID,
		OutputPath: d.OutputPath(),
		Part:       pack.Part,
		NSplit:     pack.NSplit,
		Seed:       d.seed,
	}
	d.logSettings(logger, res.OutputPath)

	list, err := os.Open(d.job.ListPath)
	if err != nil {
		return res, faults.Wrap(faults.ErrConfiguration, "pipeline", "open list", d.job.ListPath, err)
	}
	defer list.Close()
	info, err := list.Stat()
	if err != nil {
		return res, faults.Wrap(faults.ErrConfiguration, "pipeline", "stat list", d.job.ListPath, err)
	}
	reader, err := listfile.NewReader(list, info.Size(), pack.NSplit, pack.Part, pack.LabelWidth)
	if err != nil {
		return res, faults.Wrap(faults.ErrConfiguration, "pipeline", "open list", d.job.ListPath, err)
	}
	res.SpanBegin, res.SpanEnd = reader.Span()
	logger.Debug("partition span", logging.Int64("begin", res.SpanBegin), logging.Int64("end", res.SpanEnd))

	out, err := openPartition(res.OutputPath, pack.Index)
	if err != nil {
		return res, err
	}
	res.IndexPath = out.indexPath
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	ledger, err := d.openManifest(ctx, res)
	if err != nil {
		return res, err
	}
	defer func() {
		ledger.finish(logger, &res, err)
	}()

	dups := newDupTracker(uint(max(res.SpanEnd-res.SpanBegin, 0) / 24))
	progress := newProgress(d.progress, res.SpanEnd-res.SpanBegin, logger)
	defer progress.finish()

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			res.Canceled = true
			logger.Warn("packing canceled", logging.Int("records", res.Records))
			err = ctxErr
			break
		}
		entry, nextErr := reader.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}
		if errors.Is(nextErr, listfile.ErrSkip) {
			res.Skipped++
			logger.Debug("skipping list line", logging.Error(nextErr))
			continue
		}
		if nextErr != nil {
			err = faults.Wrap(faults.ErrInvalidEntry, "pipeline", "read entry", d.job.ListPath, nextErr)
			break
		}

		if err = d.packEntry(out, ledger, entry, &res); err != nil {
			break
		}
		if dups.seen(entry.ID) {
			res.Duplicates++
			logging.WarnWithContext(logger, "duplicate image id", "duplicate_image_id",
				logging.Uint64(logging.FieldImageID, entry.ID),
				logging.String(logging.FieldPath, entry.Path),
				logging.String(logging.FieldImpact, "readers keyed by image id will see only one of the records"),
			)
		}
		progress.update(reader.Offset() - res.SpanBegin)
		if res.Records%d.every == 0 {
			d.checkpoint(logger, "checkpoint", start, &res)
		}
	}

	res.Splits = out.writer.Splits()
	res.Bytes = out.size()
	res.Elapsed = d.now().Sub(start)
	res.Stats = d.stats.Summary()
	msg := "packing finished"
	if err != nil {
		msg = "packing stopped"
	}
	d.checkpoint(logger, msg, start, &res)
	return res, err
}

// packEntry runs one entry through the per-image state machine and appends
// the resulting record.
func (d *Driver) packEntry(out *partitionOutput, ledger *runLedger, entry listfile.Entry, res *Result) error {
	payload, sample, err := d.payload(entry)
	if err != nil {
		return err
	}
	record, err := encodeRecord(entry, payload)
	if err != nil {
		return faults.Wrap(faults.ErrEncode, "pipeline", stageRecord.String(), describe(entry), err)
	}
	offset, err := out.append(entry.ID, record)
	if err != nil {
		return faults.Wrap(faults.ErrOutput, "pipeline", stageWrite.String(), describe(entry), err)
	}
	res.Records++
	d.stats.Merge(sample)
	if err := ledger.add(entry, int64(res.Records-1), offset, int64(len(record))); err != nil {
		return faults.Wrap(faults.ErrOutput, "pipeline", "manifest", describe(entry), err)
	}
	return nil
}

func (d *Driver) checkpoint(logger *slog.Logger, msg string, start time.Time, res *Result) {
	summary := d.stats.Summary()
	attrs := []logging.Attr{
		logging.Int("records", res.Records),
		logging.Duration("elapsed", d.now().Sub(start)),
		scopeAttr(summary.Global),
	}
	for _, ch := range summary.Channels {
		attrs = append(attrs, scopeAttr(ch))
	}
	logger.Info(msg, logging.Args(attrs...)...)
}

func scopeAttr(s stats.Scope) logging.Attr {
	if !s.Ready {
		return logging.Group(s.Name, logging.Float64("mean", s.Mean), logging.String("stdev", "n/a"))
	}
	return logging.Group(s.Name, logging.Float64("mean", s.Mean), logging.Float64("stdev", s.StdDev))
}

func (d *Driver) logSettings(logger *slog.Logger, output string) {
	pack := d.job.Pack
	attrs := []logging.Attr{
		logging.String("list", d.job.ListPath),
		logging.String("root", d.job.RootDir),
		logging.String("output", output),
		logging.Int("nsplit", pack.NSplit),
		logging.String("color", d.color.String()),
		logging.String("encoding", pack.Encoding),
		logging.Int("quality", d.quality),
		logging.String("inter_method", d.mode.Describe()),
	}
	if pack.Resize > 0 {
		attrs = append(attrs, logging.Int("resize", pack.Resize), logging.Bool("center_crop", pack.CenterCrop))
	} else {
		attrs = append(attrs, logging.String("resize", "keep original size"))
	}
	if pack.Unchanged {
		attrs = append(attrs, logging.Bool("unchanged", true))
	}
	if d.mode == interp.ModeRandom && d.seed != 0 {
		attrs = append(attrs, logging.Uint64("seed", d.seed))
	}
	logger.Info("packing started", logging.Args(attrs...)...)
}

// runLedger mirrors the run into the optional manifest. A nil ledger is a
// no-op.
type runLedger struct {
	store *manifest.Store
	run   *manifest.Run
	ctx   context.Context
}

func (d *Driver) openManifest(ctx context.Context, res Result) (*runLedger, error) {
	if d.job.ManifestPath == "" {
		return nil, nil
	}
	ctx = context.WithoutCancel(ctx)
	store, err := manifest.Open(d.job.ManifestPath)
	if err != nil {
		return nil, faults.Wrap(faults.ErrOutput, "pipeline", "manifest", d.job.ManifestPath, err)
	}
	options, err := json.Marshal(d.job.Pack)
	if err != nil {
		_ = store.Close()
		return nil, faults.Wrap(faults.ErrOutput, "pipeline", "manifest", "encode options", err)
	}
	run := &manifest.Run{
		RunID:      d.runID,
		ListPath:   d.job.ListPath,
		RootDir:    d.job.RootDir,
		OutputPath: res.OutputPath,
		Part:       res.Part,
		NSplit:     res.NSplit,
		Options:    string(options),
	}
	if err := store.StartRun(ctx, run); err != nil {
		_ = store.Close()
		return nil, faults.Wrap(faults.ErrOutput, "pipeline", "manifest", d.job.ManifestPath, err)
	}
	return &runLedger{store: store, run: run, ctx: ctx}, nil
}

func (l *runLedger) add(entry listfile.Entry, seq, offset, size int64) error {
	if l == nil {
		return nil
	}
	return l.store.AddRecord(l.ctx, l.run.ID, manifest.Record{
		Seq:     seq,
		ImageID: entry.ID,
		Path:    entry.Path,
		Offset:  offset,
		Size:    size,
		Labels:  entry.Label,
	})
}

func (l *runLedger) finish(logger *slog.Logger, res *Result, runErr error) {
	if l == nil {
		return
	}
	l.run.Records = int64(res.Records)
	l.run.Bytes = res.Bytes
	switch {
	case runErr == nil:
		l.run.Status = manifest.RunCompleted
	case res.Canceled:
		l.run.Status = manifest.RunCanceled
	default:
		l.run.Status = manifest.RunFailed
		l.run.Error = runErr.Error()
		l.run.ErrorKind = faults.Kind(runErr)
	}
	if data, err := json.Marshal(res.Stats); err == nil {
		l.run.Stats = string(data)
	}
	if err := l.store.FinishRun(l.ctx, l.run); err != nil {
		logger.Warn("manifest update failed", logging.Error(err), logging.String("manifest", l.store.Path()))
	}
	if err := l.store.Close(); err != nil {
		logger.Warn("manifest close failed", logging.Error(err))
	}
}
