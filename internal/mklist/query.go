package mklist

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"im2rec/internal/faults"
	"im2rec/internal/logging"
)

// QueryID extracts the numeric id a retrieval query image carries in its
// name, "<anything>-<n>.<ext>".
func QueryID(rel string) (uint64, error) {
	i := strings.LastIndexByte(rel, '-')
	if i < 0 {
		return 0, fmt.Errorf("%s: no -<n> suffix", rel)
	}
	digits, _, _ := strings.Cut(rel[i+1:], ".")
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: query id %q is not a number", rel, digits)
	}
	return n, nil
}

// writeQueryList writes "<id>\t<query id>" for every item whose relative path
// also exists under queryDir. Items with an unparsable name are skipped with
// a warning.
func writeQueryList(path, queryDir string, items []Item, logger *slog.Logger) (List, error) {
	file, err := os.Create(path)
	if err != nil {
		return List{}, faults.Wrap(faults.ErrOutput, "mklist", "create", path, err)
	}
	buf := bufio.NewWriter(file)
	count := 0
	for _, item := range items {
		info, err := os.Stat(filepath.Join(queryDir, filepath.FromSlash(item.Path)))
		if err != nil || info.IsDir() {
			continue
		}
		qid, err := QueryID(item.Path)
		if err != nil {
			logging.WarnWithContext(logger, "query image without id", "query_id_missing",
				logging.String(logging.FieldPath, item.Path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "image left out of the query list"),
			)
			continue
		}
		line := strconv.AppendUint(nil, item.ID, 10)
		line = append(line, '\t')
		line = strconv.AppendUint(line, qid, 10)
		line = append(line, '\n')
		if _, err := buf.Write(line); err != nil {
			_ = file.Close()
			return List{}, faults.Wrap(faults.ErrOutput, "mklist", "write", path, err)
		}
		count++
	}
	if err := buf.Flush(); err != nil {
		_ = file.Close()
		return List{}, faults.Wrap(faults.ErrOutput, "mklist", "write", path, err)
	}
	if err := file.Close(); err != nil {
		return List{}, faults.Wrap(faults.ErrOutput, "mklist", "close", path, err)
	}
	return List{Path: path, Items: count}, nil
}
