package listfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"im2rec/internal/faults"
)

// ErrSkip marks a line that does not start with an image id and a label. Such
// lines are ignored.
var ErrSkip = errors.New("listfile: line skipped")

// Entry is one parsed list line.
type Entry struct {
	ID     uint64
	Label  []float32
	Path   string
	Offset int64
}

// ParseEntry parses one list line. It returns an ErrSkip error when the id or
// first label is missing or malformed, and a faults.ErrInvalidEntry error
// when the remaining labels or the path are missing.
func ParseEntry(line string, labelWidth int) (Entry, error) {
	if labelWidth < 1 {
		return Entry{}, faults.Wrap(faults.ErrConfiguration, "list", "parse", "label_width must be positive", nil)
	}
	rest := line
	var tok string

	tok, rest = nextToken(rest)
	id, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: image id %q", ErrSkip, tok)
	}
	labels := make([]float32, labelWidth)
	tok, rest = nextToken(rest)
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: label %q", ErrSkip, tok)
	}
	labels[0] = float32(v)

	for k := 1; k < labelWidth; k++ {
		tok, rest = nextToken(rest)
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return Entry{}, faults.Wrap(faults.ErrInvalidEntry, "list", "parse",
				fmt.Sprintf("image %d: label %d of %d is %q; did you provide the correct label_width?", id, k, labelWidth, tok), nil)
		}
		labels[k] = float32(v)
	}

	path := strings.TrimRightFunc(rest, func(r rune) bool {
		return unicode.IsSpace(r) || !unicode.IsPrint(r)
	})
	path = strings.TrimLeftFunc(path, unicode.IsSpace)
	if path == "" {
		return Entry{}, faults.Wrap(faults.ErrInvalidEntry, "list", "parse",
			fmt.Sprintf("image %d: missing image path", id), nil)
	}
	return Entry{ID: id, Label: labels, Path: path}, nil
}

func nextToken(s string) (string, string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return s, ""
	}
	return s[:end], s[end:]
}
