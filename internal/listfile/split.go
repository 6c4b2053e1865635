package listfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Split returns the byte span [begin, end) assigned to part when a file of
// size bytes is divided into nsplit parts. A line belongs to the part whose
// span contains the line's first byte.
func Split(size int64, nsplit, part int) (begin, end int64) {
	if nsplit <= 1 {
		return 0, size
	}
	step := (size + int64(nsplit) - 1) / int64(nsplit)
	begin = min(step*int64(part), size)
	end = min(step*int64(part+1), size)
	return begin, end
}

// Reader yields the entries of one partition of a list file.
type Reader struct {
	br         *bufio.Reader
	begin, end int64
	offset     int64
	labelWidth int
	done       bool
}

// NewReader positions rs at the first line starting inside the partition's
// span. size is the total size of the list file.
func NewReader(rs io.ReadSeeker, size int64, nsplit, part, labelWidth int) (*Reader, error) {
	if nsplit < 1 || part < 0 || part >= nsplit {
		return nil, fmt.Errorf("listfile: invalid partition %d of %d", part, nsplit)
	}
	begin, end := Split(size, nsplit, part)
	r := &Reader{begin: begin, end: end, labelWidth: labelWidth}

	start := begin
	if begin > 0 {
		start = begin - 1
	}
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("listfile: seek to %d: %w", start, err)
	}
	r.br = bufio.NewReaderSize(rs, 64<<10)
	r.offset = start
	if begin > 0 {
		// Skip the tail of a line that started in the previous span.
		skipped, err := r.br.ReadSlice('\n')
		for errors.Is(err, bufio.ErrBufferFull) {
			r.offset += int64(len(skipped))
			skipped, err = r.br.ReadSlice('\n')
		}
		r.offset += int64(len(skipped))
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("listfile: align partition start: %w", err)
		}
	}
	return r, nil
}

// Span returns the byte span owned by this reader.
func (r *Reader) Span() (begin, end int64) { return r.begin, r.end }

// Offset returns the byte offset of the next line.
func (r *Reader) Offset() int64 { return r.offset }

// NextLine returns the next raw line (without the trailing newline) and its
// starting offset, or io.EOF once the partition is exhausted.
func (r *Reader) NextLine() (string, int64, error) {
	if r.done || r.offset >= r.end {
		r.done = true
		return "", 0, io.EOF
	}
	start := r.offset
	line, err := r.br.ReadString('\n')
	r.offset += int64(len(line))
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", 0, err
		}
		r.done = true
		if line == "" {
			return "", 0, io.EOF
		}
	}
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	return line, start, nil
}

// Next returns the next entry. Lines that ParseEntry skips are returned as
// ErrSkip errors so callers can log them and continue; any other error is
// fatal for the run.
func (r *Reader) Next() (Entry, error) {
	line, start, err := r.NextLine()
	if err != nil {
		return Entry{}, err
	}
	entry, err := ParseEntry(line, r.labelWidth)
	if err != nil {
		return Entry{}, fmt.Errorf("offset %d: %w", start, err)
	}
	entry.Offset = start
	return entry, nil
}
