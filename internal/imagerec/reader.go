package imagerec

import (
	"fmt"
	"io"

	"im2rec/internal/recordio"
)

// Reader iterates the image records of a RecordIO container.
type Reader struct {
	rr *recordio.Reader
}

// NewReader wraps a container stream. Seek needs r to implement io.Seeker.
func NewReader(r io.Reader) *Reader {
	return &Reader{rr: recordio.NewReader(r)}
}

// Next returns the next record and the container offset it starts at, or
// io.EOF after the last record.
func (r *Reader) Next() (Record, int64, error) {
	offset := r.rr.Offset()
	data, err := r.rr.NextRecord()
	if err != nil {
		return Record{}, offset, err
	}
	rec, err := Decode(data)
	if err != nil {
		return Record{}, offset, fmt.Errorf("record at offset %d: %w", offset, err)
	}
	return rec, offset, nil
}

// Seek positions the reader at a record offset, such as one from an index file.
func (r *Reader) Seek(offset int64) error {
	return r.rr.Seek(offset)
}
