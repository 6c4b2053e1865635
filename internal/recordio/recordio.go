package recordio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Magic marks the start of every record part.
const Magic uint32 = 0xced7230a

// MaxRecordSize is the largest payload a single part can describe.
const MaxRecordSize = 1<<29 - 1

const (
	flagWhole  = 0
	flagFirst  = 1
	flagMiddle = 2
	flagLast   = 3
)

var (
	// ErrRecordTooLarge is returned for payloads that do not fit the length word.
	ErrRecordTooLarge = errors.New("recordio: record too large")
	// ErrCorrupt is returned when the stream does not contain valid framing.
	ErrCorrupt = errors.New("recordio: corrupt stream")
)

var zeroPad [4]byte

func encodeLRec(cflag uint32, length int) uint32 {
	return cflag<<29 | uint32(length)
}

func decodeFlag(lrec uint32) uint32 { return lrec >> 29 }

func decodeLength(lrec uint32) int { return int(lrec & MaxRecordSize) }

func align4(n int) int { return (n + 3) &^ 3 }

// Writer appends framed records to an underlying stream.
type Writer struct {
	w      *bufio.Writer
	offset int64
	splits int
}

// NewWriter wraps w. start is the byte offset of w's current position, so
// offsets returned by WriteRecord are absolute within the file.
func NewWriter(w io.Writer, start int64) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, 1<<20), offset: start}
}

// Offset returns the byte offset at which the next record will start.
func (w *Writer) Offset() int64 { return w.offset }

// Splits reports how many times a payload had to be split around an embedded
// magic word.
func (w *Writer) Splits() int { return w.splits }

// WriteRecord frames data and returns the offset of the record start.
func (w *Writer) WriteRecord(data []byte) (int64, error) {
	if len(data) > MaxRecordSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrRecordTooLarge, len(data))
	}
	start := w.offset
	lowerAlign := len(data) &^ 3
	dptr := 0
	for i := 0; i < lowerAlign; i += 4 {
		if binary.LittleEndian.Uint32(data[i:]) != Magic {
			continue
		}
		cflag := uint32(flagMiddle)
		if dptr == 0 {
			cflag = flagFirst
		}
		if err := w.writePart(cflag, data[dptr:i]); err != nil {
			return 0, err
		}
		dptr = i + 4
		w.splits++
	}
	cflag := uint32(flagWhole)
	if dptr != 0 {
		cflag = flagLast
	}
	if err := w.writePart(cflag, data[dptr:]); err != nil {
		return 0, err
	}
	return start, nil
}

func (w *Writer) writePart(cflag uint32, part []byte) error {
	var head [8]byte
	binary.LittleEndian.PutUint32(head[0:], Magic)
	binary.LittleEndian.PutUint32(head[4:], encodeLRec(cflag, len(part)))
	if _, err := w.w.Write(head[:]); err != nil {
		return err
	}
	if _, err := w.w.Write(part); err != nil {
		return err
	}
	pad := align4(len(part)) - len(part)
	if pad > 0 {
		if _, err := w.w.Write(zeroPad[:pad]); err != nil {
			return err
		}
	}
	w.offset += int64(len(head) + len(part) + pad)
	return nil
}

// Flush writes any buffered data to the underlying stream.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Reader reads framed records sequentially.
type Reader struct {
	src    io.Reader
	r      *bufio.Reader
	offset int64
}

// NewReader wraps r. If r also implements io.Seeker, Seek can be used to jump
// to an offset taken from an index.
func NewReader(r io.Reader) *Reader {
	return &Reader{src: r, r: bufio.NewReaderSize(r, 1<<20)}
}

// Offset returns the byte offset of the next record.
func (r *Reader) Offset() int64 { return r.offset }

// Seek positions the reader at a record start previously returned by
// Writer.WriteRecord.
func (r *Reader) Seek(offset int64) error {
	seeker, ok := r.src.(io.Seeker)
	if !ok {
		return errors.New("recordio: underlying reader is not seekable")
	}
	if _, err := seeker.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	r.r.Reset(r.src)
	r.offset = offset
	return nil
}

// NextRecord returns the next reassembled record. It returns io.EOF when the
// stream ends cleanly between records.
func (r *Reader) NextRecord() ([]byte, error) {
	cflag, part, err := r.readPart()
	if err != nil {
		return nil, err
	}
	if cflag == flagWhole {
		return part, nil
	}
	if cflag != flagFirst {
		return nil, fmt.Errorf("%w: unexpected continuation flag %d", ErrCorrupt, cflag)
	}
	out := part
	var magic [4]byte
	binary.LittleEndian.PutUint32(magic[:], Magic)
	for cflag != flagLast {
		out = append(out, magic[:]...)
		cflag, part, err = r.readPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = fmt.Errorf("%w: truncated multi-part record", ErrCorrupt)
			}
			return nil, err
		}
		if cflag != flagMiddle && cflag != flagLast {
			return nil, fmt.Errorf("%w: unexpected continuation flag %d", ErrCorrupt, cflag)
		}
		out = append(out, part...)
	}
	return out, nil
}

func (r *Reader) readPart() (uint32, []byte, error) {
	var head [8]byte
	n, err := io.ReadFull(r.r, head[:])
	if err != nil {
		if errors.Is(err, io.EOF) && n == 0 {
			return 0, nil, io.EOF
		}
		return 0, nil, fmt.Errorf("%w: short header: %w", ErrCorrupt, err)
	}
	if binary.LittleEndian.Uint32(head[0:]) != Magic {
		return 0, nil, fmt.Errorf("%w: bad magic at offset %d", ErrCorrupt, r.offset)
	}
	lrec := binary.LittleEndian.Uint32(head[4:])
	length := decodeLength(lrec)
	buf := make([]byte, align4(length))
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return 0, nil, fmt.Errorf("%w: short payload: %w", ErrCorrupt, err)
	}
	r.offset += int64(len(head) + len(buf))
	return decodeFlag(lrec), buf[:length], nil
}
