// Package imagerec encodes the fixed-layout image record stored inside each
// RecordIO frame: a 24-byte header, optional extra labels, then the image
// payload.
package imagerec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// HeaderSize is the fixed size of the record header in bytes.
const HeaderSize = 24

var (
	// ErrEmptyLabel is returned when a record is encoded without any label.
	ErrEmptyLabel = errors.New("imagerec: label must contain at least one value")
	// ErrShortRecord is returned when a buffer is too small for its header.
	ErrShortRecord = errors.New("imagerec: record shorter than header")
)

// Header mirrors the on-disk header. Flag is 0 when a single label is stored
// inline in Label; otherwise it holds the number of float32 labels that follow
// the header and Label is 0. Reserved is always written as zero.
type Header struct {
	Flag     uint32
	Label    float32
	ImageID  uint64
	Reserved uint64
}

// Record is a decoded image record.
type Record struct {
	Header  Header
	Labels  []float32
	Payload []byte
}

// ID returns the image identifier.
func (r Record) ID() uint64 { return r.Header.ImageID }

// Encode serializes the header, labels and payload into one buffer ready to
// be framed by the container.
func Encode(imageID uint64, label []float32, payload []byte) ([]byte, error) {
	if len(label) == 0 {
		return nil, ErrEmptyLabel
	}
	extra := 0
	if len(label) > 1 {
		extra = len(label)
	}
	buf := make([]byte, HeaderSize+4*extra+len(payload))
	h := Header{ImageID: imageID}
	if extra > 0 {
		h.Flag = uint32(extra)
	} else {
		h.Label = label[0]
	}
	putHeader(buf, h)
	off := HeaderSize
	if extra > 0 {
		for _, v := range label {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
			off += 4
		}
	}
	copy(buf[off:], payload)
	return buf, nil
}

// Decode parses a record produced by Encode. The returned payload aliases data.
func Decode(data []byte) (Record, error) {
	if len(data) < HeaderSize {
		return Record{}, fmt.Errorf("%w: %d bytes", ErrShortRecord, len(data))
	}
	h := Header{
		Flag:     binary.LittleEndian.Uint32(data[0:]),
		Label:    math.Float32frombits(binary.LittleEndian.Uint32(data[4:])),
		ImageID:  binary.LittleEndian.Uint64(data[8:]),
		Reserved: binary.LittleEndian.Uint64(data[16:]),
	}
	rec := Record{Header: h}
	off := HeaderSize
	if h.Flag == 0 {
		rec.Labels = []float32{h.Label}
	} else {
		need := off + 4*int(h.Flag)
		if need > len(data) || need < off {
			return Record{}, fmt.Errorf("%w: header declares %d labels in %d bytes", ErrShortRecord, h.Flag, len(data))
		}
		rec.Labels = make([]float32, h.Flag)
		for i := range rec.Labels {
			rec.Labels[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
	}
	rec.Payload = data[off:]
	return rec, nil
}

func putHeader(buf []byte, h Header) {
	binary.LittleEndian.PutUint32(buf[0:], h.Flag)
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(h.Label))
	binary.LittleEndian.PutUint64(buf[8:], h.ImageID)
	binary.LittleEndian.PutUint64(buf[16:], h.Reserved)
}
