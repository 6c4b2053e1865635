package pipeline

import (
	"fmt"
	"image"

	"im2rec/internal/faults"
	"im2rec/internal/imagerec"
	"im2rec/internal/imgcodec"
	"im2rec/internal/interp"
	"im2rec/internal/letterbox"
	"im2rec/internal/listfile"
	"im2rec/internal/source"
	"im2rec/internal/stats"
)

// stage names the step of the per-entry state machine an error came from.
type stage int

const (
	stageLoad stage = iota
	stageDecode
	stageTransform
	stageStats
	stageEncode
	stageRecord
	stageWrite
)

func (s stage) String() string {
	switch s {
	case stageLoad:
		return "load"
	case stageDecode:
		return "decode"
	case stageTransform:
		return "transform"
	case stageStats:
		return "stats"
	case stageEncode:
		return "encode"
	case stageRecord:
		return "record"
	case stageWrite:
		return "write"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

func describe(entry listfile.Entry) string {
	return fmt.Sprintf("image %d (%s)", entry.ID, entry.Path)
}

// payload produces the bytes stored after the record header: the source
// bytes verbatim in unchanged mode, otherwise the re-encoded, letterboxed
// image. The returned accumulator holds the statistics of the transformed
// image; the caller merges it once the record is written.
func (d *Driver) payload(entry listfile.Entry) ([]byte, *stats.Accumulator, error) {
	var sample stats.Accumulator
	raw, err := d.source.Load(entry.Path)
	if err != nil {
		detail := describe(entry)
		if source.IsNotExist(err) {
			detail += " not found under " + d.job.RootDir
		}
		return nil, nil, faults.Wrap(faults.ErrSource, "pipeline", stageLoad.String(), detail, err)
	}
	if d.job.Pack.Unchanged {
		return raw, &sample, nil
	}

	img, _, err := imgcodec.Decode(raw, d.color)
	if err != nil {
		return nil, nil, faults.Wrap(faults.ErrDecode, "pipeline", stageDecode.String(), describe(entry), err)
	}

	img, err = d.transform(img)
	if err != nil {
		return nil, nil, faults.Wrap(faults.ErrDecode, "pipeline", stageTransform.String(), describe(entry), err)
	}

	if err := sample.AddImage(img); err != nil {
		return nil, nil, faults.Wrap(faults.ErrDecode, "pipeline", stageStats.String(), describe(entry), err)
	}

	encoded, err := imgcodec.Encode(img, d.job.Pack.Encoding, d.quality)
	if err != nil {
		return nil, nil, faults.Wrap(faults.ErrEncode, "pipeline", stageEncode.String(), describe(entry), err)
	}
	return encoded, &sample, nil
}

// transform applies the optional center crop and the square letterbox. With
// resizing disabled the decoded image passes through untouched.
func (d *Driver) transform(img image.Image) (image.Image, error) {
	size := d.job.Pack.Resize
	if size <= 0 {
		return img, nil
	}
	if d.job.Pack.CenterCrop {
		cropped, err := letterbox.CenterCrop(img)
		if err != nil {
			return nil, err
		}
		img = cropped
	}
	b := img.Bounds()
	algo := interp.Select(d.mode, b.Dx(), b.Dy(), size, size, d.rng)
	return letterbox.Square(img, size, algo)
}

func encodeRecord(entry listfile.Entry, payload []byte) ([]byte, error) {
	return imagerec.Encode(entry.ID, entry.Label, payload)
}
