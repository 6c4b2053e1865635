package imgcodec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ColorMode selects the channel layout of decoded images.
type ColorMode int

const (
	// ColorUnchanged keeps grayscale sources gray and color sources color,
	// preserving any alpha channel.
	ColorUnchanged ColorMode = -1
	// ColorGray converts every source to a single luma channel.
	ColorGray ColorMode = 0
	// ColorRGB converts every source to opaque three-channel color.
	ColorRGB ColorMode = 1
)

// ErrEmptyInput is returned when Decode is given no bytes.
var ErrEmptyInput = errors.New("imgcodec: empty input")

// ParseColorMode validates the numeric color option.
func ParseColorMode(v int) (ColorMode, error) {
	switch ColorMode(v) {
	case ColorUnchanged, ColorGray, ColorRGB:
		return ColorMode(v), nil
	}
	return 0, fmt.Errorf("imgcodec: color must be -1, 0 or 1, got %d", v)
}

func (m ColorMode) String() string {
	switch m {
	case ColorUnchanged:
		return "unchanged"
	case ColorGray:
		return "gray"
	case ColorRGB:
		return "color"
	default:
		return fmt.Sprintf("ColorMode(%d)", int(m))
	}
}

// Decode decodes raw into *image.Gray or *image.RGBA according to mode and
// returns the detected source format name.
func Decode(raw []byte, mode ColorMode) (image.Image, string, error) {
	if len(raw) == 0 {
		return nil, "", ErrEmptyInput
	}
	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("imgcodec: decode: %w", err)
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, format, fmt.Errorf("imgcodec: decode %s: empty image %v", format, b)
	}
	switch mode {
	case ColorGray:
		return toGray(src), format, nil
	case ColorRGB:
		return toRGBA(src, true), format, nil
	case ColorUnchanged:
		if isGray(src) {
			return toGray(src), format, nil
		}
		return toRGBA(src, false), format, nil
	default:
		return nil, format, fmt.Errorf("imgcodec: unknown color mode %d", int(mode))
	}
}

// Config reports the format and dimensions of raw without decoding pixels.
func Config(raw []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("imgcodec: decode config: %w", err)
	}
	return cfg, format, nil
}

func isGray(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	}
	return false
}

func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	if g, ok := src.(*image.Gray); ok && b.Min == (image.Point{}) {
		return g
	}
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// toRGBA converts src to *image.RGBA. When opaque is set the color channels
// are composited over black and alpha is forced to 255.
func toRGBA(src image.Image, opaque bool) *image.RGBA {
	b := src.Bounds()
	dst, ok := src.(*image.RGBA)
	if !ok || b.Min != (image.Point{}) {
		dst = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	}
	if opaque {
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = 0xff
		}
	}
	return dst
}
