package imgcodec

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
)

// Output formats accepted by Encode.
const (
	FormatJPEG = ".jpg"
	FormatPNG  = ".png"
)

// DefaultPNGQuality is the compression level used when a JPEG-range quality
// is given for PNG output.
const DefaultPNGQuality = 3

// NormalizeFormat lowercases ext, adds a leading dot and rejects anything
// other than .jpg and .png. ".jpeg" is accepted as .jpg.
func NormalizeFormat(ext string) (string, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	switch ext {
	case FormatJPEG, ".jpeg":
		return FormatJPEG, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", fmt.Errorf("imgcodec: encoding must be .jpg or .png, got %q", ext)
}

// NormalizeQuality maps quality into the range the format understands. PNG
// treats quality as a 0-9 compression level; values above 9 fall back to
// DefaultPNGQuality.
func NormalizeQuality(format string, quality int) int {
	if format == FormatPNG {
		if quality > 9 {
			return DefaultPNGQuality
		}
		return max(quality, 0)
	}
	return min(max(quality, 1), 100)
}

// Encode serializes img in the given format.
func Encode(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: NormalizeQuality(format, quality)}); err != nil {
			return nil, fmt.Errorf("imgcodec: encode jpeg: %w", err)
		}
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: pngLevel(NormalizeQuality(format, quality))}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("imgcodec: encode png: %w", err)
		}
	default:
		return nil, fmt.Errorf("imgcodec: unsupported output format %q", format)
	}
	return buf.Bytes(), nil
}

func pngLevel(level int) png.CompressionLevel {
	switch {
	case level <= 0:
		return png.NoCompression
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}
