// Package letterbox fits images of any aspect ratio into a fixed square canvas.
//
// The long edge fills the canvas, the short edge is scaled by the same factor
// and centered, and everything outside the scaled region stays zero. Supported
// images are *image.Gray and *image.RGBA, the two layouts produced by the
// image codec; the output has the same layout as the input.
package letterbox

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"im2rec/internal/interp"
)

// ErrUnsupportedImage is returned for image types other than *image.Gray and
// *image.RGBA.
var ErrUnsupportedImage = errors.New("letterbox: unsupported image type")

// Placement returns the sub-rectangle of a size×size canvas that a w×h image
// occupies after letterboxing. The short edge is floor(short*size/long),
// computed in integers so exact ratios never round down by one, and clamped
// to at least one pixel.
func Placement(w, h, size int) image.Rectangle {
	if w >= h {
		scaled := max(h*size/w, 1)
		y := (size - scaled) / 2
		return image.Rect(0, y, size, y+scaled)
	}
	scaled := max(w*size/h, 1)
	x := (size - scaled) / 2
	return image.Rect(x, 0, x+scaled, size)
}

// Square resizes img into the centered placement of a size×size canvas
// using algo. Canvas pixels outside the placement are zero in every color
// channel; RGBA canvases keep alpha opaque.
func Square(img image.Image, size int, algo interp.Algorithm) (image.Image, error) {
	if size <= 0 {
		return nil, fmt.Errorf("letterbox: target size must be positive, got %d", size)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("letterbox: empty source image %v", b)
	}
	canvas, err := newCanvas(img, size)
	if err != nil {
		return nil, err
	}
	roi := Placement(b.Dx(), b.Dy(), size)
	algo.Scaler().Scale(canvas, roi, img, b, draw.Src, nil)
	return canvas, nil
}

// CenterCrop returns the centered square of side min(w, h). The result shares
// pixels with img.
func CenterCrop(img image.Image) (image.Image, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	var r image.Rectangle
	if h > w {
		margin := (h - w) / 2
		r = image.Rect(b.Min.X, b.Min.Y+margin, b.Max.X, b.Min.Y+margin+w)
	} else {
		margin := (w - h) / 2
		r = image.Rect(b.Min.X+margin, b.Min.Y, b.Min.X+margin+h, b.Max.Y)
	}
	switch src := img.(type) {
	case *image.Gray:
		return src.SubImage(r), nil
	case *image.RGBA:
		return src.SubImage(r), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedImage, img)
	}
}

func newCanvas(img image.Image, size int) (draw.Image, error) {
	rect := image.Rect(0, 0, size, size)
	switch img.(type) {
	case *image.Gray:
		return image.NewGray(rect), nil
	case *image.RGBA:
		canvas := image.NewRGBA(rect)
		for i := 3; i < len(canvas.Pix); i += 4 {
			canvas.Pix[i] = 0xff
		}
		return canvas, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedImage, img)
	}
}
