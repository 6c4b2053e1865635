package letterbox_test

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"im2rec/internal/interp"
	"im2rec/internal/letterbox"
)

func solidRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func solidGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestPlacement(t *testing.T) {
	cases := []struct {
		name       string
		w, h, size int
		want       image.Rectangle
	}{
		{"landscape", 300, 100, 100, image.Rect(0, 33, 100, 66)},
		{"portrait", 100, 300, 100, image.Rect(33, 0, 66, 100)},
		{"square", 64, 64, 32, image.Rect(0, 0, 32, 32)},
		{"exact ratio", 300, 150, 100, image.Rect(0, 25, 100, 75)},
		{"odd padding", 10, 7, 10, image.Rect(0, 1, 10, 8)},
		{"extreme aspect clamps to one", 1000, 1, 10, image.Rect(0, 4, 10, 5)},
		{"extreme portrait clamps to one", 1, 1000, 10, image.Rect(4, 0, 5, 10)},
		{"enlarge", 20, 10, 100, image.Rect(0, 25, 100, 75)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := letterbox.Placement(tc.w, tc.h, tc.size); got != tc.want {
				t.Fatalf("Placement(%d,%d,%d) = %v, want %v", tc.w, tc.h, tc.size, got, tc.want)
			}
		})
	}
}

func TestPlacementPaddingSplit(t *testing.T) {
	for w := 1; w <= 40; w++ {
		for h := 1; h <= w; h++ {
			r := letterbox.Placement(w, h, 32)
			if r.Dx() != 32 {
				t.Fatalf("%dx%d: long edge must fill the canvas, got width %d", w, h, r.Dx())
			}
			top, bottom := r.Min.Y, 32-r.Max.Y
			if top != bottom && top+1 != bottom {
				t.Fatalf("%dx%d: padding split %d/%d is not floor/ceil", w, h, top, bottom)
			}
		}
	}
}

func TestSquareBordersAreZero(t *testing.T) {
	src := solidRGBA(300, 100, color.RGBA{R: 200, G: 120, B: 40, A: 255})
	for a := interp.Nearest; a <= interp.Lanczos4; a++ {
		t.Run(a.String(), func(t *testing.T) {
			out, err := letterbox.Square(src, 100, a)
			if err != nil {
				t.Fatalf("Square: %v", err)
			}
			dst, ok := out.(*image.RGBA)
			if !ok {
				t.Fatalf("expected *image.RGBA, got %T", out)
			}
			if dst.Bounds() != image.Rect(0, 0, 100, 100) {
				t.Fatalf("unexpected bounds %v", dst.Bounds())
			}
			roi := letterbox.Placement(300, 100, 100)
			for y := 0; y < 100; y++ {
				for x := 0; x < 100; x++ {
					c := dst.RGBAAt(x, y)
					inside := image.Pt(x, y).In(roi)
					if !inside && (c.R != 0 || c.G != 0 || c.B != 0) {
						t.Fatalf("pixel (%d,%d) outside %v is %v, want zero", x, y, roi, c)
					}
					if inside && c.R == 0 {
						t.Fatalf("pixel (%d,%d) inside %v is empty", x, y, roi)
					}
					if c.A != 0xff {
						t.Fatalf("pixel (%d,%d) alpha = %d, want opaque", x, y, c.A)
					}
				}
			}
		})
	}
}

func TestSquarePortraitGray(t *testing.T) {
	src := solidGray(40, 120, 90)
	out, err := letterbox.Square(src, 60, interp.Linear)
	if err != nil {
		t.Fatalf("Square: %v", err)
	}
	dst, ok := out.(*image.Gray)
	if !ok {
		t.Fatalf("expected *image.Gray, got %T", out)
	}
	roi := letterbox.Placement(40, 120, 60)
	if roi != image.Rect(20, 0, 40, 60) {
		t.Fatalf("unexpected placement %v", roi)
	}
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			v := dst.GrayAt(x, y).Y
			inside := image.Pt(x, y).In(roi)
			if inside && v != 90 {
				t.Fatalf("pixel (%d,%d) = %d, want 90", x, y, v)
			}
			if !inside && v != 0 {
				t.Fatalf("pixel (%d,%d) = %d, want 0", x, y, v)
			}
		}
	}
}

func TestSquareRejectsBadInput(t *testing.T) {
	if _, err := letterbox.Square(solidGray(4, 4, 1), 0, interp.Linear); err == nil {
		t.Fatal("expected error for non-positive size")
	}
	paletted := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.Black})
	if _, err := letterbox.Square(paletted, 8, interp.Linear); !errors.Is(err, letterbox.ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage, got %v", err)
	}
}

func TestCenterCrop(t *testing.T) {
	src := solidRGBA(300, 100, color.RGBA{A: 255})
	src.SetRGBA(100, 0, color.RGBA{R: 1, A: 255})
	out, err := letterbox.CenterCrop(src)
	if err != nil {
		t.Fatalf("CenterCrop: %v", err)
	}
	if out.Bounds() != image.Rect(100, 0, 200, 100) {
		t.Fatalf("unexpected crop %v", out.Bounds())
	}
	if r, _, _, _ := out.At(100, 0).RGBA(); r == 0 {
		t.Fatal("expected crop to start at the marked column")
	}

	tall, err := letterbox.CenterCrop(solidGray(10, 31, 5))
	if err != nil {
		t.Fatalf("CenterCrop: %v", err)
	}
	if tall.Bounds() != image.Rect(0, 10, 10, 20) {
		t.Fatalf("unexpected crop %v", tall.Bounds())
	}
}

func TestSquareOfCroppedImage(t *testing.T) {
	cropped, err := letterbox.CenterCrop(solidRGBA(300, 100, color.RGBA{G: 77, A: 255}))
	if err != nil {
		t.Fatalf("CenterCrop: %v", err)
	}
	out, err := letterbox.Square(cropped, 50, interp.Area)
	if err != nil {
		t.Fatalf("Square: %v", err)
	}
	dst := out.(*image.RGBA)
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if dst.RGBAAt(x, y).G == 0 {
				t.Fatalf("square crop should fill the canvas, (%d,%d) is empty", x, y)
			}
		}
	}
}
