package testsupport

import (
	"fmt"
	"image/color"
	"path/filepath"
	"testing"
)

// Dataset is a generated image tree with a matching list file.
type Dataset struct {
	Root  string
	List  string
	Paths []string
	IDs   []uint64
}

// NewDataset writes n small PNG images of varying size and color under a temp
// root and a list file "<id>\t<label>\t<path>" with ids 0..n-1 and labels
// id%3.
func NewDataset(t testing.TB, n int) Dataset {
	t.Helper()

	base := t.TempDir()
	ds := Dataset{Root: filepath.Join(base, "images"), List: filepath.Join(base, "images.lst")}
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		rel := fmt.Sprintf("class%d/img_%03d.png", i%3, i)
		w, h := 8+i%5, 6+i%7
		WriteImage(t, filepath.Join(ds.Root, rel), SolidImage(w, h, color.RGBA{R: uint8(i * 7), G: uint8(i * 13), B: uint8(255 - i)}))
		lines = append(lines, fmt.Sprintf("%d\t%d\t%s", i, i%3, rel))
		ds.Paths = append(ds.Paths, rel)
		ds.IDs = append(ds.IDs, uint64(i))
	}
	WriteList(t, ds.List, lines...)
	return ds
}
