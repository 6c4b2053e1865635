package mklist

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExts are the file extensions listed when none are given.
var DefaultExts = []string{".jpeg", ".jpg", ".png"}

// Item is one image of a generated list.
type Item struct {
	ID    uint64
	Path  string
	Label float64
}

// Scan lists the images under root whose extension is in exts, compared case
// insensitively. Without recursion only the files directly in root are
// listed, all with label 0. With recursion every directory that contains at
// least one image gets its own label, numbered in visiting order; a
// directory's files are visited before its subdirectories and both in name
// order. Paths are relative to root and use forward slashes.
func Scan(root string, recursive bool, exts []string) ([]Item, error) {
	if len(exts) == 0 {
		exts = DefaultExts
	}
	allowed := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed = append(allowed, ext)
	}

	s := &scanner{root: root, exts: allowed, labels: map[string]float64{}}
	if err := s.dir(root, recursive); err != nil {
		return nil, err
	}
	return s.items, nil
}

type scanner struct {
	root   string
	exts   []string
	labels map[string]float64
	items  []Item
}

func (s *scanner) dir(dir string, recursive bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", dir, err)
	}

	var subdirs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			subdirs = append(subdirs, path)
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		if !slices.Contains(s.exts, strings.ToLower(filepath.Ext(entry.Name()))) {
			continue
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		label := 0.0
		if recursive {
			var ok bool
			if label, ok = s.labels[dir]; !ok {
				label = float64(len(s.labels))
				s.labels[dir] = label
			}
		}
		s.items = append(s.items, Item{
			ID:    uint64(len(s.items)),
			Path:  filepath.ToSlash(rel),
			Label: label,
		})
	}

	if !recursive {
		return nil
	}
	for _, sub := range subdirs {
		if err := s.dir(sub, true); err != nil {
			return err
		}
	}
	return nil
}
