// Package source loads raw image bytes by list path.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Source returns the bytes of the image stored under a list-relative path.
type Source interface {
	Load(rel string) ([]byte, error)
}

// Dir loads images from a directory on the local filesystem.
type Dir struct {
	Root string
}

// NewDir returns a Source rooted at root. An empty root resolves paths
// against the working directory.
func NewDir(root string) Dir {
	return Dir{Root: root}
}

// Resolve joins rel onto the root. Absolute list paths are used as is when
// the root is empty.
func (d Dir) Resolve(rel string) string {
	if d.Root == "" {
		return filepath.FromSlash(rel)
	}
	return filepath.Join(d.Root, filepath.FromSlash(rel))
}

// Load reads the whole file.
func (d Dir) Load(rel string) ([]byte, error) {
	full := d.Resolve(rel)
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", full, err)
	}
	return data, nil
}

// FS loads images from an fs.FS, such as an embedded tree or fstest.MapFS.
type FS struct {
	FS fs.FS
}

// Load reads rel from the filesystem after cleaning it into a valid fs path.
func (s FS) Load(rel string) ([]byte, error) {
	name := path.Clean(strings.TrimPrefix(filepath.ToSlash(rel), "/"))
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("read %s: %w", rel, fs.ErrInvalid)
	}
	data, err := fs.ReadFile(s.FS, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return data, nil
}

// IsNotExist reports whether err means the image file is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
