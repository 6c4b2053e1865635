package testsupport

import (
	"path/filepath"
	"testing"

	"im2rec/internal/manifest"
)

// MustOpenManifest opens a manifest.Store in a temp directory and registers
// cleanup.
func MustOpenManifest(t testing.TB) *manifest.Store {
	t.Helper()

	store, err := manifest.Open(filepath.Join(t.TempDir(), "manifest.db"))
	if err != nil {
		t.Fatalf("manifest.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
