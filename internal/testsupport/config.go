package testsupport

import (
	"path/filepath"
	"testing"

	"im2rec/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a default config whose optional files live in a per-test
// temp directory, then applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfgVal := config.Default()
	cfgVal.Pack.Progress = false
	builder := &configBuilder{t: t, baseDir: t.TempDir(), cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithOptions applies key=value options as the command line would.
func WithOptions(args ...string) ConfigOption {
	return func(b *configBuilder) {
		if _, err := b.cfg.ApplyOptions(args); err != nil {
			b.t.Fatalf("apply options %v: %v", args, err)
		}
	}
}

// WithManifest enables the manifest in the config's temp directory.
func WithManifest() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.Manifest = filepath.Join(b.baseDir, "manifest.db")
	}
}

// WithLogFile routes a JSON copy of the logs into the temp directory.
func WithLogFile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.LogFile = filepath.Join(b.baseDir, "im2rec.log")
	}
}
