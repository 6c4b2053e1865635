package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"im2rec/internal/config"
	"im2rec/internal/faults"
)

func TestLoadDefaultConfigWithoutFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(tempHome, ".config", "im2rec", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	want := config.Default()
	if cfg.Pack.Color != want.Pack.Color || cfg.Pack.Resize != -1 || cfg.Pack.InterMethod != 9 {
		t.Fatalf("unexpected pack defaults: %+v", cfg.Pack)
	}
	if cfg.Pack.Encoding != ".jpg" || cfg.Pack.Quality != 100 {
		t.Fatalf("unexpected encoding defaults: %q %d", cfg.Pack.Encoding, cfg.Pack.Quality)
	}
	if !cfg.Pack.Index || !cfg.Pack.Progress || cfg.Pack.Seed != nil {
		t.Fatalf("unexpected flag defaults: %+v", cfg.Pack)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadPrefersProjectFileOverUserConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	workDir := t.TempDir()
	t.Chdir(workDir)

	userPath := filepath.Join(tempHome, ".config", "im2rec", "config.toml")
	if err := os.MkdirAll(filepath.Dir(userPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(userPath, []byte("[pack]\nresize = 64\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	projectPath := filepath.Join(workDir, "im2rec.toml")
	if err := os.WriteFile(projectPath, []byte("[pack]\nresize = 32\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != projectPath {
		t.Fatalf("expected %q to be loaded, got %q (exists=%v)", projectPath, resolved, exists)
	}
	if cfg.Pack.Resize != 32 {
		t.Fatalf("expected project resize 32, got %d", cfg.Pack.Resize)
	}

	if err := os.Remove(projectPath); err != nil {
		t.Fatal(err)
	}
	cfg, resolved, _, err = config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolved != userPath || cfg.Pack.Resize != 64 {
		t.Fatalf("expected user config fallback, got %q resize=%d", resolved, cfg.Pack.Resize)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "im2rec.toml")

	type payload struct {
		Pack struct {
			Resize   int    `toml:"resize"`
			Encoding string `toml:"encoding"`
			Seed     uint64 `toml:"seed"`
		} `toml:"pack"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
		Paths struct {
			Manifest string `toml:"manifest"`
		} `toml:"paths"`
	}
	custom := payload{}
	custom.Pack.Resize = 224
	custom.Pack.Encoding = "PNG"
	custom.Pack.Seed = 7
	custom.Logging.Format = "JSON"
	custom.Paths.Manifest = "~/runs.db"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Pack.Resize != 224 || cfg.Pack.Encoding != ".png" {
		t.Fatalf("unexpected pack: %+v", cfg.Pack)
	}
	if cfg.Pack.Seed == nil || *cfg.Pack.Seed != 7 {
		t.Fatalf("expected seed 7, got %v", cfg.Pack.Seed)
	}
	if cfg.Pack.EffectiveQuality() != 3 {
		t.Fatalf("expected png quality fallback 3, got %d", cfg.Pack.EffectiveQuality())
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json format, got %q", cfg.Logging.Format)
	}
	if cfg.Paths.Manifest != filepath.Join(home, "runs.db") {
		t.Fatalf("expected expanded manifest path, got %q", cfg.Paths.Manifest)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(configPath, []byte("[pack]\nresise = 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	cfg, resolved, exists, err := config.Load(missing)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists || resolved != missing || cfg == nil {
		t.Fatalf("unexpected result: %q exists=%v", resolved, exists)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "inter_method") {
		t.Fatalf("sample config missing inter_method: %s", contents)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	def := config.Default()
	if cfg.Pack.Resize != def.Pack.Resize || cfg.Pack.Encoding != def.Pack.Encoding || cfg.Pack.LabelWidth != def.Pack.LabelWidth {
		t.Fatalf("sample differs from defaults: %+v", cfg.Pack)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := config.Default()
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back config.Config
	if err := toml.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Pack != cfg.Pack {
		t.Fatalf("round trip mismatch: %+v vs %+v", back.Pack, cfg.Pack)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"color", func(c *config.Config) { c.Pack.Color = 2 }},
		{"encoding", func(c *config.Config) { c.Pack.Encoding = ".bmp" }},
		{"inter_method", func(c *config.Config) { c.Pack.InterMethod = 5 }},
		{"label_width", func(c *config.Config) { c.Pack.LabelWidth = 0 }},
		{"nsplit", func(c *config.Config) { c.Pack.NSplit = 0 }},
		{"part negative", func(c *config.Config) { c.Pack.Part = -1 }},
		{"part too large", func(c *config.Config) { c.Pack.NSplit = 4; c.Pack.Part = 4 }},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, faults.ErrConfiguration) {
				t.Fatalf("expected configuration marker, got %v", err)
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
