package config

import (
	"fmt"
	"strings"

	"im2rec/internal/imgcodec"
)

func (c *Config) normalize() error {
	c.normalizePack()
	c.normalizeLogging()
	return c.normalizePaths()
}

func (c *Config) normalizePack() {
	if format, err := imgcodec.NormalizeFormat(c.Pack.Encoding); err == nil {
		c.Pack.Encoding = format
	} else {
		c.Pack.Encoding = strings.ToLower(strings.TrimSpace(c.Pack.Encoding))
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LogFile, err = expandPath(strings.TrimSpace(c.Paths.LogFile)); err != nil {
		return fmt.Errorf("paths.log_file: %w", err)
	}
	if c.Paths.Manifest, err = expandPath(strings.TrimSpace(c.Paths.Manifest)); err != nil {
		return fmt.Errorf("paths.manifest: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
