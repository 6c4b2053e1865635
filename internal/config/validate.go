package config

import (
	"fmt"

	"im2rec/internal/faults"
	"im2rec/internal/imgcodec"
	"im2rec/internal/interp"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePack(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePack() error {
	p := c.Pack
	if _, err := imgcodec.ParseColorMode(p.Color); err != nil {
		return invalid("pack.color", err)
	}
	if _, err := imgcodec.NormalizeFormat(p.Encoding); err != nil {
		return invalid("pack.encoding", err)
	}
	if _, err := interp.ParseMode(p.InterMethod); err != nil {
		return invalid("pack.inter_method", err)
	}
	if p.LabelWidth < 1 {
		return invalid("pack.label_width", fmt.Errorf("must be at least 1, got %d", p.LabelWidth))
	}
	if p.NSplit < 1 {
		return invalid("pack.nsplit", fmt.Errorf("must be at least 1, got %d", p.NSplit))
	}
	if p.Part < 0 || p.Part >= p.NSplit {
		return invalid("pack.part", fmt.Errorf("must be in [0, %d), got %d", p.NSplit, p.Part))
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	}
	return invalid("logging.level", fmt.Errorf("unknown level %q", c.Logging.Level))
}

func invalid(field string, err error) error {
	return faults.Wrap(faults.ErrConfiguration, "config", "validate", field, err)
}
