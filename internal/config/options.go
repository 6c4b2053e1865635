package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"im2rec/internal/faults"
)

// OptionKeys lists the key=value options understood by ApplyOptions. Any
// other key is reported as a warning.
var OptionKeys = []string{
	"color", "resize", "label_width", "nsplit", "part", "center_crop",
	"quality", "encoding", "inter_method", "unchanged",
	"seed", "index", "manifest", "progress",
}

// ApplyOptions overlays key=value command line options onto the config and
// re-validates it. Tokens without '=' and unknown keys are not applied; they
// are returned as warnings. Values that fail to parse are configuration
// errors.
func (c *Config) ApplyOptions(args []string) ([]string, error) {
	var warnings []string
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !ok || key == "" {
			warnings = append(warnings, fmt.Sprintf("ignoring malformed option %q (expected key=value)", arg))
			continue
		}
		if !slices.Contains(OptionKeys, key) {
			warnings = append(warnings, fmt.Sprintf("ignoring unknown option %q", key))
			continue
		}
		if err := c.setOption(key, value); err != nil {
			return warnings, faults.Wrap(faults.ErrConfiguration, "config", "option", key, err)
		}
	}
	if err := c.normalize(); err != nil {
		return warnings, err
	}
	return warnings, c.Validate()
}

func (c *Config) setOption(key, value string) error {
	p := &c.Pack
	var err error
	switch key {
	case "color":
		p.Color, err = parseInt(value)
	case "resize":
		p.Resize, err = parseInt(value)
	case "label_width":
		p.LabelWidth, err = parseInt(value)
	case "nsplit":
		p.NSplit, err = parseInt(value)
	case "part":
		p.Part, err = parseInt(value)
	case "center_crop":
		p.CenterCrop, err = parseFlag(value)
	case "quality":
		p.Quality, err = parseInt(value)
	case "encoding":
		p.Encoding = value
	case "inter_method":
		p.InterMethod, err = parseInt(value)
	case "unchanged":
		p.Unchanged, err = parseFlag(value)
	case "seed":
		var seed uint64
		seed, err = strconv.ParseUint(value, 10, 64)
		if err == nil {
			p.Seed = &seed
		}
	case "index":
		p.Index, err = parseFlag(value)
	case "progress":
		p.Progress, err = parseFlag(value)
	case "manifest":
		c.Paths.Manifest = value
	default:
		return fmt.Errorf("no setter for option %q", key)
	}
	return err
}

func parseInt(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", value)
	}
	return n, nil
}

// parseFlag accepts the integer form used on the command line (0 or any
// non-zero value) as well as true/false.
func parseFlag(value string) (bool, error) {
	if n, err := strconv.Atoi(value); err == nil {
		return n != 0, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%q is not a flag value", value)
	}
	return b, nil
}
