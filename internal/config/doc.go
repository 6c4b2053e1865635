// Package config loads, normalizes, and validates im2rec configuration data.
//
// Settings come from three layers applied in order: repository defaults, an
// optional TOML file (~/.config/im2rec/config.toml, ./im2rec.toml, or an
// explicit --config path), and the key=value options given on the command
// line. The Config type gathers the packing options, logging settings, and
// auxiliary paths in one place.
//
// Always obtain settings through this package so downstream code receives
// normalized encodings, expanded paths, and configuration errors carrying the
// faults.ErrConfiguration marker.
package config
