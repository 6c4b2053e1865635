// Package main hosts the im2rec CLI entrypoint and command graph.
//
// The root command packs an image list into a RecordIO container:
//
//	im2rec <image_list> <image_root_dir> <output> [key=value ...]
//
// Subcommands generate lists from a directory tree, inspect packed
// containers and scaffold the TOML configuration. Configuration resolution,
// logging setup and signal handling live here; the packing itself is done by
// internal/pipeline.
package main
