// Package manifest records packing runs and the records they wrote in a
// SQLite database.
//
// Each run row captures the list, root, output partition, options and final
// statistics; each record row maps an image id and source path to its byte
// offset and size inside the container. The manifest is optional and never
// read back by the packer itself; it exists so runs can be audited and
// records located without scanning the container.
package manifest
