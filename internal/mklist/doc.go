// Package mklist generates image list files from a directory tree.
//
// Lists are written in the format the packer reads: an integer id, the
// labels and the image path relative to the root, separated by tabs. A tree
// can be split into chunks and each chunk into train, validation and test
// lists.
package mklist
