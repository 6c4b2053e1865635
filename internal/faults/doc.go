// Package faults defines the error markers shared by the packing pipeline.
//
// Every failure that reaches the CLI carries one of the sentinel markers so
// callers can tell configuration mistakes apart from bad list entries, broken
// source images, or output failures with errors.Is. Wrap attaches the stage
// and operation that failed without hiding the underlying cause.
package faults
