// Package pipeline drives one packing run: it streams the entries of one list
// partition through load, decode, crop, letterbox, statistics and encode, and
// appends each result as an image record to the partition's container.
//
// A Driver owns its statistics accumulator and random generator, writes an
// optional "<container>.idx" offset index and SQLite manifest, logs a
// checkpoint every CheckpointInterval records, and fails fast on the first
// unusable entry. Records written before a failure stay in the container.
package pipeline
