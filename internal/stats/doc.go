// Package stats accumulates pixel mean and standard deviation over a stream
// of images that cannot be held in memory at once.
//
// Running applies Welford's incremental update, which stays numerically stable
// at corpus scale where a naive sum-of-squares loses precision. Accumulator
// keeps one Running for all samples pooled together and one per channel. The
// values are owned by whoever drives the stream; nothing here is global.
package stats
