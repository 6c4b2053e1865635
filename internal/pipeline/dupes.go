package pipeline

import (
	"encoding/binary"
	"slices"

	"github.com/bits-and-blooms/bloom/v3"
)

// dupTracker detects repeated image ids. The bloom filter answers the common
// "never seen" case; positives are confirmed against the id log.
type dupTracker struct {
	filter *bloom.BloomFilter
	ids    []uint64
	key    [8]byte
}

func newDupTracker(expected uint) *dupTracker {
	return &dupTracker{filter: bloom.NewWithEstimates(max(expected, 1024), 1e-4)}
}

// seen records id and reports whether it was recorded before.
func (d *dupTracker) seen(id uint64) bool {
	binary.LittleEndian.PutUint64(d.key[:], id)
	maybe := d.filter.TestAndAdd(d.key[:])
	dup := maybe && slices.Contains(d.ids, id)
	d.ids = append(d.ids, id)
	return dup
}
