package index

import (
	"sync/atomic"
)

// Dynamic holds the live index behind an atomic.Value so resolution reads are
// lock-free and a reload swaps the whole index in one assignment; readers
// never observe a partially built index. Concurrent reloads are not mutually
// exclusive: last write wins, which is acceptable for an infrequent admin
// operation.
type Dynamic struct {
	v atomic.Value
}

// Get returns the current index; before the first Set it returns an empty
// index so callers never handle nil.
func (d *Dynamic) Get() Index {
	x := d.v.Load()
	if x == nil {
		return Index{}
	}
	return x.(Index)
}

// Set replaces the live index; effective for all subsequent reads.
func (d *Dynamic) Set(idx Index) {
	d.v.Store(idx)
}
