package service

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

const (
	filterMinCapacity = 10000
	filterFalsePos    = 0.001
)

// SegmentFilter is a bloom filter over every short code and page slug in the
// system. The resolver consults it before touching Postgres: a definite miss
// becomes an immediate 404. False positives just fall through to the normal
// lookups, so the filter can only over-admit, never over-reject.
type SegmentFilter struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

// NewSegmentFilter sizes the filter for the given expected number of
// segments plus growth headroom.
func NewSegmentFilter(expected uint) *SegmentFilter {
	if expected < filterMinCapacity {
		expected = filterMinCapacity
	}
	return &SegmentFilter{
		filter: bloom.NewWithEstimates(expected*2, filterFalsePos),
	}
}

// Seed loads an initial set of segments, typically all codes and slugs read
// at startup.
func (f *SegmentFilter) Seed(segments ...[]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, group := range segments {
		for _, s := range group {
			f.filter.AddString(s)
		}
	}
}

// Add registers a newly created code or slug.
func (f *SegmentFilter) Add(segment string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter.AddString(segment)
}

// MightContain reports whether segment could be a known code or slug.
func (f *SegmentFilter) MightContain(segment string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.filter.TestString(segment)
}
