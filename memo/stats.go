package memo

import "time"

// Stats is an immutable snapshot of a cache's observable state.
type Stats struct {
	// Hits and Misses increase monotonically until Clear resets them.
	Hits   uint64
	Misses uint64

	// Evictions counts entries removed to make room for new ones.
	Evictions uint64

	// CurrentSize is the number of live (non-expired) entries.
	CurrentSize int

	// MaxSize is the configured bound; zero means unbounded.
	MaxSize int

	// Algorithm is the configured eviction policy tag.
	Algorithm Algorithm

	// TTL is the configured time-to-live; zero means entries never expire.
	TTL time.Duration

	// ThreadSafe reports whether the cache synchronizes its callers.
	ThreadSafe bool
}

// HitRate returns Hits / (Hits + Misses), or zero before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// recorder accumulates counters. It has no locking of its own; the cache
// mutates it inside the same critical section as the store.
type recorder struct {
	hits      uint64
	misses    uint64
	evictions uint64
}

func (r *recorder) reset() {
	*r = recorder{}
}
