package store

import (
	"errors"
	"time"

	"github.com/goredar/python-memoization/key"
)

// Sentinel errors for store construction.
var (
	ErrInvalidCapacity  = errors.New("store: capacity must be positive")
	ErrUnknownAlgorithm = errors.New("store: unknown eviction algorithm")
)

// Algorithm selects the eviction policy of a bounded store.
type Algorithm string

const (
	// LRU evicts the least recently used entry.
	LRU Algorithm = "lru"

	// LFU evicts the least frequently used entry, breaking frequency ties
	// in favor of the entry that entered the minimum bucket earliest.
	LFU Algorithm = "lfu"

	// FIFO evicts the oldest inserted entry regardless of access pattern.
	FIFO Algorithm = "fifo"
)

// Valid reports whether a is a recognized algorithm.
func (a Algorithm) Valid() bool {
	switch a {
	case LRU, LFU, FIFO:
		return true
	}
	return false
}

// Entry is one stored result together with its expiry instant.
type Entry struct {
	Key   key.Key
	Value any

	// ExpiresAt is a UnixNano instant; zero means the entry never expires.
	ExpiresAt int64
}

// Expired reports whether the entry's expiry instant has been reached.
// An access at exactly the instant already misses.
func (e *Entry) Expired(now time.Time) bool {
	return e.ExpiresAt > 0 && now.UnixNano() >= e.ExpiresAt
}

// Store is the common contract of all eviction-policy stores.
//
// Contract:
// - Concurrency: implementations are NOT safe for concurrent use; callers
//   must serialize access.
// - Get updates policy metadata (recency, frequency) on hit; Peek and
//   Contains never do.
// - Put evicts at most one entry, and only when the store is at capacity
//   and the key being inserted is new.
type Store interface {
	// Get returns the live entry for k, updating policy metadata on hit.
	Get(k key.Key) (*Entry, bool)

	// Peek returns the entry for k without touching policy metadata.
	Peek(k key.Key) (*Entry, bool)

	// Put inserts or replaces the entry for e.Key and returns the entry
	// evicted to make room, if any.
	Put(e *Entry) (evicted *Entry)

	// Contains reports whether k is present, without metadata updates.
	Contains(k key.Key) bool

	// Remove deletes the entry for k. It reports whether one was present.
	Remove(k key.Key) bool

	// Range calls fn for each entry until fn returns false. Iteration
	// order is unspecified and policy metadata is untouched.
	Range(fn func(*Entry) bool)

	// Len returns the number of physically present entries.
	Len() int

	// Clear removes all entries.
	Clear()
}

// New constructs a bounded store with the given eviction algorithm.
func New(alg Algorithm, capacity int) (Store, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	switch alg {
	case LRU:
		return newLRU(capacity), nil
	case LFU:
		return newLFU(capacity), nil
	case FIFO:
		return newFIFO(capacity), nil
	default:
		return nil, ErrUnknownAlgorithm
	}
}

// NewUnbounded constructs a store that never evicts. It backs caches
// configured without a maximum size.
func NewUnbounded() Store {
	return newUnbounded()
}
