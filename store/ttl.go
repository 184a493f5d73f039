package store

import (
	"time"

	"github.com/goredar/python-memoization/key"
)

// Expiring decorates a Store with time-to-live semantics. Entries are
// stamped with an expiry instant on Put; an entry whose instant has passed
// is logically absent and is physically removed by the next operation that
// touches it. Callers hold the same critical section for the expiry check
// and the removal, so no other caller can observe an inconsistent size.
//
// Expired entries occupy the inner store's physical capacity until they
// are touched or swept. A Put that triggers eviction therefore picks its
// victim by the inner policy alone and can evict a live entry while an
// expired one is still physically present; a periodic Sweep (the janitor)
// bounds that window.
type Expiring struct {
	inner Store
	ttl   time.Duration
	now   func() time.Time
}

// NewExpiring wraps inner with the given time-to-live. ttl must be
// positive; a cache without expiry should use the inner store directly.
func NewExpiring(inner Store, ttl time.Duration) *Expiring {
	return &Expiring{inner: inner, ttl: ttl, now: time.Now}
}

func (s *Expiring) Get(k key.Key) (*Entry, bool) {
	e, ok := s.inner.Peek(k)
	if !ok {
		return nil, false
	}
	if e.Expired(s.now()) {
		s.inner.Remove(k)
		return nil, false
	}
	// Delegate so the policy records the access.
	return s.inner.Get(k)
}

func (s *Expiring) Peek(k key.Key) (*Entry, bool) {
	e, ok := s.inner.Peek(k)
	if !ok || e.Expired(s.now()) {
		return nil, false
	}
	return e, true
}

func (s *Expiring) Put(e *Entry) *Entry {
	e.ExpiresAt = s.now().Add(s.ttl).UnixNano()
	return s.inner.Put(e)
}

func (s *Expiring) Contains(k key.Key) bool {
	_, ok := s.Peek(k)
	return ok
}

func (s *Expiring) Remove(k key.Key) bool {
	return s.inner.Remove(k)
}

// Range visits live entries only.
func (s *Expiring) Range(fn func(*Entry) bool) {
	now := s.now()
	s.inner.Range(func(e *Entry) bool {
		if e.Expired(now) {
			return true
		}
		return fn(e)
	})
}

// Len counts live entries. Expired entries still physically present are
// excluded so the reported size always matches the logical contents.
func (s *Expiring) Len() int {
	n := 0
	s.Range(func(*Entry) bool { n++; return true })
	return n
}

func (s *Expiring) Clear() {
	s.inner.Clear()
}

// Sweep physically removes every expired entry and returns how many were
// dropped. The background janitor calls it under the cache's guard.
func (s *Expiring) Sweep() int {
	now := s.now()
	var stale []key.Key
	s.inner.Range(func(e *Entry) bool {
		if e.Expired(now) {
			stale = append(stale, e.Key)
		}
		return true
	})
	for _, k := range stale {
		s.inner.Remove(k)
	}
	return len(stale)
}

var _ Store = (*Expiring)(nil)
