package store

import "github.com/goredar/python-memoization/key"

// unboundedStore holds entries without eviction bookkeeping. It backs
// caches configured with no maximum size, where no ordering structure is
// needed.
type unboundedStore struct {
	idx index
}

func newUnbounded() *unboundedStore {
	return &unboundedStore{idx: newIndex()}
}

func (s *unboundedStore) Get(k key.Key) (*Entry, bool) {
	return s.Peek(k)
}

func (s *unboundedStore) Peek(k key.Key) (*Entry, bool) {
	n, ok := s.idx.lookup(k)
	if !ok {
		return nil, false
	}
	return n.entry, true
}

func (s *unboundedStore) Put(e *Entry) *Entry {
	if n, ok := s.idx.lookup(e.Key); ok {
		n.entry = e
		return nil
	}
	s.idx.add(&node{entry: e})
	return nil
}

func (s *unboundedStore) Contains(k key.Key) bool {
	_, ok := s.idx.lookup(k)
	return ok
}

func (s *unboundedStore) Remove(k key.Key) bool {
	n, ok := s.idx.lookup(k)
	if !ok {
		return false
	}
	s.idx.remove(n)
	return true
}

func (s *unboundedStore) Range(fn func(*Entry) bool) {
	s.idx.rangeNodes(func(n *node) bool { return fn(n.entry) })
}

func (s *unboundedStore) Len() int {
	return s.idx.len()
}

func (s *unboundedStore) Clear() {
	s.idx.reset()
}

var _ Store = (*unboundedStore)(nil)
