package store

import (
	"container/list"

	"github.com/goredar/python-memoization/key"
)

// lruStore orders entries by recency: a doubly linked list whose front is
// the most recently used node, plus a key index. Get moves the hit node to
// the front; eviction takes the back.
type lruStore struct {
	cap int
	ll  *list.List
	idx index
}

func newLRU(capacity int) *lruStore {
	return &lruStore{
		cap: capacity,
		ll:  list.New(),
		idx: newIndex(),
	}
}

func (s *lruStore) Get(k key.Key) (*Entry, bool) {
	n, ok := s.idx.lookup(k)
	if !ok {
		return nil, false
	}
	s.ll.MoveToFront(n.elem)
	return n.entry, true
}

func (s *lruStore) Peek(k key.Key) (*Entry, bool) {
	n, ok := s.idx.lookup(k)
	if !ok {
		return nil, false
	}
	return n.entry, true
}

func (s *lruStore) Put(e *Entry) *Entry {
	if n, ok := s.idx.lookup(e.Key); ok {
		n.entry = e
		s.ll.MoveToFront(n.elem)
		return nil
	}

	var evicted *Entry
	if s.ll.Len() >= s.cap {
		evicted = s.removeNode(s.ll.Back().Value.(*node))
	}

	n := &node{entry: e}
	n.elem = s.ll.PushFront(n)
	s.idx.add(n)
	return evicted
}

func (s *lruStore) Contains(k key.Key) bool {
	_, ok := s.idx.lookup(k)
	return ok
}

func (s *lruStore) Remove(k key.Key) bool {
	n, ok := s.idx.lookup(k)
	if !ok {
		return false
	}
	s.removeNode(n)
	return true
}

func (s *lruStore) removeNode(n *node) *Entry {
	s.ll.Remove(n.elem)
	s.idx.remove(n)
	return n.entry
}

func (s *lruStore) Range(fn func(*Entry) bool) {
	s.idx.rangeNodes(func(n *node) bool { return fn(n.entry) })
}

func (s *lruStore) Len() int {
	return s.ll.Len()
}

func (s *lruStore) Clear() {
	s.ll.Init()
	s.idx.reset()
}

var _ Store = (*lruStore)(nil)
