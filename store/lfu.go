package store

import (
	"container/list"

	"github.com/goredar/python-memoization/key"
)

// lfuStore orders entries by access frequency: one doubly linked list per
// frequency count plus a pointer to the current minimum frequency. Nodes
// arrive at the back of their bucket, so the front of the minimum bucket
// is the oldest arrival there and ties break first-in-first-out.
type lfuStore struct {
	cap     int
	buckets map[int]*list.List
	minFreq int
	idx     index
}

func newLFU(capacity int) *lfuStore {
	return &lfuStore{
		cap:     capacity,
		buckets: make(map[int]*list.List),
		idx:     newIndex(),
	}
}

func (s *lfuStore) Get(k key.Key) (*Entry, bool) {
	n, ok := s.idx.lookup(k)
	if !ok {
		return nil, false
	}
	s.promote(n)
	return n.entry, true
}

func (s *lfuStore) Peek(k key.Key) (*Entry, bool) {
	n, ok := s.idx.lookup(k)
	if !ok {
		return nil, false
	}
	return n.entry, true
}

func (s *lfuStore) Put(e *Entry) *Entry {
	if n, ok := s.idx.lookup(e.Key); ok {
		n.entry = e
		s.promote(n)
		return nil
	}

	var evicted *Entry
	if s.idx.len() >= s.cap {
		evicted = s.evict()
	}

	n := &node{entry: e, freq: 1}
	n.elem = s.bucket(1).PushBack(n)
	s.idx.add(n)
	s.minFreq = 1
	return evicted
}

func (s *lfuStore) Contains(k key.Key) bool {
	_, ok := s.idx.lookup(k)
	return ok
}

func (s *lfuStore) Remove(k key.Key) bool {
	n, ok := s.idx.lookup(k)
	if !ok {
		return false
	}
	s.removeNode(n)
	return true
}

func (s *lfuStore) Range(fn func(*Entry) bool) {
	s.idx.rangeNodes(func(n *node) bool { return fn(n.entry) })
}

func (s *lfuStore) Len() int {
	return s.idx.len()
}

func (s *lfuStore) Clear() {
	s.buckets = make(map[int]*list.List)
	s.minFreq = 0
	s.idx.reset()
}

// promote moves n to the bucket for its incremented frequency, retiring
// the old bucket if it became empty and advancing the minimum-frequency
// pointer when that bucket was the minimum.
func (s *lfuStore) promote(n *node) {
	oldFreq := n.freq
	b := s.buckets[oldFreq]
	b.Remove(n.elem)
	emptied := b.Len() == 0
	if emptied {
		delete(s.buckets, oldFreq)
	}

	n.freq++
	n.elem = s.bucket(n.freq).PushBack(n)

	// The node moved to oldFreq+1 and nothing can sit in between.
	if emptied && s.minFreq == oldFreq {
		s.minFreq = oldFreq + 1
	}
}

// evict removes and returns the oldest arrival in the minimum-frequency
// bucket.
func (s *lfuStore) evict() *Entry {
	b := s.buckets[s.minFreq]
	n := b.Front().Value.(*node)
	s.detach(n)
	s.idx.remove(n)
	return n.entry
}

func (s *lfuStore) removeNode(n *node) {
	s.detach(n)
	s.idx.remove(n)
}

// detach unlinks n from its current bucket and maintains minFreq.
func (s *lfuStore) detach(n *node) {
	b := s.buckets[n.freq]
	b.Remove(n.elem)
	n.elem = nil
	if b.Len() == 0 {
		delete(s.buckets, n.freq)
		if s.minFreq == n.freq {
			s.recalcMinFreq()
		}
	}
}

func (s *lfuStore) recalcMinFreq() {
	s.minFreq = 0
	for f, b := range s.buckets {
		if b.Len() == 0 {
			continue
		}
		if s.minFreq == 0 || f < s.minFreq {
			s.minFreq = f
		}
	}
}

func (s *lfuStore) bucket(freq int) *list.List {
	if b, ok := s.buckets[freq]; ok {
		return b
	}
	b := list.New()
	s.buckets[freq] = b
	return b
}

var _ Store = (*lfuStore)(nil)
