package store

import (
	"container/list"

	"github.com/goredar/python-memoization/key"
)

// fifoStore orders entries by insertion: a queue plus a key index. Get
// never reorders; eviction dequeues the oldest insertion.
type fifoStore struct {
	cap   int
	queue *list.List // front = oldest insertion
	idx   index
}

func newFIFO(capacity int) *fifoStore {
	return &fifoStore{
		cap:   capacity,
		queue: list.New(),
		idx:   newIndex(),
	}
}

func (s *fifoStore) Get(k key.Key) (*Entry, bool) {
	return s.Peek(k)
}

func (s *fifoStore) Peek(k key.Key) (*Entry, bool) {
	n, ok := s.idx.lookup(k)
	if !ok {
		return nil, false
	}
	return n.entry, true
}

func (s *fifoStore) Put(e *Entry) *Entry {
	if n, ok := s.idx.lookup(e.Key); ok {
		// Replacing a value keeps the original queue position.
		n.entry = e
		return nil
	}

	var evicted *Entry
	if s.queue.Len() >= s.cap {
		evicted = s.removeNode(s.queue.Front().Value.(*node))
	}

	n := &node{entry: e}
	n.elem = s.queue.PushBack(n)
	s.idx.add(n)
	return evicted
}

func (s *fifoStore) Contains(k key.Key) bool {
	_, ok := s.idx.lookup(k)
	return ok
}

func (s *fifoStore) Remove(k key.Key) bool {
	n, ok := s.idx.lookup(k)
	if !ok {
		return false
	}
	s.removeNode(n)
	return true
}

func (s *fifoStore) removeNode(n *node) *Entry {
	s.queue.Remove(n.elem)
	s.idx.remove(n)
	return n.entry
}

func (s *fifoStore) Range(fn func(*Entry) bool) {
	s.idx.rangeNodes(func(n *node) bool { return fn(n.entry) })
}

func (s *fifoStore) Len() int {
	return s.queue.Len()
}

func (s *fifoStore) Clear() {
	s.queue.Init()
	s.idx.reset()
}

var _ Store = (*fifoStore)(nil)
