package store

import (
	"container/list"

	"github.com/goredar/python-memoization/key"
)

// node wraps an entry with the bookkeeping the policies need. elem points
// at the node's position in the owning policy's ordering structure.
type node struct {
	entry *Entry
	freq  int
	elem  *list.Element
}

// index maps keys to nodes. Hashable keys live in a digest map for O(1)
// lookup; structural keys have no digest, so they live in a slice scanned
// by deep equality. The O(m) scan is the accepted cost of supporting
// non-hashable argument shapes.
type index struct {
	byDigest   map[string]*node
	structural []*node
}

func newIndex() index {
	return index{byDigest: make(map[string]*node)}
}

func (x *index) lookup(k key.Key) (*node, bool) {
	if !k.Structural() {
		n, ok := x.byDigest[k.Digest()]
		return n, ok
	}
	for _, n := range x.structural {
		if n.entry.Key.Equal(k) {
			return n, true
		}
	}
	return nil, false
}

func (x *index) add(n *node) {
	k := n.entry.Key
	if !k.Structural() {
		x.byDigest[k.Digest()] = n
		return
	}
	x.structural = append(x.structural, n)
}

func (x *index) remove(n *node) {
	k := n.entry.Key
	if !k.Structural() {
		delete(x.byDigest, k.Digest())
		return
	}
	for i, s := range x.structural {
		if s == n {
			last := len(x.structural) - 1
			x.structural[i] = x.structural[last]
			x.structural[last] = nil
			x.structural = x.structural[:last]
			return
		}
	}
}

func (x *index) len() int {
	return len(x.byDigest) + len(x.structural)
}

func (x *index) rangeNodes(fn func(*node) bool) {
	for _, n := range x.byDigest {
		if !fn(n) {
			return
		}
	}
	for _, n := range x.structural {
		if !fn(n) {
			return
		}
	}
}

func (x *index) reset() {
	x.byDigest = make(map[string]*node)
	x.structural = nil
}
