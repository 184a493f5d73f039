// Package store provides eviction-policy stores for memoized results.
//
// Three bounded variants (LRU, LFU, FIFO) and an unbounded map store
// implement the same Store contract with O(1) amortized get/put/evict.
// Expiring decorates any Store with time-to-live semantics, and Janitor
// runs an optional background sweep for entries that expire unobserved.
//
// Stores are not safe for concurrent use: the memo controller serializes
// all access through its concurrency guard.
package store
