// Package memo provides a general-purpose memoization engine.
//
// A Cache binds one computation to an in-process store: Do returns a
// previously computed result when one is live, and otherwise runs the
// computation, stores the result, and returns it. Stores are bounded by an
// eviction policy (LRU, LFU, or FIFO), optionally expire entries after a
// time-to-live, and report live statistics.
//
// With thread safety enabled (the default) the whole fetch-or-compute
// sequence runs inside one critical section, so concurrent callers of the
// same uncached key never duplicate the computation. Disabling thread
// safety removes all synchronization and is safe only for single-threaded
// or externally synchronized callers.
package memo
