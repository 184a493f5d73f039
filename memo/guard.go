package memo

import "sync"

// guard is the critical-section strategy wrapping compound cache
// operations. The strategy is chosen once at construction, so the hot path
// never branches on the thread-safety flag.
type guard interface {
	Lock()
	Unlock()
}

// nopGuard performs no locking. Racy duplicate computation is accepted in
// exchange for maximum single-threaded throughput.
type nopGuard struct{}

func (nopGuard) Lock()   {}
func (nopGuard) Unlock() {}

// newGuard returns the mutual-exclusion guard when threadSafe is set and
// the no-op guard otherwise.
func newGuard(threadSafe bool) guard {
	if threadSafe {
		return &sync.Mutex{}
	}
	return nopGuard{}
}

var _ guard = (*sync.Mutex)(nil)
