package store

import (
	"sync"
	"time"
)

// Janitor periodically invokes a sweep function until stopped. The sweep
// callback is responsible for its own locking; the janitor only provides
// the schedule.
type Janitor struct {
	stopChan chan struct{}
	stopOnce sync.Once
}

// StartJanitor launches a background goroutine calling sweep every
// interval. interval must be positive.
func StartJanitor(interval time.Duration, sweep func()) *Janitor {
	j := &Janitor{stopChan: make(chan struct{})}
	ticker := time.NewTicker(interval)

	go func() {
		for {
			select {
			case <-ticker.C:
				sweep()
			case <-j.stopChan:
				ticker.Stop()
				return
			}
		}
	}()

	return j
}

// Stop terminates the background goroutine. It is idempotent.
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() { close(j.stopChan) })
}
