package memo

import (
	"fmt"
	"time"

	"github.com/goredar/python-memoization/observe"
	"github.com/goredar/python-memoization/store"
)

// Algorithm selects the eviction policy of a bounded cache.
type Algorithm = store.Algorithm

// Eviction algorithms, meaningful only when a maximum size is set.
const (
	LRU  = store.LRU
	LFU  = store.LFU
	FIFO = store.FIFO
)

// config holds the construction-time configuration of a Cache.
type config struct {
	name       string
	ttl        time.Duration
	ttlSet     bool
	maxSize    int
	maxSet     bool
	algorithm  Algorithm
	threadSafe bool
	cleanup    time.Duration
	cleanupSet bool
	flight     bool

	logger  observe.Logger
	metrics observe.Metrics
	tracer  observe.Tracer

	// err carries an option-application failure into New.
	err error
}

func defaultConfig() config {
	return config{
		algorithm:  LRU,
		threadSafe: true,
		logger:     observe.NopLogger(),
		metrics:    observe.NopMetrics(),
		tracer:     observe.NopTracer(),
	}
}

// validate checks the configuration; invalid combinations fail at
// construction and are never recovered.
func (c *config) validate() error {
	if c.err != nil {
		return c.err
	}
	if c.maxSet && c.maxSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxSize, c.maxSize)
	}
	if !c.algorithm.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, c.algorithm)
	}
	if c.ttlSet && c.ttl <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTTL, c.ttl)
	}
	if c.cleanupSet {
		if c.cleanup <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidCleanupInterval, c.cleanup)
		}
		if !c.ttlSet {
			return ErrCleanupWithoutTTL
		}
		if !c.threadSafe {
			return ErrCleanupUnsynchronized
		}
	}
	if c.flight && !c.threadSafe {
		return ErrFlightUnsynchronized
	}
	return nil
}

// Option configures a Cache at construction.
type Option func(*config)

// WithName attaches a name to the cache, typically the name of the wrapped
// computation. The name appears in logs, metrics, and span names.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithTTL sets the time-to-live of stored results. Without this option
// entries never expire.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.ttl = ttl
		c.ttlSet = true
	}
}

// WithMaxSize bounds the number of stored entries. Without this option the
// cache is unbounded. Inserting into a full cache evicts exactly one entry
// chosen by the configured algorithm.
func WithMaxSize(n int) Option {
	return func(c *config) {
		c.maxSize = n
		c.maxSet = true
	}
}

// WithAlgorithm selects the eviction policy used when a maximum size is
// set. The default is LRU.
func WithAlgorithm(alg Algorithm) Option {
	return func(c *config) { c.algorithm = alg }
}

// WithThreadSafe toggles synchronization. The default is true: the whole
// fetch-or-compute sequence runs under one lock, so a given key's
// computation runs at most once across concurrent callers. Passing false
// removes all locking; concurrent misses may duplicate the computation and
// concurrent mutation can corrupt the store's internal ordering, so it is
// safe only for single-threaded or externally synchronized use.
func WithThreadSafe(safe bool) Option {
	return func(c *config) { c.threadSafe = safe }
}

// WithCleanupInterval starts a background janitor that removes expired
// entries every interval, even when they are never accessed again. It
// requires a TTL and thread safety. Lazy expiry on access remains the
// correctness mechanism; the janitor only bounds memory growth.
func WithCleanupInterval(interval time.Duration) Option {
	return func(c *config) {
		c.cleanup = interval
		c.cleanupSet = true
	}
}

// WithSingleflight switches the miss path from the coarse critical section
// to a per-key flight group: distinct keys compute in parallel while each
// individual key still computes at most once concurrently. Structural keys
// have no digest to key the flight group and fall back to the coarse
// section. Requires thread safety.
func WithSingleflight() Option {
	return func(c *config) { c.flight = true }
}

// WithObserver wires logging, metrics, and tracing from an
// observe.Observer. Metric instrument creation errors are reported by New.
func WithObserver(obs observe.Observer) Option {
	return func(c *config) {
		c.logger = obs.Logger()
		c.tracer = observe.NewTracer(obs.Tracer())
		m, err := observe.NewMetrics(obs.Meter())
		if err != nil {
			c.err = fmt.Errorf("memo: create metrics: %w", err)
			return
		}
		c.metrics = m
	}
}

// WithLogger sets the structured logger used by the cache.
func WithLogger(l observe.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithMetrics sets the metrics recorder used by the cache.
func WithMetrics(m observe.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithTracer sets the tracer used around computations.
func WithTracer(t observe.Tracer) Option {
	return func(c *config) { c.tracer = t }
}
