package memo

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/goredar/python-memoization/key"
	"github.com/goredar/python-memoization/observe"
	"github.com/goredar/python-memoization/store"
)

// ComputeFunc produces the value for one call signature. It may block for
// an arbitrary duration; a failure is propagated to the caller and never
// cached.
type ComputeFunc func(ctx context.Context) (any, error)

// Cache is the memoization facade: it composes key derivation, an
// eviction-policy store, optional expiry, a concurrency guard, and
// statistics into one fetch-or-compute operation.
//
// Contract:
// - Concurrency: safe for concurrent use when constructed with thread
//   safety (the default).
// - Errors: Do propagates compute failures unchanged; only configuration
//   errors are returned by New.
type Cache struct {
	guard    guard
	store    store.Store
	expiring *store.Expiring
	janitor  *store.Janitor
	flight   *singleflight.Group
	stats    recorder

	ttl        time.Duration
	maxSize    int
	algorithm  Algorithm
	threadSafe bool

	meta    observe.CacheMeta
	logger  observe.Logger
	metrics observe.Metrics
	tracer  observe.Tracer
}

// New constructs a Cache. Invalid configurations (non-positive max size or
// ttl, unrecognized algorithm, janitor without ttl or thread safety) fail
// here and are never recovered.
func New(opts ...Option) (*Cache, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var st store.Store
	if cfg.maxSet {
		s, err := store.New(cfg.algorithm, cfg.maxSize)
		if err != nil {
			return nil, err
		}
		st = s
	} else {
		st = store.NewUnbounded()
	}

	var expiring *store.Expiring
	if cfg.ttlSet {
		expiring = store.NewExpiring(st, cfg.ttl)
		st = expiring
	}

	meta := observe.CacheMeta{Name: cfg.name, Algorithm: string(cfg.algorithm)}

	c := &Cache{
		guard:      newGuard(cfg.threadSafe),
		store:      st,
		expiring:   expiring,
		stats:      recorder{},
		ttl:        cfg.ttl,
		maxSize:    cfg.maxSize,
		algorithm:  cfg.algorithm,
		threadSafe: cfg.threadSafe,
		meta:       meta,
		logger:     cfg.logger.WithCache(meta),
		metrics:    cfg.metrics,
		tracer:     cfg.tracer,
	}

	if cfg.flight {
		c.flight = &singleflight.Group{}
	}
	if cfg.cleanupSet {
		c.janitor = store.StartJanitor(cfg.cleanup, c.sweep)
	}

	return c, nil
}

// Do returns the cached value for the given call signature, computing and
// storing it on a miss.
//
// Positional arguments are significant in order; keyword arguments are
// canonicalized by name, so call-order differences never change identity.
// If the arguments cannot be keyed at all, the call bypasses the cache:
// compute runs, its result is returned uncached, and neither a hit nor a
// miss is recorded. A compute failure is propagated unchanged and nothing
// is stored.
func (c *Cache) Do(ctx context.Context, args []any, kwargs map[string]any, compute ComputeFunc) (any, error) {
	if compute == nil {
		return nil, ErrNilCompute
	}

	k, err := key.Build(args, kwargs)
	if err != nil {
		c.metrics.RecordBypass(ctx, c.meta)
		c.logger.Debug(ctx, "cache bypass", observe.Field{Key: "reason", Value: err.Error()})
		return c.compute(ctx, compute)
	}

	if c.flight != nil && !k.Structural() {
		var executed bool
		v, err := c.doFlight(ctx, k, compute, &executed)
		if err != nil {
			return nil, err
		}
		if !executed {
			// This caller joined another caller's flight and got the shared
			// result without touching the store; its lookup is still a hit.
			c.guard.Lock()
			c.stats.hits++
			c.guard.Unlock()
			c.metrics.RecordLookup(ctx, c.meta, true)
			c.logger.Debug(ctx, "cache hit", observe.Field{Key: "key", Value: k.String()})
		}
		return v, nil
	}

	return c.fetchOrCompute(ctx, k, compute)
}

// fetchOrCompute runs the whole miss path inside the guard: lookup,
// computation, store, and statistics. Holding the critical section across
// the computation is what guarantees at-most-once execution per key under
// concurrent callers.
func (c *Cache) fetchOrCompute(ctx context.Context, k key.Key, compute ComputeFunc) (any, error) {
	c.guard.Lock()
	defer c.guard.Unlock()

	if e, ok := c.store.Get(k); ok {
		c.stats.hits++
		c.metrics.RecordLookup(ctx, c.meta, true)
		c.logger.Debug(ctx, "cache hit", observe.Field{Key: "key", Value: k.String()})
		return e.Value, nil
	}

	v, err := c.compute(ctx, compute)
	if err != nil {
		return nil, err
	}

	c.insert(ctx, k, v)
	return v, nil
}

// doFlight funnels the call through the per-key flight group. executed
// reports whether this caller ran the lookup and computation itself;
// callers that joined an in-flight key share the result without running.
func (c *Cache) doFlight(ctx context.Context, k key.Key, compute ComputeFunc, executed *bool) (any, error) {
	v, err, _ := c.flight.Do(k.Digest(), func() (any, error) {
		*executed = true
		return c.fetchOrComputeFlight(ctx, k, compute)
	})
	return v, err
}

// fetchOrComputeFlight is the per-key flight variant: the guard covers
// only the store operations while the singleflight group serializes the
// computation per key, so distinct keys compute in parallel.
func (c *Cache) fetchOrComputeFlight(ctx context.Context, k key.Key, compute ComputeFunc) (any, error) {
	c.guard.Lock()
	e, ok := c.store.Get(k)
	if ok {
		c.stats.hits++
	}
	c.guard.Unlock()

	if ok {
		c.metrics.RecordLookup(ctx, c.meta, true)
		c.logger.Debug(ctx, "cache hit", observe.Field{Key: "key", Value: k.String()})
		return e.Value, nil
	}

	v, err := c.compute(ctx, compute)
	if err != nil {
		return nil, err
	}

	c.guard.Lock()
	c.insert(ctx, k, v)
	c.guard.Unlock()
	return v, nil
}

// insert stores a freshly computed value and records the miss. Callers
// hold the guard.
func (c *Cache) insert(ctx context.Context, k key.Key, v any) {
	evicted := c.store.Put(&store.Entry{Key: k, Value: v})
	c.stats.misses++
	c.metrics.RecordLookup(ctx, c.meta, false)
	if evicted != nil {
		c.stats.evictions++
		c.metrics.RecordEviction(ctx, c.meta)
		c.logger.Debug(ctx, "entry evicted", observe.Field{Key: "key", Value: evicted.Key.String()})
	}
	c.logger.Debug(ctx, "cache miss", observe.Field{Key: "key", Value: k.String()})
}

// compute runs the computation under a span and records its duration.
func (c *Cache) compute(ctx context.Context, fn ComputeFunc) (any, error) {
	ctx, span := c.tracer.StartCompute(ctx, c.meta)
	start := time.Now()

	v, err := fn(ctx)

	duration := time.Since(start)
	c.tracer.EndCompute(span, err)
	c.metrics.RecordCompute(ctx, c.meta, duration, err)
	return v, err
}

// Clear empties the store and resets all counters to zero. The reset is
// deliberately full: hits, misses, and evictions restart alongside the
// entries.
func (c *Cache) Clear() {
	c.guard.Lock()
	defer c.guard.Unlock()
	c.store.Clear()
	c.stats.reset()
}

// Info returns a consistent snapshot of the cache's statistics and
// configuration.
func (c *Cache) Info() Stats {
	c.guard.Lock()
	defer c.guard.Unlock()
	return Stats{
		Hits:        c.stats.hits,
		Misses:      c.stats.misses,
		Evictions:   c.stats.evictions,
		CurrentSize: c.store.Len(),
		MaxSize:     c.maxSize,
		Algorithm:   c.algorithm,
		TTL:         c.ttl,
		ThreadSafe:  c.threadSafe,
	}
}

// Close stops the background janitor, if one was started. It is
// idempotent and the cache remains usable afterwards.
func (c *Cache) Close() {
	if c.janitor != nil {
		c.janitor.Stop()
	}
}

// sweep removes expired entries under the guard; the janitor calls it on
// its schedule.
func (c *Cache) sweep() {
	c.guard.Lock()
	defer c.guard.Unlock()
	if c.expiring == nil {
		return
	}
	if n := c.expiring.Sweep(); n > 0 {
		c.logger.Debug(context.Background(), "expired entries swept", observe.Field{Key: "count", Value: n})
	}
}
