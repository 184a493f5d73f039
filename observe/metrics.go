package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records cache lookup and computation metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records one cache lookup and its outcome.
	RecordLookup(ctx context.Context, meta CacheMeta, hit bool)

	// RecordBypass records a call that skipped the cache entirely.
	RecordBypass(ctx context.Context, meta CacheMeta)

	// RecordEviction records one evicted entry.
	RecordEviction(ctx context.Context, meta CacheMeta)

	// RecordCompute records a computation run with duration and error status.
	RecordCompute(ctx context.Context, meta CacheMeta, duration time.Duration, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	lookups     metric.Int64Counter
	hits        metric.Int64Counter
	misses      metric.Int64Counter
	bypass      metric.Int64Counter
	evictions   metric.Int64Counter
	computeErrs metric.Int64Counter
	computeHist metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	lookups, err := meter.Int64Counter(
		"memo.lookups",
		metric.WithDescription("Total number of cache lookups"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	hits, err := meter.Int64Counter(
		"memo.hits",
		metric.WithDescription("Total number of cache hits"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter(
		"memo.misses",
		metric.WithDescription("Total number of cache misses"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	bypass, err := meter.Int64Counter(
		"memo.bypass",
		metric.WithDescription("Total number of calls that bypassed the cache"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	evictions, err := meter.Int64Counter(
		"memo.evictions",
		metric.WithDescription("Total number of evicted entries"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	computeErrs, err := meter.Int64Counter(
		"memo.compute.errors",
		metric.WithDescription("Total number of failed computations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	computeHist, err := meter.Float64Histogram(
		"memo.compute.duration_ms",
		metric.WithDescription("Computation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		lookups:     lookups,
		hits:        hits,
		misses:      misses,
		bypass:      bypass,
		evictions:   evictions,
		computeErrs: computeErrs,
		computeHist: computeHist,
	}, nil
}

func attrs(meta CacheMeta) metric.MeasurementOption {
	kvs := []attribute.KeyValue{
		attribute.String("cache.name", meta.Name),
	}
	if meta.Algorithm != "" {
		kvs = append(kvs, attribute.String("cache.algorithm", meta.Algorithm))
	}
	return metric.WithAttributes(kvs...)
}

func (m *metricsImpl) RecordLookup(ctx context.Context, meta CacheMeta, hit bool) {
	opt := attrs(meta)
	m.lookups.Add(ctx, 1, opt)
	if hit {
		m.hits.Add(ctx, 1, opt)
	} else {
		m.misses.Add(ctx, 1, opt)
	}
}

func (m *metricsImpl) RecordBypass(ctx context.Context, meta CacheMeta) {
	m.bypass.Add(ctx, 1, attrs(meta))
}

func (m *metricsImpl) RecordEviction(ctx context.Context, meta CacheMeta) {
	m.evictions.Add(ctx, 1, attrs(meta))
}

func (m *metricsImpl) RecordCompute(ctx context.Context, meta CacheMeta, duration time.Duration, err error) {
	opt := attrs(meta)
	if err != nil {
		m.computeErrs.Add(ctx, 1, opt)
	}
	m.computeHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// nopMetrics is a metrics implementation that does nothing.
type nopMetrics struct{}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics {
	return nopMetrics{}
}

func (nopMetrics) RecordLookup(context.Context, CacheMeta, bool)                  {}
func (nopMetrics) RecordBypass(context.Context, CacheMeta)                        {}
func (nopMetrics) RecordEviction(context.Context, CacheMeta)                      {}
func (nopMetrics) RecordCompute(context.Context, CacheMeta, time.Duration, error) {}
