package memo

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goredar/python-memoization/observe"
)

// constant returns a compute function that counts its invocations.
func constant(v any, calls *int) ComputeFunc {
	return func(ctx context.Context) (any, error) {
		*calls++
		return v, nil
	}
}

// TestNew_Defaults tests the zero-option cache: unbounded, LRU tag,
// thread safe, no expiry.
func TestNew_Defaults(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	info := c.Info()
	if info.Algorithm != LRU {
		t.Errorf("Algorithm = %q, want %q", info.Algorithm, LRU)
	}
	if !info.ThreadSafe {
		t.Errorf("ThreadSafe = false, want true")
	}
	if info.MaxSize != 0 {
		t.Errorf("MaxSize = %d, want 0 (unbounded)", info.MaxSize)
	}
	if info.TTL != 0 {
		t.Errorf("TTL = %s, want 0", info.TTL)
	}
}

// TestNew_Validation tests configuration error cases.
func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"zero max size", []Option{WithMaxSize(0)}, ErrInvalidMaxSize},
		{"negative max size", []Option{WithMaxSize(-5)}, ErrInvalidMaxSize},
		{"unknown algorithm", []Option{WithAlgorithm("mru")}, ErrUnknownAlgorithm},
		{"zero ttl", []Option{WithTTL(0)}, ErrInvalidTTL},
		{"negative ttl", []Option{WithTTL(-time.Second)}, ErrInvalidTTL},
		{"zero cleanup interval", []Option{WithTTL(time.Minute), WithCleanupInterval(0)}, ErrInvalidCleanupInterval},
		{"cleanup without ttl", []Option{WithCleanupInterval(time.Minute)}, ErrCleanupWithoutTTL},
		{"cleanup without thread safety", []Option{WithTTL(time.Minute), WithCleanupInterval(time.Minute), WithThreadSafe(false)}, ErrCleanupUnsynchronized},
		{"singleflight without thread safety", []Option{WithSingleflight(), WithThreadSafe(false)}, ErrFlightUnsynchronized},
		{"valid full config", []Option{WithMaxSize(10), WithAlgorithm(LFU), WithTTL(time.Minute), WithCleanupInterval(time.Minute)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
			if c != nil {
				c.Close()
			}
		})
	}
}

// TestCache_MissThenHit tests that the first call computes and every
// repeat is served from the cache.
func TestCache_MissThenHit(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	calls := 0
	for i := 0; i < 5; i++ {
		v, err := c.Do(ctx, []any{10}, nil, constant(55, &calls))
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if v != 55 {
			t.Fatalf("Do() = %v, want 55", v)
		}
	}

	if calls != 1 {
		t.Errorf("compute ran %d times, want 1", calls)
	}
	info := c.Info()
	if info.Hits != 4 || info.Misses != 1 {
		t.Errorf("Hits = %d, Misses = %d, want 4, 1", info.Hits, info.Misses)
	}
	if info.CurrentSize != 1 {
		t.Errorf("CurrentSize = %d, want 1", info.CurrentSize)
	}
	if got, want := info.HitRate(), 0.8; got != want {
		t.Errorf("HitRate() = %v, want %v", got, want)
	}
}

// TestCache_TypedSignatures tests that numerically equal arguments of
// different types occupy distinct entries.
func TestCache_TypedSignatures(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	calls := 0
	if _, err := c.Do(ctx, []any{3}, nil, constant("int", &calls)); err != nil {
		t.Fatalf("Do(int) error = %v", err)
	}
	if _, err := c.Do(ctx, []any{3.0}, nil, constant("float", &calls)); err != nil {
		t.Fatalf("Do(float) error = %v", err)
	}

	if calls != 2 {
		t.Errorf("compute ran %d times, want 2", calls)
	}
	if got := c.Info().CurrentSize; got != 2 {
		t.Errorf("CurrentSize = %d, want 2", got)
	}

	v, err := c.Do(ctx, []any{3}, nil, constant("again", &calls))
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if v != "int" {
		t.Errorf("Do(3) = %v, want the int entry", v)
	}
}

// TestCache_KwargOrder tests that keyword argument order never affects
// identity.
func TestCache_KwargOrder(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	calls := 0
	if _, err := c.Do(ctx, nil, map[string]any{"x": 1, "y": 2}, constant("v", &calls)); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if _, err := c.Do(ctx, nil, map[string]any{"y": 2, "x": 1}, constant("v", &calls)); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	if calls != 1 {
		t.Errorf("compute ran %d times, want 1", calls)
	}
}

// TestCache_StructuralArguments tests caching over container arguments
// compared by deep equality.
func TestCache_StructuralArguments(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	calls := 0
	if _, err := c.Do(ctx, []any{[]int{1, 2, 3}}, nil, constant("v", &calls)); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	// A fresh but equal slice must hit.
	if _, err := c.Do(ctx, []any{[]int{1, 2, 3}}, nil, constant("v", &calls)); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("compute ran %d times, want 1", calls)
	}

	if _, err := c.Do(ctx, []any{[]int{1, 2, 4}}, nil, constant("v", &calls)); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("compute ran %d times after distinct slice, want 2", calls)
	}
}

// TestCache_Bypass tests that unkeyable arguments run uncached and leave
// the statistics untouched.
func TestCache_Bypass(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	calls := 0
	for i := 0; i < 3; i++ {
		v, err := c.Do(ctx, []any{func() {}}, nil, constant(7, &calls))
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if v != 7 {
			t.Fatalf("Do() = %v, want 7", v)
		}
	}

	if calls != 3 {
		t.Errorf("compute ran %d times, want 3 (no caching)", calls)
	}
	info := c.Info()
	if info.Hits != 0 || info.Misses != 0 {
		t.Errorf("Hits = %d, Misses = %d, want 0, 0", info.Hits, info.Misses)
	}
	if info.CurrentSize != 0 {
		t.Errorf("CurrentSize = %d, want 0", info.CurrentSize)
	}
}

// TestCache_ComputeError tests that failures propagate unchanged and are
// never stored.
func TestCache_ComputeError(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	boom := errors.New("backend unavailable")
	calls := 0
	failing := func(ctx context.Context) (any, error) {
		calls++
		return nil, boom
	}

	if _, err := c.Do(ctx, []any{1}, nil, failing); !errors.Is(err, boom) {
		t.Fatalf("Do() error = %v, want %v", err, boom)
	}
	if got := c.Info().CurrentSize; got != 0 {
		t.Errorf("CurrentSize = %d, want 0 (failure not cached)", got)
	}

	// The next call retries the computation.
	if _, err := c.Do(ctx, []any{1}, nil, failing); !errors.Is(err, boom) {
		t.Fatalf("Do() error = %v, want %v", err, boom)
	}
	if calls != 2 {
		t.Errorf("compute ran %d times, want 2", calls)
	}
}

// TestCache_NilCompute tests the nil compute guard.
func TestCache_NilCompute(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := c.Do(context.Background(), []any{1}, nil, nil); !errors.Is(err, ErrNilCompute) {
		t.Errorf("Do(nil) error = %v, want ErrNilCompute", err)
	}
}

// TestCache_Eviction tests the eviction counter and size bound under a
// bounded LRU cache.
func TestCache_Eviction(t *testing.T) {
	c, err := New(WithMaxSize(2), WithAlgorithm(LRU))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	calls := 0
	for i := 0; i < 5; i++ {
		if _, err := c.Do(ctx, []any{i}, nil, constant(i, &calls)); err != nil {
			t.Fatalf("Do(%d) error = %v", i, err)
		}
	}

	info := c.Info()
	if info.CurrentSize != 2 {
		t.Errorf("CurrentSize = %d, want 2", info.CurrentSize)
	}
	if info.Evictions != 3 {
		t.Errorf("Evictions = %d, want 3", info.Evictions)
	}

	// 0 was evicted long ago; fetching it recomputes.
	before := calls
	if _, err := c.Do(ctx, []any{0}, nil, constant(0, &calls)); err != nil {
		t.Fatalf("Do(0) error = %v", err)
	}
	if calls != before+1 {
		t.Errorf("evicted key should recompute")
	}
}

// TestCache_LFUEviction tests that the cache honors the configured
// frequency policy end to end.
func TestCache_LFUEviction(t *testing.T) {
	c, err := New(WithMaxSize(2), WithAlgorithm(LFU))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	calls := 0
	c.Do(ctx, []any{"a"}, nil, constant(1, &calls))
	c.Do(ctx, []any{"b"}, nil, constant(2, &calls))
	c.Do(ctx, []any{"a"}, nil, constant(1, &calls)) // a now more frequent
	c.Do(ctx, []any{"c"}, nil, constant(3, &calls)) // evicts b

	before := calls
	c.Do(ctx, []any{"a"}, nil, constant(1, &calls))
	if calls != before {
		t.Errorf("frequent key was evicted")
	}
	c.Do(ctx, []any{"b"}, nil, constant(2, &calls))
	if calls != before+1 {
		t.Errorf("infrequent key should have been evicted and recomputed")
	}
}

// TestCache_TTL tests lazy expiry through the full Do path.
func TestCache_TTL(t *testing.T) {
	c, err := New(WithTTL(30 * time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	calls := 0
	if _, err := c.Do(ctx, []any{1}, nil, constant("v", &calls)); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if _, err := c.Do(ctx, []any{1}, nil, constant("v", &calls)); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if calls != 1 {
		t.Fatalf("compute ran %d times before expiry, want 1", calls)
	}

	time.Sleep(50 * time.Millisecond)

	if _, err := c.Do(ctx, []any{1}, nil, constant("v", &calls)); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("compute ran %d times after expiry, want 2", calls)
	}
	info := c.Info()
	if info.Hits != 1 || info.Misses != 2 {
		t.Errorf("Hits = %d, Misses = %d, want 1, 2", info.Hits, info.Misses)
	}
}

// TestCache_Janitor tests that the background sweep drops expired entries
// without any access, and that Close is idempotent.
func TestCache_Janitor(t *testing.T) {
	c, err := New(WithTTL(10*time.Millisecond), WithCleanupInterval(5*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	calls := 0
	for i := 0; i < 4; i++ {
		if _, err := c.Do(ctx, []any{i}, nil, constant(i, &calls)); err != nil {
			t.Fatalf("Do(%d) error = %v", i, err)
		}
	}

	deadline := time.After(2 * time.Second)
	for c.Info().CurrentSize > 0 {
		select {
		case <-deadline:
			t.Fatalf("janitor did not drop expired entries, size = %d", c.Info().CurrentSize)
		case <-time.After(5 * time.Millisecond):
		}
	}

	c.Close()
	c.Close()
}

// TestCache_Clear tests that Clear drops entries and resets every
// counter.
func TestCache_Clear(t *testing.T) {
	c, err := New(WithMaxSize(2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	calls := 0
	for i := 0; i < 4; i++ {
		c.Do(ctx, []any{i}, nil, constant(i, &calls))
	}
	c.Do(ctx, []any{3}, nil, constant(3, &calls)) // one hit

	c.Clear()

	info := c.Info()
	if info.Hits != 0 || info.Misses != 0 || info.Evictions != 0 {
		t.Errorf("counters after Clear = %d/%d/%d, want 0/0/0",
			info.Hits, info.Misses, info.Evictions)
	}
	if info.CurrentSize != 0 {
		t.Errorf("CurrentSize after Clear = %d, want 0", info.CurrentSize)
	}

	// Configuration survives the reset.
	if info.MaxSize != 2 || info.Algorithm != LRU {
		t.Errorf("configuration changed by Clear: %+v", info)
	}

	// The cache keeps working.
	before := calls
	if _, err := c.Do(ctx, []any{0}, nil, constant(0, &calls)); err != nil {
		t.Fatalf("Do() after Clear error = %v", err)
	}
	if calls != before+1 {
		t.Errorf("entry survived Clear")
	}
}

// TestCache_Logging tests that cache events reach a wired structured
// logger with the cache name attached.
func TestCache_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("debug", &buf, false)

	c, err := New(WithName("fib"), WithLogger(logger))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	calls := 0
	c.Do(ctx, []any{10}, nil, constant(55, &calls))
	c.Do(ctx, []any{10}, nil, constant(55, &calls))

	out := buf.String()
	if !strings.Contains(out, "cache miss") {
		t.Errorf("log output missing miss event: %s", out)
	}
	if !strings.Contains(out, "cache hit") {
		t.Errorf("log output missing hit event: %s", out)
	}
	if !strings.Contains(out, `"cache":"fib"`) {
		t.Errorf("log output missing cache name: %s", out)
	}
}

// TestStats_HitRate tests the derived ratio.
func TestStats_HitRate(t *testing.T) {
	tests := []struct {
		name   string
		hits   uint64
		misses uint64
		want   float64
	}{
		{"no lookups", 0, 0, 0},
		{"all hits", 10, 0, 1},
		{"all misses", 0, 10, 0},
		{"three quarters", 3, 1, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Stats{Hits: tt.hits, Misses: tt.misses}
			if got := s.HitRate(); got != tt.want {
				t.Errorf("HitRate() = %v, want %v", got, tt.want)
			}
		})
	}
}
