package observe

import (
	"context"
	"errors"
	"testing"
)

// TestConfigValidate_Valid verifies that a fully valid config passes validation.
func TestConfigValidate_Valid(t *testing.T) {
	cfg := Config{
		ServiceName: "memo-service",
		Version:     "1.0.0",
		Tracing: TracingConfig{
			Enabled:   true,
			Exporter:  "stdout",
			SamplePct: 1.0,
		},
		Metrics: MetricsConfig{
			Enabled:  true,
			Exporter: "stdout",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

// TestConfigValidate_Errors verifies each invalid configuration is rejected
// with its sentinel.
func TestConfigValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			"missing service name",
			Config{},
			ErrMissingServiceName,
		},
		{
			"unknown tracing exporter",
			Config{
				ServiceName: "svc",
				Tracing:     TracingConfig{Enabled: true, Exporter: "jaeger"},
			},
			ErrInvalidTracingExporter,
		},
		{
			"sample pct above one",
			Config{
				ServiceName: "svc",
				Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.5},
			},
			ErrInvalidSamplePct,
		},
		{
			"negative sample pct",
			Config{
				ServiceName: "svc",
				Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: -0.1},
			},
			ErrInvalidSamplePct,
		},
		{
			"unknown metrics exporter",
			Config{
				ServiceName: "svc",
				Metrics:     MetricsConfig{Enabled: true, Exporter: "statsd"},
			},
			ErrInvalidMetricsExporter,
		},
		{
			"unknown log level",
			Config{
				ServiceName: "svc",
				Logging:     LoggingConfig{Enabled: true, Level: "verbose"},
			},
			ErrInvalidLogLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestConfigValidate_DisabledSubsystemsSkipped verifies that disabled
// subsystems are not validated.
func TestConfigValidate_DisabledSubsystemsSkipped(t *testing.T) {
	cfg := Config{
		ServiceName: "svc",
		Tracing:     TracingConfig{Enabled: false, Exporter: "bogus", SamplePct: 99},
		Metrics:     MetricsConfig{Enabled: false, Exporter: "bogus"},
		Logging:     LoggingConfig{Enabled: false, Level: "bogus"},
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected nil error for disabled subsystems, got: %v", err)
	}
}

// TestCacheMeta_SpanName verifies deterministic span naming.
func TestCacheMeta_SpanName(t *testing.T) {
	tests := []struct {
		name string
		meta CacheMeta
		want string
	}{
		{"named cache", CacheMeta{Name: "fib"}, "memo.compute.fib"},
		{"anonymous cache", CacheMeta{}, "memo.compute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.SpanName(); got != tt.want {
				t.Errorf("SpanName() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestNewObserver_AllDisabled verifies that an observer with everything
// disabled still returns working noop primitives.
func TestNewObserver_AllDisabled(t *testing.T) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{ServiceName: "svc"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	defer obs.Shutdown(ctx)

	if obs.Tracer() == nil {
		t.Error("Tracer() = nil")
	}
	if obs.Meter() == nil {
		t.Error("Meter() = nil")
	}
	if obs.Logger() == nil {
		t.Error("Logger() = nil")
	}

	// Noop primitives must be usable.
	_, span := obs.Tracer().Start(ctx, "probe")
	span.End()
	obs.Logger().Info(ctx, "probe")

	if err := obs.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

// TestNewObserver_InvalidConfig verifies construction fails on a bad config.
func TestNewObserver_InvalidConfig(t *testing.T) {
	_, err := NewObserver(context.Background(), Config{})
	if !errors.Is(err, ErrMissingServiceName) {
		t.Errorf("NewObserver() error = %v, want ErrMissingServiceName", err)
	}
}
