package observe

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Field represents a structured log field.
type Field struct {
	Key   string
	Value any
}

// Logger is a minimal structured logging interface.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging must be best-effort and must not panic.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)

	// WithCache returns a logger with cache context attached.
	WithCache(meta CacheMeta) Logger
}

// zlLogger is a zerolog-backed Logger.
type zlLogger struct {
	zl zerolog.Logger
}

// NewLogger creates a structured logger writing to stderr at the given
// level. Pretty switches from JSON to human-readable console output.
func NewLogger(level string, pretty bool) Logger {
	return NewLoggerWithWriter(level, os.Stderr, pretty)
}

// NewLoggerWithWriter creates a structured logger with a custom writer.
func NewLoggerWithWriter(level string, w io.Writer, pretty bool) Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w}
	}
	zl := zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
	return &zlLogger{zl: zl}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *zlLogger) WithCache(meta CacheMeta) Logger {
	zl := l.zl.With().Str("cache", meta.Name)
	if meta.Algorithm != "" {
		zl = zl.Str("algorithm", meta.Algorithm)
	}
	return &zlLogger{zl: zl.Logger()}
}

func (l *zlLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	emit(l.zl.Debug(), msg, fields)
}

func (l *zlLogger) Info(ctx context.Context, msg string, fields ...Field) {
	emit(l.zl.Info(), msg, fields)
}

func (l *zlLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	emit(l.zl.Warn(), msg, fields)
}

func (l *zlLogger) Error(ctx context.Context, msg string, fields ...Field) {
	emit(l.zl.Error(), msg, fields)
}

func emit(e *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		e = e.Interface(f.Key, f.Value)
	}
	e.Msg(msg)
}

// nopLogger discards everything.
type nopLogger struct{}

// NopLogger returns a logger that does nothing. It is the default for
// caches constructed without an observer.
func NopLogger() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(context.Context, string, ...Field) {}
func (nopLogger) Info(context.Context, string, ...Field)  {}
func (nopLogger) Warn(context.Context, string, ...Field)  {}
func (nopLogger) Error(context.Context, string, ...Field) {}
func (nopLogger) WithCache(CacheMeta) Logger              { return nopLogger{} }

var _ Logger = (*zlLogger)(nil)
