package nanocube

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with engine-specific helpers so that log lines
// carry consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))}
}

// LogBuild logs an index build.
func (l *Logger) LogBuild(ctx context.Context, rows, dimensions, measures int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"rows", rows,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "build completed",
		"rows", rows,
		"dimensions", dimensions,
		"measures", measures,
		"duration", d,
	)
}

// LogQuery logs a point query.
func (l *Logger) LogQuery(ctx context.Context, filters int, cacheHit bool, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"filters", filters,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "query completed",
		"filters", filters,
		"cache_hit", cacheHit,
		"duration", d,
	)
}

// LogSave logs a snapshot save.
func (l *Logger) LogSave(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot save failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot saved",
		"name", name,
	)
}

// LogLoad logs a snapshot load.
func (l *Logger) LogLoad(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot load failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot loaded",
		"name", name,
	)
}
