package clusterviz

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with clusterviz-specific context.
// This provides structured logging with consistent field names.
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
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithSession adds a session field to the logger.
func (l *Logger) WithSession(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("session", id),
	}
}

// WithK adds a k (cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogInitialize logs a centroid initialization.
func (l *Logger) LogInitialize(ctx context.Context, strategy Strategy, k int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "initialize failed",
			"strategy", strategy.String(),
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "initialize completed",
			"strategy", strategy.String(),
			"k", k,
		)
	}
}

// LogRun logs a clustering run.
func (l *Logger) LogRun(ctx context.Context, strategy Strategy, mode Mode, k int, res *Result, err error) {
	if err != nil {
		l.ErrorContext(ctx, "run failed",
			"strategy", strategy.String(),
			"mode", mode.String(),
			"k", k,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "run completed",
		"strategy", strategy.String(),
		"mode", mode.String(),
		"k", k,
		"iterations", res.Iterations,
		"outcome", res.Outcome.String(),
		"duration", res.Duration,
	)
}

// LogRequest logs a served HTTP request.
func (l *Logger) LogRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	switch {
	case status >= 500:
		l.ErrorContext(ctx, "request failed",
			"method", method,
			"path", path,
			"status", status,
			"duration", duration,
		)
	case status >= 400:
		l.WarnContext(ctx, "request rejected",
			"method", method,
			"path", path,
			"status", status,
			"duration", duration,
		)
	default:
		l.InfoContext(ctx, "request served",
			"method", method,
			"path", path,
			"status", status,
			"duration", duration,
		)
	}
}
