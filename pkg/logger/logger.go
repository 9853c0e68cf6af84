package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with generator-specific fields.
type Logger struct {
	*slog.Logger
}

// New creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that writes human-readable text to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that writes JSON records to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Noop discards everything.
func Noop() *Logger {
	return New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithSession tags records with the session seed and architecture.
func (l *Logger) WithSession(seed uint32, arch string) *Logger {
	return &Logger{
		Logger: l.Logger.With("seed", seed, "arch", arch),
	}
}

// LogResolve logs the outcome of typedef resolution.
func (l *Logger) LogResolve(ctx context.Context, functions, typedefs int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "typedef resolution failed",
			"functions", functions,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "typedefs resolved",
		"functions", functions,
		"typedefs", typedefs,
	)
}

// LogHash logs one computed function hash.
func (l *Logger) LogHash(ctx context.Context, name, hashed string, hash uint32) {
	l.DebugContext(ctx, "function hashed",
		"function", name,
		"export", hashed,
		"hash", hash,
	)
}

// LogArtifact logs an artifact write.
func (l *Logger) LogArtifact(ctx context.Context, path string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "artifact write failed",
			"path", path,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "artifact written",
		"path", path,
		"bytes", size,
	)
}
