package mappedfile

import (
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with mappedfile-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithPath adds the file path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// WithChunk adds a chunk index field to the logger.
func (l *Logger) WithChunk(chunk int) *Logger {
	return &Logger{
		Logger: l.Logger.With("chunk", chunk),
	}
}

// LogNewChunk logs a chunk materialization.
func (l *Logger) LogNewChunk(path string, chunk int, elapsed time.Duration) {
	if elapsed > time.Millisecond {
		l.Warn("slow chunk allocation",
			"path", path,
			"chunk", chunk,
			"elapsed", elapsed,
		)
	} else {
		l.Debug("chunk allocated",
			"path", path,
			"chunk", chunk,
			"elapsed", elapsed,
		)
	}
}

// LogResize logs a file growth operation.
func (l *Logger) LogResize(path string, target int64, err error) {
	if err != nil {
		l.Error("resize failed",
			"path", path,
			"target", target,
			"error", err,
		)
	} else {
		l.Debug("file resized",
			"path", path,
			"target", target,
		)
	}
}

// LogReleaseError logs a failure on a release path. Release paths must
// not propagate errors past the close boundary, so they land here.
func (l *Logger) LogReleaseError(path string, err error) {
	l.Debug("release error",
		"path", path,
		"error", err,
	)
}
