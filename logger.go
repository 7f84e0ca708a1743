package memzone

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with memzone-specific context.
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

// WithEpoch adds an epoch field to the logger.
func (l *Logger) WithEpoch(epoch uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("epoch", epoch),
	}
}

// LogIntern logs an intern operation.
func (l *Logger) LogIntern(key uint64, hit bool) {
	l.Debug("intern completed",
		"key", key,
		"hit", hit,
	)
}

// LogZoneOpen logs a zone open.
func (l *Logger) LogZoneOpen(epoch uint64) {
	l.Debug("zone opened",
		"epoch", epoch,
	)
}

// LogZoneClose logs a zone close.
func (l *Logger) LogZoneClose(epoch uint64, freed int, err error) {
	if err != nil {
		l.Error("zone close failed",
			"epoch", epoch,
			"error", err,
		)
	} else {
		l.Debug("zone closed",
			"epoch", epoch,
			"entries_freed", freed,
		)
	}
}

// LogSnapshot logs a base snapshot save or load.
func (l *Logger) LogSnapshot(op, path string, entries int, err error) {
	if err != nil {
		l.Error("snapshot "+op+" failed",
			"path", path,
			"error", err,
		)
	} else {
		l.Info("snapshot "+op+" completed",
			"path", path,
			"entries", entries,
		)
	}
}
