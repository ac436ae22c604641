package docgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with docgo-specific context.
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

// WithCollection adds a collection field to the logger.
func (l *Logger) WithCollection(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("collection", name),
	}
}

// WithDatabase adds a database field to the logger.
func (l *Logger) WithDatabase(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("database", name),
	}
}

// WithRecordType adds a record type field to the logger.
func (l *Logger) WithRecordType(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("type", name),
	}
}

// LogRegister logs a record type registration.
func (l *Logger) LogRegister(recordType, collection string) {
	l.Debug("record type registered",
		"type", recordType,
		"collection", collection,
	)
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(ctx context.Context, collection string, id any, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed",
			"collection", collection,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "insert completed",
			"collection", collection,
			"id", id,
		)
	}
}

// LogInsertMany logs a bulk insert operation.
func (l *Logger) LogInsertMany(ctx context.Context, collection string, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert many failed",
			"collection", collection,
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "insert many completed",
			"collection", collection,
			"count", count,
		)
	}
}

// LogUpdate logs an update operation.
func (l *Logger) LogUpdate(ctx context.Context, collection string, id any, modified bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "update failed",
			"collection", collection,
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "update completed",
			"collection", collection,
			"id", id,
			"modified", modified,
		)
	}
}

// LogReplace logs a replace operation.
func (l *Logger) LogReplace(ctx context.Context, collection string, id any, err error) {
	if err != nil {
		l.ErrorContext(ctx, "replace failed",
			"collection", collection,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "replace completed",
			"collection", collection,
			"id", id,
		)
	}
}

// LogReload logs a reload operation.
func (l *Logger) LogReload(ctx context.Context, collection string, id any, err error) {
	if err != nil {
		l.ErrorContext(ctx, "reload failed",
			"collection", collection,
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "reload completed",
			"collection", collection,
			"id", id,
		)
	}
}

// LogDelete logs a single-record delete operation.
func (l *Logger) LogDelete(ctx context.Context, collection string, deleted bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"collection", collection,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "delete completed",
			"collection", collection,
			"deleted", deleted,
		)
	}
}

// LogDeleteMany logs a bulk delete operation.
func (l *Logger) LogDeleteMany(ctx context.Context, collection string, requested int, deleted int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete many failed",
			"collection", collection,
			"requested", requested,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "delete many completed",
			"collection", collection,
			"requested", requested,
			"deleted", deleted,
		)
	}
}

// LogFind logs a streamed query after the stream ends or is abandoned.
func (l *Logger) LogFind(ctx context.Context, collection string, docs int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "find failed",
			"collection", collection,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "find completed",
			"collection", collection,
			"docs", docs,
		)
	}
}

// LogFindOne logs a single-document fetch. op names the variant,
// e.g. "find_one" or "find_one_and_update".
func (l *Logger) LogFindOne(ctx context.Context, collection, op string, found bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "find one failed",
			"collection", collection,
			"op", op,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "find one completed",
			"collection", collection,
			"op", op,
			"found", found,
		)
	}
}

// LogCount logs a count query.
func (l *Logger) LogCount(ctx context.Context, collection string, count int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "count failed",
			"collection", collection,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "count completed",
			"collection", collection,
			"count", count,
		)
	}
}
