// Package octlog is a thin, context-aware wrapper around log/slog, in the
// same spirit as the teacher's own lib/log package: callers pass a
// context.Context and a message, plus structured slog.Attr values, and this
// package routes them to a single process-wide slog.Logger.
package octlog

import (
	"context"
	"log/slog"
	"os"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelInfo,
}))

// SetLevel adjusts the minimum level emitted. Used by cmd/octi's --verbose flag.
func SetLevel(level slog.Level) {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// Debug logs at debug level, attaching ctx for trace correlation if the
// handler is configured to use it.
func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

// Info logs at info level.
func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// Error logs at error level.
func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}
