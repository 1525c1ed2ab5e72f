// Package logger provides structured logging setup using Go's slog package.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Logger is a thin printf-style wrapper over slog used across the application.
type Logger struct {
	log *slog.Logger
}

// Options configures the logger setup.
type Options struct {
	Level   string // debug, info, warn, error
	Console bool   // pretty print for dev (LOG_FORMAT=console)
}

// New creates a logger with the given level and format.
func New(level string, console bool) *Logger {
	handlerOpts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if console {
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	}

	// Wrap with correlation handler to auto-inject correlation_id from context
	handler = NewCorrelationHandler(handler)

	return &Logger{log: slog.New(handler)}
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.log.Info(fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.log.Error(fmt.Sprintf(format, args...))
}

// ErrorCtx logs an error message with context so correlation_id is attached.
func (l *Logger) ErrorCtx(ctx context.Context, format string, args ...any) {
	l.log.ErrorContext(ctx, fmt.Sprintf(format, args...))
}

// InfoCtx logs an informational message with context.
func (l *Logger) InfoCtx(ctx context.Context, format string, args ...any) {
	l.log.InfoContext(ctx, fmt.Sprintf(format, args...))
}

// Fatal logs an error and terminates the process.
func (l *Logger) Fatal(err error) {
	l.log.Error(err.Error())
	os.Exit(1)
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
