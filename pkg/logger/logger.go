// Package logger provides structured logging using slog with hostname tracking
// and short source file paths for better debugging across multiple instances.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Fields represents structured log fields.
type Fields map[string]any

var (
	// defaultLogger is the global logger instance.
	defaultLogger *slog.Logger
	// level is shared by every logger created with New.
	level slog.LevelVar
	// hostname is cached on init for performance.
	hostname string
)

func init() {
	var err error
	hostname, err = os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	// Initialize with default text handler
	defaultLogger = New(os.Stderr)
}

// New creates a new slog logger with hostname and short source paths. Its
// verbosity follows the package level set via SetLevel.
func New(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     &level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			// Shorten source file paths to just basename:line
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
					// Remove function name to keep it concise
					source.Function = ""
				}
			}
			return a
		},
	}

	handler := slog.NewTextHandler(w, opts)
	logger := slog.New(handler)

	// Add hostname to all log messages
	return logger.With("instance", hostname)
}

// SetLevel adjusts the verbosity of every logger created by New.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// SetDefault sets the default logger.
func SetDefault(l *slog.Logger) {
	defaultLogger = l
}

// Default returns the default logger.
func Default() *slog.Logger {
	return defaultLogger
}

// Hostname returns the cached hostname.
func Hostname() string {
	return hostname
}

// Debug logs a debug message with optional fields.
func Debug(msg string, fields Fields) {
	logAt(slog.LevelDebug, msg, fields)
}

// Info logs an info message with optional fields.
func Info(msg string, fields Fields) {
	logAt(slog.LevelInfo, msg, fields)
}

// Warn logs a warning message with optional fields.
func Warn(msg string, fields Fields) {
	logAt(slog.LevelWarn, msg, fields)
}

// Error logs an error message with optional fields.
func Error(msg string, err error, fields Fields) {
	if fields == nil {
		fields = Fields{}
	}
	fields["error"] = err.Error()
	logAt(slog.LevelError, msg, fields)
}

func logAt(l slog.Level, msg string, fields Fields) {
	defaultLogger.LogAttrs(context.Background(), l, msg, attrsFromFields(fields)...)
}

// attrsFromFields converts Fields to slog.Attr slice.
func attrsFromFields(fields Fields) []slog.Attr {
	if fields == nil {
		return nil
	}
	attrs := make([]slog.Attr, 0, len(fields))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}
