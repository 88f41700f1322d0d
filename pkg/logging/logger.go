// Package logging provides structured logging for sink using Go's slog.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var logger *slog.Logger

// Config controls logging behavior.
type Config struct {
	Level      string
	JSONFormat bool
	Output     io.Writer
}

// DefaultConfig returns default logging configuration: warnings and above,
// text format, stderr.
func DefaultConfig() Config {
	return Config{
		Level:      "warn",
		JSONFormat: false,
		Output:     os.Stderr,
	}
}

// Init initializes the logger with the given configuration.
func Init(cfg Config) {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	var handler slog.Handler
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	logger = slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// ensureInit initializes the logger with defaults if not already initialized.
func ensureInit() {
	if logger == nil {
		Init(DefaultConfig())
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	ensureInit()
	logger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	ensureInit()
	logger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	ensureInit()
	logger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	ensureInit()
	logger.Error(msg, args...)
}

// SetLogger sets a custom logger (useful for testing).
func SetLogger(l *slog.Logger) {
	logger = l
}
