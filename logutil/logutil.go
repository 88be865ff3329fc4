// Package logutil configures the process-wide slog logger.
package logutil

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// EnvDebug enables debug logging when set to "true".
const EnvDebug = "BLEURGH_DEBUG"

var (
	mu           sync.RWMutex
	globalLogger *slog.Logger
	debugEnabled bool
)

func init() {
	SetupLogger(false, false)
}

// SetupLogger configures the global logger. When debug is true debug-level
// records are emitted; when structured is true records are JSON-formatted.
// The logger writes to stderr. Safe for concurrent use.
func SetupLogger(debug, structured bool) {
	SetupLoggerWithWriter(os.Stderr, debug, structured)
}

// SetupLoggerWithWriter configures the global logger with a custom writer,
// useful for tests. Safe for concurrent use.
func SetupLoggerWithWriter(w io.Writer, debug, structured bool) {
	mu.Lock()
	defer mu.Unlock()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	debugEnabled = debug

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if structured {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

// IsDebugEnabled reports whether debug logging is on, either
// programmatically or via the BLEURGH_DEBUG environment variable.
func IsDebugEnabled() bool {
	mu.RLock()
	enabled := debugEnabled
	mu.RUnlock()
	return enabled || os.Getenv(EnvDebug) == "true"
}

func logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	if IsDebugEnabled() {
		logger().Debug(msg, args...)
	}
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	logger().Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	logger().Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	logger().Error(msg, args...)
}
