// Package log holds the process-wide slog logger for the coach service.
package log

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	logger *slog.Logger
	once   sync.Once
)

// Init sets up the global logger. Levels are "debug", "info", "warn" and
// "error"; anything else falls back to info. Set COACH_LOG_FORMAT=json for
// machine-readable output, the default is text for terminals.
func Init(level string) {
	once.Do(func() {
		lvl := parseLevel(level)
		opts := &slog.HandlerOptions{
			Level: lvl,
			// Source locations are only worth the noise when debugging.
			AddSource: lvl == slog.LevelDebug,
		}

		var handler slog.Handler
		if strings.EqualFold(os.Getenv("COACH_LOG_FORMAT"), "json") {
			handler = slog.NewJSONHandler(os.Stderr, opts)
		} else {
			handler = slog.NewTextHandler(os.Stderr, opts)
		}

		logger = slog.New(handler)
		slog.SetDefault(logger)
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// L returns the global logger, initializing it at info level if Init was
// never called.
func L() *slog.Logger {
	if logger == nil {
		Init("info")
	}
	return logger
}

// Debug logs at debug level on the global logger.
func Debug(msg string, args ...any) {
	L().Debug(msg, args...)
}

// Info logs at info level on the global logger.
func Info(msg string, args ...any) {
	L().Info(msg, args...)
}

// Warn logs at warn level on the global logger.
func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

// Error logs at error level on the global logger.
func Error(msg string, args ...any) {
	L().Error(msg, args...)
}

// With returns a child of the global logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return L().With(args...)
}
