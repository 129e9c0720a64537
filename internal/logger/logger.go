// Package logger builds the process-wide slog logger from config values.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// L is the process logger. Init replaces it; callers that need scoped
// loggers derive from it with With.
var L = slog.Default()

// Init constructs the process logger from a level and format string and
// installs it as the slog default.
func Init(level, format string) {
	L = New(level, format)
	slog.SetDefault(L)
}

// New builds a slog logger writing to stderr. Unknown levels fall back to
// info, unknown formats to text.
func New(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
