// Package logger centralizes log setup so every module shares one configuration;
// level and format are controlled by environment variables.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Process-wide default logger; initialized once to keep output consistent.
var defaultLogger *slog.Logger

// Setup initializes the default logger from LOG_LEVEL and LOG_FORMAT.
// Output goes to stderr; no file handles or external sinks are managed here.
func Setup() *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	format := strings.ToLower(os.Getenv("LOG_FORMAT"))
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}
	defaultLogger = slog.New(h)
	return defaultLogger
}

// L returns the default logger, falling back to Setup if not yet initialized.
func L() *slog.Logger {
	if defaultLogger == nil {
		return Setup()
	}
	return defaultLogger
}
