// Package logging builds the structured logger shared by the server and the CLI.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"docroute/internal/config"
)

// New returns a logger writing to stdout in the configured format, tagged with service.
func New(service string, cfg config.LogConfig) *slog.Logger {
	return NewWithWriter(os.Stdout, service, cfg)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, service string, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "text", "console":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("service", service)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
