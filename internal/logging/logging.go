// Package logging builds the slog logger used by every component.
package logging

import (
	"io"
	"log/slog"

	"github.com/inovacc/addressbook/internal/config"
)

// New returns a logger writing to w in the configured format.
// verbose forces debug level regardless of the configured one.
func New(w io.Writer, cfg config.Log, verbose bool) *slog.Logger {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		level = slog.LevelWarn
	}

	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Component tags a logger with the component attribute.
func Component(log *slog.Logger, name string) *slog.Logger {
	if log == nil {
		log = Discard()
	}

	return log.With(slog.String("component", name))
}
