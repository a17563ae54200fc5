// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log"
	"log/slog"
	"strings"
)

// New returns a logger writing to w: JSON records in production, text
// otherwise, at the named level (debug, info, warn, error; default info).
func New(w io.Writer, level string, production bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if production {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

func ParseLevel(level string) slog.Level {
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

// StdLogger adapts l for APIs that want a *log.Logger, such as chi's
// request logger.
func StdLogger(l *slog.Logger) *log.Logger {
	return slog.NewLogLogger(l.Handler(), slog.LevelInfo)
}
