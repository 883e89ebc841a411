package internal

import (
	"io"
	"log/slog"
	"time"
)

// ServiceName tags every log line.
const ServiceName = "seshop-api"

// NewLogger returns a text logger for dev and a JSON logger for everything
// else. Unknown levels fall back to info with a warning.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var h slog.Handler
	if env == "dev" {
		h = slog.NewTextHandler(w, opts)
	} else {
		opts.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		}
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(h).With("service", ServiceName)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	slog.Default().Warn("Invalid log level. Using default level: info", slog.String("value", level))
	return slog.LevelInfo
}
