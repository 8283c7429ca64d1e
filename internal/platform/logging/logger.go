package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/httplog/v2"
)

// ParseLevel maps "debug", "info", "warn" and "error" to a slog.Level.
// Anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// Init sets up the default slog logger writing to stdout.
// format is "json" or "text" (anything else).
func Init(level, format string) *slog.Logger {
	logger := slog.New(newHandler(os.Stdout, level, format))
	slog.SetDefault(logger)

	return logger
}

func newHandler(w io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}

	return slog.NewTextHandler(w, opts)
}

// RequestLogger is the logger used by the HTTP request logging middleware.
func RequestLogger(service, level, format string) *httplog.Logger {
	return httplog.NewLogger(service, httplog.Options{
		LogLevel: ParseLevel(level),
		JSON:     strings.EqualFold(format, "json"),
		Concise:  true,
	})
}
