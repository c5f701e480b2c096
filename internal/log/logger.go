package log

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/lmittmann/tint"
)

var (
	once   sync.Once
	logger *slog.Logger
)

// Setup initializes the global logger. format selects between structured
// JSON (the default, for container log collection) and a colorized
// human-readable handler for local development.
func Setup(level, format string) {
	once.Do(func() {
		logger = build(level, format, os.Stdout)
		slog.SetDefault(logger)
	})
}

func build(level, format string, w *os.File) *slog.Logger {
	l := parseLevel(level)

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = tint.NewHandler(w, &tint.Options{Level: l})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: l})
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Get returns the configured logger, or a default one if Setup hasn't been called.
func Get() *slog.Logger {
	if logger == nil {
		Setup("INFO", "json")
	}
	return logger
}

// WithComponent returns a logger with the component field set.
func WithComponent(name string) *slog.Logger {
	return Get().With(slog.String("component", name))
}

// WithProvider returns a logger with the provider field set (slack|jira|github).
func WithProvider(name string) *slog.Logger {
	return Get().With(slog.String("provider", name))
}

// WithWebhookID returns a logger with the webhook_id field set.
func WithWebhookID(id string) *slog.Logger {
	return Get().With(slog.String("webhook_id", id))
}

// Info logs at INFO level.
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

// Warn logs at WARN level.
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// Error logs at ERROR level.
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}
