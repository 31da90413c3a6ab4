package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup returns a JSON slog.Logger writing to w at the given level.
func Setup(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

// SetupDefault installs a JSON logger as the global slog default.
// Pass nil to write to stdout.
func SetupDefault(w io.Writer, level string) {
	if w == nil {
		w = os.Stdout
	}
	slog.SetDefault(Setup(w, level))
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
