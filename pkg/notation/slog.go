package notation

import (
	"io"
	"log/slog"
	"os"
)

// DefaultLogger returns a logger writing text to stderr at Info level.
func DefaultLogger() *slog.Logger {
	return TextLogger(os.Stderr, slog.LevelInfo)
}

// DebugLogger returns a logger writing text to stderr at Debug level,
// including source location.
func DebugLogger() *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	})
	return slog.New(NewRenderIDHandler(handler))
}

// TextLogger returns a text logger at level. A nil w means stderr.
func TextLogger(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewRenderIDHandler(handler))
}

// JSONLogger returns a logger that outputs JSON, for log aggregation.
func JSONLogger(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewRenderIDHandler(handler))
}

// NopLogger returns a logger that discards all records.
func NopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
