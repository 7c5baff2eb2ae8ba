package notation

import (
	"io"
	"log/slog"

	"github.com/opd-ai/notation-canvas/internal/fonts"
)

// Options configures a Renderer beyond what the configuration file holds.
type Options struct {
	// Logger receives structured logs. If nil, nothing is logged.
	Logger *slog.Logger

	// Metrics collects render counters. If nil, DefaultMetrics() is used.
	Metrics *Metrics

	// Cache holds resolved fonts. If nil, fonts.DefaultCache is used.
	Cache *fonts.Cache

	// Stdout receives script print output and any output written to "-".
	// If nil, os.Stdout is used.
	Stdout io.Writer

	// ConfigPath is the configuration file to re-read in watch mode.
	// Empty means only the script is watched.
	ConfigPath string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Logger:  NopLogger(),
		Metrics: DefaultMetrics(),
		Cache:   fonts.DefaultCache,
	}
}
