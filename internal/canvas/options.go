package canvas

import (
	"log/slog"

	"github.com/opd-ai/notation-canvas/internal/fonts"
)

type options struct {
	manager  *fonts.Manager
	cache    *fonts.Cache
	logger   *slog.Logger
	resolver *fonts.Resolver
}

// Option configures a Context, a MeasureSurface or a StubContext.
type Option func(*options)

// WithManager sets the font manager consulted when the glyph font does not
// apply.
func WithManager(m *fonts.Manager) Option {
	return func(o *options) { o.manager = m }
}

// WithCache replaces fonts.DefaultCache.
func WithCache(c *fonts.Cache) Option {
	return func(o *options) { o.cache = c }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithResolver uses r directly, ignoring WithManager and WithCache.
func WithResolver(r *fonts.Resolver) Option {
	return func(o *options) { o.resolver = r }
}

func buildOptions(glyph *fonts.Typeface, opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.resolver == nil {
		o.resolver = fonts.NewResolver(glyph, o.manager,
			fonts.WithCache(o.cache),
			fonts.WithLogger(o.logger))
	}
	return o
}
