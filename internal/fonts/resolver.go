package fonts

import (
	"fmt"
	"log/slog"
	"strings"
)

// maxScannedFamilies bounds the last-resort scan over the font manager.
const maxScannedFamilies = 10

// Resolver turns descriptors into font handles. It prefers the embedded
// glyph typeface for any "bravura" family, then the requested families, then
// the first usable family of the manager.
type Resolver struct {
	glyph   *Typeface
	manager *Manager
	cache   *Cache
	logger  *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCache replaces DefaultCache.
func WithCache(c *Cache) ResolverOption {
	return func(r *Resolver) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithLogger sets the logger used for fallback diagnostics.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a resolver. glyph and manager may both be nil, in
// which case every resolution fails with ErrFontUnresolved.
func NewResolver(glyph *Typeface, manager *Manager, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		glyph:   glyph,
		manager: manager,
		cache:   DefaultCache,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Glyph returns the embedded glyph typeface, or nil.
func (r *Resolver) Glyph() *Typeface { return r.glyph }

// Manager returns the font manager, or nil.
func (r *Resolver) Manager() *Manager { return r.manager }

// Cache returns the cache glyph-font handles are stored in.
func (r *Resolver) Cache() *Cache { return r.cache }

// Resolve returns a handle for d. Glyph-font handles are cached under
// "Bravura-<px>" and shared; other handles are created fresh.
func (r *Resolver) Resolve(d Descriptor) (*Font, error) {
	size := NormalizePx(d.Size)
	families := d.Families()

	if r.glyph != nil {
		for _, fam := range families {
			if strings.Contains(strings.ToLower(fam), "bravura") {
				return r.glyphFont(size)
			}
		}
	}

	if r.manager != nil {
		st := d.MatchStyle()
		for _, fam := range families {
			if t := r.manager.MatchFamilyStyle(fam, st); t != nil {
				return NewFont(t, size), nil
			}
			r.logger.Debug("font family not available", "family", fam, "size", size)
		}

		n := min(r.manager.CountFamilies(), maxScannedFamilies)
		for i := 0; i < n; i++ {
			name := r.manager.FamilyName(i)
			if t := r.manager.MatchFamilyStyle(name, StyleNormal); t != nil {
				r.logger.Debug("using fallback font family", "requested", d.Family, "family", name, "size", size)
				return NewFont(t, size), nil
			}
		}
	}

	err := fmt.Errorf("%w: family %q, size %s", ErrFontUnresolved, d.Family, FormatPx(size))
	r.logger.Error("font resolution failed", "family", d.Family, "size", size, "error", err)
	return nil, err
}

// Default returns the glyph font at DefaultSizePx, falling back the same
// way Resolve does when there is no glyph typeface.
func (r *Resolver) Default() (*Font, error) {
	return r.Resolve(Descriptor{Family: GlyphFamily, Size: DefaultSizePx})
}

func (r *Resolver) glyphFont(size float64) (*Font, error) {
	return r.cache.GetOrCreate(CacheKey(GlyphFamily, size), func() (*Font, error) {
		return NewFont(r.glyph, size), nil
	})
}
