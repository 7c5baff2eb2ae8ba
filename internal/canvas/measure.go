package canvas

import (
	"log/slog"

	"github.com/opd-ai/notation-canvas/internal/fonts"
)

// MeasureSurface stands in for an offscreen canvas element during the
// layout pre-pass. It measures text and never draws.
type MeasureSurface struct {
	resolver *fonts.Resolver
	logger   *slog.Logger
	font     string
	handle   *fonts.Font
}

// NewMeasureSurface creates a measurement surface whose current font is the
// glyph font at 12px.
func NewMeasureSurface(glyph *fonts.Typeface, opts ...Option) *MeasureSurface {
	o := buildOptions(glyph, opts)
	m := &MeasureSurface{
		resolver: o.resolver,
		logger:   o.logger,
		font:     fonts.DefaultFont,
	}
	m.handle = m.fallback()
	return m
}

// GetContext returns the surface itself for "2d" and nil otherwise.
func (m *MeasureSurface) GetContext(kind string) *MeasureSurface {
	if kind != "2d" {
		return nil
	}
	return m
}

// SetFont parses a CSS font shorthand. It never fails: anything that cannot
// be parsed or resolved falls back to the glyph font at 12px.
func (m *MeasureSurface) SetFont(css string) {
	m.font = css
	d, ok := fonts.ParseShorthand(css)
	if !ok || d.Family == "" {
		m.logger.Debug("malformed font shorthand, measuring with default", "font", css)
		m.handle = m.fallback()
		return
	}
	f, err := m.resolver.Resolve(d)
	if err != nil {
		m.logger.Debug("font unresolved, measuring with default", "font", css, "error", err)
		m.handle = m.fallback()
		return
	}
	m.handle = f
}

// Font returns the last string passed to SetFont.
func (m *MeasureSurface) Font() string { return m.font }

// CurrentFont returns the handle text is measured with. It is nil only when
// not even the default font resolves.
func (m *MeasureSurface) CurrentFont() *fonts.Font { return m.handle }

// MeasureText measures text in the current font.
func (m *MeasureSurface) MeasureText(text string) TextMetrics {
	return measureText(m.handle, text)
}

func (m *MeasureSurface) fallback() *fonts.Font {
	f, err := m.resolver.Default()
	if err != nil {
		m.logger.Warn("no default font available for measurement", "error", err)
		return nil
	}
	return f
}
