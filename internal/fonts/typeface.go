package fonts

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/go-text/typesetting/font"
)

// GlyphID identifies a glyph inside a typeface.
type GlyphID uint32

// Rect is an axis-aligned box in pixels with y growing downwards.
type Rect struct {
	X, Y, Width, Height float64
}

// Right returns X + Width.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns Y + Height.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Typeface is parsed outline data plus the raw bytes it came from. The raw
// bytes let drawing backends build their own face types.
type Typeface struct {
	family string
	style  Style
	data   []byte
	upem   float64

	mu   sync.Mutex
	face *font.Face
}

// NewTypeface parses TrueType or OpenType data. The data slice is retained.
func NewTypeface(family string, style Style, data []byte) (*Typeface, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse font data for %s: %w", family, err)
	}
	upem := float64(face.Upem())
	if upem <= 0 {
		upem = 1000
	}
	return &Typeface{
		family: family,
		style:  style,
		data:   data,
		upem:   upem,
		face:   face,
	}, nil
}

// LoadTypefaceFile reads and parses a font file.
func LoadTypefaceFile(family string, style Style, path string) (*Typeface, error) {
	// #nosec G304 -- font paths come from the user's configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
	}
	return NewTypeface(family, style, data)
}

// Family returns the family name the typeface was registered under.
func (t *Typeface) Family() string { return t.family }

// Style returns the weight and slant the typeface was registered with.
func (t *Typeface) Style() Style { return t.style }

// Data returns the raw font bytes. Callers must not modify them.
func (t *Typeface) Data() []byte { return t.data }

// glyphID maps a rune to its nominal glyph, 0 (notdef) when missing.
func (t *Typeface) glyphID(r rune) GlyphID {
	t.mu.Lock()
	defer t.mu.Unlock()
	gid, ok := t.face.NominalGlyph(r)
	if !ok {
		return 0
	}
	return GlyphID(gid)
}

// advance returns the horizontal advance of a glyph in font units.
func (t *Typeface) advance(id GlyphID) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return float64(t.face.HorizontalAdvance(font.GID(id)))
}

// extents returns the ink box of a glyph in font units, y growing upwards.
func (t *Typeface) extents(id GlyphID) (font.GlyphExtents, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.face.GlyphExtents(font.GID(id))
}

// outline returns the vector outline of a glyph in font units, y growing
// upwards. Bitmap and colour glyphs report false.
func (t *Typeface) outline(id GlyphID) (font.GlyphOutline, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	o, ok := t.face.GlyphData(font.GID(id)).(font.GlyphOutline)
	return o, ok
}

// lineExtents returns ascender, descender and line gap in font units.
func (t *Typeface) lineExtents() (ascender, descender, gap float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ext, ok := t.face.FontHExtents()
	if !ok {
		return t.upem * 0.8, -t.upem * 0.2, 0
	}
	return float64(ext.Ascender), float64(ext.Descender), float64(ext.LineGap)
}
