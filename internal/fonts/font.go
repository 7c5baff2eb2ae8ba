package fonts

import (
	"math"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
)

// Metrics holds line metrics of a sized font in pixels. Ascent is positive
// above the baseline and Descent is positive below it.
type Metrics struct {
	Ascent  float64
	Descent float64
	LineGap float64
}

// Font is a typeface at a pixel size. Handles handed out by a Cache are
// shared and must be treated as immutable.
type Font struct {
	typeface *Typeface
	size     float64
}

// NewFont sizes a typeface. Malformed sizes become DefaultSizePx.
func NewFont(t *Typeface, size float64) *Font {
	return &Font{typeface: t, size: NormalizePx(size)}
}

// Typeface returns the underlying typeface.
func (f *Font) Typeface() *Typeface { return f.typeface }

// Size returns the pixel size.
func (f *Font) Size() float64 { return f.size }

// Family returns the typeface's family name.
func (f *Font) Family() string { return f.typeface.family }

func (f *Font) scale() float64 {
	return f.size / f.typeface.upem
}

// GlyphIDs maps each rune of s to its nominal glyph.
func (f *Font) GlyphIDs(s string) []GlyphID {
	ids := make([]GlyphID, 0, len(s))
	for _, r := range s {
		ids = append(ids, f.typeface.glyphID(r))
	}
	return ids
}

// GlyphWidths returns the pixel advance of each glyph.
func (f *Font) GlyphWidths(ids []GlyphID) []float64 {
	widths := make([]float64, len(ids))
	sc := f.scale()
	for i, id := range ids {
		widths[i] = f.typeface.advance(id) * sc
	}
	return widths
}

// Advance returns the sum of the per-glyph advances of s.
func (f *Font) Advance(s string) float64 {
	var w float64
	for _, gw := range f.GlyphWidths(f.GlyphIDs(s)) {
		w += gw
	}
	return w
}

// Bounds returns the union of the glyph ink boxes of s laid out on a
// baseline at y=0, with y growing downwards. Glyphs above the baseline have
// negative Y. An empty string or a run of blank glyphs yields a zero Rect.
func (f *Font) Bounds(s string) Rect {
	sc := f.scale()
	var (
		pen                    float64
		minX, minY, maxX, maxY float64
		seen                   bool
	)
	for _, id := range f.GlyphIDs(s) {
		ext, ok := f.typeface.extents(id)
		if ok && ext.Width != 0 && ext.Height != 0 {
			left := pen + float64(ext.XBearing)*sc
			right := left + float64(ext.Width)*sc
			top := -float64(ext.YBearing) * sc
			bottom := -float64(ext.YBearing+ext.Height) * sc
			if right < left {
				left, right = right, left
			}
			if bottom < top {
				top, bottom = bottom, top
			}
			if !seen {
				minX, minY, maxX, maxY = left, top, right, bottom
				seen = true
			} else {
				minX = math.Min(minX, left)
				minY = math.Min(minY, top)
				maxX = math.Max(maxX, right)
				maxY = math.Max(maxY, bottom)
			}
		}
		pen += f.typeface.advance(id) * sc
	}
	if !seen {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Metrics returns the line metrics at this size.
func (f *Font) Metrics() Metrics {
	asc, desc, gap := f.typeface.lineExtents()
	sc := f.scale()
	return Metrics{
		Ascent:  asc * sc,
		Descent: -desc * sc,
		LineGap: gap * sc,
	}
}

// PathBuilder receives glyph contours in pixels with y growing downwards.
type PathBuilder interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(cx, cy, x, y float64)
	CubicTo(c1x, c1y, c2x, c2y, x, y float64)
	Close()
}

// AppendOutline adds the closed glyph contours of s, laid out on a baseline
// starting at (x, y), to p. Glyphs without vector data only advance the pen.
func (f *Font) AppendOutline(p PathBuilder, s string, x, y float64) {
	sc := f.scale()
	ids := f.GlyphIDs(s)
	widths := f.GlyphWidths(ids)
	for i, id := range ids {
		if o, ok := f.typeface.outline(id); ok {
			appendContours(p, o, x, y, sc)
		}
		x += widths[i]
	}
}

func appendContours(p PathBuilder, o font.GlyphOutline, x, y, sc float64) {
	pt := func(q font.SegmentPoint) (float64, float64) {
		return x + float64(q.X)*sc, y - float64(q.Y)*sc
	}
	open := false
	for _, seg := range o.Segments {
		switch seg.Op {
		case opentype.SegmentOpMoveTo:
			if open {
				p.Close()
			}
			p.MoveTo(pt(seg.Args[0]))
			open = true
		case opentype.SegmentOpLineTo:
			p.LineTo(pt(seg.Args[0]))
		case opentype.SegmentOpQuadTo:
			cx, cy := pt(seg.Args[0])
			ex, ey := pt(seg.Args[1])
			p.QuadTo(cx, cy, ex, ey)
		case opentype.SegmentOpCubeTo:
			c1x, c1y := pt(seg.Args[0])
			c2x, c2y := pt(seg.Args[1])
			ex, ey := pt(seg.Args[2])
			p.CubicTo(c1x, c1y, c2x, c2y, ex, ey)
		}
	}
	if open {
		p.Close()
	}
}
