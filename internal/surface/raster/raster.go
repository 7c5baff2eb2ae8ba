// Package raster implements an offscreen surface on the gogpu/gg software
// rasterizer. It is used for PNG output and for pixel-level tests.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/opd-ai/notation-canvas/internal/fonts"
	"github.com/opd-ai/notation-canvas/internal/surface"
)

// Surface draws into a gg.Context. The gg context keeps an identity
// transform; user-space geometry is transformed before it is handed over.
type Surface struct {
	surface.Stack
	dc  *gg.Context
	err error
}

// New creates a transparent surface of the given pixel size.
func New(width, height int) *Surface {
	return &Surface{
		Stack: surface.NewStack(surface.Identity()),
		dc:    gg.NewContext(width, height),
	}
}

// Fill paints the whole surface with c, ignoring the transform.
func (s *Surface) Fill(c color.Color) {
	s.dc.ClearWithColor(gg.FromColor(c))
}

// Width returns the width in pixels.
func (s *Surface) Width() int { return s.dc.Width() }

// Height returns the height in pixels.
func (s *Surface) Height() int { return s.dc.Height() }

// Image returns the rendered pixels.
func (s *Surface) Image() image.Image { return s.dc.Image() }

// EncodePNG writes the pixels as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	if err := s.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// SavePNG writes the pixels to a PNG file.
func (s *Surface) SavePNG(path string) error {
	if err := s.dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save PNG %s: %w", path, err)
	}
	return nil
}

// Err returns the first rasterization error, if any.
func (s *Surface) Err() error { return s.err }

// Close releases the gg context.
func (s *Surface) Close() error {
	return s.dc.Close()
}

func (s *Surface) keep(err error) {
	if err != nil && s.err == nil {
		s.err = err
	}
}

// sink forwards device-space segments to the gg path.
type sink struct{ dc *gg.Context }

func (k sink) MoveTo(x, y float64)         { k.dc.MoveTo(x, y) }
func (k sink) LineTo(x, y float64)         { k.dc.LineTo(x, y) }
func (k sink) QuadTo(cx, cy, x, y float64) { k.dc.QuadraticTo(cx, cy, x, y) }
func (k sink) Close()                      { k.dc.ClosePath() }
func (k sink) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	k.dc.CubicTo(c1x, c1y, c2x, c2y, x, y)
}

// DrawPath fills or strokes p with the current transform.
func (s *Surface) DrawPath(p *surface.Path, paint surface.Paint) {
	if p == nil || p.IsEmpty() {
		return
	}
	s.dc.ClearPath()
	p.Walk(s.Matrix(), sink{s.dc})
	s.paint(paint)
}

// DrawRect fills or strokes a rectangle.
func (s *Surface) DrawRect(r surface.Rect, paint surface.Paint) {
	p := surface.NewPath()
	p.AddRect(r)
	s.DrawPath(p, paint)
}

func (s *Surface) paint(paint surface.Paint) {
	s.dc.SetColor(paint.Color)
	if paint.Style == surface.StyleStroke {
		s.dc.SetLineWidth(paint.Width * s.Matrix().ScaleFactor())
		s.dc.SetLineCap(lineCap(paint.Cap))
		s.dc.SetLineJoin(lineJoin(paint.Join))
		s.keep(s.dc.Stroke())
		return
	}
	s.dc.SetFillRule(gg.FillRuleNonZero)
	s.keep(s.dc.Fill())
}

func lineCap(c surface.LineCap) gg.LineCap {
	switch c {
	case surface.CapRound:
		return gg.LineCapRound
	case surface.CapSquare:
		return gg.LineCapSquare
	default:
		return gg.LineCapButt
	}
}

func lineJoin(j surface.LineJoin) gg.LineJoin {
	switch j {
	case surface.JoinRound:
		return gg.LineJoinRound
	case surface.JoinBevel:
		return gg.LineJoinBevel
	default:
		return gg.LineJoinMiter
	}
}

// ClearRect sets every pixel whose center lies inside the transformed
// rectangle to transparent.
func (s *Surface) ClearRect(r surface.Rect) {
	m := s.Matrix()
	var quad [4][2]float64
	quad[0][0], quad[0][1] = m.Apply(r.X, r.Y)
	quad[1][0], quad[1][1] = m.Apply(r.X+r.W, r.Y)
	quad[2][0], quad[2][1] = m.Apply(r.X+r.W, r.Y+r.H)
	quad[3][0], quad[3][1] = m.Apply(r.X, r.Y+r.H)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, q := range quad {
		minX, maxX = math.Min(minX, q[0]), math.Max(maxX, q[0])
		minY, maxY = math.Min(minY, q[1]), math.Max(maxY, q[1])
	}
	x0 := max(0, int(math.Floor(minX)))
	y0 := max(0, int(math.Floor(minY)))
	x1 := min(s.dc.Width(), int(math.Ceil(maxX)))
	y1 := min(s.dc.Height(), int(math.Ceil(maxY)))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if insideQuad(quad, float64(x)+0.5, float64(y)+0.5) {
				s.dc.SetPixel(x, y, gg.Transparent)
			}
		}
	}
}

// insideQuad reports whether (px, py) lies in the convex quad, whatever
// its winding.
func insideQuad(q [4][2]float64, px, py float64) bool {
	var pos, neg bool
	for i := range q {
		a, b := q[i], q[(i+1)%4]
		cross := (b[0]-a[0])*(py-a[1]) - (b[1]-a[1])*(px-a[0])
		if cross > 0 {
			pos = true
		} else if cross < 0 {
			neg = true
		}
	}
	return !(pos && neg)
}

// DrawText paints the glyph outlines of a run through the current
// transform, so rotated and skewed contexts turn the glyphs too.
func (s *Surface) DrawText(str string, x, y float64, font *fonts.Font, paint surface.Paint) {
	if str == "" || font == nil {
		return
	}
	p := surface.NewPath()
	font.AppendOutline(p, str, x, y)
	s.DrawPath(p, paint)
}

var _ surface.Surface = (*Surface)(nil)
