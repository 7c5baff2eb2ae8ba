// Package pdf implements a vector surface on tdewolff/canvas that writes a
// single-page PDF.
package pdf

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/opd-ai/notation-canvas/internal/fonts"
	"github.com/opd-ai/notation-canvas/internal/surface"
)

const (
	// mmPerPx maps CSS pixels (96 per inch) to canvas millimetres.
	mmPerPx = 25.4 / 96
	// ptPerMm maps millimetres to typographic points for font faces.
	ptPerMm = 72 / 25.4
)

var transparent = color.RGBA{}

// Surface records vector drawing into a canvas.Canvas. Coordinates are in
// pixels with y pointing down; the base transform converts them to
// millimetres.
type Surface struct {
	surface.Stack
	c          *canvas.Canvas
	ctx        *canvas.Context
	width      float64
	height     float64
	background color.RGBA
	families   map[*fonts.Typeface]*canvas.FontFamily
	err        error
}

// New creates a page of width by height pixels.
func New(width, height float64) *Surface {
	w, h := width*mmPerPx, height*mmPerPx
	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	return &Surface{
		Stack:      surface.NewStack(surface.Identity().Scale(mmPerPx, mmPerPx)),
		c:          c,
		ctx:        ctx,
		width:      w,
		height:     h,
		background: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		families:   make(map[*fonts.Typeface]*canvas.FontFamily),
	}
}

// SetBackground sets the colour ClearRect paints with, since a PDF page
// cannot be made transparent again once drawn on.
func (s *Surface) SetBackground(c color.RGBA) {
	s.background = c
}

// Fill paints the whole page.
func (s *Surface) Fill(c color.Color) {
	s.ctx.SetFillColor(c)
	s.ctx.SetStrokeColor(transparent)
	s.ctx.DrawPath(0, 0, canvas.Rectangle(s.width, s.height))
}

// Err returns the first font error met while drawing text.
func (s *Surface) Err() error { return s.err }

// EncodePDF renders the page as PDF.
func (s *Surface) EncodePDF(w io.Writer) error {
	writer := pdf.New(w, s.width, s.height, nil)
	s.c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// SavePDF writes the page to a PDF file.
func (s *Surface) SavePDF(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := s.EncodePDF(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// sink builds a canvas path from device-space segments.
type sink struct{ p *canvas.Path }

func (k sink) MoveTo(x, y float64)         { k.p.MoveTo(x, y) }
func (k sink) LineTo(x, y float64)         { k.p.LineTo(x, y) }
func (k sink) QuadTo(cx, cy, x, y float64) { k.p.QuadTo(cx, cy, x, y) }
func (k sink) Close()                      { k.p.Close() }
func (k sink) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	k.p.CubeTo(c1x, c1y, c2x, c2y, x, y)
}

// DrawPath fills or strokes p with the current transform.
func (s *Surface) DrawPath(p *surface.Path, paint surface.Paint) {
	if p == nil || p.IsEmpty() {
		return
	}
	cp := &canvas.Path{}
	p.Walk(s.Matrix(), sink{cp})
	s.draw(cp, paint)
}

// DrawRect fills or strokes a rectangle.
func (s *Surface) DrawRect(r surface.Rect, paint surface.Paint) {
	p := surface.NewPath()
	p.AddRect(r)
	s.DrawPath(p, paint)
}

// ClearRect paints r with the background colour.
func (s *Surface) ClearRect(r surface.Rect) {
	p := surface.NewPath()
	p.AddRect(r)
	cp := &canvas.Path{}
	p.Walk(s.Matrix(), sink{cp})
	s.ctx.SetFillColor(s.background)
	s.ctx.SetStrokeColor(transparent)
	s.ctx.DrawPath(0, 0, cp)
}

func (s *Surface) draw(cp *canvas.Path, paint surface.Paint) {
	if paint.Style == surface.StyleStroke {
		s.ctx.SetFillColor(transparent)
		s.ctx.SetStrokeColor(paint.Color)
		s.ctx.SetStrokeWidth(paint.Width * s.Matrix().ScaleFactor())
		s.ctx.SetStrokeCapper(capper(paint.Cap))
		s.ctx.SetStrokeJoiner(joiner(paint.Join))
	} else {
		s.ctx.SetFillColor(paint.Color)
		s.ctx.SetStrokeColor(transparent)
	}
	s.ctx.DrawPath(0, 0, cp)
}

func capper(c surface.LineCap) canvas.Capper {
	switch c {
	case surface.CapRound:
		return canvas.RoundCap
	case surface.CapSquare:
		return canvas.SquareCap
	default:
		return canvas.ButtCap
	}
}

func joiner(j surface.LineJoin) canvas.Joiner {
	switch j {
	case surface.JoinRound:
		return canvas.RoundJoin
	case surface.JoinBevel:
		return canvas.BevelJoin
	default:
		return canvas.MiterJoin
	}
}

// DrawText draws a glyph run as embedded text. Under a rotated, skewed or
// mirrored transform the run is painted as glyph outlines instead.
func (s *Surface) DrawText(str string, x, y float64, font *fonts.Font, paint surface.Paint) {
	if str == "" || font == nil {
		return
	}
	if !upright(s.Matrix()) {
		p := surface.NewPath()
		font.AppendOutline(p, str, x, y)
		s.DrawPath(p, paint)
		return
	}
	family, err := s.family(font.Typeface())
	if err != nil {
		if s.err == nil {
			s.err = err
		}
		return
	}
	m := s.Matrix()
	tx, ty := m.Apply(x, y)
	sizePt := font.Size() * m.ScaleFactor() * ptPerMm
	face := family.Face(sizePt, paint.Color, canvas.FontRegular, canvas.FontNormal)
	s.ctx.DrawText(tx, ty, canvas.NewTextLine(face, str, canvas.Left))
}

func upright(m surface.Matrix) bool {
	return m.XY == 0 && m.YX == 0 && m.XX > 0 && m.YY > 0
}

func (s *Surface) family(t *fonts.Typeface) (*canvas.FontFamily, error) {
	if f, ok := s.families[t]; ok {
		return f, nil
	}
	f := canvas.NewFontFamily(t.Family())
	if err := f.LoadFont(t.Data(), 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("failed to embed %s: %w", t.Family(), err)
	}
	s.families[t] = f
	return f, nil
}

var _ surface.Surface = (*Surface)(nil)
