// Package screen implements a surface that draws onto an Ebiten image and a
// window that redraws a scene every frame.
package screen

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/opd-ai/notation-canvas/internal/fonts"
	"github.com/opd-ai/notation-canvas/internal/surface"
)

// whitePixel is a 1x1 white image used as the triangle source.
var whitePixel = func() *ebiten.Image {
	img := ebiten.NewImage(1, 1)
	img.Fill(color.White)
	return img
}()

// clearBlend zeroes every destination pixel a triangle covers.
var clearBlend = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorZero,
	BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
	BlendFactorDestinationRGB:   ebiten.BlendFactorZero,
	BlendFactorDestinationAlpha: ebiten.BlendFactorZero,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// Surface draws onto an ebiten.Image. The target may be swapped every frame
// with SetTarget; the transform stack is kept.
type Surface struct {
	surface.Stack
	target  *ebiten.Image
	sources map[*fonts.Typeface]*text.GoTextFaceSource
	err     error
}

// New creates a surface drawing onto target.
func New(target *ebiten.Image) *Surface {
	return &Surface{
		Stack:   surface.NewStack(surface.Identity()),
		target:  target,
		sources: make(map[*fonts.Typeface]*text.GoTextFaceSource),
	}
}

// SetTarget replaces the destination image.
func (s *Surface) SetTarget(target *ebiten.Image) {
	s.target = target
}

// Target returns the destination image.
func (s *Surface) Target() *ebiten.Image { return s.target }

// Err returns the first font error met while drawing text.
func (s *Surface) Err() error { return s.err }

// sink converts device-space segments to the float32 vector path.
type sink struct{ p *vector.Path }

func (k sink) MoveTo(x, y float64) { k.p.MoveTo(float32(x), float32(y)) }
func (k sink) LineTo(x, y float64) { k.p.LineTo(float32(x), float32(y)) }
func (k sink) Close()              { k.p.Close() }
func (k sink) QuadTo(cx, cy, x, y float64) {
	k.p.QuadTo(float32(cx), float32(cy), float32(x), float32(y))
}
func (k sink) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	k.p.CubicTo(float32(c1x), float32(c1y), float32(c2x), float32(c2y), float32(x), float32(y))
}

func (s *Surface) vectorPath(p *surface.Path) *vector.Path {
	vp := &vector.Path{}
	p.Walk(s.Matrix(), sink{vp})
	return vp
}

// DrawPath fills or strokes p with the current transform.
func (s *Surface) DrawPath(p *surface.Path, paint surface.Paint) {
	if s.target == nil || p == nil || p.IsEmpty() {
		return
	}
	vp := s.vectorPath(p)
	var vertices []ebiten.Vertex
	var indices []uint16
	if paint.Style == surface.StyleStroke {
		vertices, indices = vp.AppendVerticesAndIndicesForStroke(nil, nil, strokeOptions(paint, s.Matrix().ScaleFactor()))
	} else {
		vertices, indices = vp.AppendVerticesAndIndicesForFilling(nil, nil)
	}
	setVertexColors(vertices, paint.Color)
	s.target.DrawTriangles(vertices, indices, whitePixel, &ebiten.DrawTrianglesOptions{
		AntiAlias: paint.AntiAlias,
		FillRule:  ebiten.FillRuleNonZero,
		Blend:     ebiten.BlendSourceOver,
	})
}

// DrawRect fills or strokes a rectangle.
func (s *Surface) DrawRect(r surface.Rect, paint surface.Paint) {
	p := surface.NewPath()
	p.AddRect(r)
	s.DrawPath(p, paint)
}

// ClearRect resets the covered pixels to transparent.
func (s *Surface) ClearRect(r surface.Rect) {
	if s.target == nil {
		return
	}
	p := surface.NewPath()
	p.AddRect(r)
	vertices, indices := s.vectorPath(p).AppendVerticesAndIndicesForFilling(nil, nil)
	setVertexColors(vertices, color.RGBA{A: 0xff})
	s.target.DrawTriangles(vertices, indices, whitePixel, &ebiten.DrawTrianglesOptions{
		Blend: clearBlend,
	})
}

func strokeOptions(paint surface.Paint, scale float64) *vector.StrokeOptions {
	opts := &vector.StrokeOptions{Width: float32(paint.Width * scale)}
	switch paint.Cap {
	case surface.CapRound:
		opts.LineCap = vector.LineCapRound
	case surface.CapSquare:
		opts.LineCap = vector.LineCapSquare
	default:
		opts.LineCap = vector.LineCapButt
	}
	switch paint.Join {
	case surface.JoinRound:
		opts.LineJoin = vector.LineJoinRound
	case surface.JoinBevel:
		opts.LineJoin = vector.LineJoinBevel
	default:
		opts.LineJoin = vector.LineJoinMiter
	}
	return opts
}

func setVertexColors(vertices []ebiten.Vertex, c color.RGBA) {
	r := float32(c.R) / 255
	g := float32(c.G) / 255
	b := float32(c.B) / 255
	a := float32(c.A) / 255
	for i := range vertices {
		vertices[i].ColorR = r
		vertices[i].ColorG = g
		vertices[i].ColorB = b
		vertices[i].ColorA = a
	}
}

// DrawText draws a glyph run with the full current transform applied to the
// glyphs, so rotated contexts rotate the text too.
func (s *Surface) DrawText(str string, x, y float64, font *fonts.Font, paint surface.Paint) {
	if s.target == nil || str == "" || font == nil {
		return
	}
	src, err := s.source(font.Typeface())
	if err != nil {
		if s.err == nil {
			s.err = err
		}
		return
	}
	face := &text.GoTextFace{Source: src, Size: font.Size()}

	// text.Draw places the top of the line box at the origin.
	m := s.Matrix()
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y-face.Metrics().HAscent)
	var geo ebiten.GeoM
	geo.SetElement(0, 0, m.XX)
	geo.SetElement(0, 1, m.XY)
	geo.SetElement(0, 2, m.X0)
	geo.SetElement(1, 0, m.YX)
	geo.SetElement(1, 1, m.YY)
	geo.SetElement(1, 2, m.Y0)
	op.GeoM.Concat(geo)
	op.ColorScale.ScaleWithColor(paint.Color)
	text.Draw(s.target, str, face, op)
}

func (s *Surface) source(t *fonts.Typeface) (*text.GoTextFaceSource, error) {
	if src, ok := s.sources[t]; ok {
		return src, nil
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(t.Data()))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s for screen text: %w", t.Family(), err)
	}
	s.sources[t] = src
	return src, nil
}

var _ surface.Surface = (*Surface)(nil)
