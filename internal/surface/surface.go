// Package surface defines the native drawing API the canvas adapter renders
// through: a path builder, a paint object and a Surface that owns the
// transform stack.
//
// Transforms are applied when a path or text run is submitted, the way a
// Skia canvas does it, so a path built before a Translate is drawn with the
// translation in effect at draw time.
package surface

import (
	"image/color"

	"github.com/opd-ai/notation-canvas/internal/fonts"
)

// PaintStyle selects whether a paint fills or strokes geometry.
type PaintStyle int

const (
	// StyleFill fills the interior using the non-zero winding rule.
	StyleFill PaintStyle = iota
	// StyleStroke outlines the geometry.
	StyleStroke
)

// String returns the string representation of a PaintStyle.
func (s PaintStyle) String() string {
	if s == StyleStroke {
		return "stroke"
	}
	return "fill"
}

// LineCap is the native stroke cap.
type LineCap int

const (
	// CapButt ends the stroke flush with the endpoint.
	CapButt LineCap = iota
	// CapRound ends the stroke with a half circle.
	CapRound
	// CapSquare extends the stroke by half its width.
	CapSquare
)

// String returns the string representation of a LineCap.
func (c LineCap) String() string {
	switch c {
	case CapRound:
		return "round"
	case CapSquare:
		return "square"
	default:
		return "butt"
	}
}

// LineJoin is the native stroke join.
type LineJoin int

const (
	// JoinMiter extends outer edges to a point.
	JoinMiter LineJoin = iota
	// JoinRound rounds the corner.
	JoinRound
	// JoinBevel cuts the corner.
	JoinBevel
)

// String returns the string representation of a LineJoin.
func (j LineJoin) String() string {
	switch j {
	case JoinRound:
		return "round"
	case JoinBevel:
		return "bevel"
	default:
		return "miter"
	}
}

// Paint carries everything needed to rasterize one draw call.
type Paint struct {
	Style     PaintStyle
	Color     color.RGBA
	Width     float64
	Cap       LineCap
	Join      LineJoin
	AntiAlias bool
}

// NewPaint returns an anti-aliased opaque black paint of the given style
// with a 1 pixel width, butt caps and miter joins.
func NewPaint(style PaintStyle) Paint {
	return Paint{
		Style:     style,
		Color:     color.RGBA{A: 0xff},
		Width:     1,
		Cap:       CapButt,
		Join:      JoinMiter,
		AntiAlias: true,
	}
}

// Rect is an axis-aligned rectangle in user space.
type Rect struct {
	X, Y, W, H float64
}

// Surface is a native 2D drawing target. Save and Restore cover the
// transform only; paint state lives with the caller.
type Surface interface {
	Save()
	Restore()
	Translate(dx, dy float64)
	Scale(sx, sy float64)
	// Rotate turns the coordinate system clockwise by degrees.
	Rotate(degrees float64)

	DrawPath(p *Path, paint Paint)
	DrawRect(r Rect, paint Paint)
	// ClearRect resets the pixels under r to transparent.
	ClearRect(r Rect)
	// DrawText draws a glyph run with its baseline origin at (x, y).
	DrawText(text string, x, y float64, font *fonts.Font, paint Paint)
}
