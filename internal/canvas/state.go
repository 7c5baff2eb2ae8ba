package canvas

import (
	"math"

	"github.com/opd-ai/notation-canvas/internal/fonts"
	"github.com/opd-ai/notation-canvas/internal/surface"
)

// Default graphics state values.
const (
	DefaultFillStyle   = "#000000"
	DefaultStrokeStyle = "#000000"
	DefaultLineWidth   = 1.0
	DefaultLineCap     = "butt"
	DefaultLineJoin    = "miter"
)

// LineCaps maps canvas lineCap names to native caps.
var LineCaps = map[string]surface.LineCap{
	"butt":   surface.CapButt,
	"round":  surface.CapRound,
	"square": surface.CapSquare,
}

// LineJoins maps canvas lineJoin names to native joins.
var LineJoins = map[string]surface.LineJoin{
	"miter": surface.JoinMiter,
	"round": surface.JoinRound,
	"bevel": surface.JoinBevel,
}

// GraphicsState is one snapshot of the context's drawing attributes. It is
// copied whole on Save and replaced whole on Restore.
type GraphicsState struct {
	FillStyle   string
	StrokeStyle string
	LineWidth   float64
	LineCap     string
	LineJoin    string
	// Font is the font string as last written; Resolved is its handle.
	Font     string
	Resolved *fonts.Font
}

// DefaultState returns the state a new context starts with, holding the
// given default font handle.
func DefaultState(font *fonts.Font) GraphicsState {
	return GraphicsState{
		FillStyle:   DefaultFillStyle,
		StrokeStyle: DefaultStrokeStyle,
		LineWidth:   DefaultLineWidth,
		LineCap:     DefaultLineCap,
		LineJoin:    DefaultLineJoin,
		Font:        fonts.DefaultFont,
		Resolved:    font,
	}
}

// normalizeLineWidth maps NaN, infinite and non-positive widths to 1.
func normalizeLineWidth(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return DefaultLineWidth
	}
	return w
}

// fillPaint builds the native fill paint for s.
func (s GraphicsState) fillPaint() surface.Paint {
	p := surface.NewPaint(surface.StyleFill)
	p.Color = paintColor(s.FillStyle)
	return p
}

// strokePaint builds the native stroke paint for s.
func (s GraphicsState) strokePaint() surface.Paint {
	p := surface.NewPaint(surface.StyleStroke)
	p.Color = paintColor(s.StrokeStyle)
	p.Width = s.LineWidth
	p.Cap = LineCaps[s.LineCap]
	p.Join = LineJoins[s.LineJoin]
	return p
}
