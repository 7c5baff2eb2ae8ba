// Package canvas adapts a browser-style 2D rendering context to a native
// surface. A notation layout engine drives a RenderContext exactly as it
// would drive a CanvasRenderingContext2D; the adapter keeps the graphics
// state, builds native paths, resolves fonts, and measures text the way the
// engine expects.
package canvas

// FontInfo is the structured form of a font request. Size may be "12pt",
// "16px" or a bare pixel number.
type FontInfo struct {
	Family string
	Size   string
	Weight string
	Style  string
}

// RenderContext is the drawing contract a layout engine calls. Methods that
// do not return a value return the context so calls can be chained. Font
// setters return an error instead, because an unresolvable font is the one
// failure that must reach the caller.
type RenderContext interface {
	Save() RenderContext
	Restore() RenderContext

	SetFillStyle(style string) RenderContext
	FillStyle() string
	SetStrokeStyle(style string) RenderContext
	StrokeStyle() string
	SetLineWidth(width float64) RenderContext
	LineWidth() float64
	SetLineCap(capStyle string) RenderContext
	LineCap() string
	SetLineJoin(join string) RenderContext
	LineJoin() string

	SetFont(family string, size float64, weight, style string) error
	SetFontInfo(info FontInfo) error
	SetRawFont(css string) error
	Font() string

	BeginPath() RenderContext
	MoveTo(x, y float64) RenderContext
	LineTo(x, y float64) RenderContext
	QuadraticCurveTo(cpx, cpy, x, y float64) RenderContext
	BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) RenderContext
	Rect(x, y, w, h float64) RenderContext
	Arc(x, y, radius, startAngle, endAngle float64, anticlockwise bool) RenderContext
	ClosePath() RenderContext
	Fill() RenderContext
	Stroke() RenderContext

	FillRect(x, y, w, h float64) RenderContext
	StrokeRect(x, y, w, h float64) RenderContext
	ClearRect(x, y, w, h float64) RenderContext
	FillText(text string, x, y float64) RenderContext
	StrokeText(text string, x, y float64) RenderContext
	MeasureText(text string) TextMetrics

	Scale(sx, sy float64) RenderContext
	Translate(dx, dy float64) RenderContext
	Rotate(radians float64) RenderContext

	OpenGroup(cls, id string) RenderContext
	CloseGroup() RenderContext
	OpenRotation(degrees, x, y float64) RenderContext
	CloseRotation() RenderContext
	Add(child any) RenderContext
	PointerRect(x, y, w, h float64) RenderContext
	SetLineDash(segments []float64) RenderContext
	SetShadowColor(color string) RenderContext
	SetShadowBlur(blur float64) RenderContext
	SetBackgroundFillStyle(style string) RenderContext
	Resize(width, height float64) RenderContext
	Clear() RenderContext
}

var (
	_ RenderContext = (*Context)(nil)
	_ RenderContext = (*StubContext)(nil)
)
