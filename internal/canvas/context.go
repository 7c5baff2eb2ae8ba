package canvas

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/opd-ai/notation-canvas/internal/fonts"
	"github.com/opd-ai/notation-canvas/internal/surface"
)

// Context is the rendering adapter. It owns the graphics state stack and
// the current path, and submits draws to a native surface. It is not safe
// for concurrent use.
type Context struct {
	surface  surface.Surface
	resolver *fonts.Resolver
	logger   *slog.Logger

	state GraphicsState
	stack []GraphicsState
	path  *surface.Path

	fill   surface.Paint
	stroke surface.Paint
}

// NewContext creates an adapter drawing onto s. glyph is the embedded
// notation typeface and may be nil when a font manager is supplied. The
// default font is resolved immediately, so an error here means no font at
// all is available.
func NewContext(s surface.Surface, glyph *fonts.Typeface, opts ...Option) (*Context, error) {
	o := buildOptions(glyph, opts)
	def, err := o.resolver.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default font: %w", err)
	}
	c := &Context{
		surface:  s,
		resolver: o.resolver,
		logger:   o.logger,
		state:    DefaultState(def),
		path:     surface.NewPath(),
	}
	c.applyPaints()
	return c, nil
}

// Surface returns the native surface.
func (c *Context) Surface() surface.Surface { return c.surface }

// Resolver returns the font resolver.
func (c *Context) Resolver() *fonts.Resolver { return c.resolver }

// State returns a copy of the current graphics state.
func (c *Context) State() GraphicsState { return c.state }

// Depth returns the number of saved states.
func (c *Context) Depth() int { return len(c.stack) }

// Path returns the current path.
func (c *Context) Path() *surface.Path { return c.path }

// CurrentFont returns the resolved handle of the current font.
func (c *Context) CurrentFont() *fonts.Font { return c.state.Resolved }

func (c *Context) applyPaints() {
	c.fill = c.state.fillPaint()
	c.stroke = c.state.strokePaint()
}

// Save pushes the graphics state and saves the surface transform.
func (c *Context) Save() RenderContext {
	c.stack = append(c.stack, c.state)
	c.surface.Save()
	return c
}

// Restore pops the graphics state and re-applies it. Restoring with nothing
// saved does nothing.
func (c *Context) Restore() RenderContext {
	n := len(c.stack)
	if n == 0 {
		return c
	}
	c.state = c.stack[n-1]
	c.stack = c.stack[:n-1]
	c.surface.Restore()
	c.applyPaints()
	return c
}

// SetFillStyle sets the fill colour. The string is kept as written even if
// it cannot be parsed, in which case opaque black is painted.
func (c *Context) SetFillStyle(style string) RenderContext {
	c.state.FillStyle = style
	c.fill.Color = paintColor(style)
	return c
}

// FillStyle returns the last fill style written.
func (c *Context) FillStyle() string { return c.state.FillStyle }

// SetStrokeStyle sets the stroke colour.
func (c *Context) SetStrokeStyle(style string) RenderContext {
	c.state.StrokeStyle = style
	c.stroke.Color = paintColor(style)
	return c
}

// StrokeStyle returns the last stroke style written.
func (c *Context) StrokeStyle() string { return c.state.StrokeStyle }

// SetLineWidth sets the stroke width. Invalid widths become 1.
func (c *Context) SetLineWidth(width float64) RenderContext {
	c.state.LineWidth = normalizeLineWidth(width)
	c.stroke.Width = c.state.LineWidth
	return c
}

// LineWidth returns the stroke width.
func (c *Context) LineWidth() float64 { return c.state.LineWidth }

// SetLineCap sets the stroke cap. Unknown names are ignored.
func (c *Context) SetLineCap(capStyle string) RenderContext {
	native, ok := LineCaps[capStyle]
	if !ok {
		c.logger.Warn("unknown line cap", "value", capStyle, "keeping", c.state.LineCap)
		return c
	}
	c.state.LineCap = capStyle
	c.stroke.Cap = native
	return c
}

// LineCap returns the stroke cap name.
func (c *Context) LineCap() string { return c.state.LineCap }

// SetLineJoin sets the stroke join. Unknown names are ignored.
func (c *Context) SetLineJoin(join string) RenderContext {
	native, ok := LineJoins[join]
	if !ok {
		c.logger.Warn("unknown line join", "value", join, "keeping", c.state.LineJoin)
		return c
	}
	c.state.LineJoin = join
	c.stroke.Join = native
	return c
}

// LineJoin returns the stroke join name.
func (c *Context) LineJoin() string { return c.state.LineJoin }

// SetFont sets the font from positional parts. size is in pixels. Font()
// then reads "<px>px <family>" with family as given.
func (c *Context) SetFont(family string, size float64, weight, style string) error {
	d := fonts.NewDescriptor(family, "", weight, style)
	d.Size = fonts.NormalizePx(size)
	return c.applyFont(d, pxFont(d.Size, family))
}

// SetFontInfo sets the font from its structured form.
func (c *Context) SetFontInfo(info FontInfo) error {
	d := fonts.NewDescriptor(info.Family, info.Size, info.Weight, info.Style)
	return c.applyFont(d, pxFont(d.Size, info.Family))
}

// SetRawFont sets the font from a CSS shorthand such as "italic 12pt
// Bravura". A shorthand without a size or family selects the glyph font at
// 12px. Font() returns css unchanged.
func (c *Context) SetRawFont(css string) error {
	d, ok := fonts.ParseShorthand(css)
	if !ok || d.Family == "" {
		c.logger.Debug("malformed font shorthand, using default", "font", css)
		d = fonts.Descriptor{Family: fonts.GlyphFamily, Size: fonts.DefaultSizePx, Weight: "normal", Style: "normal"}
	}
	return c.applyFont(d, css)
}

func pxFont(px float64, family string) string {
	return strconv.FormatFloat(px, 'g', -1, 64) + "px " + family
}

func (c *Context) applyFont(d fonts.Descriptor, logical string) error {
	f, err := c.resolver.Resolve(d)
	if err != nil {
		return err
	}
	c.state.Font = logical
	c.state.Resolved = f
	return nil
}

// Font returns the font string as last written.
func (c *Context) Font() string { return c.state.Font }

// BeginPath discards the current path.
func (c *Context) BeginPath() RenderContext {
	c.path = surface.NewPath()
	return c
}

// MoveTo starts a new sub-path.
func (c *Context) MoveTo(x, y float64) RenderContext {
	c.path.MoveTo(x, y)
	return c
}

// LineTo adds a straight segment.
func (c *Context) LineTo(x, y float64) RenderContext {
	c.path.LineTo(x, y)
	return c
}

// QuadraticCurveTo adds a quadratic Bézier segment.
func (c *Context) QuadraticCurveTo(cpx, cpy, x, y float64) RenderContext {
	c.path.QuadTo(cpx, cpy, x, y)
	return c
}

// BezierCurveTo adds a cubic Bézier segment.
func (c *Context) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) RenderContext {
	c.path.CubicTo(cp1x, cp1y, cp2x, cp2y, x, y)
	return c
}

// Rect adds a closed rectangle.
func (c *Context) Rect(x, y, w, h float64) RenderContext {
	c.path.AddRect(surface.Rect{X: x, Y: y, W: w, H: h})
	return c
}

// Arc adds a circular arc centred on (x, y). Angles are in radians; the
// sweep runs clockwise on screen unless anticlockwise is set.
func (c *Context) Arc(x, y, radius, startAngle, endAngle float64, anticlockwise bool) RenderContext {
	c.path.AddArc(arcOval(x, y, radius), toDegrees(startAngle), arcSweep(startAngle, endAngle, anticlockwise))
	return c
}

func arcOval(x, y, radius float64) surface.Rect {
	return surface.Rect{X: x - radius, Y: y - radius, W: 2 * radius, H: 2 * radius}
}

// arcSweep returns the sweep in degrees: end minus start, negated when
// anticlockwise.
func arcSweep(startAngle, endAngle float64, anticlockwise bool) float64 {
	start, end := toDegrees(startAngle), toDegrees(endAngle)
	if anticlockwise {
		return start - end
	}
	return end - start
}

func toDegrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

// ClosePath closes the current sub-path.
func (c *Context) ClosePath() RenderContext {
	c.path.Close()
	return c
}

// Fill fills the current path. The path is kept.
func (c *Context) Fill() RenderContext {
	c.surface.DrawPath(c.path, c.fill)
	return c
}

// Stroke strokes the current path. The path is kept.
func (c *Context) Stroke() RenderContext {
	c.surface.DrawPath(c.path, c.stroke)
	return c
}

// FillRect fills a rectangle without touching the current path.
func (c *Context) FillRect(x, y, w, h float64) RenderContext {
	c.surface.DrawRect(surface.Rect{X: x, Y: y, W: w, H: h}, c.fill)
	return c
}

// StrokeRect outlines a rectangle without touching the current path.
func (c *Context) StrokeRect(x, y, w, h float64) RenderContext {
	c.surface.DrawRect(surface.Rect{X: x, Y: y, W: w, H: h}, c.stroke)
	return c
}

// ClearRect resets a rectangle to transparent.
func (c *Context) ClearRect(x, y, w, h float64) RenderContext {
	c.surface.ClearRect(surface.Rect{X: x, Y: y, W: w, H: h})
	return c
}

// FillText draws text with its alphabetic baseline at y.
func (c *Context) FillText(text string, x, y float64) RenderContext {
	c.surface.DrawText(text, x, y, c.state.Resolved, c.fill)
	return c
}

// StrokeText draws text in the stroke colour.
func (c *Context) StrokeText(text string, x, y float64) RenderContext {
	c.surface.DrawText(text, x, y, c.state.Resolved, c.stroke)
	return c
}

// MeasureText measures text in the current font.
func (c *Context) MeasureText(text string) TextMetrics {
	return measureText(c.state.Resolved, text)
}

// Scale scales the surface transform.
func (c *Context) Scale(sx, sy float64) RenderContext {
	c.surface.Scale(sx, sy)
	return c
}

// Translate moves the surface origin.
func (c *Context) Translate(dx, dy float64) RenderContext {
	c.surface.Translate(dx, dy)
	return c
}

// Rotate turns the surface transform by radians.
func (c *Context) Rotate(radians float64) RenderContext {
	c.surface.Rotate(toDegrees(radians))
	return c
}

func (c *Context) ignored(method string, args ...any) RenderContext {
	c.logger.Debug("canvas call has no native equivalent", append([]any{"method", method}, args...)...)
	return c
}

// OpenGroup is accepted and ignored.
func (c *Context) OpenGroup(cls, id string) RenderContext {
	return c.ignored("openGroup", "class", cls, "id", id)
}

// CloseGroup is accepted and ignored.
func (c *Context) CloseGroup() RenderContext { return c.ignored("closeGroup") }

// OpenRotation is accepted and ignored.
func (c *Context) OpenRotation(degrees, x, y float64) RenderContext {
	return c.ignored("openRotation", "degrees", degrees, "x", x, "y", y)
}

// CloseRotation is accepted and ignored.
func (c *Context) CloseRotation() RenderContext { return c.ignored("closeRotation") }

// Add is accepted and ignored.
func (c *Context) Add(child any) RenderContext { return c.ignored("add") }

// PointerRect is accepted and ignored.
func (c *Context) PointerRect(x, y, w, h float64) RenderContext {
	return c.ignored("pointerRect", "x", x, "y", y, "w", w, "h", h)
}

// SetLineDash is accepted and ignored; strokes stay solid.
func (c *Context) SetLineDash(segments []float64) RenderContext {
	return c.ignored("setLineDash", "segments", segments)
}

// SetShadowColor is accepted and ignored.
func (c *Context) SetShadowColor(color string) RenderContext {
	return c.ignored("setShadowColor", "color", color)
}

// SetShadowBlur is accepted and ignored.
func (c *Context) SetShadowBlur(blur float64) RenderContext {
	return c.ignored("setShadowBlur", "blur", blur)
}

// SetBackgroundFillStyle is accepted and ignored.
func (c *Context) SetBackgroundFillStyle(style string) RenderContext {
	return c.ignored("setBackgroundFillStyle", "style", style)
}

// Resize is accepted and ignored; the surface size is fixed.
func (c *Context) Resize(width, height float64) RenderContext {
	return c.ignored("resize", "width", width, "height", height)
}

// Clear is accepted and ignored.
func (c *Context) Clear() RenderContext { return c.ignored("clear") }
