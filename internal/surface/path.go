package surface

import (
	"fmt"
	"math"
	"strings"
)

// Verb identifies a path command.
type Verb uint8

// Path verbs.
const (
	VerbMove Verb = iota
	VerbLine
	VerbQuad
	VerbCubic
	VerbArc
	VerbRect
	VerbClose
)

var verbNames = [...]string{
	VerbMove:  "M",
	VerbLine:  "L",
	VerbQuad:  "Q",
	VerbCubic: "C",
	VerbArc:   "A",
	VerbRect:  "R",
	VerbClose: "Z",
}

// String returns the one-letter name of a Verb.
func (v Verb) String() string {
	if int(v) < len(verbNames) {
		return verbNames[v]
	}
	return "?"
}

// Command is one path element. Pts holds up to three points in the order
// they appear in the drawing call. Arc and Rect use Oval, and Arc adds
// StartDeg and SweepDeg.
type Command struct {
	Verb     Verb
	Pts      [3][2]float64
	Oval     Rect
	StartDeg float64
	SweepDeg float64
}

// Path is an ordered list of commands in user space.
type Path struct {
	cmds []Command
}

// NewPath returns an empty path.
func NewPath() *Path {
	return &Path{}
}

// MoveTo starts a new contour.
func (p *Path) MoveTo(x, y float64) {
	p.cmds = append(p.cmds, Command{Verb: VerbMove, Pts: [3][2]float64{{x, y}}})
}

// LineTo adds a straight segment.
func (p *Path) LineTo(x, y float64) {
	p.cmds = append(p.cmds, Command{Verb: VerbLine, Pts: [3][2]float64{{x, y}}})
}

// QuadTo adds a quadratic Bézier segment.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.cmds = append(p.cmds, Command{Verb: VerbQuad, Pts: [3][2]float64{{cx, cy}, {x, y}}})
}

// CubicTo adds a cubic Bézier segment.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.cmds = append(p.cmds, Command{Verb: VerbCubic, Pts: [3][2]float64{{c1x, c1y}, {c2x, c2y}, {x, y}}})
}

// AddArc adds an elliptical arc inscribed in oval as a new contour. Angles
// are in degrees measured clockwise from the positive x axis; a negative
// sweep runs counter-clockwise.
func (p *Path) AddArc(oval Rect, startDeg, sweepDeg float64) {
	p.cmds = append(p.cmds, Command{Verb: VerbArc, Oval: oval, StartDeg: startDeg, SweepDeg: sweepDeg})
}

// AddRect adds a closed rectangle contour.
func (p *Path) AddRect(r Rect) {
	p.cmds = append(p.cmds, Command{Verb: VerbRect, Oval: r})
}

// Close closes the current contour.
func (p *Path) Close() {
	p.cmds = append(p.cmds, Command{Verb: VerbClose})
}

// Reset removes every command.
func (p *Path) Reset() {
	p.cmds = p.cmds[:0]
}

// Len returns the number of commands.
func (p *Path) Len() int {
	return len(p.cmds)
}

// IsEmpty reports whether the path has no commands.
func (p *Path) IsEmpty() bool {
	return len(p.cmds) == 0
}

// Commands returns a copy of the command list.
func (p *Path) Commands() []Command {
	out := make([]Command, len(p.cmds))
	copy(out, p.cmds)
	return out
}

// Clone returns an independent copy.
func (p *Path) Clone() *Path {
	return &Path{cmds: p.Commands()}
}

// String renders the path in an SVG-like notation for debugging.
func (p *Path) String() string {
	var sb strings.Builder
	for i, c := range p.cmds {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.Verb.String())
		switch c.Verb {
		case VerbMove, VerbLine:
			fmt.Fprintf(&sb, "%g,%g", c.Pts[0][0], c.Pts[0][1])
		case VerbQuad:
			fmt.Fprintf(&sb, "%g,%g %g,%g", c.Pts[0][0], c.Pts[0][1], c.Pts[1][0], c.Pts[1][1])
		case VerbCubic:
			fmt.Fprintf(&sb, "%g,%g %g,%g %g,%g", c.Pts[0][0], c.Pts[0][1], c.Pts[1][0], c.Pts[1][1], c.Pts[2][0], c.Pts[2][1])
		case VerbArc:
			fmt.Fprintf(&sb, "%g,%g,%g,%g %g %g", c.Oval.X, c.Oval.Y, c.Oval.W, c.Oval.H, c.StartDeg, c.SweepDeg)
		case VerbRect:
			fmt.Fprintf(&sb, "%g,%g,%g,%g", c.Oval.X, c.Oval.Y, c.Oval.W, c.Oval.H)
		}
	}
	return sb.String()
}

// Sink receives device-space path segments.
type Sink interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(cx, cy, x, y float64)
	CubicTo(c1x, c1y, c2x, c2y, x, y float64)
	Close()
}

// Walk emits the path transformed by m into s. Arcs become cubic segments
// of at most 90 degrees and rectangles become closed line contours.
// Segments that arrive before any MoveTo start at their own first point;
// segments after a Close start at the closed subpath's start point.
func (p *Path) Walk(m Matrix, s Sink) {
	var start [2]float64
	open, started := false, false
	begin := func(pt [2]float64) {
		if open {
			return
		}
		if !started {
			start, started = pt, true
		}
		s.MoveTo(m.Apply(start[0], start[1]))
		open = true
	}
	for _, c := range p.cmds {
		switch c.Verb {
		case VerbMove:
			start, started = c.Pts[0], true
			s.MoveTo(m.Apply(c.Pts[0][0], c.Pts[0][1]))
			open = true
		case VerbLine:
			begin(c.Pts[0])
			s.LineTo(m.Apply(c.Pts[0][0], c.Pts[0][1]))
		case VerbQuad:
			begin(c.Pts[0])
			cx, cy := m.Apply(c.Pts[0][0], c.Pts[0][1])
			x, y := m.Apply(c.Pts[1][0], c.Pts[1][1])
			s.QuadTo(cx, cy, x, y)
		case VerbCubic:
			begin(c.Pts[0])
			c1x, c1y := m.Apply(c.Pts[0][0], c.Pts[0][1])
			c2x, c2y := m.Apply(c.Pts[1][0], c.Pts[1][1])
			x, y := m.Apply(c.Pts[2][0], c.Pts[2][1])
			s.CubicTo(c1x, c1y, c2x, c2y, x, y)
		case VerbArc:
			start, started = walkArc(c, m, s), true
			open = true
		case VerbRect:
			r := c.Oval
			x0, y0 := m.Apply(r.X, r.Y)
			x1, y1 := m.Apply(r.X+r.W, r.Y)
			x2, y2 := m.Apply(r.X+r.W, r.Y+r.H)
			x3, y3 := m.Apply(r.X, r.Y+r.H)
			s.MoveTo(x0, y0)
			s.LineTo(x1, y1)
			s.LineTo(x2, y2)
			s.LineTo(x3, y3)
			s.Close()
			start, started = [2]float64{r.X, r.Y}, true
			open = false
		case VerbClose:
			if open {
				s.Close()
			}
			open = false
		}
	}
}

// walkArc approximates an elliptical arc with cubic segments and returns
// the arc's untransformed start point.
func walkArc(c Command, m Matrix, s Sink) [2]float64 {
	rx, ry := c.Oval.W/2, c.Oval.H/2
	cx, cy := c.Oval.X+rx, c.Oval.Y+ry
	sweep := math.Max(-360, math.Min(360, c.SweepDeg))

	a0 := c.StartDeg * math.Pi / 180
	total := sweep * math.Pi / 180
	n := int(math.Ceil(math.Abs(total) / (math.Pi / 2)))
	if n == 0 {
		n = 1
	}
	step := total / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	point := func(a float64) (float64, float64) {
		return cx + rx*math.Cos(a), cy + ry*math.Sin(a)
	}

	x, y := point(a0)
	sx, sy := m.Apply(x, y)
	s.MoveTo(sx, sy)

	for i := 0; i < n; i++ {
		a := a0 + float64(i)*step
		b := a + step
		ax, ay := point(a)
		bx, by := point(b)
		c1x, c1y := ax-k*rx*math.Sin(a), ay+k*ry*math.Cos(a)
		c2x, c2y := bx+k*rx*math.Sin(b), by-k*ry*math.Cos(b)
		p1x, p1y := m.Apply(c1x, c1y)
		p2x, p2y := m.Apply(c2x, c2y)
		p3x, p3y := m.Apply(bx, by)
		s.CubicTo(p1x, p1y, p2x, p2y, p3x, p3y)
	}
	return [2]float64{x, y}
}
