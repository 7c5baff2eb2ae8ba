package surface

import (
	"fmt"
	"io"

	"github.com/opd-ai/notation-canvas/internal/fonts"
)

// Op identifies a recorded surface call.
type Op uint8

// Recorded operations.
const (
	OpSave Op = iota
	OpRestore
	OpTranslate
	OpScale
	OpRotate
	OpDrawPath
	OpDrawRect
	OpClearRect
	OpDrawText
)

var opNames = [...]string{
	OpSave:      "Save",
	OpRestore:   "Restore",
	OpTranslate: "Translate",
	OpScale:     "Scale",
	OpRotate:    "Rotate",
	OpDrawPath:  "DrawPath",
	OpDrawRect:  "DrawRect",
	OpClearRect: "ClearRect",
	OpDrawText:  "DrawText",
}

// String returns the string representation of an Op.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "Unknown"
}

// Call is one recorded surface call. Matrix is the transform in effect when
// the call was made. Path is a private copy.
type Call struct {
	Op     Op
	Args   [2]float64
	Path   *Path
	Rect   Rect
	Text   string
	Font   *fonts.Font
	Paint  Paint
	Matrix Matrix
}

// Recorder is a Surface that keeps every call instead of drawing.
type Recorder struct {
	Stack
	calls []Call
}

// NewRecorder creates an empty recorder with an identity transform.
func NewRecorder() *Recorder {
	return &Recorder{Stack: NewStack(Identity())}
}

func (r *Recorder) record(c Call) {
	c.Matrix = r.Matrix()
	r.calls = append(r.calls, c)
}

// Save records and performs a transform save.
func (r *Recorder) Save() {
	r.record(Call{Op: OpSave})
	r.Stack.Save()
}

// Restore records and performs a transform restore.
func (r *Recorder) Restore() {
	r.record(Call{Op: OpRestore})
	r.Stack.Restore()
}

// Translate records and applies a translation.
func (r *Recorder) Translate(dx, dy float64) {
	r.record(Call{Op: OpTranslate, Args: [2]float64{dx, dy}})
	r.Stack.Translate(dx, dy)
}

// Scale records and applies a scale.
func (r *Recorder) Scale(sx, sy float64) {
	r.record(Call{Op: OpScale, Args: [2]float64{sx, sy}})
	r.Stack.Scale(sx, sy)
}

// Rotate records and applies a rotation in degrees.
func (r *Recorder) Rotate(degrees float64) {
	r.record(Call{Op: OpRotate, Args: [2]float64{degrees}})
	r.Stack.Rotate(degrees)
}

// DrawPath records a copy of p.
func (r *Recorder) DrawPath(p *Path, paint Paint) {
	r.record(Call{Op: OpDrawPath, Path: p.Clone(), Paint: paint})
}

// DrawRect records a rectangle draw.
func (r *Recorder) DrawRect(rect Rect, paint Paint) {
	r.record(Call{Op: OpDrawRect, Rect: rect, Paint: paint})
}

// ClearRect records a clear.
func (r *Recorder) ClearRect(rect Rect) {
	r.record(Call{Op: OpClearRect, Rect: rect})
}

// DrawText records a glyph run.
func (r *Recorder) DrawText(text string, x, y float64, font *fonts.Font, paint Paint) {
	r.record(Call{Op: OpDrawText, Text: text, Args: [2]float64{x, y}, Font: font, Paint: paint})
}

// Calls returns the recorded calls in order.
func (r *Recorder) Calls() []Call {
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Draws returns only the calls that produce pixels.
func (r *Recorder) Draws() []Call {
	var out []Call
	for _, c := range r.calls {
		switch c.Op {
		case OpDrawPath, OpDrawRect, OpClearRect, OpDrawText:
			out = append(out, c)
		}
	}
	return out
}

// Reset drops all calls and the transform stack.
func (r *Recorder) Reset() {
	r.calls = nil
	r.Stack = NewStack(Identity())
}

// Replay issues every recorded call on s in order. Transforms are replayed
// as calls, so s ends with its own stack back where it started only if the
// recording was balanced.
func (r *Recorder) Replay(s Surface) {
	for _, c := range r.calls {
		switch c.Op {
		case OpSave:
			s.Save()
		case OpRestore:
			s.Restore()
		case OpTranslate:
			s.Translate(c.Args[0], c.Args[1])
		case OpScale:
			s.Scale(c.Args[0], c.Args[1])
		case OpRotate:
			s.Rotate(c.Args[0])
		case OpDrawPath:
			s.DrawPath(c.Path, c.Paint)
		case OpDrawRect:
			s.DrawRect(c.Rect, c.Paint)
		case OpClearRect:
			s.ClearRect(c.Rect)
		case OpDrawText:
			s.DrawText(c.Text, c.Args[0], c.Args[1], c.Font, c.Paint)
		}
	}
}

// Dump writes one line per call.
func (r *Recorder) Dump(w io.Writer) error {
	for _, c := range r.calls {
		var err error
		switch c.Op {
		case OpSave, OpRestore:
			_, err = fmt.Fprintln(w, c.Op)
		case OpTranslate, OpScale:
			_, err = fmt.Fprintf(w, "%s %g %g\n", c.Op, c.Args[0], c.Args[1])
		case OpRotate:
			_, err = fmt.Fprintf(w, "%s %g\n", c.Op, c.Args[0])
		case OpDrawPath:
			_, err = fmt.Fprintf(w, "%s %s %s [%s]\n", c.Op, c.Paint.Style, hexColor(c.Paint), c.Path)
		case OpDrawRect:
			_, err = fmt.Fprintf(w, "%s %s %s %g,%g,%g,%g\n", c.Op, c.Paint.Style, hexColor(c.Paint), c.Rect.X, c.Rect.Y, c.Rect.W, c.Rect.H)
		case OpClearRect:
			_, err = fmt.Fprintf(w, "%s %g,%g,%g,%g\n", c.Op, c.Rect.X, c.Rect.Y, c.Rect.W, c.Rect.H)
		case OpDrawText:
			family, size := "", 0.0
			if c.Font != nil {
				family, size = c.Font.Family(), c.Font.Size()
			}
			_, err = fmt.Fprintf(w, "%s %q %g,%g %gpx %s %s\n", c.Op, c.Text, c.Args[0], c.Args[1], size, family, hexColor(c.Paint))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func hexColor(p Paint) string {
	c := p.Color
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

var _ Surface = (*Recorder)(nil)
