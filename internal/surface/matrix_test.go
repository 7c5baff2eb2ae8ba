package surface

import (
	"bytes"
	"image/color"
	"strings"
	"testing"
)

func TestMatrixRotateClockwise(t *testing.T) {
	m := Identity().Rotate(90 * 3.141592653589793 / 180)
	x, y := m.Apply(1, 0)
	if !near(x, 0) || !near(y, 1) {
		t.Errorf("Apply(1, 0) = (%v, %v), want (0, 1)", x, y)
	}
}

func TestMatrixOrder(t *testing.T) {
	// Translate then scale: the scale applies to points first.
	m := Identity().Translate(5, 0).Scale(3, 3)
	x, y := m.Apply(1, 1)
	if !near(x, 8) || !near(y, 3) {
		t.Errorf("Apply(1, 1) = (%v, %v), want (8, 3)", x, y)
	}
	if !near(m.ScaleFactor(), 3) {
		t.Errorf("ScaleFactor() = %v, want 3", m.ScaleFactor())
	}
}

func TestStackSaveRestore(t *testing.T) {
	s := NewStack(Identity())
	s.Save()
	s.Translate(4, 4)
	s.Rotate(45)
	if s.Matrix().IsIdentity() {
		t.Fatal("transform not applied")
	}
	s.Restore()
	if !s.Matrix().IsIdentity() {
		t.Errorf("Restore() left %+v", s.Matrix())
	}
	s.Restore()
	if !s.Matrix().IsIdentity() || s.Depth() != 0 {
		t.Error("Restore() on empty stack changed state")
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Save()
	r.Translate(10, 0)
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(1, 1)
	paint := NewPaint(StyleStroke)
	paint.Color = color.RGBA{R: 0xff, A: 0xff}
	r.DrawPath(p, paint)
	p.Reset()
	r.Restore()
	r.DrawRect(Rect{W: 2, H: 2}, NewPaint(StyleFill))
	r.ClearRect(Rect{W: 1, H: 1})

	draws := r.Draws()
	if len(draws) != 3 {
		t.Fatalf("Draws() len = %d, want 3", len(draws))
	}
	if draws[0].Path.Len() != 2 {
		t.Error("recorded path was not copied")
	}
	if draws[0].Matrix.X0 != 10 {
		t.Errorf("recorded matrix X0 = %v, want 10", draws[0].Matrix.X0)
	}
	if !draws[1].Matrix.IsIdentity() {
		t.Error("transform leaked past Restore")
	}

	var buf bytes.Buffer
	if err := r.Dump(&buf); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Save", "Translate 10 0", "DrawPath stroke #ff0000ff [M0,0 L1,1]", "ClearRect 0,0,1,1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump() missing %q in:\n%s", want, out)
		}
	}

	r.Reset()
	if len(r.Calls()) != 0 {
		t.Error("Reset() kept calls")
	}
}

func TestRecorderReplay(t *testing.T) {
	src := NewRecorder()
	src.Save()
	src.Scale(2, 2)
	src.Rotate(90)
	src.DrawRect(Rect{X: 1, W: 1, H: 1}, NewPaint(StyleFill))
	src.Restore()
	src.DrawText("q", 3, 4, nil, NewPaint(StyleFill))

	dst := NewRecorder()
	src.Replay(dst)

	a, b := src.Calls(), dst.Calls()
	if len(a) != len(b) {
		t.Fatalf("replayed %d calls, want %d", len(b), len(a))
	}
	for i := range a {
		if a[i].Op != b[i].Op || a[i].Matrix != b[i].Matrix || a[i].Args != b[i].Args {
			t.Errorf("call %d = %v %+v, want %v %+v", i, b[i].Op, b[i].Matrix, a[i].Op, a[i].Matrix)
		}
	}
	if !dst.Matrix().IsIdentity() {
		t.Error("balanced replay left a transform behind")
	}
}
