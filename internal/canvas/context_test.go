package canvas

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/opd-ai/notation-canvas/internal/fonts"
	"github.com/opd-ai/notation-canvas/internal/surface"
	"github.com/opd-ai/notation-canvas/internal/surface/raster"
)

var (
	red  = color.RGBA{R: 0xff, A: 0xff}
	blue = color.RGBA{B: 0xff, A: 0xff}
)

func testGlyph(t testing.TB) *fonts.Typeface {
	t.Helper()
	tf, err := fonts.NewTypeface(fonts.GlyphFamily, fonts.StyleNormal, goregular.TTF)
	if err != nil {
		t.Fatalf("NewTypeface() error = %v", err)
	}
	return tf
}

func newRecorded(t testing.TB, opts ...Option) (*Context, *surface.Recorder) {
	t.Helper()
	rec := surface.NewRecorder()
	opts = append([]Option{WithCache(fonts.NewCache())}, opts...)
	c, err := NewContext(rec, testGlyph(t), opts...)
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	return c, rec
}

func TestDefaults(t *testing.T) {
	c, _ := newRecorded(t)
	st := c.State()
	if st.FillStyle != "#000000" || st.StrokeStyle != "#000000" {
		t.Errorf("default styles = %q, %q", st.FillStyle, st.StrokeStyle)
	}
	if st.LineWidth != 1 || st.LineCap != "butt" || st.LineJoin != "miter" {
		t.Errorf("default stroke = %v %q %q", st.LineWidth, st.LineCap, st.LineJoin)
	}
	if c.Font() != "12px Bravura" {
		t.Errorf("Font() = %q, want %q", c.Font(), "12px Bravura")
	}
	if c.CurrentFont() == nil || c.CurrentFont().Size() != 12 {
		t.Error("default font handle is not the 12px glyph font")
	}
}

func TestSaveRestoreIdentity(t *testing.T) {
	c, _ := newRecorded(t)
	c.SetFillStyle("red").SetLineWidth(3).SetLineCap("round")
	before := c.State()

	c.Save().Restore()
	if got := c.State(); got != before {
		t.Errorf("State() after save/restore = %+v, want %+v", got, before)
	}
}

func TestSaveRestoreRevertsEveryField(t *testing.T) {
	c, rec := newRecorded(t)
	before := c.State()

	c.Save()
	c.SetFillStyle("blue").SetStrokeStyle("#ff0000").SetLineWidth(4).SetLineCap("square").SetLineJoin("bevel")
	if err := c.SetRawFont("italic 20px Bravura"); err != nil {
		t.Fatal(err)
	}
	c.Translate(10, 10)
	c.Restore()

	if got := c.State(); got != before {
		t.Errorf("State() after restore = %+v, want %+v", got, before)
	}
	if !rec.Matrix().IsIdentity() {
		t.Error("surface transform not restored")
	}

	c.StrokeRect(0, 0, 1, 1)
	draws := rec.Draws()
	p := draws[len(draws)-1].Paint
	if p.Width != 1 || p.Cap != surface.CapButt || p.Join != surface.JoinMiter || p.Color != (color.RGBA{A: 0xff}) {
		t.Errorf("stroke paint after restore = %+v", p)
	}
}

func TestRestoreEmptyStack(t *testing.T) {
	c, rec := newRecorded(t)
	c.SetFillStyle("red")
	c.Restore()
	if c.FillStyle() != "red" {
		t.Errorf("FillStyle() = %q after empty restore", c.FillStyle())
	}
	if len(rec.Calls()) != 0 {
		t.Errorf("empty restore reached the surface: %v", rec.Calls())
	}
}

func TestThreeRectanglesRecorded(t *testing.T) {
	c, rec := newRecorded(t)
	c.SetFillStyle("#ff0000")
	c.FillRect(0, 0, 10, 10)
	c.Save()
	c.SetFillStyle("#0000ff")
	c.FillRect(10, 0, 10, 10)
	c.Restore()
	c.FillRect(20, 0, 10, 10)

	draws := rec.Draws()
	if len(draws) != 3 {
		t.Fatalf("Draws() len = %d, want 3", len(draws))
	}
	want := []color.RGBA{red, blue, red}
	for i, d := range draws {
		if d.Paint.Color != want[i] {
			t.Errorf("rect %d color = %v, want %v", i, d.Paint.Color, want[i])
		}
	}
}

func TestThreeRectanglesRaster(t *testing.T) {
	s := raster.New(30, 10)
	defer s.Close()
	c, err := NewContext(s, testGlyph(t), WithCache(fonts.NewCache()))
	if err != nil {
		t.Fatal(err)
	}
	c.SetFillStyle("#ff0000")
	c.FillRect(0, 0, 10, 10)
	c.Save()
	c.SetFillStyle("#0000ff")
	c.FillRect(10, 0, 10, 10)
	c.Restore()
	c.FillRect(20, 0, 10, 10)

	img := s.Image()
	for i, want := range []color.RGBA{red, blue, red} {
		r, g, b, a := img.At(i*10+5, 5).RGBA()
		got := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
		if got != want {
			t.Errorf("rect %d pixel = %v, want %v", i, got, want)
		}
	}
}

func TestArcSweep(t *testing.T) {
	tests := []struct {
		name          string
		start, end    float64
		anticlockwise bool
		wantStart     float64
		wantSweep     float64
	}{
		{"half clockwise", 0, math.Pi, false, 0, 180},
		{"half anticlockwise", 0, math.Pi, true, 0, -180},
		{"quarter from top", -math.Pi / 2, 0, false, -90, 90},
		{"full circle", 0, 2 * math.Pi, false, 0, 360},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newRecorded(t)
			c.BeginPath().Arc(5, 6, 2, tt.start, tt.end, tt.anticlockwise)
			cmds := c.Path().Commands()
			if len(cmds) != 1 || cmds[0].Verb != surface.VerbArc {
				t.Fatalf("Commands() = %v, want one arc", cmds)
			}
			got := cmds[0]
			if math.Abs(got.StartDeg-tt.wantStart) > 1e-9 || math.Abs(got.SweepDeg-tt.wantSweep) > 1e-9 {
				t.Errorf("arc start, sweep = %v, %v, want %v, %v", got.StartDeg, got.SweepDeg, tt.wantStart, tt.wantSweep)
			}
			if got.Oval != (surface.Rect{X: 3, Y: 4, W: 4, H: 4}) {
				t.Errorf("arc oval = %+v", got.Oval)
			}
		})
	}
}

func TestPathKeptAcrossFill(t *testing.T) {
	c, rec := newRecorded(t)
	c.BeginPath().MoveTo(0, 0).LineTo(5, 0).QuadraticCurveTo(6, 1, 5, 2).BezierCurveTo(4, 3, 2, 3, 0, 2).ClosePath()
	c.Fill().Stroke()

	draws := rec.Draws()
	if len(draws) != 2 {
		t.Fatalf("Draws() len = %d, want 2", len(draws))
	}
	if draws[0].Path.String() != draws[1].Path.String() {
		t.Errorf("stroke path %q differs from fill path %q", draws[1].Path, draws[0].Path)
	}
	if draws[0].Paint.Style != surface.StyleFill || draws[1].Paint.Style != surface.StyleStroke {
		t.Error("fill and stroke used the wrong paints")
	}

	c.BeginPath()
	if !c.Path().IsEmpty() {
		t.Error("BeginPath() kept commands")
	}
}

func TestStrokeAttributes(t *testing.T) {
	c, _ := newRecorded(t)
	tests := []struct {
		name  string
		apply func()
		check func() bool
	}{
		{"NaN width", func() { c.SetLineWidth(math.NaN()) }, func() bool { return c.LineWidth() == 1 }},
		{"negative width", func() { c.SetLineWidth(-2) }, func() bool { return c.LineWidth() == 1 }},
		{"valid width", func() { c.SetLineWidth(2.5) }, func() bool { return c.LineWidth() == 2.5 }},
		{"round cap", func() { c.SetLineCap("round") }, func() bool { return c.LineCap() == "round" }},
		{"unknown cap kept", func() { c.SetLineCap("arrow") }, func() bool { return c.LineCap() == "round" }},
		{"bevel join", func() { c.SetLineJoin("bevel") }, func() bool { return c.LineJoin() == "bevel" }},
		{"unknown join kept", func() { c.SetLineJoin("sharp") }, func() bool { return c.LineJoin() == "bevel" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.apply()
			if !tt.check() {
				t.Errorf("state after %s = %+v", tt.name, c.State())
			}
		})
	}
}

func TestUnparseableFillStyle(t *testing.T) {
	c, rec := newRecorded(t)
	c.SetFillStyle("not-a-colour")
	if c.FillStyle() != "not-a-colour" {
		t.Errorf("FillStyle() = %q", c.FillStyle())
	}
	c.FillRect(0, 0, 1, 1)
	if got := rec.Draws()[0].Paint.Color; got != (color.RGBA{A: 0xff}) {
		t.Errorf("paint color = %v, want opaque black", got)
	}
}

func TestFontSetters(t *testing.T) {
	c, _ := newRecorded(t)

	if err := c.SetRawFont("12pt Bravura"); err != nil {
		t.Fatal(err)
	}
	if c.Font() != "12pt Bravura" {
		t.Errorf("Font() = %q, want %q", c.Font(), "12pt Bravura")
	}
	viaShorthand := c.CurrentFont()

	if err := c.SetFontInfo(FontInfo{Family: "Bravura", Size: "16px"}); err != nil {
		t.Fatal(err)
	}
	if c.CurrentFont() != viaShorthand {
		t.Error("structured and shorthand fonts resolved to different handles")
	}
	if c.Font() != "16px Bravura" {
		t.Errorf("Font() = %q, want %q", c.Font(), "16px Bravura")
	}

	if err := c.SetFont("Bravura,Academico", 20, "bold", "italic"); err != nil {
		t.Fatal(err)
	}
	if c.Font() != "20px Bravura,Academico" {
		t.Errorf("Font() = %q, want %q", c.Font(), "20px Bravura,Academico")
	}
}

func TestFontReadsBackAsWritten(t *testing.T) {
	tests := []string{
		"12pt Bravura",
		"bold 20px Bravura,Academico",
		"italic 24px 'Bravura'",
		"garbage",
	}
	for _, css := range tests {
		t.Run(css, func(t *testing.T) {
			c, _ := newRecorded(t)
			if err := c.SetRawFont(css); err != nil {
				t.Fatal(err)
			}
			if c.Font() != css {
				t.Errorf("Font() = %q, want %q", c.Font(), css)
			}

			m := NewMeasureSurface(testGlyph(t), WithCache(fonts.NewCache()))
			m.SetFont(css)
			if m.Font() != c.Font() {
				t.Errorf("MeasureSurface.Font() = %q, Context.Font() = %q, want equal", m.Font(), c.Font())
			}
		})
	}
}

func TestMalformedFontUsesDefaultHandle(t *testing.T) {
	c, _ := newRecorded(t)
	if err := c.SetRawFont("garbage"); err != nil {
		t.Fatal(err)
	}
	f := c.CurrentFont()
	if f.Family() != fonts.GlyphFamily || f.Size() != fonts.DefaultSizePx {
		t.Errorf("CurrentFont() = %s %v, want %s %v", f.Family(), f.Size(), fonts.GlyphFamily, fonts.DefaultSizePx)
	}
}

func TestSaveRestoreKeepsWrittenFont(t *testing.T) {
	c, _ := newRecorded(t)
	if err := c.SetRawFont("10pt Bravura"); err != nil {
		t.Fatal(err)
	}
	c.Save()
	if err := c.SetFont("Bravura", 30, "", ""); err != nil {
		t.Fatal(err)
	}
	c.Restore()
	if c.Font() != "10pt Bravura" {
		t.Errorf("Font() after Restore() = %q, want %q", c.Font(), "10pt Bravura")
	}
}

func TestFontUnresolved(t *testing.T) {
	_, err := NewContext(surface.NewRecorder(), nil, WithManager(fonts.NewManager()), WithCache(fonts.NewCache()))
	if !errors.Is(err, fonts.ErrFontUnresolved) {
		t.Errorf("NewContext() error = %v, want %v", err, fonts.ErrFontUnresolved)
	}

	c, _ := newRecorded(t)
	before := c.State()
	if err := c.SetFont("Nonexistent", 14, "", ""); !errors.Is(err, fonts.ErrFontUnresolved) {
		t.Errorf("SetFont() error = %v, want %v", err, fonts.ErrFontUnresolved)
	}
	if c.State() != before {
		t.Error("failed SetFont() changed the state")
	}
}

func TestFontFromManager(t *testing.T) {
	c, _ := newRecorded(t, WithManager(fonts.NewSystemManager()))
	if err := c.SetFont("Go Mono", 10, "bold", ""); err != nil {
		t.Fatal(err)
	}
	if c.CurrentFont().Family() != "Go Mono" {
		t.Errorf("CurrentFont().Family() = %q", c.CurrentFont().Family())
	}
}

func TestTextCalls(t *testing.T) {
	c, rec := newRecorded(t)
	c.SetFillStyle("red").SetStrokeStyle("blue")
	c.FillText("abc", 1, 2).StrokeText("d", 3, 4)

	draws := rec.Draws()
	if len(draws) != 2 {
		t.Fatalf("Draws() len = %d, want 2", len(draws))
	}
	if draws[0].Text != "abc" || draws[0].Args != [2]float64{1, 2} || draws[0].Paint.Color != red {
		t.Errorf("FillText recorded %+v", draws[0])
	}
	if draws[1].Paint.Color != blue || draws[1].Font != c.CurrentFont() {
		t.Errorf("StrokeText recorded %+v", draws[1])
	}
}

func TestTransforms(t *testing.T) {
	c, rec := newRecorded(t)
	c.Scale(2, 2).Translate(1, 0).Rotate(math.Pi / 2)
	calls := rec.Calls()
	if len(calls) != 3 {
		t.Fatalf("Calls() len = %d, want 3", len(calls))
	}
	if calls[2].Op != surface.OpRotate || math.Abs(calls[2].Args[0]-90) > 1e-9 {
		t.Errorf("Rotate recorded %+v, want 90 degrees", calls[2])
	}
	x, y := rec.Matrix().Apply(1, 0)
	if math.Abs(x-2) > 1e-9 || math.Abs(y-2) > 1e-9 {
		t.Errorf("Apply(1, 0) = (%v, %v), want (2, 2)", x, y)
	}
}

func TestClearRect(t *testing.T) {
	c, rec := newRecorded(t)
	c.ClearRect(1, 2, 3, 4)
	d := rec.Draws()[0]
	if d.Op != surface.OpClearRect || d.Rect != (surface.Rect{X: 1, Y: 2, W: 3, H: 4}) {
		t.Errorf("ClearRect recorded %+v", d)
	}
}

func TestIgnoredCallsKeepState(t *testing.T) {
	c, rec := newRecorded(t)
	before := c.State()
	c.OpenGroup("stavenote", "n1").CloseGroup().OpenRotation(45, 0, 0).CloseRotation().
		Add(nil).PointerRect(0, 0, 1, 1).SetLineDash([]float64{2, 2}).SetShadowColor("black").
		SetShadowBlur(3).SetBackgroundFillStyle("white").Resize(100, 100).Clear()
	if c.State() != before {
		t.Error("ignored calls changed the state")
	}
	if len(rec.Calls()) != 0 {
		t.Errorf("ignored calls reached the surface: %v", rec.Calls())
	}
}

func TestMeasureTextEmpty(t *testing.T) {
	c, _ := newRecorded(t)
	m := c.MeasureText("")
	if m.Width != 0 {
		t.Errorf("Width = %v, want 0", m.Width)
	}
	if m.ActualBoundingBoxAscent < 0 || m.ActualBoundingBoxDescent < 0 {
		t.Errorf("ascent, descent = %v, %v, want >= 0", m.ActualBoundingBoxAscent, m.ActualBoundingBoxDescent)
	}
}

func BenchmarkFillText(b *testing.B) {
	c, _ := newRecorded(b)
	for i := 0; i < b.N; i++ {
		c.FillText("Allegro", 0, 0)
	}
}
