package canvas

import (
	"testing"

	"github.com/opd-ai/notation-canvas/internal/fonts"
)

func newMeasure(t testing.TB, opts ...Option) *MeasureSurface {
	t.Helper()
	return NewMeasureSurface(testGlyph(t), append([]Option{WithCache(fonts.NewCache())}, opts...)...)
}

func TestMeasureSurfaceDefault(t *testing.T) {
	m := newMeasure(t)
	if m.Font() != fonts.DefaultFont {
		t.Errorf("Font() = %q, want %q", m.Font(), fonts.DefaultFont)
	}
	if f := m.CurrentFont(); f == nil || f.Size() != 12 {
		t.Fatalf("CurrentFont() = %v, want 12px glyph font", f)
	}
	if m.GetContext("2d") != m {
		t.Error(`GetContext("2d") did not return the surface`)
	}
	if m.GetContext("webgl") != nil {
		t.Error(`GetContext("webgl") should be nil`)
	}
}

func TestMeasureSurfaceSetFont(t *testing.T) {
	tests := []struct {
		name     string
		css      string
		wantSize float64
	}{
		{"points", "24pt Bravura", 32},
		{"pixels", "italic bold 18px Bravura", 18},
		{"no size", "Bravura", 12},
		{"empty", "", 12},
		{"unknown family", "14px Nonexistent", 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMeasure(t)
			m.SetFont(tt.css)
			if m.Font() != tt.css {
				t.Errorf("Font() = %q, want %q", m.Font(), tt.css)
			}
			if got := m.CurrentFont().Size(); got != tt.wantSize {
				t.Errorf("CurrentFont().Size() = %v, want %v", got, tt.wantSize)
			}
		})
	}
}

func TestMeasureText(t *testing.T) {
	m := newMeasure(t)
	m.SetFont("30px Bravura")

	empty := m.MeasureText("")
	if empty != (TextMetrics{}) {
		t.Errorf("MeasureText(\"\") = %+v, want zero metrics", empty)
	}

	h := m.MeasureText("H")
	if h.Width <= 0 {
		t.Errorf("Width = %v, want > 0", h.Width)
	}
	if h.ActualBoundingBoxAscent <= 0 {
		t.Errorf("ActualBoundingBoxAscent = %v, want > 0", h.ActualBoundingBoxAscent)
	}
	if h.ActualBoundingBoxDescent > 1 {
		t.Errorf("ActualBoundingBoxDescent = %v, want about 0 for H", h.ActualBoundingBoxDescent)
	}
	if h.FontBoundingBoxAscent != h.ActualBoundingBoxAscent || h.EmHeightAscent != h.ActualBoundingBoxAscent {
		t.Error("ascent fields disagree")
	}
	if h.ActualBoundingBoxRight <= h.ActualBoundingBoxLeft {
		t.Errorf("bounding box left, right = %v, %v", h.ActualBoundingBoxLeft, h.ActualBoundingBoxRight)
	}
	if h.AlphabeticBaseline != 0 || h.HangingBaseline != 0 || h.IdeographicBaseline != 0 {
		t.Error("baselines should be zero")
	}

	g := m.MeasureText("g")
	if g.ActualBoundingBoxDescent <= 0 {
		t.Errorf("descent of g = %v, want > 0", g.ActualBoundingBoxDescent)
	}

	hh := m.MeasureText("HH")
	if diff := hh.Width - 2*h.Width; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Width(HH) = %v, want %v", hh.Width, 2*h.Width)
	}
}

func TestMeasureMatchesContext(t *testing.T) {
	m := newMeasure(t)
	c, _ := newRecorded(t)
	m.SetFont("20px Bravura")
	if err := c.SetRawFont("20px Bravura"); err != nil {
		t.Fatal(err)
	}
	if a, b := m.MeasureText("Presto"), c.MeasureText("Presto"); a != b {
		t.Errorf("surface metrics %+v differ from context metrics %+v", a, b)
	}
}

func TestMeasureWithoutAnyFont(t *testing.T) {
	m := NewMeasureSurface(nil, WithCache(fonts.NewCache()))
	m.SetFont("12px Bravura")
	if m.CurrentFont() != nil {
		t.Error("CurrentFont() should be nil with no fonts available")
	}
	if got := m.MeasureText("x"); got != (TextMetrics{}) {
		t.Errorf("MeasureText() = %+v, want zero metrics", got)
	}
}

func BenchmarkMeasureText(b *testing.B) {
	m := newMeasure(b)
	for i := 0; i < b.N; i++ {
		m.MeasureText("Allegro ma non troppo")
	}
}
