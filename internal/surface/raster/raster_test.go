package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/opd-ai/notation-canvas/internal/fonts"
	"github.com/opd-ai/notation-canvas/internal/surface"
)

var red = color.RGBA{R: 0xff, A: 0xff}

func rgbaAt(s *Surface, x, y int) color.RGBA {
	r, g, b, a := s.Image().At(x, y).RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func TestDrawRectFill(t *testing.T) {
	s := New(20, 20)
	defer s.Close()

	paint := surface.NewPaint(surface.StyleFill)
	paint.Color = red
	s.DrawRect(surface.Rect{X: 2, Y: 2, W: 10, H: 10}, paint)

	if got := rgbaAt(s, 6, 6); got != red {
		t.Errorf("pixel inside = %v, want %v", got, red)
	}
	if got := rgbaAt(s, 15, 15); got.A != 0 {
		t.Errorf("pixel outside = %v, want transparent", got)
	}
	if err := s.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestTransformAppliesAtDrawTime(t *testing.T) {
	s := New(40, 40)
	defer s.Close()

	p := surface.NewPath()
	p.AddRect(surface.Rect{W: 5, H: 5})
	paint := surface.NewPaint(surface.StyleFill)
	paint.Color = red

	s.Save()
	s.Translate(20, 20)
	s.DrawPath(p, paint)
	s.Restore()

	if got := rgbaAt(s, 22, 22); got != red {
		t.Errorf("translated pixel = %v, want %v", got, red)
	}
	if got := rgbaAt(s, 2, 2); got.A != 0 {
		t.Errorf("origin pixel = %v, want transparent", got)
	}
}

func TestClearRect(t *testing.T) {
	s := New(20, 20)
	defer s.Close()
	s.Fill(red)

	s.ClearRect(surface.Rect{X: 5, Y: 5, W: 5, H: 5})
	if got := rgbaAt(s, 7, 7); got.A != 0 {
		t.Errorf("cleared pixel = %v, want transparent", got)
	}
	if got := rgbaAt(s, 12, 12); got != red {
		t.Errorf("pixel outside clear = %v, want %v", got, red)
	}
}

func TestInsideQuad(t *testing.T) {
	square := [4][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	reversed := [4][2]float64{{0, 0}, {0, 10}, {10, 10}, {10, 0}}
	for _, q := range [][4][2]float64{square, reversed} {
		if !insideQuad(q, 5, 5) {
			t.Error("center not inside")
		}
		if insideQuad(q, 11, 5) {
			t.Error("outside point reported inside")
		}
	}
}

func TestDrawTextAndPNG(t *testing.T) {
	tf, err := fonts.NewTypeface("Go", fonts.StyleNormal, goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	s := New(120, 40)
	defer s.Close()

	paint := surface.NewPaint(surface.StyleFill)
	s.DrawText("Allegro", 4, 30, fonts.NewFont(tf, 24), paint)
	s.DrawText("", 4, 30, fonts.NewFont(tf, 24), paint)
	s.DrawText("x", 4, 30, nil, paint)
	if err := s.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}

	inked := false
	for y := 0; y < 40 && !inked; y++ {
		for x := 0; x < 120; x++ {
			if rgbaAt(s, x, y).A != 0 {
				inked = true
				break
			}
		}
	}
	if !inked {
		t.Error("DrawText() left the surface empty")
	}

	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 40 {
		t.Errorf("PNG bounds = %v, want 120x40", b)
	}
}

// inkBounds returns the box of pixels with any coverage.
func inkBounds(s *Surface) image.Rectangle {
	var r image.Rectangle
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if rgbaAt(s, x, y).A == 0 {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if r.Empty() {
				r = px
			} else {
				r = r.Union(px)
			}
		}
	}
	return r
}

func TestDrawTextFollowsRotation(t *testing.T) {
	tf, err := fonts.NewTypeface("Go", fonts.StyleNormal, goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	font := fonts.NewFont(tf, 40)
	paint := surface.NewPaint(surface.StyleFill)

	flat := New(120, 120)
	defer flat.Close()
	flat.DrawText("-----", 10, 60, font, paint)
	fb := inkBounds(flat)
	if fb.Empty() || fb.Dx() < 3*fb.Dy() {
		t.Fatalf("upright run ink = %v, want a wide flat box", fb)
	}

	turned := New(120, 120)
	defer turned.Close()
	turned.Translate(60, 10)
	turned.Rotate(90)
	turned.DrawText("-----", 0, 0, font, paint)
	tb := inkBounds(turned)
	if tb.Empty() || tb.Dy() < 3*tb.Dx() {
		t.Errorf("rotated run ink = %v, want a tall narrow box", tb)
	}
	if tb.Min.X < 60 {
		t.Errorf("rotated run ink = %v, want it right of the rotated baseline at x=60", tb)
	}
}
