package canvas

import (
	"math"

	"github.com/opd-ai/notation-canvas/internal/fonts"
)

// TextMetrics mirrors the browser TextMetrics object. Ascents and descents
// are non-negative distances from the alphabetic baseline.
type TextMetrics struct {
	Width                    float64
	ActualBoundingBoxLeft    float64
	ActualBoundingBoxRight   float64
	ActualBoundingBoxAscent  float64
	ActualBoundingBoxDescent float64
	FontBoundingBoxAscent    float64
	FontBoundingBoxDescent   float64
	EmHeightAscent           float64
	EmHeightDescent          float64
	AlphabeticBaseline       float64
	HangingBaseline          float64
	IdeographicBaseline      float64
}

// measureText computes metrics for text set in f. The vertical values all
// come from the ink bounds of the run, which is what the layout engine
// positions glyphs by. A nil font measures as zero.
func measureText(f *fonts.Font, text string) TextMetrics {
	if f == nil {
		return TextMetrics{}
	}
	bounds := f.Bounds(text)
	ascent := math.Max(0, -bounds.Y)
	descent := math.Max(0, bounds.Bottom())
	return TextMetrics{
		Width:                    f.Advance(text),
		ActualBoundingBoxLeft:    bounds.X,
		ActualBoundingBoxRight:   bounds.Right(),
		ActualBoundingBoxAscent:  ascent,
		ActualBoundingBoxDescent: descent,
		FontBoundingBoxAscent:    ascent,
		FontBoundingBoxDescent:   descent,
		EmHeightAscent:           ascent,
		EmHeightDescent:          descent,
	}
}
