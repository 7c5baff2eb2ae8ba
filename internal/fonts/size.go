package fonts

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// PtToPx converts typographic points to CSS pixels.
	PtToPx = 4.0 / 3.0

	// DefaultSizePx is used whenever a size is missing or malformed.
	DefaultSizePx = 12.0

	// GlyphFamily is the family name served by the embedded glyph font.
	GlyphFamily = "Bravura"

	// DefaultFont is the font string a fresh context reports.
	DefaultFont = "12px Bravura"
)

var sizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)(?i:(px|pt))?$`)

// ToPx converts a CSS size string to pixels. "Npt" yields N*4/3, "Npx" and
// a bare "N" yield N. Empty, malformed, zero and negative sizes yield
// DefaultSizePx.
func ToPx(size string) float64 {
	m := sizePattern.FindStringSubmatch(strings.TrimSpace(size))
	if m == nil {
		return DefaultSizePx
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return DefaultSizePx
	}
	if strings.EqualFold(m[2], "pt") {
		n = n * 4 / 3
	}
	return NormalizePx(n)
}

// NormalizePx rounds a usable size to two decimals, the precision of cache
// keys, so a handle is always built at the size its key names. Unusable
// sizes become DefaultSizePx.
func NormalizePx(px float64) float64 {
	if math.IsNaN(px) || math.IsInf(px, 0) || px <= 0 {
		return DefaultSizePx
	}
	if r := roundPx(px); r > 0 {
		return r
	}
	return DefaultSizePx
}

func roundPx(px float64) float64 {
	return math.Round(px*100) / 100
}

// FormatPx renders a pixel size the way it appears in cache keys and font
// strings: at most two decimals, no trailing zeros.
func FormatPx(px float64) string {
	return strconv.FormatFloat(roundPx(px), 'f', -1, 64)
}

// CacheKey returns the cache key for a family at a pixel size.
func CacheKey(family string, px float64) string {
	return family + "-" + FormatPx(px)
}
