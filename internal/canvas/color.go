package canvas

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// opaqueBlack is painted for styles that cannot be parsed.
var opaqueBlack = color.RGBA{A: 0xff}

// ParseColor parses a CSS colour string. Supported formats are the CSS named
// colours, "transparent", "#rgb", "#rgba", "#rrggbb", "#rrggbbaa",
// "rgb(r, g, b)" and "rgba(r, g, b, a)" with a in [0, 1] or a percentage.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	lower := strings.ToLower(s)
	if lower == "transparent" {
		return color.RGBA{}, nil
	}
	if c, ok := colornames.Map[lower]; ok {
		return c, nil
	}
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s[1:])
	case strings.HasPrefix(lower, "rgba(") && strings.HasSuffix(s, ")"):
		return parseRGBFunc(s[5:len(s)-1], true)
	case strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(s, ")"):
		return parseRGBFunc(s[4:len(s)-1], false)
	}
	return color.RGBA{}, fmt.Errorf("unrecognized color format: %q", s)
}

// paintColor parses s, falling back to opaque black.
func paintColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		return opaqueBlack
	}
	return c
}

func parseHexColor(s string) (color.RGBA, error) {
	var digits [8]uint8
	switch len(s) {
	case 3, 4:
		for i := 0; i < len(s); i++ {
			v, err := strconv.ParseUint(s[i:i+1], 16, 8)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
			}
			digits[i] = uint8(v * 17)
		}
	case 6, 8:
		for i := 0; i < len(s); i += 2 {
			v, err := strconv.ParseUint(s[i:i+2], 16, 8)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
			}
			digits[i/2] = uint8(v)
		}
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length: %d", len(s))
	}
	c := color.RGBA{R: digits[0], G: digits[1], B: digits[2], A: 0xff}
	if len(s) == 4 || len(s) == 8 {
		c.A = digits[3]
	}
	return c, nil
}

// parseRGBFunc parses the arguments of rgb() or rgba(). rgb() with four
// arguments is accepted, as browsers do.
func parseRGBFunc(args string, wantAlpha bool) (color.RGBA, error) {
	parts := strings.Split(args, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.RGBA{}, fmt.Errorf("rgb() requires 3 or 4 values, got %d", len(parts))
	}
	if wantAlpha && len(parts) != 4 {
		return color.RGBA{}, fmt.Errorf("rgba() requires 4 values, got %d", len(parts))
	}
	var ch [3]uint8
	for i := range ch {
		v, err := parseChannel(strings.TrimSpace(parts[i]))
		if err != nil {
			return color.RGBA{}, err
		}
		ch[i] = v
	}
	c := color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 0xff}
	if len(parts) == 4 {
		a, err := parseAlpha(strings.TrimSpace(parts[3]))
		if err != nil {
			return color.RGBA{}, err
		}
		c.A = a
	}
	return c, nil
}

// parseChannel parses 0-255 or a percentage, clamping out-of-range values.
func parseChannel(s string) (uint8, error) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid color channel %q: %w", s, err)
		}
		return clampByte(v / 100 * 255), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid color channel %q: %w", s, err)
	}
	return clampByte(v), nil
}

// parseAlpha parses an alpha in [0, 1] or a percentage.
func parseAlpha(s string) (uint8, error) {
	p, percent := strings.CutSuffix(s, "%")
	v, err := strconv.ParseFloat(p, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid alpha %q: %w", s, err)
	}
	if percent {
		v /= 100
	}
	return clampByte(v * 255), nil
}

func clampByte(v float64) uint8 {
	switch {
	case v != v || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}

// ToHex formats c as #rrggbb, or #rrggbbaa when it is not opaque.
func ToHex(c color.RGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
