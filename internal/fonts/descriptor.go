package fonts

import (
	"strconv"
	"strings"
)

// Style selects the weight and slant used when matching a family.
// Weight follows the CSS numeric scale and Slant is 0 for upright and 1 for
// italic.
type Style struct {
	Weight int
	Slant  int
}

var (
	// StyleNormal is weight 400, upright.
	StyleNormal = Style{Weight: 400, Slant: 0}
	// StyleBold is weight 700, upright.
	StyleBold = Style{Weight: 700, Slant: 0}
)

// IsBold reports whether the weight is in the bold range.
func (s Style) IsBold() bool {
	return s.Weight >= 600
}

// IsItalic reports whether the slant is not upright.
func (s Style) IsItalic() bool {
	return s.Slant != 0
}

// Descriptor is a normalized font request. Family may hold a comma-separated
// fallback list and Size is always in pixels.
type Descriptor struct {
	Family string
	Size   float64
	Weight string
	Style  string
}

// NewDescriptor builds a descriptor from loosely typed parts. size is parsed
// with ToPx, so "12pt", "16px" and "16" are all accepted.
func NewDescriptor(family, size, weight, style string) Descriptor {
	return Descriptor{
		Family: strings.TrimSpace(family),
		Size:   ToPx(size),
		Weight: normalizeWeight(weight),
		Style:  normalizeStyle(style),
	}
}

// Families splits Family into trimmed, unquoted candidate names.
func (d Descriptor) Families() []string {
	if strings.TrimSpace(d.Family) == "" {
		return nil
	}
	parts := strings.Split(d.Family, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"'`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MatchStyle maps the CSS weight and style words to a match style.
func (d Descriptor) MatchStyle() Style {
	st := StyleNormal
	if d.Weight == "bold" {
		st.Weight = 700
	}
	if d.Style == "italic" {
		st.Slant = 1
	}
	return st
}

// String formats the descriptor as "<px>px <family>".
func (d Descriptor) String() string {
	s := FormatPx(NormalizePx(d.Size)) + "px"
	if fam := strings.Join(d.Families(), ", "); fam != "" {
		s += " " + fam
	}
	return s
}

func normalizeWeight(w string) string {
	w = strings.ToLower(strings.TrimSpace(w))
	switch w {
	case "bold", "bolder":
		return "bold"
	case "", "normal", "lighter":
		return "normal"
	}
	if n, err := strconv.Atoi(w); err == nil && n >= 600 {
		return "bold"
	}
	return "normal"
}

func normalizeStyle(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "italic", "oblique":
		return "italic"
	default:
		return "normal"
	}
}
