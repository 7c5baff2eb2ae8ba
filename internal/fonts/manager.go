package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"
)

// Variant is one of the four faces a family can carry.
type Variant int

const (
	// VariantRegular is the upright, normal weight face.
	VariantRegular Variant = iota
	// VariantBold is the upright, bold face.
	VariantBold
	// VariantItalic is the italic, normal weight face.
	VariantItalic
	// VariantBoldItalic is the italic, bold face.
	VariantBoldItalic
)

// String returns the string representation of a Variant.
func (v Variant) String() string {
	switch v {
	case VariantRegular:
		return "regular"
	case VariantBold:
		return "bold"
	case VariantItalic:
		return "italic"
	case VariantBoldItalic:
		return "bold-italic"
	default:
		return "unknown"
	}
}

// ParseVariant parses a string into a Variant.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "regular", "normal", "":
		return VariantRegular, nil
	case "bold":
		return VariantBold, nil
	case "italic":
		return VariantItalic, nil
	case "bold-italic", "bolditalic", "bold_italic":
		return VariantBoldItalic, nil
	default:
		return VariantRegular, fmt.Errorf("unknown font variant: %s", s)
	}
}

// VariantFor picks the variant closest to a match style.
func VariantFor(st Style) Variant {
	switch {
	case st.IsBold() && st.IsItalic():
		return VariantBoldItalic
	case st.IsBold():
		return VariantBold
	case st.IsItalic():
		return VariantItalic
	default:
		return VariantRegular
	}
}

func (v Variant) style() Style {
	switch v {
	case VariantBold:
		return StyleBold
	case VariantItalic:
		return Style{Weight: 400, Slant: 1}
	case VariantBoldItalic:
		return Style{Weight: 700, Slant: 1}
	default:
		return StyleNormal
	}
}

// Family is a named set of typefaces keyed by variant.
type Family struct {
	name  string
	faces map[Variant]*Typeface
	mu    sync.RWMutex
}

// NewFamily creates an empty family.
func NewFamily(name string) *Family {
	return &Family{
		name:  name,
		faces: make(map[Variant]*Typeface),
	}
}

// Name returns the family name.
func (f *Family) Name() string {
	return f.name
}

// Add registers a typeface for a variant.
func (f *Family) Add(v Variant, t *Typeface) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faces[v] = t
}

// Has reports whether the family carries the exact variant.
func (f *Family) Has(v Variant) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.faces[v]
	return ok
}

// Match returns the typeface for a style, falling back to the nearest
// variant the family carries.
func (f *Family) Match(st Style) *Typeface {
	f.mu.RLock()
	defer f.mu.RUnlock()

	want := VariantFor(st)
	if t, ok := f.faces[want]; ok {
		return t
	}
	if want == VariantBoldItalic {
		if t, ok := f.faces[VariantBold]; ok {
			return t
		}
		if t, ok := f.faces[VariantItalic]; ok {
			return t
		}
	}
	if t, ok := f.faces[VariantRegular]; ok {
		return t
	}
	// Deterministic order when regular is missing.
	for _, v := range []Variant{VariantBold, VariantItalic, VariantBoldItalic} {
		if t, ok := f.faces[v]; ok {
			return t
		}
	}
	return nil
}

// Manager is the native font manager: an ordered collection of families
// with case-insensitive lookup and aliases.
type Manager struct {
	order  []*Family
	byName map[string]*Family
	mu     sync.RWMutex
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{byName: make(map[string]*Family)}
}

// NewSystemManager creates a manager preloaded with the Go font families
// ("Go", "Go Mono" and "Go Smallcaps") plus the aliases "sans-serif",
// "monospace" and "serif".
func NewSystemManager() *Manager {
	m := NewManager()
	m.loadEmbedded("Go", map[Variant][]byte{
		VariantRegular:    goregular.TTF,
		VariantBold:       gobold.TTF,
		VariantItalic:     goitalic.TTF,
		VariantBoldItalic: gobolditalic.TTF,
	})
	m.loadEmbedded("Go Mono", map[Variant][]byte{
		VariantRegular:    gomono.TTF,
		VariantBold:       gomonobold.TTF,
		VariantItalic:     gomonoitalic.TTF,
		VariantBoldItalic: gomonobolditalic.TTF,
	})
	m.loadEmbedded("Go Smallcaps", map[Variant][]byte{
		VariantRegular: gosmallcaps.TTF,
		VariantItalic:  gosmallcapsitalic.TTF,
	})
	_ = m.RegisterAlias("sans-serif", "Go")
	_ = m.RegisterAlias("serif", "Go")
	_ = m.RegisterAlias("monospace", "Go Mono")
	return m
}

// loadEmbedded registers compiled-in font data. Embedded data always parses,
// so failures are skipped.
func (m *Manager) loadEmbedded(name string, faces map[Variant][]byte) {
	for _, v := range []Variant{VariantRegular, VariantBold, VariantItalic, VariantBoldItalic} {
		data, ok := faces[v]
		if !ok {
			continue
		}
		t, err := NewTypeface(name, v.style(), data)
		if err != nil {
			continue
		}
		m.Add(name, v, t)
	}
}

// Add registers a parsed typeface under a family and variant. A new family
// is appended to the enumeration order.
func (m *Manager) Add(family string, v Variant, t *Typeface) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(family)
	f, ok := m.byName[key]
	if !ok {
		f = NewFamily(family)
		m.byName[key] = f
		m.order = append(m.order, f)
	}
	f.Add(v, t)
}

// LoadFontFromData parses font bytes and registers them.
func (m *Manager) LoadFontFromData(family string, v Variant, data []byte) error {
	t, err := NewTypeface(family, v.style(), data)
	if err != nil {
		return err
	}
	m.Add(family, v, t)
	return nil
}

// LoadFontFromFile reads a font file and registers it.
func (m *Manager) LoadFontFromFile(family string, v Variant, path string) error {
	t, err := LoadTypefaceFile(family, v.style(), path)
	if err != nil {
		return err
	}
	m.Add(family, v, t)
	return nil
}

// LoadDir registers every .ttf and .otf file directly inside dir. The family
// name is the file name without extension; a "-Bold", "-Italic" or
// "-BoldItalic" suffix selects the variant. It returns the number of files
// loaded.
func (m *Manager) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read font directory %s: %w", dir, err)
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".ttf" && ext != ".otf" {
			continue
		}
		family, v := familyFromFileName(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		if err := m.LoadFontFromFile(family, v, filepath.Join(dir, e.Name())); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func familyFromFileName(base string) (string, Variant) {
	suffixes := []struct {
		suffix string
		v      Variant
	}{
		{"-bolditalic", VariantBoldItalic},
		{"-bold", VariantBold},
		{"-italic", VariantItalic},
		{"-regular", VariantRegular},
	}
	lower := strings.ToLower(base)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s.suffix) {
			return base[:len(base)-len(s.suffix)], s.v
		}
	}
	return base, VariantRegular
}

// RegisterAlias makes alias resolve to an existing family. Aliases are not
// enumerated.
func (m *Manager) RegisterAlias(alias, family string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.byName[strings.ToLower(family)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFamily, family)
	}
	m.byName[strings.ToLower(alias)] = f
	return nil
}

// CountFamilies returns the number of registered families.
func (m *Manager) CountFamilies() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// FamilyName returns the i-th family name in registration order, or "" when
// i is out of range.
func (m *Manager) FamilyName(i int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i < 0 || i >= len(m.order) {
		return ""
	}
	return m.order[i].Name()
}

// Family returns a family by name or alias, or nil.
func (m *Manager) Family(name string) *Family {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byName[strings.ToLower(strings.TrimSpace(name))]
}

// MatchFamilyStyle returns the typeface of a family closest to st, or nil
// when the family is unknown.
func (m *Manager) MatchFamilyStyle(name string, st Style) *Typeface {
	f := m.Family(name)
	if f == nil {
		return nil
	}
	return f.Match(st)
}

// Families returns the canonical family names in registration order.
func (m *Manager) Families() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.order))
	for i, f := range m.order {
		names[i] = f.Name()
	}
	return names
}
