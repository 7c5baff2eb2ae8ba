// Package config provides configuration data structures for notation-canvas.
// A configuration file is a Lua chunk assigning a notation.config table;
// command-line flags override what it sets.
package config

import (
	"fmt"
	"image/color"
	"strings"
	"time"
)

// Config represents the complete renderer configuration.
type Config struct {
	// Canvas contains the drawing area settings.
	Canvas CanvasConfig
	// Output selects the backend and where it writes.
	Output OutputConfig
	// Fonts locates the glyph font and extra font families.
	Fonts FontConfig
	// Script configures the Lua layout script.
	Script ScriptConfig
	// Watch controls re-rendering when inputs change.
	Watch WatchConfig
}

// CanvasConfig holds the drawing area settings.
type CanvasConfig struct {
	// Width is the canvas width in CSS pixels.
	Width int
	// Height is the canvas height in CSS pixels.
	Height int
	// Scale multiplies every coordinate before drawing.
	Scale float64
	// Background is painted before the draw pass and by clearRect on
	// backends that cannot clear to transparent.
	Background color.RGBA
}

// OutputConfig selects the backend.
type OutputConfig struct {
	// Backend is the drawing surface to render onto.
	Backend Backend
	// Path is the output file. Ignored by the screen backend; "-" or empty
	// writes the record dump to stdout.
	Path string
}

// FontConfig locates fonts.
type FontConfig struct {
	// Glyph is the path of the notation glyph font registered as Bravura.
	// Empty uses the built-in fallback.
	Glyph string
	// Dirs are scanned for additional families.
	Dirs []string
	// System registers the built-in Go font families.
	System bool
}

// ScriptConfig configures the Lua layout script.
type ScriptConfig struct {
	// Path is the layout script defining draw(ctx) and optionally
	// layout(measure).
	Path string
	// CPULimit is the instruction budget per script call.
	CPULimit uint64
	// MemoryLimit is the allocation budget per script call in bytes.
	MemoryLimit uint64
}

// WatchConfig controls re-rendering on change.
type WatchConfig struct {
	// Enabled re-renders when the script or configuration changes.
	Enabled bool
	// Debounce is how long to wait for writes to settle.
	Debounce time.Duration
}

// Backend identifies a drawing surface implementation.
type Backend int

// Backend constants.
const (
	// BackendRaster renders to a PNG image.
	BackendRaster Backend = iota
	// BackendPDF renders to a vector PDF document.
	BackendPDF
	// BackendScreen renders into a window.
	BackendScreen
	// BackendRecord writes a text dump of the native drawing calls.
	BackendRecord
)

var backendNames = map[Backend]string{
	BackendRaster: "raster",
	BackendPDF:    "pdf",
	BackendScreen: "screen",
	BackendRecord: "record",
}

// String returns the string representation of a Backend.
func (b Backend) String() string {
	if s, ok := backendNames[b]; ok {
		return s
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

// ParseBackend parses a backend name. "png" is accepted for raster.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "raster", "png":
		return BackendRaster, nil
	case "pdf":
		return BackendPDF, nil
	case "screen", "window":
		return BackendScreen, nil
	case "record", "dump":
		return BackendRecord, nil
	default:
		return BackendRaster, fmt.Errorf("unknown backend: %q", s)
	}
}

// BackendForPath picks a backend from an output file extension, falling
// back to raster.
func BackendForPath(path string) Backend {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return BackendPDF
	case strings.HasSuffix(lower, ".txt"):
		return BackendRecord
	default:
		return BackendRaster
	}
}
