package config

import (
	"image/color"
	"time"
)

// Default values for configuration options.
const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 800
	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 300
	// DefaultScale draws at one device pixel per CSS pixel.
	DefaultScale = 1.0
	// DefaultOutput is the raster output file.
	DefaultOutput = "score.png"
	// DefaultDebounce is how long file events are coalesced.
	DefaultDebounce = 100 * time.Millisecond
	// DefaultCPULimit is the instruction budget per script call.
	DefaultCPULimit = 50_000_000
	// DefaultMemoryLimit is the allocation budget per script call.
	DefaultMemoryLimit = 64 * 1024 * 1024
)

// DefaultBackground is opaque white, the colour of a blank page.
var DefaultBackground = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Canvas: CanvasConfig{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			Scale:      DefaultScale,
			Background: DefaultBackground,
		},
		Output: OutputConfig{
			Backend: BackendRaster,
			Path:    DefaultOutput,
		},
		Fonts: FontConfig{
			System: true,
		},
		Script: ScriptConfig{
			CPULimit:    DefaultCPULimit,
			MemoryLimit: DefaultMemoryLimit,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
		},
	}
}
