package script

import (
	"fmt"
	"log/slog"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/notation-canvas/internal/canvas"
)

const (
	layoutFunc = "layout"
	drawFunc   = "draw"
)

// Host loads a layout script and runs its passes. layout(measure) is
// optional and runs before draw(ctx), which is required.
type Host struct {
	runtime *Runtime
	logger  *slog.Logger
	source  string
}

// NewHost creates a host. A nil logger discards output.
func NewHost(config RuntimeConfig, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Host{runtime: NewRuntime(config), logger: logger}
}

// LoadFile runs a script file, defining its functions.
func (h *Host) LoadFile(path string) error {
	if err := h.runtime.ExecuteFile(path); err != nil {
		return err
	}
	h.source = path
	h.logger.Debug("script loaded", "path", path,
		"layout", h.runtime.HasFunction(layoutFunc))
	return h.checkDraw()
}

// LoadString runs a script held in memory.
func (h *Host) LoadString(name, code string) error {
	if err := h.runtime.ExecuteString(name, code); err != nil {
		return err
	}
	h.source = name
	return h.checkDraw()
}

func (h *Host) checkDraw() error {
	if !h.runtime.HasFunction(drawFunc) {
		return fmt.Errorf("%s: %w: %s", h.source, ErrNoFunction, drawFunc)
	}
	return nil
}

// Layout calls layout(measure) when the script defines it.
func (h *Host) Layout(m *canvas.MeasureSurface) error {
	if !h.runtime.HasFunction(layoutFunc) {
		return nil
	}
	tbl, err := newMeasureTable(m)
	if err != nil {
		return err
	}
	if _, err := h.runtime.Call(layoutFunc, rt.TableValue(tbl)); err != nil {
		return err
	}
	return nil
}

// Draw calls draw(ctx). When a binding failed with a Go error, such as an
// unresolvable font, that error is returned wrapped so callers can match
// it with errors.Is.
func (h *Host) Draw(rc canvas.RenderContext) error {
	b, err := NewContextBindings(rc)
	if err != nil {
		return err
	}
	_, err = h.runtime.Call(drawFunc, rt.TableValue(b.Table()))
	if b.Err() != nil {
		return fmt.Errorf("%s() failed: %w", drawFunc, b.Err())
	}
	return err
}

// Output returns what the script printed.
func (h *Host) Output() string { return h.runtime.Output() }

// Source names the loaded script.
func (h *Host) Source() string { return h.source }

// Close releases the runtime.
func (h *Host) Close() error { return h.runtime.Close() }
