//go:build !noebiten

package notation

import (
	"context"
	"fmt"

	"github.com/opd-ai/notation-canvas/internal/config"
	"github.com/opd-ai/notation-canvas/internal/surface"
	"github.com/opd-ai/notation-canvas/internal/surface/screen"
)

// runScreen opens a window that replays the last recorded frame until it
// is closed or ctx is cancelled. Watch mode swaps the frame underneath it.
func (r *Renderer) runScreen(ctx context.Context, cfg config.Config) error {
	w, h := deviceSize(cfg)
	win := screen.NewWindow(screen.Config{
		Width:      w,
		Height:     h,
		Title:      "notation-render: " + cfg.Script.Path,
		Background: cfg.Canvas.Background,
	})
	win.SetContext(ctx)
	win.SetErrorHandler(func(err error) {
		r.logger.Error("frame failed", "error", err)
	})
	win.SetScene(func(s surface.Surface) error {
		if frame := r.Frame(); frame != nil {
			frame.Replay(s)
		}
		return nil
	})
	if err := win.Run(); err != nil {
		return fmt.Errorf("screen backend: %w", err)
	}
	return nil
}
