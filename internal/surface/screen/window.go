package screen

import (
	"context"
	"errors"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/notation-canvas/internal/surface"
)

// ErrWindowClosed is returned by Run when the context is cancelled.
var ErrWindowClosed = errors.New("window closed")

// Scene draws one frame onto a surface.
type Scene func(s surface.Surface) error

// ErrorHandler receives errors returned by a Scene.
type ErrorHandler func(err error)

// Config holds window settings.
type Config struct {
	Width      int
	Height     int
	Title      string
	Background color.RGBA
}

// Window implements ebiten.Game and redraws the current scene every frame.
type Window struct {
	config       Config
	scene        Scene
	surface      *Surface
	errorHandler ErrorHandler
	ctx          context.Context
	running      bool
	mu           sync.RWMutex
}

// NewWindow creates a window with no scene.
func NewWindow(config Config) *Window {
	return &Window{
		config:  config,
		surface: New(nil),
	}
}

// SetScene replaces the scene drawn each frame. It is safe to call while
// the window is running.
func (w *Window) SetScene(scene Scene) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scene = scene
}

// SetErrorHandler sets the handler for scene errors. A nil handler drops
// them.
func (w *Window) SetErrorHandler(handler ErrorHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errorHandler = handler
}

// SetContext sets a context whose cancellation closes the window.
func (w *Window) SetContext(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ctx = ctx
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.ctx != nil {
		select {
		case <-w.ctx.Done():
			return ErrWindowClosed
		default:
		}
	}
	return nil
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	w.mu.Lock()
	defer w.mu.Unlock()

	screen.Fill(w.config.Background)
	if w.scene == nil {
		return
	}
	w.surface.SetTarget(screen)
	w.surface.Stack = surface.NewStack(surface.Identity())
	if err := w.scene(w.surface); err != nil && w.errorHandler != nil {
		w.errorHandler(err)
	}
}

// Layout implements ebiten.Game.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.config.Width, w.config.Height
}

// Run opens the window and blocks until it is closed or the context is
// cancelled.
func (w *Window) Run() error {
	ebiten.SetWindowSize(w.config.Width, w.config.Height)
	ebiten.SetWindowTitle(w.config.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	w.mu.Lock()
	w.running = true
	w.mu.Unlock()

	err := ebiten.RunGame(w)

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	if errors.Is(err, ErrWindowClosed) {
		return nil
	}
	return err
}

// IsRunning reports whether the game loop is active.
func (w *Window) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}
