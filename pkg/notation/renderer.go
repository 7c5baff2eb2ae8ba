package notation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/opd-ai/notation-canvas/internal/canvas"
	"github.com/opd-ai/notation-canvas/internal/config"
	"github.com/opd-ai/notation-canvas/internal/fonts"
	"github.com/opd-ai/notation-canvas/internal/script"
	"github.com/opd-ai/notation-canvas/internal/surface"
)

// Renderer runs a layout script against the canvas adapter and writes the
// result with the configured backend.
type Renderer struct {
	cfg      config.Config
	opts     Options
	logger   *slog.Logger
	metrics  *Metrics
	glyph    *fonts.Typeface
	resolver *fonts.Resolver
	frame    *surface.Recorder
	mu       sync.Mutex
}

// New validates cfg and loads its fonts. opts may be nil.
func New(cfg config.Config, opts *Options) (*Renderer, error) {
	o := DefaultOptions()
	if opts != nil {
		if opts.Logger != nil {
			o.Logger = opts.Logger
		}
		if opts.Metrics != nil {
			o.Metrics = opts.Metrics
		}
		if opts.Cache != nil {
			o.Cache = opts.Cache
		}
		o.Stdout = opts.Stdout
		o.ConfigPath = opts.ConfigPath
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}

	r := &Renderer{opts: o, logger: o.Logger, metrics: o.Metrics}
	if err := r.apply(cfg, o.Cache); err != nil {
		return nil, err
	}
	return r, nil
}

// apply validates cfg and swaps it in together with freshly loaded fonts.
func (r *Renderer) apply(cfg config.Config, cache *fonts.Cache) error {
	if cfg.Script.Path == "" {
		return ErrNoScript
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	glyph, manager, err := loadFonts(cfg.Fonts, r.logger)
	if err != nil {
		return err
	}
	resolver := fonts.NewResolver(glyph, manager, fonts.WithCache(cache), fonts.WithLogger(r.logger))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
	r.glyph = glyph
	r.resolver = resolver
	return nil
}

// loadFonts builds the font manager and picks the glyph typeface: the
// configured file, else a Bravura family found in the font directories.
func loadFonts(fc config.FontConfig, logger *slog.Logger) (*fonts.Typeface, *fonts.Manager, error) {
	manager := fonts.NewManager()
	if fc.System {
		manager = fonts.NewSystemManager()
	}
	for _, dir := range fc.Dirs {
		n, err := manager.LoadDir(dir)
		if err != nil {
			logger.Warn("font directory skipped", "dir", dir, "error", err)
			continue
		}
		logger.Debug("font directory loaded", "dir", dir, "faces", n)
	}

	if fc.Glyph != "" {
		glyph, err := fonts.LoadTypefaceFile(fonts.GlyphFamily, fonts.StyleNormal, fc.Glyph)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load glyph font: %w", err)
		}
		return glyph, manager, nil
	}
	glyph := manager.MatchFamilyStyle(fonts.GlyphFamily, fonts.StyleNormal)
	if glyph == nil {
		logger.Warn("no glyph font available, notation text falls back to other families")
	}
	return glyph, manager, nil
}

// Config returns the configuration in effect.
func (r *Renderer) Config() config.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

// Resolver returns the font resolver shared by both passes.
func (r *Renderer) Resolver() *fonts.Resolver {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolver
}

// Metrics returns the metrics collector.
func (r *Renderer) Metrics() *Metrics { return r.metrics }

// RenderTo runs the script's layout pass against a measurement surface and
// its draw pass against s. The context is checked between the two passes.
func (r *Renderer) RenderTo(ctx context.Context, s surface.Surface) error {
	if _, ok := ctx.Value(renderIDKey{}).(RenderID); !ok {
		ctx = WithRenderID(ctx, "")
	}
	r.mu.Lock()
	cfg, glyph, resolver := r.cfg, r.glyph, r.resolver
	r.mu.Unlock()

	err := r.run(ctx, cfg, glyph, resolver, s)
	if err != nil {
		r.metrics.IncrementRenderErrors()
		if errors.Is(err, fonts.ErrFontUnresolved) {
			r.metrics.IncrementFontErrors()
		}
		r.logger.ErrorContext(ctx, "render failed", "script", cfg.Script.Path, "error", err)
		return err
	}
	r.metrics.IncrementRenders()
	return nil
}

func (r *Renderer) run(ctx context.Context, cfg config.Config, glyph *fonts.Typeface, resolver *fonts.Resolver, s surface.Surface) error {
	host := script.NewHost(script.RuntimeConfig{
		CPULimit:    cfg.Script.CPULimit,
		MemoryLimit: cfg.Script.MemoryLimit,
		Stdout:      r.opts.Stdout,
	}, r.logger)
	defer host.Close()

	if err := host.LoadFile(cfg.Script.Path); err != nil {
		r.metrics.IncrementScriptErrors()
		return fmt.Errorf("failed to load script: %w", err)
	}

	opts := []canvas.Option{canvas.WithResolver(resolver), canvas.WithLogger(r.logger)}
	start := time.Now()
	if err := host.Layout(canvas.NewMeasureSurface(glyph, opts...)); err != nil {
		r.metrics.IncrementScriptErrors()
		return fmt.Errorf("layout pass: %w", err)
	}
	r.metrics.RecordLayoutLatency(time.Since(start))
	r.logger.DebugContext(ctx, "layout pass done", "elapsed", time.Since(start))

	if err := ctx.Err(); err != nil {
		return err
	}

	s.Scale(cfg.Canvas.Scale, cfg.Canvas.Scale)
	rc, err := canvas.NewContext(s, glyph, opts...)
	if err != nil {
		return err
	}
	start = time.Now()
	if err := host.Draw(rc); err != nil {
		if !errors.Is(err, fonts.ErrFontUnresolved) {
			r.metrics.IncrementScriptErrors()
		}
		return fmt.Errorf("draw pass: %w", err)
	}
	r.metrics.RecordDrawLatency(time.Since(start))
	r.logger.DebugContext(ctx, "draw pass done", "elapsed", time.Since(start))
	return nil
}

// Render renders with the configured backend. The screen backend blocks
// until its window is closed or ctx is cancelled.
func (r *Renderer) Render(ctx context.Context) error {
	ctx = WithRenderID(ctx, "")
	cfg := r.Config()
	r.logger.InfoContext(ctx, "rendering", "script", cfg.Script.Path, "backend", cfg.Output.Backend)

	switch cfg.Output.Backend {
	case config.BackendRaster:
		return r.renderRaster(ctx, cfg)
	case config.BackendPDF:
		return r.renderPDF(ctx, cfg)
	case config.BackendRecord:
		return r.renderRecord(ctx, cfg)
	case config.BackendScreen:
		if err := r.recordFrame(ctx); err != nil {
			return err
		}
		return r.runScreen(ctx, cfg)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Output.Backend)
	}
}

// recordFrame renders into a recorder that the screen backend replays
// every frame.
func (r *Renderer) recordFrame(ctx context.Context) error {
	rec := surface.NewRecorder()
	if err := r.RenderTo(ctx, rec); err != nil {
		return err
	}
	r.mu.Lock()
	r.frame = rec
	r.mu.Unlock()
	return nil
}

// Frame returns the last recorded frame, or nil.
func (r *Renderer) Frame() *surface.Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}
