package notation

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/opd-ai/notation-canvas/internal/config"
	"github.com/opd-ai/notation-canvas/internal/surface"
	"github.com/opd-ai/notation-canvas/internal/surface/pdf"
	"github.com/opd-ai/notation-canvas/internal/surface/raster"
)

// deviceSize returns the canvas size in device pixels.
func deviceSize(cfg config.Config) (int, int) {
	w := int(math.Ceil(float64(cfg.Canvas.Width) * cfg.Canvas.Scale))
	h := int(math.Ceil(float64(cfg.Canvas.Height) * cfg.Canvas.Scale))
	return w, h
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// create opens path for writing; "-" and "" mean the configured stdout.
func (r *Renderer) create(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{r.opts.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output %s: %w", path, err)
	}
	return f, nil
}

// write runs emit against the output file and closes it, keeping the
// first error.
func (r *Renderer) write(ctx context.Context, path string, emit func(io.Writer) error) error {
	w, err := r.create(path)
	if err != nil {
		return err
	}
	err = emit(w)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	r.logger.InfoContext(ctx, "output written", "path", path)
	return nil
}

func (r *Renderer) renderRaster(ctx context.Context, cfg config.Config) error {
	w, h := deviceSize(cfg)
	s := raster.New(w, h)
	defer s.Close()
	s.Fill(cfg.Canvas.Background)

	if err := r.RenderTo(ctx, s); err != nil {
		return err
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("raster backend: %w", err)
	}
	return r.write(ctx, cfg.Output.Path, s.EncodePNG)
}

func (r *Renderer) renderPDF(ctx context.Context, cfg config.Config) error {
	s := pdf.New(float64(cfg.Canvas.Width)*cfg.Canvas.Scale, float64(cfg.Canvas.Height)*cfg.Canvas.Scale)
	s.SetBackground(cfg.Canvas.Background)
	s.Fill(cfg.Canvas.Background)

	if err := r.RenderTo(ctx, s); err != nil {
		return err
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("pdf backend: %w", err)
	}
	return r.write(ctx, cfg.Output.Path, s.EncodePDF)
}

func (r *Renderer) renderRecord(ctx context.Context, cfg config.Config) error {
	rec := surface.NewRecorder()
	if err := r.RenderTo(ctx, rec); err != nil {
		return err
	}
	return r.write(ctx, cfg.Output.Path, rec.Dump)
}
