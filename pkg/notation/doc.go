// Package notation renders music notation from Lua layout scripts onto the
// canvas adapter. It loads the glyph font and font families, runs the
// script's measurement pass against a MeasureSurface, then its draw pass
// against a RenderContext bound to the configured backend.
//
// # Basic Usage
//
//	cfg := config.DefaultConfig()
//	cfg.Script.Path = "score.lua"
//	cfg.Output.Path = "score.png"
//
//	r, err := notation.New(cfg, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := r.Render(context.Background()); err != nil {
//		log.Fatal(err)
//	}
//
// # Backends
//
//   - raster: PNG through gogpu/gg
//   - pdf: vector PDF through tdewolff/canvas
//   - screen: an Ebiten window, redrawn every frame
//   - record: a text dump of the native drawing calls
//
// # Watching
//
// [Renderer.Watch] renders once, then again whenever the script or the
// configuration file changes, until its context is cancelled.
package notation
