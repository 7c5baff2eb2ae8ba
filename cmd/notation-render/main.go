// Package main provides notation-render, which runs a Lua layout script
// against the canvas adapter and writes the score as PNG, PDF, an on-screen
// window or a dump of the recorded drawing calls.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/opd-ai/notation-canvas/internal/config"
	"github.com/opd-ai/notation-canvas/internal/profiling"
	"github.com/opd-ai/notation-canvas/pkg/notation"
)

// Version is the current version of notation-render.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// flags holds the parsed command line. Only flags the user set override
// the configuration file.
type flags struct {
	configPath string
	script     string
	output     string
	backend    string
	width      int
	height     int
	scale      float64
	glyph      string
	fontDirs   string
	watch      bool
	verbose    bool
	json       bool
	dump       bool
	version    bool
	expvarAddr string
	cpuProfile string
	memProfile string

	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*flags, error) {
	f := &flags{set: make(map[string]bool)}
	fs := flag.NewFlagSet("notation-render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "c", "", "Path to a Lua configuration file")
	fs.StringVar(&f.script, "script", "", "Layout script (may also be given as the first argument)")
	fs.StringVar(&f.output, "o", "", "Output file; - writes to stdout")
	fs.StringVar(&f.backend, "backend", "", "Surface: raster, pdf, screen or record (default from -o)")
	fs.IntVar(&f.width, "width", config.DefaultWidth, "Canvas width in CSS pixels")
	fs.IntVar(&f.height, "height", config.DefaultHeight, "Canvas height in CSS pixels")
	fs.Float64Var(&f.scale, "scale", config.DefaultScale, "Device pixels per CSS pixel")
	fs.StringVar(&f.glyph, "glyph", "", "Glyph (Bravura) font file")
	fs.StringVar(&f.fontDirs, "fonts", "", "Comma-separated font directories")
	fs.BoolVar(&f.watch, "watch", false, "Re-render when the script or configuration changes")
	fs.BoolVar(&f.verbose, "v", false, "Debug logging")
	fs.BoolVar(&f.json, "json", false, "Log as JSON")
	fs.BoolVar(&f.dump, "dump", false, "Print the recorded drawing calls instead of rendering")
	fs.BoolVar(&f.version, "version", false, "Print version and exit")
	fs.StringVar(&f.expvarAddr, "expvar", "", "Serve metrics at http://ADDR/debug/vars")
	fs.StringVar(&f.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	fs.StringVar(&f.memProfile, "memprofile", "", "Write memory profile to file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	if f.script == "" && fs.NArg() > 0 {
		f.script = fs.Arg(0)
		f.set["script"] = true
	}
	return f, nil
}

// buildConfig loads the configuration file, if any, and applies the flags
// the user set on top of it.
func buildConfig(f *flags) (config.Config, error) {
	cfg := config.DefaultConfig()
	if f.configPath != "" {
		parsed, err := config.ParseFile(f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = *parsed
	}

	if f.set["script"] {
		cfg.Script.Path = f.script
	}
	if f.set["width"] {
		cfg.Canvas.Width = f.width
	}
	if f.set["height"] {
		cfg.Canvas.Height = f.height
	}
	if f.set["scale"] {
		cfg.Canvas.Scale = f.scale
	}
	if f.set["glyph"] {
		cfg.Fonts.Glyph = f.glyph
	}
	if f.set["fonts"] {
		for _, dir := range strings.Split(f.fontDirs, ",") {
			if dir = strings.TrimSpace(dir); dir != "" {
				cfg.Fonts.Dirs = append(cfg.Fonts.Dirs, dir)
			}
		}
	}
	if f.set["o"] {
		cfg.Output.Path = f.output
		if !f.set["backend"] {
			cfg.Output.Backend = config.BackendForPath(f.output)
		}
	}
	if f.set["backend"] {
		b, err := config.ParseBackend(f.backend)
		if err != nil {
			return cfg, err
		}
		cfg.Output.Backend = b
	}
	if f.dump {
		cfg.Output.Backend = config.BackendRecord
		cfg.Output.Path = "-"
	}
	if f.set["watch"] {
		cfg.Watch.Enabled = f.watch
	}
	return cfg, nil
}

func newLogger(f *flags, stderr io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	if f.json {
		return notation.JSONLogger(stderr, level)
	}
	return notation.TextLogger(stderr, level)
}

func run(args []string, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if f.version {
		fmt.Fprintf(stdout, "notation-render version %s\n", Version)
		return 0
	}

	profConfig := profiling.Config{CPUProfilePath: f.cpuProfile, MemProfilePath: f.memProfile}
	if profConfig.Enabled() {
		profiler := profiling.New(profConfig)
		if err := profiler.Start(); err != nil {
			fmt.Fprintf(stderr, "Failed to start profiling: %v\n", err)
			return 1
		}
		defer func() {
			if err := profiler.Stop(); err != nil {
				fmt.Fprintf(stderr, "Warning: failed to stop profiling: %v\n", err)
			}
		}()
	}

	cfg, err := buildConfig(f)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return 1
	}
	if cfg.Script.Path == "" {
		fmt.Fprintln(stderr, "No layout script specified.")
		fmt.Fprintln(stderr, "Usage: notation-render [flags] <script.lua>")
		return 1
	}

	logger := newLogger(f, stderr)
	for _, w := range config.Check(&cfg).Warnings {
		logger.Warn("configuration warning", "field", w.Field, "message", w.Message)
	}

	metrics := notation.DefaultMetrics()
	if f.expvarAddr != "" {
		metrics.RegisterExpvar()
		go func() {
			if err := http.ListenAndServe(f.expvarAddr, nil); err != nil {
				logger.Error("metrics server stopped", "addr", f.expvarAddr, "error", err)
			}
		}()
	}

	r, err := notation.New(cfg, &notation.Options{
		Logger:     logger,
		Metrics:    metrics,
		Stdout:     stdout,
		ConfigPath: f.configPath,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Watch.Enabled {
		err = r.Watch(ctx)
	} else {
		err = r.Render(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
