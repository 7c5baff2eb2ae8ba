package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/opd-ai/notation-canvas/internal/config"
)

func TestVersion(t *testing.T) {
	var stdout bytes.Buffer
	if code := run([]string{"-version"}, &stdout, &bytes.Buffer{}); code != 0 {
		t.Fatalf("run(-version) = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), Version) {
		t.Errorf("stdout = %q, want version %s", stdout.String(), Version)
	}
}

func TestRunWithoutScript(t *testing.T) {
	var stderr bytes.Buffer
	if code := run(nil, &bytes.Buffer{}, &stderr); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Usage") {
		t.Errorf("stderr = %q, want usage", stderr.String())
	}
}

func TestRunBadFlag(t *testing.T) {
	if code := run([]string{"-nope"}, &bytes.Buffer{}, &bytes.Buffer{}); code != 2 {
		t.Errorf("run(-nope) = %d, want 2", code)
	}
}

func TestBuildConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "notation.lua")
	src := `notation.config = { width = 500, height = 120, script = "score.lua", output = "out.pdf", backend = "pdf" }`
	if err := os.WriteFile(cfgPath, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, cfg config.Config)
		wantErr bool
	}{
		{
			name: "defaults",
			args: []string{"score.lua"},
			check: func(t *testing.T, cfg config.Config) {
				if cfg.Canvas.Width != config.DefaultWidth || cfg.Script.Path != "score.lua" {
					t.Errorf("cfg = %+v", cfg)
				}
			},
		},
		{
			name: "file values kept",
			args: []string{"-c", cfgPath},
			check: func(t *testing.T, cfg config.Config) {
				if cfg.Canvas.Width != 500 || cfg.Output.Backend != config.BackendPDF {
					t.Errorf("cfg = %+v", cfg)
				}
				if cfg.Script.Path != filepath.Join(dir, "score.lua") {
					t.Errorf("Script.Path = %q, want it resolved against the config dir", cfg.Script.Path)
				}
			},
		},
		{
			name: "flags override file",
			args: []string{"-c", cfgPath, "-width", "640", "-o", "out.png"},
			check: func(t *testing.T, cfg config.Config) {
				if cfg.Canvas.Width != 640 || cfg.Canvas.Height != 120 {
					t.Errorf("size = %dx%d, want 640x120", cfg.Canvas.Width, cfg.Canvas.Height)
				}
				if cfg.Output.Backend != config.BackendRaster {
					t.Errorf("Backend = %v, want raster from the .png extension", cfg.Output.Backend)
				}
			},
		},
		{
			name: "explicit backend wins",
			args: []string{"-o", "out.png", "-backend", "record", "s.lua"},
			check: func(t *testing.T, cfg config.Config) {
				if cfg.Output.Backend != config.BackendRecord {
					t.Errorf("Backend = %v, want record", cfg.Output.Backend)
				}
			},
		},
		{
			name: "dump",
			args: []string{"-dump", "s.lua"},
			check: func(t *testing.T, cfg config.Config) {
				if cfg.Output.Backend != config.BackendRecord || cfg.Output.Path != "-" {
					t.Errorf("Output = %+v, want record to stdout", cfg.Output)
				}
			},
		},
		{
			name: "font dirs",
			args: []string{"-fonts", "a, b,,c", "s.lua"},
			check: func(t *testing.T, cfg config.Config) {
				if strings.Join(cfg.Fonts.Dirs, "|") != "a|b|c" {
					t.Errorf("Dirs = %v, want [a b c]", cfg.Fonts.Dirs)
				}
			},
		},
		{name: "bad backend", args: []string{"-backend", "svg", "s.lua"}, wantErr: true},
		{name: "missing config", args: []string{"-c", filepath.Join(dir, "none.lua")}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := parseFlags(tt.args, &bytes.Buffer{})
			if err != nil {
				t.Fatal(err)
			}
			cfg, err := buildConfig(f)
			if (err != nil) != tt.wantErr {
				t.Fatalf("buildConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestRunDump(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "score.lua")
	code := `function draw(ctx) ctx:setStrokeStyle("#123456"):strokeRect(1, 1, 8, 8) end`
	if err := os.WriteFile(script, []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}
	glyph := filepath.Join(dir, "Bravura.ttf")
	if err := os.WriteFile(glyph, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-dump", "-glyph", glyph, "-width", "10", "-height", "10", script}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr:\n%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "DrawRect stroke #123456ff 1,1,8,8") {
		t.Errorf("stdout = %q, want the stroked rectangle", stdout.String())
	}
}

func TestRunScriptError(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "score.lua")
	if err := os.WriteFile(script, []byte("function draw(ctx) error('boom') end"), 0o644); err != nil {
		t.Fatal(err)
	}
	var stderr bytes.Buffer
	if code := run([]string{"-dump", script}, &bytes.Buffer{}, &stderr); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "boom") {
		t.Errorf("stderr = %q, want the script error", stderr.String())
	}
}
