package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Canvas.Width != DefaultWidth || cfg.Canvas.Height != DefaultHeight {
		t.Errorf("canvas = %dx%d, want %dx%d", cfg.Canvas.Width, cfg.Canvas.Height, DefaultWidth, DefaultHeight)
	}
	if cfg.Canvas.Scale != 1 {
		t.Errorf("Scale = %v, want 1", cfg.Canvas.Scale)
	}
	if cfg.Output.Backend != BackendRaster || cfg.Output.Path != DefaultOutput {
		t.Errorf("output = %v %q", cfg.Output.Backend, cfg.Output.Path)
	}
	if !cfg.Fonts.System {
		t.Error("system fonts should be enabled by default")
	}
	if cfg.Watch.Debounce != DefaultDebounce {
		t.Errorf("Debounce = %v, want %v", cfg.Watch.Debounce, DefaultDebounce)
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		input   string
		want    Backend
		wantErr bool
	}{
		{"raster", BackendRaster, false},
		{"PNG", BackendRaster, false},
		{"pdf", BackendPDF, false},
		{" screen ", BackendScreen, false},
		{"window", BackendScreen, false},
		{"record", BackendRecord, false},
		{"svg", BackendRaster, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBackend(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBackend(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBackend(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
	if BackendPDF.String() != "pdf" || Backend(42).String() != "Backend(42)" {
		t.Error("Backend.String() mismatch")
	}
}

func TestBackendForPath(t *testing.T) {
	tests := map[string]Backend{
		"out.pdf":   BackendPDF,
		"OUT.PDF":   BackendPDF,
		"calls.txt": BackendRecord,
		"out.png":   BackendRaster,
		"out":       BackendRaster,
	}
	for path, want := range tests {
		if got := BackendForPath(path); got != want {
			t.Errorf("BackendForPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestLuaParse(t *testing.T) {
	p := NewLuaConfigParser()
	defer p.Close()

	cfg, err := p.Parse([]byte(`
local w = 400
notation.config = {
  width = w * 2,
  height = 250.9,
  scale = 1.5,
  background = "#fafafa",
  backend = "pdf",
  output = "score.pdf",
  glyph_font = "fonts/Bravura.otf",
  font_dirs = { "fonts", "/usr/share/fonts" },
  system_fonts = false,
  script = "score.lua",
  cpu_limit = 1000,
  memory_limit = 2048,
  watch = "yes",
  debounce = 0.25,
}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Canvas.Width != 800 || cfg.Canvas.Height != 250 {
		t.Errorf("canvas = %dx%d, want 800x250", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Canvas.Scale != 1.5 {
		t.Errorf("Scale = %v, want 1.5", cfg.Canvas.Scale)
	}
	if want := (color.RGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}); cfg.Canvas.Background != want {
		t.Errorf("Background = %v, want %v", cfg.Canvas.Background, want)
	}
	if cfg.Output.Backend != BackendPDF || cfg.Output.Path != "score.pdf" {
		t.Errorf("output = %v %q", cfg.Output.Backend, cfg.Output.Path)
	}
	if cfg.Fonts.Glyph != "fonts/Bravura.otf" || len(cfg.Fonts.Dirs) != 2 || cfg.Fonts.System {
		t.Errorf("fonts = %+v", cfg.Fonts)
	}
	if cfg.Script.Path != "score.lua" || cfg.Script.CPULimit != 1000 || cfg.Script.MemoryLimit != 2048 {
		t.Errorf("script = %+v", cfg.Script)
	}
	if !cfg.Watch.Enabled || cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("watch = %+v", cfg.Watch)
	}
}

func TestLuaParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "notation.config = {"},
		{"runtime", "error('boom')"},
		{"bad backend", `notation.config = { backend = "svg" }`},
		{"bad background", `notation.config = { background = "#zzzzzz" }`},
		{"negative cpu", `notation.config = { cpu_limit = -1 }`},
		{"notation replaced", `notation = 5`},
		{"runaway", "while true do end"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewLuaConfigParser()
			defer p.Close()
			if _, err := p.Parse([]byte(tt.content)); err == nil {
				t.Errorf("Parse(%q) expected an error", tt.content)
			}
		})
	}
}

func TestLuaParseEmpty(t *testing.T) {
	p := NewLuaConfigParser()
	defer p.Close()
	cfg, err := p.Parse([]byte("-- nothing"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Canvas.Width != DefaultWidth {
		t.Errorf("Width = %d, want default %d", cfg.Canvas.Width, DefaultWidth)
	}
}

func TestFontDirsString(t *testing.T) {
	p := NewLuaConfigParser()
	defer p.Close()
	cfg, err := p.Parse([]byte(`notation.config = { font_dirs = "a, b,,c" }`))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Fonts.Dirs) != 3 || cfg.Fonts.Dirs[2] != "c" {
		t.Errorf("Dirs = %q, want [a b c]", cfg.Fonts.Dirs)
	}
}

func TestParseFile(t *testing.T) {
	t.Setenv("NOTATION_TEST_OUT", "/tmp/rendered")
	dir := t.TempDir()
	path := filepath.Join(dir, "notation.lua")
	content := `notation.config = {
  script = "score.lua",
  glyph_font = "/abs/Bravura.otf",
  font_dirs = { "fonts" },
  output = "${NOTATION_TEST_OUT}/score.png",
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if want := filepath.Join(dir, "score.lua"); cfg.Script.Path != want {
		t.Errorf("Script.Path = %q, want %q", cfg.Script.Path, want)
	}
	if cfg.Fonts.Glyph != "/abs/Bravura.otf" {
		t.Errorf("Fonts.Glyph = %q, want it unchanged", cfg.Fonts.Glyph)
	}
	if want := filepath.Join(dir, "fonts"); cfg.Fonts.Dirs[0] != want {
		t.Errorf("Fonts.Dirs[0] = %q, want %q", cfg.Fonts.Dirs[0], want)
	}
	if cfg.Output.Path != "/tmp/rendered/score.png" {
		t.Errorf("Output.Path = %q", cfg.Output.Path)
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.lua")); err == nil {
		t.Error("ParseFile() on a missing file should fail")
	}
}

func TestParseFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"conf/notation.lua": {Data: []byte(`notation.config = { width = 320, script = "s.lua" }`)},
	}
	cfg, err := ParseFromFS(fsys, "conf/notation.lua")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Canvas.Width != 320 || cfg.Script.Path != "s.lua" {
		t.Errorf("cfg = %+v", cfg)
	}
	if _, err := ParseFromFS(fsys, "nope.lua"); err == nil {
		t.Error("ParseFromFS() on a missing file should fail")
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("NOTATION_TEST_VAR", "value")
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no variables", "plain", "plain"},
		{"braced", "a/${NOTATION_TEST_VAR}/b", "a/value/b"},
		{"simple", "$NOTATION_TEST_VAR.png", "value.png"},
		{"unset", "x${NOTATION_UNSET_12345}y", "xy"},
		{"default", "${NOTATION_UNSET_12345:-fallback}", "fallback"},
		{"set ignores default", "${NOTATION_TEST_VAR:-fallback}", "value"},
		{"empty default", "${NOTATION_UNSET_12345:-}", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandEnv(tt.input); got != tt.want {
				t.Errorf("ExpandEnv(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
	ExpandEnvConfig(nil)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "score.lua")
	if err := os.WriteFile(script, []byte("function draw(ctx) end"), 0o644); err != nil {
		t.Fatal(err)
	}
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.Script.Path = script
		cfg.Output.Path = filepath.Join(dir, "out.png")
		return cfg
	}

	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero width", func(c *Config) { c.Canvas.Width = 0 }, "canvas.width"},
		{"negative height", func(c *Config) { c.Canvas.Height = -1 }, "canvas.height"},
		{"zero scale", func(c *Config) { c.Canvas.Scale = 0 }, "canvas.scale"},
		{"no script", func(c *Config) { c.Script.Path = "" }, "script.path"},
		{"missing script", func(c *Config) { c.Script.Path = filepath.Join(dir, "x.lua") }, "script.path"},
		{"missing glyph", func(c *Config) { c.Fonts.Glyph = filepath.Join(dir, "x.otf") }, "fonts.glyph"},
		{"pdf to stdout", func(c *Config) { c.Output.Backend = BackendPDF; c.Output.Path = "-" }, "output.path"},
		{"record to stdout", func(c *Config) { c.Output.Backend = BackendRecord; c.Output.Path = "" }, ""},
		{"unknown backend", func(c *Config) { c.Output.Backend = Backend(9) }, "output.backend"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, "watch.debounce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)
			result := Check(&cfg)
			if tt.wantField == "" {
				if err := cfg.Validate(); err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if result.IsValid() {
				t.Fatalf("Check() found no errors, want one on %s", tt.wantField)
			}
			if result.Errors[0].Field != tt.wantField {
				t.Errorf("error field = %q, want %q", result.Errors[0].Field, tt.wantField)
			}
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidateWarnings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Canvas.Width = maxDimension + 1
	cfg.Canvas.Background = color.RGBA{}
	cfg.Fonts.Dirs = []string{filepath.Join(t.TempDir(), "missing")}
	cfg.Script.CPULimit = 0
	result := Check(&cfg)
	if len(result.Warnings) != 4 {
		t.Errorf("got %d warnings, want 4: %v", len(result.Warnings), result.Warnings)
	}
}
