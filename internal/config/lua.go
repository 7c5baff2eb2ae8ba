package config

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/notation-canvas/internal/canvas"
)

// LuaConfigParser parses Lua configuration files. It runs the chunk with
// golua and reads settings from the notation.config table.
type LuaConfigParser struct {
	runtime *rt.Runtime
	cleanup func()
	mu      sync.Mutex
}

// NewLuaConfigParser creates a parser with a fresh Lua runtime whose print
// output is discarded.
func NewLuaConfigParser() *LuaConfigParser {
	return NewLuaConfigParserWithOutput(io.Discard)
}

// NewLuaConfigParserWithOutput creates a parser whose print output goes to
// stdout.
func NewLuaConfigParserWithOutput(stdout io.Writer) *LuaConfigParser {
	if stdout == nil {
		stdout = io.Discard
	}
	runtime := rt.New(stdout)
	return &LuaConfigParser{
		runtime: runtime,
		cleanup: lib.LoadAll(runtime),
	}
}

// Parse runs content and extracts the configuration on top of
// DefaultConfig.
func (p *LuaConfigParser) Parse(content []byte) (cfg *Config, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.initGlobal()

	closure, err := p.runtime.CompileAndLoadLuaChunk("config", content, rt.TableValue(p.runtime.GlobalEnv()))
	if err != nil {
		return nil, fmt.Errorf("failed to compile Lua configuration: %w", err)
	}

	p.runtime.PushContext(rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    10_000_000,
			Memory: 50 * 1024 * 1024,
		},
	})
	defer p.runtime.PopContext()
	defer func() {
		if r := recover(); r != nil {
			cfg, err = nil, fmt.Errorf("Lua configuration exceeded its limits: %v", r)
		}
	}()

	if _, err := rt.Call1(p.runtime.MainThread(), rt.FunctionValue(closure)); err != nil {
		return nil, fmt.Errorf("failed to execute Lua configuration: %w", err)
	}
	return p.extractConfig()
}

func (p *LuaConfigParser) initGlobal() {
	notation := rt.NewTable()
	notation.Set(rt.StringValue("config"), rt.TableValue(rt.NewTable()))
	p.runtime.GlobalEnv().Set(rt.StringValue("notation"), rt.TableValue(notation))
}

func (p *LuaConfigParser) extractConfig() (*Config, error) {
	cfg := DefaultConfig()

	val := p.runtime.GlobalEnv().Get(rt.StringValue("notation"))
	if val == rt.NilValue {
		return &cfg, nil
	}
	notation, ok := val.TryTable()
	if !ok {
		return nil, fmt.Errorf("notation is not a table")
	}
	if table, ok := notation.Get(rt.StringValue("config")).TryTable(); ok {
		if err := extractConfigTable(&cfg, table); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func extractConfigTable(cfg *Config, table *rt.Table) error {
	if val := getTableInt(table, "width"); val != nil {
		cfg.Canvas.Width = *val
	}
	if val := getTableInt(table, "height"); val != nil {
		cfg.Canvas.Height = *val
	}
	if val := getTableFloat(table, "scale"); val != nil {
		cfg.Canvas.Scale = *val
	}
	if val := getTableString(table, "background"); val != nil {
		c, err := canvas.ParseColor(*val)
		if err != nil {
			return fmt.Errorf("invalid background: %w", err)
		}
		cfg.Canvas.Background = c
	}

	if val := getTableString(table, "backend"); val != nil {
		b, err := ParseBackend(*val)
		if err != nil {
			return fmt.Errorf("invalid backend: %w", err)
		}
		cfg.Output.Backend = b
	}
	if val := getTableString(table, "output"); val != nil {
		cfg.Output.Path = *val
	}

	if val := getTableString(table, "glyph_font"); val != nil {
		cfg.Fonts.Glyph = *val
	}
	if val := getTableStrings(table, "font_dirs"); val != nil {
		cfg.Fonts.Dirs = val
	}
	if val := getTableBool(table, "system_fonts"); val != nil {
		cfg.Fonts.System = *val
	}

	if val := getTableString(table, "script"); val != nil {
		cfg.Script.Path = *val
	}
	if val := getTableInt(table, "cpu_limit"); val != nil {
		if *val < 0 {
			return fmt.Errorf("invalid cpu_limit: %d", *val)
		}
		cfg.Script.CPULimit = uint64(*val)
	}
	if val := getTableInt(table, "memory_limit"); val != nil {
		if *val < 0 {
			return fmt.Errorf("invalid memory_limit: %d", *val)
		}
		cfg.Script.MemoryLimit = uint64(*val)
	}

	if val := getTableBool(table, "watch"); val != nil {
		cfg.Watch.Enabled = *val
	}
	if val := getTableFloat(table, "debounce"); val != nil {
		cfg.Watch.Debounce = time.Duration(*val * float64(time.Second))
	}
	return nil
}

// Close releases resources associated with the parser's Lua runtime.
func (p *LuaConfigParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	return nil
}

// getTableBool retrieves a boolean value from a Lua table.
// Returns nil if the key doesn't exist or is not a boolean.
func getTableBool(table *rt.Table, key string) *bool {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if b, ok := val.TryBool(); ok {
		return &b
	}
	if s, ok := val.TryString(); ok {
		b := parseBool(s)
		return &b
	}
	return nil
}

// getTableString retrieves a string value from a Lua table.
func getTableString(table *rt.Table, key string) *string {
	if s, ok := table.Get(rt.StringValue(key)).TryString(); ok {
		return &s
	}
	return nil
}

// getTableStrings accepts either an array of strings or a comma-separated
// string.
func getTableStrings(table *rt.Table, key string) []string {
	val := table.Get(rt.StringValue(key))
	if s, ok := val.TryString(); ok {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	arr, ok := val.TryTable()
	if !ok {
		return nil
	}
	out := []string{}
	for i := int64(1); ; i++ {
		item := arr.Get(rt.IntValue(i))
		if item == rt.NilValue {
			break
		}
		if s, ok := item.TryString(); ok {
			out = append(out, s)
		}
	}
	return out
}

// getTableFloat retrieves a float64 value from a Lua table.
func getTableFloat(table *rt.Table, key string) *float64 {
	val := table.Get(rt.StringValue(key))
	if n, ok := val.TryFloat(); ok {
		return &n
	}
	if n, ok := val.TryInt(); ok {
		f := float64(n)
		return &f
	}
	return nil
}

// getTableInt retrieves an int value from a Lua table, truncating floats.
func getTableInt(table *rt.Table, key string) *int {
	val := table.Get(rt.StringValue(key))
	if n, ok := val.TryInt(); ok {
		i := int(n)
		return &i
	}
	if f, ok := val.TryFloat(); ok {
		i := int(f)
		return &i
	}
	return nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}
