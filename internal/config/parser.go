package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ParseFile reads and parses a configuration file, expands environment
// variables in its paths and resolves relative script and font paths
// against the file's directory.
func ParseFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	resolvePaths(cfg, filepath.Dir(path))
	return cfg, nil
}

// ParseFromFS reads and parses a configuration file from fsys. Paths are
// left as written.
func ParseFromFS(fsys fs.FS, path string) (*Config, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS %s: %w", path, err)
	}
	return parse(content)
}

func parse(content []byte) (*Config, error) {
	p := NewLuaConfigParser()
	defer p.Close()
	cfg, err := p.Parse(content)
	if err != nil {
		return nil, err
	}
	ExpandEnvConfig(cfg)
	return cfg, nil
}

func resolvePaths(cfg *Config, dir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	cfg.Script.Path = resolve(cfg.Script.Path)
	cfg.Fonts.Glyph = resolve(cfg.Fonts.Glyph)
	for i, d := range cfg.Fonts.Dirs {
		cfg.Fonts.Dirs[i] = resolve(d)
	}
}
