package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the tinyts.yaml project file.
type Config struct {
	// Cache is the path of the SQLite result cache, relative to the project directory.
	Cache string `yaml:"cache,omitempty"`

	// NoCache disables the result cache entirely.
	NoCache bool `yaml:"no_cache,omitempty"`

	// Color is one of "auto", "always" or "never".
	Color string `yaml:"color,omitempty"`

	// Workers bounds how many files are checked concurrently.
	// Zero means one worker per CPU.
	Workers int `yaml:"workers,omitempty"`

	// Globals seed the initial typing environment of every checked file.
	//
	// Example:
	//   globals:
	//     - name: inc
	//       type: {tag: Func, params: [{name: n, type: {tag: Number}}], retType: {tag: Number}}
	Globals []Global `yaml:"globals,omitempty"`

	// Dir is the directory the configuration was loaded from.
	Dir string `yaml:"-"`
}

// Global is a predeclared variable. Type is kept as a raw node so the term
// codec can decode it with source positions.
type Global struct {
	Name string    `yaml:"name"`
	Type yaml.Node `yaml:"type"`
}

// Default returns the configuration used when no project file exists.
func Default(dir string) *Config {
	return &Config{
		Cache: DefaultCachePath,
		Color: ColorAuto,
		Dir:   dir,
	}
}

// LoadConfig reads tinyts.yaml from dir. A missing file yields the defaults.
func LoadConfig(dir string) (*Config, error) {
	cfg := Default(dir)

	path := filepath.Join(dir, ProjectFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Cache == "" {
		cfg.Cache = DefaultCachePath
	}
	if cfg.Color == "" {
		cfg.Color = ColorAuto
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the process environment.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(CacheEnvVar); v != "" {
		c.Cache = v
	}
	if v := os.Getenv(WorkersEnvVar); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid worker count %q", WorkersEnvVar, v)
		}
		c.Workers = n
	}
	if os.Getenv(NoColorEnvVar) != "" {
		c.Color = ColorNever
	}
	return c.Validate()
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color mode %q (want auto, always or never)", c.Color)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}

	seen := make(map[string]bool, len(c.Globals))
	for i, g := range c.Globals {
		name := g.Name
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("globals[%d]: name is required", i)
		}
		if strings.TrimSpace(name) != name {
			return fmt.Errorf("globals[%d]: name %q has surrounding whitespace", i, name)
		}
		if seen[name] {
			return fmt.Errorf("globals[%d]: duplicate global %q", i, name)
		}
		seen[name] = true
		if g.Type.Kind == 0 {
			return fmt.Errorf("globals[%d] (%s): type is required", i, name)
		}
	}
	return nil
}

// WorkerCount resolves Workers to a positive number.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// CachePath returns the cache location resolved against Dir.
func (c *Config) CachePath() string {
	if filepath.IsAbs(c.Cache) {
		return c.Cache
	}
	return filepath.Join(c.Dir, c.Cache)
}
