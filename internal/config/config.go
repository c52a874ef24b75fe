// Package config loads the optional .docmark.toml rc file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"
)

const DefaultOutdir = "docs/reference"

type Config struct {
	Outdir       string  `toml:"outdir"`
	Quiet        bool    `toml:"quiet"`
	NoSubmodules bool    `toml:"no_submodules"`
	Exclude      Exclude `toml:"exclude"`
	Watch        Watch   `toml:"watch"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

// Default returns the configuration used when no rc file exists.
func Default() *Config {
	return &Config{
		Outdir: DefaultOutdir,
		Watch:  Watch{Debounce: 500 * time.Millisecond},
	}
}

// Load reads the rc file at path. A missing file yields the defaults; a
// malformed file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}
	if cfg.Outdir == "" {
		cfg.Outdir = DefaultOutdir
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	return cfg, nil
}

// CompileGlobs compiles glob patterns, failing on the first bad pattern.
func CompileGlobs(patterns []string) ([]glob.Glob, error) {
	var globs []glob.Glob
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		globs = append(globs, g)
	}
	return globs, nil
}
