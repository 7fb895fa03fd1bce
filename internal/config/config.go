// Package config reads the optional winebuild.toml settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FileName is looked up in the build directory.
const FileName = "winebuild.toml"

// DefaultScriptsDir is the option script directory, relative to the source root.
const DefaultScriptsDir = "config_scripts"

// Config holds defaults for the command line. Zero values mean "not set".
type Config struct {
	Jobs    int               `toml:"jobs"`
	CCache  *bool             `toml:"ccache"`
	Src     string            `toml:"src"`
	Scripts string            `toml:"scripts"`
	Env     map[string]string `toml:"env"`
}

// Load reads path. A missing file yields an empty Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.Jobs < 0 {
		return nil, fmt.Errorf("%s: jobs must not be negative, got %d", path, cfg.Jobs)
	}
	// Relative paths are relative to the file.
	if cfg.Src != "" && !filepath.IsAbs(cfg.Src) {
		cfg.Src = filepath.Join(filepath.Dir(path), cfg.Src)
	}
	return &cfg, nil
}

// CCacheEnabled returns the ccache setting, or def when unset.
func (c *Config) CCacheEnabled(def bool) bool {
	if c.CCache == nil {
		return def
	}
	return *c.CCache
}

// ScriptsDir resolves the option script directory against srcDir.
func (c *Config) ScriptsDir(srcDir string) string {
	dir := c.Scripts
	if dir == "" {
		dir = DefaultScriptsDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(srcDir, dir)
}
