package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const fileName = "hdlower.toml"

// Config is the loaded contents of a project's hdlower.toml.
type Config struct {
	Path string
	Root string

	Cache CacheConfig `toml:"cache"`
	Lower LowerConfig `toml:"lower"`
	UI    UIConfig    `toml:"ui"`
}

// CacheConfig controls the on-disk slice-metadata cache
// (internal/hirtypes.SliceCache).
type CacheConfig struct {
	Dir string `toml:"dir"`
}

// LowerConfig holds defaults the CLI's lower command applies unless
// overridden by a flag.
type LowerConfig struct {
	EmitPositions bool `toml:"emit_positions"`
}

// ColorMode selects when cmd/hdlowerc colors its diagnostic output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// UIConfig holds defaults for the CLI's diagnostic and progress output.
type UIConfig struct {
	Color ColorMode `toml:"color"`
}

// Default returns the configuration the CLI assumes when no hdlower.toml
// is found, so commands run the same in a bare directory as in one with
// an unconfigured project.
func Default() *Config {
	return &Config{
		Lower: LowerConfig{EmitPositions: true},
		UI:    UIConfig{Color: ColorAuto},
	}
}

// findConfigFile walks upward from startDir looking for hdlower.toml,
// mirroring the teacher's surge.toml discovery.
func findConfigFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, fileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load walks upward from startDir for hdlower.toml and decodes it,
// filling in Default()'s values for any table the file omits. A missing
// file is not an error: Load returns Default() with Path/Root unset.
func Load(startDir string) (*Config, error) {
	path, ok, err := findConfigFile(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if meta.IsDefined("ui", "color") {
		if err := validateColorMode(cfg.UI.Color); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return cfg, nil
}

func validateColorMode(mode ColorMode) error {
	switch mode {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	default:
		return fmt.Errorf("invalid [ui].color %q: want auto, always, or never", strings.TrimSpace(string(mode)))
	}
}

// CacheDir resolves the configured cache directory relative to Root, or
// "" if caching is unconfigured.
func (c *Config) CacheDir() string {
	if c.Cache.Dir == "" {
		return ""
	}
	if filepath.IsAbs(c.Cache.Dir) || c.Root == "" {
		return c.Cache.Dir
	}
	return filepath.Join(c.Root, c.Cache.Dir)
}
