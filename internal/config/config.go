// Package config loads the sample's settings from JSON, TOML or YAML and
// merges command-line overrides.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Content
	Mode      string `json:"mode" toml:"mode" yaml:"mode"`
	ImagePath string `json:"image_path" toml:"image_path" yaml:"image_path"`

	// Window
	WindowWidth  int   `json:"window_width" toml:"window_width" yaml:"window_width"`
	WindowHeight int   `json:"window_height" toml:"window_height" yaml:"window_height"`
	Fullscreen   *bool `json:"fullscreen" toml:"fullscreen" yaml:"fullscreen"`

	// Simulated display profile
	ViewWidth   int     `json:"view_width" toml:"view_width" yaml:"view_width"`
	ViewHeight  int     `json:"view_height" toml:"view_height" yaml:"view_height"`
	Convergence float64 `json:"convergence" toml:"convergence" yaml:"convergence"`
	Baseline    float64 `json:"baseline" toml:"baseline" yaml:"baseline"`

	LogLevel string `json:"log_level" toml:"log_level" yaml:"log_level"`

	// Headless runs
	Headless bool   `json:"headless" toml:"headless" yaml:"headless"`
	Hz       int    `json:"hz" toml:"hz" yaml:"hz"`
	Frames   uint64 `json:"frames" toml:"frames" yaml:"frames"`

	// Frame output
	OutputDir      string `json:"output_dir" toml:"output_dir" yaml:"output_dir"`
	SnapshotEvery  uint64 `json:"snapshot_every" toml:"snapshot_every" yaml:"snapshot_every"`
	StreamAddr     string `json:"stream_addr" toml:"stream_addr" yaml:"stream_addr"`
	StreamMaxWidth int    `json:"stream_max_width" toml:"stream_max_width" yaml:"stream_max_width"`

	// baseDir anchors relative paths; it is the config file's directory.
	baseDir string
}

// Load reads a config file, picking the format from its extension.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config: %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if abs, err := filepath.Abs(path); err == nil {
		cfg.baseDir = filepath.Dir(abs)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Mode       string
	ImagePath  string
	LogLevel   string
	OutputDir  string
	StreamAddr string
	Headless   bool
	Windowed   bool
	Frames     uint64
}

// Resolve applies flag overrides, fills defaults and validates the result.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) error {
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.ImagePath != "" {
		// Paths given on the command line are relative to the working dir.
		c.ImagePath = absOrSelf(flags.ImagePath)
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.OutputDir != "" {
		c.OutputDir = absOrSelf(flags.OutputDir)
	}
	if flags.StreamAddr != "" {
		c.StreamAddr = flags.StreamAddr
	}
	if flags.Headless {
		c.Headless = true
	}
	if flags.Windowed {
		c.Fullscreen = boolPtr(false)
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}

	c.ImagePath = c.resolvePath(c.ImagePath)
	c.OutputDir = c.resolvePath(c.OutputDir)

	if c.Mode == "" {
		if c.ImagePath != "" {
			c.Mode = "image"
		} else {
			c.Mode = "cube"
		}
	}
	if c.WindowWidth <= 0 {
		c.WindowWidth = 1280
	}
	if c.WindowHeight <= 0 {
		c.WindowHeight = 720
	}
	if c.Fullscreen == nil {
		c.Fullscreen = boolPtr(true)
	}
	if c.ViewWidth <= 0 {
		c.ViewWidth = 1280
	}
	if c.ViewHeight <= 0 {
		c.ViewHeight = 720
	}
	if c.Convergence == 0 {
		c.Convergence = 400
	}
	if c.Baseline == 0 {
		c.Baseline = 60
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Hz <= 0 {
		c.Hz = 60
	}
	if c.StreamMaxWidth <= 0 {
		c.StreamMaxWidth = 960
	}

	return c.validate()
}

func (c *Config) validate() error {
	switch c.Mode {
	case "cube":
	case "image":
		if c.ImagePath == "" {
			return fmt.Errorf("config: mode image needs image_path")
		}
	default:
		return fmt.Errorf("config: unknown mode %q (want cube or image)", c.Mode)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.SnapshotEvery > 0 && c.OutputDir == "" {
		return fmt.Errorf("config: snapshot_every needs output_dir")
	}
	return nil
}

// IsFullscreen reports the resolved fullscreen setting.
func (c *Config) IsFullscreen() bool {
	return c.Fullscreen == nil || *c.Fullscreen
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return lvl, nil
}

func (c *Config) resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.baseDir == "" {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

func absOrSelf(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func boolPtr(b bool) *bool { return &b }
