// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the full configuration for framepipe.
type Config struct {
	// Input/Output
	InputPath string `yaml:"input"`
	OutputDir string `yaml:"output_dir"`

	// Decode target. Zero means follow the stream geometry.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// MaxFrames limits how many frames are decoded. Zero decodes all.
	MaxFrames int `yaml:"max_frames"`

	// Output
	ThumbnailWidth int  `yaml:"thumbnail_width"`
	Annotate       bool `yaml:"annotate"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		OutputDir: "./frames",
		LogLevel:  "info",
	}
}

// LoadFromFile loads configuration from a YAML file on top of the
// defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks the configuration for values decoding cannot work
// with.
func (c Config) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("config: negative target size %dx%d", c.Width, c.Height)
	}
	if (c.Width == 0) != (c.Height == 0) {
		return fmt.Errorf("config: width and height must be set together")
	}
	if c.Height%2 != 0 {
		return fmt.Errorf("config: target height %d must be even", c.Height)
	}
	if c.MaxFrames < 0 {
		return fmt.Errorf("config: negative max_frames %d", c.MaxFrames)
	}
	if c.ThumbnailWidth < 0 {
		return fmt.Errorf("config: negative thumbnail_width %d", c.ThumbnailWidth)
	}
	return nil
}
