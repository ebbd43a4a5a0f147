package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.OutputDir != "./frames" {
		t.Errorf("default output dir = %q", cfg.OutputDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("default log level = %q", cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "framepipe.yaml")
	content := `
input: clip.mp4
width: 320
height: 240
max_frames: 10
thumbnail_width: 80
annotate: true
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.InputPath != "clip.mp4" {
		t.Errorf("input = %q", cfg.InputPath)
	}
	if cfg.Width != 320 || cfg.Height != 240 {
		t.Errorf("target = %dx%d, want 320x240", cfg.Width, cfg.Height)
	}
	if cfg.MaxFrames != 10 || cfg.ThumbnailWidth != 80 || !cfg.Annotate {
		t.Errorf("unexpected options: %+v", cfg)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	// Unset keys keep their defaults.
	if cfg.OutputDir != "./frames" {
		t.Errorf("output dir = %q, want default", cfg.OutputDir)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]Config{
		"negative width":       {Width: -1, Height: 2},
		"width without height": {Width: 640},
		"odd height":           {Width: 640, Height: 479},
		"negative frames":      {MaxFrames: -1},
		"negative thumbs":      {ThumbnailWidth: -4},
	}
	for name, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}

	ok := Config{Width: 640, Height: 480, MaxFrames: 5, ThumbnailWidth: 100}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}
