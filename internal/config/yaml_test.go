// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gifsync/internal/errs"

	"github.com/mitchellh/go-homedir"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

// isolate points the search paths at empty directories.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	t.Chdir(t.TempDir())
	return home
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	isolate(t)
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.Envelope.FPS != DefaultFPS || cfg.Envelope.Smoothing != DefaultSmoothing || cfg.Render.CRF != DefaultCRF {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("nonexistent.yaml")
	if err == nil {
		t.Errorf("expected error for missing file, got nil")
	}
	if cfg != nil {
		t.Errorf("expected nil config on error, got %+v", cfg)
	}
}

func TestLoadConfig_UnmarshalError(t *testing.T) {
	path := writeTempConfig(t, ":\n:bad")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Error("expected unmarshal error, got nil or wrong error")
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
log_level: debug
audio:
  strip_silence: false
  min_silence: 2s
envelope:
  fps: 30
  window: Blackman
  smoothing: 5
effects:
  mode: cas
  workers: 2
render:
  strategy: staged
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Envelope.FPS != 30 || cfg.Envelope.Smoothing != 5 || cfg.Envelope.Window != "Blackman" {
		t.Errorf("envelope not loaded: %+v", cfg.Envelope)
	}
	if cfg.Audio.StripSilence || cfg.Audio.MinSilence != 2*time.Second {
		t.Errorf("audio not loaded: %+v", cfg.Audio)
	}
	if cfg.Effects.Mode != "cas" || cfg.Effects.Workers != 2 || cfg.Render.Strategy != "staged" {
		t.Errorf("effects/render not loaded: %+v %+v", cfg.Effects, cfg.Render)
	}
	// Unset keys keep their defaults.
	if cfg.Envelope.HighPassHz != DefaultHighPassHz || cfg.Render.CRF != DefaultCRF {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfig_SearchPaths(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".config", "gifsync")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("envelope:\n  fps: 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Envelope.FPS != 12 {
		t.Errorf("home config not used, fps = %d", cfg.Envelope.FPS)
	}

	// A file in the working directory takes precedence.
	if err := os.WriteFile("gifsync.yaml", []byte("envelope:\n  fps: 15\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Envelope.FPS != 15 {
		t.Errorf("working directory config not preferred, fps = %d", cfg.Envelope.FPS)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeTempConfig(t, "envelope:\n  fps: 30\n")
	t.Setenv("GIFSYNC_FPS", "60")
	t.Setenv("GIFSYNC_STRIP_SILENCE", "false")
	t.Setenv("GIFSYNC_STRATEGY", "png")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Envelope.FPS != 60 || cfg.Audio.StripSilence || cfg.Render.Strategy != "png" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadConfig_MalformedEnv(t *testing.T) {
	isolate(t)
	t.Setenv("GIFSYNC_WORKERS", "many")
	_, err := LoadConfig("")
	if !errors.Is(err, errs.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Unknown log level", func(c *Config) { c.LogLevel = "chatty" }},
		{"Zero fps", func(c *Config) { c.Envelope.FPS = 0 }},
		{"Huge fps", func(c *Config) { c.Envelope.FPS = MaxFPS + 1 }},
		{"Negative cutoff", func(c *Config) { c.Envelope.HighPassHz = -1 }},
		{"Zero taps", func(c *Config) { c.Envelope.Taps = 0 }},
		{"Unknown window", func(c *Config) { c.Envelope.Window = "Gauss" }},
		{"Even smoothing", func(c *Config) { c.Envelope.Smoothing = 4 }},
		{"Zero coeff", func(c *Config) { c.Envelope.Coeff = 0 }},
		{"Positive silence threshold", func(c *Config) { c.Audio.SilenceThresholdDB = 3 }},
		{"Unknown effect", func(c *Config) { c.Effects.Mode = "swirl" }},
		{"Negative workers", func(c *Config) { c.Effects.Workers = -1 }},
		{"Pulse above one", func(c *Config) { c.Effects.Pulse = 1.5 }},
		{"CRF out of range", func(c *Config) { c.Render.CRF = 60 }},
		{"Unknown strategy", func(c *Config) { c.Render.Strategy = "socket" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, errs.ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults must validate, got %v", err)
	}
}
