// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gifsync/internal/curve"
	"gifsync/internal/dsp"
	"gifsync/internal/effect"
	"gifsync/internal/errs"
	"gifsync/internal/log"
	"gifsync/internal/render"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Search locations used when no explicit config path is given, in order.
var searchPaths = []string{
	"gifsync.yaml",
	"~/.config/gifsync/config.yaml",
}

// envPrefix namespaces the environment overrides, e.g. GIFSYNC_FPS.
const envPrefix = "GIFSYNC_"

// Config represents the application configuration, loaded from YAML.
type Config struct {
	LogLevel string         `yaml:"log_level"` // Logging level ("debug", "info", "warn", "error").
	Verbose  bool           `yaml:"verbose"`   // Force debug logging.
	Audio    AudioConfig    `yaml:"audio"`     // Audio preprocessing settings.
	Envelope EnvelopeConfig `yaml:"envelope"`  // Envelope extraction and curve conditioning.
	Effects  EffectsConfig  `yaml:"effects"`   // Frame transform settings.
	Render   RenderConfig   `yaml:"render"`    // Encoder settings.
}

// AudioConfig holds the preprocessing applied before envelope extraction.
type AudioConfig struct {
	RemoveDC           bool          `yaml:"remove_dc"`            // Subtract the per-channel mean.
	Normalize          bool          `yaml:"normalize"`            // Peak normalize to -headroom_db dBFS.
	HeadroomDB         float64       `yaml:"headroom_db"`          // Headroom kept by peak normalization.
	StripSilence       bool          `yaml:"strip_silence"`        // Remove long silent runs.
	SilenceThresholdDB float64       `yaml:"silence_threshold_db"` // Chunks below this RMS level (dBFS) are silent.
	MinSilence         time.Duration `yaml:"min_silence"`          // Shortest silent run that gets removed.
	SilencePadding     time.Duration `yaml:"silence_padding"`      // Silence kept around audible parts.
}

// EnvelopeConfig holds the envelope and curve conditioning parameters.
type EnvelopeConfig struct {
	FPS        int     `yaml:"fps"`          // Output frame rate; one curve value per frame.
	HighPassHz float64 `yaml:"high_pass_hz"` // High-pass cutoff in Hz; 0 disables the filter.
	Taps       int     `yaml:"taps"`         // FIR length.
	Window     string  `yaml:"window"`       // FIR window function name (e.g. "Hann", "Blackman").
	SubWindows int     `yaml:"sub_windows"`  // Peak RMS over this many sub-windows per frame.
	Smoothing  int     `yaml:"smoothing"`    // Odd median filter width.
	Compress   float64 `yaml:"compress"`     // Arctangent compressor drive; 0 disables it.
	Coeff      float64 `yaml:"coeff"`        // Upper bound of the normalized curve.
}

// EffectsConfig selects the frame transforms.
type EffectsConfig struct {
	Mode    string  `yaml:"mode"`    // "index" or "cas".
	Workers int     `yaml:"workers"` // Concurrent rescales for "cas"; 0 means one per CPU.
	Pulse   float64 `yaml:"pulse"`   // Brightness pulse gain; 0 disables it.
}

// RenderConfig holds the encoder settings.
type RenderConfig struct {
	FFmpeg   string `yaml:"ffmpeg"`   // Encoder executable.
	CRF      int    `yaml:"crf"`      // H.264 constant rate factor.
	Strategy string `yaml:"strategy"` // "pipe" or "staged".
	TempDir  string `yaml:"temp_dir"` // Parent of the staging directory.
}

// LoadConfig loads configuration from the YAML file at path. If path is
// empty the search paths are tried in order and the built-in defaults are
// used when none exists. Environment overrides are applied after the file,
// then the result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		found, err := findConfig()
		if err != nil {
			return nil, err
		}
		path = found
	} else {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path: %w", err)
		}
		path = expanded
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		log.Debugf("configuration: loaded %s", path)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// findConfig returns the first existing search path, or "" if none exists.
func findConfig() (string, error) {
	for _, candidate := range searchPaths {
		expanded, err := homedir.Expand(candidate)
		if err != nil {
			log.Debugf("configuration: skipping %s: %v", candidate, err)
			continue
		}
		if _, err := os.Stat(expanded); err == nil {
			return expanded, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat config file: %w", err)
		}
	}
	return "", nil
}

// Validate reports the first setting that cannot produce output.
func (c *Config) Validate() error {
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return errs.Configuration("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}

	a := c.Audio
	if a.HeadroomDB < 0 {
		return errs.Configuration("audio.headroom_db must not be negative, got %g", a.HeadroomDB)
	}
	if a.StripSilence {
		if a.SilenceThresholdDB > 0 {
			return errs.Configuration("audio.silence_threshold_db must be <= 0 dBFS, got %g", a.SilenceThresholdDB)
		}
		if a.MinSilence <= 0 || a.SilencePadding < 0 {
			return errs.Configuration("audio.min_silence must be positive and audio.silence_padding not negative")
		}
	}

	e := c.Envelope
	if e.FPS <= 0 || e.FPS > MaxFPS {
		return errs.Configuration("envelope.fps must be in 1..%d, got %d", MaxFPS, e.FPS)
	}
	if e.HighPassHz < 0 {
		return errs.Configuration("envelope.high_pass_hz must not be negative, got %g", e.HighPassHz)
	}
	if e.HighPassHz > 0 && e.Taps <= 0 {
		return errs.Configuration("envelope.taps must be positive, got %d", e.Taps)
	}
	if _, err := dsp.ParseWindowFunc(e.Window); err != nil {
		return errs.Configuration("envelope.window: %v", err)
	}
	if e.SubWindows < 0 {
		return errs.Configuration("envelope.sub_windows must not be negative, got %d", e.SubWindows)
	}
	if err := curve.ValidateSmoothing(e.Smoothing, -1); err != nil {
		return err
	}
	if e.Compress < 0 {
		return errs.Configuration("envelope.compress must not be negative, got %g", e.Compress)
	}
	if e.Coeff <= 0 {
		return errs.Configuration("envelope.coeff must be positive, got %g", e.Coeff)
	}

	if _, err := effect.Parse(c.Effects.Mode); err != nil {
		return err
	}
	if c.Effects.Workers < 0 {
		return errs.Configuration("effects.workers must not be negative, got %d", c.Effects.Workers)
	}
	if c.Effects.Pulse < 0 || c.Effects.Pulse > 1 {
		return errs.Configuration("effects.pulse must be in [0, 1], got %g", c.Effects.Pulse)
	}

	if c.Render.CRF < 0 || c.Render.CRF > MaxCRF {
		return errs.Configuration("render.crf must be in 0..%d, got %d", MaxCRF, c.Render.CRF)
	}
	if _, err := render.ParseStrategy(c.Render.Strategy); err != nil {
		return err
	}
	return nil
}

// applyEnvOverrides applies GIFSYNC_* variables on top of the loaded file.
// A variable that is set but malformed is a configuration error.
func (c *Config) applyEnvOverrides() error {
	overrides := []struct {
		name  string
		apply func(string) error
	}{
		{"LOG_LEVEL", setString(&c.LogLevel)},
		{"VERBOSE", setBool(&c.Verbose)},
		{"FPS", setInt(&c.Envelope.FPS)},
		{"HIGH_PASS_HZ", setFloat(&c.Envelope.HighPassHz)},
		{"SMOOTHING", setInt(&c.Envelope.Smoothing)},
		{"WINDOW", setString(&c.Envelope.Window)},
		{"STRIP_SILENCE", setBool(&c.Audio.StripSilence)},
		{"SILENCE_THRESHOLD", setFloat(&c.Audio.SilenceThresholdDB)},
		{"EFFECT", setString(&c.Effects.Mode)},
		{"WORKERS", setInt(&c.Effects.Workers)},
		{"FFMPEG", setString(&c.Render.FFmpeg)},
		{"CRF", setInt(&c.Render.CRF)},
		{"STRATEGY", setString(&c.Render.Strategy)},
	}
	for _, o := range overrides {
		key := envPrefix + o.name
		val, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		if err := o.apply(val); err != nil {
			return errs.Configuration("%s=%q: %v", key, val, err)
		}
		log.Debugf("configuration: overriding from %s=%s", key, val)
	}
	return nil
}

func setString(dst *string) func(string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func setBool(dst *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

func setInt(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func setFloat(dst *float64) func(string) error {
	return func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst = f
		return nil
	}
}
