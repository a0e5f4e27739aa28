// SPDX-License-Identifier: MIT
package config

import "time"

// Defaults for every tunable. Flags and config files start from these.
const (
	// Envelope
	DefaultFPS        = 24    // Output video frame rate
	DefaultHighPassHz = 800.0 // Zero disables the high-pass filter
	DefaultTaps       = 255   // FIR length, forced odd
	DefaultWindow     = "Hann"
	DefaultSubWindows = 0 // <= 1 takes plain RMS per tick

	// Curve
	DefaultSmoothing = 3   // Odd median window width; 1 disables smoothing
	DefaultCompress  = 0.0 // Arctangent drive; 0 disables shaping
	DefaultCoeff     = 1.0 // Upper bound of the normalized curve

	// Audio preprocessing
	DefaultRemoveDC           = true
	DefaultNormalize          = true
	DefaultHeadroomDB         = 0.1
	DefaultStripSilence       = true
	DefaultSilenceThresholdDB = -30.0
	DefaultMinSilence         = time.Second
	DefaultSilencePadding     = 100 * time.Millisecond

	// Effects
	DefaultEffect  = "index"
	DefaultWorkers = 0   // Zero means one per CPU
	DefaultPulse   = 0.0 // Zero disables the pulse stage

	// Render
	DefaultFFmpeg   = "ffmpeg"
	DefaultCRF      = 25
	DefaultStrategy = "pipe"

	// Logging
	DefaultLogLevel  = "warn"
	DefaultVerbosity = false

	// Limits
	MaxFPS = 240
	MaxCRF = 51
)

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Verbose:  DefaultVerbosity,
		Audio: AudioConfig{
			RemoveDC:           DefaultRemoveDC,
			Normalize:          DefaultNormalize,
			HeadroomDB:         DefaultHeadroomDB,
			StripSilence:       DefaultStripSilence,
			SilenceThresholdDB: DefaultSilenceThresholdDB,
			MinSilence:         DefaultMinSilence,
			SilencePadding:     DefaultSilencePadding,
		},
		Envelope: EnvelopeConfig{
			FPS:        DefaultFPS,
			HighPassHz: DefaultHighPassHz,
			Taps:       DefaultTaps,
			Window:     DefaultWindow,
			SubWindows: DefaultSubWindows,
			Smoothing:  DefaultSmoothing,
			Compress:   DefaultCompress,
			Coeff:      DefaultCoeff,
		},
		Effects: EffectsConfig{
			Mode:    DefaultEffect,
			Workers: DefaultWorkers,
			Pulse:   DefaultPulse,
		},
		Render: RenderConfig{
			FFmpeg:   DefaultFFmpeg,
			CRF:      DefaultCRF,
			Strategy: DefaultStrategy,
		},
	}
}
