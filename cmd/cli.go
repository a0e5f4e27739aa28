// SPDX-License-Identifier: MIT
package cmd

import (
	"gifsync/internal/config"
	"gifsync/pkg/build"

	"github.com/spf13/cobra"
)

// Commands selected by ParseArgs.
const (
	CommandNone    = ""        // Help was printed; nothing left to do
	CommandRun     = "run"     // Render a video
	CommandVersion = "version" // Print build information
)

// Options is the resolved command line: the merged configuration plus the
// per-run input and output paths.
type Options struct {
	Command   string
	Config    *config.Config
	AudioPath string
	GIFPath   string
	Output    string
}

// flagValues mirrors the tunable flags before they are merged into the
// loaded configuration.
type flagValues struct {
	configPath     string
	fps            int
	highPassHz     float64
	smoothing      int
	window         string
	silenceDB      float64
	noStripSilence bool
	compress       float64
	cas            bool
	workers        int
	pulse          float64
	strategy       string
	ffmpeg         string
	crf            int
	verbose        bool
}

// ParseArgs parses args (without the program name), loads the configuration
// and applies explicitly set flags on top of it.
func ParseArgs(args []string) (*Options, error) {
	buildInfo := build.GetBuildFlags()
	options := &Options{Command: CommandNone}
	var fv flagValues

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name + " -a AUDIO -g GIF -o OUTPUT",
		Short:         build.Description,
		Version:       buildInfo.Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(fv.configPath)
			if err != nil {
				return err
			}
			fv.mergeInto(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			options.Config = cfg
			options.Command = CommandRun
			return nil
		},
	}

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = CommandVersion
		},
	}
	rootCmd.AddCommand(versionCmd)

	// Inputs and output
	rootCmd.Flags().StringVarP(&options.AudioPath, "audio", "a", "",
		"Audio track to sync to (.wav or .mp3)")
	rootCmd.Flags().StringVarP(&options.GIFPath, "gif", "g", "",
		"Animated GIF whose frames are reordered")
	rootCmd.Flags().StringVarP(&options.Output, "output", "o", "",
		"Output video path; .mp4 is appended when there is no extension")
	for _, name := range []string{"audio", "gif", "output"} {
		_ = rootCmd.MarkFlagRequired(name)
	}

	// Envelope and curve
	rootCmd.Flags().IntVarP(&fv.fps, "fps", "f", config.DefaultFPS,
		"Output frame rate; one envelope value per frame")
	rootCmd.Flags().Float64VarP(&fv.highPassHz, "high-pass-hz", "p", config.DefaultHighPassHz,
		"High-pass cutoff in Hz before measuring loudness (0 disables)")
	rootCmd.Flags().IntVarP(&fv.smoothing, "smoothing", "s", config.DefaultSmoothing,
		"Median filter width in frames (odd, 1 disables)")
	rootCmd.Flags().StringVar(&fv.window, "window", config.DefaultWindow,
		"High-pass FIR window (Hann, Hamming, Blackman, BlackmanNuttall, Nuttall, BartlettHann, Lanczos)")
	rootCmd.Flags().Float64Var(&fv.compress, "compress", config.DefaultCompress,
		"Arctangent compressor drive applied to the curve (0 disables)")

	// Audio preprocessing
	rootCmd.Flags().Float64VarP(&fv.silenceDB, "silence-threshold", "t", config.DefaultSilenceThresholdDB,
		"Silence threshold in dBFS for silence stripping")
	rootCmd.Flags().BoolVar(&fv.noStripSilence, "no-strip-silence", false,
		"Keep long silent passages in the audio")

	// Effects
	rootCmd.Flags().BoolVar(&fv.cas, "cas", false,
		"Crush loud frames with a content-aware rescale")
	rootCmd.Flags().IntVar(&fv.workers, "workers", config.DefaultWorkers,
		"Concurrent rescales for --cas (0 means one per CPU)")
	rootCmd.Flags().Float64Var(&fv.pulse, "pulse", config.DefaultPulse,
		"Brighten frames with the curve by this gain (0 disables)")

	// Render
	rootCmd.Flags().StringVar(&fv.strategy, "strategy", config.DefaultStrategy,
		"Frame delivery to ffmpeg: pipe or staged")
	rootCmd.Flags().StringVar(&fv.ffmpeg, "ffmpeg", config.DefaultFFmpeg,
		"Path to the ffmpeg executable")
	rootCmd.Flags().IntVar(&fv.crf, "crf", config.DefaultCRF,
		"H.264 constant rate factor")

	// Configuration and debug
	rootCmd.PersistentFlags().StringVar(&fv.configPath, "config", "",
		"Config file (default ./gifsync.yaml or ~/.config/gifsync/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&fv.verbose, "verbose", "v", config.DefaultVerbosity,
		"Show verbose output")

	// Execute the CLI
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	return options, nil
}

// mergeInto copies every flag the user set explicitly into cfg, so flags win
// over the config file and environment.
func (fv *flagValues) mergeInto(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("fps") {
		cfg.Envelope.FPS = fv.fps
	}
	if changed("high-pass-hz") {
		cfg.Envelope.HighPassHz = fv.highPassHz
	}
	if changed("smoothing") {
		cfg.Envelope.Smoothing = fv.smoothing
	}
	if changed("window") {
		cfg.Envelope.Window = fv.window
	}
	if changed("compress") {
		cfg.Envelope.Compress = fv.compress
	}
	if changed("silence-threshold") {
		cfg.Audio.SilenceThresholdDB = fv.silenceDB
	}
	if changed("no-strip-silence") {
		cfg.Audio.StripSilence = !fv.noStripSilence
	}
	if changed("cas") {
		if fv.cas {
			cfg.Effects.Mode = "cas"
		} else {
			cfg.Effects.Mode = "index"
		}
	}
	if changed("workers") {
		cfg.Effects.Workers = fv.workers
	}
	if changed("pulse") {
		cfg.Effects.Pulse = fv.pulse
	}
	if changed("strategy") {
		cfg.Render.Strategy = fv.strategy
	}
	if changed("ffmpeg") {
		cfg.Render.FFmpeg = fv.ffmpeg
	}
	if changed("crf") {
		cfg.Render.CRF = fv.crf
	}
	if changed("verbose") {
		cfg.Verbose = fv.verbose
	}
}
