// SPDX-License-Identifier: MIT
package cmd

import (
	"gifsync/internal/audio"
	"gifsync/internal/curve"
	"gifsync/internal/dsp"
	"gifsync/internal/envelope"
	"gifsync/internal/pipeline"
	"gifsync/internal/render"
)

// PipelineOptions translates the resolved command line into pipeline
// options. The renderer's per-frame progress is routed to rep.
func PipelineOptions(opts *Options, rep pipeline.Reporter) (pipeline.Options, error) {
	cfg := opts.Config

	window, err := dsp.ParseWindowFunc(cfg.Envelope.Window)
	if err != nil {
		return pipeline.Options{}, err
	}
	strategy, err := render.ParseStrategy(cfg.Render.Strategy)
	if err != nil {
		return pipeline.Options{}, err
	}

	renderer := &render.FFmpeg{
		Binary:   cfg.Render.FFmpeg,
		CRF:      cfg.Render.CRF,
		Strategy: strategy,
		TempDir:  cfg.Render.TempDir,
		Progress: func(done, total int) { rep.Progress(pipeline.StageRender, done, total) },
	}

	return pipeline.Options{
		AudioPath: opts.AudioPath,
		GIFPath:   opts.GIFPath,
		Output:    opts.Output,

		RemoveDC:     cfg.Audio.RemoveDC,
		Normalize:    cfg.Audio.Normalize,
		HeadroomDB:   cfg.Audio.HeadroomDB,
		StripSilence: cfg.Audio.StripSilence,
		Silence: audio.SilenceOptions{
			ThresholdDB: cfg.Audio.SilenceThresholdDB,
			MinSilence:  cfg.Audio.MinSilence,
			Padding:     cfg.Audio.SilencePadding,
		},

		Envelope: envelope.Params{
			FPS:        cfg.Envelope.FPS,
			CutoffHz:   cfg.Envelope.HighPassHz,
			Taps:       cfg.Envelope.Taps,
			Window:     window,
			SubWindows: cfg.Envelope.SubWindows,
		},
		Curve: curve.Options{
			Smoothing: cfg.Envelope.Smoothing,
			Drive:     cfg.Envelope.Compress,
			Coeff:     cfg.Envelope.Coeff,
		},

		Effect:  cfg.Effects.Mode,
		Workers: cfg.Effects.Workers,
		Pulse:   cfg.Effects.Pulse,

		Renderer: renderer,
		Reporter: rep,
	}, nil
}
