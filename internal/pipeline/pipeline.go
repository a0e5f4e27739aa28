// SPDX-License-Identifier: MIT
//
// Package pipeline wires the stages together: audio in, envelope, curve,
// frame effects and the encoder. Parameter and frame-count checks run before
// audio is decoded or any frame is transformed.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"gifsync/internal/audio"
	"gifsync/internal/curve"
	"gifsync/internal/effect"
	"gifsync/internal/envelope"
	"gifsync/internal/errs"
	"gifsync/internal/frames"
	"gifsync/internal/log"
	"gifsync/internal/render"
)

// Options configures one Run.
type Options struct {
	AudioPath string // WAV or MP3 input
	GIFPath   string // Source animation
	Output    string // Video path; ".mp4" is appended when it has no extension

	RemoveDC     bool                 // Subtract the per-channel mean
	Normalize    bool                 // Peak normalize before analysis
	HeadroomDB   float64              // Headroom kept by Normalize
	StripSilence bool                 // Drop long silent runs
	Silence      audio.SilenceOptions // StripSilence settings

	Envelope envelope.Params
	Curve    curve.Options

	Effect  string  // Primary effect mode, see effect.Parse
	Workers int     // Concurrent rescales for content-aware mode
	Pulse   float64 // Brightness pulse gain; 0 disables the post-filter

	Renderer render.Renderer // Required
	Reporter Reporter        // Optional
}

// Result describes a finished run.
type Result struct {
	Output       string        // Path actually written
	SourceFrames int           // Frames in the source animation
	Ticks        int           // Output frames, one per curve value
	Duration     time.Duration // Length of the rendered audio
}

// Run executes the whole pipeline. Nothing is written unless every stage
// before the encoder succeeds.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Renderer == nil {
		return nil, errors.New("pipeline: no renderer configured")
	}
	rep := opts.Reporter
	if rep == nil {
		rep = nopReporter{}
	}

	// Parameter checks that need no input data.
	if opts.Envelope.FPS <= 0 {
		return nil, errs.Configuration("fps must be positive, got %d", opts.Envelope.FPS)
	}
	if err := curve.ValidateSmoothing(opts.Curve.Smoothing, -1); err != nil {
		return nil, err
	}
	effects, err := buildEffects(opts, rep)
	if err != nil {
		return nil, err
	}

	var seq frames.Sequence
	if err := stage(rep, StageFrames, 0, func() (err error) {
		seq, err = frames.LoadFile(opts.GIFPath)
		return err
	}); err != nil {
		return nil, err
	}

	var track *audio.Track
	if err := stage(rep, StageAudio, 0, func() (err error) {
		track, err = loadAudio(opts)
		return err
	}); err != nil {
		return nil, err
	}

	var energy []float64
	if err := stage(rep, StageEnvelope, 0, func() error {
		raw, err := envelope.Extract(track, opts.Envelope)
		if err != nil {
			return err
		}
		energy, err = curve.Condition(raw, opts.Curve)
		return err
	}); err != nil {
		return nil, err
	}

	var out []image.Image
	if err := stage(rep, StageEffects, len(energy), func() (err error) {
		out, err = effect.Apply(ctx, seq, energy, effects...)
		return err
	}); err != nil {
		return nil, err
	}

	fps := opts.Envelope.FPS
	rendered := track.Trim(time.Duration(len(energy)) * time.Second / time.Duration(fps))
	output := render.OutputPath(opts.Output)
	if err := stage(rep, StageRender, len(out), func() error {
		return opts.Renderer.Render(ctx, out, rendered, fps, output)
	}); err != nil {
		return nil, err
	}

	return &Result{
		Output:       output,
		SourceFrames: len(seq),
		Ticks:        len(energy),
		Duration:     rendered.Duration(),
	}, nil
}

// loadAudio decodes the input and applies the enabled preprocessing steps.
func loadAudio(opts Options) (*audio.Track, error) {
	track, err := audio.Load(opts.AudioPath)
	if err != nil {
		return nil, err
	}
	if opts.RemoveDC {
		track = track.RemoveDC()
	}
	if opts.Normalize {
		track = track.Normalize(opts.HeadroomDB)
	}
	if opts.StripSilence {
		before := track.Duration()
		track, err = track.StripSilence(opts.Silence)
		if err != nil {
			return nil, err
		}
		log.Debugf("pipeline: silence strip %v -> %v", before, track.Duration())
	}
	return track, nil
}

// buildEffects returns the primary effect followed by the optional pulse.
func buildEffects(opts Options, rep Reporter) ([]effect.Effect, error) {
	primary, err := effect.Parse(opts.Effect)
	if err != nil {
		return nil, err
	}
	if cas, ok := primary.(*effect.ContentAwareRescale); ok {
		cas.Workers = opts.Workers
		cas.Progress = func(done, total int) { rep.Progress(StageEffects, done, total) }
	}
	effects := []effect.Effect{primary}
	if opts.Pulse > 0 {
		effects = append(effects, effect.Pulse{Gain: opts.Pulse})
	}
	return effects, nil
}

// stage runs fn between Start and Finish events.
func stage(rep Reporter, s Stage, total int, fn func() error) error {
	rep.Start(s, total)
	err := fn()
	if err != nil {
		err = fmt.Errorf("%s: %w", s, err)
	}
	rep.Finish(s, err)
	return err
}
