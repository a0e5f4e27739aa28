// SPDX-License-Identifier: MIT
//
// Package effect holds the frame-transform stages that turn a source frame
// sequence and a conditioned energy curve into the output sequence.
//
// Every Effect returns exactly one frame per curve value. Effects compose
// left to right: each one receives the previous effect's output as its
// source frames. Curve values outside [0, 1] are clamped at lookup time.
package effect

import (
	"context"
	"image"
	"strings"

	"gifsync/internal/curve"
	"gifsync/internal/errs"
)

// Effect transforms (frames, curve) into len(curve) output frames. Effects
// must not modify the input frames.
type Effect interface {
	Apply(ctx context.Context, frames []image.Image, energy []float64) ([]image.Image, error)
}

// Chain applies its effects in order, feeding each one the previous output.
type Chain []Effect

var _ Effect = Chain(nil)

// Apply folds the chain over frames. An empty chain is a configuration error
// since it cannot produce one frame per curve value.
func (c Chain) Apply(ctx context.Context, frames []image.Image, energy []float64) ([]image.Image, error) {
	if len(c) == 0 {
		return nil, errs.Configuration("no effects selected")
	}
	out := frames
	for _, e := range c {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := e.Apply(ctx, out, energy)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}

// Apply runs effects left to right over frames.
func Apply(ctx context.Context, frames []image.Image, energy []float64, effects ...Effect) ([]image.Image, error) {
	return Chain(effects).Apply(ctx, frames, energy)
}

// DirectIndex emits frames[round((n-1)*r)] for every curve value r.
type DirectIndex struct{}

var _ Effect = DirectIndex{}

// Apply performs the lookup. Output frames share memory with the input.
func (DirectIndex) Apply(_ context.Context, frames []image.Image, energy []float64) ([]image.Image, error) {
	if err := checkFrames(frames); err != nil {
		return nil, err
	}
	out := make([]image.Image, len(energy))
	n := len(frames)
	for i, r := range energy {
		out[i] = frames[curve.Index(r, n)]
	}
	return out, nil
}

// Parse returns the primary effect for a mode name: "index" (or "direct")
// selects DirectIndex and "cas" (or "rescale") a ContentAwareRescale with
// default settings.
func Parse(name string) (Effect, error) {
	switch strings.ToLower(name) {
	case "", "index", "direct":
		return DirectIndex{}, nil
	case "cas", "rescale":
		return &ContentAwareRescale{}, nil
	default:
		return nil, errs.Configuration("unknown effect %q (want index or cas)", name)
	}
}

func checkFrames(frames []image.Image) error {
	if len(frames) < 2 {
		return errs.InsufficientFrames("effect needs at least 2 frames, got %d", len(frames))
	}
	return nil
}
