// SPDX-License-Identifier: MIT
//
// Package errs defines the failure kinds surfaced by the gifsync pipeline.
// Every error returned by the core wraps exactly one of the sentinels below,
// so callers classify failures with errors.Is. None of them are retried.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports a parameter combination that cannot produce
	// output (degenerate fps/duration, even smoothing window, bad cutoff).
	ErrConfiguration = errors.New("configuration error")

	// ErrInsufficientFrames reports a source animation with one frame or less.
	ErrInsufficientFrames = errors.New("insufficient frames")

	// ErrDegenerateSignal reports a flat or silent envelope that cannot be
	// normalized.
	ErrDegenerateSignal = errors.New("degenerate signal")

	// ErrRender reports a failed or missing external encoder.
	ErrRender = errors.New("render error")
)

// Configuration returns an error wrapping ErrConfiguration.
func Configuration(format string, args ...any) error {
	return wrap(ErrConfiguration, format, args...)
}

// InsufficientFrames returns an error wrapping ErrInsufficientFrames.
func InsufficientFrames(format string, args ...any) error {
	return wrap(ErrInsufficientFrames, format, args...)
}

// DegenerateSignal returns an error wrapping ErrDegenerateSignal.
func DegenerateSignal(format string, args ...any) error {
	return wrap(ErrDegenerateSignal, format, args...)
}

// Render returns an error wrapping ErrRender. A trailing error argument
// matched by a %w verb in format stays reachable through errors.Is/As.
func Render(format string, args ...any) error {
	return wrap(ErrRender, format, args...)
}

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
}
