// SPDX-License-Identifier: MIT
//
// Package curve conditions a raw energy envelope into a smoothed curve in
// [0, coeff] and maps it onto frame indices.
//
// Conditioning always runs in the same order: median filter, optional
// arctangent shaping, then min-max normalization. Normalizing last is what
// guarantees the output spans exactly [0, coeff].
package curve

import (
	"math"
	"slices"

	"gifsync/internal/errs"

	"gonum.org/v1/gonum/floats"
)

// Options configures Condition.
type Options struct {
	Smoothing int     // Odd median window width; 1 disables smoothing
	Drive     float64 // Arctangent compressor drive; <= 0 disables shaping
	Coeff     float64 // Upper bound of the normalized curve; 0 means 1
}

// DefaultOptions returns the CLI defaults.
func DefaultOptions() Options {
	return Options{Smoothing: 3, Coeff: 1}
}

// Condition smooths, shapes and normalizes raw into a new curve of the same
// length.
func Condition(raw []float64, opts Options) ([]float64, error) {
	filtered, err := MedianFilter(raw, opts.Smoothing)
	if err != nil {
		return nil, err
	}
	shaped := Compress(filtered, opts.Drive)
	coeff := opts.Coeff
	if coeff == 0 {
		coeff = 1
	}
	return Normalize(shaped, coeff)
}

// ValidateSmoothing reports whether width is a usable median window for a
// curve of length n. Pass n < 0 to check parity only.
func ValidateSmoothing(width, n int) error {
	if width < 1 || width%2 == 0 {
		return errs.Configuration("smoothing window must be a positive odd integer, got %d", width)
	}
	if n >= 0 && width > 1 && width/2*2 >= n {
		return errs.Configuration("smoothing window %d is too wide for %d frames", width, n)
	}
	return nil
}

// MedianFilter replaces every interior value i with the median of
// values[i-w..i+w] (inclusive), where w = width/2. The first and last w
// values are copied through unmodified; there is no padding or reflection.
func MedianFilter(values []float64, width int) ([]float64, error) {
	if err := ValidateSmoothing(width, len(values)); err != nil {
		return nil, err
	}
	out := make([]float64, len(values))
	copy(out, values)

	w := width / 2
	if w == 0 {
		return out, nil
	}
	window := make([]float64, width)
	for i := w; i < len(values)-w; i++ {
		copy(window, values[i-w:i+w+1])
		slices.Sort(window)
		out[i] = window[w]
	}
	return out, nil
}

// Compress applies an arctangent compressor, atan(drive*x/max)/atan(drive),
// which lifts mid-range values while keeping the order of all values. A
// non-positive drive or an all-zero curve returns a copy.
func Compress(values []float64, drive float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if drive <= 0 || len(values) == 0 {
		return out
	}
	peak := floats.Max(values)
	if peak <= 0 {
		return out
	}
	norm := 1 / math.Atan(drive)
	for i, v := range values {
		out[i] = math.Atan(drive*v/peak) * norm
	}
	return out
}

// Normalize rescales values linearly so the minimum maps to 0 and the maximum
// to coeff. A constant (or NaN-contaminated) curve has no range to scale and
// is reported as a degenerate signal.
func Normalize(values []float64, coeff float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, errs.DegenerateSignal("empty curve")
	}
	if floats.HasNaN(values) {
		return nil, errs.DegenerateSignal("curve contains NaN")
	}
	lo, hi := floats.Min(values), floats.Max(values)
	if hi == lo {
		return nil, errs.DegenerateSignal("curve is flat at %g; is the audio silent?", lo)
	}

	out := make([]float64, len(values))
	copy(out, values)
	floats.AddConst(-lo, out)
	floats.Scale(coeff/(hi-lo), out)
	return out, nil
}

// Clamp limits r to [0, 1]. NaN maps to 0.
func Clamp(r float64) float64 {
	if !(r > 0) {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// Index resolves curve value r onto a sequence of n frames,
// round((n-1)*clamp(r)), always within [0, n-1].
func Index(r float64, n int) int {
	if n <= 1 {
		return 0
	}
	return int(math.Round(float64(n-1) * Clamp(r)))
}

// Indices returns the frame index map of curve over n frames.
func Indices(curve []float64, n int) []int {
	out := make([]int, len(curve))
	for i, r := range curve {
		out[i] = Index(r, n)
	}
	return out
}
