// SPDX-License-Identifier: MIT
//
// Package dsp provides the linear-phase high-pass filter used to sharpen the
// amplitude envelope before it is mapped onto animation frames.
package dsp

import (
	"math"

	"gifsync/internal/errs"
)

// DefaultTaps is long enough for a ~500 Hz transition band at 44.1 kHz with
// a Hann taper.
const DefaultTaps = 255

// HighPass designs a windowed-sinc high-pass FIR kernel by spectral inversion
// of a unity-gain low-pass. The kernel is symmetric (linear phase) and its
// length is forced odd so it has an integer centre tap.
func HighPass(cutoffHz float64, sampleRate, taps int, w WindowFunc) ([]float64, error) {
	if sampleRate <= 0 {
		return nil, errs.Configuration("sample rate must be positive, got %d", sampleRate)
	}
	nyquist := float64(sampleRate) / 2
	if cutoffHz <= 0 || cutoffHz >= nyquist {
		return nil, errs.Configuration("high-pass cutoff %.1f Hz must be within (0, %.1f)", cutoffHz, nyquist)
	}
	if taps < 3 {
		taps = 3
	}
	if taps%2 == 0 {
		taps++
	}

	fc := cutoffHz / float64(sampleRate)
	mid := taps / 2
	kernel := make([]float64, taps)
	for i := range kernel {
		x := float64(i - mid)
		if x == 0 {
			kernel[i] = 2 * fc
		} else {
			kernel[i] = math.Sin(2*math.Pi*fc*x) / (math.Pi * x)
		}
	}
	applyWindow(kernel, w)

	var sum float64
	for _, k := range kernel {
		sum += k
	}
	for i := range kernel {
		kernel[i] = -kernel[i] / sum
	}
	kernel[mid] += 1

	return kernel, nil
}
