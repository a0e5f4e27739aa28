// SPDX-License-Identifier: MIT
package dsp

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// minBlockFFT keeps the overlap-add block large relative to short kernels.
const minBlockFFT = 4096

// FilterZeroPhase convolves x with a symmetric kernel and returns the
// centred ("same" length) result. Centring removes the (len(kernel)-1)/2
// sample group delay, so a symmetric kernel yields zero net time shift.
// Samples beyond the ends are treated as zero.
//
// The convolution runs block-wise in the frequency domain (overlap-add) so
// memory stays bounded by the FFT size rather than the track length.
func FilterZeroPhase(x, kernel []float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 || len(kernel) == 0 {
		return out
	}

	m := len(kernel)
	size := max(nextPowerOfTwo(2*m), minBlockFFT)
	block := size - m + 1
	delay := (m - 1) / 2

	fft := fourier.NewFFT(size)
	padded := make([]float64, size)
	copy(padded, kernel)
	response := fft.Coefficients(nil, padded)

	spectrum := make([]complex128, len(response))
	seq := make([]float64, size)
	scale := 1 / float64(size)

	for start := 0; start < len(x); start += block {
		end := min(start+block, len(x))

		clear(padded)
		copy(padded, x[start:end])
		fft.Coefficients(spectrum, padded)
		for i := range spectrum {
			spectrum[i] *= response[i]
		}
		fft.Sequence(seq, spectrum)

		// Full linear output of this block spans [start, end+m-1); shift by
		// the kernel delay into the centred output.
		for i := range end - start + m - 1 {
			j := start + i - delay
			if j < 0 {
				continue
			}
			if j >= len(out) {
				break
			}
			out[j] += seq[i] * scale
		}
	}

	return out
}
