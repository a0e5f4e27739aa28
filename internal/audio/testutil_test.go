// SPDX-License-Identifier: MIT
package audio

import "math"

const trackSampleRate = 8000

// sine returns mono samples of a sine wave at the given frequency and amplitude.
func sine(seconds float64, sampleRate int, frequency, amplitude float64) []float64 {
	n := int(seconds * float64(sampleRate))
	out := make([]float64, n)
	for i := range out {
		tm := float64(i) / float64(sampleRate)
		out[i] = amplitude * math.Sin(2*math.Pi*frequency*tm)
	}
	return out
}

func mustTrack(samples []float64, sampleRate, channels int) *Track {
	t, err := NewTrack(samples, sampleRate, channels)
	if err != nil {
		panic(err)
	}
	return t
}

func absFloat(x float64) float64 {
	return math.Abs(x)
}
