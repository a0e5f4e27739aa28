// SPDX-License-Identifier: MIT
package envelope

import (
	"errors"
	"math"
	"testing"

	"gifsync/internal/audio"
	"gifsync/internal/errs"
)

const testSampleRate = 8000

func newTrack(t *testing.T, samples []float64, channels int) *audio.Track {
	t.Helper()
	track, err := audio.NewTrack(samples, testSampleRate, channels)
	if err != nil {
		t.Fatalf("NewTrack: %v", err)
	}
	return track
}

// rampedTone returns a 2 kHz tone whose amplitude rises linearly from 0 to 1.
func rampedTone(seconds float64) []float64 {
	n := int(seconds * testSampleRate)
	out := make([]float64, n)
	for i := range out {
		amp := float64(i) / float64(n)
		out[i] = amp * math.Sin(2*math.Pi*2000*float64(i)/testSampleRate)
	}
	return out
}

func TestTicks(t *testing.T) {
	tests := []struct {
		seconds float64
		fps     int
		want    int
	}{
		{2, 24, 48},
		{1.01, 24, 24},
		{1.03, 24, 25},
		{0.01, 24, 0},
	}
	for _, tt := range tests {
		if got := Ticks(tt.seconds, tt.fps); got != tt.want {
			t.Errorf("Ticks(%v, %d) = %d, want %d", tt.seconds, tt.fps, got, tt.want)
		}
	}
}

func TestExtractLength(t *testing.T) {
	track := newTrack(t, rampedTone(2), 1)
	p := DefaultParams()

	curve, err := Extract(track, p)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(curve) != 48 {
		t.Fatalf("len(curve) = %d, want 48", len(curve))
	}
	for i, v := range curve {
		if v < 0 || math.IsNaN(v) {
			t.Fatalf("curve[%d] = %v, want non-negative", i, v)
		}
	}

	again, err := Extract(track, p)
	if err != nil {
		t.Fatal(err)
	}
	for i := range curve {
		if curve[i] != again[i] {
			t.Fatalf("Extract is not deterministic at tick %d", i)
		}
	}
}

func TestExtractFollowsAmplitude(t *testing.T) {
	track := newTrack(t, rampedTone(2), 1)
	curve, err := Extract(track, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	// Skip the edges where the FIR sees zero padding.
	if !(curve[5] < curve[24] && curve[24] < curve[42]) {
		t.Errorf("envelope should rise with amplitude: %v, %v, %v", curve[5], curve[24], curve[42])
	}
}

func TestExtractRemovesLowFrequencies(t *testing.T) {
	n := 2 * testSampleRate
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 40 * float64(i) / testSampleRate)
	}
	track := newTrack(t, samples, 1)

	filtered, err := Extract(track, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	p := DefaultParams()
	p.CutoffHz = 0
	raw, err := Extract(track, p)
	if err != nil {
		t.Fatal(err)
	}
	if filtered[24] > raw[24]*0.05 {
		t.Errorf("40 Hz energy survived the high-pass: %g vs %g unfiltered", filtered[24], raw[24])
	}
}

func TestExtractStereoDownmix(t *testing.T) {
	mono := rampedTone(1)
	stereo := make([]float64, 0, 2*len(mono))
	for _, s := range mono {
		stereo = append(stereo, s, s)
	}
	a, err := Extract(newTrack(t, mono, 1), DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Extract(newTrack(t, stereo, 2), DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-12 {
			t.Fatalf("tick %d: mono %g != stereo %g", i, a[i], b[i])
		}
	}
}

func TestExtractDegenerate(t *testing.T) {
	tests := []struct {
		name    string
		samples int
		fps     int
	}{
		{"Too short", testSampleRate / 100, 24},
		{"Zero fps", testSampleRate, 0},
		{"Empty", 0, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			p.FPS = tt.fps
			_, err := Extract(newTrack(t, make([]float64, tt.samples), 1), p)
			if !errors.Is(err, errs.ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestSegment(t *testing.T) {
	samples := []float64{1, 1, 2, 2, 3, 3, 4}
	got := Segment(samples, 3, 0)
	// Boundaries at 0, 2, 4, 7.
	want := []float64{1, 2, math.Sqrt((9 + 9 + 16) / 3.0)}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Segment()[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestSegmentPeakSubWindows(t *testing.T) {
	samples := []float64{0, 0, 0, 1, 0, 0, 0, 0}
	plain := Segment(samples, 1, 0)
	peak := Segment(samples, 1, 4)
	if !(peak[0] > plain[0]) {
		t.Errorf("peak RMS %g should exceed plain RMS %g", peak[0], plain[0])
	}
	if math.Abs(peak[0]-math.Sqrt(0.5)) > 1e-12 {
		t.Errorf("peak RMS = %g, want %g", peak[0], math.Sqrt(0.5))
	}
}
