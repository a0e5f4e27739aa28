// SPDX-License-Identifier: MIT
package audio

import (
	"errors"
	"testing"
	"time"

	"gifsync/internal/errs"
)

func TestNewTrackValidation(t *testing.T) {
	tests := []struct {
		name       string
		samples    []float64
		sampleRate int
		channels   int
		wantErr    bool
	}{
		{"Mono", make([]float64, 10), 8000, 1, false},
		{"Stereo", make([]float64, 10), 8000, 2, false},
		{"Zero sample rate", make([]float64, 10), 0, 1, true},
		{"Zero channels", make([]float64, 10), 8000, 0, true},
		{"Partial frame", make([]float64, 9), 8000, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTrack(tt.samples, tt.sampleRate, tt.channels)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewTrack() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errs.ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	track := mustTrack(make([]float64, 2*trackSampleRate*3), trackSampleRate, 2)
	if track.Frames() != 3*trackSampleRate {
		t.Errorf("Frames() = %d, want %d", track.Frames(), 3*trackSampleRate)
	}
	if track.Duration() != 3*time.Second {
		t.Errorf("Duration() = %v, want 3s", track.Duration())
	}
}

func TestMono(t *testing.T) {
	track := mustTrack([]float64{1, 0, 0.5, -0.5, -1, -1}, trackSampleRate, 2)
	got := track.Mono()
	want := []float64{0.5, 0, -1}
	for i := range want {
		if absFloat(got[i]-want[i]) > 1e-12 {
			t.Errorf("Mono()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	mono := mustTrack([]float64{0.1, 0.2}, trackSampleRate, 1)
	out := mono.Mono()
	out[0] = 9
	if mono.Samples[0] != 0.1 {
		t.Error("Mono() on a mono track must not alias the samples")
	}
}

func TestTrimNeverExtends(t *testing.T) {
	track := mustTrack(sine(1, trackSampleRate, 440, 0.5), trackSampleRate, 1)

	half := track.Trim(500 * time.Millisecond)
	if half.Frames() != trackSampleRate/2 {
		t.Errorf("Trim(500ms) frames = %d, want %d", half.Frames(), trackSampleRate/2)
	}

	long := track.Trim(10 * time.Second)
	if long.Frames() != track.Frames() {
		t.Errorf("Trim past the end = %d frames, want %d", long.Frames(), track.Frames())
	}

	if track.Trim(-time.Second).Frames() != 0 {
		t.Error("negative trim should yield an empty track")
	}
}

func TestRemoveDC(t *testing.T) {
	samples := sine(1, trackSampleRate, 100, 0.3)
	for i := range samples {
		samples[i] += 0.25
	}
	track := mustTrack(samples, trackSampleRate, 1)
	out := track.RemoveDC()

	var sum float64
	for _, s := range out.Samples {
		sum += s
	}
	if mean := sum / float64(len(out.Samples)); absFloat(mean) > 1e-9 {
		t.Errorf("mean after RemoveDC = %g, want 0", mean)
	}
	if track.Samples[0] != 0.25 {
		t.Error("RemoveDC must not mutate the receiver")
	}
}

func TestNormalize(t *testing.T) {
	track := mustTrack(sine(1, trackSampleRate, 50, 0.2), trackSampleRate, 1)
	out := track.Normalize(0)
	if peak := out.PeakDBFS(); absFloat(peak) > 1e-6 {
		t.Errorf("peak after Normalize(0) = %.6f dBFS, want 0", peak)
	}

	out = track.Normalize(6)
	if peak := out.PeakDBFS(); absFloat(peak+6) > 1e-6 {
		t.Errorf("peak after Normalize(6) = %.6f dBFS, want -6", peak)
	}

	silent := mustTrack(make([]float64, 100), trackSampleRate, 1)
	if got := silent.Normalize(0); got.Samples[0] != 0 {
		t.Error("silent track should stay silent")
	}
}
