// SPDX-License-Identifier: MIT
/*
Package audio holds the decoded audio track fed into the envelope extractor
and the staged audio handed to the encoder.

A Track is immutable: every transform (Trim, RemoveDC, Normalize,
StripSilence) returns a new Track and leaves the receiver untouched. Samples
are interleaved float64 values in [-1, 1].
*/
package audio

import (
	"math"
	"time"

	"gifsync/internal/errs"
)

// Track is a decoded, interleaved sample buffer.
type Track struct {
	Samples    []float64 // Interleaved samples, one per channel per frame
	SampleRate int       // Sample rate in Hz
	Channels   int       // Number of channels (1=mono, 2=stereo)
}

// NewTrack validates the buffer layout and returns a Track over samples.
// The slice is not copied; callers hand over ownership.
func NewTrack(samples []float64, sampleRate, channels int) (*Track, error) {
	if sampleRate <= 0 {
		return nil, errs.Configuration("sample rate must be positive, got %d", sampleRate)
	}
	if channels <= 0 {
		return nil, errs.Configuration("channel count must be positive, got %d", channels)
	}
	if len(samples)%channels != 0 {
		return nil, errs.Configuration("%d samples do not divide into %d channels", len(samples), channels)
	}
	return &Track{Samples: samples, SampleRate: sampleRate, Channels: channels}, nil
}

// Frames returns the number of sample frames (samples per channel).
func (t *Track) Frames() int {
	return len(t.Samples) / t.Channels
}

// Seconds returns the track duration in seconds.
func (t *Track) Seconds() float64 {
	return float64(t.Frames()) / float64(t.SampleRate)
}

// Duration returns the track duration.
func (t *Track) Duration() time.Duration {
	return time.Duration(t.Seconds() * float64(time.Second))
}

// Mono returns the channel average of the track as a new slice.
func (t *Track) Mono() []float64 {
	if t.Channels == 1 {
		out := make([]float64, len(t.Samples))
		copy(out, t.Samples)
		return out
	}
	n := t.Frames()
	out := make([]float64, n)
	inv := 1.0 / float64(t.Channels)
	for i := range n {
		var sum float64
		for c := range t.Channels {
			sum += t.Samples[i*t.Channels+c]
		}
		out[i] = sum * inv
	}
	return out
}

// Trim returns the prefix of the track lasting at most d. A duration past the
// end returns a copy of the whole track; Trim never extends.
func (t *Track) Trim(d time.Duration) *Track {
	frames := int(math.Round(d.Seconds() * float64(t.SampleRate)))
	if frames < 0 {
		frames = 0
	}
	if frames > t.Frames() {
		frames = t.Frames()
	}
	return t.slice(0, frames)
}

// RemoveDC subtracts the per-channel mean from every sample.
func (t *Track) RemoveDC() *Track {
	out := t.clone()
	n := t.Frames()
	if n == 0 {
		return out
	}
	for c := range t.Channels {
		var sum float64
		for i := range n {
			sum += t.Samples[i*t.Channels+c]
		}
		mean := sum / float64(n)
		for i := range n {
			out.Samples[i*t.Channels+c] -= mean
		}
	}
	return out
}

// Normalize scales the track so its absolute peak sits headroomDB below full
// scale. A silent track is returned unchanged.
func (t *Track) Normalize(headroomDB float64) *Track {
	out := t.clone()
	var peak float64
	for _, s := range t.Samples {
		peak = math.Max(peak, math.Abs(s))
	}
	if peak == 0 {
		return out
	}
	gain := math.Pow(10, -math.Abs(headroomDB)/20) / peak
	for i := range out.Samples {
		out.Samples[i] *= gain
	}
	return out
}

// PeakDBFS returns the absolute peak of the track in dBFS.
func (t *Track) PeakDBFS() float64 {
	var peak float64
	for _, s := range t.Samples {
		peak = math.Max(peak, math.Abs(s))
	}
	return ratioToDB(peak)
}

func (t *Track) clone() *Track {
	samples := make([]float64, len(t.Samples))
	copy(samples, t.Samples)
	return &Track{Samples: samples, SampleRate: t.SampleRate, Channels: t.Channels}
}

// slice returns a copy of frames [from, to).
func (t *Track) slice(from, to int) *Track {
	samples := make([]float64, (to-from)*t.Channels)
	copy(samples, t.Samples[from*t.Channels:to*t.Channels])
	return &Track{Samples: samples, SampleRate: t.SampleRate, Channels: t.Channels}
}

func ratioToDB(r float64) float64 {
	if r <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(r)
}
