// SPDX-License-Identifier: MIT
//
// Package envelope turns an audio track into one raw energy value per output
// video frame tick.
//
// The track is downmixed to mono, high-passed with a zero-phase FIR filter
// and split into round(duration*fps) contiguous segments. Segment k covers
// samples [floor(k*N/ticks), floor((k+1)*N/ticks)), so the segments tile the
// whole track and differ in length by at most one sample.
package envelope

import (
	"math"

	"gifsync/internal/audio"
	"gifsync/internal/dsp"
	"gifsync/internal/errs"
	"gifsync/internal/log"
)

// Params configures Extract.
type Params struct {
	FPS        int            // Output video frame rate
	CutoffHz   float64        // High-pass cutoff; 0 disables filtering
	Taps       int            // FIR length (forced odd)
	Window     dsp.WindowFunc // FIR taper
	SubWindows int            // >1 takes the peak RMS over this many sub-windows per tick
}

// DefaultParams returns the settings used by the CLI.
func DefaultParams() Params {
	return Params{
		FPS:      24,
		CutoffHz: 800,
		Taps:     dsp.DefaultTaps,
		Window:   dsp.Hann,
	}
}

// Ticks returns the number of output frame ticks for a track of the given
// duration, round(seconds*fps).
func Ticks(seconds float64, fps int) int {
	return int(math.Round(seconds * float64(fps)))
}

// Extract returns the raw (unconditioned) energy envelope of track.
func Extract(track *audio.Track, p Params) ([]float64, error) {
	if p.FPS <= 0 {
		return nil, errs.Configuration("fps must be positive, got %d", p.FPS)
	}
	ticks := Ticks(track.Seconds(), p.FPS)
	if ticks < 1 {
		return nil, errs.Configuration("%.3fs of audio at %d fps yields no frames", track.Seconds(), p.FPS)
	}

	samples := track.Mono()
	if p.CutoffHz > 0 {
		kernel, err := dsp.HighPass(p.CutoffHz, track.SampleRate, p.Taps, p.Window)
		if err != nil {
			return nil, err
		}
		samples = dsp.FilterZeroPhase(samples, kernel)
	}

	log.Debugf("envelope: %d samples -> %d ticks at %d fps (cutoff %.0f Hz)", len(samples), ticks, p.FPS, p.CutoffHz)
	return Segment(samples, ticks, p.SubWindows), nil
}

// Segment splits samples into ticks near-equal contiguous segments and returns
// the RMS of each one. With subWindows > 1 each segment is further split and
// the loudest sub-window wins, which gives a punchier response on transients.
func Segment(samples []float64, ticks, subWindows int) []float64 {
	out := make([]float64, ticks)
	n := len(samples)
	for k := range ticks {
		from := k * n / ticks
		to := (k + 1) * n / ticks
		if subWindows > 1 {
			out[k] = peakRMS(samples[from:to], subWindows)
		} else {
			out[k] = rms(samples[from:to])
		}
	}
	return out
}

func peakRMS(seg []float64, parts int) float64 {
	var peak float64
	for j := range parts {
		from := j * len(seg) / parts
		to := (j + 1) * len(seg) / parts
		peak = math.Max(peak, rms(seg[from:to]))
	}
	return peak
}

func rms(seg []float64) float64 {
	if len(seg) == 0 {
		return 0
	}
	var sum float64
	for _, s := range seg {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(seg)))
}
