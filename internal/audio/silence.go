// SPDX-License-Identifier: MIT
package audio

import (
	"math"
	"time"

	"gifsync/internal/errs"
)

// Silence detection defaults, matching the behaviour users expect from
// common "strip silence" tools.
const (
	DefaultSilenceThresholdDB = -30.0
	DefaultMinSilence         = time.Second
	DefaultSilencePadding     = 100 * time.Millisecond

	silenceChunk = 10 * time.Millisecond
)

// SilenceOptions configures StripSilence.
type SilenceOptions struct {
	ThresholdDB float64       // Chunks with RMS below this level (dBFS) are silent
	MinSilence  time.Duration // Shortest silent run that gets removed
	Padding     time.Duration // Silence kept on both sides of a removed run
}

// DefaultSilenceOptions returns the standard strip settings.
func DefaultSilenceOptions() SilenceOptions {
	return SilenceOptions{
		ThresholdDB: DefaultSilenceThresholdDB,
		MinSilence:  DefaultMinSilence,
		Padding:     DefaultSilencePadding,
	}
}

// StripSilence removes silent runs longer than opts.MinSilence, keeping
// opts.Padding of silence around the audible parts. The threshold is clamped
// to at most 0 dBFS. A track that is silent throughout is a degenerate signal.
func (t *Track) StripSilence(opts SilenceOptions) (*Track, error) {
	threshold := math.Min(opts.ThresholdDB, 0)
	chunk := int(silenceChunk.Seconds() * float64(t.SampleRate))
	if chunk < 1 {
		chunk = 1
	}
	minRun := int(math.Ceil(opts.MinSilence.Seconds() * float64(t.SampleRate)))
	pad := int(opts.Padding.Seconds() * float64(t.SampleRate))

	n := t.Frames()
	silent := make([]bool, 0, n/chunk+1)
	audible := false
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		quiet := ratioToDB(t.rms(start, end)) < threshold
		silent = append(silent, quiet)
		audible = audible || !quiet
	}
	if !audible {
		return nil, errs.DegenerateSignal("track is silent below %.1f dBFS", threshold)
	}

	// Collect the frame ranges to keep, skipping long silent runs minus padding.
	var keep [][2]int
	cursor := 0
	for i := 0; i < len(silent); {
		if !silent[i] {
			i++
			continue
		}
		j := i
		for j < len(silent) && silent[j] {
			j++
		}
		runStart, runEnd := i*chunk, min(j*chunk, n)
		if runEnd-runStart >= minRun {
			cutStart, cutEnd := runStart+pad, runEnd-pad
			if runStart == 0 {
				cutStart = 0
			}
			if runEnd == n {
				cutEnd = n
			}
			if cutEnd > cutStart {
				if cutStart > cursor {
					keep = append(keep, [2]int{cursor, cutStart})
				}
				cursor = cutEnd
			}
		}
		i = j
	}
	if cursor < n {
		keep = append(keep, [2]int{cursor, n})
	}

	var total int
	for _, r := range keep {
		total += r[1] - r[0]
	}
	samples := make([]float64, 0, total*t.Channels)
	for _, r := range keep {
		samples = append(samples, t.Samples[r[0]*t.Channels:r[1]*t.Channels]...)
	}
	return &Track{Samples: samples, SampleRate: t.SampleRate, Channels: t.Channels}, nil
}

// rms returns the root-mean-square over all channels of frames [from, to).
func (t *Track) rms(from, to int) float64 {
	if to <= from {
		return 0
	}
	var sum float64
	for _, s := range t.Samples[from*t.Channels : to*t.Channels] {
		sum += s * s
	}
	return math.Sqrt(sum / float64((to-from)*t.Channels))
}
