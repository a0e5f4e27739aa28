// SPDX-License-Identifier: MIT
package effect

import (
	"context"
	"fmt"
	"image"
	"math"
	"runtime"
	"sync/atomic"

	"gifsync/internal/curve"
	"gifsync/internal/log"
	"gifsync/internal/seam"

	"golang.org/x/sync/errgroup"
)

// DefaultMinFactor keeps the carved intermediate from collapsing to nothing.
const DefaultMinFactor = 0.1

// Rescaler shrinks img by factor and returns it at its original size.
type Rescaler interface {
	Rescale(img image.Image, factor float64) (image.Image, error)
}

// ContentAwareRescale resolves the direct-index frame for every curve value
// and crushes it with a content-aware rescale by max(MinFactor, 1-r), so the
// distortion grows with the energy.
//
// The transform is memoized per resolved frame index within one Apply call:
// an index is rescaled once, using the factor of its first occurrence, and
// every later tick that lands on it reuses that image. Distinct indices are
// rescaled concurrently; output order follows the curve.
type ContentAwareRescale struct {
	Rescaler  Rescaler              // Nil means a seam.Carver
	MinFactor float64               // Zero means DefaultMinFactor
	Workers   int                   // Zero means runtime.NumCPU()
	Progress  func(done, total int) // Optional, called after each rescale
}

var _ Effect = (*ContentAwareRescale)(nil)

// Apply resolves, rescales and assembles the output sequence.
func (c *ContentAwareRescale) Apply(ctx context.Context, frames []image.Image, energy []float64) ([]image.Image, error) {
	if err := checkFrames(frames); err != nil {
		return nil, err
	}

	rescaler := c.Rescaler
	if rescaler == nil {
		rescaler = &seam.Carver{}
	}
	minFactor := c.MinFactor
	if minFactor <= 0 {
		minFactor = DefaultMinFactor
	}
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	n := len(frames)
	indices := make([]int, len(energy))
	factor := make(map[int]float64)
	var unique []int
	for t, r := range energy {
		idx := curve.Index(r, n)
		indices[t] = idx
		if _, seen := factor[idx]; !seen {
			factor[idx] = math.Max(minFactor, 1-curve.Clamp(r))
			unique = append(unique, idx)
		}
	}

	log.Debugf("effect: content-aware rescale of %d unique frames for %d ticks (%d workers)", len(unique), len(energy), workers)

	// Each slot is written by exactly one goroutine.
	cache := make([]image.Image, n)
	var done atomic.Int64

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, idx := range unique {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			img, err := rescaler.Rescale(frames[idx], factor[idx])
			if err != nil {
				return fmt.Errorf("rescaling frame %d: %w", idx, err)
			}
			cache[idx] = img
			if c.Progress != nil {
				c.Progress(int(done.Add(1)), len(unique))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make([]image.Image, len(energy))
	for t, idx := range indices {
		out[t] = cache[idx]
	}
	return out, nil
}
