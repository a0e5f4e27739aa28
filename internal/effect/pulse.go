// SPDX-License-Identifier: MIT
package effect

import (
	"context"
	"image"

	"gifsync/internal/curve"

	"golang.org/x/image/draw"
)

// Pulse is a post-filter that brightens each output frame towards white in
// proportion to its curve value: pixel + Gain*r*(255-pixel). It keeps frame
// count and order, so it is meant to run after an indexing effect.
type Pulse struct {
	Gain float64 // Fraction of the remaining headroom added at r = 1, clamped to [0, 1]
}

var _ Effect = Pulse{}

// Apply brightens every frame into a new image. Frames with nothing to add
// are passed through as-is.
func (p Pulse) Apply(ctx context.Context, frames []image.Image, energy []float64) ([]image.Image, error) {
	if len(frames) != len(energy) {
		indexed, err := DirectIndex{}.Apply(ctx, frames, energy)
		if err != nil {
			return nil, err
		}
		frames = indexed
	}

	gain := curve.Clamp(p.Gain)
	out := make([]image.Image, len(energy))
	for t, r := range energy {
		k := gain * curve.Clamp(r)
		if k == 0 {
			out[t] = frames[t]
			continue
		}
		out[t] = brighten(frames[t], k)
	}
	return out, nil
}

func brighten(src image.Image, k float64) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	for i := 0; i < len(dst.Pix); i += 4 {
		a := float64(dst.Pix[i+3])
		// Premultiplied: the ceiling for each channel is alpha, not 255.
		for c := range 3 {
			v := float64(dst.Pix[i+c])
			dst.Pix[i+c] = uint8(v + k*(a-v) + 0.5)
		}
	}
	return dst
}
