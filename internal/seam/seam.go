// SPDX-License-Identifier: MIT
//
// Package seam implements content-aware rescaling by seam carving. Whole
// connected seams of low visual energy are removed one at a time until the
// image reaches its target size, so busy regions survive while flat
// regions collapse.
package seam

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Carver shrinks an image by seam carving and scales the result back to the
// original dimensions, producing the "crushed" look.
type Carver struct {
	// Scaler resizes the carved image back up. Nil means CatmullRom.
	Scaler draw.Scaler
}

// Rescale carves img down to factor × its size (at least one pixel per axis)
// and resizes it back. factor is clamped to (0, 1]. The result is a new
// *image.RGBA anchored at the origin.
func (c *Carver) Rescale(img image.Image, factor float64) (image.Image, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("cannot rescale empty image %v", b)
	}
	if math.IsNaN(factor) || factor <= 0 {
		return nil, fmt.Errorf("rescale factor must be positive, got %v", factor)
	}
	factor = math.Min(factor, 1)

	w, h := b.Dx(), b.Dy()
	tw := max(1, int(factor*float64(w)))
	th := max(1, int(factor*float64(h)))

	g := newGrid(img)
	g = carve(g, tw, th)

	scaler := c.Scaler
	if scaler == nil {
		scaler = draw.CatmullRom
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	scaler.Scale(out, out.Bounds(), g.image(), image.Rect(0, 0, g.w, g.h), draw.Src, nil)
	return out, nil
}

// carve removes vertical seams down to width tw, then horizontal seams down
// to height th by carving the transposed grid.
func carve(g *grid, tw, th int) *grid {
	for g.w > tw {
		g.removeSeam(g.verticalSeam())
	}
	if g.h > th {
		g = g.transpose()
		for g.w > th {
			g.removeSeam(g.verticalSeam())
		}
		g = g.transpose()
	}
	return g
}

// grid is a row-major RGBA pixel buffer whose width shrinks as seams go.
type grid struct {
	w, h int
	pix  []color.RGBA
}

func newGrid(img image.Image) *grid {
	b := img.Bounds()
	g := &grid{w: b.Dx(), h: b.Dy(), pix: make([]color.RGBA, b.Dx()*b.Dy())}
	if rgba, ok := img.(*image.RGBA); ok {
		for y := range g.h {
			for x := range g.w {
				g.pix[y*g.w+x] = rgba.RGBAAt(b.Min.X+x, b.Min.Y+y)
			}
		}
		return g
	}
	for y := range g.h {
		for x := range g.w {
			g.pix[y*g.w+x] = color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
		}
	}
	return g
}

func (g *grid) at(x, y int) color.RGBA {
	x = min(max(x, 0), g.w-1)
	y = min(max(y, 0), g.h-1)
	return g.pix[y*g.w+x]
}

// energy is the dual-gradient energy, squared differences of the horizontal
// and vertical neighbours summed over the colour channels. Edges clamp to
// the nearest pixel.
func (g *grid) energy() []float64 {
	e := make([]float64, g.w*g.h)
	for y := range g.h {
		for x := range g.w {
			e[y*g.w+x] = gradient(g.at(x-1, y), g.at(x+1, y)) + gradient(g.at(x, y-1), g.at(x, y+1))
		}
	}
	return e
}

func gradient(a, b color.RGBA) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	da := float64(a.A) - float64(b.A)
	return dr*dr + dg*dg + db*db + da*da
}

// verticalSeam returns, for every row, the column of the minimum cumulative
// energy 8-connected top-to-bottom path.
func (g *grid) verticalSeam() []int {
	cost := g.energy()
	for y := 1; y < g.h; y++ {
		for x := range g.w {
			best := cost[(y-1)*g.w+x]
			if x > 0 {
				best = math.Min(best, cost[(y-1)*g.w+x-1])
			}
			if x < g.w-1 {
				best = math.Min(best, cost[(y-1)*g.w+x+1])
			}
			cost[y*g.w+x] += best
		}
	}

	seam := make([]int, g.h)
	last := (g.h - 1) * g.w
	col := 0
	for x := 1; x < g.w; x++ {
		if cost[last+x] < cost[last+col] {
			col = x
		}
	}
	seam[g.h-1] = col

	for y := g.h - 2; y >= 0; y-- {
		prev := seam[y+1]
		col = prev
		for _, x := range []int{prev - 1, prev + 1} {
			if x >= 0 && x < g.w && cost[y*g.w+x] < cost[y*g.w+col] {
				col = x
			}
		}
		seam[y] = col
	}
	return seam
}

// removeSeam drops seam[y] from every row, narrowing the grid by one.
func (g *grid) removeSeam(seam []int) {
	nw := g.w - 1
	pix := make([]color.RGBA, 0, nw*g.h)
	for y := range g.h {
		row := g.pix[y*g.w : (y+1)*g.w]
		pix = append(pix, row[:seam[y]]...)
		pix = append(pix, row[seam[y]+1:]...)
	}
	g.pix = pix
	g.w = nw
}

func (g *grid) transpose() *grid {
	t := &grid{w: g.h, h: g.w, pix: make([]color.RGBA, len(g.pix))}
	for y := range g.h {
		for x := range g.w {
			t.pix[x*t.w+y] = g.pix[y*g.w+x]
		}
	}
	return t
}

func (g *grid) image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.w, g.h))
	for y := range g.h {
		for x := range g.w {
			img.SetRGBA(x, y, g.pix[y*g.w+x])
		}
	}
	return img
}
