// SPDX-License-Identifier: MIT
package frames

import (
	"fmt"
	"image"
	"image/gif"
	"io"

	"golang.org/x/image/draw"
)

// GIF adapts a decoded GIF to the Animation interface. GIF frames are often
// partial patches over the previous frame, so Seek composites them onto one
// reused canvas honouring each frame's disposal method.
type GIF struct {
	g      *gif.GIF
	size   image.Point
	canvas *image.RGBA
	saved  *image.RGBA // canvas before a DisposalPrevious frame
	pos    int         // index of the frame currently on the canvas
}

var _ Animation = (*GIF)(nil)

// OpenGIF decodes every frame of a GIF stream.
func OpenGIF(r io.Reader) (*GIF, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}

	size := image.Pt(g.Config.Width, g.Config.Height)
	if size.X == 0 || size.Y == 0 {
		var union image.Rectangle
		for _, img := range g.Image {
			union = union.Union(img.Bounds())
		}
		size = union.Max
	}

	a := &GIF{g: g, size: size}
	a.reset()
	return a, nil
}

// FrameCount returns the number of frames in the GIF.
func (a *GIF) FrameCount() int { return len(a.g.Image) }

// Size returns the logical screen size.
func (a *GIF) Size() image.Point { return a.size }

// Seek composites frames up to index and returns the shared canvas.
func (a *GIF) Seek(index int) (image.Image, error) {
	if index < 0 || index >= len(a.g.Image) {
		return nil, fmt.Errorf("frame %d out of range [0, %d)", index, len(a.g.Image))
	}
	if index < a.pos {
		a.reset()
	}
	for a.pos < index {
		a.advance()
	}
	return a.canvas, nil
}

func (a *GIF) reset() {
	a.canvas = image.NewRGBA(image.Rectangle{Max: a.size})
	a.saved = nil
	a.pos = -1
}

func (a *GIF) disposal(i int) byte {
	if i < len(a.g.Disposal) {
		return a.g.Disposal[i]
	}
	return gif.DisposalNone
}

func (a *GIF) advance() {
	if a.pos >= 0 {
		prev := a.g.Image[a.pos]
		switch a.disposal(a.pos) {
		case gif.DisposalBackground:
			draw.Draw(a.canvas, prev.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			if a.saved != nil {
				draw.Draw(a.canvas, a.canvas.Bounds(), a.saved, image.Point{}, draw.Src)
			}
		}
	}

	next := a.pos + 1
	if a.disposal(next) == gif.DisposalPrevious {
		if a.saved == nil {
			a.saved = image.NewRGBA(a.canvas.Bounds())
		}
		draw.Draw(a.saved, a.saved.Bounds(), a.canvas, image.Point{}, draw.Src)
	}

	frame := a.g.Image[next]
	draw.Draw(a.canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
	a.pos = next
}
