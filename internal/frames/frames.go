// SPDX-License-Identifier: MIT
//
// Package frames decodes a source animation into an immutable,
// randomly-addressable frame sequence with even dimensions.
package frames

import (
	"fmt"
	"image"
	"os"

	"gifsync/internal/errs"
	"gifsync/internal/log"

	"golang.org/x/image/draw"
)

// Animation is a seekable multi-frame image source. The image returned by
// Seek may be an internal buffer that the next Seek call overwrites.
type Animation interface {
	FrameCount() int
	Size() image.Point
	Seek(index int) (image.Image, error)
}

// Sequence is an ordered list of equally sized frames. It is never mutated
// after Load returns.
type Sequence []image.Image

// Size returns the dimensions shared by every frame.
func (s Sequence) Size() image.Point {
	if len(s) == 0 {
		return image.Point{}
	}
	return s[0].Bounds().Size()
}

// EvenSize rounds both dimensions up to the next even number.
func EvenSize(p image.Point) image.Point {
	return image.Pt(p.X+p.X%2, p.Y+p.Y%2)
}

// Load copies every frame of anim into its own buffer and pads odd
// dimensions by one pixel, replicating the last column/row. Sources with one
// frame or less are rejected rather than rendered as a still.
func Load(anim Animation) (Sequence, error) {
	n := anim.FrameCount()
	if n <= 1 {
		return nil, errs.InsufficientFrames("source has %d frame(s), need at least 2", n)
	}

	size := anim.Size()
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("invalid animation size %v", size)
	}
	even := EvenSize(size)

	seq := make(Sequence, n)
	for i := range n {
		src, err := anim.Seek(i)
		if err != nil {
			return nil, fmt.Errorf("failed to seek frame %d: %w", i, err)
		}
		seq[i] = copyPadded(src, size, even)
	}

	log.Debugf("frames: loaded %d frames, %v -> %v", n, size, even)
	return seq, nil
}

// LoadFile opens a GIF file and loads its frames.
func LoadFile(path string) (Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	anim, err := OpenGIF(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return Load(anim)
}

func copyPadded(src image.Image, size, even image.Point) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: even})
	b := src.Bounds()
	draw.Draw(dst, image.Rectangle{Max: size}, src, b.Min, draw.Src)

	if even.X != size.X {
		for y := range size.Y {
			dst.SetRGBA(even.X-1, y, dst.RGBAAt(size.X-1, y))
		}
	}
	if even.Y != size.Y {
		for x := range even.X {
			dst.SetRGBA(x, even.Y-1, dst.RGBAAt(x, size.Y-1))
		}
	}
	return dst
}
