// SPDX-License-Identifier: MIT
//
// Package render hands the final frame sequence and the trimmed audio to an
// external encoder and waits for the muxed video.
package render

import (
	"context"
	"image"
	"path/filepath"
	"strings"

	"gifsync/internal/audio"
	"gifsync/internal/errs"
)

// Renderer encodes frames at fps together with track into output.
type Renderer interface {
	Render(ctx context.Context, frames []image.Image, track *audio.Track, fps int, output string) error
}

// Strategy selects how frames reach the encoder.
type Strategy int

const (
	// StrategyPipe streams raw RGBA frames on the encoder's stdin.
	StrategyPipe Strategy = iota
	// StrategyStaged writes numbered PNG files to a temporary directory.
	StrategyStaged
)

// String returns the flag name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyPipe:
		return "pipe"
	case StrategyStaged:
		return "staged"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a flag value (case-insensitive) to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "pipe", "":
		return StrategyPipe, nil
	case "staged", "png":
		return StrategyStaged, nil
	default:
		return StrategyPipe, errs.Configuration("unknown render strategy %q (want pipe or staged)", name)
	}
}

// OutputPath appends ".mp4" to paths without an extension.
func OutputPath(path string) string {
	if filepath.Ext(path) == "" {
		return path + ".mp4"
	}
	return path
}

// checkFrames validates the sequence before any process is spawned.
func checkFrames(frames []image.Image, fps int) (image.Point, error) {
	if fps <= 0 {
		return image.Point{}, errs.Configuration("fps must be positive, got %d", fps)
	}
	if len(frames) == 0 {
		return image.Point{}, errs.Configuration("no frames to render")
	}
	size := frames[0].Bounds().Size()
	if size.X%2 != 0 || size.Y%2 != 0 {
		return image.Point{}, errs.Configuration("frame size %v must be even for yuv420p", size)
	}
	for i, f := range frames {
		if f.Bounds().Size() != size {
			return image.Point{}, errs.Configuration("frame %d is %v, want %v", i, f.Bounds().Size(), size)
		}
	}
	return size, nil
}
