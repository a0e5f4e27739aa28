// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DefaultBitDepth is used when staging audio for the encoder.
const DefaultBitDepth = 16

// WriteWAV encodes the track as integer PCM WAV. Samples outside [-1, 1] are
// clipped. The encoder header is finalized before returning, so ws must be
// seekable.
func WriteWAV(ws io.WriteSeeker, t *Track, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return fmt.Errorf("unsupported bit depth %d", bitDepth)
	}

	encoder := wav.NewEncoder(ws, t.SampleRate, bitDepth, t.Channels, 1)

	scale := float64(audio.IntMaxSignedValue(bitDepth))
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: t.Channels,
			SampleRate:  t.SampleRate,
		},
		Data:           make([]int, len(t.Samples)),
		SourceBitDepth: bitDepth,
	}
	for i, s := range t.Samples {
		s = math.Max(-1, math.Min(1, s))
		buf.Data[i] = int(math.Round(s * scale))
	}

	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to write WAV samples: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return nil
}
