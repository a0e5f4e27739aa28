// SPDX-License-Identifier: MIT
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gifsync/internal/errs"
	"gifsync/internal/log"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// mp3Channels is fixed by go-mp3, which always decodes to 16-bit LE stereo.
const mp3Channels = 2

// Load decodes the audio file at path, picking the codec by extension.
func Load(path string) (*Track, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".wav" && ext != ".mp3" {
		return nil, errs.Configuration("unsupported audio format %q (want .wav or .mp3)", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio: %w", err)
	}
	defer f.Close()

	var track *Track
	switch ext {
	case ".wav":
		track, err = DecodeWAV(f)
	case ".mp3":
		track, err = DecodeMP3(f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	log.Debugf("audio: loaded %s (%d Hz, %d ch, %.2fs)", path, track.SampleRate, track.Channels, track.Seconds())
	return track, nil
}

// DecodeWAV reads a PCM WAV stream into a Track.
func DecodeWAV(r io.ReadSeeker) (*Track, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	if decoder.BitDepth == 0 {
		return nil, fmt.Errorf("unknown WAV bit depth")
	}

	scale := 1.0 / float64(audio.IntMaxSignedValue(int(decoder.BitDepth)))
	samples := make([]float64, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = float64(s) * scale
	}

	channels := int(decoder.NumChans)
	if channels == 0 && buf.Format != nil {
		channels = buf.Format.NumChannels
	}
	// Drop a trailing partial frame rather than rejecting the file.
	if channels > 0 {
		samples = samples[:len(samples)-len(samples)%channels]
	}
	return NewTrack(samples, int(decoder.SampleRate), channels)
}

// DecodeMP3 reads an MP3 stream into a stereo Track.
func DecodeMP3(r io.Reader) (*Track, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}

	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, err
	}

	// 2 bytes per int16 sample, keep whole stereo frames only.
	n := len(pcm) / 2
	n -= n % mp3Channels
	raw := make([]int16, n)
	if err := binary.Read(bytes.NewReader(pcm[:n*2]), binary.LittleEndian, raw); err != nil {
		return nil, err
	}

	samples := make([]float64, n)
	for i, s := range raw {
		samples[i] = float64(s) / 32768
	}
	return NewTrack(samples, decoder.SampleRate(), mp3Channels)
}
