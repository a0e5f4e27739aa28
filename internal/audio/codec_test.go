// SPDX-License-Identifier: MIT
package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gifsync/internal/errs"
)

func TestWriteWAVThenLoad(t *testing.T) {
	left := sine(0.5, trackSampleRate, 440, 0.5)
	right := sine(0.5, trackSampleRate, 220, 0.25)
	samples := make([]float64, 0, 2*len(left))
	for i := range left {
		samples = append(samples, left[i], right[i])
	}
	track := mustTrack(samples, trackSampleRate, 2)

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := WriteWAV(f, track, DefaultBitDepth); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.SampleRate != trackSampleRate || got.Channels != 2 {
		t.Fatalf("format = %d Hz / %d ch, want %d Hz / 2 ch", got.SampleRate, got.Channels, trackSampleRate)
	}
	if got.Frames() != track.Frames() {
		t.Fatalf("frames = %d, want %d", got.Frames(), track.Frames())
	}

	// 16-bit quantization error is bounded by one LSB.
	for i := range track.Samples {
		if d := absFloat(got.Samples[i] - track.Samples[i]); d > 1.0/32767 {
			t.Fatalf("sample %d off by %g", i, d)
		}
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.ogg")
	if err := os.WriteFile(path, []byte("OggS"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, errs.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestDecodeWAVInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	if err := os.WriteFile(path, []byte("not a riff file at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error decoding garbage")
	}
}

func TestWriteWAVBitDepth(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := WriteWAV(f, mustTrack([]float64{0}, trackSampleRate, 1), 12); err == nil {
		t.Error("expected error for 12-bit output")
	}
}
