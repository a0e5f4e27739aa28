// SPDX-License-Identifier: MIT
package render

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"gifsync/internal/audio"
	"gifsync/internal/errs"
	"gifsync/internal/log"

	"golang.org/x/image/draw"
)

// Encoder defaults.
const (
	DefaultBinary = "ffmpeg"
	DefaultCRF    = 25

	stderrTail = 4096
)

// FFmpeg renders through an ffmpeg subprocess: constant frame rate, yuv420p,
// H.264 video and AAC audio at a fixed CRF. Audio is always staged as a WAV
// file; frames are piped or staged according to Strategy. The staging
// directory is removed on every exit path.
type FFmpeg struct {
	Binary   string                // Encoder executable; empty means DefaultBinary
	CRF      int                   // Constant rate factor; zero means DefaultCRF
	Strategy Strategy              // How frames are delivered
	TempDir  string                // Parent of the staging directory; empty means os.TempDir()
	Stderr   io.Writer             // Optional live copy of the encoder's stderr
	Progress func(done, total int) // Optional, called after each frame is delivered
}

var _ Renderer = (*FFmpeg)(nil)

// Render encodes frames and track into output and waits for the encoder.
// Cancelling ctx kills the encoder process.
func (f *FFmpeg) Render(ctx context.Context, frames []image.Image, track *audio.Track, fps int, output string) error {
	size, err := checkFrames(frames, fps)
	if err != nil {
		return err
	}

	binary := f.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	bin, err := exec.LookPath(binary)
	if err != nil {
		return errs.Render("encoder %q not found: %w", binary, err)
	}

	dir, err := os.MkdirTemp(f.TempDir, "gifsync-*")
	if err != nil {
		return errs.Render("creating staging directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			log.Warnf("render: failed to remove %s: %v", dir, rmErr)
		}
	}()

	audioPath := filepath.Join(dir, "audio.wav")
	if err := stageAudio(audioPath, track); err != nil {
		return errs.Render("staging audio: %w", err)
	}

	output = OutputPath(output)
	var input []string
	switch f.Strategy {
	case StrategyStaged:
		pattern, err := f.stageFrames(ctx, dir, frames)
		if err != nil {
			return err
		}
		input = []string{"-framerate", strconv.Itoa(fps), "-f", "image2", "-i", pattern}
	default:
		input = []string{
			"-f", "rawvideo",
			"-pix_fmt", "rgba",
			"-s", fmt.Sprintf("%dx%d", size.X, size.Y),
			"-framerate", strconv.Itoa(fps),
			"-i", "-",
		}
	}

	args := f.args(input, audioPath, fps, output)
	log.Debugf("render: %s %s", bin, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, bin, args...)
	tail := &tailBuffer{max: stderrTail}
	if f.Stderr != nil {
		cmd.Stderr = io.MultiWriter(tail, f.Stderr)
	} else {
		cmd.Stderr = tail
	}

	if f.Strategy == StrategyStaged {
		return f.wait(ctx, cmd, cmd.Run(), nil, tail)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errs.Render("opening encoder stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return errs.Render("starting %s: %w", binary, err)
	}
	writeErr := f.pipeFrames(stdin, frames, size)
	if closeErr := stdin.Close(); writeErr == nil && closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
		writeErr = closeErr
	}
	return f.wait(ctx, cmd, cmd.Wait(), writeErr, tail)
}

func (f *FFmpeg) args(input []string, audioPath string, fps int, output string) []string {
	crf := f.CRF
	if crf == 0 {
		crf = DefaultCRF
	}
	args := []string{"-hide_banner", "-loglevel", "error", "-y"}
	args = append(args, input...)
	args = append(args,
		"-i", audioPath,
		"-r", strconv.Itoa(fps),
		"-pix_fmt", "yuv420p",
		"-c:v", "libx264",
		"-c:a", "aac",
		"-crf", strconv.Itoa(crf),
		"-shortest",
		output,
	)
	return args
}

// wait turns the process outcome into a RenderError. The exit status takes
// precedence over a broken pipe.
func (f *FFmpeg) wait(ctx context.Context, cmd *exec.Cmd, runErr, writeErr error, tail *tailBuffer) error {
	if ctx.Err() != nil {
		return errs.Render("encoder cancelled: %w", ctx.Err())
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		msg := strings.TrimSpace(tail.String())
		if msg == "" {
			return errs.Render("%s exited with status %d", filepath.Base(cmd.Path), exitErr.ExitCode())
		}
		return errs.Render("%s exited with status %d: %s", filepath.Base(cmd.Path), exitErr.ExitCode(), msg)
	}
	if runErr != nil {
		return errs.Render("running %s: %w", filepath.Base(cmd.Path), runErr)
	}
	if writeErr != nil {
		return errs.Render("writing frames: %w", writeErr)
	}
	return nil
}

func (f *FFmpeg) pipeFrames(w io.Writer, frames []image.Image, size image.Point) error {
	bw := bufio.NewWriterSize(w, 1<<20)
	scratch := image.NewRGBA(image.Rectangle{Max: size})
	for i, img := range frames {
		if _, err := bw.Write(rgbaBytes(img, scratch)); err != nil {
			return err
		}
		if f.Progress != nil {
			f.Progress(i+1, len(frames))
		}
	}
	return bw.Flush()
}

// rgbaBytes returns tightly packed RGBA bytes for img, copying into scratch
// unless img already has that layout.
func rgbaBytes(img image.Image, scratch *image.RGBA) []byte {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba.Pix[:rgba.Stride*rgba.Rect.Dy()]
	}
	draw.Draw(scratch, scratch.Bounds(), img, img.Bounds().Min, draw.Src)
	return scratch.Pix
}

// stageFrames writes frames as zero-padded PNG files and returns the image2
// input pattern.
func (f *FFmpeg) stageFrames(ctx context.Context, dir string, frames []image.Image) (string, error) {
	digits := len(strconv.Itoa(len(frames)))
	enc := &png.Encoder{CompressionLevel: png.BestSpeed}
	for i, img := range frames {
		if err := ctx.Err(); err != nil {
			return "", errs.Render("staging cancelled: %w", err)
		}
		name := filepath.Join(dir, fmt.Sprintf("%0*d.png", digits, i))
		if err := writePNG(enc, name, img); err != nil {
			return "", errs.Render("staging frame %d: %w", i, err)
		}
		if f.Progress != nil {
			f.Progress(i+1, len(frames))
		}
	}
	return filepath.Join(dir, fmt.Sprintf("%%0%dd.png", digits)), nil
}

func writePNG(enc *png.Encoder, path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(file)
	if err := enc.Encode(bw, img); err != nil {
		file.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func stageAudio(path string, track *audio.Track) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := audio.WriteWAV(file, track, audio.DefaultBitDepth); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string { return string(t.buf) }
