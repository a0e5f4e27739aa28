// SPDX-License-Identifier: MIT
package errs

import (
	"errors"
	"io"
	"testing"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
		msg  string
	}{
		{"Configuration", Configuration("fps must be positive, got %d", 0), ErrConfiguration, "configuration error: fps must be positive, got 0"},
		{"InsufficientFrames", InsufficientFrames("source has %d frame(s)", 1), ErrInsufficientFrames, "insufficient frames: source has 1 frame(s)"},
		{"DegenerateSignal", DegenerateSignal("flat curve"), ErrDegenerateSignal, "degenerate signal: flat curve"},
		{"Render", Render("ffmpeg exited with status %d", 1), ErrRender, "render error: ffmpeg exited with status 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.kind)
			}
			if got := tt.err.Error(); got != tt.msg {
				t.Errorf("Error() = %q, want %q", got, tt.msg)
			}
		})
	}
}

func TestRenderKeepsCause(t *testing.T) {
	err := Render("writing frames: %w", io.ErrClosedPipe)
	if !errors.Is(err, ErrRender) {
		t.Error("expected ErrRender")
	}
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Error("expected wrapped cause to be reachable")
	}
}
