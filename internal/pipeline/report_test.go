// SPDX-License-Identifier: MIT
package pipeline

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"gifsync/internal/log"
)

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	prev := log.GetLevel()
	log.SetOutput(&buf)
	log.SetLevel(log.LevelInfo)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(prev)
	})

	r := NewLogReporter()
	r.Start(StageEffects, 3)
	r.Progress(StageEffects, 1, 3)
	r.Finish(StageEffects, nil)
	r.Start(StageRender, 0)
	r.Finish(StageRender, errors.New("boom"))

	out := buf.String()
	for _, want := range []string{"effects: started (3 items)", "effects: done in", "render: started", "render: failed after", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "1/3") {
		t.Error("progress should only be logged at debug level")
	}
}
