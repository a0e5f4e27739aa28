// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"io"
	"sync"
	"time"

	"gifsync/internal/pipeline"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// BarReporter prints one styled line per stage and a progress bar for stages
// that report per-item progress.
type BarReporter struct {
	out io.Writer

	mu      sync.Mutex
	started time.Time
	bars    *mpb.Progress
	bar     *mpb.Bar
}

var _ pipeline.Reporter = (*BarReporter)(nil)

// NewBarReporter creates a reporter writing to out.
func NewBarReporter(out io.Writer) *BarReporter {
	return &BarReporter{out: out}
}

// Start records the stage start time.
func (r *BarReporter) Start(stage pipeline.Stage, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = time.Now()
}

// Progress advances the stage bar by one item, creating the bar on first use
// since the item count is only known to the stage itself.
func (r *BarReporter) Progress(stage pipeline.Stage, done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar == nil {
		r.bars = mpb.New(mpb.WithOutput(r.out), mpb.WithWidth(48))
		r.bar = r.bars.AddBar(int64(total),
			mpb.PrependDecorators(
				decor.Name(StageStyle.Render(string(stage))),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(
				decor.Percentage(),
				decor.Elapsed(decor.ET_STYLE_GO),
			),
		)
	}
	r.bar.Increment()
}

// Finish completes or aborts the bar and prints the stage result.
func (r *BarReporter) Finish(stage pipeline.Stage, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		if err != nil {
			r.bar.Abort(false)
		} else {
			r.bar.SetTotal(-1, true)
		}
		r.bars.Wait()
		r.bar, r.bars = nil, nil
	}

	elapsed := time.Since(r.started).Round(time.Millisecond)
	if err != nil {
		fmt.Fprintf(r.out, "%s %s\n", StageStyle.Render(string(stage)), ErrorStyle.Render("failed"))
		return
	}
	fmt.Fprintf(r.out, "%s %s\n", StageStyle.Render(string(stage)), KeyStyle.Render(elapsed.String()))
}
