// SPDX-License-Identifier: MIT
package pipeline

import (
	"time"

	"gifsync/internal/log"
)

// Stage names one step of a run.
type Stage string

const (
	StageFrames   Stage = "frames"
	StageAudio    Stage = "audio"
	StageEnvelope Stage = "envelope"
	StageEffects  Stage = "effects"
	StageRender   Stage = "render"
)

// Reporter receives progress events. Progress may be called from several
// goroutines at once.
type Reporter interface {
	Start(stage Stage, total int)
	Progress(stage Stage, done, total int)
	Finish(stage Stage, err error)
}

// LogReporter reports stages through the leveled logger.
type LogReporter struct {
	started map[Stage]time.Time
}

var _ Reporter = (*LogReporter)(nil)

// NewLogReporter creates a LogReporter.
func NewLogReporter() *LogReporter {
	return &LogReporter{started: make(map[Stage]time.Time)}
}

// Start logs the stage at info level.
func (r *LogReporter) Start(stage Stage, total int) {
	r.started[stage] = time.Now()
	if total > 0 {
		log.Infof("%s: started (%d items)", stage, total)
		return
	}
	log.Infof("%s: started", stage)
}

// Progress logs at debug level.
func (r *LogReporter) Progress(stage Stage, done, total int) {
	log.Debugf("%s: %d/%d", stage, done, total)
}

// Finish logs the outcome and elapsed time.
func (r *LogReporter) Finish(stage Stage, err error) {
	elapsed := time.Since(r.started[stage]).Round(time.Millisecond)
	if err != nil {
		log.Errorf("%s: failed after %v: %v", stage, elapsed, err)
		return
	}
	log.Infof("%s: done in %v", stage, elapsed)
}

type nopReporter struct{}

func (nopReporter) Start(Stage, int)         {}
func (nopReporter) Progress(Stage, int, int) {}
func (nopReporter) Finish(Stage, error)      {}
