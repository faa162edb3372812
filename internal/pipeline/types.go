// Package pipeline orchestrates multi-file check runs and streams their
// progress as events the terminal UI can render.
package pipeline

import "time"

// Stage describes what a file (or the run, when Event.File is empty) is
// going through.
type Stage string

const (
	// StageWalk is the directory listing phase.
	StageWalk Stage = "walk"
	// StageParse is the split-lift-parse pass over one file.
	StageParse Stage = "parse"
	// StageCache marks an outcome served from the check cache.
	StageCache Stage = "cache"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is being parsed.
	StatusWorking Status = "working"
	// StatusDone indicates the file finished without error diagnostics.
	StatusDone Status = "done"
	// StatusError indicates error diagnostics or a read failure.
	StatusError Status = "error"
)

// Event reports progress for a file, or for the overall run when File is
// empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds wall-clock durations per run phase.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	if t.stages == nil {
		return false
	}
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
