// Package buildpipeline defines the progress events emitted while files move
// through the check pipeline, and the sinks that consume them.
package buildpipeline

import "time"

// Stage is a pipeline phase a file can be in.
type Stage string

const (
	StageLoad      Stage = "load"
	StageParse     Stage = "parse"
	StageResolve   Stage = "resolve"
	StageSelfCheck Stage = "selfcheck"
	StageSema      Stage = "sema"
)

// Stages lists the pipeline stages in execution order.
var Stages = []Stage{StageLoad, StageParse, StageResolve, StageSelfCheck, StageSema}

// Progress is the fraction of the pipeline completed once stage starts.
func (s Stage) Progress() float64 {
	for i, st := range Stages {
		if st == s {
			return float64(i) / float64(len(Stages))
		}
	}
	return 0
}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	// StatusCached marks a file answered from the diagnostic cache.
	StatusCached Status = "cached"
	StatusDone   Status = "done"
	StatusError  Status = "error"
)

// Terminal reports whether no further events follow for the file.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError || s == StatusCached
}

// Event reports progress for a file, or for the whole run when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; batch workers emit from several goroutines.
type ProgressSink interface {
	OnEvent(Event)
}
