package driver

import (
	"time"

	"rxc/internal/buildpipeline"
	"rxc/internal/observ"
)

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted during Diagnose.
type PhaseObserver func(PhaseEvent)

// phases fans one phase boundary out to the timer, the observer and the
// progress sink.
type phases struct {
	timer    *observ.Timer
	observer PhaseObserver
	progress buildpipeline.ProgressSink
	file     string
}

func newPhases(opts DiagnoseOptions) *phases {
	p := &phases{observer: opts.PhaseObserver, progress: opts.Progress, file: opts.DisplayName}
	if opts.EnableTimings {
		p.timer = observ.NewTimer()
	}
	return p
}

// run executes fn as stage; note is recorded against the phase timing.
func (p *phases) run(stage buildpipeline.Stage, fn func() string) {
	name := string(stage)
	if p.observer != nil {
		p.observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	buildpipeline.Emit(p.progress, buildpipeline.Event{File: p.file, Stage: stage, Status: buildpipeline.StatusWorking})
	idx := -1
	if p.timer != nil {
		idx = p.timer.Begin(name)
	}
	start := time.Now()
	note := fn()
	elapsed := time.Since(start)
	if p.timer != nil {
		p.timer.End(idx, note)
	}
	if p.observer != nil {
		p.observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: elapsed})
	}
}

func (p *phases) report() *observ.Report {
	if p.timer == nil {
		return nil
	}
	r := p.timer.Report()
	return &r
}
