package suite

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"rxc/internal/buildpipeline"
	"rxc/internal/driver"
	"rxc/internal/trace"
)

// Status is the verdict of one case.
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusTimeout Status = "timeout"
	StatusError   Status = "error"
)

// CaseResult is the outcome of one case. Reason explains a non-pass.
type CaseResult struct {
	Case    Case
	Display string
	Status  Status
	Reason  string
	Result  *driver.DiagnoseResult
	Elapsed time.Duration
}

// Report is the outcome of a whole run, in manifest order.
type Report struct {
	Name    string
	Results []CaseResult
	Elapsed time.Duration
}

func (r *Report) Count(st Status) int {
	n := 0
	for _, c := range r.Results {
		if c.Status == st {
			n++
		}
	}
	return n
}

// OK reports whether every case passed.
func (r *Report) OK() bool { return r.Count(StatusPass) == len(r.Results) }

// RunOptions configures Run.
type RunOptions struct {
	Jobs       int
	Progress   buildpipeline.ProgressSink
	// MaxTimeout caps every case timeout; 0 leaves them as declared.
	MaxTimeout time.Duration
	// Diagnose is the base option set; ThrowOnError from the manifest is
	// added on top.
	Diagnose   driver.DiagnoseOptions
}

// Run checks every case of m. The error is non-nil only when ctx ends.
func Run(ctx context.Context, m *Manifest, opts RunOptions) (*Report, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "suite", 0).With("cases", fmt.Sprint(len(m.Cases)))
	defer span.End(m.Name)

	start := time.Now()
	report := &Report{Name: m.Name, Results: make([]CaseResult, len(m.Cases))}
	display := make([]string, len(m.Cases))
	for i, c := range m.Cases {
		display[i] = buildpipeline.DisplayPath(c.Path, m.Dir)
	}
	buildpipeline.EmitQueued(opts.Progress, display)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(m.Cases))))
	for i, c := range m.Cases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			dopts := opts.Diagnose
			dopts.ThrowOnError = dopts.ThrowOnError || m.ThrowOnError
			dopts.DisplayName = display[i]
			dopts.Progress = opts.Progress
			if opts.MaxTimeout > 0 && c.Timeout > opts.MaxTimeout {
				c.Timeout = opts.MaxTimeout
			}
			res := runCase(gctx, c, dopts)
			res.Display = display[i]
			report.Results[i] = res

			status := buildpipeline.StatusDone
			if res.Status != StatusPass {
				status = buildpipeline.StatusError
			}
			buildpipeline.Emit(opts.Progress, buildpipeline.Event{File: display[i], Status: status, Elapsed: res.Elapsed})
			return nil
		})
	}
	err := g.Wait()
	report.Elapsed = time.Since(start)
	return report, err
}

// runCase runs the pipeline in its own goroutine so a case that exceeds its
// deadline is abandoned rather than waited for.
func runCase(ctx context.Context, c Case, opts driver.DiagnoseOptions) CaseResult {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	type outcome struct {
		res *driver.DiagnoseResult
		err error
	}
	done := make(chan outcome, 1)
	start := time.Now()
	go func() {
		res, err := driver.Diagnose(ctx, c.Path, opts)
		done <- outcome{res, err}
	}()

	select {
	case <-ctx.Done():
		out := CaseResult{Case: c, Status: StatusTimeout, Elapsed: time.Since(start)}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			out.Reason = fmt.Sprintf("exceeded %s", c.Timeout)
		} else {
			out.Status, out.Reason = StatusError, ctx.Err().Error()
		}
		return out
	case o := <-done:
		out := CaseResult{Case: c, Result: o.res, Elapsed: time.Since(start)}
		if o.err != nil {
			out.Status, out.Reason = StatusError, o.err.Error()
			return out
		}
		out.Status, out.Reason = judge(c, o.res)
		return out
	}
}

func judge(c Case, res *driver.DiagnoseResult) (Status, string) {
	failed := res.Failed()
	switch {
	case c.Expect == ExpectPass && failed:
		items := res.Bag.Items()
		if len(items) == 0 {
			return StatusFail, "unexpected error: " + res.Abort.Error()
		}
		d := items[0]
		return StatusFail, fmt.Sprintf("unexpected %s: %s", d.Code.ID(), d.Message)
	case c.Expect == ExpectFail && !failed:
		return StatusFail, "expected errors, file checked cleanly"
	}
	var got []string
	for _, d := range res.Bag.Items() {
		got = append(got, d.Code.ID())
	}
	for _, want := range c.Codes {
		if !slices.Contains(got, want) {
			return StatusFail, fmt.Sprintf("missing %s (got %v)", want, got)
		}
	}
	return StatusPass, ""
}
