package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"rxc/internal/buildpipeline"
	"rxc/internal/diag"
	"rxc/internal/observ"
	"rxc/internal/source"
	"rxc/internal/trace"
)

// SourceExt is the extension of rxc source files.
const SourceExt = ".rx"

// BatchOptions configures CheckBatch.
type BatchOptions struct {
	DiagnoseOptions
	// Jobs bounds the number of files checked at once; 0 means GOMAXPROCS.
	Jobs int
	// Cache answers unchanged files; nil disables caching.
	Cache *DiskCache
	// BaseDir shortens paths in progress events.
	BaseDir string
}

// BatchResult is the outcome of one file. Result is always set; a file that
// could not be loaded carries a single IO diagnostic and Err.
type BatchResult struct {
	Path    string
	Display string
	Result  *DiagnoseResult
	Cached  bool
	Err     error
}

// ExpandPaths replaces directories in args by the source files below them,
// sorted. Plain files are kept as given.
func ExpandPaths(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		files, err := listSourceFiles(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

func listSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// CheckBatch runs the pipeline over every path in parallel. Results keep the
// order of paths. The error is non-nil only when ctx is cancelled.
func CheckBatch(ctx context.Context, paths []string, opts BatchOptions) ([]BatchResult, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "batch", 0).With("files", fmt.Sprint(len(paths)))
	defer span.End("")

	results := make([]BatchResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	base := opts.BaseDir
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
	}
	display := make([]string, len(paths))
	for i, p := range paths {
		display[i] = buildpipeline.DisplayPath(p, base)
	}
	buildpipeline.EmitQueued(opts.Progress, display)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// each index is written by exactly one goroutine
			results[i] = checkOne(gctx, path, display[i], opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func checkOne(ctx context.Context, path, display string, opts BatchOptions) BatchResult {
	start := time.Now()
	out := BatchResult{Path: path, Display: display}
	finish := func(status buildpipeline.Status) BatchResult {
		buildpipeline.Emit(opts.Progress, buildpipeline.Event{
			File: display, Status: status, Err: out.Err, Elapsed: time.Since(start),
		})
		return out
	}

	buildpipeline.Emit(opts.Progress, buildpipeline.Event{File: display, Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusWorking})
	fset := source.NewFileSet()
	id, err := fset.Load(path)
	if err != nil {
		out.Err = err
		out.Result = loadFailure(fset, err, opts.MaxDiagnostics)
		return finish(buildpipeline.StatusError)
	}
	file := fset.Get(id)

	dopts := opts.DiagnoseOptions
	dopts.DisplayName = display
	key := KeyFor(file, dopts)
	if opts.Cache != nil {
		var payload DiskPayload
		if ok, err := opts.Cache.Get(key, &payload); err == nil && ok {
			out.Result = DecodePayload(fset, file, &payload, opts.MaxDiagnostics)
			out.Cached = true
			return finish(buildpipeline.StatusCached)
		}
	}

	res, err := diagnoseFile(ctx, fset, file, dopts)
	if err != nil {
		out.Err = err
		out.Result = loadFailure(fset, err, opts.MaxDiagnostics)
		return finish(buildpipeline.StatusError)
	}
	out.Result = res
	if opts.Cache != nil {
		// a failed write only costs the next run a recheck
		_ = opts.Cache.Put(key, EncodePayload(res))
	}
	if res.Failed() {
		return finish(buildpipeline.StatusError)
	}
	return finish(buildpipeline.StatusDone)
}

func loadFailure(fset *source.FileSet, err error, maxDiagnostics int) *DiagnoseResult {
	bag := diag.NewBag(maxDiagnostics)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, err.Error()))
	return &DiagnoseResult{FileSet: fset, Bag: bag, StoppedAt: buildpipeline.StageLoad}
}

// BatchSummary aggregates a batch run.
type BatchSummary struct {
	Files  int
	Failed int
	Cached int
	Errors int
	Timing observ.Report
}

func Summarize(results []BatchResult) BatchSummary {
	s := BatchSummary{Files: len(results)}
	var reports []observ.Report
	for _, r := range results {
		if r.Result == nil {
			continue
		}
		if r.Result.Failed() {
			s.Failed++
		}
		if r.Cached {
			s.Cached++
		}
		s.Errors += r.Result.Bag.ErrorCount()
		if r.Result.Timing != nil {
			reports = append(reports, *r.Result.Timing)
		}
	}
	s.Timing = observ.Merge(reports...)
	return s
}
