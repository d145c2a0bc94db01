package driver

import (
	"context"
	"errors"
	"fmt"

	"rxc/internal/ast"
	"rxc/internal/buildpipeline"
	"rxc/internal/diag"
	"rxc/internal/lexer"
	"rxc/internal/observ"
	"rxc/internal/sema"
	"rxc/internal/selfcheck"
	"rxc/internal/source"
	"rxc/internal/symbols"
	"rxc/internal/trace"
	"rxc/internal/types"
)

// DiagnoseResult is everything the pipeline produced for one file. Fields
// for passes that did not run are nil.
type DiagnoseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Bag     *diag.Bag

	Builder *ast.Builder
	ASTFile ast.FileID
	Types   *types.Interner
	Symbols *symbols.Result
	Sema    *sema.Result

	// StoppedAt names the stage that ended the run early: a syntax error,
	// a fail-fast error or a self/Self violation. Empty when every
	// requested stage ran.
	StoppedAt buildpipeline.Stage
	// Abort is the error that stopped a fail-fast pass.
	Abort  *diag.Error
	Timing *observ.Report
}

// Failed reports whether the file has errors.
func (r *DiagnoseResult) Failed() bool {
	return r.Abort != nil || r.Bag.HasErrors()
}

// Diagnose loads path and runs the pipeline over it. The error is non-nil
// only for I/O failures; everything about the source is in the bag.
func Diagnose(ctx context.Context, path string, opts DiagnoseOptions) (*DiagnoseResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.DisplayName == "" {
		opts.DisplayName = path
	}
	return diagnoseFile(ctx, fs, fs.Get(id), opts)
}

// DiagnoseSource runs the pipeline over in-memory content.
func DiagnoseSource(ctx context.Context, name string, content []byte, opts DiagnoseOptions) (*DiagnoseResult, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, content)
	if opts.DisplayName == "" {
		opts.DisplayName = name
	}
	return diagnoseFile(ctx, fs, fs.Get(id), opts)
}

func diagnoseFile(ctx context.Context, fs *source.FileSet, file *source.File, opts DiagnoseOptions) (res *DiagnoseResult, err error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "diagnose", 0).With("file", file.Path)
	defer func() {
		if res != nil {
			span.With("diagnostics", fmt.Sprint(res.Bag.Len()))
		}
		span.End("")
	}()

	res = &DiagnoseResult{FileSet: fs, File: file, Bag: diag.NewBag(opts.MaxDiagnostics)}
	// identical reports from overlapping passes collapse to one
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	ph := newPhases(opts)
	defer func() { res.Timing = ph.report() }()

	if !opts.reaches(DiagnoseStageSyntax) {
		ph.run(buildpipeline.StageLoad, func() string {
			toks := lexer.New(file, lexer.Options{Reporter: rep}).All()
			return fmt.Sprintf("tokens=%d", len(toks))
		})
		return res, nil
	}

	ph.run(buildpipeline.StageParse, func() string {
		res.Builder, res.ASTFile, err = parseFile(ctx, file, res.Bag, opts.MaxDiagnostics)
		if err != nil {
			return "failed"
		}
		return fmt.Sprintf("items=%d", len(res.Builder.Files.Get(res.ASTFile).Items))
	})
	if err != nil {
		return nil, err
	}
	if res.Bag.HasErrors() {
		res.StoppedAt = buildpipeline.StageParse
		return res, nil
	}
	if !opts.reaches(DiagnoseStageSema) {
		return res, nil
	}

	res.Types = types.NewInterner(opts.PointerWidth)

	ph.run(buildpipeline.StageResolve, func() string {
		var syms symbols.Result
		syms, err = symbols.ResolveFile(ctx, res.Builder, res.ASTFile, symbols.Options{
			Reporter:     rep,
			ThrowOnError: opts.ThrowOnError,
			Prelude:      sema.Prelude(res.Types),
		})
		res.Symbols = &syms
		return fmt.Sprintf("symbols=%d", syms.Table.SymbolCount())
	})
	if stop, ferr := res.abortOn(buildpipeline.StageResolve, err); stop {
		return res, ferr
	}

	ph.run(buildpipeline.StageSelfCheck, func() string {
		err = selfcheck.Check(ctx, res.Builder, res.ASTFile, selfcheck.Options{Reporter: rep})
		return ""
	})
	if stop, ferr := res.abortOn(buildpipeline.StageSelfCheck, err); stop {
		return res, ferr
	}

	ph.run(buildpipeline.StageSema, func() string {
		var checked sema.Result
		checked, err = sema.Check(ctx, res.Builder, res.ASTFile, res.Symbols, res.Types, sema.Options{
			Reporter:     rep,
			ThrowOnError: opts.ThrowOnError,
		})
		res.Sema = &checked
		return fmt.Sprintf("exprs=%d", checked.ExprCount())
	})
	if stop, ferr := res.abortOn(buildpipeline.StageSema, err); stop {
		return res, ferr
	}
	return res, nil
}

// abortOn records a pass error. Diagnostic errors stop the pipeline
// without failing the call; anything else is returned.
func (r *DiagnoseResult) abortOn(stage buildpipeline.Stage, err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	r.StoppedAt = stage
	var de *diag.Error
	if errors.As(err, &de) {
		r.Abort = de
		return true, nil
	}
	return true, fmt.Errorf("%s: %w", stage, err)
}
