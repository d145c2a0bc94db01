// Package driver runs the front end over source files: lexer, parser,
// resolver, self checker and type checker, in that order. Batch runs fan
// files out over a bounded worker pool and can answer unchanged files from
// an on-disk diagnostic cache.
package driver

import (
	"rxc/internal/buildpipeline"
)

// DiagnoseStage selects how far the pipeline runs.
type DiagnoseStage string

const (
	DiagnoseStageTokenize DiagnoseStage = "tokenize"
	DiagnoseStageSyntax   DiagnoseStage = "syntax"
	DiagnoseStageSema     DiagnoseStage = "sema"
	DiagnoseStageAll      DiagnoseStage = "all"
)

// ParseStage validates a --stage value.
func ParseStage(s string) (DiagnoseStage, bool) {
	switch st := DiagnoseStage(s); st {
	case DiagnoseStageTokenize, DiagnoseStageSyntax, DiagnoseStageSema, DiagnoseStageAll:
		return st, true
	case "":
		return DiagnoseStageAll, true
	}
	return "", false
}

// DiagnoseOptions configures one pipeline run.
type DiagnoseOptions struct {
	Stage          DiagnoseStage
	MaxDiagnostics int
	// ThrowOnError stops resolution and type checking at the first error.
	ThrowOnError bool
	// PointerWidth is the bit width of usize; 0 means 64.
	PointerWidth  uint8
	EnableTimings bool
	PhaseObserver PhaseObserver
	// Progress receives per-stage events keyed by DisplayName.
	Progress    buildpipeline.ProgressSink
	DisplayName string
}

func (o DiagnoseOptions) stage() DiagnoseStage {
	if o.Stage == "" {
		return DiagnoseStageAll
	}
	return o.Stage
}

func (o DiagnoseOptions) reaches(st DiagnoseStage) bool {
	order := map[DiagnoseStage]int{
		DiagnoseStageTokenize: 0,
		DiagnoseStageSyntax:   1,
		DiagnoseStageSema:     2,
		DiagnoseStageAll:      2,
	}
	return order[o.stage()] >= order[st]
}
