package lexer

import (
	"rxc/internal/diag"
	"rxc/internal/source"
)

type Options struct {
	Reporter diag.Reporter // nil: errors are dropped, lexing continues
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
