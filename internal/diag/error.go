package diag

import "rxc/internal/source"

// Error is a diagnostic surfaced as a Go error by fail-fast passes.
type Error struct {
	Diagnostic Diagnostic
}

func (e *Error) Error() string {
	return e.Diagnostic.Code.ID() + ": " + e.Diagnostic.Message
}

// FailFast forwards to Next and then aborts the running pass on the first
// error-severity diagnostic. The pass entry point must defer Catch.
type FailFast struct {
	Next Reporter
}

func (f FailFast) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if f.Next != nil {
		f.Next.Report(code, sev, primary, msg, notes)
	}
	if sev < SevError {
		return
	}
	panic(&Error{Diagnostic: Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	}})
}

// Catch converts an *Error panic raised by FailFast into *errp.
// Any other panic is re-raised untouched.
//
//	func run() (err error) {
//		defer diag.Catch(&err)
//		...
//	}
func Catch(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(*Error); ok {
		*errp = e
		return
	}
	panic(r)
}

// Raise aborts the running pass with d regardless of the reporter mode.
// Used by checkers that are always fail-fast.
func Raise(d Diagnostic) {
	panic(&Error{Diagnostic: d})
}
