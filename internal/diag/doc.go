// Package diag defines the diagnostic model shared by every pipeline phase.
//
// A Diagnostic carries a Severity, a stable numeric Code, a short message, the
// primary source.Span and optional notes pointing at related locations.
// Producers never format or print; they hand diagnostics to a Reporter.
// BagReporter collects them into a Bag; rendering lives in internal/diagfmt.
//
// Code ranges:
//
//	1000-1999  lexer
//	2000-2999  parser
//	3000-3099  name resolution
//	3100-3199  self/Self context
//	3200-3299  type checking
//	3300-3399  constant evaluation
//	3400-3499  mutability and borrows
//	4000-4999  I/O
//	5000-5999  project configuration
//
// Fail-fast runs wrap their reporter with FailFast. The first error is then
// raised as an *Error panic that the pass entry point converts back into an
// ordinary error with Catch.
package diag
