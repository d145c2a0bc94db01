// Package fuzz holds Go fuzz harnesses for the front end. They feed
// arbitrary bytes through the lexer, the parser and the full semantic
// pipeline and fail on panics or hangs.
package fuzz
