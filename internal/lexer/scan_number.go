package lexer

import (
	"slices"

	"rxc/internal/diag"
	"rxc/internal/token"
)

// scanNumber handles 123, 1_000, 0x1F, 0o17, 0b1010 and an optional
// i32/u32/usize/isize suffix. Any other alphabetic tail is reported.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	digit := isDec
	if lx.cursor.Peek() == '0' {
		prefixed := true
		switch lx.cursor.PeekAt(1) {
		case 'x', 'X':
			digit = isHex
		case 'o', 'O':
			digit = func(b byte) bool { return b >= '0' && b <= '7' }
		case 'b', 'B':
			digit = func(b byte) bool { return b == '0' || b == '1' }
		default:
			prefixed = false
		}
		if prefixed {
			lx.cursor.Bump()
			lx.cursor.Bump()
		}
	}

	digits := 0
	for {
		b := lx.cursor.Peek()
		if b == '_' {
			lx.cursor.Bump()
			continue
		}
		if !digit(b) {
			break
		}
		lx.cursor.Bump()
		digits++
	}
	if digits == 0 {
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexBadNumber, tok.Span, "expected digits in number literal")
		return tok
	}

	if isIdentStartByte(lx.cursor.Peek()) {
		sfx := lx.cursor.Mark()
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(sfx)
		suffix := string(lx.file.Content[sp.Start:sp.End])
		if !slices.Contains(token.IntSuffixes, suffix) {
			lx.errLex(diag.LexBadSuffix, sp, "invalid suffix `"+suffix+"` for number literal")
		}
	}
	return lx.emit(token.IntLit, start)
}
