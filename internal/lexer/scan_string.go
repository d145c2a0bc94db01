package lexer

import (
	"rxc/internal/diag"
	"rxc/internal/token"
)

// scanString scans "..." literals. Escapes are validated later by Unquote;
// here we only skip the escaped byte. A backslash before a newline continues
// the literal on the next line.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	return lx.finishQuoted(start, token.StringLit)
}

// scanCString scans c"..." literals.
func (lx *Lexer) scanCString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // c
	lx.cursor.Bump() // "
	return lx.finishQuoted(start, token.CStringLit)
}

func (lx *Lexer) finishQuoted(start Mark, kind token.Kind) token.Token {
	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '"':
			return lx.emit(kind, start)
		case '\\':
			lx.cursor.Bump()
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

// scanRawString scans r"..." and r#"..."# with any number of hashes.
func (lx *Lexer) scanRawString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // r
	hashes := 0
	for lx.cursor.Eat('#') {
		hashes++
	}
	lx.cursor.Bump() // "
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() != '"' {
			continue
		}
		n := 0
		for n < hashes && lx.cursor.Peek() == '#' {
			lx.cursor.Bump()
			n++
		}
		if n == hashes {
			return lx.emit(token.RawStringLit, start)
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated raw string literal")
	return tok
}

// scanChar scans 'x', '\n', '\u{1F600}'.
func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' {
			break
		}
		lx.cursor.Bump()
		if b == '\\' {
			lx.cursor.Bump()
			continue
		}
		if b == '\'' {
			tok := lx.emit(token.CharLit, start)
			if _, err := UnquoteChar(tok.Text); err != nil {
				lx.errLex(diag.LexBadChar, tok.Span, err.Error())
			}
			return tok
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexBadChar, tok.Span, "unterminated character literal")
	return tok
}
