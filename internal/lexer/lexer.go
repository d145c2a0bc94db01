package lexer

import (
	"rxc/internal/source"
	"rxc/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   []token.Token
	hold   []token.Trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{file: file, cursor: NewCursor(file), opts: opts}
}

// File returns the file being lexed.
func (lx *Lexer) File() *source.File { return lx.file }

// Next returns the next significant token with its leading trivia.
// After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if len(lx.look) > 0 {
		tok := lx.look[0]
		lx.look = lx.look[1:]
		return tok
	}
	return lx.scan()
}

func (lx *Lexer) scan() token.Token {
	lx.collectLeadingTrivia()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token
	switch {
	case ch == 'r' && (lx.cursor.PeekAt(1) == '"' || (lx.cursor.PeekAt(1) == '#' && lx.rawHashesThenQuote())):
		tok = lx.scanRawString()
	case ch == 'c' && lx.cursor.PeekAt(1) == '"':
		tok = lx.scanCString()
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	case ch == '\'':
		tok = lx.scanChar()
	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	return lx.PeekN(1)[0]
}

// PeekN returns the next n tokens without consuming them. Past the end of
// input the slice is padded with EOF tokens.
func (lx *Lexer) PeekN(n int) []token.Token {
	for len(lx.look) < n {
		lx.look = append(lx.look, lx.scan())
	}
	return lx.look[:n]
}

// All drains the lexer, EOF included.
func (lx *Lexer) All() []token.Token {
	var out []token.Token
	for {
		t := lx.Next()
		out = append(out, t)
		if t.Kind == token.EOF {
			return out
		}
	}
}

// EmptySpan is a zero-width span at the current position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) emit(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) rawHashesThenQuote() bool {
	n := uint32(1)
	for lx.cursor.PeekAt(n) == '#' {
		n++
	}
	return lx.cursor.PeekAt(n) == '"'
}
