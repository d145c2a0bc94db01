package lexer

import (
	"rxc/internal/diag"
	"rxc/internal/token"
)

// collectLeadingTrivia gathers whitespace and comments before the next token.
// Block comments nest.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		switch b := lx.cursor.Peek(); {
		case b == ' ' || b == '\t' || b == '\r':
			for c := lx.cursor.Peek(); c == ' ' || c == '\t' || c == '\r'; c = lx.cursor.Peek() {
				lx.cursor.Bump()
			}
			lx.keep(token.TriviaSpace, start)
		case b == '\n':
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.keep(token.TriviaNewline, start)
		case b == '/' && lx.cursor.PeekAt(1) == '/':
			kind := token.TriviaLineComment
			if lx.cursor.PeekAt(2) == '/' {
				kind = token.TriviaDocLine
			}
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			lx.keep(kind, start)
		case b == '/' && lx.cursor.PeekAt(1) == '*':
			lx.scanBlockComment(start)
		default:
			return
		}
	}
}

func (lx *Lexer) scanBlockComment(start Mark) {
	lx.cursor.Bump()
	lx.cursor.Bump()
	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		switch {
		case lx.tryOp("/*"):
			depth++
		case lx.tryOp("*/"):
			depth--
		default:
			lx.cursor.Bump()
		}
	}
	if depth > 0 {
		lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
	}
	lx.keep(token.TriviaBlockComment, start)
}

func (lx *Lexer) keep(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])})
}
