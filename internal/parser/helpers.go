package parser

import (
	"rxc/internal/diag"
	"rxc/internal/source"
	"rxc/internal/token"
)

// advance consumes the next token and remembers its span.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// eat consumes the next token when it has kind k.
func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// diagSpan points at the next token, or just past the last one at EOF.
func (p *Parser) diagSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

func (p *Parser) expect(k token.Kind, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	code := diag.SynUnexpectedToken
	switch k {
	case token.Semicolon:
		code = diag.SynExpectSemicolon
	case token.RParen, token.RBrace, token.RBracket:
		code = diag.SynUnclosedDelimiter
	}
	sp := p.diagSpan()
	p.report(code, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	p.errors++
	if p.opts.Reporter != nil && !p.tooManyErrors() {
		p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

func (p *Parser) tooManyErrors() bool {
	return p.opts.MaxErrors != 0 && p.errors > p.opts.MaxErrors
}

// skipUntil advances to one of kinds (not consumed) or EOF.
func (p *Parser) skipUntil(kinds ...token.Kind) {
	for !p.at(token.EOF) && !p.atAny(kinds...) {
		p.advance()
	}
}
