package parser

import (
	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/token"
)

// parsePattern parses `x`, `mut x`, `ref x`, `ref mut x`, `&p`, `&mut p`, `_`.
func (p *Parser) parsePattern() ast.PatternID {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Underscore:
		p.advance()
		return p.arenas.Patterns.NewWild(tok.Span)
	case token.Amp:
		p.advance()
		mut := p.eat(token.KwMut)
		inner := p.parsePattern()
		if !inner.IsValid() {
			return ast.NoPatternID
		}
		return p.arenas.Patterns.NewRef(tok.Span.Cover(p.lastSpan), mut, inner)
	case token.KwRef:
		p.advance()
		mut := p.eat(token.KwMut)
		name, sp, ok := p.parseIdent()
		if !ok {
			return ast.NoPatternID
		}
		return p.arenas.Patterns.NewIdent(tok.Span.Cover(sp), name, false, true, mut)
	case token.KwMut:
		p.advance()
		name, sp, ok := p.parseIdent()
		if !ok {
			return ast.NoPatternID
		}
		return p.arenas.Patterns.NewIdent(tok.Span.Cover(sp), name, true, false, false)
	case token.Ident:
		p.advance()
		return p.arenas.Patterns.NewIdent(tok.Span, p.arenas.Strings.Intern(tok.Text), false, false, false)
	}
	p.report(diag.SynExpectPattern, p.diagSpan(), "expected pattern, found `"+tok.Text+"`")
	return ast.NoPatternID
}
