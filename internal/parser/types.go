package parser

import (
	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/token"
)

// parseType parses a type expression:
//
//	Path | Self | &T | &mut T | [T; N] | () | ! | _
func (p *Parser) parseType() ast.TypeID {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Amp, token.AndAnd:
		p.advance()
		if tok.Kind == token.AndAnd {
			// `&&T` is a reference to a reference
			inner := p.parseRefTail(tok)
			if !inner.IsValid() {
				return ast.NoTypeID
			}
			return p.arenas.Types.NewRef(tok.Span.Cover(p.lastSpan), false, inner)
		}
		return p.parseRefTail(tok)
	case token.LBracket:
		p.advance()
		elem := p.parseType()
		if !elem.IsValid() {
			return ast.NoTypeID
		}
		if _, ok := p.expect(token.Semicolon, "expected `;` and a length in array type"); !ok {
			return ast.NoTypeID
		}
		length := p.parseExpr()
		if !length.IsValid() {
			return ast.NoTypeID
		}
		if _, ok := p.expect(token.RBracket, "expected `]` to close array type"); !ok {
			return ast.NoTypeID
		}
		return p.arenas.Types.NewArray(tok.Span.Cover(p.lastSpan), elem, length)
	case token.LParen:
		p.advance()
		if _, ok := p.expect(token.RParen, "only the unit type `()` is supported"); !ok {
			return ast.NoTypeID
		}
		return p.arenas.Types.NewSimple(ast.TypeExprUnit, tok.Span.Cover(p.lastSpan))
	case token.Bang:
		p.advance()
		return p.arenas.Types.NewSimple(ast.TypeExprNever, tok.Span)
	case token.Underscore:
		p.advance()
		return p.arenas.Types.NewSimple(ast.TypeExprInfer, tok.Span)
	case token.Ident, token.KwSelfType, token.ColonColon:
		path, ok := p.parsePath()
		if !ok {
			return ast.NoTypeID
		}
		return p.arenas.Types.NewPath(path.Span, path)
	}
	p.report(diag.SynExpectType, p.diagSpan(), "expected type, found `"+tok.Text+"`")
	return ast.NoTypeID
}

func (p *Parser) parseRefTail(amp token.Token) ast.TypeID {
	mut := p.eat(token.KwMut)
	elem := p.parseType()
	if !elem.IsValid() {
		return ast.NoTypeID
	}
	return p.arenas.Types.NewRef(amp.Span.Cover(p.lastSpan), mut, elem)
}
