package parser

import (
	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/token"
)

func (p *Parser) parsePrimary() ast.ExprID {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.IntLit, token.CharLit, token.StringLit, token.RawStringLit, token.CStringLit, token.KwTrue, token.KwFalse:
		return p.parseLiteral()
	case token.Ident, token.KwSelfValue, token.KwSelfType, token.ColonColon:
		return p.parsePathOrStruct()
	case token.Underscore:
		p.advance()
		return p.arenas.Exprs.NewUnderscore(tok.Span)
	case token.LParen:
		return p.parseParen()
	case token.LBracket:
		return p.parseArrayLit()
	case token.LBrace, token.KwIf, token.KwLoop, token.KwWhile:
		return p.parseBlockLike()
	case token.KwBreak:
		p.advance()
		value := ast.NoExprID
		if canStartExpr(p.lx.Peek().Kind) && !(p.noStruct > 0 && p.at(token.LBrace)) {
			value = p.parseExpr()
			if !value.IsValid() {
				return ast.NoExprID
			}
		}
		return p.arenas.Exprs.NewBreak(tok.Span.Cover(p.lastSpan), value)
	case token.KwContinue:
		p.advance()
		return p.arenas.Exprs.NewContinue(tok.Span)
	case token.KwReturn:
		p.advance()
		value := ast.NoExprID
		if canStartExpr(p.lx.Peek().Kind) {
			value = p.parseExpr()
			if !value.IsValid() {
				return ast.NoExprID
			}
		}
		return p.arenas.Exprs.NewReturn(tok.Span.Cover(p.lastSpan), value)
	}
	p.report(diag.SynExpectExpression, p.diagSpan(), "expected expression, found `"+tok.Text+"`")
	return ast.NoExprID
}

func (p *Parser) parseBlockLike() ast.ExprID {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.KwIf:
		return p.parseIf()
	case token.KwLoop:
		p.advance()
		body := p.parseBlock()
		if !body.IsValid() {
			return ast.NoExprID
		}
		return p.arenas.Exprs.NewLoop(tok.Span.Cover(p.lastSpan), body)
	case token.KwWhile:
		p.advance()
		cond := p.parseCond()
		if !cond.IsValid() {
			return ast.NoExprID
		}
		body := p.parseBlock()
		if !body.IsValid() {
			return ast.NoExprID
		}
		return p.arenas.Exprs.NewWhile(tok.Span.Cover(p.lastSpan), cond, body)
	}
	p.report(diag.SynExpectExpression, p.diagSpan(), "expected block")
	return ast.NoExprID
}

// parseIf parses `if c { } else if c { } else { }`.
func (p *Parser) parseIf() ast.ExprID {
	start := p.advance().Span
	cond := p.parseCond()
	if !cond.IsValid() {
		return ast.NoExprID
	}
	then := p.parseBlock()
	if !then.IsValid() {
		return ast.NoExprID
	}
	els := ast.NoExprID
	if p.eat(token.KwElse) {
		if p.at(token.KwIf) {
			els = p.parseIf()
		} else {
			els = p.parseBlock()
		}
		if !els.IsValid() {
			return ast.NoExprID
		}
	}
	return p.arenas.Exprs.NewIf(start.Cover(p.lastSpan), cond, then, els)
}

// parseParen parses `()` or a parenthesized expression.
func (p *Parser) parseParen() ast.ExprID {
	open := p.advance()
	if p.eat(token.RParen) {
		return p.arenas.Exprs.NewLiteral(open.Span.Cover(p.lastSpan), ast.ExprLiteralData{
			Kind: ast.LitUnit,
			Raw:  p.arenas.Strings.Intern("()"),
		})
	}
	inner := p.withStructs(p.parseExpr)
	if !inner.IsValid() {
		return ast.NoExprID
	}
	if _, ok := p.expect(token.RParen, "expected `)`"); !ok {
		return ast.NoExprID
	}
	return p.arenas.Exprs.NewGroup(open.Span.Cover(p.lastSpan), inner)
}

// parseArrayLit parses `[a, b, c]` and `[v; n]`.
func (p *Parser) parseArrayLit() ast.ExprID {
	open := p.advance()
	saved := p.noStruct
	p.noStruct = 0
	defer func() { p.noStruct = saved }()

	if p.eat(token.RBracket) {
		return p.arenas.Exprs.NewArray(open.Span.Cover(p.lastSpan), nil)
	}
	first := p.parseExpr()
	if !first.IsValid() {
		return ast.NoExprID
	}
	if p.eat(token.Semicolon) {
		count := p.parseExpr()
		if !count.IsValid() {
			return ast.NoExprID
		}
		if _, ok := p.expect(token.RBracket, "expected `]` after repeat count"); !ok {
			return ast.NoExprID
		}
		return p.arenas.Exprs.NewArrayRepeat(open.Span.Cover(p.lastSpan), first, count)
	}
	elems := []ast.ExprID{first}
	for p.eat(token.Comma) {
		if p.at(token.RBracket) {
			break
		}
		elem := p.parseExpr()
		if !elem.IsValid() {
			return ast.NoExprID
		}
		elems = append(elems, elem)
	}
	if _, ok := p.expect(token.RBracket, "expected `]` to close array"); !ok {
		return ast.NoExprID
	}
	return p.arenas.Exprs.NewArray(open.Span.Cover(p.lastSpan), elems)
}

// parsePathOrStruct parses a path expression, or `Path { f: e, ... }` when
// struct literals are allowed here.
func (p *Parser) parsePathOrStruct() ast.ExprID {
	path, ok := p.parsePath()
	if !ok {
		return ast.NoExprID
	}
	if p.at(token.LBrace) && p.noStruct == 0 && !path.IsSelfValue() && p.looksLikeStructBody() {
		return p.parseStructLit(path)
	}
	return p.arenas.Exprs.NewPath(path.Span, path)
}

// looksLikeStructBody distinguishes `S { a: 1 }` and `S {}` from a path
// followed by an unrelated block.
func (p *Parser) looksLikeStructBody() bool {
	toks := p.lx.PeekN(3)
	if toks[1].Kind == token.RBrace {
		return true
	}
	return toks[1].Kind == token.Ident && toks[2].Kind == token.Colon
}

func (p *Parser) parseStructLit(path ast.Path) ast.ExprID {
	p.advance() // {
	var fields []ast.StructLitField
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		name, nameSpan, ok := p.parseIdent()
		if !ok {
			return ast.NoExprID
		}
		if _, ok := p.expect(token.Colon, "expected `:` after field name"); !ok {
			return ast.NoExprID
		}
		value := p.parseExpr()
		if !value.IsValid() {
			return ast.NoExprID
		}
		fields = append(fields, ast.StructLitField{Name: name, NameSpan: nameSpan, Value: value})
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, "expected `}` to close struct literal"); !ok {
		return ast.NoExprID
	}
	return p.arenas.Exprs.NewStruct(path.Span.Cover(p.lastSpan), path, fields)
}
