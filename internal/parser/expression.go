package parser

import (
	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/token"
)

// parseExpr parses a full expression including assignment.
func (p *Parser) parseExpr() ast.ExprID {
	lhs := p.parseBinaryExpr(precLogicalOr)
	if !lhs.IsValid() {
		return ast.NoExprID
	}
	if p.lx.Peek().Kind.IsAssignOp() {
		return p.parseAssignTail(lhs)
	}
	return lhs
}

func (p *Parser) parseAssignTail(target ast.ExprID) ast.ExprID {
	opTok := p.advance()
	value := p.parseExpr()
	if !value.IsValid() {
		return ast.NoExprID
	}
	data := ast.ExprAssignData{Target: target, Value: value}
	if op, ok := compoundOps[opTok.Kind]; ok {
		data.Compound, data.Op = true, op
	}
	span := p.arenas.Exprs.Get(target).Span.Cover(p.lastSpan)
	return p.arenas.Exprs.NewAssign(span, data)
}

// parseBinaryExpr implements precedence climbing over binaryOps and `as`.
func (p *Parser) parseBinaryExpr(minPrec int) ast.ExprID {
	left := p.parseUnaryExpr()
	if !left.IsValid() {
		return ast.NoExprID
	}
	lastCmp := false
	for {
		tok := p.lx.Peek()
		if tok.Kind == token.KwAs {
			if precCast < minPrec {
				break
			}
			p.advance()
			typ := p.parseType()
			if !typ.IsValid() {
				return ast.NoExprID
			}
			left = p.arenas.Exprs.NewCast(p.arenas.Exprs.Get(left).Span.Cover(p.lastSpan), left, typ)
			continue
		}
		info, ok := binaryOps[tok.Kind]
		if !ok || info.prec < minPrec {
			break
		}
		if info.op.IsComparison() {
			if lastCmp {
				p.report(diag.SynUnexpectedToken, tok.Span, "comparison operators cannot be chained")
				return ast.NoExprID
			}
			lastCmp = true
		}
		p.advance()
		right := p.parseBinaryExpr(info.prec + 1)
		if !right.IsValid() {
			return ast.NoExprID
		}
		span := p.arenas.Exprs.Get(left).Span.Cover(p.arenas.Exprs.Get(right).Span)
		left = p.arenas.Exprs.NewBinary(span, info.op, left, right)
	}
	return left
}

// parseUnaryExpr handles prefix `-`, `!`, `*`, `&`, `&mut` and `&&`.
func (p *Parser) parseUnaryExpr() ast.ExprID {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Minus, token.Bang, token.Star:
		p.advance()
		operand := p.parseUnaryExpr()
		if !operand.IsValid() {
			return ast.NoExprID
		}
		span := tok.Span.Cover(p.arenas.Exprs.Get(operand).Span)
		switch tok.Kind {
		case token.Minus:
			return p.arenas.Exprs.NewUnary(span, ast.UnaryNeg, operand)
		case token.Bang:
			return p.arenas.Exprs.NewUnary(span, ast.UnaryNot, operand)
		default:
			return p.arenas.Exprs.NewDeref(span, operand)
		}
	case token.Amp, token.AndAnd:
		p.advance()
		mut := p.eat(token.KwMut)
		operand := p.parseUnaryExpr()
		if !operand.IsValid() {
			return ast.NoExprID
		}
		span := tok.Span.Cover(p.arenas.Exprs.Get(operand).Span)
		expr := p.arenas.Exprs.NewBorrow(span, mut, operand)
		if tok.Kind == token.AndAnd {
			expr = p.arenas.Exprs.NewBorrow(span, false, expr)
		}
		return expr
	}
	primary := p.parsePrimary()
	if !primary.IsValid() {
		return ast.NoExprID
	}
	return p.parsePostfixOps(primary)
}

// parsePostfixOps applies calls, method calls, field accesses and indexing.
func (p *Parser) parsePostfixOps(expr ast.ExprID) ast.ExprID {
	for {
		start := p.arenas.Exprs.Get(expr).Span
		switch p.lx.Peek().Kind {
		case token.LParen:
			args, ok := p.parseArgs()
			if !ok {
				return ast.NoExprID
			}
			expr = p.arenas.Exprs.NewCall(start.Cover(p.lastSpan), expr, args)
		case token.LBracket:
			p.advance()
			index := p.withStructs(p.parseExpr)
			if !index.IsValid() {
				return ast.NoExprID
			}
			if _, ok := p.expect(token.RBracket, "expected `]` after index"); !ok {
				return ast.NoExprID
			}
			expr = p.arenas.Exprs.NewIndex(start.Cover(p.lastSpan), expr, index)
		case token.Dot:
			p.advance()
			name, nameSpan, ok := p.parseIdent()
			if !ok {
				return ast.NoExprID
			}
			if p.at(token.LParen) {
				args, ok := p.parseArgs()
				if !ok {
					return ast.NoExprID
				}
				expr = p.arenas.Exprs.NewMethodCall(start.Cover(p.lastSpan), ast.ExprMethodCallData{
					Receiver: expr, Name: name, NameSpan: nameSpan, Args: args,
				})
				continue
			}
			expr = p.arenas.Exprs.NewField(start.Cover(p.lastSpan), expr, name, nameSpan)
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgs() ([]ast.ExprID, bool) {
	p.advance() // (
	saved := p.noStruct
	p.noStruct = 0
	defer func() { p.noStruct = saved }()

	var args []ast.ExprID
	for !p.at(token.RParen) && !p.at(token.EOF) {
		arg := p.parseExpr()
		if !arg.IsValid() {
			return nil, false
		}
		args = append(args, arg)
		if !p.eat(token.Comma) {
			break
		}
	}
	_, ok := p.expect(token.RParen, "expected `)` to close argument list")
	return args, ok
}

// withStructs runs fn with struct literals re-enabled.
func (p *Parser) withStructs(fn func() ast.ExprID) ast.ExprID {
	saved := p.noStruct
	p.noStruct = 0
	defer func() { p.noStruct = saved }()
	return fn()
}

// parseCond parses an if/while condition, where `Name {` starts the body.
func (p *Parser) parseCond() ast.ExprID {
	p.noStruct++
	defer func() { p.noStruct-- }()
	return p.parseExpr()
}

func canStartExpr(k token.Kind) bool {
	switch k {
	case token.Semicolon, token.RBrace, token.RParen, token.RBracket, token.Comma, token.EOF:
		return false
	}
	return true
}
