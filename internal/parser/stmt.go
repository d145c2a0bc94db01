package parser

import (
	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/token"
)

// parseBlock parses `{ stmt* tail? }`. An expression that ends the block
// without ';' becomes the tail.
func (p *Parser) parseBlock() ast.ExprID {
	open, ok := p.expect(token.LBrace, "expected `{`")
	if !ok {
		return ast.NoExprID
	}
	// struct literals are allowed again inside braces
	saved := p.noStruct
	p.noStruct = 0
	defer func() { p.noStruct = saved }()

	var stmts []ast.StmtID
	tail := ast.NoExprID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.tooManyErrors() {
			break
		}
		if tail.IsValid() {
			// previous expression was block-like and not a tail after all
			stmts = append(stmts, p.arenas.Stmts.NewExpr(p.arenas.Exprs.Get(tail).Span, tail, false))
			tail = ast.NoExprID
		}
		stmt, expr, ok := p.parseStmt()
		if !ok {
			p.resyncStmt()
			continue
		}
		if stmt.IsValid() {
			stmts = append(stmts, stmt)
			continue
		}
		tail = expr
	}
	if _, ok := p.expect(token.RBrace, "expected `}` to close block"); !ok {
		return ast.NoExprID
	}
	return p.arenas.Exprs.NewBlock(open.Span.Cover(p.lastSpan), stmts, tail)
}

// parseStmt returns either a statement or, for an expression that is not
// terminated by ';', the expression itself as a tail candidate.
func (p *Parser) parseStmt() (ast.StmtID, ast.ExprID, bool) {
	tok := p.lx.Peek()
	switch {
	case tok.Kind == token.Semicolon:
		p.advance()
		return p.arenas.Stmts.NewEmpty(tok.Span), ast.NoExprID, true
	case tok.Kind == token.KwLet:
		id, ok := p.parseLet()
		return id, ast.NoExprID, ok
	case isItemStart(tok.Kind):
		item, ok := p.parseItem()
		if !ok {
			return ast.NoStmtID, ast.NoExprID, false
		}
		return p.arenas.Stmts.NewItem(p.arenas.Items.Get(item).Span, item), ast.NoExprID, true
	}

	var expr ast.ExprID
	if isBlockLikeStart(tok.Kind) {
		// block-like statements do not continue into binary operators
		expr = p.parseBlockLikeStmtExpr()
	} else {
		expr = p.parseExpr()
	}
	if !expr.IsValid() {
		return ast.NoStmtID, ast.NoExprID, false
	}
	span := p.arenas.Exprs.Get(expr).Span
	switch {
	case p.eat(token.Semicolon):
		return p.arenas.Stmts.NewExpr(span.Cover(p.lastSpan), expr, true), ast.NoExprID, true
	case p.at(token.RBrace):
		return ast.NoStmtID, expr, true
	case p.arenas.Exprs.IsBlockLike(expr):
		return ast.NoStmtID, expr, true
	}
	p.report(diag.SynExpectSemicolon, p.diagSpan(), "expected `;` after expression")
	return ast.NoStmtID, ast.NoExprID, false
}

func isBlockLikeStart(k token.Kind) bool {
	switch k {
	case token.LBrace, token.KwIf, token.KwLoop, token.KwWhile:
		return true
	}
	return false
}

// parseBlockLikeStmtExpr parses a block-like expression in statement
// position. Method calls and field accesses may still follow it.
func (p *Parser) parseBlockLikeStmtExpr() ast.ExprID {
	expr := p.parseBlockLike()
	if !expr.IsValid() {
		return ast.NoExprID
	}
	if p.atAny(token.Dot, token.LBracket) {
		expr = p.parsePostfixOps(expr)
		if expr.IsValid() && p.lx.Peek().Kind.IsAssignOp() {
			return p.parseAssignTail(expr)
		}
	}
	return expr
}

// parseLet parses `let pat (: T)? (= e)? ;`.
func (p *Parser) parseLet() (ast.StmtID, bool) {
	start := p.advance().Span
	pat := p.parsePattern()
	if !pat.IsValid() {
		return ast.NoStmtID, false
	}
	typ := ast.NoTypeID
	if p.eat(token.Colon) {
		typ = p.parseType()
		if !typ.IsValid() {
			return ast.NoStmtID, false
		}
	}
	value := ast.NoExprID
	if p.eat(token.Assign) {
		value = p.parseExpr()
		if !value.IsValid() {
			return ast.NoStmtID, false
		}
	}
	if _, ok := p.expect(token.Semicolon, "expected `;` after let statement"); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewLet(start.Cover(p.lastSpan), pat, typ, value), true
}

// resyncStmt skips past the next ';' or up to the closing '}'.
func (p *Parser) resyncStmt() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
