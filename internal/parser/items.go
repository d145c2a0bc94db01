package parser

import (
	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/source"
	"rxc/internal/token"
)

// parseFnItem parses `fn name(params) -> T { body }`. A trait signature ends
// with ';' and has no body.
func (p *Parser) parseFnItem() (ast.ItemID, bool) {
	start := p.advance().Span // fn
	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	fn := ast.FnItem{Name: name, NameSpan: nameSpan, ReturnType: ast.NoTypeID, Body: ast.NoExprID}
	if !p.parseFnParams(&fn) {
		return ast.NoItemID, false
	}
	if p.eat(token.Arrow) {
		fn.ReturnType = p.parseType()
		if !fn.ReturnType.IsValid() {
			return ast.NoItemID, false
		}
	}
	switch {
	case p.at(token.LBrace):
		fn.Body = p.parseBlock()
		if !fn.Body.IsValid() {
			return ast.NoItemID, false
		}
	case p.eat(token.Semicolon):
	default:
		p.report(diag.SynUnexpectedToken, p.diagSpan(), "expected function body or `;`")
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewFn(start.Cover(p.lastSpan), fn), true
}

func (p *Parser) parseFnParams(fn *ast.FnItem) bool {
	if _, ok := p.expect(token.LParen, "expected `(` after function name"); !ok {
		return false
	}
	first := true
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if kind, mut, sp, isSelf := p.trySelfParam(); isSelf {
			if !first {
				p.report(diag.SynSelfParamPosition, sp, "`self` parameter is only allowed as the first parameter")
			} else {
				fn.Self, fn.SelfMut, fn.SelfSpan = kind, mut, sp
			}
		} else {
			param, ok := p.parseFnParam()
			if !ok {
				p.skipUntil(token.RParen, token.LBrace)
				break
			}
			fn.Params = append(fn.Params, param)
		}
		first = false
		if !p.eat(token.Comma) {
			break
		}
	}
	_, ok := p.expect(token.RParen, "expected `)` to close parameter list")
	return ok
}

// trySelfParam consumes `self`, `mut self`, `&self` or `&mut self`.
func (p *Parser) trySelfParam() (ast.SelfParamKind, bool, source.Span, bool) {
	toks := p.lx.PeekN(3)
	switch {
	case toks[0].Kind == token.KwSelfValue:
		sp := p.advance().Span
		return ast.SelfValue, false, sp, true
	case toks[0].Kind == token.KwMut && toks[1].Kind == token.KwSelfValue:
		start := p.advance().Span
		end := p.advance().Span
		return ast.SelfValue, true, start.Cover(end), true
	case toks[0].Kind == token.Amp && toks[1].Kind == token.KwSelfValue:
		start := p.advance().Span
		end := p.advance().Span
		return ast.SelfRef, false, start.Cover(end), true
	case toks[0].Kind == token.Amp && toks[1].Kind == token.KwMut && toks[2].Kind == token.KwSelfValue:
		start := p.advance().Span
		p.advance()
		end := p.advance().Span
		return ast.SelfRefMut, false, start.Cover(end), true
	}
	return ast.SelfNone, false, source.Span{}, false
}

func (p *Parser) parseFnParam() (ast.FnParam, bool) {
	start := p.lx.Peek().Span
	pat := p.parsePattern()
	if !pat.IsValid() {
		return ast.FnParam{}, false
	}
	if _, ok := p.expect(token.Colon, "expected `:` and a type after parameter pattern"); !ok {
		return ast.FnParam{}, false
	}
	typ := p.parseType()
	if !typ.IsValid() {
		return ast.FnParam{}, false
	}
	return ast.FnParam{Pattern: pat, Type: typ, Span: start.Cover(p.lastSpan)}, true
}

// parseStructItem parses `struct S;` or `struct S { a: T, ... }`.
func (p *Parser) parseStructItem() (ast.ItemID, bool) {
	start := p.advance().Span
	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	st := ast.StructItem{Name: name, NameSpan: nameSpan}
	if p.eat(token.Semicolon) {
		st.Unit = true
		return p.arenas.Items.NewStruct(start.Cover(p.lastSpan), st), true
	}
	if _, ok := p.expect(token.LBrace, "expected `{` or `;` after struct name"); !ok {
		return ast.NoItemID, false
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		p.skipAttributes()
		fieldName, fieldSpan, ok := p.parseIdent()
		if !ok {
			p.skipUntil(token.RBrace)
			break
		}
		if _, ok := p.expect(token.Colon, "expected `:` after field name"); !ok {
			p.skipUntil(token.RBrace)
			break
		}
		typ := p.parseType()
		if !typ.IsValid() {
			p.skipUntil(token.RBrace)
			break
		}
		st.Fields = append(st.Fields, ast.StructField{Name: fieldName, Type: typ, Span: fieldSpan.Cover(p.lastSpan)})
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, "expected `}` to close struct body"); !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewStruct(start.Cover(p.lastSpan), st), true
}

// parseEnumItem parses `enum E { A, B }` with unit variants.
func (p *Parser) parseEnumItem() (ast.ItemID, bool) {
	start := p.advance().Span
	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	en := ast.EnumItem{Name: name, NameSpan: nameSpan}
	if _, ok := p.expect(token.LBrace, "expected `{` after enum name"); !ok {
		return ast.NoItemID, false
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		p.skipAttributes()
		variant, sp, ok := p.parseIdent()
		if !ok {
			p.skipUntil(token.RBrace)
			break
		}
		en.Variants = append(en.Variants, ast.EnumVariant{Name: variant, Span: sp})
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, "expected `}` to close enum body"); !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewEnum(start.Cover(p.lastSpan), en), true
}

func (p *Parser) parseTraitItem() (ast.ItemID, bool) {
	start := p.advance().Span
	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	members, ok := p.parseAssocItems("trait")
	if !ok {
		return ast.NoItemID, false
	}
	tr := ast.TraitItem{Name: name, NameSpan: nameSpan, Members: members}
	return p.arenas.Items.NewTrait(start.Cover(p.lastSpan), tr), true
}

// parseImplItem parses `impl T { ... }` and `impl Trait for T { ... }`.
func (p *Parser) parseImplItem() (ast.ItemID, bool) {
	start := p.advance().Span
	im := ast.ImplItem{Trait: ast.NoTypeID}
	first := p.parseType()
	if !first.IsValid() {
		return ast.NoItemID, false
	}
	if p.eat(token.KwFor) {
		im.Trait = first
		im.Target = p.parseType()
		if !im.Target.IsValid() {
			return ast.NoItemID, false
		}
	} else {
		im.Target = first
	}
	members, ok := p.parseAssocItems("impl")
	if !ok {
		return ast.NoItemID, false
	}
	im.Members = members
	return p.arenas.Items.NewImpl(start.Cover(p.lastSpan), im), true
}

// parseAssocItems parses the braced body of an impl or trait.
func (p *Parser) parseAssocItems(owner string) ([]ast.ItemID, bool) {
	if _, ok := p.expect(token.LBrace, "expected `{` to open "+owner+" body"); !ok {
		return nil, false
	}
	var members []ast.ItemID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		p.skipAttributes()
		var (
			id ast.ItemID
			ok bool
		)
		switch p.lx.Peek().Kind {
		case token.KwFn:
			id, ok = p.parseFnItem()
		case token.KwConst:
			id, ok = p.parseConstItem()
		default:
			p.report(diag.SynUnexpectedToken, p.lx.Peek().Span, "expected `fn` or `const` in "+owner+" body")
		}
		if !ok {
			p.resyncAssoc()
			continue
		}
		members = append(members, id)
	}
	if _, ok := p.expect(token.RBrace, "expected `}` to close "+owner+" body"); !ok {
		return members, false
	}
	return members, true
}

func (p *Parser) resyncAssoc() {
	for !p.at(token.EOF) && !p.atAny(token.KwFn, token.KwConst, token.RBrace) {
		if p.advance().Kind == token.Semicolon {
			return
		}
	}
}

// parseConstItem parses `const NAME: T = value;`. Type and value are each
// optional at the syntax level.
func (p *Parser) parseConstItem() (ast.ItemID, bool) {
	start := p.advance().Span
	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	c := ast.ConstItem{Name: name, NameSpan: nameSpan, Type: ast.NoTypeID, Value: ast.NoExprID}
	if p.eat(token.Colon) {
		c.Type = p.parseType()
		if !c.Type.IsValid() {
			return ast.NoItemID, false
		}
	}
	if p.eat(token.Assign) {
		c.Value = p.parseExpr()
		if !c.Value.IsValid() {
			return ast.NoItemID, false
		}
	}
	if _, ok := p.expect(token.Semicolon, "expected `;` after constant"); !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewConst(start.Cover(p.lastSpan), c), true
}
