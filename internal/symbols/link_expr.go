package symbols

import (
	"rxc/internal/ast"
	"rxc/internal/diag"
)

func (r *resolver) linkExpr(scope ScopeID, id ast.ExprID) {
	if !id.IsValid() {
		return
	}
	ex := r.b.Exprs
	switch e := ex.Get(id); e.Kind {
	case ast.ExprLiteral, ast.ExprUnderscore, ast.ExprContinue:
	case ast.ExprPath:
		p, _ := ex.Path(id)
		if sym, ok := r.resolveValuePath(scope, p.Path); ok {
			r.res.ExprSymbols[id] = sym
		}
	case ast.ExprGroup:
		g, _ := ex.Group(id)
		r.linkExpr(scope, g.Inner)
	case ast.ExprUnary:
		u, _ := ex.Unary(id)
		r.linkExpr(scope, u.Operand)
	case ast.ExprBinary:
		bin, _ := ex.Binary(id)
		r.linkExpr(scope, bin.Left)
		r.linkExpr(scope, bin.Right)
	case ast.ExprCast:
		c, _ := ex.Cast(id)
		r.linkExpr(scope, c.Value)
		r.linkType(scope, c.Type)
	case ast.ExprAssign:
		a, _ := ex.Assign(id)
		r.linkExpr(scope, a.Target)
		r.linkExpr(scope, a.Value)
	case ast.ExprBorrow:
		br, _ := ex.Borrow(id)
		r.linkExpr(scope, br.Value)
	case ast.ExprDeref:
		d, _ := ex.Deref(id)
		r.linkExpr(scope, d.Value)
	case ast.ExprCall:
		c, _ := ex.Call(id)
		r.linkExpr(scope, c.Callee)
		for _, a := range c.Args {
			r.linkExpr(scope, a)
		}
	case ast.ExprMethodCall:
		// the method name needs the receiver type and is bound by the checker
		m, _ := ex.MethodCall(id)
		r.linkExpr(scope, m.Receiver)
		for _, a := range m.Args {
			r.linkExpr(scope, a)
		}
	case ast.ExprField:
		f, _ := ex.Field(id)
		r.linkExpr(scope, f.Target)
	case ast.ExprIndex:
		ix, _ := ex.Index(id)
		r.linkExpr(scope, ix.Target)
		r.linkExpr(scope, ix.Index)
	case ast.ExprArray:
		arr, _ := ex.Array(id)
		for _, el := range arr.Elems {
			r.linkExpr(scope, el)
		}
	case ast.ExprArrayRepeat:
		rep, _ := ex.ArrayRepeat(id)
		r.linkExpr(scope, rep.Value)
		r.linkExpr(scope, rep.Count)
	case ast.ExprStruct:
		r.linkStructLit(scope, id)
	case ast.ExprBlock:
		blk, _ := ex.Block(id)
		r.linkBlock(scope, id, blk)
	case ast.ExprIf:
		i, _ := ex.If(id)
		r.linkExpr(scope, i.Cond)
		r.linkExpr(scope, i.Then)
		r.linkExpr(scope, i.Else)
	case ast.ExprLoop:
		l, _ := ex.Loop(id)
		r.linkExpr(scope, l.Body)
	case ast.ExprWhile:
		w, _ := ex.While(id)
		r.linkExpr(scope, w.Cond)
		r.linkExpr(scope, w.Body)
	case ast.ExprBreak:
		br, _ := ex.Break(id)
		r.linkExpr(scope, br.Value)
	case ast.ExprReturn:
		ret, _ := ex.Return(id)
		r.linkExpr(scope, ret.Value)
	default:
		panic("symbols: unhandled expression kind " + e.Kind.String())
	}
}

func (r *resolver) linkStructLit(scope ScopeID, id ast.ExprID) {
	s, _ := r.b.Exprs.Struct(id)
	for _, f := range s.Fields {
		r.linkExpr(scope, f.Value)
	}
	sym, ok := r.resolveTypePath(scope, s.Path)
	if !ok {
		return
	}
	r.res.ExprSymbols[id] = sym
	if r.table.Symbol(sym).Kind != SymbolStruct {
		return
	}
	fields := make([]SymbolID, len(s.Fields))
	for i, f := range s.Fields {
		fields[i], _ = r.table.Member(sym, NSField, f.Name)
	}
	r.res.StructFields[id] = fields
}

// resolveTypePath binds a path in type position. `Self` outside an impl
// or trait is left unbound for the self checker.
func (r *resolver) resolveTypePath(scope ScopeID, p ast.Path) (SymbolID, bool) {
	if len(p.Segments) == 1 && p.Segments[0].Kind == ast.SegSelfType && !p.Global {
		self := r.currentSelfType()
		return self, self.IsValid()
	}
	seg, ok := p.Single()
	if !ok {
		if p.Global && len(p.Segments) == 1 && p.Segments[0].Kind == ast.SegIdent {
			seg = p.Segments[0]
			scope = r.res.FileScope
		} else {
			if !r.hasSelfSegment(p) {
				r.errorf(diag.SemaUnresolvedSymbol, p.Span,
					"cannot find type `"+p.String(r.b.Strings)+"`: associated types are not supported").Emit()
			}
			return NoSymbolID, false
		}
	}
	if sym, ok := r.table.Lookup(scope, NSType, seg.Name); ok {
		return sym, true
	}
	if sym, ok := r.table.Lookup(scope, NSValue, seg.Name); ok {
		r.errorf(diag.SemaNotAType, seg.Span,
			"expected type, found "+r.table.Symbol(sym).Kind.String()+" `"+r.name(seg.Name)+"`").
			WithNote(r.table.Symbol(sym).Span, "declared here").
			Emit()
		return NoSymbolID, false
	}
	r.errorf(diag.SemaUnresolvedSymbol, seg.Span,
		"cannot find type `"+r.name(seg.Name)+"` in this scope").Emit()
	return NoSymbolID, false
}

// resolveValuePath binds a path in value position: a local, an item, a
// type name used as a constructor, or `Type::member`.
func (r *resolver) resolveValuePath(scope ScopeID, p ast.Path) (SymbolID, bool) {
	if r.hasSelfSegment(p) && !r.selfPathBindable(p) {
		return NoSymbolID, false
	}
	if p.Global {
		scope = r.res.FileScope
	}
	if len(p.Segments) == 1 {
		seg := p.Segments[0]
		switch seg.Kind {
		case ast.SegSelfValue:
			self := r.currentSelfValue()
			return self, self.IsValid()
		case ast.SegSelfType:
			self := r.currentSelfType()
			return self, self.IsValid()
		}
		if sym, ok := r.table.Lookup(scope, NSValue, seg.Name); ok {
			return sym, true
		}
		if sym, ok := r.table.Lookup(scope, NSType, seg.Name); ok {
			kind := r.table.Symbol(sym).Kind
			if kind == SymbolStruct || kind == SymbolEnum {
				return sym, true
			}
			r.errorf(diag.SemaNotAValue, seg.Span,
				"expected value, found "+kind.String()+" `"+r.name(seg.Name)+"`").Emit()
			return NoSymbolID, false
		}
		r.errorf(diag.SemaUnresolvedSymbol, seg.Span,
			"cannot find value `"+r.name(seg.Name)+"` in this scope").Emit()
		return NoSymbolID, false
	}

	head := p.Segments[0]
	var owner SymbolID
	if head.Kind == ast.SegSelfType {
		owner = r.currentSelfType()
	} else {
		sym, ok := r.table.Lookup(scope, NSType, head.Name)
		if !ok {
			r.errorf(diag.SemaUnresolvedSymbol, head.Span,
				"failed to resolve: use of undeclared type `"+r.name(head.Name)+"`").Emit()
			return NoSymbolID, false
		}
		owner = sym
	}
	if len(p.Segments) > 2 {
		r.errorf(diag.SemaUnresolvedSymbol, p.Segments[1].Span,
			"`"+r.table.Name(owner)+"` has no nested items").Emit()
		return NoSymbolID, false
	}
	last := p.Segments[1]
	if sym, ok := r.res.MethodLookup(owner, last.Name); ok {
		return sym, true
	}
	r.errorf(diag.SemaUnknownMember, last.Span,
		"no associated item named `"+r.name(last.Name)+"` found for `"+r.table.Name(owner)+"`").Emit()
	return NoSymbolID, false
}

func (r *resolver) hasSelfSegment(p ast.Path) bool {
	for _, seg := range p.Segments {
		if seg.Kind != ast.SegIdent {
			return true
		}
	}
	return false
}

// selfPathBindable reports whether the self/Self segments of p are in a
// legal position with a binding available. Anything else is reported by
// the self checker.
func (r *resolver) selfPathBindable(p ast.Path) bool {
	if p.Global {
		return false
	}
	for i, seg := range p.Segments {
		switch seg.Kind {
		case ast.SegSelfValue:
			if len(p.Segments) != 1 || !r.currentSelfValue().IsValid() {
				return false
			}
		case ast.SegSelfType:
			if i != 0 || !r.currentSelfType().IsValid() {
				return false
			}
		}
	}
	return true
}
