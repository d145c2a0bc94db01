package symbols

import "rxc/internal/ast"

// linkItem is the second pass for one item: it opens the item's scopes,
// declares parameters and locals in order and binds every reference.
func (r *resolver) linkItem(scope ScopeID, id ast.ItemID) {
	item := r.b.Items.Get(id)
	switch item.Kind {
	case ast.ItemFn:
		fn, _ := r.b.Items.Fn(id)
		r.linkFn(scope, id, fn)
	case ast.ItemConst:
		c, _ := r.b.Items.Const(id)
		r.linkType(scope, c.Type)
		r.linkExpr(scope, c.Value)
	case ast.ItemStruct:
		st, _ := r.b.Items.Struct(id)
		for _, f := range st.Fields {
			r.linkType(scope, f.Type)
		}
	case ast.ItemEnum:
	case ast.ItemTrait:
		tr, _ := r.b.Items.Trait(id)
		sym := r.res.ItemSymbols[id]
		r.res.ImplTargets[id] = sym
		r.selfTypes = append(r.selfTypes, sym)
		for _, m := range tr.Members {
			r.linkItem(scope, m)
		}
		r.selfTypes = r.selfTypes[:len(r.selfTypes)-1]
	case ast.ItemImpl:
		im, _ := r.b.Items.Impl(id)
		r.selfTypes = append(r.selfTypes, r.res.ImplTargets[id])
		for _, m := range im.Members {
			r.linkItem(scope, m)
		}
		r.selfTypes = r.selfTypes[:len(r.selfTypes)-1]
	}
}

func (r *resolver) linkFn(scope ScopeID, id ast.ItemID, fn *ast.FnItem) {
	item := r.b.Items.Get(id)
	fnScope := r.table.NewScope(ScopeFunction, scope, ScopeOwner{Item: id}, item.Span)
	r.res.ItemScopes[id] = fnScope

	// A nested function sees neither the enclosing `Self` nor `self`.
	_, assoc := r.res.Owners[id]
	if !assoc {
		r.selfTypes = append(r.selfTypes, NoSymbolID)
		defer func() { r.selfTypes = r.selfTypes[:len(r.selfTypes)-1] }()
	}

	self := NoSymbolID
	if fn.HasSelf() {
		sym := Symbol{
			Name:      r.b.Strings.Intern("self"),
			Namespace: NSValue,
			Kind:      SymbolSelfParam,
			Scope:     fnScope,
			Span:      fn.SelfSpan,
			Decl:      SymbolDecl{Item: id},
		}
		if fn.SelfMut {
			sym.Flags |= SymbolFlagMutable
		}
		self = r.bindSymbol(sym, true)
		r.res.SelfParams[id] = self
	}
	r.selfValues = append(r.selfValues, self)
	defer func() { r.selfValues = r.selfValues[:len(r.selfValues)-1] }()

	for _, p := range fn.Params {
		r.linkType(scope, p.Type)
		r.declarePattern(fnScope, p.Pattern, true)
	}
	r.linkType(scope, fn.ReturnType)
	r.linkExpr(fnScope, fn.Body)
}

// declarePattern binds the names introduced by a let or parameter pattern.
func (r *resolver) declarePattern(scope ScopeID, id ast.PatternID, unique bool) {
	if !id.IsValid() {
		return
	}
	p := r.b.Patterns.Get(id)
	switch p.Kind {
	case ast.PatIdent:
		sym := Symbol{
			Name: p.Name, Namespace: NSValue, Kind: SymbolVariable,
			Scope: scope, Span: p.Span, Decl: SymbolDecl{Pattern: id},
		}
		if p.Mut {
			sym.Flags |= SymbolFlagMutable
		}
		if p.ByRef || p.RefMut {
			sym.Flags |= SymbolFlagByReference
		}
		r.res.PatternSymbols[id] = r.bindSymbol(sym, unique)
	case ast.PatRef:
		r.declarePattern(scope, p.Inner, unique)
	case ast.PatWild:
	}
}

func (r *resolver) linkType(scope ScopeID, id ast.TypeID) {
	if !id.IsValid() {
		return
	}
	te := r.b.Types.Get(id)
	switch te.Kind {
	case ast.TypeExprPath:
		if sym, ok := r.resolveTypePath(scope, te.Path); ok {
			r.res.TypeSymbols[id] = sym
		}
	case ast.TypeExprRef:
		r.linkType(scope, te.Elem)
	case ast.TypeExprArray:
		r.linkType(scope, te.Elem)
		r.linkExpr(scope, te.Len)
	}
}

func (r *resolver) linkBlock(scope ScopeID, id ast.ExprID, blk *ast.ExprBlockData) {
	inner := r.table.NewScope(ScopeBlock, scope, ScopeOwner{Expr: id}, r.b.Exprs.Get(id).Span)
	r.res.BlockScopes[id] = inner

	var items []ast.ItemID
	for _, st := range blk.Stmts {
		if is, ok := r.b.Stmts.Item(st); ok {
			items = append(items, is.Item)
		}
	}
	r.declareItems(inner, items)

	for _, st := range blk.Stmts {
		r.linkStmt(inner, st)
	}
	r.linkExpr(inner, blk.Tail)
}

func (r *resolver) linkStmt(scope ScopeID, id ast.StmtID) {
	st := r.b.Stmts.Get(id)
	switch st.Kind {
	case ast.StmtLet:
		let, _ := r.b.Stmts.Let(id)
		r.linkType(scope, let.Type)
		// the initializer sees the bindings that precede the let
		r.linkExpr(scope, let.Value)
		r.declarePattern(scope, let.Pattern, false)
	case ast.StmtExpr:
		es, _ := r.b.Stmts.Expr(id)
		r.linkExpr(scope, es.Expr)
	case ast.StmtItem:
		is, _ := r.b.Stmts.Item(id)
		r.linkItem(scope, is.Item)
	case ast.StmtEmpty:
	}
}
