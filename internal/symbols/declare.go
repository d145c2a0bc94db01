package symbols

import (
	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/source"
)

// declareItems is the first pass for one scope: every item name becomes
// visible before any body is linked, so items may refer to each other
// regardless of order. Impl members are attached once all types exist.
func (r *resolver) declareItems(scope ScopeID, items []ast.ItemID) {
	for _, it := range items {
		r.declareItem(scope, it)
	}
	for _, it := range items {
		if r.b.Items.Get(it).Kind == ast.ItemImpl {
			r.attachImpl(scope, it)
		}
	}
}

func (r *resolver) declareItem(scope ScopeID, id ast.ItemID) {
	item := r.b.Items.Get(id)
	switch item.Kind {
	case ast.ItemFn:
		fn, _ := r.b.Items.Fn(id)
		r.res.ItemSymbols[id] = r.declare(r.fnSymbol(scope, id, fn))
	case ast.ItemConst:
		c, _ := r.b.Items.Const(id)
		r.res.ItemSymbols[id] = r.declare(Symbol{
			Name: c.Name, Namespace: NSValue, Kind: SymbolConst,
			Scope: scope, Span: c.NameSpan, Decl: SymbolDecl{Item: id},
		})
	case ast.ItemStruct:
		st, _ := r.b.Items.Struct(id)
		sym := r.declareType(scope, id, SymbolStruct, st.Name, st.NameSpan)
		members := r.table.Symbol(sym).Members
		for i, f := range st.Fields {
			r.declare(Symbol{
				Name: f.Name, Namespace: NSField, Kind: SymbolField,
				Scope: members, Span: f.Span, Decl: SymbolDecl{Item: id, Index: i},
			})
		}
	case ast.ItemEnum:
		en, _ := r.b.Items.Enum(id)
		sym := r.declareType(scope, id, SymbolEnum, en.Name, en.NameSpan)
		members := r.table.Symbol(sym).Members
		for i, v := range en.Variants {
			r.declare(Symbol{
				Name: v.Name, Namespace: NSValue, Kind: SymbolVariant,
				Scope: members, Span: v.Span, Decl: SymbolDecl{Item: id, Index: i},
			})
		}
	case ast.ItemTrait:
		tr, _ := r.b.Items.Trait(id)
		sym := r.declareType(scope, id, SymbolTrait, tr.Name, tr.NameSpan)
		r.declareMembers(sym, tr.Members)
	case ast.ItemImpl:
		// attached in attachImpl once every type of the scope is declared
	}
}

func (r *resolver) fnSymbol(scope ScopeID, id ast.ItemID, fn *ast.FnItem) Symbol {
	sym := Symbol{
		Name: fn.Name, Namespace: NSValue, Kind: SymbolFunction,
		Scope: scope, Span: fn.NameSpan, Decl: SymbolDecl{Item: id},
	}
	if fn.HasSelf() {
		sym.Flags |= SymbolFlagMethod
	}
	return sym
}

func (r *resolver) declareType(scope ScopeID, id ast.ItemID, kind SymbolKind, name source.StringID, sp source.Span) SymbolID {
	sym := r.declare(Symbol{
		Name: name, Namespace: NSType, Kind: kind,
		Scope: scope, Span: sp, Decl: SymbolDecl{Item: id},
	})
	r.table.Symbol(sym).Members = r.table.NewScope(ScopeMembers, NoScopeID, ScopeOwner{Item: id}, sp)
	r.res.ItemSymbols[id] = sym
	return sym
}

// declareMembers puts associated functions and constants into the member
// scope of owner.
func (r *resolver) declareMembers(owner SymbolID, members []ast.ItemID) {
	scope := r.table.Symbol(owner).Members
	for _, m := range members {
		r.res.Owners[m] = owner
		var sym Symbol
		switch r.b.Items.Get(m).Kind {
		case ast.ItemFn:
			fn, _ := r.b.Items.Fn(m)
			sym = r.fnSymbol(scope, m, fn)
			sym.Flags |= SymbolFlagAssociated
			if fn.Body.IsValid() {
				sym.Flags |= SymbolFlagHasDefault
			}
		case ast.ItemConst:
			c, _ := r.b.Items.Const(m)
			sym = Symbol{
				Name: c.Name, Namespace: NSValue, Kind: SymbolConst,
				Scope: scope, Span: c.NameSpan, Decl: SymbolDecl{Item: m},
				Flags: SymbolFlagAssociated,
			}
			if c.Value.IsValid() {
				sym.Flags |= SymbolFlagHasDefault
			}
		default:
			continue
		}
		r.res.ItemSymbols[m] = r.declare(sym)
	}
}

// attachImpl resolves the target (and trait) of an impl block and adds its
// members to the target's member scope.
func (r *resolver) attachImpl(scope ScopeID, id ast.ItemID) {
	im, _ := r.b.Items.Impl(id)
	item := r.b.Items.Get(id)
	r.res.ItemSymbols[id] = r.table.NewSymbol(Symbol{
		Namespace: NSType, Kind: SymbolImpl, Scope: scope, Span: item.Span, Decl: SymbolDecl{Item: id},
	})

	target, ok := r.implTypeSymbol(scope, im.Target, "impl target")
	if !ok {
		return
	}
	if r.table.Symbol(target).Kind == SymbolTrait {
		r.errorf(diag.SemaNotAType, r.b.Types.Get(im.Target).Span,
			"expected a type, found trait `"+r.table.Name(target)+"`").Emit()
		return
	}
	r.res.ImplTargets[id] = target

	if im.Trait.IsValid() {
		trait, ok := r.implTypeSymbol(scope, im.Trait, "trait")
		if !ok {
			return
		}
		if r.table.Symbol(trait).Kind != SymbolTrait {
			r.errorf(diag.SemaNotATrait, r.b.Types.Get(im.Trait).Span,
				"`"+r.table.Name(trait)+"` is not a trait").Emit()
			return
		}
		r.res.ImplTraits[id] = trait
		r.res.TraitImpls[target] = append(r.res.TraitImpls[target], trait)
		r.checkTraitImpl(id, im, trait)
	}
	r.declareMembers(target, im.Members)
}

// implTypeSymbol resolves the single-name path of an impl header.
func (r *resolver) implTypeSymbol(scope ScopeID, typ ast.TypeID, what string) (SymbolID, bool) {
	te := r.b.Types.Get(typ)
	seg, single := te.Path.Single()
	if te.Kind != ast.TypeExprPath || !single {
		r.errorf(diag.SemaMissingTypeSymbol, te.Span, what+" must name a declared type").Emit()
		return NoSymbolID, false
	}
	sym, ok := r.table.Lookup(scope, NSType, seg.Name)
	if !ok {
		r.errorf(diag.SemaMissingTypeSymbol, seg.Span,
			"cannot find type `"+r.name(seg.Name)+"` for "+what).Emit()
		return NoSymbolID, false
	}
	r.res.TypeSymbols[typ] = sym
	return sym, true
}

// checkTraitImpl verifies that an impl provides every required trait item
// and nothing the trait does not declare.
func (r *resolver) checkTraitImpl(id ast.ItemID, im *ast.ImplItem, trait SymbolID) {
	provided := make(map[source.StringID]bool, len(im.Members))
	for _, m := range im.Members {
		name, sp := r.b.Items.DeclName(m)
		provided[name] = true
		if _, ok := r.table.Member(trait, NSValue, name); !ok {
			r.errorf(diag.SemaUnknownTraitItem, sp,
				"`"+r.name(name)+"` is not a member of trait `"+r.table.Name(trait)+"`").Emit()
		}
	}
	for _, req := range r.table.Members(trait) {
		sym := r.table.Symbol(req)
		if sym.Flags&SymbolFlagHasDefault != 0 || provided[sym.Name] {
			continue
		}
		r.errorf(diag.SemaMissingTraitItem, r.b.Items.Get(id).Span,
			"not all trait items implemented, missing `"+r.name(sym.Name)+"`").
			WithNote(sym.Span, "`"+r.name(sym.Name)+"` declared in trait `"+r.table.Name(trait)+"`").
			Emit()
	}
}
