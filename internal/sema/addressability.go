package sema

import (
	"rxc/internal/ast"
	"rxc/internal/mutability"
	"rxc/internal/symbols"
	"rxc/internal/types"
)

// place classifies an already checked expression as an assignment or
// borrow target.
func (tc *typeChecker) place(expr ast.ExprID) mutability.Place {
	ex := tc.builder.Exprs
	switch ex.Get(expr).Kind {
	case ast.ExprGroup:
		g, _ := ex.Group(expr)
		return tc.place(g.Inner)
	case ast.ExprPath:
		sym, id := tc.symbolOf(expr)
		if sym == nil {
			return mutability.Place{}
		}
		if sym.Kind == symbols.SymbolVariable || sym.Kind == symbols.SymbolSelfParam {
			return mutability.Place{Kind: mutability.PlaceVar, Root: id}
		}
		return mutability.Place{Kind: mutability.PlaceItem, Root: id}
	case ast.ExprDeref:
		d, _ := ex.Deref(expr)
		return tc.derefPlace(d.Value)
	case ast.ExprField:
		f, _ := ex.Field(expr)
		return tc.projection(f.Target)
	case ast.ExprIndex:
		ix, _ := ex.Index(expr)
		return tc.projection(ix.Target)
	}
	return mutability.Place{}
}

// projection classifies a field or index base. A base of reference type is
// dereferenced automatically.
func (tc *typeChecker) projection(base ast.ExprID) mutability.Place {
	if tt, ok := tc.types.Lookup(tc.types.Settle(tc.result.ExprType(base))); ok && tt.Kind == types.KindReference {
		return mutability.Place{Kind: mutability.PlaceDeref, RefMut: tt.RefMut}
	}
	p := tc.place(base)
	switch p.Kind {
	case mutability.PlaceVar:
		p.Kind = mutability.PlaceProjection
	case mutability.PlaceInvalid:
		p.Kind = mutability.PlaceTemp
	}
	return p
}

func (tc *typeChecker) derefPlace(value ast.ExprID) mutability.Place {
	tt, ok := tc.types.Lookup(tc.types.Settle(tc.result.ExprType(value)))
	if !ok || tt.Kind != types.KindReference {
		return mutability.Place{}
	}
	return mutability.Place{Kind: mutability.PlaceDeref, RefMut: tt.RefMut}
}
