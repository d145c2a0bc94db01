package sema

import (
	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/types"
)

// resolveType maps a type expression to its TypeID. Results are cached per
// node so array lengths are checked and folded once.
func (tc *typeChecker) resolveType(id ast.TypeID) types.TypeID {
	if t, ok := tc.typeCache[id]; ok {
		return t
	}
	te := tc.builder.Types.Get(id)
	var t types.TypeID
	switch te.Kind {
	case ast.TypeExprPath:
		t = tc.resolveTypePath(id)
	case ast.TypeExprRef:
		t = tc.types.Reference(tc.resolveType(te.Elem), te.Mut)
	case ast.TypeExprArray:
		elem := tc.resolveType(te.Elem)
		t = tc.types.Array(elem, tc.arrayLength(te.Len))
	case ast.TypeExprUnit:
		t = tc.builtins.Unit
	case ast.TypeExprNever:
		t = tc.builtins.Never
	case ast.TypeExprInfer:
		t = tc.types.Underscore()
	default:
		panic("sema: unknown type expression kind")
	}
	tc.typeCache[id] = t
	return t
}

// resolveTypePath types a named type. Names the resolver could not bind were
// reported there and become never so they stay quiet here.
func (tc *typeChecker) resolveTypePath(id ast.TypeID) types.TypeID {
	symID, ok := tc.symbols.TypeSymbol(id)
	if !ok || !symID.IsValid() {
		return tc.builtins.Never
	}
	sym := tc.table.Symbol(symID)
	if !sym.Kind.IsType() || sym.Type == types.NoTypeID {
		return tc.builtins.Never
	}
	return sym.Type
}

// signatureType resolves a type written in an item signature, where the
// `_` placeholder is not allowed.
func (tc *typeChecker) signatureType(id ast.TypeID) types.TypeID {
	t := tc.resolveType(id)
	if tc.types.ContainsUnderscore(t) {
		tc.errorf(diag.SemaCannotInfer, tc.builder.Types.Get(id).Span,
			"the placeholder `_` is not allowed within types on item signatures").Emit()
		return tc.builtins.Never
	}
	return t
}

// arrayLength folds the length of an array type or repeat expression.
func (tc *typeChecker) arrayLength(expr ast.ExprID) uint64 {
	n, ok := tc.consts.ArrayLength(expr)
	tc.checkConstExpr(expr, tc.builtins.Usize, ok)
	return n
}
