package sema

import (
	"strings"

	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/mutability"
	"rxc/internal/source"
	"rxc/internal/symbols"
	"rxc/internal/types"
)

func (tc *typeChecker) typeComplex(id ast.ExprID, kind ast.ExprKind, expected types.TypeID) types.TypeID {
	switch kind {
	case ast.ExprBorrow:
		return tc.typeBorrow(id, expected)
	case ast.ExprDeref:
		return tc.typeDeref(id)
	case ast.ExprCall:
		return tc.typeCall(id)
	case ast.ExprMethodCall:
		return tc.typeMethodCall(id)
	case ast.ExprField:
		return tc.typeField(id)
	case ast.ExprIndex:
		return tc.typeIndex(id)
	case ast.ExprArray:
		return tc.typeArray(id, expected)
	case ast.ExprArrayRepeat:
		return tc.typeArrayRepeat(id, expected)
	default:
		return tc.typeStructLit(id)
	}
}

func (tc *typeChecker) typeBorrow(id ast.ExprID, expected types.TypeID) types.TypeID {
	br, _ := tc.builder.Exprs.Borrow(id)
	record := tc.letBorrow == id
	tc.letBorrow = ast.NoExprID
	hint := types.NoTypeID
	if expected != types.NoTypeID {
		if tt := tc.types.MustLookup(expected); tt.Kind == types.KindReference {
			hint = tt.Elem
		}
	}
	value := tc.types.Unqualified(tc.types.Settle(tc.checkExpr(br.Value, hint)))
	tc.borrows.Borrow(tc.place(br.Value), br.Mut, record, tc.exprSpan(id))
	return tc.types.Reference(value, br.Mut)
}

func (tc *typeChecker) typeDeref(id ast.ExprID) types.TypeID {
	d, _ := tc.builder.Exprs.Deref(id)
	value := tc.types.Settle(tc.checkExpr(d.Value, types.NoTypeID))
	tt := tc.types.MustLookup(value)
	switch tt.Kind {
	case types.KindReference:
		return tc.types.WithMutability(tt.Elem, tt.RefMut)
	case types.KindNever:
		return value
	}
	tc.errorf(diag.SemaNotDereferenceable, tc.exprSpan(id), "type %s cannot be dereferenced", tc.label(value)).Emit()
	return tc.builtins.Never
}

func (tc *typeChecker) typeCall(id ast.ExprID) types.TypeID {
	c, _ := tc.builder.Exprs.Call(id)
	callee := tc.types.Settle(tc.checkExpr(c.Callee, types.NoTypeID))
	info, ok := tc.types.FnInfo(callee)
	if !ok {
		if !tc.types.IsNever(callee) {
			tc.errorf(diag.SemaNotCallable, tc.exprSpan(c.Callee), "expected function, found %s", tc.label(callee)).Emit()
		}
		tc.checkArgs(id, c.Args, nil, false)
		return tc.builtins.Never
	}
	params := info.Params
	if info.IsMethod {
		// `Type::method(receiver, ..)`
		params = append([]types.TypeID{info.Receiver}, info.Params...)
	}
	tc.checkArgs(id, c.Args, params, true)
	return info.Result
}

// checkArgs checks call arguments against params. A count mismatch is
// reported when counted is set; extra arguments are still checked.
func (tc *typeChecker) checkArgs(call ast.ExprID, args []ast.ExprID, params []types.TypeID, counted bool) {
	if counted && len(args) != len(params) {
		tc.errorf(diag.SemaArgCount, tc.exprSpan(call),
			"this function takes %d %s but %d %s supplied",
			len(params), plural(len(params), "argument", "arguments"),
			len(args), plural(len(args), "was", "were")).Emit()
	}
	for i, arg := range args {
		if i < len(params) {
			t := tc.checkExpr(arg, params[i])
			tc.coerce(arg, t, params[i])
			continue
		}
		tc.checkExpr(arg, types.NoTypeID)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// autoderef strips references from a receiver or projection base. viaRef
// reports whether any reference was crossed and refMut the mutability of
// the innermost one.
func (tc *typeChecker) autoderef(t types.TypeID) (base types.TypeID, viaRef, refMut bool) {
	base = tc.types.Settle(t)
	for {
		tt := tc.types.MustLookup(base)
		if tt.Kind != types.KindReference {
			return base, viaRef, refMut
		}
		viaRef, refMut = true, tt.RefMut
		base = tt.Elem
	}
}

func (tc *typeChecker) typeMethodCall(id ast.ExprID) types.TypeID {
	m, _ := tc.builder.Exprs.MethodCall(id)
	recv := tc.checkExpr(m.Receiver, types.NoTypeID)
	base, viaRef, refMut := tc.autoderef(recv)
	name := tc.name(m.Name)
	if tc.types.IsNever(base) {
		tc.checkArgs(id, m.Args, nil, false)
		return base
	}

	if owner := tc.typeSymbol(base); owner.IsValid() {
		if methodID, ok := tc.symbols.MethodLookup(owner, m.Name); ok {
			return tc.userMethodCall(id, m, methodID, base, viaRef, refMut)
		}
	}
	if bm, ok := tc.lookupBuiltinMethod(base, name); ok {
		tc.result.BuiltinMethods[id] = name
		if bm.mutRecv {
			tc.autoBorrow(m.Receiver, true, viaRef, refMut)
		}
		tc.checkArgs(id, m.Args, bm.fn.Params, true)
		return bm.fn.Result
	}
	tc.errorf(diag.SemaUnknownMethod, m.NameSpan, "no method named `%s` found for %s", name, tc.label(base)).Emit()
	tc.checkArgs(id, m.Args, nil, false)
	return tc.builtins.Never
}

func (tc *typeChecker) userMethodCall(id ast.ExprID, m *ast.ExprMethodCallData, methodID symbols.SymbolID, base types.TypeID, viaRef, refMut bool) types.TypeID {
	sym := tc.table.Symbol(methodID)
	name := tc.name(m.Name)
	info, ok := tc.types.FnInfo(sym.Type)
	if sym.Kind != symbols.SymbolFunction || !ok {
		tc.errorf(diag.SemaUnknownMethod, m.NameSpan, "`%s` is not a method of %s", name, tc.label(base)).Emit()
		tc.checkArgs(id, m.Args, nil, false)
		return tc.builtins.Never
	}
	fn := tc.methodSignature(sym, info, base)
	if !fn.IsMethod {
		tc.errorf(diag.SemaUnknownMethod, m.NameSpan,
			"`%s` is an associated function of %s, not a method", name, tc.label(base)).
			WithNote(sym.Span, "use `"+tc.label(base)+"::"+name+"(..)` to call it").
			Emit()
		tc.checkArgs(id, m.Args, fn.Params, true)
		return fn.Result
	}
	tc.result.MethodTargets[id] = methodID
	if recv := tc.types.MustLookup(fn.Receiver); recv.Kind == types.KindReference {
		tc.autoBorrow(m.Receiver, recv.RefMut, viaRef, refMut)
	}
	tc.checkArgs(id, m.Args, fn.Params, true)
	return fn.Result
}

// methodSignature instantiates a trait default method for the receiver type.
func (tc *typeChecker) methodSignature(sym *symbols.Symbol, info *types.FnInfo, base types.TypeID) types.FnInfo {
	owner, ok := tc.symbols.Owners[sym.Decl.Item]
	if !ok || tc.table.Symbol(owner).Kind != symbols.SymbolTrait {
		return *info
	}
	inst, _ := tc.types.FnInfo(tc.substSelf(sym.Type, tc.table.Symbol(owner).Type, base))
	return *inst
}

// autoBorrow checks the implicit borrow a method call takes of its
// receiver. The borrow is temporary and never recorded.
func (tc *typeChecker) autoBorrow(recv ast.ExprID, mut, viaRef, refMut bool) {
	sp := tc.exprSpan(recv)
	if viaRef {
		tc.borrows.Borrow(mutability.Place{Kind: mutability.PlaceDeref, RefMut: refMut}, mut, false, sp)
		return
	}
	tc.borrows.Borrow(tc.place(recv), mut, false, sp)
}

// projectionMutability is the place mutability of a field or element of a
// base with type t.
func (tc *typeChecker) projectionMutability(t types.TypeID, viaRef, refMut bool) bool {
	if viaRef {
		return refMut
	}
	return tc.types.IsMutable(t)
}

func (tc *typeChecker) typeField(id ast.ExprID) types.TypeID {
	f, _ := tc.builder.Exprs.Field(id)
	target := tc.checkExpr(f.Target, types.NoTypeID)
	base, viaRef, refMut := tc.autoderef(target)
	if tc.types.IsNever(base) {
		return base
	}
	name := tc.name(f.Name)
	if info, ok := tc.types.StructInfo(base); ok {
		if field, ok := info.Field(name); ok {
			return tc.types.WithMutability(field.Type, tc.projectionMutability(target, viaRef, refMut))
		}
	}
	tc.errorf(diag.SemaUnknownField, f.NameSpan, "no field `%s` on type %s", name, tc.label(base)).Emit()
	return tc.builtins.Never
}

func (tc *typeChecker) typeIndex(id ast.ExprID) types.TypeID {
	ix, _ := tc.builder.Exprs.Index(id)
	target := tc.checkExpr(ix.Target, types.NoTypeID)
	usize := tc.builtins.Usize
	index := tc.checkExpr(ix.Index, usize)
	tc.coerce(ix.Index, index, usize)

	base, viaRef, refMut := tc.autoderef(target)
	tt := tc.types.MustLookup(base)
	switch tt.Kind {
	case types.KindNever:
		return base
	case types.KindArray:
		if lit, ok := tc.builder.Exprs.Literal(ix.Index); ok && lit.Kind == ast.LitInt && !lit.Overflow && lit.Int >= tt.Count {
			tc.errorf(diag.SemaConstIndexOutside, tc.exprSpan(ix.Index),
				"index out of bounds: the length is %d but the index is %d", tt.Count, lit.Int).Emit()
		}
		return tc.types.WithMutability(tt.Elem, tc.projectionMutability(target, viaRef, refMut))
	}
	tc.errorf(diag.SemaNotIndexable, tc.exprSpan(ix.Target), "cannot index into a value of type %s", tc.label(base)).Emit()
	return tc.builtins.Never
}

func (tc *typeChecker) elemHint(expected types.TypeID) types.TypeID {
	if expected == types.NoTypeID {
		return types.NoTypeID
	}
	if tt := tc.types.MustLookup(expected); tt.Kind == types.KindArray {
		return tt.Elem
	}
	return types.NoTypeID
}

func (tc *typeChecker) typeArray(id ast.ExprID, expected types.TypeID) types.TypeID {
	arr, _ := tc.builder.Exprs.Array(id)
	hint := tc.elemHint(expected)
	n := uint64(len(arr.Elems))
	if n == 0 {
		if hint == types.NoTypeID {
			tc.errorf(diag.SemaCannotInfer, tc.exprSpan(id), "type annotations needed for an empty array").Emit()
			return tc.types.Array(tc.builtins.Never, 0)
		}
		return tc.types.Array(hint, 0)
	}
	elem := types.NoTypeID
	for _, el := range arr.Elems {
		elHint := hint
		if elHint == types.NoTypeID && elem != types.NoTypeID {
			elHint = tc.sizedHint(elem)
		}
		t := tc.types.Settle(tc.checkExpr(el, elHint))
		if elem == types.NoTypeID {
			elem = t
			continue
		}
		joined := tc.types.Join(elem, t)
		if joined == types.NoTypeID {
			tc.mismatch(el, elem, t)
			continue
		}
		elem = joined
	}
	return tc.types.Array(tc.types.Unqualified(elem), n)
}

func (tc *typeChecker) typeArrayRepeat(id ast.ExprID, expected types.TypeID) types.TypeID {
	r, _ := tc.builder.Exprs.ArrayRepeat(id)
	value := tc.types.Settle(tc.checkExpr(r.Value, tc.elemHint(expected)))
	n := tc.arrayLength(r.Count)
	return tc.types.Array(tc.types.Unqualified(value), n)
}

func (tc *typeChecker) typeStructLit(id ast.ExprID) types.TypeID {
	lit, _ := tc.builder.Exprs.Struct(id)
	sym, _ := tc.symbolOf(id)
	var info *types.StructInfo
	if sym != nil && sym.Kind == symbols.SymbolStruct {
		info, _ = tc.types.StructInfo(sym.Type)
	}
	if info == nil {
		if sym != nil {
			tc.errorf(diag.SemaNotAStruct, lit.Path.Span, "expected struct, found %s `%s`",
				sym.Kind, tc.name(sym.Name)).Emit()
		}
		for _, f := range lit.Fields {
			tc.checkExpr(f.Value, types.NoTypeID)
		}
		return tc.builtins.Never
	}

	seen := make(map[string]source.Span, len(lit.Fields))
	for _, f := range lit.Fields {
		name := tc.name(f.Name)
		field, known := info.Field(name)
		if prev, dup := seen[name]; dup {
			tc.errorf(diag.SemaDuplicateField, f.NameSpan, "field `%s` specified more than once", name).
				WithNote(prev, "first use of `"+name+"`").
				Emit()
		} else {
			seen[name] = f.NameSpan
		}
		if !known {
			tc.errorf(diag.SemaUnknownField, f.NameSpan, "struct `%s` has no field named `%s`", info.Name, name).Emit()
			tc.checkExpr(f.Value, types.NoTypeID)
			continue
		}
		t := tc.checkExpr(f.Value, field.Type)
		tc.coerce(f.Value, t, field.Type)
	}

	var missing []string
	for _, f := range info.Fields {
		if _, ok := seen[f.Name]; !ok {
			missing = append(missing, "`"+f.Name+"`")
		}
	}
	if len(missing) > 0 {
		tc.errorf(diag.SemaMissingField, tc.exprSpan(id), "missing %s %s in initializer of `%s`",
			plural(len(missing), "field", "fields"), strings.Join(missing, ", "), info.Name).Emit()
	}
	return sym.Type
}
