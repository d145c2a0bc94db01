package sema

import (
	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/symbols"
	"rxc/internal/types"
)

func (tc *typeChecker) checkItem(id ast.ItemID) {
	if _, ok := tc.symbols.ItemSymbols[id]; !ok {
		return
	}
	items := tc.builder.Items
	switch items.Get(id).Kind {
	case ast.ItemFn:
		tc.checkFn(id)
	case ast.ItemConst:
		tc.checkConst(id)
	case ast.ItemTrait:
		tr, _ := items.Trait(id)
		for _, m := range tr.Members {
			tc.checkItem(m)
		}
	case ast.ItemImpl:
		im, _ := items.Impl(id)
		for _, m := range im.Members {
			tc.checkItem(m)
		}
	case ast.ItemStruct, ast.ItemEnum:
		// fully typed by collectSignatures
	}
}

// isolated runs f with empty function and loop contexts, for bodies that
// cannot see the enclosing function: nested fns and const initializers.
func (tc *typeChecker) isolated(f func()) {
	returns, loops := tc.returnStack, tc.loopStack
	discard, letBorrow := tc.discard, tc.letBorrow
	tc.returnStack, tc.loopStack = nil, nil
	tc.discard, tc.letBorrow = false, ast.NoExprID
	defer func() {
		tc.returnStack, tc.loopStack = returns, loops
		tc.discard, tc.letBorrow = discard, letBorrow
	}()
	f()
}

func (tc *typeChecker) checkFn(id ast.ItemID) {
	fn, _ := tc.builder.Items.Fn(id)
	if !fn.Body.IsValid() {
		return
	}
	info, _ := tc.types.FnInfo(tc.fnSignature(id))
	name := tc.name(fn.Name)
	tc.isolated(func() {
		tc.returnStack = append(tc.returnStack, returnContext{fn: id, name: name, expected: info.Result})
		defer tc.borrows.Scope()()

		if selfSym, ok := tc.symbols.SelfParams[id]; ok {
			tc.borrows.Declare(selfSym, fn.SelfMut)
		}
		for i, p := range fn.Params {
			tc.bindPattern(p.Pattern, info.Params[i], false)
		}

		body := tc.checkExpr(fn.Body, info.Result)
		if !tc.types.Compatible(body, info.Result) {
			sp := tc.exprSpan(fn.Body)
			if blk, ok := tc.builder.Exprs.Block(fn.Body); ok && blk.Tail.IsValid() {
				sp = tc.exprSpan(blk.Tail)
			}
			tc.errorf(diag.SemaReturnMismatch, sp, "mismatched types: expected %s, found %s",
				tc.label(info.Result), tc.label(body)).
				WithNote(fn.NameSpan, "function `"+name+"` declares its return type here").
				Emit()
		}
		if tc.isEntrypoint(id) {
			tc.checkExitPlacement(fn)
		}
	})
}

// bindPattern gives the bindings of a let or parameter pattern their
// types and registers them with the mutability checker. Bindings reached
// through a reference pattern are immutable.
func (tc *typeChecker) bindPattern(id ast.PatternID, t types.TypeID, underRef bool) {
	p := tc.builder.Patterns.Get(id)
	switch p.Kind {
	case ast.PatWild:
	case ast.PatIdent:
		bt := tc.types.Unqualified(tc.types.Settle(t))
		if p.ByRef {
			bt = tc.types.Reference(bt, p.RefMut)
		}
		mutable := p.Mut && !underRef && !p.ByRef
		bt = tc.types.WithMutability(bt, mutable)
		tc.result.BindingTypes[id] = bt
		if symID, ok := tc.symbols.PatternSymbols[id]; ok && symID.IsValid() {
			tc.table.Symbol(symID).Type = bt
			tc.borrows.Declare(symID, mutable)
		}
	case ast.PatRef:
		tt, ok := tc.types.Lookup(tc.types.Settle(t))
		switch {
		case ok && tt.Kind == types.KindNever:
			tc.bindPattern(p.Inner, t, true)
		case ok && tt.Kind == types.KindReference:
			if p.Mut && !tt.RefMut {
				tc.errorf(diag.SemaTypeMismatch, p.Span, "mismatched types: expected %s, found `&mut` pattern", tc.label(t)).Emit()
			}
			tc.bindPattern(p.Inner, tt.Elem, true)
		default:
			tc.errorf(diag.SemaTypeMismatch, p.Span, "mismatched types: expected %s, found reference pattern", tc.label(t)).Emit()
			tc.bindPattern(p.Inner, tc.builtins.Never, true)
		}
	}
}

// checkStmt checks one statement and reports whether it diverges.
func (tc *typeChecker) checkStmt(id ast.StmtID) bool {
	stmts := tc.builder.Stmts
	switch stmts.Get(id).Kind {
	case ast.StmtLet:
		return tc.checkLet(id)
	case ast.StmtExpr:
		es, _ := stmts.Expr(id)
		tc.discard = !es.Semicolon
		t := tc.checkExpr(es.Expr, types.NoTypeID)
		tc.discard = false
		return tc.types.IsNever(t)
	case ast.StmtItem:
		is, _ := stmts.Item(id)
		tc.checkItem(is.Item)
	case ast.StmtEmpty:
	}
	return false
}

func (tc *typeChecker) checkLet(id ast.StmtID) bool {
	let, _ := tc.builder.Stmts.Let(id)
	declared := types.NoTypeID
	if let.Type.IsValid() {
		declared = tc.resolveType(let.Type)
	}
	placeholder := declared != types.NoTypeID && tc.types.ContainsUnderscore(declared)
	expected := declared
	if placeholder {
		expected = types.NoTypeID
	}

	value := types.NoTypeID
	if let.Value.IsValid() {
		if tc.builder.Exprs.Get(let.Value).Kind == ast.ExprBorrow {
			tc.letBorrow = let.Value
		}
		value = tc.checkExpr(let.Value, expected)
		tc.letBorrow = ast.NoExprID
	}

	binding := declared
	switch {
	case !let.Value.IsValid() && (declared == types.NoTypeID || placeholder):
		tc.errorf(diag.SemaCannotInfer, tc.builder.Patterns.Get(let.Pattern).Span,
			"type annotations needed").Emit()
		binding = tc.builtins.Never
	case !let.Value.IsValid():
	case declared == types.NoTypeID:
		binding = value
	case placeholder:
		if !tc.fitsPlaceholder(value, declared) {
			tc.mismatch(let.Value, declared, value)
		}
		binding = value
	default:
		tc.coerce(let.Value, value, declared)
	}
	tc.bindPattern(let.Pattern, binding, false)
	return value != types.NoTypeID && tc.types.IsNever(value)
}

// fitsPlaceholder matches actual against a declared type containing `_`.
func (tc *typeChecker) fitsPlaceholder(actual, declared types.TypeID) bool {
	ta, okA := tc.types.Lookup(tc.types.Settle(actual))
	td, okD := tc.types.Lookup(declared)
	if !okA || !okD {
		return false
	}
	switch {
	case td.Kind == types.KindUnderscore || ta.Kind == types.KindNever:
		return true
	case td.Kind == types.KindReference && ta.Kind == types.KindReference:
		return (ta.RefMut || !td.RefMut) && tc.fitsPlaceholder(ta.Elem, td.Elem)
	case td.Kind == types.KindArray && ta.Kind == types.KindArray:
		return ta.Count == td.Count && tc.fitsPlaceholder(ta.Elem, td.Elem)
	}
	return tc.types.Compatible(actual, declared)
}

// coerce reports a mismatch when actual cannot flow into expected.
func (tc *typeChecker) coerce(expr ast.ExprID, actual, expected types.TypeID) bool {
	if expected == types.NoTypeID || tc.types.Compatible(actual, expected) {
		return true
	}
	tc.mismatch(expr, expected, actual)
	return false
}

func (tc *typeChecker) mismatch(expr ast.ExprID, expected, actual types.TypeID) {
	tc.errorf(diag.SemaTypeMismatch, tc.exprSpan(expr), "mismatched types: expected %s, found %s",
		tc.label(expected), tc.label(actual)).Emit()
}

// isEntrypoint reports the free function `main` of the file scope.
func (tc *typeChecker) isEntrypoint(id ast.ItemID) bool {
	if _, assoc := tc.symbols.Owners[id]; assoc {
		return false
	}
	sym := tc.table.Symbol(tc.symbols.ItemSymbols[id])
	return sym.Scope == tc.symbols.FileScope && tc.name(sym.Name) == "main" && sym.Kind == symbols.SymbolFunction
}
