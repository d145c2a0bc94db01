package sema

import (
	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/types"
)

func (tc *typeChecker) typeControl(id ast.ExprID, kind ast.ExprKind, expected types.TypeID) types.TypeID {
	switch kind {
	case ast.ExprBlock:
		return tc.checkBlock(id, expected)
	case ast.ExprIf:
		return tc.typeIf(id, expected)
	case ast.ExprLoop:
		return tc.typeLoop(id)
	case ast.ExprWhile:
		return tc.typeWhile(id)
	case ast.ExprBreak:
		return tc.typeBreak(id)
	case ast.ExprContinue:
		if _, ok := tc.currentLoop(); !ok {
			tc.errorf(diag.SemaContinueOutsideLoop, tc.exprSpan(id), "`continue` outside of a loop").Emit()
		}
		return tc.builtins.Never
	default:
		return tc.typeReturn(id)
	}
}

// checkBlock types a block. Without a tail the block is unit, or never
// when one of its statements diverges.
func (tc *typeChecker) checkBlock(id ast.ExprID, expected types.TypeID) types.TypeID {
	blk, _ := tc.builder.Exprs.Block(id)
	defer tc.borrows.Scope()()

	diverges := false
	for _, s := range blk.Stmts {
		if tc.checkStmt(s) {
			diverges = true
		}
	}
	if blk.Tail.IsValid() {
		return tc.checkExpr(blk.Tail, expected)
	}
	if diverges {
		return tc.builtins.Never
	}
	return tc.builtins.Unit
}

func (tc *typeChecker) checkCond(cond ast.ExprID) {
	t := tc.types.Settle(tc.checkExpr(cond, tc.builtins.Bool))
	if !tc.boolish(t) {
		tc.errorf(diag.SemaConditionNotBool, tc.exprSpan(cond),
			"mismatched types: expected bool, found %s", tc.label(t)).Emit()
	}
}

func (tc *typeChecker) typeIf(id ast.ExprID, expected types.TypeID) types.TypeID {
	n, _ := tc.builder.Exprs.If(id)
	tc.checkCond(n.Cond)

	if !n.Else.IsValid() {
		then := tc.types.Settle(tc.checkExpr(n.Then, tc.builtins.Unit))
		if tc.types.IsNever(then) {
			return then
		}
		tc.coerce(n.Then, then, tc.builtins.Unit)
		return tc.builtins.Unit
	}

	then := tc.types.Settle(tc.checkExpr(n.Then, expected))
	hint := expected
	if hint == types.NoTypeID && !tc.types.IsNever(then) {
		hint = then
	}
	els := tc.types.Settle(tc.checkExpr(n.Else, hint))
	joined := tc.types.Join(then, els)
	if joined == types.NoTypeID {
		tc.errorf(diag.SemaBranchMismatch, tc.exprSpan(n.Else),
			"`if` and `else` have incompatible types: expected %s, found %s",
			tc.label(then), tc.label(els)).
			WithNote(tc.exprSpan(n.Then), "expected because of this").
			Emit()
		return then
	}
	return joined
}

func (tc *typeChecker) checkLoopBody(body ast.ExprID) {
	t := tc.checkExpr(body, tc.builtins.Unit)
	tc.coerce(body, t, tc.builtins.Unit)
}

func (tc *typeChecker) typeLoop(id ast.ExprID) types.TypeID {
	l, _ := tc.builder.Exprs.Loop(id)
	tc.loopStack = append(tc.loopStack, loopContext{infinite: true, breakType: types.NoTypeID})
	tc.checkLoopBody(l.Body)
	ctx := tc.loopStack[len(tc.loopStack)-1]
	tc.loopStack = tc.loopStack[:len(tc.loopStack)-1]

	if ctx.breakType == types.NoTypeID {
		return tc.builtins.Never
	}
	return ctx.breakType
}

func (tc *typeChecker) typeWhile(id ast.ExprID) types.TypeID {
	w, _ := tc.builder.Exprs.While(id)
	tc.checkCond(w.Cond)
	tc.loopStack = append(tc.loopStack, loopContext{breakType: types.NoTypeID})
	tc.checkLoopBody(w.Body)
	tc.loopStack = tc.loopStack[:len(tc.loopStack)-1]
	return tc.builtins.Unit
}

func (tc *typeChecker) typeBreak(id ast.ExprID) types.TypeID {
	br, _ := tc.builder.Exprs.Break(id)
	loop, ok := tc.currentLoop()
	if !ok {
		tc.errorf(diag.SemaBreakOutsideLoop, tc.exprSpan(id), "`break` outside of a loop").Emit()
		if br.Value.IsValid() {
			tc.checkExpr(br.Value, types.NoTypeID)
		}
		return tc.builtins.Never
	}

	value := tc.builtins.Unit
	if br.Value.IsValid() {
		if !loop.infinite {
			tc.errorf(diag.SemaBreakMismatch, tc.exprSpan(id), "`break` with value from a `while` loop").Emit()
		}
		value = tc.types.Settle(tc.checkExpr(br.Value, loop.breakType))
		// nested loops in the value may have grown the stack
		loop, _ = tc.currentLoop()
	}
	if !loop.infinite {
		return tc.builtins.Never
	}

	switch {
	case loop.breakType == types.NoTypeID:
		loop.breakType = tc.types.Unqualified(value)
		loop.breakSpan = tc.exprSpan(id)
	default:
		joined := tc.types.Join(loop.breakType, value)
		if joined == types.NoTypeID {
			sp := tc.exprSpan(id)
			if br.Value.IsValid() {
				sp = tc.exprSpan(br.Value)
			}
			tc.errorf(diag.SemaTypeMismatch, sp, "mismatched types: expected %s, found %s",
				tc.label(loop.breakType), tc.label(value)).
				WithNote(loop.breakSpan, "expected because of this `break`").
				Emit()
			break
		}
		loop.breakType = tc.types.Unqualified(joined)
	}
	return tc.builtins.Never
}

func (tc *typeChecker) typeReturn(id ast.ExprID) types.TypeID {
	ret, _ := tc.builder.Exprs.Return(id)
	fn, ok := tc.currentReturn()
	if !ok {
		tc.errorf(diag.SemaReturnOutsideFn, tc.exprSpan(id), "return statement outside of function body").Emit()
		if ret.Value.IsValid() {
			tc.checkExpr(ret.Value, types.NoTypeID)
		}
		return tc.builtins.Never
	}

	expected := fn.expected
	value, sp := tc.builtins.Unit, tc.exprSpan(id)
	if ret.Value.IsValid() {
		value, sp = tc.checkExpr(ret.Value, expected), tc.exprSpan(ret.Value)
	}
	if !tc.types.Compatible(value, expected) {
		decl, _ := tc.builder.Items.Fn(fn.fn)
		tc.errorf(diag.SemaReturnMismatch, sp, "mismatched types: expected %s, found %s",
			tc.label(expected), tc.label(value)).
			WithNote(decl.NameSpan, "function `"+fn.name+"` declares its return type here").
			Emit()
	}
	return tc.builtins.Never
}
