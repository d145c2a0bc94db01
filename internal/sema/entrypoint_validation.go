package sema

import (
	"rxc/internal/ast"
	"rxc/internal/diag"
)

// checkExitPlacement requires every call to the builtin `exit` in the body
// of main to be its final statement or tail expression.
func (tc *typeChecker) checkExitPlacement(fn *ast.FnItem) {
	if !tc.exitFn.IsValid() {
		return
	}
	allowed := tc.finalExitCall(fn.Body)
	tc.builder.WalkExpr(fn.Body, func(id ast.ExprID) bool {
		if id != allowed && tc.isExitCall(id) {
			tc.errorf(diag.SemaExitPlacement, tc.exprSpan(id),
				"`exit` must be the final statement of `main`").Emit()
		}
		return true
	})
}

// finalExitCall returns the exit call ending body, if any.
func (tc *typeChecker) finalExitCall(body ast.ExprID) ast.ExprID {
	blk, ok := tc.builder.Exprs.Block(body)
	if !ok {
		return ast.NoExprID
	}
	last := blk.Tail
	if !last.IsValid() && len(blk.Stmts) > 0 {
		if es, ok := tc.builder.Stmts.Expr(blk.Stmts[len(blk.Stmts)-1]); ok {
			last = es.Expr
		}
	}
	if last.IsValid() && tc.isExitCall(last) {
		return last
	}
	return ast.NoExprID
}

func (tc *typeChecker) isExitCall(id ast.ExprID) bool {
	call, ok := tc.builder.Exprs.Call(id)
	if !ok {
		return false
	}
	sym, ok := tc.symbols.ExprSymbol(call.Callee)
	return ok && sym == tc.exitFn
}
