package sema

import (
	"rxc/internal/ast"
	"rxc/internal/consteval"
	"rxc/internal/diag"
	"rxc/internal/symbols"
	"rxc/internal/types"
)

type constEvalState uint8

const (
	constStateUnvisited constEvalState = iota
	constStateVisiting
	constStateDone
)

// constEnv lets the evaluator see constants and types through the checker.
type constEnv struct{ tc *typeChecker }

func (e constEnv) PathValue(expr ast.ExprID) (consteval.Value, bool) {
	sym, id := e.tc.symbolOf(expr)
	if sym == nil || sym.Kind != symbols.SymbolConst {
		return consteval.Value{}, false
	}
	return e.tc.constValue(id)
}

func (e constEnv) ResolveType(typ ast.TypeID) types.TypeID {
	return e.tc.resolveType(typ)
}

// constValue evaluates a constant on first use. A constant reached again
// while it is being evaluated closes a cycle.
func (tc *typeChecker) constValue(id symbols.SymbolID) (consteval.Value, bool) {
	sym := tc.table.Symbol(id)
	item := sym.Decl.Item
	switch tc.constState[id] {
	case constStateDone:
		if v, ok := tc.result.ConstValues[item]; ok {
			return v, true
		}
		return consteval.Value{Kind: consteval.ValuePoisoned}, false
	case constStateVisiting:
		tc.errorf(diag.SemaConstCycle, sym.Span,
			"cycle detected when evaluating constant `%s`", tc.name(sym.Name)).Emit()
		return consteval.Value{Kind: consteval.ValuePoisoned}, false
	}
	tc.constState[id] = constStateVisiting
	defer func() { tc.constState[id] = constStateDone }()

	c, _ := tc.builder.Items.Const(item)
	typ := tc.constType(id)
	if !c.Value.IsValid() {
		// a trait requirement has no value to fold
		return consteval.Value{}, false
	}
	v, ok := tc.consts.Eval(c.Value, typ)
	if !ok {
		return consteval.Value{Kind: consteval.ValuePoisoned}, false
	}
	tc.result.ConstValues[item] = v
	return v, true
}

// checkConst stamps the initializer of a const item and makes sure its
// value was folded, so every constant is evaluated even when unused.
func (tc *typeChecker) checkConst(id ast.ItemID) {
	symID := tc.symbols.ItemSymbols[id]
	c, _ := tc.builder.Items.Const(id)
	typ := tc.constType(symID)
	if !c.Value.IsValid() {
		return
	}
	_, folded := tc.constValue(symID)
	tc.isolated(func() {
		tc.checkConstExpr(c.Value, typ, folded)
	})
}

// checkConstExpr stamps an expression the constant evaluator already saw.
// When folding failed the evaluator has reported the problem, and checking
// runs silently so the same mistake is not reported twice.
func (tc *typeChecker) checkConstExpr(expr ast.ExprID, expected types.TypeID, folded bool) types.TypeID {
	if !folded {
		saved := tc.reporter
		tc.reporter = diag.NopReporter{}
		defer func() { tc.reporter = saved }()
	}
	t := tc.checkExpr(expr, expected)
	if folded {
		tc.coerce(expr, t, expected)
	}
	return t
}
