package consteval

import (
	"cmp"
	"fmt"
	"math/big"

	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/types"
)

func (ev *Evaluator) binary(expr ast.ExprID, expected types.TypeID) (Value, bool) {
	bin, _ := ev.b.Exprs.Binary(expr)
	if bin.Op.IsLogical() {
		return ev.logical(expr, bin)
	}

	operandExpected := expected
	if bin.Op.IsComparison() {
		operandExpected = types.NoTypeID
	}
	left, ok := ev.eval(bin.Left, operandExpected)
	if !ok {
		return Value{}, false
	}
	rightExpected := operandExpected
	switch {
	case bin.Op.IsShift():
		rightExpected = types.NoTypeID
	case left.Kind == ValueInt && ev.types.Kind(left.Type) != types.KindInt:
		rightExpected = left.Type
	}
	right, ok := ev.eval(bin.Right, rightExpected)
	if !ok {
		return Value{}, false
	}
	// an untyped left operand follows the right one
	if left.Kind == ValueInt && right.Kind == ValueInt && !bin.Op.IsShift() &&
		ev.types.Kind(left.Type) == types.KindInt && ev.types.Kind(right.Type) != types.KindInt {
		if left, ok = ev.checked(bin.Left, left.Int, right.Type); !ok {
			return Value{}, false
		}
	}

	if bin.Op.IsComparison() {
		return ev.compare(expr, bin.Op, left, right)
	}
	if left.Kind == ValueBool && right.Kind == ValueBool {
		return ev.boolBitwise(expr, bin.Op, left, right)
	}
	if left.Kind != ValueInt || right.Kind != ValueInt {
		return ev.badOperands(expr, bin.Op, left, right)
	}
	if !bin.Op.IsShift() && !ev.types.Equal(left.Type, right.Type) {
		return ev.badOperands(expr, bin.Op, left, right)
	}

	typ := left.Type
	a, b := left.Int, right.Int
	r := new(big.Int)
	switch bin.Op {
	case ast.BinAdd:
		r.Add(a, b)
	case ast.BinSub:
		r.Sub(a, b)
	case ast.BinMul:
		r.Mul(a, b)
	case ast.BinDiv, ast.BinRem:
		if b.Sign() == 0 {
			ev.report(diag.SemaConstDivByZero, ev.span(expr), "attempt to divide by zero in a constant")
			return Value{}, false
		}
		// truncated division, like the runtime
		if bin.Op == ast.BinDiv {
			r.Quo(a, b)
		} else {
			r.Rem(a, b)
		}
	case ast.BinBitAnd:
		r.And(a, b)
	case ast.BinBitOr:
		r.Or(a, b)
	case ast.BinBitXor:
		r.Xor(a, b)
	case ast.BinShl, ast.BinShr:
		return ev.shift(expr, bin.Op, left, right)
	default:
		panic(fmt.Sprintf("consteval: unexpected operator %s", bin.Op))
	}
	return ev.checked(expr, r, typ)
}

func (ev *Evaluator) shift(expr ast.ExprID, op ast.BinaryOp, left, right Value) (Value, bool) {
	spec, _ := ev.types.IntSpec(ev.types.Kind(left.Type))
	n, ok := right.Uint64()
	if !ok || n >= uint64(spec.Bits) {
		ev.report(diag.SemaConstOverflow, ev.span(expr), fmt.Sprintf("shift by %s overflows %s", right.Int, kindName(ev.types.Kind(left.Type))))
		return Value{}, false
	}
	if op == ast.BinShl {
		return Value{Kind: ValueInt, Type: left.Type, Int: wrap(new(big.Int).Lsh(left.Int, uint(n)), spec)}, true
	}
	return Value{Kind: ValueInt, Type: left.Type, Int: new(big.Int).Rsh(left.Int, uint(n))}, true
}

func (ev *Evaluator) logical(expr ast.ExprID, bin *ast.ExprBinaryData) (Value, bool) {
	boolType := ev.types.Builtins().Bool
	left, ok := ev.eval(bin.Left, boolType)
	if !ok {
		return Value{}, false
	}
	if left.Kind != ValueBool {
		return ev.badOperands(expr, bin.Op, left, left)
	}
	if (bin.Op == ast.BinLogicalAnd && !left.Bool) || (bin.Op == ast.BinLogicalOr && left.Bool) {
		return left, true
	}
	right, ok := ev.eval(bin.Right, boolType)
	if !ok {
		return Value{}, false
	}
	if right.Kind != ValueBool {
		return ev.badOperands(expr, bin.Op, left, right)
	}
	return right, true
}

func (ev *Evaluator) boolBitwise(expr ast.ExprID, op ast.BinaryOp, left, right Value) (Value, bool) {
	v := Value{Kind: ValueBool, Type: ev.types.Builtins().Bool}
	switch op {
	case ast.BinBitAnd:
		v.Bool = left.Bool && right.Bool
	case ast.BinBitOr:
		v.Bool = left.Bool || right.Bool
	case ast.BinBitXor:
		v.Bool = left.Bool != right.Bool
	default:
		return ev.badOperands(expr, op, left, right)
	}
	return v, true
}

func (ev *Evaluator) compare(expr ast.ExprID, op ast.BinaryOp, left, right Value) (Value, bool) {
	var c int
	switch {
	case left.Kind == ValueInt && right.Kind == ValueInt:
		c = left.Int.Cmp(right.Int)
	case left.Kind == ValueChar && right.Kind == ValueChar:
		c = cmp.Compare(left.Char, right.Char)
	case left.Kind == ValueBool && right.Kind == ValueBool:
		c = cmp.Compare(boolInt(left.Bool), boolInt(right.Bool))
	case left.Kind == ValueStr && right.Kind == ValueStr:
		c = cmp.Compare(left.Str, right.Str)
	default:
		return ev.badOperands(expr, op, left, right)
	}
	var r bool
	switch op {
	case ast.BinEq:
		r = c == 0
	case ast.BinNotEq:
		r = c != 0
	case ast.BinLess:
		r = c < 0
	case ast.BinLessEq:
		r = c <= 0
	case ast.BinGreater:
		r = c > 0
	case ast.BinGreaterEq:
		r = c >= 0
	}
	return Value{Kind: ValueBool, Type: ev.types.Builtins().Bool, Bool: r}, true
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (ev *Evaluator) badOperands(expr ast.ExprID, op ast.BinaryOp, left, right Value) (Value, bool) {
	ev.report(diag.SemaInvalidBinaryOperands, ev.span(expr), fmt.Sprintf("cannot apply `%s` to %s and %s",
		op, types.Label(ev.types, left.Type), types.Label(ev.types, right.Type)))
	return Value{}, false
}
