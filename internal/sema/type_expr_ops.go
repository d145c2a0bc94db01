package sema

import (
	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/types"
)

func (tc *typeChecker) typeOperator(id ast.ExprID, kind ast.ExprKind, expected types.TypeID) types.TypeID {
	switch kind {
	case ast.ExprUnary:
		return tc.typeUnary(id, expected)
	case ast.ExprBinary:
		return tc.typeBinary(id, expected)
	case ast.ExprCast:
		return tc.typeCast(id)
	default:
		return tc.typeAssign(id)
	}
}

func (tc *typeChecker) typeUnary(id ast.ExprID, expected types.TypeID) types.TypeID {
	u, _ := tc.builder.Exprs.Unary(id)
	if u.Op == ast.UnaryNeg {
		if lit, ok := tc.builder.Exprs.Literal(u.Operand); ok && lit.Kind == ast.LitInt {
			t, fits := tc.intLiteral(id, lit, true, expected)
			tc.result.stamp(u.Operand, tc.types.Unqualified(t))
			if fits && !tc.signed(t) {
				return tc.badUnary(id, u.Op, t)
			}
			return t
		}
	}

	hint := tc.intHint(expected)
	if u.Op == ast.UnaryNot && expected != types.NoTypeID && tc.types.IsBoolean(expected) {
		hint = tc.builtins.Bool
	}
	operand := tc.types.Settle(tc.checkExpr(u.Operand, hint))
	k := tc.types.Kind(operand)
	switch {
	case k == types.KindNever:
		return operand
	case u.Op == ast.UnaryNeg && k.IsInteger():
		if !tc.signed(operand) {
			return tc.badUnary(id, u.Op, operand)
		}
		if tt := tc.types.MustLookup(operand); tt.HasValue {
			return tc.types.WithValue(tc.types.Unqualified(operand), !tt.Negative, tt.Value)
		}
		return tc.types.Unqualified(operand)
	case u.Op == ast.UnaryNot && (k == types.KindBool || k.IsInteger()):
		return tc.types.Unqualified(operand)
	}
	return tc.badUnary(id, u.Op, operand)
}

func (tc *typeChecker) signed(t types.TypeID) bool {
	spec, ok := tc.types.IntSpec(tc.types.Kind(t))
	return ok && spec.Signed
}

func (tc *typeChecker) badUnary(id ast.ExprID, op ast.UnaryOp, operand types.TypeID) types.TypeID {
	tc.errorf(diag.SemaInvalidUnaryOperand, tc.exprSpan(id),
		"cannot apply unary operator `%s` to type %s", op, tc.label(operand)).Emit()
	return tc.types.Unqualified(operand)
}

func (tc *typeChecker) typeBinary(id ast.ExprID, expected types.TypeID) types.TypeID {
	bin, _ := tc.builder.Exprs.Binary(id)
	b := tc.builtins
	switch {
	case bin.Op.IsLogical():
		l := tc.types.Settle(tc.checkExpr(bin.Left, b.Bool))
		r := tc.types.Settle(tc.checkExpr(bin.Right, b.Bool))
		if !tc.boolish(l) || !tc.boolish(r) {
			tc.badBinary(id, bin.Op, l, r)
		}
		return b.Bool
	case bin.Op.IsComparison():
		l := tc.types.Settle(tc.checkExpr(bin.Left, types.NoTypeID))
		r := tc.types.Settle(tc.checkExpr(bin.Right, tc.sizedHint(l)))
		joined := tc.types.Join(l, r)
		if joined == types.NoTypeID || !tc.comparable(joined, bin.Op) {
			tc.badBinary(id, bin.Op, l, r)
		}
		return b.Bool
	case bin.Op.IsShift():
		l := tc.types.Settle(tc.checkExpr(bin.Left, tc.intHint(expected)))
		r := tc.types.Settle(tc.checkExpr(bin.Right, types.NoTypeID))
		return tc.shift(id, bin.Op, l, r)
	}
	hint := tc.intHint(expected)
	if hint == types.NoTypeID && expected != types.NoTypeID && tc.types.IsBoolean(expected) {
		hint = b.Bool
	}
	l := tc.types.Settle(tc.checkExpr(bin.Left, hint))
	rightHint := hint
	switch {
	case tc.sizedHint(l) != types.NoTypeID:
		rightHint = tc.sizedHint(l)
	case tc.types.Kind(l) == types.KindString:
		rightHint = tc.types.Reference(b.Str, false)
	}
	r := tc.types.Settle(tc.checkExpr(bin.Right, rightHint))
	return tc.arithmetic(id, bin.Op, l, r)
}

// sizedHint narrows the other operand to a sized integer kind.
func (tc *typeChecker) sizedHint(t types.TypeID) types.TypeID {
	k := tc.types.Kind(t)
	if k.IsInteger() && k != types.KindInt {
		return tc.types.Unqualified(t)
	}
	return types.NoTypeID
}

func (tc *typeChecker) boolish(t types.TypeID) bool {
	k := tc.types.Kind(t)
	return k == types.KindBool || k == types.KindNever
}

// arithmetic types + - * / % & | ^ over settled operand types.
func (tc *typeChecker) arithmetic(id ast.ExprID, op ast.BinaryOp, l, r types.TypeID) types.TypeID {
	kl, kr := tc.types.Kind(l), tc.types.Kind(r)
	switch {
	case kl == types.KindNever && kr == types.KindNever:
		return l
	case kl == types.KindNever:
		return tc.types.Unqualified(r)
	case kr == types.KindNever:
		return tc.types.Unqualified(l)
	case kl.IsInteger() && kr.IsInteger():
		if joined := tc.types.Join(l, r); joined != types.NoTypeID {
			return tc.types.Unqualified(joined)
		}
	case kl == types.KindBool && kr == types.KindBool:
		if op == ast.BinBitAnd || op == ast.BinBitOr || op == ast.BinBitXor {
			return tc.builtins.Bool
		}
	case op == ast.BinAdd && kl == types.KindString && tc.stringRef(r):
		return tc.builtins.String
	}
	return tc.badBinary(id, op, l, r)
}

// stringRef reports &str and &String.
func (tc *typeChecker) stringRef(t types.TypeID) bool {
	tt, ok := tc.types.Lookup(t)
	if !ok || tt.Kind != types.KindReference {
		return false
	}
	k := tc.types.Kind(tt.Elem)
	return k == types.KindStr || k == types.KindString
}

func (tc *typeChecker) shift(id ast.ExprID, op ast.BinaryOp, l, r types.TypeID) types.TypeID {
	kl, kr := tc.types.Kind(l), tc.types.Kind(r)
	if (kl.IsInteger() || kl == types.KindNever) && (kr.IsInteger() || kr == types.KindNever) {
		return tc.types.Unqualified(l)
	}
	return tc.badBinary(id, op, l, r)
}

// comparable reports whether values of t support op.
func (tc *typeChecker) comparable(t types.TypeID, op ast.BinaryOp) bool {
	tt := tc.types.MustLookup(t)
	switch {
	case tt.Kind == types.KindNever:
		return true
	case tt.Kind.IsPrimitive():
		return true
	case tt.Kind == types.KindReference:
		return tc.comparable(tt.Elem, op)
	case tt.Kind == types.KindEnum || tt.Kind == types.KindUnit:
		return op == ast.BinEq || op == ast.BinNotEq
	}
	return false
}

func (tc *typeChecker) badBinary(id ast.ExprID, op ast.BinaryOp, l, r types.TypeID) types.TypeID {
	tc.errorf(diag.SemaInvalidBinaryOperands, tc.exprSpan(id),
		"cannot apply binary operator `%s` to types %s and %s", op, tc.label(l), tc.label(r)).Emit()
	if op.IsComparison() || op.IsLogical() {
		return tc.builtins.Bool
	}
	return tc.types.Unqualified(l)
}

func (tc *typeChecker) typeCast(id ast.ExprID) types.TypeID {
	c, _ := tc.builder.Exprs.Cast(id)
	target := tc.types.Unqualified(tc.resolveType(c.Type))
	value := tc.types.Settle(tc.checkExpr(c.Value, types.NoTypeID))
	if !tc.castable(value, target) {
		tc.errorf(diag.SemaInvalidCast, tc.exprSpan(id), "non-primitive cast: %s as %s",
			tc.label(value), tc.label(target)).Emit()
	}
	return target
}

// castable allows casts between integer kinds, from bool and char to any
// integer, and from u32 or an untyped integer to char.
func (tc *typeChecker) castable(from, to types.TypeID) bool {
	kf, kt := tc.types.Kind(from), tc.types.Kind(to)
	switch {
	case kf == types.KindNever || tc.types.Equal(from, to):
		return true
	case kt.IsInteger():
		return kf.IsInteger() || kf == types.KindBool || kf == types.KindChar
	case kt == types.KindChar:
		return kf == types.KindU32 || kf == types.KindInt
	}
	return false
}

func (tc *typeChecker) typeAssign(id ast.ExprID) types.TypeID {
	a, _ := tc.builder.Exprs.Assign(id)
	if !a.Compound && tc.builder.Exprs.Get(a.Target).Kind == ast.ExprUnderscore {
		value := tc.checkExpr(a.Value, types.NoTypeID)
		tc.result.stamp(a.Target, tc.types.Unqualified(tc.types.Settle(value)))
		return tc.builtins.Unit
	}

	target := tc.checkExpr(a.Target, types.NoTypeID)
	slot := tc.types.Unqualified(tc.types.Settle(target))
	if a.Compound {
		hint := tc.sizedHint(slot)
		if tc.types.Kind(slot) == types.KindString {
			hint = tc.types.Reference(tc.builtins.Str, false)
		}
		value := tc.types.Settle(tc.checkExpr(a.Value, hint))
		var result types.TypeID
		if a.Op.IsShift() {
			result = tc.shift(id, a.Op, slot, value)
		} else {
			result = tc.arithmetic(id, a.Op, slot, value)
		}
		if !tc.types.Compatible(result, slot) {
			tc.mismatch(a.Value, slot, result)
		}
	} else {
		value := tc.checkExpr(a.Value, slot)
		tc.coerce(a.Value, value, slot)
	}
	tc.borrows.Assign(tc.place(a.Target), tc.exprSpan(a.Target))
	return tc.builtins.Unit
}
