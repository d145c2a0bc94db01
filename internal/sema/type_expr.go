package sema

import (
	"fmt"

	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/symbols"
	"rxc/internal/types"
)

// checkExpr types expr, stamps it and returns the type. expected is a hint
// for untyped literals and nested array, reference and block contexts;
// callers compare the result against it with coerce.
func (tc *typeChecker) checkExpr(id ast.ExprID, expected types.TypeID) types.TypeID {
	discard := tc.discard
	tc.discard = false

	kind := tc.builder.Exprs.Get(id).Kind
	var t types.TypeID
	switch kind {
	case ast.ExprLiteral, ast.ExprPath, ast.ExprGroup, ast.ExprUnderscore:
		t = tc.typeSimple(id, kind, expected)
	case ast.ExprUnary, ast.ExprBinary, ast.ExprCast, ast.ExprAssign:
		t = tc.typeOperator(id, kind, expected)
	case ast.ExprBorrow, ast.ExprDeref, ast.ExprCall, ast.ExprMethodCall, ast.ExprField,
		ast.ExprIndex, ast.ExprArray, ast.ExprArrayRepeat, ast.ExprStruct:
		t = tc.typeComplex(id, kind, expected)
	case ast.ExprBlock, ast.ExprIf, ast.ExprLoop, ast.ExprWhile, ast.ExprBreak, ast.ExprContinue, ast.ExprReturn:
		t = tc.typeControl(id, kind, expected)
	default:
		panic(fmt.Sprintf("sema: unhandled expression kind %s", kind))
	}

	if discard && isBlockLike(kind) && tc.ambiguous(t) {
		t = tc.types.AmbiguousBlock(t)
	}
	tc.result.stamp(id, t)
	return t
}

// isBlockLike reports expressions that may stand as statements without a
// trailing semicolon.
func isBlockLike(kind ast.ExprKind) bool {
	switch kind {
	case ast.ExprBlock, ast.ExprIf, ast.ExprLoop, ast.ExprWhile:
		return true
	}
	return false
}

// ambiguous reports a value type whose use depends on the context.
func (tc *typeChecker) ambiguous(t types.TypeID) bool {
	switch tc.types.Kind(t) {
	case types.KindUnit, types.KindNever, types.KindAmbiguousBlock:
		return false
	}
	return true
}

// intHint keeps expected when it can narrow an untyped integer.
func (tc *typeChecker) intHint(expected types.TypeID) types.TypeID {
	if expected == types.NoTypeID {
		return types.NoTypeID
	}
	if tc.types.Kind(expected).IsInteger() {
		return tc.types.Unqualified(expected)
	}
	return types.NoTypeID
}

func (tc *typeChecker) typeSimple(id ast.ExprID, kind ast.ExprKind, expected types.TypeID) types.TypeID {
	ex := tc.builder.Exprs
	switch kind {
	case ast.ExprLiteral:
		lit, _ := ex.Literal(id)
		return tc.typeLiteral(id, lit, false, expected)
	case ast.ExprPath:
		return tc.typePath(id)
	case ast.ExprGroup:
		g, _ := ex.Group(id)
		return tc.checkExpr(g.Inner, expected)
	default:
		tc.errorf(diag.SemaUnderscoreValue, tc.exprSpan(id),
			"`_` can only be used on the left-hand side of an assignment").Emit()
		return tc.builtins.Never
	}
}

func (tc *typeChecker) typeLiteral(id ast.ExprID, lit *ast.ExprLiteralData, negate bool, expected types.TypeID) types.TypeID {
	b := tc.builtins
	switch lit.Kind {
	case ast.LitInt:
		t, _ := tc.intLiteral(id, lit, negate, expected)
		return t
	case ast.LitBool:
		return b.Bool
	case ast.LitChar:
		return b.Char
	case ast.LitString, ast.LitCString:
		return tc.types.Reference(b.Str, false)
	case ast.LitUnit:
		return b.Unit
	}
	panic(fmt.Sprintf("sema: unknown literal kind %d", lit.Kind))
}

// intLiteral types an integer literal, negated when it is the operand of a
// unary minus. The type carries the literal value.
// intLiteral reports false when the literal was rejected as out of range.
func (tc *typeChecker) intLiteral(id ast.ExprID, lit *ast.ExprLiteralData, negate bool, expected types.TypeID) (types.TypeID, bool) {
	target := tc.builtins.Int
	switch {
	case lit.Suffix != ast.SuffixNone:
		target = tc.types.Intern(types.Type{Kind: suffixKind(lit.Suffix)})
	case tc.intHint(expected) != types.NoTypeID:
		target = tc.intHint(expected)
	}
	kind := tc.types.Kind(target)
	raw := tc.name(lit.Raw)
	if negate {
		raw = "-" + raw
	}
	if lit.Overflow || !tc.types.FitsLiteral(kind, negate, lit.Int) {
		tc.errorf(diag.SemaIntLiteralOutOfRange, tc.exprSpan(id),
			"literal out of range for %s: `%s`", tc.label(target), raw).Emit()
		return target, false
	}
	return tc.types.WithValue(target, negate, lit.Int), true
}

func suffixKind(s ast.IntSuffix) types.Kind {
	switch s {
	case ast.SuffixI32:
		return types.KindI32
	case ast.SuffixU32:
		return types.KindU32
	case ast.SuffixUsize:
		return types.KindUsize
	case ast.SuffixIsize:
		return types.KindIsize
	}
	return types.KindInt
}

// typePath types a name in value position. Names the resolver could not
// bind were reported there and become never.
func (tc *typeChecker) typePath(id ast.ExprID) types.TypeID {
	sym, symID := tc.symbolOf(id)
	if sym == nil {
		return tc.builtins.Never
	}
	switch sym.Kind {
	case symbols.SymbolVariable, symbols.SymbolSelfParam, symbols.SymbolFunction, symbols.SymbolVariant:
		if sym.Type == types.NoTypeID {
			return tc.builtins.Never
		}
		return sym.Type
	case symbols.SymbolConst:
		return tc.constType(symID)
	case symbols.SymbolStruct:
		if st, ok := tc.builder.Items.Struct(sym.Decl.Item); ok && st.Unit {
			return sym.Type
		}
		return tc.types.StructConstructor(sym.Type)
	case symbols.SymbolEnum:
		return tc.types.EnumConstructor(sym.Type)
	}
	tc.errorf(diag.SemaNotAValue, tc.exprSpan(id), "expected value, found %s `%s`",
		sym.Kind, tc.name(sym.Name)).Emit()
	return tc.builtins.Never
}
