package consteval

import (
	"fmt"
	"math/big"
	"strings"

	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/source"
	"rxc/internal/types"
)

// Env resolves the names a constant expression refers to.
type Env interface {
	// PathValue returns the value of the constant named by a path
	// expression. ok is false when the path is not a constant; a false ok
	// with a ValuePoisoned value suppresses the not-constant error.
	PathValue(expr ast.ExprID) (Value, bool)
	// ResolveType returns the type denoted by a type expression.
	ResolveType(typ ast.TypeID) types.TypeID
}

type Options struct {
	// ThrowOnError aborts on the first error; callers must defer diag.Catch.
	ThrowOnError bool
	Reporter     diag.Reporter
}

// Evaluator folds expressions over arbitrary-precision integers and checks
// every result against the width of its integer kind.
type Evaluator struct {
	b        *ast.Builder
	types    *types.Interner
	env      Env
	reporter diag.Reporter
}

func New(b *ast.Builder, in *types.Interner, env Env, opts Options) *Evaluator {
	rep := opts.Reporter
	if rep == nil {
		rep = diag.NopReporter{}
	}
	if opts.ThrowOnError {
		rep = diag.FailFast{Next: rep}
	}
	return &Evaluator{b: b, types: in, env: env, reporter: rep}
}

// Eval folds expr. expected narrows untyped integer literals and is the
// kind results are range-checked against; NoTypeID leaves them untyped.
func (ev *Evaluator) Eval(expr ast.ExprID, expected types.TypeID) (Value, bool) {
	v, ok := ev.eval(expr, expected)
	if !ok || v.Kind != ValueInt || expected == types.NoTypeID {
		return v, ok
	}
	if k := ev.types.Kind(expected); k.IsInteger() && k != ev.types.Kind(v.Type) {
		// an untyped result takes the expected kind
		if ev.types.Kind(v.Type) == types.KindInt {
			return ev.checked(expr, v.Int, ev.types.Unqualified(expected))
		}
	}
	return v, ok
}

// ArrayLength folds an array length or repeat count as a usize.
func (ev *Evaluator) ArrayLength(expr ast.ExprID) (uint64, bool) {
	usize := ev.types.Builtins().Usize
	v, ok := ev.Eval(expr, usize)
	if !ok {
		return 0, false
	}
	if v.Kind != ValueInt || !ev.types.Compatible(v.Type, usize) {
		ev.report(diag.SemaConstArraySize, ev.span(expr), "array length must be a constant usize")
		return 0, false
	}
	n, ok := v.Uint64()
	if !ok {
		ev.report(diag.SemaConstArraySize, ev.span(expr), "array length must not be negative")
	}
	return n, ok
}

func (ev *Evaluator) span(expr ast.ExprID) source.Span {
	return ev.b.Exprs.Get(expr).Span
}

func (ev *Evaluator) report(code diag.Code, sp source.Span, msg string) {
	ev.reporter.Report(code, diag.SevError, sp, msg, nil)
}

func (ev *Evaluator) notConstant(expr ast.ExprID) (Value, bool) {
	e := ev.b.Exprs.Get(expr)
	ev.report(diag.SemaConstNotConstant, e.Span, fmt.Sprintf("%s expression is not a constant expression", strings.ToLower(e.Kind.String())))
	return Value{}, false
}

// kindName renders an integer kind the way overflow messages show it.
func kindName(k types.Kind) string {
	return strings.ToUpper(k.String())
}

// checked range-checks v against kind typ and wraps it as a Value.
func (ev *Evaluator) checked(expr ast.ExprID, v *big.Int, typ types.TypeID) (Value, bool) {
	k := ev.types.Kind(typ)
	spec, _ := ev.types.IntSpec(k)
	if !spec.Fits(v) {
		ev.report(diag.SemaConstOverflow, ev.span(expr), fmt.Sprintf("constant value %s overflows %s", v, kindName(k)))
		return Value{}, false
	}
	return Value{Kind: ValueInt, Type: typ, Int: v}, true
}

func (ev *Evaluator) eval(expr ast.ExprID, expected types.TypeID) (Value, bool) {
	ex := ev.b.Exprs
	e := ex.Get(expr)
	switch e.Kind {
	case ast.ExprLiteral:
		lit, _ := ex.Literal(expr)
		return ev.literal(expr, lit, false, expected)
	case ast.ExprGroup:
		g, _ := ex.Group(expr)
		return ev.eval(g.Inner, expected)
	case ast.ExprPath:
		v, ok := ev.env.PathValue(expr)
		if !ok {
			if v.Kind == ValuePoisoned {
				return Value{}, false
			}
			return ev.notConstant(expr)
		}
		return v, true
	case ast.ExprUnary:
		return ev.unary(expr, expected)
	case ast.ExprBinary:
		return ev.binary(expr, expected)
	case ast.ExprCast:
		return ev.cast(expr)
	case ast.ExprArray:
		return ev.array(expr, expected)
	case ast.ExprArrayRepeat:
		return ev.repeat(expr, expected)
	case ast.ExprIndex:
		return ev.index(expr)
	case ast.ExprBlock:
		blk, _ := ex.Block(expr)
		if len(blk.Stmts) == 0 && blk.Tail.IsValid() {
			return ev.eval(blk.Tail, expected)
		}
	}
	return ev.notConstant(expr)
}

// intTarget picks the kind an untyped literal takes under expected.
func (ev *Evaluator) intTarget(expected types.TypeID) types.TypeID {
	if expected != types.NoTypeID {
		if k := ev.types.Kind(expected); k.IsInteger() {
			return ev.types.Unqualified(expected)
		}
	}
	return ev.types.Builtins().Int
}

func (ev *Evaluator) literal(expr ast.ExprID, lit *ast.ExprLiteralData, negate bool, expected types.TypeID) (Value, bool) {
	in := ev.types
	switch lit.Kind {
	case ast.LitInt:
		typ := ev.intTarget(expected)
		if lit.Suffix != ast.SuffixNone {
			typ = in.Intern(types.Type{Kind: suffixKind(lit.Suffix)})
		}
		if lit.Overflow {
			ev.report(diag.SemaConstOverflow, ev.span(expr), "integer literal overflows "+kindName(in.Kind(typ)))
			return Value{}, false
		}
		return ev.checked(expr, types.LiteralValue(negate, lit.Int), typ)
	case ast.LitBool:
		return Value{Kind: ValueBool, Type: in.Builtins().Bool, Bool: lit.Bool}, true
	case ast.LitChar:
		return Value{Kind: ValueChar, Type: in.Builtins().Char, Char: lit.Char}, true
	case ast.LitString, ast.LitCString:
		s := ev.b.Strings.MustLookup(lit.Str)
		return Value{Kind: ValueStr, Type: in.Reference(in.Builtins().Str, false), Str: s}, true
	case ast.LitUnit:
		return Value{Kind: ValueUnit, Type: in.Builtins().Unit}, true
	}
	panic(fmt.Sprintf("consteval: unknown literal kind %d", lit.Kind))
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

func (ev *Evaluator) unary(expr ast.ExprID, expected types.TypeID) (Value, bool) {
	u, _ := ev.b.Exprs.Unary(expr)
	if u.Op == ast.UnaryNeg {
		// -MIN must not overflow on the way through the magnitude
		if lit, ok := ev.literalOperand(u.Operand); ok && lit.Kind == ast.LitInt {
			return ev.literal(expr, lit, true, expected)
		}
	}
	v, ok := ev.eval(u.Operand, expected)
	if !ok {
		return v, false
	}
	switch {
	case u.Op == ast.UnaryNeg && v.Kind == ValueInt:
		return ev.checked(expr, new(big.Int).Neg(v.Int), v.Type)
	case u.Op == ast.UnaryNot && v.Kind == ValueBool:
		return Value{Kind: ValueBool, Type: v.Type, Bool: !v.Bool}, true
	case u.Op == ast.UnaryNot && v.Kind == ValueInt:
		spec, _ := ev.types.IntSpec(ev.types.Kind(v.Type))
		if spec.Signed {
			return ev.checked(expr, new(big.Int).Not(v.Int), v.Type)
		}
		_, hi := spec.Range()
		return ev.checked(expr, hi.Sub(hi, v.Int), v.Type)
	}
	ev.report(diag.SemaInvalidUnaryOperand, ev.span(expr), fmt.Sprintf("cannot apply `%s` to %s", u.Op, types.Label(ev.types, v.Type)))
	return Value{}, false
}

func (ev *Evaluator) literalOperand(expr ast.ExprID) (*ast.ExprLiteralData, bool) {
	for {
		switch ev.b.Exprs.Get(expr).Kind {
		case ast.ExprGroup:
			g, _ := ev.b.Exprs.Group(expr)
			expr = g.Inner
		case ast.ExprLiteral:
			return ev.b.Exprs.Literal(expr)
		default:
			return nil, false
		}
	}
}

func (ev *Evaluator) cast(expr ast.ExprID) (Value, bool) {
	c, _ := ev.b.Exprs.Cast(expr)
	target := ev.env.ResolveType(c.Type)
	v, ok := ev.eval(c.Value, types.NoTypeID)
	if !ok {
		return v, false
	}
	tk := ev.types.Kind(target)
	if !tk.IsInteger() {
		if v.Kind == ValueInt && tk == types.KindChar {
			n, ok := v.Uint64()
			if ok && n <= 0x7F {
				return Value{Kind: ValueChar, Type: ev.types.Unqualified(target), Char: rune(n)}, true
			}
		}
		return ev.notConstant(expr)
	}
	var n *big.Int
	switch v.Kind {
	case ValueInt:
		n = v.Int
	case ValueBool:
		n = big.NewInt(0)
		if v.Bool {
			n.SetInt64(1)
		}
	case ValueChar:
		n = big.NewInt(int64(v.Char))
	default:
		return ev.notConstant(expr)
	}
	spec, _ := ev.types.IntSpec(tk)
	return Value{Kind: ValueInt, Type: ev.types.Unqualified(target), Int: wrap(n, spec)}, true
}

// wrap truncates n to the IntSpec width in two's complement.
func wrap(n *big.Int, spec types.IntSpec) *big.Int {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(spec.Bits))
	r := new(big.Int).Mod(n, mod) // Euclidean, always >= 0
	if spec.Signed && r.Bit(int(spec.Bits)-1) == 1 {
		r.Sub(r, mod)
	}
	return r
}

func (ev *Evaluator) array(expr ast.ExprID, expected types.TypeID) (Value, bool) {
	arr, _ := ev.b.Exprs.Array(expr)
	elemExpected := types.NoTypeID
	if expected != types.NoTypeID {
		if tt := ev.types.MustLookup(expected); tt.Kind == types.KindArray {
			elemExpected = tt.Elem
		}
	}
	elems := make([]Value, 0, len(arr.Elems))
	elemType := elemExpected
	for _, el := range arr.Elems {
		v, ok := ev.eval(el, elemExpected)
		if !ok {
			return Value{}, false
		}
		if elemType == types.NoTypeID {
			elemType = v.Type
		}
		elems = append(elems, v)
	}
	if elemType == types.NoTypeID {
		elemType = ev.types.Underscore()
	}
	typ := ev.types.Array(ev.types.Unqualified(elemType), uint64(len(elems)))
	return Value{Kind: ValueArray, Type: typ, Elems: elems}, true
}

func (ev *Evaluator) repeat(expr ast.ExprID, expected types.TypeID) (Value, bool) {
	r, _ := ev.b.Exprs.ArrayRepeat(expr)
	n, ok := ev.ArrayLength(r.Count)
	if !ok {
		return Value{}, false
	}
	elemExpected := types.NoTypeID
	if expected != types.NoTypeID {
		if tt := ev.types.MustLookup(expected); tt.Kind == types.KindArray {
			elemExpected = tt.Elem
		}
	}
	v, ok := ev.eval(r.Value, elemExpected)
	if !ok {
		return Value{}, false
	}
	if n > maxRepeat {
		ev.report(diag.SemaConstArraySize, ev.span(r.Count), fmt.Sprintf("constant array of %d elements is too large", n))
		return Value{}, false
	}
	elems := make([]Value, n)
	for i := range elems {
		elems[i] = v
	}
	return Value{Kind: ValueArray, Type: ev.types.Array(ev.types.Unqualified(v.Type), n), Elems: elems}, true
}

// maxRepeat bounds the size of a folded repeat expression.
const maxRepeat = 1 << 16

func (ev *Evaluator) index(expr ast.ExprID) (Value, bool) {
	ix, _ := ev.b.Exprs.Index(expr)
	target, ok := ev.eval(ix.Target, types.NoTypeID)
	if !ok {
		return Value{}, false
	}
	if target.Kind != ValueArray {
		return ev.notConstant(expr)
	}
	idx, ok := ev.eval(ix.Index, ev.types.Builtins().Usize)
	if !ok {
		return Value{}, false
	}
	n, ok := idx.Uint64()
	if !ok || n >= uint64(len(target.Elems)) {
		ev.report(diag.SemaConstIndexOutside, ev.span(ix.Index), fmt.Sprintf("index %s is outside an array of length %d", idx, len(target.Elems)))
		return Value{}, false
	}
	return target.Elems[n], true
}
