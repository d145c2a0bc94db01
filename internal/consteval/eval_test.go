package consteval_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"rxc/internal/ast"
	"rxc/internal/consteval"
	"rxc/internal/diag"
	"rxc/internal/lexer"
	"rxc/internal/parser"
	"rxc/internal/source"
	"rxc/internal/types"
)

// env resolves single-segment paths from a fixed table.
type env struct {
	b      *ast.Builder
	in     *types.Interner
	consts map[string]consteval.Value
}

func (e env) PathValue(expr ast.ExprID) (consteval.Value, bool) {
	p, _ := e.b.Exprs.Path(expr)
	v, ok := e.consts[p.Path.String(e.b.Strings)]
	return v, ok && v.Kind != consteval.ValuePoisoned
}

func (e env) ResolveType(typ ast.TypeID) types.TypeID {
	t := e.b.Types.Get(typ)
	id, _ := e.in.PrimitiveByName(t.Path.String(e.b.Strings))
	return id
}

type fixture struct {
	b    *ast.Builder
	in   *types.Interner
	bag  *diag.Bag
	c    *ast.ConstItem
	env  env
	file ast.FileID
}

func parseConst(t *testing.T, src string) fixture {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("c.rx", []byte(src)))
	bag := diag.NewBag(0)
	b := ast.NewBuilder(ast.Hints{})
	lx := lexer.New(f, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	res := parser.ParseFile(context.Background(), lx, b, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("parse: %v", bag.Items())
	}
	c, ok := b.Items.Const(b.Files.Get(res.File).Items[0])
	if !ok {
		t.Fatalf("first item is not a const")
	}
	in := types.NewInterner(0)
	return fixture{b: b, in: in, bag: diag.NewBag(0), c: c, env: env{b: b, in: in}, file: res.File}
}

func (fx fixture) eval(throw bool) (consteval.Value, bool) {
	ev := consteval.New(fx.b, fx.in, fx.env, consteval.Options{ThrowOnError: throw, Reporter: diag.BagReporter{Bag: fx.bag}})
	return ev.Eval(fx.c.Value, fx.env.ResolveType(fx.c.Type))
}

func TestEvalArithmetic(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"const C: i32 = 1 + 2 * 3;", "7"},
		{"const C: i32 = -7 / 2;", "-3"},
		{"const C: i32 = -7 % 2;", "-1"},
		{"const C: i32 = -2147483648;", "-2147483648"},
		{"const C: u32 = !0;", "4294967295"},
		{"const C: i32 = !0;", "-1"},
		{"const C: i32 = 1 << 31;", "-2147483648"},
		{"const C: u32 = 0xF0 >> 4 | 1;", "15"},
		{"const C: usize = 300 as u32 as usize;", "300"},
		{"const C: i32 = 4294967295u32 as i32;", "-1"},
		{"const C: i32 = true as i32 + 'a' as i32;", "98"},
		{"const C: bool = 3 < 4 && !(1 == 2);", "true"},
		{"const C: bool = false && 1 / 0 == 0;", "false"},
		{"const C: [i32; 3] = [1, 2, 3];", "[1, 2, 3]"},
		{"const C: i32 = [5; 4][3];", "5"},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			fx := parseConst(t, tc.src)
			v, ok := fx.eval(false)
			if !ok {
				t.Fatalf("eval failed: %v", fx.bag.Items())
			}
			if v.String() != tc.want {
				t.Fatalf("got %s, want %s", v, tc.want)
			}
		})
	}
}

func TestEvalOverflowNamesKind(t *testing.T) {
	fx := parseConst(t, "const C: i32 = 2147483648;")
	if _, ok := fx.eval(false); ok {
		t.Fatalf("overflow not detected")
	}
	items := fx.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaConstOverflow {
		t.Fatalf("diagnostics: %v", items)
	}
	if !strings.Contains(items[0].Message, "I32") {
		t.Fatalf("message %q does not name I32", items[0].Message)
	}
}

func TestEvalErrors(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
	}{
		{"const C: u32 = 0 - 1;", diag.SemaConstOverflow},
		{"const C: i32 = 2147483647 + 1;", diag.SemaConstOverflow},
		{"const C: i32 = 1 << 32;", diag.SemaConstOverflow},
		{"const C: i32 = 10 / (5 - 5);", diag.SemaConstDivByZero},
		{"const C: i32 = x + 1;", diag.SemaConstNotConstant},
		{"const C: i32 = f();", diag.SemaConstNotConstant},
		{"const C: i32 = [1, 2][2];", diag.SemaConstIndexOutside},
		{"const C: usize = 99999999999999999999;", diag.SemaConstOverflow},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			fx := parseConst(t, tc.src)
			if _, ok := fx.eval(false); ok {
				t.Fatalf("expected failure")
			}
			if !slices.Contains(fx.bag.Codes(), tc.code) {
				t.Fatalf("want %s, got %v", tc.code.ID(), fx.bag.Codes())
			}
		})
	}
}

func TestEvalPathConstants(t *testing.T) {
	fx := parseConst(t, "const C: i32 = N * 2;")
	fx.env.consts = map[string]consteval.Value{
		"N": {Kind: consteval.ValueInt, Type: fx.in.Builtins().I32, Int: types.LiteralValue(false, 21)},
	}
	v, ok := fx.eval(false)
	if !ok || v.String() != "42" {
		t.Fatalf("got %s ok=%v (%v)", v, ok, fx.bag.Items())
	}
}

func TestEvalPoisonedConstantIsSilent(t *testing.T) {
	fx := parseConst(t, "const C: i32 = N + 1;")
	fx.env.consts = map[string]consteval.Value{"N": {Kind: consteval.ValuePoisoned}}
	if _, ok := fx.eval(false); ok {
		t.Fatalf("poisoned operand folded")
	}
	if fx.bag.Len() != 0 {
		t.Fatalf("poisoned operand reported: %v", fx.bag.Items())
	}
}

func TestEvalFailFast(t *testing.T) {
	fx := parseConst(t, "const C: i32 = 2147483647 * 2;")
	run := func() (err error) {
		defer diag.Catch(&err)
		fx.eval(true)
		return nil
	}
	err := run()
	var de *diag.Error
	if !errors.As(err, &de) || de.Diagnostic.Code != diag.SemaConstOverflow {
		t.Fatalf("want fail-fast overflow, got %v", err)
	}
	if fx.bag.Len() != 1 {
		t.Fatalf("fail-fast still records the diagnostic, got %d", fx.bag.Len())
	}
}

func TestArrayLength(t *testing.T) {
	fx := parseConst(t, "const C: usize = 2 * 8;")
	ev := consteval.New(fx.b, fx.in, fx.env, consteval.Options{Reporter: diag.BagReporter{Bag: fx.bag}})
	n, ok := ev.ArrayLength(fx.c.Value)
	if !ok || n != 16 {
		t.Fatalf("length %d ok=%v", n, ok)
	}
	neg := parseConst(t, "const C: i32 = -1;")
	ev = consteval.New(neg.b, neg.in, neg.env, consteval.Options{Reporter: diag.BagReporter{Bag: neg.bag}})
	if _, ok := ev.ArrayLength(neg.c.Value); ok {
		t.Fatalf("negative length accepted")
	}
}
