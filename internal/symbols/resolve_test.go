package symbols_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/symbols"
	"rxc/internal/testkit"
)

var prelude = []symbols.PreludeEntry{
	{Name: "i32", Namespace: symbols.NSType, Kind: symbols.SymbolPrimitive},
	{Name: "bool", Namespace: symbols.NSType, Kind: symbols.SymbolPrimitive},
	{Name: "println", Namespace: symbols.NSValue, Kind: symbols.SymbolFunction},
}

func resolve(t *testing.T, src string) (*testkit.Unit, symbols.Result, *diag.Bag) {
	t.Helper()
	u, err := testkit.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	bag := diag.NewBag(0)
	res, err := symbols.ResolveFile(context.Background(), u.Builder, u.File, symbols.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Prelude:  prelude,
	})
	if err != nil {
		t.Fatalf("collect mode returned error: %v", err)
	}
	return u, res, bag
}

func mustResolve(t *testing.T, src string) (*testkit.Unit, symbols.Result) {
	t.Helper()
	u, res, bag := resolve(t, src)
	if bag.Len() > 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	return u, res
}

// pathSymbols returns the symbols bound to every path expression named name.
func pathSymbols(u *testkit.Unit, res symbols.Result, name string) []symbols.SymbolID {
	var out []symbols.SymbolID
	for i := uint32(1); i <= u.Builder.Exprs.Len(); i++ {
		p, ok := u.Builder.Exprs.Path(ast.ExprID(i))
		if !ok || p.Path.String(u.Builder.Strings) != name {
			continue
		}
		out = append(out, res.ExprSymbols[ast.ExprID(i)])
	}
	return out
}

func TestForwardItemReferences(t *testing.T) {
	u, res := mustResolve(t, `
fn main() { let p = make(); helper(p); }
fn make() -> Point { Point { x: 1 } }
fn helper(p: Point) {}
struct Point { x: i32 }
`)
	syms := pathSymbols(u, res, "make")
	if len(syms) != 1 || res.Table.MustSymbol(syms[0]).Kind != symbols.SymbolFunction {
		t.Fatalf("make not bound to a function: %v", syms)
	}
	for id, sym := range res.TypeSymbols {
		if u.Builder.Types.Get(id).Path.String(u.Builder.Strings) == "Point" &&
			res.Table.MustSymbol(sym).Kind != symbols.SymbolStruct {
			t.Fatalf("Point type bound to %s", res.Table.MustSymbol(sym).Kind)
		}
	}
}

func TestNamespacesAreSeparate(t *testing.T) {
	u, res := mustResolve(t, `
struct Foo { a: i32 }
fn main() { let Foo = 1; let y = Foo; let z: Foo = Foo { a: y }; }
`)
	syms := pathSymbols(u, res, "Foo")
	if len(syms) != 1 {
		t.Fatalf("got %d Foo paths", len(syms))
	}
	if k := res.Table.MustSymbol(syms[0]).Kind; k != symbols.SymbolVariable {
		t.Fatalf("value Foo bound to %s, want variable", k)
	}
}

func TestLetShadowingAndOrder(t *testing.T) {
	u, res := mustResolve(t, `fn main() { let x = 1; let x = x + 1; println(x); }`)
	syms := pathSymbols(u, res, "x")
	if len(syms) != 2 {
		t.Fatalf("got %d x paths", len(syms))
	}
	first := res.Table.MustSymbol(syms[0])
	second := res.Table.MustSymbol(syms[1])
	if first.Span == second.Span {
		t.Fatalf("initializer of the second let must see the first binding")
	}
}

func TestMutabilityFlag(t *testing.T) {
	_, res := mustResolve(t, `fn main() { let mut a = 1; let b = 2; }`)
	var mut, imm int
	for _, sym := range res.PatternSymbols {
		if res.Table.MustSymbol(sym).Mutable() {
			mut++
		} else {
			imm++
		}
	}
	if mut != 1 || imm != 1 {
		t.Fatalf("mutable=%d immutable=%d", mut, imm)
	}
}

func TestImplMembersAndAssociatedPaths(t *testing.T) {
	u, res := mustResolve(t, `
fn main() { let p = Point::new(); let c = Color::Red; p.len(); }
impl Point { fn new() -> Self { Point { x: 0 } } fn len(&self) -> i32 { self.x } }
struct Point { x: i32 }
enum Color { Red, Green }
`)
	syms := pathSymbols(u, res, "Point::new")
	if len(syms) != 1 || res.Table.MustSymbol(syms[0]).Kind != symbols.SymbolFunction {
		t.Fatalf("Point::new not bound")
	}
	red := pathSymbols(u, res, "Color::Red")
	if len(red) != 1 || res.Table.MustSymbol(red[0]).Kind != symbols.SymbolVariant {
		t.Fatalf("Color::Red not bound to a variant")
	}
	self := pathSymbols(u, res, "self")
	if len(self) != 1 || res.Table.MustSymbol(self[0]).Kind != symbols.SymbolSelfParam {
		t.Fatalf("self not bound to the receiver")
	}
	fn, _ := u.FindFn("len")
	if owner := res.Owners[fn]; res.Table.Name(owner) != "Point" {
		t.Fatalf("len owner = %s", res.Table.Name(owner))
	}
}

func TestNestedFunctionDoesNotCaptureLocals(t *testing.T) {
	_, _, bag := resolve(t, `fn main() { let x = 1; fn inner() -> i32 { x } }`)
	if !slices.Equal(bag.Codes(), []diag.Code{diag.SemaUnresolvedSymbol}) {
		t.Fatalf("codes = %v", bag.Codes())
	}
}

func TestNestedItemsVisibleInBlock(t *testing.T) {
	mustResolve(t, `fn main() { let v = helper(); fn helper() -> i32 { LIMIT } const LIMIT: i32 = 3; }`)
}

func TestResolveErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []diag.Code
	}{
		{"unresolved value", "fn main() { y; }", []diag.Code{diag.SemaUnresolvedSymbol}},
		{"unresolved type", "fn f(a: Missing) {}", []diag.Code{diag.SemaUnresolvedSymbol}},
		{"duplicate item", "fn f() {} fn f() {}", []diag.Code{diag.SemaDuplicateSymbol}},
		{"duplicate field", "struct S { a: i32, a: bool }", []diag.Code{diag.SemaDuplicateSymbol}},
		{"duplicate param", "fn f(a: i32, a: i32) {}", []diag.Code{diag.SemaDuplicateSymbol}},
		{"impl unknown type", "impl Ghost { fn f() {} }", []diag.Code{diag.SemaMissingTypeSymbol}},
		{"impl unknown trait", "struct S; impl Ghost for S {}", []diag.Code{diag.SemaMissingTypeSymbol}},
		{"impl non trait", "struct S; struct T; impl T for S {}", []diag.Code{diag.SemaNotATrait}},
		{"type as value", "trait T {} fn main() { T; }", []diag.Code{diag.SemaNotAValue}},
		{"value as type", "fn g() {} fn f(a: g) {}", []diag.Code{diag.SemaNotAType}},
		{"unknown member", "struct S; fn main() { S::nope(); }", []diag.Code{diag.SemaUnknownMember}},
		{"missing trait item", "trait T { fn f(&self); } struct S; impl T for S {}", []diag.Code{diag.SemaMissingTraitItem}},
		{"extra trait item", "trait T {} struct S; impl T for S { fn g() {} }", []diag.Code{diag.SemaUnknownTraitItem}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, bag := resolve(t, tc.src)
			if got := bag.Codes(); !slices.Equal(got, tc.want) {
				t.Fatalf("codes = %v, want %v (%v)", got, tc.want, bag.Items())
			}
		})
	}
}

func TestTraitDefaultsAndMethodLookup(t *testing.T) {
	u, res := mustResolve(t, `
trait Shape { fn area(&self) -> i32; fn twice(&self) -> i32 { self.area() * 2 } }
struct Sq { s: i32 }
impl Shape for Sq { fn area(&self) -> i32 { self.s * self.s } }
`)
	var sq symbols.SymbolID
	for _, it := range u.Items() {
		if name, _ := u.Builder.Items.DeclName(it); u.Builder.Name(name) == "Sq" {
			sq = res.ItemSymbols[it]
		}
	}
	twice := u.Builder.Strings.Intern("twice")
	sym, ok := res.MethodLookup(sq, twice)
	if !ok || res.Table.MustSymbol(sym).Flags&symbols.SymbolFlagHasDefault == 0 {
		t.Fatalf("default trait method not found through the impl")
	}
}

func TestSelfLeftForSelfChecker(t *testing.T) {
	_, _, bag := resolve(t, "fn f() -> i32 { self.x } fn g() -> Self { g() }")
	if bag.Len() != 0 {
		t.Fatalf("self/Self misuse must not be reported by the resolver: %v", bag.Items())
	}
}

func TestThrowOnErrorStopsAtFirst(t *testing.T) {
	u, err := testkit.Parse("fn main() { a; b; }")
	if err != nil {
		t.Fatal(err)
	}
	bag := diag.NewBag(0)
	_, err = symbols.ResolveFile(context.Background(), u.Builder, u.File, symbols.Options{
		Reporter:     diag.BagReporter{Bag: bag},
		ThrowOnError: true,
	})
	var de *diag.Error
	if !errors.As(err, &de) || de.Diagnostic.Code != diag.SemaUnresolvedSymbol {
		t.Fatalf("err = %v", err)
	}
	if bag.Len() != 1 {
		t.Fatalf("fail-fast reported %d diagnostics", bag.Len())
	}
}
