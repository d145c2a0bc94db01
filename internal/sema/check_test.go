package sema_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/sema"
	"rxc/internal/symbols"
	"rxc/internal/testkit"
	"rxc/internal/types"
)

type checked struct {
	unit *testkit.Unit
	syms symbols.Result
	res  sema.Result
	in   *types.Interner
	bag  *diag.Bag
}

func run(t *testing.T, src string, throw bool) (checked, error) {
	t.Helper()
	u, err := testkit.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	in := types.NewInterner(64)
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	syms, err := symbols.ResolveFile(context.Background(), u.Builder, u.File, symbols.Options{
		Reporter: rep,
		Prelude:  sema.Prelude(in),
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	res, err := sema.Check(context.Background(), u.Builder, u.File, &syms, in, sema.Options{
		Reporter:     rep,
		ThrowOnError: throw,
	})
	return checked{unit: u, syms: syms, res: res, in: in, bag: bag}, err
}

func check(t *testing.T, src string) checked {
	t.Helper()
	c, err := run(t, src, false)
	if err != nil {
		t.Fatalf("collect mode returned error: %v", err)
	}
	return c
}

func mustCheck(t *testing.T, src string) checked {
	t.Helper()
	c := check(t, src)
	if c.bag.Len() > 0 {
		t.Fatalf("unexpected diagnostics: %v", c.bag.Items())
	}
	return c
}

func expectCode(t *testing.T, c checked, code diag.Code) diag.Diagnostic {
	t.Helper()
	for _, d := range c.bag.Items() {
		if d.Code == code {
			return d
		}
	}
	t.Fatalf("no %s diagnostic in %v", code.ID(), c.bag.Items())
	return diag.Diagnostic{}
}

func TestAssignToImmutableBinding(t *testing.T) {
	c := check(t, `fn main() { let x: i32 = 5; x = 10; }`)
	d := expectCode(t, c, diag.SemaAssignImmutable)
	if !strings.Contains(d.Message, "cannot assign to immutable variable `x`") {
		t.Fatalf("message = %q", d.Message)
	}
	if c.bag.Len() != 1 {
		t.Fatalf("want one diagnostic, got %v", c.bag.Items())
	}
}

func TestProjectionAndDerefTargetsAreWritable(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"field", `struct P { x: i32 } fn main() { let p = P { x: 1 }; p.x = 2; }`},
		{"index", `fn main() { let a: [i32; 2] = [1, 2]; a[0] = 5; }`},
		{"deref of shared reference", `fn main() { let x: i32 = 1; let r = &x; *r = 5; }`},
		{"compound through field", `struct P { x: i32 } fn main() { let p = P { x: 1 }; p.x += 2; }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustCheck(t, tt.src)
		})
	}
}

func TestNegativeUnsignedLiteralReportedOnce(t *testing.T) {
	c := check(t, `fn main() { let y: u32 = -5; }`)
	if got := c.bag.Codes(); !slices.Equal(got, []diag.Code{diag.SemaIntLiteralOutOfRange}) {
		t.Fatalf("codes = %v, want only %s", got, diag.SemaIntLiteralOutOfRange.ID())
	}
}

func TestMutableBindingKeepsType(t *testing.T) {
	c := mustCheck(t, `fn main() { let mut x: i32 = 5; x = 10; }`)
	if len(c.res.BindingTypes) != 1 {
		t.Fatalf("got %d bindings", len(c.res.BindingTypes))
	}
	for _, bt := range c.res.BindingTypes {
		if !c.in.IsMutable(bt) {
			t.Fatalf("x is not mutable: %s", types.Label(c.in, bt))
		}
		if c.in.Unqualified(bt) != c.in.Builtins().I32 {
			t.Fatalf("x has type %s, want i32", types.Label(c.in, bt))
		}
	}
}

func TestBorrowConflictInOneBlock(t *testing.T) {
	c := check(t, `fn main() { let mut x: i32 = 1; let r1 = &mut x; let r2 = &x; }`)
	d := expectCode(t, c, diag.SemaBorrowSharedConflict)
	if !strings.Contains(d.Message, "it already has a mutable borrow") {
		t.Fatalf("message = %q", d.Message)
	}
}

func TestBorrowsEndWithTheirBlock(t *testing.T) {
	mustCheck(t, `fn main() { let mut x: i32 = 1; { let r1 = &mut x; } let r2 = &x; }`)
}

func TestConstOverflowReportedOnce(t *testing.T) {
	c := check(t, `const C: i32 = 2147483648;`)
	if c.bag.Len() != 1 {
		t.Fatalf("want one diagnostic, got %v", c.bag.Items())
	}
	d := c.bag.Items()[0]
	if d.Code != diag.SemaConstOverflow || d.Message != "constant value 2147483648 overflows I32" {
		t.Fatalf("got %s %q", d.Code.ID(), d.Message)
	}
}

func TestExitPlacementInMain(t *testing.T) {
	tests := []struct {
		name string
		src  string
		ok   bool
	}{
		{"final statement", `fn main() { println("a"); exit(0); }`, true},
		{"tail expression", `fn main() { println("a"); exit(0) }`, true},
		{"before other statements", `fn main() { exit(0); println("a"); }`, false},
		{"nested in a branch", `fn main() { if true { exit(1); } exit(0); }`, false},
		{"other functions are free", `fn stop() { exit(1); println("a"); } fn main() { stop(); }`, true},
		{"method named main", `struct S; impl S { fn main() { exit(0); let x = 1; } } fn main() {}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := check(t, tt.src)
			got := slices.Contains(c.bag.Codes(), diag.SemaExitPlacement)
			if got == tt.ok {
				t.Fatalf("exit placement error = %v, diagnostics %v", got, c.bag.Items())
			}
		})
	}
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"let mismatch", `fn main() { let x: i32 = true; }`, diag.SemaTypeMismatch},
		{"body mismatch", `fn f() -> i32 { true } fn main() {}`, diag.SemaReturnMismatch},
		{"return mismatch", `fn f() -> bool { return 1; } fn main() {}`, diag.SemaReturnMismatch},
		{"bad operands", `fn main() { let x = 1 + true; }`, diag.SemaInvalidBinaryOperands},
		{"negative unsigned", `fn main() { let x: u32 = -1; }`, diag.SemaIntLiteralOutOfRange},
		{"literal too large", `fn main() { let x: u32 = 4294967296; }`, diag.SemaIntLiteralOutOfRange},
		{"condition", `fn main() { if 1 { } }`, diag.SemaConditionNotBool},
		{"break outside loop", `fn main() { break; }`, diag.SemaBreakOutsideLoop},
		{"continue outside loop", `fn main() { continue; }`, diag.SemaContinueOutsideLoop},
		{"break value in while", `fn main() { while true { break 1; } }`, diag.SemaBreakMismatch},
		{"constant index", `fn main() { let a = [1, 2]; let b = a[5]; }`, diag.SemaConstIndexOutside},
		{"missing field", `struct P { x: i32, y: i32 } fn main() { let p = P { x: 1 }; }`, diag.SemaMissingField},
		{"duplicate field", `struct P { x: i32 } fn main() { let p = P { x: 1, x: 2 }; }`, diag.SemaDuplicateField},
		{"unknown field", `struct P { x: i32 } fn main() { let p = P { x: 1 }; let q = p.z; }`, diag.SemaUnknownField},
		{"unknown method", `fn main() { let x = 5; x.foo(); }`, diag.SemaUnknownMethod},
		{"branch mismatch", `fn main() { let x = if true { 1 } else { false }; }`, diag.SemaBranchMismatch},
		{"break type", `fn main() { let v = loop { break 1; }; let w: bool = v; }`, diag.SemaTypeMismatch},
		{"argument count", `fn f(a: i32) {} fn main() { f(); }`, diag.SemaArgCount},
		{"argument type", `fn f(a: i32) {} fn main() { f(true); }`, diag.SemaTypeMismatch},
		{"not callable", `fn main() { let x = 1; x(); }`, diag.SemaNotCallable},
		{"not indexable", `fn main() { let x = 1; let y = x[0]; }`, diag.SemaNotIndexable},
		{"not dereferenceable", `fn main() { let x = 1; let y = *x; }`, diag.SemaNotDereferenceable},
		{"cannot infer", `fn main() { let x; }`, diag.SemaCannotInfer},
		{"empty array", `fn main() { let a = []; }`, diag.SemaCannotInfer},
		{"placeholder in signature", `fn f(a: &_) {} fn main() {}`, diag.SemaCannotInfer},
		{"array length", `const N: usize = 2; fn main() { let a: [i32; N] = [1, 2, 3]; }`, diag.SemaTypeMismatch},
		{"invalid cast", `fn main() { let x = 1 as bool; }`, diag.SemaInvalidCast},
		{"underscore value", `fn main() { let x = _; }`, diag.SemaUnderscoreValue},
		{"const cycle", `const A: i32 = B; const B: i32 = A; fn main() {}`, diag.SemaConstCycle},
		{"not a struct", `enum E { A } fn main() { let e = E { }; }`, diag.SemaNotAStruct},
		{"shared to mutable", `fn main() { let mut x = 1; let r = &x; let m: &mut i32 = r; }`, diag.SemaTypeMismatch},
		{"mutable borrow of immutable", `fn main() { let x = 1; let r = &mut x; }`, diag.SemaBorrowMutOfImmutable},
		{"two mutable borrows", `fn main() { let mut x = 1; let a = &mut x; let b = &mut x; }`, diag.SemaBorrowMutConflict},
		{"immutable string append", `fn main() { let s = getString(); s.append("x"); }`, diag.SemaBorrowMutOfImmutable},
		{"assign to function", `fn f() {} fn main() { f = 1; }`, diag.SemaAssignImmutable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := check(t, tt.src)
			expectCode(t, c, tt.code)
		})
	}
}

func TestConstCycleReportedOnce(t *testing.T) {
	c := check(t, `const A: i32 = B; const B: i32 = A + 1; fn main() { let x = A; }`)
	if c.bag.Len() != 1 {
		t.Fatalf("want one diagnostic, got %v", c.bag.Items())
	}
	if !strings.Contains(c.bag.Items()[0].Message, "cycle detected when evaluating constant") {
		t.Fatalf("message = %q", c.bag.Items()[0].Message)
	}
}

func TestConstValuesAreFolded(t *testing.T) {
	c := mustCheck(t, `const A: i32 = 2 + 3 * 4; const B: usize = 4; fn main() { let a: [i32; B] = [A; B]; }`)
	folded := map[string]int64{}
	for item, v := range c.res.ConstValues {
		cst, _ := c.unit.Builder.Items.Const(item)
		folded[c.unit.Builder.Strings.MustLookup(cst.Name)] = v.Int.Int64()
	}
	if folded["A"] != 14 || folded["B"] != 4 {
		t.Fatalf("folded = %v", folded)
	}
}

func TestTraitSignatureMismatch(t *testing.T) {
	c := check(t, `
trait Shape { fn area(&self) -> i32; }
struct Sq { side: i32 }
impl Shape for Sq { fn area(&self) -> bool { true } }
fn main() {}
`)
	d := expectCode(t, c, diag.SemaTraitSignatureMismatch)
	if len(d.Notes) == 0 {
		t.Fatalf("mismatch has no note pointing at the trait")
	}
}

func TestMethodReceivers(t *testing.T) {
	src := `
struct Counter { v: i32 }
impl Counter {
    fn bump(&mut self) { self.v += 1; }
    fn get(&self) -> i32 { self.v }
}
fn main() { %s c = Counter { v: 0 }; c.bump(); let n = c.get(); }
`
	mustCheck(t, strings.Replace(src, "%s", "let mut", 1))
	c := check(t, strings.Replace(src, "%s", "let", 1))
	expectCode(t, c, diag.SemaBorrowMutOfImmutable)
}

func TestTraitDefaultMethod(t *testing.T) {
	c := mustCheck(t, `
trait Named { fn id(&self) -> i32 { 7 } }
struct S;
impl Named for S {}
fn main() { let s = S; let v: i32 = s.id(); }
`)
	if len(c.res.MethodTargets) != 1 {
		t.Fatalf("method targets = %v", c.res.MethodTargets)
	}
	for _, sym := range c.res.MethodTargets {
		if owner := c.syms.Owners[c.syms.Table.Symbol(sym).Decl.Item]; c.syms.Table.Symbol(owner).Kind != symbols.SymbolTrait {
			t.Fatalf("id bound outside the trait")
		}
	}
}

func TestBuiltinMethods(t *testing.T) {
	c := mustCheck(t, `
fn main() {
    let mut s = getString();
    s.append("x");
    let n: usize = s.len();
    let t: String = s + "!";
    let r: &str = t.as_str();
    printlnInt(n as i32);
    println(r);
}
`)
	var names []string
	for _, name := range c.res.BuiltinMethods {
		names = append(names, name)
	}
	slices.Sort(names)
	if !slices.Equal(names, []string{"append", "as_str", "len"}) {
		t.Fatalf("builtin methods = %v", names)
	}
}

func TestBlockStatementWithoutSemicolonIsAmbiguous(t *testing.T) {
	c := mustCheck(t, `fn main() { if true { 1 } else { 2 } let y = 0; }`)
	found := false
	for i := uint32(1); i <= c.unit.Builder.Exprs.Len(); i++ {
		id := ast.ExprID(i)
		if c.unit.Builder.Exprs.Get(id).Kind == ast.ExprIf {
			found = c.in.Kind(c.res.ExprType(id)) == types.KindAmbiguousBlock
		}
	}
	if !found {
		t.Fatalf("if statement is not an ambiguous block")
	}
}

func TestDivergingBlockIsNever(t *testing.T) {
	mustCheck(t, `fn f(x: i32) -> i32 { if x > 0 { return 1; } else { return 2; } } fn main() {}`)
	mustCheck(t, `fn f() -> i32 { loop { } } fn main() {}`)
	mustCheck(t, `fn f() -> i32 { return 3; } fn main() {}`)
}

const everyKind = `
const N: usize = 3;
struct Point { x: i32, y: i32 }
enum Color { Red, Green }
trait Area {
    fn area(&self) -> i32;
    fn twice(&self) -> i32 { self.area() * 2 }
}
impl Area for Point {
    fn area(&self) -> i32 { self.x * self.y }
}
impl Point {
    fn new(x: i32, y: i32) -> Self { Point { x: x, y: y } }
    fn shift(&mut self, d: i32) { self.x += d; }
}
fn main() {
    let mut p = Point::new(1, 2);
    p.shift(3);
    let arr: [i32; N] = [1, 2, 3];
    let rep = [0u32; 4];
    let mut total: i32 = 0;
    let mut i: usize = 0;
    while i < N { total = total + arr[i]; i += 1; }
    let r = &p;
    let a = r.area() + (*r).twice();
    let c = Color::Red;
    let same = c == Color::Green;
    let v = loop { if same { break 1; } else { break 2; } };
    let neg = -a as u32;
    let _ = rep.len();
    if !same && v > 0 { printlnInt(total + v); }
    exit(0);
}
`

func TestEveryExpressionStampedOnce(t *testing.T) {
	c := mustCheck(t, everyKind)
	if got, want := c.res.ExprCount(), int(c.unit.Builder.Exprs.Len()); got != want {
		t.Fatalf("stamped %d of %d expressions", got, want)
	}
	for i := uint32(1); i <= c.unit.Builder.Exprs.Len(); i++ {
		id := ast.ExprID(i)
		if c.res.ExprType(id) != c.res.ExprType(id) {
			t.Fatalf("expression %d changed type between reads", i)
		}
	}
}

func TestReadingUncheckedExpressionPanics(t *testing.T) {
	var res sema.Result
	defer func() {
		if recover() == nil {
			t.Fatalf("ExprType on an unchecked expression did not panic")
		}
	}()
	res.ExprType(ast.ExprID(1))
}

func TestThrowOnErrorStopsAtFirstError(t *testing.T) {
	c, err := run(t, `fn main() { let x: i32 = true; let y: bool = 1; }`, true)
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want *diag.Error", err)
	}
	if de.Diagnostic.Code != diag.SemaTypeMismatch {
		t.Fatalf("code = %s", de.Diagnostic.Code.ID())
	}
	if c.bag.Len() != 1 {
		t.Fatalf("fail-fast reported %d diagnostics", c.bag.Len())
	}
}
