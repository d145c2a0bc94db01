package parser_test

import (
	"context"
	"slices"
	"strings"
	"testing"

	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/lexer"
	"rxc/internal/parser"
	"rxc/internal/source"
)

func parse(t *testing.T, src string) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.rx", []byte(src)))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(context.Background(), lx, b, parser.Options{Reporter: rep})
	return b, res.File, bag
}

func dump(t *testing.T, src string) string {
	t.Helper()
	b, file, bag := parse(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	var out strings.Builder
	if err := ast.Dump(&out, b, file); err != nil {
		t.Fatal(err)
	}
	return out.String()
}

// wantLines checks that lines occur in the dump in order, ignoring indentation.
func wantLines(t *testing.T, got string, lines ...string) {
	t.Helper()
	next := 0
	for _, l := range strings.Split(got, "\n") {
		if next < len(lines) && strings.TrimSpace(l) == strings.TrimSpace(lines[next]) {
			next++
		}
	}
	if next < len(lines) {
		t.Fatalf("missing %q in dump:\n%s", lines[next], got)
	}
}

func TestParsePrecedence(t *testing.T) {
	got := dump(t, "fn main() { let x = 1 + 2 * 3 << 1; }")
	want := strings.Join([]string{
		"File",
		"  Fn main self=0 params=0",
		"    Block",
		"      Let",
		"        PatIdent x mut=false ref=false refmut=false",
		"        Binary <<",
		"          Binary +",
		"            Literal 1",
		"            Binary *",
		"              Literal 2",
		"              Literal 3",
		"          Literal 1",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("dump:\n%s\nwant:\n%s", got, want)
	}
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	got := dump(t, "fn f() { a = b += 1; }")
	wantLines(t, got,
		"        Assign =",
		"          Path a",
		"          Assign +=",
		"            Path b",
	)
}

func TestParseCastBindsTighterThanAdd(t *testing.T) {
	got := dump(t, "fn f() { let y = a + b as u32; }")
	wantLines(t, got,
		"        Binary +",
		"          Path a",
		"          Cast",
		"            Path b",
		"            Type u32",
	)
}

func TestParseBorrowsAndDeref(t *testing.T) {
	got := dump(t, "fn f() { let r = &mut x; let s = &&y; *r = 1; }")
	wantLines(t, got,
		"        Borrow mut=true",
		"        Borrow mut=false",
		"          Borrow mut=false",
		"          Deref",
	)
}

func TestParseBlockTail(t *testing.T) {
	b, file, bag := parse(t, "fn f() -> i32 { let a = 1; a + 1 }")
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	fn, _ := b.Items.Fn(b.Files.Get(file).Items[0])
	blk, ok := b.Exprs.Block(fn.Body)
	if !ok {
		t.Fatalf("body is not a block")
	}
	if len(blk.Stmts) != 1 || !blk.Tail.IsValid() {
		t.Fatalf("want 1 stmt and a tail, got %d stmts tail=%v", len(blk.Stmts), blk.Tail)
	}
	if b.Exprs.Get(blk.Tail).Kind != ast.ExprBinary {
		t.Fatalf("tail kind %s", b.Exprs.Get(blk.Tail).Kind)
	}
}

func TestParseBlockLikeStatementIsNotTail(t *testing.T) {
	b, file, bag := parse(t, "fn f() { if c { 1 } else { 2 } loop { break; } }")
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	fn, _ := b.Items.Fn(b.Files.Get(file).Items[0])
	blk, _ := b.Exprs.Block(fn.Body)
	if len(blk.Stmts) != 1 {
		t.Fatalf("want the if as a statement, got %d stmts", len(blk.Stmts))
	}
	if !blk.Tail.IsValid() || b.Exprs.Get(blk.Tail).Kind != ast.ExprLoop {
		t.Fatalf("want the loop as tail")
	}
}

func TestParseStructLiteralNotInCondition(t *testing.T) {
	got := dump(t, "fn f() { if x == y { p = P { a: 1, b: 2 }; } }")
	wantLines(t, got,
		"      If",
		"        Binary ==",
		"          Path y",
		"            StructLit P",
	)
}

func TestParseItems(t *testing.T) {
	src := `
struct Point { x: i32, y: i32 }
struct Unit;
enum Color { Red, Green, }
trait Shape {
    const SIDES: u32;
    fn area(&self) -> u32;
    fn name() -> &str { "shape" }
}
impl Shape for Point {
    const SIDES: u32 = 0;
    fn area(&self) -> u32 { 0 }
}
impl Point {
    fn new(x: i32, y: i32) -> Self { Point { x: x, y: y } }
    fn bump(&mut self) { self.x += 1; }
}
const MAX: usize = 10;
`
	got := dump(t, src)
	wantLines(t, got,
		"  Struct Point",
		"    Field x",
		"  Struct Unit",
		"  Enum Color",
		"    Variant Green",
		"  Trait Shape",
		"    Const SIDES",
		"    Fn area self=2 params=0",
		"    Fn name self=0 params=0",
		"  Impl",
		"    Trait",
		"      Type Shape",
		"    Type Point",
		"    Fn new self=0 params=2",
		"    Fn bump self=3 params=0",
		"  Const MAX",
	)
}

func TestParsePatterns(t *testing.T) {
	got := dump(t, "fn f(&mut p: &mut i32, _: bool) { let ref mut a = b; let ref c = d; let _ = e; }")
	wantLines(t, got,
		"    PatRef mut=true",
		"      PatIdent p mut=false ref=false refmut=false",
		"    PatWild",
		"        PatIdent a mut=false ref=true refmut=true",
		"        PatIdent c mut=false ref=true refmut=false",
	)
}

func TestParseTypes(t *testing.T) {
	got := dump(t, "fn f(a: [i32; 3], b: &&str) -> ! { loop {} }")
	wantLines(t, got,
		"      TypeArray",
		"        Type i32",
		"        Literal 3",
		"      TypeRef mut=false",
		"        TypeRef mut=false",
		"          Type str",
		"      Returns",
		"      TypeNever",
	)
}

func TestParseArraysAndPaths(t *testing.T) {
	got := dump(t, "fn f() { let a = [0; N]; let b = [1, 2, 3,]; let c = Color::Red; let d = a[1].len(); }")
	wantLines(t, got,
		"        ArrayRepeat",
		"        Array len=3",
		"        Path Color::Red",
		"        MethodCall len",
		"          Index",
	)
}

func TestParseIntLiterals(t *testing.T) {
	b, file, bag := parse(t, "fn f() { 0x_ff_u32; 1_000usize; 0b101; 010; 99999999999999999999; }")
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	fn, _ := b.Items.Fn(b.Files.Get(file).Items[0])
	blk, _ := b.Exprs.Block(fn.Body)
	type want struct {
		v        uint64
		suffix   ast.IntSuffix
		overflow bool
	}
	wants := []want{
		{0xff, ast.SuffixU32, false},
		{1000, ast.SuffixUsize, false},
		{5, ast.SuffixNone, false},
		{10, ast.SuffixNone, false},
		{0, ast.SuffixNone, true},
	}
	if len(blk.Stmts) != len(wants) {
		t.Fatalf("got %d stmts", len(blk.Stmts))
	}
	for i, w := range wants {
		es, _ := b.Stmts.Expr(blk.Stmts[i])
		lit, ok := b.Exprs.Literal(es.Expr)
		if !ok {
			t.Fatalf("stmt %d is not a literal", i)
		}
		if lit.Overflow != w.overflow || lit.Suffix != w.suffix || (!w.overflow && lit.Int != w.v) {
			t.Errorf("literal %d: got %+v, want %+v", i, *lit, w)
		}
	}
}

func TestParseStringLiteralIsDecoded(t *testing.T) {
	b, file, bag := parse(t, `fn f() { "a\tb"; r#"x"y"#; }`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	fn, _ := b.Items.Fn(b.Files.Get(file).Items[0])
	blk, _ := b.Exprs.Block(fn.Body)
	var got []string
	for _, st := range blk.Stmts {
		es, _ := b.Stmts.Expr(st)
		lit, _ := b.Exprs.Literal(es.Expr)
		got = append(got, b.Strings.MustLookup(lit.Str))
	}
	if !slices.Equal(got, []string{"a\tb", `x"y`}) {
		t.Fatalf("decoded %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"missing semicolon", "fn f() { let x = 1 }", diag.SynExpectSemicolon},
		{"bad top level", "let x = 1;", diag.SynUnexpectedTopLevel},
		{"self not first", "impl A { fn f(x: i32, &self) {} }", diag.SynSelfParamPosition},
		{"missing type", "fn f(x: ) {}", diag.SynExpectType},
		{"chained comparison", "fn f() { a < b < c; }", diag.SynUnexpectedToken},
		{"unclosed", "fn f() { (1 + 2; }", diag.SynUnclosedDelimiter},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, bag := parse(t, tc.src)
			if !slices.Contains(bag.Codes(), tc.code) {
				t.Fatalf("want %s, got %v", tc.code.ID(), bag.Codes())
			}
		})
	}
}

func TestParseRecoversAfterBadItem(t *testing.T) {
	b, file, bag := parse(t, "fn broken( { } fn ok() {}")
	if !bag.HasErrors() {
		t.Fatalf("expected an error")
	}
	items := b.Files.Get(file).Items
	if len(items) == 0 {
		t.Fatalf("parser did not recover")
	}
	name, _ := b.Items.DeclName(items[len(items)-1])
	if b.Name(name) != "ok" {
		t.Fatalf("last item is %q", b.Name(name))
	}
}
