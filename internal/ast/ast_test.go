package ast

import (
	"strings"
	"testing"

	"rxc/internal/source"
)

func TestArenaIsOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil {
		t.Fatalf("index 0 must be nil")
	}
	id := a.Allocate(42)
	if id != 1 || *a.Get(id) != 42 {
		t.Fatalf("got id %d", id)
	}
	if a.Get(2) != nil {
		t.Fatalf("out of range index must be nil")
	}
}

func TestPayloadAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{})
	sp := source.Span{}
	one := b.Exprs.NewLiteral(sp, ExprLiteralData{Kind: LitInt, Int: 1})
	sum := b.Exprs.NewBinary(sp, BinAdd, one, one)

	if _, ok := b.Exprs.Binary(one); ok {
		t.Fatalf("literal must not decode as binary")
	}
	bin, ok := b.Exprs.Binary(sum)
	if !ok || bin.Left != one || bin.Op != BinAdd {
		t.Fatalf("binary payload lost: %+v", bin)
	}
}

func TestDumpFunction(t *testing.T) {
	b := NewBuilder(Hints{})
	sp := source.Span{}
	file := b.Files.New(sp)
	x := b.Strings.Intern("x")
	main := b.Strings.Intern("main")

	pat := b.Patterns.NewIdent(sp, x, true, false, false)
	lit := b.Exprs.NewLiteral(sp, ExprLiteralData{Kind: LitInt, Raw: b.Strings.Intern("5"), Int: 5})
	let := b.Stmts.NewLet(sp, pat, NoTypeID, lit)
	body := b.Exprs.NewBlock(sp, []StmtID{let}, NoExprID)
	b.PushItem(file, b.Items.NewFn(sp, FnItem{Name: main, Body: body}))

	var out strings.Builder
	if err := Dump(&out, b, file); err != nil {
		t.Fatal(err)
	}
	want := "File\n  Fn main self=0 params=0\n    Block\n      Let\n        PatIdent x mut=true ref=false refmut=false\n        Literal 5\n"
	if out.String() != want {
		t.Fatalf("dump:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestPathString(t *testing.T) {
	in := source.NewInterner()
	p := Path{Global: true, Segments: []PathSegment{{Kind: SegSelfType}, {Name: in.Intern("new")}}}
	if got := p.String(in); got != "::Self::new" {
		t.Fatalf("got %q", got)
	}
	if p.IsSelfValue() {
		t.Fatalf("not a self value path")
	}
}
