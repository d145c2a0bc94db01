package types

import (
	"math/big"
	"testing"

	"rxc/internal/source"
)

func TestBuiltinsAreInterned(t *testing.T) {
	in := NewInterner(0)
	b := in.Builtins()
	if in.Intern(Type{Kind: KindI32}) != b.I32 {
		t.Fatalf("i32 interned twice")
	}
	if b.I32 == b.U32 || b.Unit == b.Never {
		t.Fatalf("distinct builtins share an id")
	}
	if in.PointerWidth() != 64 {
		t.Fatalf("default pointer width %d", in.PointerWidth())
	}
}

func TestNeverAbsorbs(t *testing.T) {
	in := NewInterner(0)
	b := in.Builtins()
	st := in.RegisterStruct("Point", source.Span{}, 1)
	all := []TypeID{
		b.Int, b.I32, b.U32, b.Usize, b.Isize, b.Bool, b.Char, b.Str, b.String, b.Unit, b.Never,
		st, in.Reference(b.I32, true), in.Array(b.Bool, 3), in.AmbiguousBlock(b.I32),
		in.RegisterFn(FnInfo{Params: []TypeID{b.I32}, Result: b.Unit}),
	}
	for _, ty := range all {
		if !in.Compatible(b.Never, ty) || !in.Compatible(ty, b.Never) {
			t.Errorf("never must be compatible with %s both ways", Label(in, ty))
		}
	}
}

func TestUnderscoreRejectsAll(t *testing.T) {
	in := NewInterner(0)
	b := in.Builtins()
	u := in.Underscore()
	if in.Equal(u, u) {
		t.Fatalf("underscore must not equal itself")
	}
	if in.Underscore() == u {
		t.Fatalf("underscores must be fresh")
	}
	for _, ty := range []TypeID{u, b.I32, b.Unit, b.Never, in.Underscore()} {
		if in.Compatible(u, ty) || in.Compatible(ty, u) {
			t.Errorf("underscore compatible with %s", Label(in, ty))
		}
	}
	if !in.ContainsUnderscore(in.Reference(u, false)) {
		t.Fatalf("nested underscore not found")
	}
}

func TestAmbiguousBlockCompatibility(t *testing.T) {
	in := NewInterner(0)
	b := in.Builtins()
	amb := in.AmbiguousBlock(b.I32)
	if !in.Compatible(amb, b.I32) || !in.Compatible(amb, b.Unit) {
		t.Fatalf("ambiguous block must fit its value type and unit")
	}
	if in.Compatible(amb, b.Bool) {
		t.Fatalf("ambiguous i32 block accepted as bool")
	}
}

func TestNominalIdentity(t *testing.T) {
	in := NewInterner(0)
	a := in.RegisterStruct("A", source.Span{}, 1)
	a2 := in.RegisterStruct("A", source.Span{}, 2)
	if in.Equal(a, a2) {
		t.Fatalf("separate declarations must differ")
	}
	if !in.Equal(a, in.WithMutability(a, true)) {
		t.Fatalf("mutability must not affect equality")
	}
	in.SetStructFields(a, []StructField{{Name: "x", Type: in.Builtins().I32}})
	info, _ := in.StructInfo(in.WithMutability(a, true))
	if _, ok := info.Field("x"); !ok {
		t.Fatalf("field lookup through mutable variant failed")
	}
}

func TestReferenceCompatibility(t *testing.T) {
	in := NewInterner(0)
	b := in.Builtins()
	shared := in.Reference(b.I32, false)
	unique := in.Reference(b.I32, true)
	if !in.Compatible(unique, shared) {
		t.Fatalf("&mut i32 should coerce to &i32")
	}
	if in.Compatible(shared, unique) {
		t.Fatalf("&i32 must not coerce to &mut i32")
	}
	if in.BaseType(unique) != b.I32 {
		t.Fatalf("base type of &mut i32")
	}
}

func TestFunctionEquality(t *testing.T) {
	in := NewInterner(0)
	b := in.Builtins()
	f1 := in.RegisterFn(FnInfo{Params: []TypeID{b.I32}, Result: b.Bool})
	f2 := in.RegisterFn(FnInfo{Params: []TypeID{b.I32}, Result: b.Bool})
	m := in.RegisterFn(FnInfo{Params: []TypeID{b.I32}, Result: b.Bool, IsMethod: true})
	if f1 != f2 {
		t.Fatalf("identical signatures must intern together")
	}
	if in.Equal(f1, m) {
		t.Fatalf("method-ness must be part of equality")
	}
}

func TestIntegerLiteralRanges(t *testing.T) {
	in := NewInterner(32)
	b := in.Builtins()
	lit := in.WithValue(b.Int, false, 2147483648)
	if in.Compatible(lit, b.I32) {
		t.Fatalf("2147483648 must not fit i32")
	}
	if !in.Compatible(lit, b.U32) {
		t.Fatalf("2147483648 must fit u32")
	}
	neg := in.WithValue(b.Int, true, 2147483648)
	if !in.Compatible(neg, b.I32) || in.Compatible(neg, b.Usize) {
		t.Fatalf("-2147483648 range check failed")
	}
	spec, _ := in.IntSpec(KindUsize)
	if spec.Bits != 32 || spec.Fits(big.NewInt(1<<32)) {
		t.Fatalf("usize width must follow the pointer width")
	}
}

func TestJoin(t *testing.T) {
	in := NewInterner(0)
	b := in.Builtins()
	if in.Join(b.Never, b.I32) != b.I32 || in.Join(b.Bool, b.Never) != b.Bool {
		t.Fatalf("never must yield")
	}
	if in.Join(in.WithValue(b.Int, false, 1), b.U32) != b.U32 {
		t.Fatalf("literal must yield to sized integer")
	}
	if in.Join(b.Bool, b.I32) != NoTypeID {
		t.Fatalf("bool and i32 have no join")
	}
}

func TestLabel(t *testing.T) {
	in := NewInterner(0)
	b := in.Builtins()
	cases := map[TypeID]string{
		in.Reference(b.Str, false):            "&str",
		in.Array(in.Reference(b.I32, true), 4): "[&mut i32; 4]",
		b.Unit:                                 "()",
		in.RegisterFn(FnInfo{Params: []TypeID{b.I32, b.Bool}, Result: b.Unit}): "fn(i32, bool) -> ()",
	}
	for id, want := range cases {
		if got := Label(in, id); got != want {
			t.Errorf("Label = %q, want %q", got, want)
		}
	}
}
