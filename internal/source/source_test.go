package source

import "testing"

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.rx", []byte("fn main() {\n    let x = 1;\n}\n"))
	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{11, LineCol{1, 12}},
		{12, LineCol{2, 1}},
		{16, LineCol{2, 5}},
		{27, LineCol{3, 1}},
		{28, LineCol{3, 2}},
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if start != tc.want {
			t.Errorf("offset %d: got %+v, want %+v", tc.off, start, tc.want)
		}
	}
}

func TestFileLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.rx", []byte("one\ntwo\nthree")))
	for n, want := range map[uint32]string{1: "one", 2: "two", 3: "three", 4: "", 0: ""} {
		if got := f.Line(n); got != want {
			t.Errorf("line %d: got %q, want %q", n, got, want)
		}
	}
}

func TestNormalizeOnAdd(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\r\nb\rc"))
	if !changed || string(out) != "a\nb\rc" {
		t.Fatalf("normalizeCRLF: %q %v", out, changed)
	}
	out, bom := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'x'})
	if !bom || string(out) != "x" {
		t.Fatalf("removeBOM: %q %v", out, bom)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Fatalf("cover: %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Fatalf("cross-file cover must keep receiver, got %v", got)
	}
}

func TestInterner(t *testing.T) {
	in := NewInterner()
	a := in.Intern("foo")
	if a == NoStringID || in.Intern("foo") != a {
		t.Fatalf("intern not stable")
	}
	if in.Intern("bar") == a {
		t.Fatalf("distinct strings share an id")
	}
	if s := in.MustLookup(a); s != "foo" {
		t.Fatalf("lookup: %q", s)
	}
	if _, ok := in.Lookup(99); ok {
		t.Fatalf("unknown id resolved")
	}
}
