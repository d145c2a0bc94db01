package selfcheck

import (
	"context"
	"testing"

	"rxc/internal/diag"
	"rxc/internal/testkit"
)

func check(t *testing.T, src string) error {
	t.Helper()
	u, err := testkit.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	return Check(context.Background(), u.Builder, u.File, Options{})
}

func TestLegalSelfUses(t *testing.T) {
	srcs := []string{
		`struct P { x: i32 }
		 impl P {
		     const ORIGIN: i32 = 0;
		     fn new() -> Self { Self { x: 0 } }
		     fn get(&self) -> i32 { self.x }
		     fn set(&mut self, v: i32) { self.x = v; }
		     fn make() -> P { Self::new() }
		 }`,
		`trait T { fn id(self) -> Self; fn twice(&self) -> i32 { self.one() + self.one() } fn one(&self) -> i32; }`,
		`fn free(a: i32) -> i32 { a }`,
	}
	for _, src := range srcs {
		if err := check(t, src); err != nil {
			t.Fatalf("unexpected error %v for:\n%s", err, src)
		}
	}
}

func TestSelfViolations(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want ErrorKind
	}{
		{"self in free fn", "fn f() -> i32 { self.x }", SelfOutsideMethod},
		{"self param in free fn", "fn f(&self) {}", SelfOutsideMethod},
		{"self in associated fn", "struct P; impl P { fn f() { self; } }", SelfInAssociatedFunc},
		{"self in impl const", "struct P; impl P { const C: i32 = self; }", SelfOutsideMethod},
		{"self in nested fn", "struct P; impl P { fn m(&self) { fn g() { self; } } }", SelfOutsideMethod},
		{"Self in free fn", "fn f() -> Self { f() }", SelfTypeOutsideImpl},
		{"Self in global const", "const C: Self = 1;", SelfTypeOutsideImpl},
		{"Self in nested fn", "struct P; impl P { fn m() { fn g(p: Self) {} } }", SelfTypeOutsideImpl},
		{"Self after prefix", "struct P; impl P { fn m() { P::Self; } }", SelfIllegalPrefix},
		{"global Self", "struct P; impl P { fn m() { ::Self::new(); } }", SelfIllegalPrefix},
		{"Self as impl target", "impl Self {}", SelfTypeOutsideImpl},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := check(t, tc.src)
			kind, ok := KindOf(err)
			if !ok || kind != tc.want {
				t.Fatalf("got %v (%v), want %s", kind, err, tc.want)
			}
		})
	}
}

// A free function using self fails immediately, before later errors.
func TestFailFastFirstViolation(t *testing.T) {
	u, err := testkit.Parse("fn a() { self; } fn b() -> Self { b() }")
	if err != nil {
		t.Fatal(err)
	}
	bag := diag.NewBag(0)
	err = Check(context.Background(), u.Builder, u.File, Options{Reporter: diag.BagReporter{Bag: bag}})
	if kind, _ := KindOf(err); kind != SelfOutsideMethod {
		t.Fatalf("err = %v", err)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SemaSelfOutsideMethod {
		t.Fatalf("reported %v", bag.Items())
	}
}

func TestStackBalancedAfterAbort(t *testing.T) {
	u, err := testkit.Parse("struct P; impl P { fn m(&self) { fn g() { self; } } }")
	if err != nil {
		t.Fatal(err)
	}
	c := &checker{b: u.Builder, ctx: newStack()}
	func() {
		defer func() { _ = recover() }()
		for _, it := range u.Items() {
			c.item(it)
		}
	}()
	if len(c.ctx.states) != 1 || c.ctx.top() != Global {
		t.Fatalf("stack not unwound: %v", c.ctx.states)
	}
}

func TestStackUnderflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("popping the root context must panic")
		}
	}()
	newStack().pop()
}

func TestFnState(t *testing.T) {
	s := newStack()
	if got := s.fnState(true); got != Global {
		t.Fatalf("free fn state = %s", got)
	}
	s.push(ImplBlock)
	if got := s.fnState(true); got != Method {
		t.Fatalf("method state = %s", got)
	}
	if got := s.fnState(false); got != AssociatedFunc {
		t.Fatalf("associated state = %s", got)
	}
	s.push(Method)
	if got := s.fnState(false); got != Global {
		t.Fatalf("nested fn state = %s", got)
	}
}
