package mutability

import (
	"slices"
	"testing"

	"rxc/internal/diag"
	"rxc/internal/source"
	"rxc/internal/symbols"
)

const (
	x symbols.SymbolID = iota + 1
	y
	f
)

func newChecker() (*Checker, *diag.Bag) {
	bag := diag.NewBag(0)
	names := map[symbols.SymbolID]string{x: "x", y: "y", f: "f"}
	return New(diag.BagReporter{Bag: bag}, func(id symbols.SymbolID) string { return names[id] }), bag
}

func at(n uint32) source.Span { return source.Span{Start: n, End: n + 1} }

func TestAssignImmutable(t *testing.T) {
	c, bag := newChecker()
	c.Declare(x, false)
	if c.Assign(Place{Kind: PlaceVar, Root: x}, at(10)) {
		t.Fatalf("assignment to immutable x accepted")
	}
	if got := bag.Items(); len(got) != 1 || got[0].Code != diag.SemaAssignImmutable ||
		got[0].Message != "cannot assign to immutable variable `x`" {
		t.Fatalf("diagnostics = %v", got)
	}
}

func TestAssignMutable(t *testing.T) {
	c, bag := newChecker()
	c.Declare(x, true)
	if !c.Assign(Place{Kind: PlaceVar, Root: x}, at(10)) || bag.Len() != 0 {
		t.Fatalf("assignment to mutable x rejected: %v", bag.Items())
	}
}

func TestAssignTargets(t *testing.T) {
	cases := []struct {
		name string
		p    Place
		ok   bool
		code diag.Code
	}{
		{"field of mutable", Place{Kind: PlaceProjection, Root: y}, true, 0},
		{"field of immutable", Place{Kind: PlaceProjection, Root: x}, true, 0},
		{"through &mut", Place{Kind: PlaceDeref, RefMut: true}, true, 0},
		{"through &", Place{Kind: PlaceDeref}, true, 0},
		{"temporary", Place{Kind: PlaceTemp}, true, 0},
		{"function item", Place{Kind: PlaceItem, Root: f}, false, diag.SemaAssignImmutable},
		{"literal", Place{Kind: PlaceInvalid}, false, diag.SemaInvalidAssignTarget},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, bag := newChecker()
			c.Declare(x, false)
			c.Declare(y, true)
			if got := c.Assign(tc.p, at(1)); got != tc.ok {
				t.Fatalf("Assign = %t", got)
			}
			if tc.ok && bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %v", bag.Items())
			}
			if !tc.ok && !slices.Equal(bag.Codes(), []diag.Code{tc.code}) {
				t.Fatalf("codes = %v", bag.Codes())
			}
		})
	}
}

func TestBorrowConflicts(t *testing.T) {
	c, bag := newChecker()
	c.Declare(x, true)
	v := Place{Kind: PlaceVar, Root: x}
	if !c.Borrow(v, true, true, at(1)) {
		t.Fatalf("first &mut rejected")
	}
	if c.Borrow(v, false, true, at(2)) {
		t.Fatalf("& after &mut accepted")
	}
	if got := bag.Items(); len(got) != 1 || got[0].Code != diag.SemaBorrowSharedConflict {
		t.Fatalf("diagnostics = %v", got)
	}
}

func TestSharedBorrowsCoexist(t *testing.T) {
	c, bag := newChecker()
	c.Declare(x, false)
	v := Place{Kind: PlaceVar, Root: x}
	for i := range 3 {
		if !c.Borrow(v, false, true, at(uint32(i))) {
			t.Fatalf("shared borrow %d rejected: %v", i, bag.Items())
		}
	}
	if c.Borrow(v, true, true, at(9)) {
		t.Fatalf("&mut of immutable x accepted")
	}
	if !slices.Equal(bag.Codes(), []diag.Code{diag.SemaBorrowMutOfImmutable}) {
		t.Fatalf("codes = %v", bag.Codes())
	}
}

func TestMutBorrowAfterShared(t *testing.T) {
	c, bag := newChecker()
	c.Declare(x, true)
	v := Place{Kind: PlaceVar, Root: x}
	c.Borrow(v, false, true, at(1))
	if c.Borrow(v, true, true, at(2)) {
		t.Fatalf("&mut while shared-borrowed accepted")
	}
	c.Borrow(Place{Kind: PlaceVar, Root: x}, true, true, at(3))
	if !slices.Equal(bag.Codes(), []diag.Code{diag.SemaBorrowMutConflict, diag.SemaBorrowMutConflict}) {
		t.Fatalf("codes = %v", bag.Codes())
	}
}

func TestBorrowsReleasedAtScopeExit(t *testing.T) {
	c, bag := newChecker()
	c.Declare(x, true)
	v := Place{Kind: PlaceVar, Root: x}
	func() {
		defer c.Scope()()
		c.Borrow(v, true, true, at(1))
		// still active in a nested scope
		func() {
			defer c.Scope()()
			if c.Borrow(v, false, false, at(2)) {
				t.Errorf("outer &mut not visible in nested scope")
			}
		}()
	}()
	if !c.Borrow(v, true, true, at(3)) {
		t.Fatalf("borrow not released at scope exit: %v", bag.Items())
	}
}

func TestTemporaryBorrowsAreNotRecorded(t *testing.T) {
	c, bag := newChecker()
	c.Declare(x, true)
	v := Place{Kind: PlaceVar, Root: x}
	for i := range 2 {
		if !c.Borrow(v, true, false, at(uint32(i))) {
			t.Fatalf("temporary &mut %d rejected: %v", i, bag.Items())
		}
	}
}

func TestShadowedMutability(t *testing.T) {
	c, _ := newChecker()
	c.Declare(x, false)
	c.Enter()
	c.Declare(x, true)
	if !c.IsMutable(x) {
		t.Fatalf("inner declaration not visible")
	}
	c.Exit()
	if c.IsMutable(x) {
		t.Fatalf("inner declaration leaked")
	}
}

func TestUnderflowPanics(t *testing.T) {
	c, _ := newChecker()
	defer func() {
		if recover() == nil {
			t.Fatalf("exiting the root frame must panic")
		}
	}()
	c.Exit()
}

func TestFailFastReporter(t *testing.T) {
	bag := diag.NewBag(0)
	c := New(diag.FailFast{Next: diag.BagReporter{Bag: bag}}, func(symbols.SymbolID) string { return "x" })
	c.Declare(x, false)
	var err error
	func() {
		defer diag.Catch(&err)
		c.Assign(Place{Kind: PlaceVar, Root: x}, at(1))
		c.Assign(Place{Kind: PlaceVar, Root: x}, at(2))
	}()
	if err == nil || bag.Len() != 1 {
		t.Fatalf("err=%v diagnostics=%d", err, bag.Len())
	}
}
