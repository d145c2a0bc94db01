// Package mutability enforces assignment mutability and the
// single-mutable-xor-many-shared borrow rule per lexical scope. The type
// checker drives it while walking function bodies.
package mutability

import (
	"rxc/internal/diag"
	"rxc/internal/source"
	"rxc/internal/symbols"
)

type frame struct {
	mutable map[symbols.SymbolID]bool
	// active borrows introduced in this scope
	mutBorrows    map[symbols.SymbolID]source.Span
	sharedBorrows map[symbols.SymbolID]source.Span
}

// Checker is a stack of scope frames. Borrows are released when the scope
// that introduced them exits.
type Checker struct {
	reporter diag.Reporter
	name     func(symbols.SymbolID) string
	frames   []frame
}

// New returns a checker with one root frame. name renders symbols in
// messages.
func New(reporter diag.Reporter, name func(symbols.SymbolID) string) *Checker {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	c := &Checker{reporter: reporter, name: name}
	c.Enter()
	return c
}

// Enter pushes a frame for a function, block or loop body.
func (c *Checker) Enter() {
	c.frames = append(c.frames, frame{
		mutable:       make(map[symbols.SymbolID]bool),
		mutBorrows:    make(map[symbols.SymbolID]source.Span),
		sharedBorrows: make(map[symbols.SymbolID]source.Span),
	})
}

// Exit pops the innermost frame and its borrows.
func (c *Checker) Exit() {
	if len(c.frames) <= 1 {
		panic("mutability: scope stack underflow")
	}
	c.frames = c.frames[:len(c.frames)-1]
}

// Scope enters a frame and returns Exit, for `defer c.Scope()()`.
func (c *Checker) Scope() func() {
	c.Enter()
	return c.Exit
}

// Depth reports the number of open frames including the root.
func (c *Checker) Depth() int { return len(c.frames) }

// Declare records the binding mutability of sym in the current scope.
func (c *Checker) Declare(sym symbols.SymbolID, mutable bool) {
	c.frames[len(c.frames)-1].mutable[sym] = mutable
}

// IsMutable reports the recorded mutability of sym, innermost first.
func (c *Checker) IsMutable(sym symbols.SymbolID) bool {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if m, ok := c.frames[i].mutable[sym]; ok {
			return m
		}
	}
	return false
}

func (c *Checker) activeBorrow(sym symbols.SymbolID, mut bool) (source.Span, bool) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		set := c.frames[i].sharedBorrows
		if mut {
			set = c.frames[i].mutBorrows
		}
		if sp, ok := set[sym]; ok {
			return sp, true
		}
	}
	return source.Span{}, false
}

// Assign validates p as the target of `=` or a compound assignment. Only a
// bare variable must be declared mutable; field, index and dereference
// targets are always writable.
func (c *Checker) Assign(p Place, sp source.Span) bool {
	switch p.Kind {
	case PlaceVar:
		if c.IsMutable(p.Root) {
			return true
		}
		diag.ReportError(c.reporter, diag.SemaAssignImmutable, sp,
			"cannot assign to immutable variable `"+c.name(p.Root)+"`").
			WithNote(sp, "consider declaring it with `let mut`").
			Emit()
		return false
	case PlaceProjection, PlaceDeref, PlaceTemp:
		return true
	case PlaceItem:
		diag.ReportError(c.reporter, diag.SemaAssignImmutable, sp,
			"cannot assign to immutable item `"+c.name(p.Root)+"`").Emit()
		return false
	}
	diag.ReportError(c.reporter, diag.SemaInvalidAssignTarget, sp,
		"invalid left-hand side of assignment").Emit()
	return false
}

// Borrow validates `&p` or `&mut p`. A recorded borrow stays active until
// the current scope exits; temporary borrows are checked only.
func (c *Checker) Borrow(p Place, mut, record bool, sp source.Span) bool {
	switch p.Kind {
	case PlaceDeref:
		if mut && !p.RefMut {
			diag.ReportError(c.reporter, diag.SemaBorrowMutOfImmutable, sp,
				"cannot borrow data behind a `&` reference as mutable").Emit()
			return false
		}
		return true
	case PlaceVar, PlaceProjection, PlaceItem:
	default:
		return true
	}

	name := c.name(p.Root)
	if mut {
		if !c.IsMutable(p.Root) {
			diag.ReportError(c.reporter, diag.SemaBorrowMutOfImmutable, sp,
				"cannot borrow `"+name+"` as mutable, as it is not declared as mutable").Emit()
			return false
		}
		if prev, ok := c.activeBorrow(p.Root, true); ok {
			diag.ReportError(c.reporter, diag.SemaBorrowMutConflict, sp,
				"cannot borrow `"+name+"` as mutable more than once at a time").
				WithNote(prev, "first mutable borrow here").Emit()
			return false
		}
		if prev, ok := c.activeBorrow(p.Root, false); ok {
			diag.ReportError(c.reporter, diag.SemaBorrowMutConflict, sp,
				"cannot borrow `"+name+"` as mutable because it is also borrowed as immutable").
				WithNote(prev, "immutable borrow here").Emit()
			return false
		}
	} else if prev, ok := c.activeBorrow(p.Root, true); ok {
		diag.ReportError(c.reporter, diag.SemaBorrowSharedConflict, sp,
			"cannot create immutable borrow of `"+name+"`: it already has a mutable borrow").
			WithNote(prev, "mutable borrow here").Emit()
		return false
	}

	if record {
		top := &c.frames[len(c.frames)-1]
		if mut {
			top.mutBorrows[p.Root] = sp
		} else if _, ok := top.sharedBorrows[p.Root]; !ok {
			top.sharedBorrows[p.Root] = sp
		}
	}
	return true
}
