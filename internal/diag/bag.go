package diag

import (
	"cmp"
	"slices"
)

// Bag collects diagnostics in report order. A max of 0 means unlimited.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	return &Bag{max: max}
}

// Add appends d unless the limit is reached; it reports whether d was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int { return b.max }

// Dropped counts diagnostics rejected by the limit.
func (b *Bag) Dropped() int { return b.dropped }

func (b *Bag) Len() int { return len(b.items) }

// Items returns the backing slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// HasErrors reports whether any diagnostic has SevError.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// ErrorCount counts error-severity diagnostics.
func (b *Bag) ErrorCount() int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			n++
		}
	}
	return n
}

// Codes lists diagnostic codes in report order.
func (b *Bag) Codes() []Code {
	out := make([]Code, 0, len(b.items))
	for i := range b.items {
		out = append(out, b.items[i].Code)
	}
	return out
}

// Merge appends other's diagnostics ignoring the limit.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Sort orders by file, start, end, severity (errors first) and code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		if c := cmp.Compare(x.Primary.File, y.Primary.File); c != 0 {
			return c
		}
		if c := cmp.Compare(x.Primary.Start, y.Primary.Start); c != 0 {
			return c
		}
		if c := cmp.Compare(x.Primary.End, y.Primary.End); c != 0 {
			return c
		}
		if c := cmp.Compare(y.Severity, x.Severity); c != 0 {
			return c
		}
		return cmp.Compare(x.Code, y.Code)
	})
}
