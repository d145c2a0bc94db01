package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"rxc/internal/source"
)

// Table aggregates the scope and symbol arenas.
type Table struct {
	scopes  []Scope
	symbols []Symbol
	Strings *source.Interner
}

// NewTable builds an empty table sharing the AST string interner.
func NewTable(strings *source.Interner) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		scopes:  make([]Scope, 1, 32), // index 0 reserved for NoScopeID
		symbols: make([]Symbol, 1, 64),
		Strings: strings,
	}
}

// NewScope allocates a scope under parent.
func (t *Table) NewScope(kind ScopeKind, parent ScopeID, owner ScopeOwner, span source.Span) ScopeID {
	n, err := safecast.Conv[uint32](len(t.scopes))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	id := ScopeID(n)
	sc := Scope{Kind: kind, Parent: parent, Owner: owner, Span: span}
	for ns := range sc.Names {
		sc.Names[ns] = make(map[source.StringID]SymbolID)
	}
	t.scopes = append(t.scopes, sc)
	if parent.IsValid() {
		p := t.Scope(parent)
		p.Children = append(p.Children, id)
	}
	return id
}

// Scope returns the scope pointer or nil if id is invalid.
func (t *Table) Scope(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(t.scopes) {
		return nil
	}
	return &t.scopes[id]
}

// NewSymbol stores sym without binding its name anywhere.
func (t *Table) NewSymbol(sym Symbol) SymbolID {
	n, err := safecast.Conv[uint32](len(t.symbols))
	if err != nil {
		panic(fmt.Errorf("symbols arena overflow: %w", err))
	}
	id := SymbolID(n)
	t.symbols = append(t.symbols, sym)
	if sc := t.Scope(sym.Scope); sc != nil {
		sc.Symbols = append(sc.Symbols, id)
	}
	return id
}

// Symbol returns the symbol pointer or nil for an invalid id.
func (t *Table) Symbol(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(t.symbols) {
		return nil
	}
	return &t.symbols[id]
}

// MustSymbol panics when id is invalid.
func (t *Table) MustSymbol(id SymbolID) *Symbol {
	sym := t.Symbol(id)
	if sym == nil {
		panic(fmt.Sprintf("symbols: invalid SymbolID %d", id))
	}
	return sym
}

// SymbolCount reports the number of allocated symbols.
func (t *Table) SymbolCount() int { return len(t.symbols) - 1 }

// bind makes id visible under its name in its scope, replacing any
// previous binding. It returns the replaced symbol.
func (t *Table) bind(id SymbolID) SymbolID {
	sym := t.Symbol(id)
	sc := t.Scope(sym.Scope)
	prev := sc.Names[sym.Namespace][sym.Name]
	sc.Names[sym.Namespace][sym.Name] = id
	return prev
}

// Lookup walks from scope outwards. Locals of enclosing functions are not
// visible from a nested function.
func (t *Table) Lookup(scope ScopeID, ns Namespace, name source.StringID) (SymbolID, bool) {
	crossedFn := false
	for id := scope; id.IsValid(); {
		sc := t.Scope(id)
		if sym, ok := sc.Lookup(ns, name); ok {
			if !crossedFn || !t.Symbol(sym).Kind.IsLocal() {
				return sym, true
			}
		}
		if sc.Kind == ScopeFunction {
			crossedFn = true
		}
		id = sc.Parent
	}
	return NoSymbolID, false
}

// Member finds an associated item, field or variant of a type symbol.
func (t *Table) Member(typeSym SymbolID, ns Namespace, name source.StringID) (SymbolID, bool) {
	sym := t.Symbol(typeSym)
	if sym == nil {
		return NoSymbolID, false
	}
	sc := t.Scope(sym.Members)
	if sc == nil {
		return NoSymbolID, false
	}
	return sc.Lookup(ns, name)
}

// Members lists the symbols of a type's member scope in declaration order.
func (t *Table) Members(typeSym SymbolID) []SymbolID {
	sym := t.Symbol(typeSym)
	if sym == nil {
		return nil
	}
	if sc := t.Scope(sym.Members); sc != nil {
		return sc.Symbols
	}
	return nil
}

// Name returns the symbol's name text.
func (t *Table) Name(id SymbolID) string {
	sym := t.Symbol(id)
	if sym == nil {
		return "?"
	}
	if s, ok := t.Strings.Lookup(sym.Name); ok {
		return s
	}
	return "?"
}
