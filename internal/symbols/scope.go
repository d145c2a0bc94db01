package symbols

import (
	"rxc/internal/ast"
	"rxc/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopePrelude            // builtin types and functions
	ScopeFile               // top-level declarations
	ScopeFunction           // parameters of one function
	ScopeBlock              // `{ ... }`
	ScopeMembers            // fields, variants and associated items of a type
)

func (k ScopeKind) String() string {
	switch k {
	case ScopePrelude:
		return "prelude"
	case ScopeFile:
		return "file"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeMembers:
		return "members"
	default:
		return "invalid"
	}
}

// ScopeOwner references the AST construct that opened the scope.
type ScopeOwner struct {
	Item ast.ItemID
	Expr ast.ExprID
}

// Scope models a lexical scope with a parent-child hierarchy.
type Scope struct {
	Kind     ScopeKind
	Parent   ScopeID
	Owner    ScopeOwner
	Span     source.Span
	Names    [namespaceCount]map[source.StringID]SymbolID
	Symbols  []SymbolID
	Children []ScopeID
}

// Lookup finds name in this scope only.
func (s *Scope) Lookup(ns Namespace, name source.StringID) (SymbolID, bool) {
	id, ok := s.Names[ns][name]
	return id, ok
}
