package symbols

import (
	"strings"

	"rxc/internal/ast"
	"rxc/internal/source"
	"rxc/internal/types"
)

// Namespace separates type names, value names and field names so that a
// struct `Foo` and a variable `Foo` can coexist.
type Namespace uint8

const (
	NSType Namespace = iota
	NSValue
	NSField

	namespaceCount
)

func (ns Namespace) String() string {
	switch ns {
	case NSType:
		return "type"
	case NSValue:
		return "value"
	case NSField:
		return "field"
	}
	return "namespace?"
}

// SymbolKind classifies the declaration behind a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolVariable
	SymbolFunction
	SymbolStruct
	SymbolEnum
	SymbolTrait
	SymbolConst
	SymbolField
	SymbolVariant
	SymbolSelfParam
	SymbolImpl
	SymbolPrimitive
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolFunction:
		return "function"
	case SymbolStruct:
		return "struct"
	case SymbolEnum:
		return "enum"
	case SymbolTrait:
		return "trait"
	case SymbolConst:
		return "const"
	case SymbolField:
		return "field"
	case SymbolVariant:
		return "variant"
	case SymbolSelfParam:
		return "self parameter"
	case SymbolImpl:
		return "impl"
	case SymbolPrimitive:
		return "primitive type"
	default:
		return "invalid"
	}
}

// IsType reports kinds that live in the type namespace.
func (k SymbolKind) IsType() bool {
	switch k {
	case SymbolStruct, SymbolEnum, SymbolTrait, SymbolPrimitive:
		return true
	}
	return false
}

// IsLocal reports bindings that are not visible from nested functions.
func (k SymbolKind) IsLocal() bool {
	return k == SymbolVariable || k == SymbolSelfParam
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint8

const (
	SymbolFlagMutable SymbolFlags = 1 << iota
	SymbolFlagBuiltin
	SymbolFlagMethod      // function with a self parameter
	SymbolFlagAssociated  // declared inside an impl or trait
	SymbolFlagHasDefault  // trait item with a body
	SymbolFlagByReference // `ref x` binding
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	var labels []string
	names := []string{"mutable", "builtin", "method", "associated", "default", "ref"}
	for i, n := range names {
		if f&(1<<i) != 0 {
			labels = append(labels, n)
		}
	}
	return labels
}

func (f SymbolFlags) String() string { return strings.Join(f.Strings(), "|") }

// SymbolDecl points back at the AST origin.
type SymbolDecl struct {
	Item    ast.ItemID
	Pattern ast.PatternID
	Index   int // field or variant position
}

// Symbol describes a named entity available in a scope.
type Symbol struct {
	Name      source.StringID
	Namespace Namespace
	Kind      SymbolKind
	Scope     ScopeID
	Span      source.Span
	Flags     SymbolFlags
	Decl      SymbolDecl
	// Members holds fields, variants and associated items of a type symbol.
	Members ScopeID
	// Type is assigned by the type checker.
	Type types.TypeID
}

// Mutable reports the mutability flag.
func (s *Symbol) Mutable() bool { return s.Flags&SymbolFlagMutable != 0 }
