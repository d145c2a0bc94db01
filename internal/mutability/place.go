package mutability

import "rxc/internal/symbols"

// PlaceKind classifies the target of an assignment or borrow.
type PlaceKind uint8

const (
	// PlaceInvalid is a value that is not a memory location, e.g. a literal.
	PlaceInvalid PlaceKind = iota
	// PlaceVar names a local variable or parameter.
	PlaceVar
	// PlaceProjection is a field or index path rooted in a variable.
	PlaceProjection
	// PlaceDeref reaches its location through a reference.
	PlaceDeref
	// PlaceTemp is a projection of a temporary value.
	PlaceTemp
	// PlaceItem names a function, constant or other non-variable item.
	PlaceItem
)

// Place is the result of classifying an lvalue expression.
type Place struct {
	Kind PlaceKind
	Root symbols.SymbolID
	// RefMut is set for PlaceDeref when the reference is `&mut`.
	RefMut bool
}
