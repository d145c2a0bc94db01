package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the closed set of type variants.
type Kind uint8

const (
	KindInvalid Kind = iota
	// primitives
	KindInt // untyped integer literal
	KindI32
	KindU32
	KindUsize
	KindIsize
	KindBool
	KindChar
	KindStr
	KindString
	// nominal
	KindStruct
	KindEnum
	KindTrait
	// structural
	KindFn
	KindReference
	KindArray
	KindUnit
	KindNever
	KindUnderscore
	KindAmbiguousBlock
	KindStructConstructor
	KindEnumConstructor
)

var kindNames = [...]string{
	KindInvalid:           "invalid",
	KindInt:               "INT",
	KindI32:               "i32",
	KindU32:               "u32",
	KindUsize:             "usize",
	KindIsize:             "isize",
	KindBool:              "bool",
	KindChar:              "char",
	KindStr:               "str",
	KindString:            "String",
	KindStruct:            "struct",
	KindEnum:              "enum",
	KindTrait:             "trait",
	KindFn:                "fn",
	KindReference:         "reference",
	KindArray:             "array",
	KindUnit:              "()",
	KindNever:             "!",
	KindUnderscore:        "_",
	KindAmbiguousBlock:    "ambiguous block",
	KindStructConstructor: "struct constructor",
	KindEnumConstructor:   "enum constructor",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsPrimitive reports INT, the sized integers, bool, char, str and String.
func (k Kind) IsPrimitive() bool {
	return k >= KindInt && k <= KindString
}

// IsInteger reports INT and the sized integer kinds.
func (k Kind) IsInteger() bool {
	return k >= KindInt && k <= KindIsize
}

// Type is a compact, comparable descriptor for any supported type.
type Type struct {
	Kind Kind
	// Elem is the referent of a reference, the element of an array, the
	// value of an ambiguous block, or the target of a constructor.
	Elem   TypeID
	Count  uint64 // array length
	RefMut bool   // &mut for references
	// Mutable is the mutability of the place holding a value of this type.
	Mutable bool
	// Payload indexes the info tables of nominal and function types, and
	// makes every underscore distinct.
	Payload uint32
	// Literal value of an integer primitive, as sign and magnitude.
	HasValue bool
	Negative bool
	Value    uint64
}

// MakeReference describes &T or &mut T.
func MakeReference(elem TypeID, mut bool) Type {
	return Type{Kind: KindReference, Elem: elem, RefMut: mut}
}

// MakeArray describes [T; n].
func MakeArray(elem TypeID, n uint64) Type {
	return Type{Kind: KindArray, Elem: elem, Count: n}
}
