package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the primitive and unit-like types.
type Builtins struct {
	Int    TypeID
	I32    TypeID
	U32    TypeID
	Usize  TypeID
	Isize  TypeID
	Bool   TypeID
	Char   TypeID
	Str    TypeID
	String TypeID
	Unit   TypeID
	Never  TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Nominal types get a fresh slot per declaration.
type Interner struct {
	types        []Type
	index        map[Type]TypeID
	builtins     Builtins
	structs      []StructInfo
	enums        []EnumInfo
	traits       []TraitInfo
	fns          []FnInfo
	underscores  uint32
	pointerWidth uint8
}

// NewInterner constructs an interner seeded with built-in types. The
// pointer width fixes the size of usize and isize; 0 means 64.
func NewInterner(pointerWidth uint8) *Interner {
	if pointerWidth == 0 {
		pointerWidth = 64
	}
	in := &Interner{
		index:        make(map[Type]TypeID, 64),
		pointerWidth: pointerWidth,
	}
	in.types = append(in.types, Type{}) // reserve NoTypeID
	in.structs = append(in.structs, StructInfo{})
	in.enums = append(in.enums, EnumInfo{})
	in.traits = append(in.traits, TraitInfo{})
	in.fns = append(in.fns, FnInfo{})

	in.builtins = Builtins{
		Int:    in.Intern(Type{Kind: KindInt}),
		I32:    in.Intern(Type{Kind: KindI32}),
		U32:    in.Intern(Type{Kind: KindU32}),
		Usize:  in.Intern(Type{Kind: KindUsize}),
		Isize:  in.Intern(Type{Kind: KindIsize}),
		Bool:   in.Intern(Type{Kind: KindBool}),
		Char:   in.Intern(Type{Kind: KindChar}),
		Str:    in.Intern(Type{Kind: KindStr}),
		String: in.Intern(Type{Kind: KindString}),
		Unit:   in.Intern(Type{Kind: KindUnit}),
		Never:  in.Intern(Type{Kind: KindNever}),
	}
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// PointerWidth is the bit width of usize and isize.
func (in *Interner) PointerWidth() uint8 {
	return in.pointerWidth
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("types: invalid TypeID %d", id))
	}
	return tt
}

// Kind is a shorthand for MustLookup(id).Kind.
func (in *Interner) Kind(id TypeID) Kind {
	return in.MustLookup(id).Kind
}

// Underscore returns a fresh placeholder type. No two placeholders are equal.
func (in *Interner) Underscore() TypeID {
	in.underscores++
	return in.internRaw(Type{Kind: KindUnderscore, Payload: in.underscores})
}

func (in *Interner) Reference(elem TypeID, mut bool) TypeID {
	return in.Intern(MakeReference(elem, mut))
}

func (in *Interner) Array(elem TypeID, n uint64) TypeID {
	return in.Intern(MakeArray(elem, n))
}

// AmbiguousBlock wraps the value type of a block whose tail may be
// discarded by the context.
func (in *Interner) AmbiguousBlock(value TypeID) TypeID {
	return in.Intern(Type{Kind: KindAmbiguousBlock, Elem: value})
}

// StructConstructor is the type of a struct name in value position.
func (in *Interner) StructConstructor(st TypeID) TypeID {
	return in.Intern(Type{Kind: KindStructConstructor, Elem: in.Unqualified(st)})
}

// EnumConstructor is the type of an enum name in value position.
func (in *Interner) EnumConstructor(en TypeID) TypeID {
	return in.Intern(Type{Kind: KindEnumConstructor, Elem: in.Unqualified(en)})
}

// WithValue records a literal integer value on a primitive integer type.
func (in *Interner) WithValue(id TypeID, negative bool, magnitude uint64) TypeID {
	tt := in.MustLookup(id)
	if !tt.Kind.IsInteger() {
		panic(fmt.Sprintf("types: literal value on %s", tt.Kind))
	}
	tt.HasValue, tt.Negative, tt.Value = true, negative && magnitude != 0, magnitude
	return in.Intern(tt)
}

// WithMutability returns id with its place mutability set to mut. Never,
// Unit and Underscore are returned unchanged.
func (in *Interner) WithMutability(id TypeID, mut bool) TypeID {
	tt := in.MustLookup(id)
	switch tt.Kind {
	case KindNever, KindUnit, KindUnderscore:
		return id
	}
	if tt.Mutable == mut {
		return id
	}
	tt.Mutable = mut
	return in.Intern(tt)
}

// Unqualified strips place mutability and any literal value.
func (in *Interner) Unqualified(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind == KindUnderscore {
		return id
	}
	if !tt.Mutable && !tt.HasValue {
		return id
	}
	tt.Mutable, tt.HasValue, tt.Negative, tt.Value = false, false, false, 0
	return in.Intern(tt)
}

// IsMutable reports the place mutability flag.
func (in *Interner) IsMutable(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Mutable
}
