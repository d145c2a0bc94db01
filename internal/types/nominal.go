package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"rxc/internal/source"
)

// StructField describes a single named field.
type StructField struct {
	Name string
	Type TypeID
}

// StructInfo stores metadata for a struct type.
type StructInfo struct {
	Name   string
	Decl   source.Span
	Symbol uint32 // declaring symbols.SymbolID
	Fields []StructField
}

// Field returns the field named name.
func (si *StructInfo) Field(name string) (StructField, bool) {
	for _, f := range si.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return StructField{}, false
}

// EnumVariant is one variant with its payload types (empty for unit variants).
type EnumVariant struct {
	Name    string
	Payload []TypeID
}

type EnumInfo struct {
	Name     string
	Decl     source.Span
	Symbol   uint32
	Variants []EnumVariant
}

// Variant returns the variant named name.
func (ei *EnumInfo) Variant(name string) (EnumVariant, bool) {
	for _, v := range ei.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return EnumVariant{}, false
}

// TraitMethod is a required or provided method signature.
type TraitMethod struct {
	Name       string
	Fn         TypeID
	HasDefault bool
}

// TraitConst is an associated constant of a trait.
type TraitConst struct {
	Name       string
	Type       TypeID
	HasDefault bool
}

type TraitInfo struct {
	Name    string
	Decl    source.Span
	Symbol  uint32
	Methods []TraitMethod
	Consts  []TraitConst
}

// Method returns the method named name.
func (ti *TraitInfo) Method(name string) (TraitMethod, bool) {
	for _, m := range ti.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return TraitMethod{}, false
}

// RegisterStruct allocates a nominal struct type; fields are set later.
func (in *Interner) RegisterStruct(name string, decl source.Span, sym uint32) TypeID {
	in.structs = append(in.structs, StructInfo{Name: name, Decl: decl, Symbol: sym})
	return in.internRaw(Type{Kind: KindStruct, Payload: slotOf(len(in.structs))})
}

// SetStructFields stores the resolved field descriptors for the struct type.
func (in *Interner) SetStructFields(id TypeID, fields []StructField) {
	info, ok := in.StructInfo(id)
	if !ok {
		panic(fmt.Sprintf("types: %d is not a struct", id))
	}
	info.Fields = slices.Clone(fields)
}

// StructInfo returns metadata for the provided struct TypeID.
func (in *Interner) StructInfo(id TypeID) (*StructInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindStruct || int(tt.Payload) >= len(in.structs) {
		return nil, false
	}
	return &in.structs[tt.Payload], true
}

func (in *Interner) RegisterEnum(name string, decl source.Span, sym uint32) TypeID {
	in.enums = append(in.enums, EnumInfo{Name: name, Decl: decl, Symbol: sym})
	return in.internRaw(Type{Kind: KindEnum, Payload: slotOf(len(in.enums))})
}

func (in *Interner) SetEnumVariants(id TypeID, variants []EnumVariant) {
	info, ok := in.EnumInfo(id)
	if !ok {
		panic(fmt.Sprintf("types: %d is not an enum", id))
	}
	info.Variants = slices.Clone(variants)
}

func (in *Interner) EnumInfo(id TypeID) (*EnumInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindEnum || int(tt.Payload) >= len(in.enums) {
		return nil, false
	}
	return &in.enums[tt.Payload], true
}

func (in *Interner) RegisterTrait(name string, decl source.Span, sym uint32) TypeID {
	in.traits = append(in.traits, TraitInfo{Name: name, Decl: decl, Symbol: sym})
	return in.internRaw(Type{Kind: KindTrait, Payload: slotOf(len(in.traits))})
}

// SetTraitItems stores the trait's method signatures and associated consts.
func (in *Interner) SetTraitItems(id TypeID, methods []TraitMethod, consts []TraitConst) {
	info, ok := in.TraitInfo(id)
	if !ok {
		panic(fmt.Sprintf("types: %d is not a trait", id))
	}
	info.Methods = slices.Clone(methods)
	info.Consts = slices.Clone(consts)
}

func (in *Interner) TraitInfo(id TypeID) (*TraitInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTrait || int(tt.Payload) >= len(in.traits) {
		return nil, false
	}
	return &in.traits[tt.Payload], true
}

// slotOf converts the length of an info table to the slot of its last entry.
func slotOf(n int) uint32 {
	slot, err := safecast.Conv[uint32](n - 1)
	if err != nil {
		panic(fmt.Errorf("type info overflow: %w", err))
	}
	return slot
}
