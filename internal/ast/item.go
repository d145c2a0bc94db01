package ast

import "rxc/internal/source"

type ItemKind uint8

const (
	ItemFn ItemKind = iota
	ItemStruct
	ItemEnum
	ItemTrait
	ItemImpl
	ItemConst
)

func (k ItemKind) String() string {
	switch k {
	case ItemFn:
		return "fn"
	case ItemStruct:
		return "struct"
	case ItemEnum:
		return "enum"
	case ItemTrait:
		return "trait"
	case ItemImpl:
		return "impl"
	case ItemConst:
		return "const"
	}
	return "item?"
}

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// SelfParamKind is how a method takes its receiver.
type SelfParamKind uint8

const (
	SelfNone   SelfParamKind = iota
	SelfValue                // self, mut self
	SelfRef                  // &self
	SelfRefMut               // &mut self
)

type FnParam struct {
	Pattern PatternID
	Type    TypeID
	Span    source.Span
}

type FnItem struct {
	Name       source.StringID
	NameSpan   source.Span
	Self       SelfParamKind
	SelfMut    bool // `mut self`
	SelfSpan   source.Span
	Params     []FnParam
	ReturnType TypeID // NoTypeID means ()
	Body       ExprID // block; NoExprID for a trait signature
}

// HasSelf reports whether the function declares a receiver.
func (f *FnItem) HasSelf() bool { return f.Self != SelfNone }

type StructField struct {
	Name source.StringID
	Type TypeID
	Span source.Span
}

type StructItem struct {
	Name     source.StringID
	NameSpan source.Span
	Fields   []StructField
	Unit     bool // struct S;
}

type EnumVariant struct {
	Name source.StringID
	Span source.Span
}

type EnumItem struct {
	Name     source.StringID
	NameSpan source.Span
	Variants []EnumVariant
}

type TraitItem struct {
	Name     source.StringID
	NameSpan source.Span
	Members  []ItemID // ItemFn and ItemConst
}

type ImplItem struct {
	Trait   TypeID // NoTypeID for an inherent impl
	Target  TypeID
	Members []ItemID
}

type ConstItem struct {
	Name     source.StringID
	NameSpan source.Span
	Type     TypeID // NoTypeID is rejected by the checker
	Value    ExprID // NoExprID for a trait requirement
}

type Items struct {
	Arena   *Arena[Item]
	Fns     *Arena[FnItem]
	Structs *Arena[StructItem]
	Enums   *Arena[EnumItem]
	Traits  *Arena[TraitItem]
	Impls   *Arena[ImplItem]
	Consts  *Arena[ConstItem]
}

func NewItems(capHint uint) *Items {
	return &Items{
		Arena:   NewArena[Item](capHint),
		Fns:     NewArena[FnItem](capHint),
		Structs: NewArena[StructItem](capHint),
		Enums:   NewArena[EnumItem](capHint),
		Traits:  NewArena[TraitItem](capHint),
		Impls:   NewArena[ImplItem](capHint),
		Consts:  NewArena[ConstItem](capHint),
	}
}

func (i *Items) new(kind ItemKind, span source.Span, payload uint32) ItemID {
	return ItemID(i.Arena.Allocate(Item{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) payload(id ItemID, kind ItemKind) (uint32, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != kind {
		return 0, false
	}
	return uint32(item.Payload), true
}

func (i *Items) NewFn(span source.Span, fn FnItem) ItemID {
	return i.new(ItemFn, span, i.Fns.Allocate(fn))
}

func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	p, ok := i.payload(id, ItemFn)
	if !ok {
		return nil, false
	}
	return i.Fns.Get(p), true
}

func (i *Items) NewStruct(span source.Span, st StructItem) ItemID {
	return i.new(ItemStruct, span, i.Structs.Allocate(st))
}

func (i *Items) Struct(id ItemID) (*StructItem, bool) {
	p, ok := i.payload(id, ItemStruct)
	if !ok {
		return nil, false
	}
	return i.Structs.Get(p), true
}

func (i *Items) NewEnum(span source.Span, en EnumItem) ItemID {
	return i.new(ItemEnum, span, i.Enums.Allocate(en))
}

func (i *Items) Enum(id ItemID) (*EnumItem, bool) {
	p, ok := i.payload(id, ItemEnum)
	if !ok {
		return nil, false
	}
	return i.Enums.Get(p), true
}

func (i *Items) NewTrait(span source.Span, tr TraitItem) ItemID {
	return i.new(ItemTrait, span, i.Traits.Allocate(tr))
}

func (i *Items) Trait(id ItemID) (*TraitItem, bool) {
	p, ok := i.payload(id, ItemTrait)
	if !ok {
		return nil, false
	}
	return i.Traits.Get(p), true
}

func (i *Items) NewImpl(span source.Span, im ImplItem) ItemID {
	return i.new(ItemImpl, span, i.Impls.Allocate(im))
}

func (i *Items) Impl(id ItemID) (*ImplItem, bool) {
	p, ok := i.payload(id, ItemImpl)
	if !ok {
		return nil, false
	}
	return i.Impls.Get(p), true
}

func (i *Items) NewConst(span source.Span, c ConstItem) ItemID {
	return i.new(ItemConst, span, i.Consts.Allocate(c))
}

func (i *Items) Const(id ItemID) (*ConstItem, bool) {
	p, ok := i.payload(id, ItemConst)
	if !ok {
		return nil, false
	}
	return i.Consts.Get(p), true
}

// DeclName returns the declared name of named items and NoStringID for impls.
func (i *Items) DeclName(id ItemID) (source.StringID, source.Span) {
	item := i.Get(id)
	if item == nil {
		return source.NoStringID, source.Span{}
	}
	switch item.Kind {
	case ItemFn:
		fn := i.Fns.Get(uint32(item.Payload))
		return fn.Name, fn.NameSpan
	case ItemStruct:
		st := i.Structs.Get(uint32(item.Payload))
		return st.Name, st.NameSpan
	case ItemEnum:
		en := i.Enums.Get(uint32(item.Payload))
		return en.Name, en.NameSpan
	case ItemTrait:
		tr := i.Traits.Get(uint32(item.Payload))
		return tr.Name, tr.NameSpan
	case ItemConst:
		c := i.Consts.Get(uint32(item.Payload))
		return c.Name, c.NameSpan
	case ItemImpl:
		return source.NoStringID, item.Span
	}
	panic("ast: unknown item kind")
}
