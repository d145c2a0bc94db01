package types

// Equal reports structural equality. Place mutability and literal values
// are ignored; an underscore is never equal to anything, itself included.
func (in *Interner) Equal(a, b TypeID) bool {
	ta, okA := in.Lookup(a)
	tb, okB := in.Lookup(b)
	if !okA || !okB {
		return false
	}
	if ta.Kind == KindUnderscore || tb.Kind == KindUnderscore {
		return false
	}
	if ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case KindStruct, KindEnum, KindTrait:
		return ta.Payload == tb.Payload
	case KindReference:
		return ta.RefMut == tb.RefMut && in.Equal(ta.Elem, tb.Elem)
	case KindArray:
		return ta.Count == tb.Count && in.Equal(ta.Elem, tb.Elem)
	case KindAmbiguousBlock, KindStructConstructor, KindEnumConstructor:
		return in.Equal(ta.Elem, tb.Elem)
	case KindFn:
		fa, _ := in.FnInfo(a)
		fb, _ := in.FnInfo(b)
		if fa.IsMethod != fb.IsMethod || len(fa.Params) != len(fb.Params) {
			return false
		}
		for i := range fa.Params {
			if !in.Equal(fa.Params[i], fb.Params[i]) {
				return false
			}
		}
		return in.Equal(fa.Result, fb.Result)
	}
	// primitives, unit and never carry no further structure
	return true
}

// Compatible reports whether a value of type actual may flow into a slot of
// type expected.
//
// An underscore on either side is rejected. Never on either side is
// accepted. An ambiguous block is accepted where its value type or unit is.
// An untyped integer literal is accepted by every integer kind whose range
// holds its value. &mut T is accepted where &T is expected.
func (in *Interner) Compatible(actual, expected TypeID) bool {
	ta, okA := in.Lookup(actual)
	te, okE := in.Lookup(expected)
	if !okA || !okE {
		return false
	}
	switch {
	case ta.Kind == KindUnderscore || te.Kind == KindUnderscore:
		return false
	case ta.Kind == KindNever || te.Kind == KindNever:
		return true
	case ta.Kind == KindAmbiguousBlock:
		return te.Kind == KindUnit || in.Compatible(ta.Elem, expected)
	case te.Kind == KindAmbiguousBlock:
		return ta.Kind == KindUnit || in.Compatible(actual, te.Elem)
	case ta.Kind == KindInt && te.Kind.IsInteger():
		return !ta.HasValue || in.FitsLiteral(te.Kind, ta.Negative, ta.Value)
	case te.Kind == KindInt && ta.Kind.IsInteger():
		return !te.HasValue || in.FitsLiteral(ta.Kind, te.Negative, te.Value)
	case ta.Kind == KindReference && te.Kind == KindReference:
		if te.RefMut && !ta.RefMut {
			return false
		}
		return in.Compatible(ta.Elem, te.Elem)
	case ta.Kind == KindArray && te.Kind == KindArray:
		return ta.Count == te.Count && in.Compatible(ta.Elem, te.Elem)
	}
	return in.Equal(actual, expected)
}

// Join returns the common type of two branches, or NoTypeID when they are
// incompatible. Never yields to the other side; an untyped integer yields to
// a sized one.
func (in *Interner) Join(a, b TypeID) TypeID {
	ka, kb := in.Kind(a), in.Kind(b)
	switch {
	case ka == KindNever:
		return b
	case kb == KindNever:
		return a
	case ka == KindInt && kb.IsInteger():
		if in.Compatible(a, b) {
			return in.Unqualified(b)
		}
	case kb == KindInt && ka.IsInteger():
		if in.Compatible(b, a) {
			return in.Unqualified(a)
		}
	case in.Compatible(a, b):
		return in.Unqualified(b)
	case in.Compatible(b, a):
		return in.Unqualified(a)
	}
	return NoTypeID
}

// IsNumeric reports the integer kinds, the untyped literal included.
func (in *Interner) IsNumeric(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind.IsInteger()
}

func (in *Interner) IsBoolean(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindBool
}

func (in *Interner) IsUnit(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindUnit
}

func (in *Interner) IsNever(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindNever
}

func (in *Interner) IsUnderscore(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindUnderscore
}

// ContainsUnderscore reports whether an underscore appears anywhere in id.
func (in *Interner) ContainsUnderscore(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindUnderscore:
		return true
	case KindReference, KindArray, KindAmbiguousBlock:
		return in.ContainsUnderscore(tt.Elem)
	}
	return false
}

// BaseType strips one level of reference indirection.
func (in *Interner) BaseType(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindReference {
		return id
	}
	return tt.Elem
}

// Settle resolves an ambiguous block to its value type.
func (in *Interner) Settle(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindAmbiguousBlock {
		return id
	}
	return tt.Elem
}
