package types

import (
	"math/big"
)

// IntSpec is the declared width and signedness of an integer kind.
type IntSpec struct {
	Bits   uint8
	Signed bool
}

// IntSpec returns the width of an integer kind. The untyped literal kind is
// treated as a signed 64-bit value when no context narrows it.
func (in *Interner) IntSpec(k Kind) (IntSpec, bool) {
	switch k {
	case KindInt:
		return IntSpec{Bits: 64, Signed: true}, true
	case KindI32:
		return IntSpec{Bits: 32, Signed: true}, true
	case KindU32:
		return IntSpec{Bits: 32}, true
	case KindIsize:
		return IntSpec{Bits: in.pointerWidth, Signed: true}, true
	case KindUsize:
		return IntSpec{Bits: in.pointerWidth}, true
	}
	return IntSpec{}, false
}

// Range returns the inclusive bounds of s.
func (s IntSpec) Range() (lo, hi *big.Int) {
	one := big.NewInt(1)
	if s.Signed {
		hi = new(big.Int).Lsh(one, uint(s.Bits-1))
		lo = new(big.Int).Neg(hi)
		hi.Sub(hi, one)
		return lo, hi
	}
	hi = new(big.Int).Lsh(one, uint(s.Bits))
	return new(big.Int), hi.Sub(hi, one)
}

// Fits reports whether v lies within the range of s.
func (s IntSpec) Fits(v *big.Int) bool {
	lo, hi := s.Range()
	return v.Cmp(lo) >= 0 && v.Cmp(hi) <= 0
}

// FitsLiteral reports whether a sign-and-magnitude literal fits kind k.
func (in *Interner) FitsLiteral(k Kind, negative bool, magnitude uint64) bool {
	spec, ok := in.IntSpec(k)
	if !ok {
		return false
	}
	return spec.Fits(LiteralValue(negative, magnitude))
}

// LiteralValue converts sign and magnitude to a big integer.
func LiteralValue(negative bool, magnitude uint64) *big.Int {
	v := new(big.Int).SetUint64(magnitude)
	if negative {
		v.Neg(v)
	}
	return v
}

// KindForSuffix maps an integer literal suffix to its kind.
func KindForSuffix(suffix string) Kind {
	switch suffix {
	case "i32":
		return KindI32
	case "u32":
		return KindU32
	case "usize":
		return KindUsize
	case "isize":
		return KindIsize
	}
	return KindInt
}

// PrimitiveByName maps a primitive type name to its TypeID.
func (in *Interner) PrimitiveByName(name string) (TypeID, bool) {
	b := in.builtins
	switch name {
	case "i32":
		return b.I32, true
	case "u32":
		return b.U32, true
	case "usize":
		return b.Usize, true
	case "isize":
		return b.Isize, true
	case "bool":
		return b.Bool, true
	case "char":
		return b.Char, true
	case "str":
		return b.Str, true
	case "String":
		return b.String, true
	}
	return NoTypeID, false
}
