package consteval

import (
	"math/big"
	"strconv"
	"strings"

	"rxc/internal/types"
)

type ValueKind uint8

const (
	ValueInt ValueKind = iota
	ValueBool
	ValueChar
	ValueStr
	ValueArray
	ValueUnit
	// ValuePoisoned is returned by an Env for a constant whose evaluation
	// already failed and was reported; uses of it stay silent.
	ValuePoisoned
)

// Value is a folded compile-time constant.
type Value struct {
	Kind  ValueKind
	Type  types.TypeID
	Int   *big.Int
	Bool  bool
	Char  rune
	Str   string
	Elems []Value
}

// Uint64 returns the integer value when it is non-negative and fits.
func (v Value) Uint64() (uint64, bool) {
	if v.Kind != ValueInt || v.Int.Sign() < 0 || !v.Int.IsUint64() {
		return 0, false
	}
	return v.Int.Uint64(), true
}

func (v Value) String() string {
	switch v.Kind {
	case ValueInt:
		return v.Int.String()
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueChar:
		return strconv.QuoteRune(v.Char)
	case ValueStr:
		return strconv.Quote(v.Str)
	case ValueArray:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "()"
}
