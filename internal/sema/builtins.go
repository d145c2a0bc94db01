package sema

import (
	"rxc/internal/symbols"
	"rxc/internal/types"
)

// builtinFn is a function every program may call without declaring it.
type builtinFn struct {
	name   string
	params func(b types.Builtins, strRef types.TypeID) []types.TypeID
	result func(b types.Builtins) types.TypeID
}

var builtinFns = []builtinFn{
	{"print", strParam, unitResult},
	{"println", strParam, unitResult},
	{"printInt", i32Param, unitResult},
	{"printlnInt", i32Param, unitResult},
	{"getString", noParams, func(b types.Builtins) types.TypeID { return b.String }},
	{"getInt", noParams, func(b types.Builtins) types.TypeID { return b.I32 }},
	{"exit", i32Param, unitResult},
}

func strParam(_ types.Builtins, strRef types.TypeID) []types.TypeID {
	return []types.TypeID{strRef}
}

func i32Param(b types.Builtins, _ types.TypeID) []types.TypeID {
	return []types.TypeID{b.I32}
}

func noParams(types.Builtins, types.TypeID) []types.TypeID { return nil }

func unitResult(b types.Builtins) types.TypeID { return b.Unit }

var primitiveNames = []string{"i32", "u32", "usize", "isize", "bool", "char", "str", "String"}

// Prelude lists the primitive types and builtin functions the resolver
// installs below the file scope.
func Prelude(in *types.Interner) []symbols.PreludeEntry {
	b := in.Builtins()
	out := make([]symbols.PreludeEntry, 0, len(primitiveNames)+len(builtinFns))
	for _, name := range primitiveNames {
		t, _ := in.PrimitiveByName(name)
		out = append(out, symbols.PreludeEntry{Name: name, Namespace: symbols.NSType, Kind: symbols.SymbolPrimitive, Type: t})
	}
	strRef := in.Reference(b.Str, false)
	for _, fn := range builtinFns {
		t := in.RegisterFn(types.FnInfo{Params: fn.params(b, strRef), Result: fn.result(b)})
		out = append(out, symbols.PreludeEntry{Name: fn.name, Namespace: symbols.NSValue, Kind: symbols.SymbolFunction, Type: t})
	}
	return out
}

// builtinMethod describes a method provided for primitive receivers.
type builtinMethod struct {
	fn types.FnInfo
	// mutRecv requires a mutable receiver place or a &mut reference.
	mutRecv bool
}

// lookupBuiltinMethod finds name on the auto-dereferenced receiver base.
func (tc *typeChecker) lookupBuiltinMethod(base types.TypeID, name string) (builtinMethod, bool) {
	b := tc.builtins
	k := tc.types.Kind(base)
	strRef := tc.types.Reference(b.Str, false)
	switch name {
	case "to_string":
		if k.IsInteger() || k == types.KindBool || k == types.KindChar || k == types.KindStr || k == types.KindString {
			return builtinMethod{fn: types.FnInfo{Result: b.String}}, true
		}
	case "as_str":
		if k == types.KindString {
			return builtinMethod{fn: types.FnInfo{Result: strRef}}, true
		}
	case "as_mut_str":
		if k == types.KindString {
			return builtinMethod{fn: types.FnInfo{Result: tc.types.Reference(b.Str, true)}, mutRecv: true}, true
		}
	case "len":
		if k == types.KindStr || k == types.KindString || k == types.KindArray {
			return builtinMethod{fn: types.FnInfo{Result: b.Usize}}, true
		}
	case "append":
		if k == types.KindString {
			return builtinMethod{fn: types.FnInfo{Params: []types.TypeID{strRef}, Result: b.Unit}, mutRecv: true}, true
		}
	}
	return builtinMethod{}, false
}
