package sema

import (
	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/symbols"
	"rxc/internal/types"
)

// declaredItems lists every resolved item of the file in allocation order,
// nested and associated items included.
func (tc *typeChecker) declaredItems() []ast.ItemID {
	n := tc.builder.Items.Arena.Len()
	out := make([]ast.ItemID, 0, n)
	for i := uint32(1); i <= n; i++ {
		id := ast.ItemID(i)
		if _, ok := tc.symbols.ItemSymbols[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// collectSignatures gives every item its type before any body is checked:
// nominal types first so signatures may mention them in any order, then
// struct fields, function signatures and constants, then trait tables.
func (tc *typeChecker) collectSignatures() {
	items := tc.declaredItems()
	for _, it := range items {
		tc.registerNominal(it)
	}
	for _, it := range items {
		switch tc.builder.Items.Get(it).Kind {
		case ast.ItemStruct:
			tc.structFields(it)
		case ast.ItemEnum:
			tc.enumVariants(it)
		}
	}
	for _, it := range items {
		switch tc.builder.Items.Get(it).Kind {
		case ast.ItemFn:
			tc.fnSignature(it)
		case ast.ItemConst:
			tc.constType(tc.symbols.ItemSymbols[it])
		}
	}
	for _, it := range items {
		if tc.builder.Items.Get(it).Kind == ast.ItemTrait {
			tc.traitItems(it)
		}
	}
	for _, it := range items {
		if tc.builder.Items.Get(it).Kind == ast.ItemImpl {
			tc.implHeader(it)
		}
	}
}

func (tc *typeChecker) registerNominal(id ast.ItemID) {
	symID := tc.symbols.ItemSymbols[id]
	sym := tc.table.Symbol(symID)
	name := tc.name(sym.Name)
	var t types.TypeID
	switch tc.builder.Items.Get(id).Kind {
	case ast.ItemStruct:
		t = tc.types.RegisterStruct(name, sym.Span, uint32(symID))
	case ast.ItemEnum:
		t = tc.types.RegisterEnum(name, sym.Span, uint32(symID))
	case ast.ItemTrait:
		t = tc.types.RegisterTrait(name, sym.Span, uint32(symID))
	default:
		return
	}
	sym.Type = t
	tc.result.ItemTypes[id] = t
}

func (tc *typeChecker) structFields(id ast.ItemID) {
	st, _ := tc.builder.Items.Struct(id)
	symID := tc.symbols.ItemSymbols[id]
	t := tc.table.Symbol(symID).Type
	fields := make([]types.StructField, len(st.Fields))
	for i, f := range st.Fields {
		fields[i] = types.StructField{Name: tc.name(f.Name), Type: tc.signatureType(f.Type)}
	}
	tc.types.SetStructFields(t, fields)
	for _, m := range tc.table.Members(symID) {
		if fs := tc.table.Symbol(m); fs.Kind == symbols.SymbolField && fs.Decl.Index < len(fields) {
			fs.Type = fields[fs.Decl.Index].Type
		}
	}
}

func (tc *typeChecker) enumVariants(id ast.ItemID) {
	en, _ := tc.builder.Items.Enum(id)
	symID := tc.symbols.ItemSymbols[id]
	t := tc.table.Symbol(symID).Type
	variants := make([]types.EnumVariant, len(en.Variants))
	for i, v := range en.Variants {
		variants[i] = types.EnumVariant{Name: tc.name(v.Name)}
	}
	tc.types.SetEnumVariants(t, variants)
	for _, m := range tc.table.Members(symID) {
		if vs := tc.table.Symbol(m); vs.Kind == symbols.SymbolVariant {
			vs.Type = t
		}
	}
}

// ownerType is the type `Self` denotes for an associated item.
func (tc *typeChecker) ownerType(id ast.ItemID) types.TypeID {
	owner, ok := tc.symbols.Owners[id]
	if !ok {
		return types.NoTypeID
	}
	return tc.table.Symbol(owner).Type
}

func (tc *typeChecker) fnSignature(id ast.ItemID) types.TypeID {
	if t, ok := tc.fnTypes[id]; ok {
		return t
	}
	fn, _ := tc.builder.Items.Fn(id)
	info := types.FnInfo{Result: tc.builtins.Unit}
	for _, p := range fn.Params {
		info.Params = append(info.Params, tc.signatureType(p.Type))
	}
	if fn.ReturnType.IsValid() {
		info.Result = tc.signatureType(fn.ReturnType)
	}
	if fn.HasSelf() {
		self := tc.ownerType(id)
		if self == types.NoTypeID {
			self = tc.builtins.Never
		}
		info.IsMethod = true
		info.Receiver = tc.receiverType(fn, self)
		if selfSym, ok := tc.symbols.SelfParams[id]; ok {
			tc.table.Symbol(selfSym).Type = tc.types.WithMutability(info.Receiver, fn.SelfMut)
		}
	}
	t := tc.types.RegisterFn(info)
	tc.fnTypes[id] = t
	tc.result.ItemTypes[id] = t
	tc.table.Symbol(tc.symbols.ItemSymbols[id]).Type = t
	return t
}

func (tc *typeChecker) receiverType(fn *ast.FnItem, self types.TypeID) types.TypeID {
	switch fn.Self {
	case ast.SelfRef:
		return tc.types.Reference(self, false)
	case ast.SelfRefMut:
		return tc.types.Reference(self, true)
	}
	return self
}

// constType resolves the declared type of a constant. A constant without a
// type is reported once and typed as never.
func (tc *typeChecker) constType(symID symbols.SymbolID) types.TypeID {
	sym := tc.table.Symbol(symID)
	if sym.Type != types.NoTypeID {
		return sym.Type
	}
	c, _ := tc.builder.Items.Const(sym.Decl.Item)
	if !c.Type.IsValid() {
		tc.errorf(diag.SemaConstMissingType, c.NameSpan,
			"missing type for `const` item `%s`", tc.name(c.Name)).Emit()
		sym.Type = tc.builtins.Never
	} else {
		sym.Type = tc.signatureType(c.Type)
	}
	tc.result.ItemTypes[sym.Decl.Item] = sym.Type
	return sym.Type
}

func (tc *typeChecker) traitItems(id ast.ItemID) {
	tr, _ := tc.builder.Items.Trait(id)
	var methods []types.TraitMethod
	var consts []types.TraitConst
	for _, m := range tr.Members {
		name, _ := tc.builder.Items.DeclName(m)
		switch tc.builder.Items.Get(m).Kind {
		case ast.ItemFn:
			fn, _ := tc.builder.Items.Fn(m)
			methods = append(methods, types.TraitMethod{Name: tc.name(name), Fn: tc.fnSignature(m), HasDefault: fn.Body.IsValid()})
		case ast.ItemConst:
			c, _ := tc.builder.Items.Const(m)
			consts = append(consts, types.TraitConst{Name: tc.name(name), Type: tc.constType(tc.symbols.ItemSymbols[m]), HasDefault: c.Value.IsValid()})
		}
	}
	tc.types.SetTraitItems(tc.result.ItemTypes[id], methods, consts)
}

// implHeader records the target type of an impl and compares trait
// implementations against the trait's signatures.
func (tc *typeChecker) implHeader(id ast.ItemID) {
	target, ok := tc.symbols.ImplTargets[id]
	if !ok {
		return
	}
	targetType := tc.table.Symbol(target).Type
	if targetType == types.NoTypeID {
		return
	}
	tc.result.ItemTypes[id] = targetType
	trait, ok := tc.symbols.ImplTraits[id]
	if !ok {
		return
	}
	traitType := tc.table.Symbol(trait).Type
	info, ok := tc.types.TraitInfo(traitType)
	if !ok {
		return
	}
	im, _ := tc.builder.Items.Impl(id)
	for _, m := range im.Members {
		name, sp := tc.builder.Items.DeclName(m)
		label := tc.name(name)
		switch tc.builder.Items.Get(m).Kind {
		case ast.ItemFn:
			want, ok := info.Method(label)
			if !ok {
				continue
			}
			expected := tc.substSelf(want.Fn, traitType, targetType)
			if got := tc.fnSignature(m); !tc.sameSignature(got, expected) {
				rb := tc.errorf(diag.SemaTraitSignatureMismatch, sp,
					"method `%s` has an incompatible signature for trait `%s`: expected %s, found %s",
					label, info.Name, tc.label(expected), tc.label(got))
				if decl, ok := tc.table.Member(trait, symbols.NSValue, name); ok {
					rb.WithNote(tc.table.Symbol(decl).Span, "type in trait")
				}
				rb.Emit()
			}
		case ast.ItemConst:
			for _, want := range info.Consts {
				if want.Name != label {
					continue
				}
				expected := tc.substSelf(want.Type, traitType, targetType)
				if got := tc.constType(tc.symbols.ItemSymbols[m]); !tc.types.Equal(got, expected) {
					tc.errorf(diag.SemaTraitSignatureMismatch, sp,
						"constant `%s` has type %s but trait `%s` declares %s",
						label, tc.label(got), info.Name, tc.label(expected)).Emit()
				}
			}
		}
	}
}

// substSelf replaces the trait type inside a trait signature by the type
// implementing it.
func (tc *typeChecker) substSelf(t, trait, target types.TypeID) types.TypeID {
	tt, ok := tc.types.Lookup(t)
	if !ok {
		return t
	}
	switch tt.Kind {
	case types.KindTrait:
		if tc.types.Equal(t, trait) {
			return target
		}
	case types.KindReference:
		return tc.types.Reference(tc.substSelf(tt.Elem, trait, target), tt.RefMut)
	case types.KindArray:
		return tc.types.Array(tc.substSelf(tt.Elem, trait, target), tt.Count)
	case types.KindFn:
		info, _ := tc.types.FnInfo(t)
		out := types.FnInfo{
			Result:   tc.substSelf(info.Result, trait, target),
			IsMethod: info.IsMethod,
		}
		for _, p := range info.Params {
			out.Params = append(out.Params, tc.substSelf(p, trait, target))
		}
		if info.IsMethod {
			out.Receiver = tc.substSelf(info.Receiver, trait, target)
		}
		return tc.types.RegisterFn(out)
	}
	return t
}

// sameSignature is Equal for function types with receivers compared too.
func (tc *typeChecker) sameSignature(a, b types.TypeID) bool {
	if !tc.types.Equal(a, b) {
		return false
	}
	fa, _ := tc.types.FnInfo(a)
	fb, _ := tc.types.FnInfo(b)
	return !fa.IsMethod || tc.types.Equal(fa.Receiver, fb.Receiver)
}
