package symbols

import (
	"context"

	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/source"
	"rxc/internal/trace"
	"rxc/internal/types"
)

// PreludeEntry is a builtin name installed into the prelude scope.
type PreludeEntry struct {
	Name      string
	Namespace Namespace
	Kind      SymbolKind
	Type      types.TypeID
}

// Options configures ResolveFile.
type Options struct {
	Reporter diag.Reporter
	// ThrowOnError aborts on the first error and returns it.
	ThrowOnError bool
	Prelude      []PreludeEntry
}

// Result carries the symbol table and the side tables binding AST nodes to
// symbols and scopes.
type Result struct {
	Table     *Table
	File      ast.FileID
	Prelude   ScopeID
	FileScope ScopeID

	ItemSymbols    map[ast.ItemID]SymbolID
	ItemScopes     map[ast.ItemID]ScopeID // function parameter scopes
	ExprSymbols    map[ast.ExprID]SymbolID
	TypeSymbols    map[ast.TypeID]SymbolID
	PatternSymbols map[ast.PatternID]SymbolID
	BlockScopes    map[ast.ExprID]ScopeID
	SelfParams     map[ast.ItemID]SymbolID

	// ImplTargets maps an impl or trait item to the type symbol `Self` denotes.
	ImplTargets map[ast.ItemID]SymbolID
	ImplTraits  map[ast.ItemID]SymbolID
	// TraitImpls lists the traits implemented by a type symbol.
	TraitImpls map[SymbolID][]SymbolID
	// StructFields binds struct literal fields by position; NoSymbolID when unknown.
	StructFields map[ast.ExprID][]SymbolID
	// Owners maps associated items to the type or trait symbol they belong to.
	Owners map[ast.ItemID]SymbolID
}

// ExprSymbol returns the symbol a path or struct literal expression binds.
func (r *Result) ExprSymbol(id ast.ExprID) (SymbolID, bool) {
	sym, ok := r.ExprSymbols[id]
	return sym, ok
}

// TypeSymbol returns the symbol named by a path type expression.
func (r *Result) TypeSymbol(id ast.TypeID) (SymbolID, bool) {
	sym, ok := r.TypeSymbols[id]
	return sym, ok
}

// Lookup resolves name from scope outwards.
func (r *Result) Lookup(scope ScopeID, ns Namespace, name source.StringID) (SymbolID, bool) {
	return r.Table.Lookup(scope, ns, name)
}

// MethodLookup finds an associated function of typeSym, falling back to
// the default methods of implemented traits.
func (r *Result) MethodLookup(typeSym SymbolID, name source.StringID) (SymbolID, bool) {
	if id, ok := r.Table.Member(typeSym, NSValue, name); ok {
		return id, true
	}
	for _, tr := range r.TraitImpls[typeSym] {
		if id, ok := r.Table.Member(tr, NSValue, name); ok {
			return id, true
		}
	}
	return NoSymbolID, false
}

// ResolveFile runs both resolution passes over file: declaring every item
// of every scope, then binding every reference.
func ResolveFile(ctx context.Context, b *ast.Builder, file ast.FileID, opts Options) (res Result, err error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "resolve", 0)
	defer span.End("")

	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	if opts.ThrowOnError {
		reporter = diag.FailFast{Next: reporter}
	}

	table := NewTable(b.Strings)
	res = Result{
		Table:          table,
		File:           file,
		ItemSymbols:    make(map[ast.ItemID]SymbolID),
		ItemScopes:     make(map[ast.ItemID]ScopeID),
		ExprSymbols:    make(map[ast.ExprID]SymbolID),
		TypeSymbols:    make(map[ast.TypeID]SymbolID),
		PatternSymbols: make(map[ast.PatternID]SymbolID),
		BlockScopes:    make(map[ast.ExprID]ScopeID),
		SelfParams:     make(map[ast.ItemID]SymbolID),
		ImplTargets:    make(map[ast.ItemID]SymbolID),
		ImplTraits:     make(map[ast.ItemID]SymbolID),
		TraitImpls:     make(map[SymbolID][]SymbolID),
		StructFields:   make(map[ast.ExprID][]SymbolID),
		Owners:         make(map[ast.ItemID]SymbolID),
	}
	r := &resolver{b: b, table: table, reporter: reporter, res: &res}

	f := b.Files.Get(file)
	if f == nil {
		return res, nil
	}
	res.Prelude = r.installPrelude(opts.Prelude)
	res.FileScope = table.NewScope(ScopeFile, res.Prelude, ScopeOwner{}, f.Span)

	defer diag.Catch(&err)
	r.declareItems(res.FileScope, f.Items)
	for _, it := range f.Items {
		r.linkItem(res.FileScope, it)
	}
	return res, nil
}

// resolver holds the walk state shared by both passes.
type resolver struct {
	b        *ast.Builder
	table    *Table
	reporter diag.Reporter
	res      *Result
	// selfTypes is the `Self` binding stack; NoSymbolID marks a nested fn.
	selfTypes []SymbolID
	// selfValues is the `self` binding stack, one entry per function.
	selfValues []SymbolID
}

func (r *resolver) installPrelude(entries []PreludeEntry) ScopeID {
	scope := r.table.NewScope(ScopePrelude, NoScopeID, ScopeOwner{}, source.Span{})
	for _, e := range entries {
		sym := Symbol{
			Name:      r.table.Strings.Intern(e.Name),
			Namespace: e.Namespace,
			Kind:      e.Kind,
			Scope:     scope,
			Flags:     SymbolFlagBuiltin,
			Type:      e.Type,
		}
		id := r.table.NewSymbol(sym)
		if e.Kind.IsType() {
			r.table.Symbol(id).Members = r.table.NewScope(ScopeMembers, NoScopeID, ScopeOwner{}, source.Span{})
		}
		r.table.bind(id)
	}
	return scope
}

func (r *resolver) name(id source.StringID) string {
	return r.b.Strings.MustLookup(id)
}

func (r *resolver) errorf(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	return diag.ReportError(r.reporter, code, sp, msg)
}

// declare binds sym in its scope. Items, fields, variants and parameters
// must be unique per scope and namespace; let bindings shadow.
func (r *resolver) declare(sym Symbol) SymbolID {
	return r.bindSymbol(sym, sym.Kind != SymbolVariable)
}

func (r *resolver) bindSymbol(sym Symbol, unique bool) SymbolID {
	if unique {
		if prev, ok := r.table.Scope(sym.Scope).Lookup(sym.Namespace, sym.Name); ok {
			r.errorf(diag.SemaDuplicateSymbol, sym.Span,
				"the name `"+r.name(sym.Name)+"` is defined multiple times").
				WithNote(r.table.Symbol(prev).Span, "previous definition here").
				Emit()
			return r.table.NewSymbol(sym)
		}
	}
	id := r.table.NewSymbol(sym)
	r.table.bind(id)
	return id
}

func (r *resolver) currentSelfType() SymbolID {
	if n := len(r.selfTypes); n > 0 {
		return r.selfTypes[n-1]
	}
	return NoSymbolID
}

func (r *resolver) currentSelfValue() SymbolID {
	if n := len(r.selfValues); n > 0 {
		return r.selfValues[n-1]
	}
	return NoSymbolID
}
