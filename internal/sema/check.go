package sema

import (
	"context"
	"fmt"

	"rxc/internal/ast"
	"rxc/internal/consteval"
	"rxc/internal/diag"
	"rxc/internal/mutability"
	"rxc/internal/source"
	"rxc/internal/symbols"
	"rxc/internal/trace"
	"rxc/internal/types"
)

// Options configure a semantic pass over a file.
type Options struct {
	Reporter diag.Reporter
	// ThrowOnError aborts on the first error and returns it from Check.
	ThrowOnError bool
}

// Result stores the annotations produced by the checker. Every expression
// of a checked file is stamped exactly once.
type Result struct {
	TypeInterner *types.Interner
	exprTypes    map[ast.ExprID]types.TypeID

	// ItemTypes holds the type of fn, struct, enum, trait, const and impl
	// items; an impl maps to its target type.
	ItemTypes map[ast.ItemID]types.TypeID
	// ConstValues holds the folded value of every const that evaluated.
	ConstValues map[ast.ItemID]consteval.Value
	// BindingTypes holds the type of every identifier pattern.
	BindingTypes map[ast.PatternID]types.TypeID
	// MethodTargets binds method calls to user methods. Builtin methods
	// are recorded in BuiltinMethods instead.
	MethodTargets  map[ast.ExprID]symbols.SymbolID
	BuiltinMethods map[ast.ExprID]string
}

// ExprType returns the stamped type of expr. Reading an expression the
// checker never reached is a bug in the caller and panics.
func (r *Result) ExprType(expr ast.ExprID) types.TypeID {
	t, ok := r.exprTypes[expr]
	if !ok {
		panic(fmt.Sprintf("sema: expression %d has no type", expr))
	}
	return t
}

// HasExprType reports whether expr was stamped.
func (r *Result) HasExprType(expr ast.ExprID) bool {
	_, ok := r.exprTypes[expr]
	return ok
}

// ExprCount is the number of stamped expressions.
func (r *Result) ExprCount() int { return len(r.exprTypes) }

func (r *Result) stamp(expr ast.ExprID, t types.TypeID) {
	if _, ok := r.exprTypes[expr]; ok {
		panic(fmt.Sprintf("sema: expression %d stamped twice", expr))
	}
	r.exprTypes[expr] = t
}

// Check type-checks file against the bindings in syms. In collect mode all
// diagnostics go to the reporter and the error is nil; with ThrowOnError
// the first error aborts the pass and is returned.
func Check(ctx context.Context, builder *ast.Builder, file ast.FileID, syms *symbols.Result, in *types.Interner, opts Options) (res Result, err error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "sema", 0)
	defer span.End("")

	res = Result{
		TypeInterner:   in,
		exprTypes:      make(map[ast.ExprID]types.TypeID),
		ItemTypes:      make(map[ast.ItemID]types.TypeID),
		ConstValues:    make(map[ast.ItemID]consteval.Value),
		BindingTypes:   make(map[ast.PatternID]types.TypeID),
		MethodTargets:  make(map[ast.ExprID]symbols.SymbolID),
		BuiltinMethods: make(map[ast.ExprID]string),
	}
	f := builder.Files.Get(file)
	if f == nil || syms == nil {
		return res, nil
	}

	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	if opts.ThrowOnError {
		reporter = diag.FailFast{Next: reporter}
	}

	tc := &typeChecker{
		builder:    builder,
		reporter:   reporter,
		symbols:    syms,
		table:      syms.Table,
		result:     &res,
		types:      in,
		builtins:   in.Builtins(),
		constState: make(map[symbols.SymbolID]constEvalState),
		typeCache:  make(map[ast.TypeID]types.TypeID),
		fnTypes:    make(map[ast.ItemID]types.TypeID),
		exitFn:     builtinSymbol(syms, "exit"),
	}
	tc.consts = consteval.New(builder, in, constEnv{tc}, consteval.Options{Reporter: reporter})
	tc.borrows = mutability.New(reporter, syms.Table.Name)

	defer diag.Catch(&err)
	tc.collectSignatures()
	for _, it := range f.Items {
		tc.checkItem(it)
	}
	return res, nil
}

// typeChecker carries the walk state of one Check call.
type typeChecker struct {
	builder  *ast.Builder
	reporter diag.Reporter
	symbols  *symbols.Result
	table    *symbols.Table
	result   *Result
	types    *types.Interner
	builtins types.Builtins
	consts   *consteval.Evaluator
	borrows  *mutability.Checker

	constState map[symbols.SymbolID]constEvalState
	typeCache  map[ast.TypeID]types.TypeID
	fnTypes    map[ast.ItemID]types.TypeID
	exitFn     symbols.SymbolID

	returnStack []returnContext
	loopStack   []loopContext
	// discard marks the next block-like expression as sitting in statement
	// position, where its value may be dropped.
	discard bool
	// letBorrow is the borrow expression a let binding holds.
	letBorrow ast.ExprID
}

type returnContext struct {
	fn       ast.ItemID
	name     string
	expected types.TypeID
}

type loopContext struct {
	infinite bool
	// breakType is the type of the first break value; NoTypeID until a
	// break is seen.
	breakType types.TypeID
	breakSpan source.Span
}

func (tc *typeChecker) name(id source.StringID) string {
	return tc.builder.Strings.MustLookup(id)
}

func (tc *typeChecker) label(t types.TypeID) string {
	return types.Label(tc.types, t)
}

func (tc *typeChecker) exprSpan(expr ast.ExprID) source.Span {
	return tc.builder.Exprs.Get(expr).Span
}

func (tc *typeChecker) errorf(code diag.Code, sp source.Span, format string, args ...any) *diag.ReportBuilder {
	return diag.ReportError(tc.reporter, code, sp, fmt.Sprintf(format, args...))
}

func (tc *typeChecker) currentReturn() (*returnContext, bool) {
	if n := len(tc.returnStack); n > 0 {
		return &tc.returnStack[n-1], true
	}
	return nil, false
}

func (tc *typeChecker) currentLoop() (*loopContext, bool) {
	if n := len(tc.loopStack); n > 0 {
		return &tc.loopStack[n-1], true
	}
	return nil, false
}

// symbolOf returns the symbol a path or struct literal expression binds.
func (tc *typeChecker) symbolOf(expr ast.ExprID) (*symbols.Symbol, symbols.SymbolID) {
	id, ok := tc.symbols.ExprSymbol(expr)
	if !ok || !id.IsValid() {
		return nil, symbols.NoSymbolID
	}
	return tc.table.Symbol(id), id
}

// typeSymbol maps a nominal type back to its declaring symbol.
func (tc *typeChecker) typeSymbol(t types.TypeID) symbols.SymbolID {
	switch tc.types.Kind(t) {
	case types.KindStruct:
		info, _ := tc.types.StructInfo(t)
		return symbols.SymbolID(info.Symbol)
	case types.KindEnum:
		info, _ := tc.types.EnumInfo(t)
		return symbols.SymbolID(info.Symbol)
	case types.KindTrait:
		info, _ := tc.types.TraitInfo(t)
		return symbols.SymbolID(info.Symbol)
	}
	return symbols.NoSymbolID
}

// builtinSymbol finds a prelude value by name.
func builtinSymbol(syms *symbols.Result, name string) symbols.SymbolID {
	if syms == nil || syms.Table == nil || !syms.Prelude.IsValid() {
		return symbols.NoSymbolID
	}
	id, ok := syms.Table.Scope(syms.Prelude).Lookup(symbols.NSValue, syms.Table.Strings.Intern(name))
	if !ok {
		return symbols.NoSymbolID
	}
	return id
}
