package ast

import "rxc/internal/source"

// Exprs stores expression headers and one payload arena per kind.
type Exprs struct {
	Arena        *Arena[Expr]
	Literals     *Arena[ExprLiteralData]
	Paths        *Arena[ExprPathData]
	Groups       *Arena[ExprGroupData]
	Unaries      *Arena[ExprUnaryData]
	Binaries     *Arena[ExprBinaryData]
	Casts        *Arena[ExprCastData]
	Assigns      *Arena[ExprAssignData]
	Borrows      *Arena[ExprBorrowData]
	Derefs       *Arena[ExprDerefData]
	Calls        *Arena[ExprCallData]
	MethodCalls  *Arena[ExprMethodCallData]
	Fields       *Arena[ExprFieldData]
	Indices      *Arena[ExprIndexData]
	Arrays       *Arena[ExprArrayData]
	ArrayRepeats *Arena[ExprArrayRepeatData]
	Structs      *Arena[ExprStructData]
	Blocks       *Arena[ExprBlockData]
	Ifs          *Arena[ExprIfData]
	Loops        *Arena[ExprLoopData]
	Whiles       *Arena[ExprWhileData]
	Breaks       *Arena[ExprBreakData]
	Returns      *Arena[ExprReturnData]
}

func NewExprs(capHint uint) *Exprs {
	small := capHint / 8
	return &Exprs{
		Arena:        NewArena[Expr](capHint),
		Literals:     NewArena[ExprLiteralData](capHint / 2),
		Paths:        NewArena[ExprPathData](capHint / 2),
		Groups:       NewArena[ExprGroupData](small),
		Unaries:      NewArena[ExprUnaryData](small),
		Binaries:     NewArena[ExprBinaryData](capHint / 4),
		Casts:        NewArena[ExprCastData](small),
		Assigns:      NewArena[ExprAssignData](small),
		Borrows:      NewArena[ExprBorrowData](small),
		Derefs:       NewArena[ExprDerefData](small),
		Calls:        NewArena[ExprCallData](small),
		MethodCalls:  NewArena[ExprMethodCallData](small),
		Fields:       NewArena[ExprFieldData](small),
		Indices:      NewArena[ExprIndexData](small),
		Arrays:       NewArena[ExprArrayData](small),
		ArrayRepeats: NewArena[ExprArrayRepeatData](small),
		Structs:      NewArena[ExprStructData](small),
		Blocks:       NewArena[ExprBlockData](small),
		Ifs:          NewArena[ExprIfData](small),
		Loops:        NewArena[ExprLoopData](small),
		Whiles:       NewArena[ExprWhileData](small),
		Breaks:       NewArena[ExprBreakData](small),
		Returns:      NewArena[ExprReturnData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// Len is the number of allocated expressions; valid IDs are 1..Len.
func (e *Exprs) Len() uint32 { return e.Arena.Len() }

func payloadOf[T any](e *Exprs, id ExprID, kind ExprKind, arena *Arena[T]) (*T, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return nil, false
	}
	return arena.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewLiteral(span source.Span, lit ExprLiteralData) ExprID {
	return e.new(ExprLiteral, span, e.Literals.Allocate(lit))
}

func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	return payloadOf(e, id, ExprLiteral, e.Literals)
}

func (e *Exprs) NewPath(span source.Span, p Path) ExprID {
	return e.new(ExprPath, span, e.Paths.Allocate(ExprPathData{Path: p}))
}

func (e *Exprs) Path(id ExprID) (*ExprPathData, bool) {
	return payloadOf(e, id, ExprPath, e.Paths)
}

func (e *Exprs) NewGroup(span source.Span, inner ExprID) ExprID {
	return e.new(ExprGroup, span, e.Groups.Allocate(ExprGroupData{Inner: inner}))
}

func (e *Exprs) Group(id ExprID) (*ExprGroupData, bool) {
	return payloadOf(e, id, ExprGroup, e.Groups)
}

func (e *Exprs) NewUnderscore(span source.Span) ExprID {
	return e.new(ExprUnderscore, span, 0)
}

func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	return payloadOf(e, id, ExprUnary, e.Unaries)
}

func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	return payloadOf(e, id, ExprBinary, e.Binaries)
}

func (e *Exprs) NewCast(span source.Span, value ExprID, typ TypeID) ExprID {
	return e.new(ExprCast, span, e.Casts.Allocate(ExprCastData{Value: value, Type: typ}))
}

func (e *Exprs) Cast(id ExprID) (*ExprCastData, bool) {
	return payloadOf(e, id, ExprCast, e.Casts)
}

func (e *Exprs) NewAssign(span source.Span, data ExprAssignData) ExprID {
	return e.new(ExprAssign, span, e.Assigns.Allocate(data))
}

func (e *Exprs) Assign(id ExprID) (*ExprAssignData, bool) {
	return payloadOf(e, id, ExprAssign, e.Assigns)
}

func (e *Exprs) NewBorrow(span source.Span, mut bool, value ExprID) ExprID {
	return e.new(ExprBorrow, span, e.Borrows.Allocate(ExprBorrowData{Mut: mut, Value: value}))
}

func (e *Exprs) Borrow(id ExprID) (*ExprBorrowData, bool) {
	return payloadOf(e, id, ExprBorrow, e.Borrows)
}

func (e *Exprs) NewDeref(span source.Span, value ExprID) ExprID {
	return e.new(ExprDeref, span, e.Derefs.Allocate(ExprDerefData{Value: value}))
}

func (e *Exprs) Deref(id ExprID) (*ExprDerefData, bool) {
	return payloadOf(e, id, ExprDeref, e.Derefs)
}

func (e *Exprs) NewCall(span source.Span, callee ExprID, args []ExprID) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(ExprCallData{Callee: callee, Args: args}))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	return payloadOf(e, id, ExprCall, e.Calls)
}

func (e *Exprs) NewMethodCall(span source.Span, data ExprMethodCallData) ExprID {
	return e.new(ExprMethodCall, span, e.MethodCalls.Allocate(data))
}

func (e *Exprs) MethodCall(id ExprID) (*ExprMethodCallData, bool) {
	return payloadOf(e, id, ExprMethodCall, e.MethodCalls)
}

func (e *Exprs) NewField(span source.Span, target ExprID, name source.StringID, nameSpan source.Span) ExprID {
	return e.new(ExprField, span, e.Fields.Allocate(ExprFieldData{Target: target, Name: name, NameSpan: nameSpan}))
}

func (e *Exprs) Field(id ExprID) (*ExprFieldData, bool) {
	return payloadOf(e, id, ExprField, e.Fields)
}

func (e *Exprs) NewIndex(span source.Span, target, index ExprID) ExprID {
	return e.new(ExprIndex, span, e.Indices.Allocate(ExprIndexData{Target: target, Index: index}))
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	return payloadOf(e, id, ExprIndex, e.Indices)
}

func (e *Exprs) NewArray(span source.Span, elems []ExprID) ExprID {
	return e.new(ExprArray, span, e.Arrays.Allocate(ExprArrayData{Elems: elems}))
}

func (e *Exprs) Array(id ExprID) (*ExprArrayData, bool) {
	return payloadOf(e, id, ExprArray, e.Arrays)
}

func (e *Exprs) NewArrayRepeat(span source.Span, value, count ExprID) ExprID {
	return e.new(ExprArrayRepeat, span, e.ArrayRepeats.Allocate(ExprArrayRepeatData{Value: value, Count: count}))
}

func (e *Exprs) ArrayRepeat(id ExprID) (*ExprArrayRepeatData, bool) {
	return payloadOf(e, id, ExprArrayRepeat, e.ArrayRepeats)
}

func (e *Exprs) NewStruct(span source.Span, p Path, fields []StructLitField) ExprID {
	return e.new(ExprStruct, span, e.Structs.Allocate(ExprStructData{Path: p, Fields: fields}))
}

func (e *Exprs) Struct(id ExprID) (*ExprStructData, bool) {
	return payloadOf(e, id, ExprStruct, e.Structs)
}

func (e *Exprs) NewBlock(span source.Span, stmts []StmtID, tail ExprID) ExprID {
	return e.new(ExprBlock, span, e.Blocks.Allocate(ExprBlockData{Stmts: stmts, Tail: tail}))
}

func (e *Exprs) Block(id ExprID) (*ExprBlockData, bool) {
	return payloadOf(e, id, ExprBlock, e.Blocks)
}

func (e *Exprs) NewIf(span source.Span, cond, then, els ExprID) ExprID {
	return e.new(ExprIf, span, e.Ifs.Allocate(ExprIfData{Cond: cond, Then: then, Else: els}))
}

func (e *Exprs) If(id ExprID) (*ExprIfData, bool) {
	return payloadOf(e, id, ExprIf, e.Ifs)
}

func (e *Exprs) NewLoop(span source.Span, body ExprID) ExprID {
	return e.new(ExprLoop, span, e.Loops.Allocate(ExprLoopData{Body: body}))
}

func (e *Exprs) Loop(id ExprID) (*ExprLoopData, bool) {
	return payloadOf(e, id, ExprLoop, e.Loops)
}

func (e *Exprs) NewWhile(span source.Span, cond, body ExprID) ExprID {
	return e.new(ExprWhile, span, e.Whiles.Allocate(ExprWhileData{Cond: cond, Body: body}))
}

func (e *Exprs) While(id ExprID) (*ExprWhileData, bool) {
	return payloadOf(e, id, ExprWhile, e.Whiles)
}

func (e *Exprs) NewBreak(span source.Span, value ExprID) ExprID {
	return e.new(ExprBreak, span, e.Breaks.Allocate(ExprBreakData{Value: value}))
}

func (e *Exprs) Break(id ExprID) (*ExprBreakData, bool) {
	return payloadOf(e, id, ExprBreak, e.Breaks)
}

func (e *Exprs) NewContinue(span source.Span) ExprID {
	return e.new(ExprContinue, span, 0)
}

func (e *Exprs) NewReturn(span source.Span, value ExprID) ExprID {
	return e.new(ExprReturn, span, e.Returns.Allocate(ExprReturnData{Value: value}))
}

func (e *Exprs) Return(id ExprID) (*ExprReturnData, bool) {
	return payloadOf(e, id, ExprReturn, e.Returns)
}

// IsBlockLike reports expressions that may stand as statements without ';'.
func (e *Exprs) IsBlockLike(id ExprID) bool {
	expr := e.Get(id)
	if expr == nil {
		return false
	}
	switch expr.Kind {
	case ExprBlock, ExprIf, ExprLoop, ExprWhile:
		return true
	}
	return false
}
