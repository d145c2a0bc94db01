package ast

import "rxc/internal/source"

type ExprKind uint8

const (
	// simple
	ExprLiteral ExprKind = iota
	ExprPath
	ExprGroup
	ExprUnderscore
	// operators
	ExprUnary
	ExprBinary
	ExprCast
	ExprAssign
	// complex
	ExprBorrow
	ExprDeref
	ExprCall
	ExprMethodCall
	ExprField
	ExprIndex
	ExprArray
	ExprArrayRepeat
	ExprStruct
	// control flow
	ExprBlock
	ExprIf
	ExprLoop
	ExprWhile
	ExprBreak
	ExprContinue
	ExprReturn

	exprKindCount
)

var exprKindNames = [exprKindCount]string{
	"Literal", "Path", "Group", "Underscore",
	"Unary", "Binary", "Cast", "Assign",
	"Borrow", "Deref", "Call", "MethodCall", "Field", "Index", "Array", "ArrayRepeat", "Struct",
	"Block", "If", "Loop", "While", "Break", "Continue", "Return",
}

func (k ExprKind) String() string {
	if k < exprKindCount {
		return exprKindNames[k]
	}
	return "Expr?"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type LitKind uint8

const (
	LitInt LitKind = iota
	LitBool
	LitChar
	LitString
	LitCString
	LitUnit // ()
)

type IntSuffix uint8

const (
	SuffixNone IntSuffix = iota
	SuffixI32
	SuffixU32
	SuffixUsize
	SuffixIsize
)

type ExprLiteralData struct {
	Kind     LitKind
	Raw      source.StringID
	Int      uint64
	Overflow bool // digits exceed 64 bits
	Suffix   IntSuffix
	Bool     bool
	Char     rune
	Str      source.StringID // decoded value
}

type ExprPathData struct {
	Path Path
}

type ExprGroupData struct {
	Inner ExprID
}

type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota // -
	UnaryNot                // !
)

func (op UnaryOp) String() string {
	if op == UnaryNeg {
		return "-"
	}
	return "!"
}

type ExprUnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinBitAnd
	BinBitOr
	BinBitXor
	BinShl
	BinShr
	BinLogicalAnd
	BinLogicalOr
	BinEq
	BinNotEq
	BinLess
	BinLessEq
	BinGreater
	BinGreaterEq
)

var binaryOpText = [...]string{
	BinAdd: "+", BinSub: "-", BinMul: "*", BinDiv: "/", BinRem: "%",
	BinBitAnd: "&", BinBitOr: "|", BinBitXor: "^", BinShl: "<<", BinShr: ">>",
	BinLogicalAnd: "&&", BinLogicalOr: "||",
	BinEq: "==", BinNotEq: "!=", BinLess: "<", BinLessEq: "<=", BinGreater: ">", BinGreaterEq: ">=",
}

func (op BinaryOp) String() string { return binaryOpText[op] }

// IsComparison reports ==, !=, <, <=, >, >=.
func (op BinaryOp) IsComparison() bool { return op >= BinEq }

// IsLogical reports && and ||.
func (op BinaryOp) IsLogical() bool { return op == BinLogicalAnd || op == BinLogicalOr }

// IsShift reports << and >>.
func (op BinaryOp) IsShift() bool { return op == BinShl || op == BinShr }

type ExprBinaryData struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

type ExprCastData struct {
	Value ExprID
	Type  TypeID
}

// ExprAssignData covers `=` (Compound false) and `op=` (Compound true, Op set).
type ExprAssignData struct {
	Compound bool
	Op       BinaryOp
	Target   ExprID
	Value    ExprID
}

type ExprBorrowData struct {
	Mut   bool
	Value ExprID
}

type ExprDerefData struct {
	Value ExprID
}

type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
}

type ExprMethodCallData struct {
	Receiver ExprID
	Name     source.StringID
	NameSpan source.Span
	Args     []ExprID
}

type ExprFieldData struct {
	Target   ExprID
	Name     source.StringID
	NameSpan source.Span
}

type ExprIndexData struct {
	Target ExprID
	Index  ExprID
}

type ExprArrayData struct {
	Elems []ExprID
}

type ExprArrayRepeatData struct {
	Value ExprID
	Count ExprID
}

type StructLitField struct {
	Name     source.StringID
	NameSpan source.Span
	Value    ExprID
}

type ExprStructData struct {
	Path   Path
	Fields []StructLitField
}

type ExprBlockData struct {
	Stmts []StmtID
	Tail  ExprID // trailing expression without semicolon
}

type ExprIfData struct {
	Cond ExprID
	Then ExprID // block
	Else ExprID // block, if, or NoExprID
}

type ExprLoopData struct {
	Body ExprID
}

type ExprWhileData struct {
	Cond ExprID
	Body ExprID
}

type ExprBreakData struct {
	Value ExprID
}

type ExprReturnData struct {
	Value ExprID
}
