package parser

import (
	"rxc/internal/ast"
	"rxc/internal/token"
)

// Binding strength, weakest first. Assignment is handled separately and is
// right-associative.
const (
	precNone = iota
	precLogicalOr
	precLogicalAnd
	precComparison
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdditive
	precMultiplicative
	precCast
)

type binaryInfo struct {
	prec int
	op   ast.BinaryOp
}

var binaryOps = map[token.Kind]binaryInfo{
	token.OrOr:    {precLogicalOr, ast.BinLogicalOr},
	token.AndAnd:  {precLogicalAnd, ast.BinLogicalAnd},
	token.EqEq:    {precComparison, ast.BinEq},
	token.BangEq:  {precComparison, ast.BinNotEq},
	token.Lt:      {precComparison, ast.BinLess},
	token.LtEq:    {precComparison, ast.BinLessEq},
	token.Gt:      {precComparison, ast.BinGreater},
	token.GtEq:    {precComparison, ast.BinGreaterEq},
	token.Pipe:    {precBitOr, ast.BinBitOr},
	token.Caret:   {precBitXor, ast.BinBitXor},
	token.Amp:     {precBitAnd, ast.BinBitAnd},
	token.Shl:     {precShift, ast.BinShl},
	token.Shr:     {precShift, ast.BinShr},
	token.Plus:    {precAdditive, ast.BinAdd},
	token.Minus:   {precAdditive, ast.BinSub},
	token.Star:    {precMultiplicative, ast.BinMul},
	token.Slash:   {precMultiplicative, ast.BinDiv},
	token.Percent: {precMultiplicative, ast.BinRem},
}

// compoundOps maps `op=` tokens to the underlying binary operator.
var compoundOps = map[token.Kind]ast.BinaryOp{
	token.PlusAssign:    ast.BinAdd,
	token.MinusAssign:   ast.BinSub,
	token.StarAssign:    ast.BinMul,
	token.SlashAssign:   ast.BinDiv,
	token.PercentAssign: ast.BinRem,
	token.AmpAssign:     ast.BinBitAnd,
	token.PipeAssign:    ast.BinBitOr,
	token.CaretAssign:   ast.BinBitXor,
	token.ShlAssign:     ast.BinShl,
	token.ShrAssign:     ast.BinShr,
}
