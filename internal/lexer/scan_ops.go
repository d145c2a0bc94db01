package lexer

import (
	"rxc/internal/diag"
	"rxc/internal/token"
)

// longest first
var operators = []struct {
	text string
	kind token.Kind
}{
	{"<<=", token.ShlAssign},
	{">>=", token.ShrAssign},
	{"::", token.ColonColon},
	{"->", token.Arrow},
	{"=>", token.FatArrow},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"<<", token.Shl},
	{">>", token.Shr},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PercentAssign},
	{"&=", token.AmpAssign},
	{"|=", token.PipeAssign},
	{"^=", token.CaretAssign},
}

var singles = map[byte]token.Kind{
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash,
	'%': token.Percent, '=': token.Assign, '!': token.Bang, '<': token.Lt,
	'>': token.Gt, '&': token.Amp, '|': token.Pipe, '^': token.Caret,
	':': token.Colon, ';': token.Semicolon, ',': token.Comma, '.': token.Dot,
	'#': token.Hash, '(': token.LParen, ')': token.RParen, '{': token.LBrace,
	'}': token.RBrace, '[': token.LBracket, ']': token.RBracket, '_': token.Underscore,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	for _, op := range operators {
		if lx.tryOp(op.text) {
			return lx.emit(op.kind, start)
		}
	}
	if k, ok := singles[lx.cursor.Peek()]; ok {
		lx.cursor.Bump()
		return lx.emit(k, start)
	}
	lx.bumpRune()
	if lx.cursor.Off == uint32(start) {
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character "+tok.Text)
	return tok
}
