package token

// Kind represents the category of a source token.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident

	KwFn
	KwLet
	KwMut
	KwRef
	KwConst
	KwStruct
	KwEnum
	KwTrait
	KwImpl
	KwFor
	KwIf
	KwElse
	KwLoop
	KwWhile
	KwBreak
	KwContinue
	KwReturn
	KwAs
	KwSelfValue // self
	KwSelfType  // Self
	KwTrue
	KwFalse

	IntLit
	CharLit
	StringLit    // "..."
	RawStringLit // r"..." r#"..."#
	CStringLit   // c"..."

	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	AmpAssign     // &=
	PipeAssign    // |=
	CaretAssign   // ^=
	ShlAssign     // <<=
	ShrAssign     // >>=
	EqEq          // ==
	Bang          // !
	BangEq        // !=
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	Shl           // <<
	Shr           // >>
	Amp           // &
	Pipe          // |
	Caret         // ^
	AndAnd        // &&
	OrOr          // ||
	Colon         // :
	ColonColon    // ::
	Semicolon     // ;
	Comma         // ,
	Dot           // .
	Arrow         // ->
	FatArrow      // =>
	Hash          // #
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
	LBracket      // [
	RBracket      // ]
	Underscore    // _
)

var kindNames = [...]string{
	Invalid: "Invalid", EOF: "EOF", Ident: "Ident",
	KwFn: "fn", KwLet: "let", KwMut: "mut", KwRef: "ref", KwConst: "const",
	KwStruct: "struct", KwEnum: "enum", KwTrait: "trait", KwImpl: "impl",
	KwFor: "for", KwIf: "if", KwElse: "else", KwLoop: "loop", KwWhile: "while",
	KwBreak: "break", KwContinue: "continue", KwReturn: "return", KwAs: "as",
	KwSelfValue: "self", KwSelfType: "Self", KwTrue: "true", KwFalse: "false",
	IntLit: "IntLit", CharLit: "CharLit", StringLit: "StringLit",
	RawStringLit: "RawStringLit", CStringLit: "CStringLit",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Assign: "=",
	PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=", SlashAssign: "/=",
	PercentAssign: "%=", AmpAssign: "&=", PipeAssign: "|=", CaretAssign: "^=",
	ShlAssign: "<<=", ShrAssign: ">>=", EqEq: "==", Bang: "!", BangEq: "!=",
	Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=", Shl: "<<", Shr: ">>", Amp: "&",
	Pipe: "|", Caret: "^", AndAnd: "&&", OrOr: "||", Colon: ":", ColonColon: "::",
	Semicolon: ";", Comma: ",", Dot: ".", Arrow: "->", FatArrow: "=>", Hash: "#",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Underscore: "_",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsAssignOp reports whether k is '=' or a compound assignment operator.
func (k Kind) IsAssignOp() bool {
	switch k {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign, PercentAssign,
		AmpAssign, PipeAssign, CaretAssign, ShlAssign, ShrAssign:
		return true
	}
	return false
}
