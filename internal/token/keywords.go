package token

var keywords = map[string]Kind{
	"fn":       KwFn,
	"let":      KwLet,
	"mut":      KwMut,
	"ref":      KwRef,
	"const":    KwConst,
	"struct":   KwStruct,
	"enum":     KwEnum,
	"trait":    KwTrait,
	"impl":     KwImpl,
	"for":      KwFor,
	"if":       KwIf,
	"else":     KwElse,
	"loop":     KwLoop,
	"while":    KwWhile,
	"break":    KwBreak,
	"continue": KwContinue,
	"return":   KwReturn,
	"as":       KwAs,
	"self":     KwSelfValue,
	"Self":     KwSelfType,
	"true":     KwTrue,
	"false":    KwFalse,
}

// LookupKeyword reports the keyword kind for ident. Keywords are case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
