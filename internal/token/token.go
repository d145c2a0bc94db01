package token

import "rxc/internal/source"

// Token is one significant lexeme with the trivia that preceded it.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a literal or a boolean keyword.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, CharLit, StringLit, RawStringLit, CStringLit, KwTrue, KwFalse:
		return true
	}
	return false
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwFn && t.Kind <= KwFalse
}

// IntSuffixes lists the accepted integer literal suffixes.
var IntSuffixes = []string{"i32", "u32", "usize", "isize"}

// SplitIntSuffix separates digits from a trailing type suffix.
func SplitIntSuffix(text string) (digits, suffix string) {
	for _, s := range IntSuffixes {
		if len(text) > len(s) && text[len(text)-len(s):] == s {
			return text[:len(text)-len(s)], s
		}
	}
	return text, ""
}
