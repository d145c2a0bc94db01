package parser

import (
	"errors"
	"strconv"
	"strings"

	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/lexer"
	"rxc/internal/token"
)

var suffixKinds = map[string]ast.IntSuffix{
	"":      ast.SuffixNone,
	"i32":   ast.SuffixI32,
	"u32":   ast.SuffixU32,
	"usize": ast.SuffixUsize,
	"isize": ast.SuffixIsize,
}

func (p *Parser) parseLiteral() ast.ExprID {
	tok := p.advance()
	lit := ast.ExprLiteralData{Raw: p.arenas.Strings.Intern(tok.Text)}
	switch tok.Kind {
	case token.KwTrue, token.KwFalse:
		lit.Kind = ast.LitBool
		lit.Bool = tok.Kind == token.KwTrue
	case token.IntLit:
		lit.Kind = ast.LitInt
		digits, suffix := token.SplitIntSuffix(tok.Text)
		lit.Suffix = suffixKinds[suffix]
		v, err := parseIntDigits(digits)
		switch {
		case errors.Is(err, strconv.ErrRange):
			lit.Overflow = true
		case err != nil:
			p.report(diag.SynUnexpectedToken, tok.Span, "malformed integer literal `"+tok.Text+"`")
			return ast.NoExprID
		}
		lit.Int = v
	case token.CharLit:
		lit.Kind = ast.LitChar
		r, err := lexer.UnquoteChar(tok.Text)
		if err != nil {
			// the lexer already reported it
			r = 0xFFFD
		}
		lit.Char = r
	case token.StringLit, token.RawStringLit, token.CStringLit:
		lit.Kind = ast.LitString
		if tok.Kind == token.CStringLit {
			lit.Kind = ast.LitCString
		}
		s, err := lexer.Unquote(tok)
		if err != nil {
			s = ""
		}
		lit.Str = p.arenas.Strings.Intern(s)
	}
	return p.arenas.Exprs.NewLiteral(tok.Span, lit)
}

// parseIntDigits reads decimal or 0x/0o/0b digits with '_' separators.
// A leading zero does not switch to octal.
func parseIntDigits(digits string) (uint64, error) {
	clean := strings.ReplaceAll(digits, "_", "")
	base := 10
	if len(clean) > 2 && clean[0] == '0' {
		switch clean[1] {
		case 'x', 'X':
			base, clean = 16, clean[2:]
		case 'o', 'O':
			base, clean = 8, clean[2:]
		case 'b', 'B':
			base, clean = 2, clean[2:]
		}
	}
	return strconv.ParseUint(clean, base, 64)
}
