package parser

import (
	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/token"
)

// parsePath parses `[::] seg (:: seg)*` where a segment is an identifier,
// `self` or `Self`.
func (p *Parser) parsePath() (ast.Path, bool) {
	var path ast.Path
	start := p.lx.Peek().Span
	if p.eat(token.ColonColon) {
		path.Global = true
	}
	for {
		tok := p.lx.Peek()
		seg := ast.PathSegment{Span: tok.Span}
		switch tok.Kind {
		case token.Ident:
			seg.Kind = ast.SegIdent
			seg.Name = p.arenas.Strings.Intern(tok.Text)
		case token.KwSelfValue:
			seg.Kind = ast.SegSelfValue
		case token.KwSelfType:
			seg.Kind = ast.SegSelfType
		default:
			p.report(diag.SynExpectIdentifier, p.diagSpan(), "expected path segment, found `"+tok.Text+"`")
			return path, false
		}
		p.advance()
		path.Segments = append(path.Segments, seg)
		if !p.at(token.ColonColon) {
			break
		}
		p.advance()
	}
	path.Span = start.Cover(p.lastSpan)
	return path, true
}
