package parser

import (
	"context"
	"slices"

	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/lexer"
	"rxc/internal/source"
	"rxc/internal/token"
	"rxc/internal/trace"
)

type Options struct {
	MaxErrors uint
	Reporter  diag.Reporter
}

type Result struct {
	File   ast.FileID
	Errors uint
}

// Parser holds the state for one file.
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     ast.FileID
	opts     Options
	errors   uint
	lastSpan source.Span
	// >0 while parsing an if/while condition, where `Name {` opens the body
	noStruct int
}

// ParseFile parses every top-level item of the lexer's file into arenas.
func ParseFile(ctx context.Context, lx *lexer.Lexer, arenas *ast.Builder, opts Options) Result {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
	defer span.End("")

	p := Parser{
		lx:       lx,
		arenas:   arenas,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}
	p.file = arenas.Files.New(lx.EmptySpan())
	p.parseItems()
	return Result{File: p.file, Errors: p.errors}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

func (p *Parser) parseItems() {
	start := p.lx.Peek().Span
	for !p.at(token.EOF) {
		if p.tooManyErrors() {
			return
		}
		itemID, ok := p.parseItem()
		if !ok {
			p.resyncTop()
			continue
		}
		p.arenas.PushItem(p.file, itemID)
	}
	f := p.arenas.Files.Get(p.file)
	f.Span = start.Cover(p.lastSpan)
}

func isItemStart(k token.Kind) bool {
	switch k {
	case token.KwFn, token.KwStruct, token.KwEnum, token.KwTrait, token.KwImpl, token.KwConst, token.Hash:
		return true
	}
	return false
}

// parseItem dispatches on the leading keyword.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	p.skipAttributes()
	switch p.lx.Peek().Kind {
	case token.KwFn:
		return p.parseFnItem()
	case token.KwStruct:
		return p.parseStructItem()
	case token.KwEnum:
		return p.parseEnumItem()
	case token.KwTrait:
		return p.parseTraitItem()
	case token.KwImpl:
		return p.parseImplItem()
	case token.KwConst:
		return p.parseConstItem()
	default:
		p.report(diag.SynUnexpectedTopLevel, p.lx.Peek().Span, "expected item, found `"+p.lx.Peek().Text+"`")
		return ast.NoItemID, false
	}
}

// skipAttributes drops `#[...]` attributes; they carry no meaning here.
func (p *Parser) skipAttributes() {
	for p.at(token.Hash) {
		p.advance()
		if _, ok := p.expect(token.LBracket, "expected `[` after `#`"); !ok {
			return
		}
		depth := 1
		for depth > 0 && !p.at(token.EOF) {
			switch p.advance().Kind {
			case token.LBracket:
				depth++
			case token.RBracket:
				depth--
			}
		}
	}
}

// resyncTop skips to the next item keyword or past a ';' or '}'.
func (p *Parser) resyncTop() {
	for !p.at(token.EOF) && !isItemStart(p.lx.Peek().Kind) {
		k := p.advance().Kind
		if k == token.Semicolon || k == token.RBrace {
			return
		}
	}
}

// parseIdent expects an identifier and interns it.
func (p *Parser) parseIdent() (source.StringID, source.Span, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return p.arenas.Strings.Intern(tok.Text), tok.Span, true
	}
	p.report(diag.SynExpectIdentifier, p.diagSpan(), "expected identifier, found `"+p.lx.Peek().Text+"`")
	return source.NoStringID, p.diagSpan(), false
}
