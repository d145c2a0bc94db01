package ast

import "rxc/internal/source"

type PatternKind uint8

const (
	PatIdent PatternKind = iota // x, mut x, ref x, ref mut x
	PatWild                     // _
	PatRef                      // &p, &mut p
)

type Pattern struct {
	Kind   PatternKind
	Span   source.Span
	Name   source.StringID
	Mut    bool // `mut x`, or `&mut p` for PatRef
	ByRef  bool // `ref x`
	RefMut bool // `ref mut x`
	Inner  PatternID
}

type Patterns struct {
	Arena *Arena[Pattern]
}

func NewPatterns(capHint uint) *Patterns {
	return &Patterns{Arena: NewArena[Pattern](capHint)}
}

func (p *Patterns) Get(id PatternID) *Pattern {
	return p.Arena.Get(uint32(id))
}

func (p *Patterns) NewIdent(span source.Span, name source.StringID, mut, byRef, refMut bool) PatternID {
	return PatternID(p.Arena.Allocate(Pattern{Kind: PatIdent, Span: span, Name: name, Mut: mut, ByRef: byRef, RefMut: refMut}))
}

func (p *Patterns) NewWild(span source.Span) PatternID {
	return PatternID(p.Arena.Allocate(Pattern{Kind: PatWild, Span: span}))
}

func (p *Patterns) NewRef(span source.Span, mut bool, inner PatternID) PatternID {
	return PatternID(p.Arena.Allocate(Pattern{Kind: PatRef, Span: span, Mut: mut, Inner: inner}))
}
