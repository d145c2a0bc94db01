package ast

import "rxc/internal/source"

type Hints struct{ Files, Items, Stmts, Exprs uint }

// Builder owns every arena of one compilation unit.
type Builder struct {
	Files    *Files
	Items    *Items
	Stmts    *Stmts
	Exprs    *Exprs
	Types    *TypeExprs
	Patterns *Patterns
	Strings  *source.Interner
}

func NewBuilder(hints Hints) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 4
	}
	if hints.Items == 0 {
		hints.Items = 1 << 6
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 9
	}
	return &Builder{
		Files:    NewFiles(hints.Files),
		Items:    NewItems(hints.Items),
		Stmts:    NewStmts(hints.Stmts),
		Exprs:    NewExprs(hints.Exprs),
		Types:    NewTypeExprs(hints.Exprs / 2),
		Patterns: NewPatterns(hints.Stmts),
		Strings:  source.NewInterner(),
	}
}

// PushItem appends a top-level item to file.
func (b *Builder) PushItem(file FileID, item ItemID) {
	f := b.Files.Get(file)
	f.Items = append(f.Items, item)
}

// Name returns the interned text of id.
func (b *Builder) Name(id source.StringID) string {
	return b.Strings.MustLookup(id)
}
