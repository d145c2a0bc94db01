package ast

import "rxc/internal/source"

type StmtKind uint8

const (
	StmtLet StmtKind = iota
	StmtExpr
	StmtItem
	StmtEmpty
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type LetStmt struct {
	Pattern PatternID
	Type    TypeID // optional
	Value   ExprID // optional
}

type ExprStmt struct {
	Expr      ExprID
	Semicolon bool
}

type ItemStmt struct {
	Item ItemID
}

type Stmts struct {
	Arena *Arena[Stmt]
	Lets  *Arena[LetStmt]
	Exprs *Arena[ExprStmt]
	Items *Arena[ItemStmt]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{
		Arena: NewArena[Stmt](capHint),
		Lets:  NewArena[LetStmt](capHint),
		Exprs: NewArena[ExprStmt](capHint),
		Items: NewArena[ItemStmt](capHint / 4),
	}
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewLet(span source.Span, pat PatternID, typ TypeID, value ExprID) StmtID {
	p := s.Lets.Allocate(LetStmt{Pattern: pat, Type: typ, Value: value})
	return StmtID(s.Arena.Allocate(Stmt{Kind: StmtLet, Span: span, Payload: PayloadID(p)}))
}

func (s *Stmts) Let(id StmtID) (*LetStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtLet {
		return nil, false
	}
	return s.Lets.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID, semicolon bool) StmtID {
	p := s.Exprs.Allocate(ExprStmt{Expr: expr, Semicolon: semicolon})
	return StmtID(s.Arena.Allocate(Stmt{Kind: StmtExpr, Span: span, Payload: PayloadID(p)}))
}

func (s *Stmts) Expr(id StmtID) (*ExprStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtExpr {
		return nil, false
	}
	return s.Exprs.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewItem(span source.Span, item ItemID) StmtID {
	p := s.Items.Allocate(ItemStmt{Item: item})
	return StmtID(s.Arena.Allocate(Stmt{Kind: StmtItem, Span: span, Payload: PayloadID(p)}))
}

func (s *Stmts) Item(id StmtID) (*ItemStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtItem {
		return nil, false
	}
	return s.Items.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewEmpty(span source.Span) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: StmtEmpty, Span: span}))
}
