package ast

import "rxc/internal/source"

type TypeExprKind uint8

const (
	TypeExprPath TypeExprKind = iota // i32, Point, Self
	TypeExprRef                      // &T, &mut T
	TypeExprArray                    // [T; N]
	TypeExprUnit                     // ()
	TypeExprNever                    // !
	TypeExprInfer                    // _
)

type TypeExpr struct {
	Kind TypeExprKind
	Span source.Span
	Path Path   // TypeExprPath
	Mut  bool   // TypeExprRef
	Elem TypeID // TypeExprRef, TypeExprArray
	Len  ExprID // TypeExprArray
}

type TypeExprs struct {
	Arena *Arena[TypeExpr]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	return &TypeExprs{Arena: NewArena[TypeExpr](capHint)}
}

func (t *TypeExprs) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}

func (t *TypeExprs) NewPath(span source.Span, p Path) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{Kind: TypeExprPath, Span: span, Path: p}))
}

func (t *TypeExprs) NewRef(span source.Span, mut bool, elem TypeID) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{Kind: TypeExprRef, Span: span, Mut: mut, Elem: elem}))
}

func (t *TypeExprs) NewArray(span source.Span, elem TypeID, length ExprID) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{Kind: TypeExprArray, Span: span, Elem: elem, Len: length}))
}

func (t *TypeExprs) NewSimple(kind TypeExprKind, span source.Span) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{Kind: kind, Span: span}))
}
