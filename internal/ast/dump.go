package ast

import (
	"fmt"
	"io"
	"strings"

	"rxc/internal/source"
)

// Dump writes an indented tree of file to w. It is used by `rxc parse`.
func Dump(w io.Writer, b *Builder, file FileID) error {
	d := dumper{b: b}
	f := b.Files.Get(file)
	if f == nil {
		return fmt.Errorf("ast: unknown file %d", file)
	}
	d.line(0, "File")
	for _, it := range f.Items {
		d.item(1, it)
	}
	_, err := io.WriteString(w, d.sb.String())
	return err
}

type dumper struct {
	b  *Builder
	sb strings.Builder
}

func (d *dumper) line(depth int, format string, args ...any) {
	d.sb.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&d.sb, format, args...)
	d.sb.WriteByte('\n')
}

func (d *dumper) name(id source.StringID) string {
	return d.b.Strings.MustLookup(id)
}

func (d *dumper) item(depth int, id ItemID) {
	it := d.b.Items.Get(id)
	switch it.Kind {
	case ItemFn:
		fn, _ := d.b.Items.Fn(id)
		d.line(depth, "Fn %s self=%d params=%d", d.name(fn.Name), fn.Self, len(fn.Params))
		for _, p := range fn.Params {
			d.pattern(depth+1, p.Pattern)
			d.typ(depth+2, p.Type)
		}
		if fn.ReturnType.IsValid() {
			d.line(depth+1, "Returns")
			d.typ(depth+2, fn.ReturnType)
		}
		if fn.Body.IsValid() {
			d.expr(depth+1, fn.Body)
		}
	case ItemStruct:
		st, _ := d.b.Items.Struct(id)
		d.line(depth, "Struct %s", d.name(st.Name))
		for _, f := range st.Fields {
			d.line(depth+1, "Field %s", d.name(f.Name))
			d.typ(depth+2, f.Type)
		}
	case ItemEnum:
		en, _ := d.b.Items.Enum(id)
		d.line(depth, "Enum %s", d.name(en.Name))
		for _, v := range en.Variants {
			d.line(depth+1, "Variant %s", d.name(v.Name))
		}
	case ItemTrait:
		tr, _ := d.b.Items.Trait(id)
		d.line(depth, "Trait %s", d.name(tr.Name))
		for _, m := range tr.Members {
			d.item(depth+1, m)
		}
	case ItemImpl:
		im, _ := d.b.Items.Impl(id)
		d.line(depth, "Impl")
		if im.Trait.IsValid() {
			d.line(depth+1, "Trait")
			d.typ(depth+2, im.Trait)
		}
		d.typ(depth+1, im.Target)
		for _, m := range im.Members {
			d.item(depth+1, m)
		}
	case ItemConst:
		c, _ := d.b.Items.Const(id)
		d.line(depth, "Const %s", d.name(c.Name))
		if c.Type.IsValid() {
			d.typ(depth+1, c.Type)
		}
		if c.Value.IsValid() {
			d.expr(depth+1, c.Value)
		}
	default:
		panic(fmt.Sprintf("ast: unknown item kind %d", it.Kind))
	}
}

func (d *dumper) stmt(depth int, id StmtID) {
	st := d.b.Stmts.Get(id)
	switch st.Kind {
	case StmtLet:
		let, _ := d.b.Stmts.Let(id)
		d.line(depth, "Let")
		d.pattern(depth+1, let.Pattern)
		if let.Type.IsValid() {
			d.typ(depth+1, let.Type)
		}
		if let.Value.IsValid() {
			d.expr(depth+1, let.Value)
		}
	case StmtExpr:
		es, _ := d.b.Stmts.Expr(id)
		d.line(depth, "ExprStmt semi=%t", es.Semicolon)
		d.expr(depth+1, es.Expr)
	case StmtItem:
		is, _ := d.b.Stmts.Item(id)
		d.item(depth, is.Item)
	case StmtEmpty:
		d.line(depth, "Empty")
	default:
		panic(fmt.Sprintf("ast: unknown stmt kind %d", st.Kind))
	}
}

func (d *dumper) pattern(depth int, id PatternID) {
	p := d.b.Patterns.Get(id)
	switch p.Kind {
	case PatIdent:
		d.line(depth, "PatIdent %s mut=%t ref=%t refmut=%t", d.name(p.Name), p.Mut, p.ByRef, p.RefMut)
	case PatWild:
		d.line(depth, "PatWild")
	case PatRef:
		d.line(depth, "PatRef mut=%t", p.Mut)
		d.pattern(depth+1, p.Inner)
	}
}

func (d *dumper) typ(depth int, id TypeID) {
	t := d.b.Types.Get(id)
	switch t.Kind {
	case TypeExprPath:
		d.line(depth, "Type %s", t.Path.String(d.b.Strings))
	case TypeExprRef:
		d.line(depth, "TypeRef mut=%t", t.Mut)
		d.typ(depth+1, t.Elem)
	case TypeExprArray:
		d.line(depth, "TypeArray")
		d.typ(depth+1, t.Elem)
		d.expr(depth+1, t.Len)
	case TypeExprUnit:
		d.line(depth, "TypeUnit")
	case TypeExprNever:
		d.line(depth, "TypeNever")
	case TypeExprInfer:
		d.line(depth, "TypeInfer")
	}
}

func (d *dumper) expr(depth int, id ExprID) {
	e := d.b.Exprs.Get(id)
	ex := d.b.Exprs
	switch e.Kind {
	case ExprLiteral:
		lit, _ := ex.Literal(id)
		d.line(depth, "Literal %s", d.name(lit.Raw))
	case ExprPath:
		p, _ := ex.Path(id)
		d.line(depth, "Path %s", p.Path.String(d.b.Strings))
	case ExprGroup:
		g, _ := ex.Group(id)
		d.line(depth, "Group")
		d.expr(depth+1, g.Inner)
	case ExprUnderscore:
		d.line(depth, "Underscore")
	case ExprUnary:
		u, _ := ex.Unary(id)
		d.line(depth, "Unary %s", u.Op)
		d.expr(depth+1, u.Operand)
	case ExprBinary:
		bin, _ := ex.Binary(id)
		d.line(depth, "Binary %s", bin.Op)
		d.expr(depth+1, bin.Left)
		d.expr(depth+1, bin.Right)
	case ExprCast:
		c, _ := ex.Cast(id)
		d.line(depth, "Cast")
		d.expr(depth+1, c.Value)
		d.typ(depth+1, c.Type)
	case ExprAssign:
		a, _ := ex.Assign(id)
		op := "="
		if a.Compound {
			op = a.Op.String() + "="
		}
		d.line(depth, "Assign %s", op)
		d.expr(depth+1, a.Target)
		d.expr(depth+1, a.Value)
	case ExprBorrow:
		br, _ := ex.Borrow(id)
		d.line(depth, "Borrow mut=%t", br.Mut)
		d.expr(depth+1, br.Value)
	case ExprDeref:
		dr, _ := ex.Deref(id)
		d.line(depth, "Deref")
		d.expr(depth+1, dr.Value)
	case ExprCall:
		c, _ := ex.Call(id)
		d.line(depth, "Call")
		d.expr(depth+1, c.Callee)
		for _, a := range c.Args {
			d.expr(depth+1, a)
		}
	case ExprMethodCall:
		m, _ := ex.MethodCall(id)
		d.line(depth, "MethodCall %s", d.name(m.Name))
		d.expr(depth+1, m.Receiver)
		for _, a := range m.Args {
			d.expr(depth+1, a)
		}
	case ExprField:
		f, _ := ex.Field(id)
		d.line(depth, "Field %s", d.name(f.Name))
		d.expr(depth+1, f.Target)
	case ExprIndex:
		ix, _ := ex.Index(id)
		d.line(depth, "Index")
		d.expr(depth+1, ix.Target)
		d.expr(depth+1, ix.Index)
	case ExprArray:
		arr, _ := ex.Array(id)
		d.line(depth, "Array len=%d", len(arr.Elems))
		for _, el := range arr.Elems {
			d.expr(depth+1, el)
		}
	case ExprArrayRepeat:
		r, _ := ex.ArrayRepeat(id)
		d.line(depth, "ArrayRepeat")
		d.expr(depth+1, r.Value)
		d.expr(depth+1, r.Count)
	case ExprStruct:
		s, _ := ex.Struct(id)
		d.line(depth, "StructLit %s", s.Path.String(d.b.Strings))
		for _, f := range s.Fields {
			d.line(depth+1, "Field %s", d.name(f.Name))
			d.expr(depth+2, f.Value)
		}
	case ExprBlock:
		blk, _ := ex.Block(id)
		d.line(depth, "Block")
		for _, st := range blk.Stmts {
			d.stmt(depth+1, st)
		}
		if blk.Tail.IsValid() {
			d.line(depth+1, "Tail")
			d.expr(depth+2, blk.Tail)
		}
	case ExprIf:
		i, _ := ex.If(id)
		d.line(depth, "If")
		d.expr(depth+1, i.Cond)
		d.expr(depth+1, i.Then)
		if i.Else.IsValid() {
			d.line(depth+1, "Else")
			d.expr(depth+2, i.Else)
		}
	case ExprLoop:
		l, _ := ex.Loop(id)
		d.line(depth, "Loop")
		d.expr(depth+1, l.Body)
	case ExprWhile:
		w, _ := ex.While(id)
		d.line(depth, "While")
		d.expr(depth+1, w.Cond)
		d.expr(depth+1, w.Body)
	case ExprBreak:
		br, _ := ex.Break(id)
		d.line(depth, "Break")
		if br.Value.IsValid() {
			d.expr(depth+1, br.Value)
		}
	case ExprContinue:
		d.line(depth, "Continue")
	case ExprReturn:
		r, _ := ex.Return(id)
		d.line(depth, "Return")
		if r.Value.IsValid() {
			d.expr(depth+1, r.Value)
		}
	default:
		panic(fmt.Sprintf("ast: unknown expr kind %s", e.Kind))
	}
}
