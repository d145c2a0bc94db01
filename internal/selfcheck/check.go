// Package selfcheck validates where `self` and `Self` may appear. Unlike
// the other passes it always stops at the first violation.
package selfcheck

import (
	"context"

	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/source"
	"rxc/internal/trace"
)

// Options configures Check.
type Options struct {
	// Reporter also receives the violation before the pass aborts.
	Reporter diag.Reporter
}

// Check walks file and returns a *diag.Error for the first misuse.
func Check(ctx context.Context, b *ast.Builder, file ast.FileID, opts Options) (err error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "selfcheck", 0)
	defer span.End("")
	defer diag.Catch(&err)

	c := &checker{b: b, ctx: newStack(), reporter: opts.Reporter}
	f := b.Files.Get(file)
	if f == nil {
		return nil
	}
	for _, it := range f.Items {
		c.item(it)
	}
	return nil
}

type checker struct {
	b        *ast.Builder
	ctx      *stack
	reporter diag.Reporter
}

func (c *checker) raise(kind ErrorKind, sp source.Span) {
	d := diag.NewError(kind.Code(), sp, kind.message())
	if c.reporter != nil {
		c.reporter.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
	}
	diag.Raise(d)
}

func (c *checker) item(id ast.ItemID) {
	it := c.b.Items.Get(id)
	switch it.Kind {
	case ast.ItemFn:
		fn, _ := c.b.Items.Fn(id)
		c.fn(fn)
	case ast.ItemConst:
		k, _ := c.b.Items.Const(id)
		c.typ(k.Type)
		c.expr(k.Value)
	case ast.ItemStruct:
		st, _ := c.b.Items.Struct(id)
		for _, f := range st.Fields {
			c.typ(f.Type)
		}
	case ast.ItemEnum:
	case ast.ItemTrait:
		tr, _ := c.b.Items.Trait(id)
		defer c.ctx.enter(TraitBlock)()
		for _, m := range tr.Members {
			c.item(m)
		}
	case ast.ItemImpl:
		im, _ := c.b.Items.Impl(id)
		// the header is checked in the enclosing context
		c.typ(im.Trait)
		c.typ(im.Target)
		defer c.ctx.enter(ImplBlock)()
		for _, m := range im.Members {
			c.item(m)
		}
	}
}

func (c *checker) fn(fn *ast.FnItem) {
	state := c.ctx.fnState(fn.HasSelf())
	if fn.HasSelf() && state != Method {
		c.raise(SelfOutsideMethod, fn.SelfSpan)
	}
	defer c.ctx.enter(state)()
	for _, p := range fn.Params {
		c.typ(p.Type)
	}
	c.typ(fn.ReturnType)
	c.expr(fn.Body)
}

// path checks the placement of every self/Self segment.
func (c *checker) path(p ast.Path, value bool) {
	for i, seg := range p.Segments {
		switch seg.Kind {
		case ast.SegSelfType:
			if p.Global || i > 0 {
				c.raise(SelfIllegalPrefix, seg.Span)
			}
			if c.ctx.top() == Global {
				c.raise(SelfTypeOutsideImpl, seg.Span)
			}
		case ast.SegSelfValue:
			if p.Global || len(p.Segments) > 1 {
				c.raise(SelfIllegalPrefix, seg.Span)
			}
			if !value {
				c.raise(SelfOutsideMethod, seg.Span)
			}
			switch c.ctx.top() {
			case Method:
			case AssociatedFunc:
				c.raise(SelfInAssociatedFunc, seg.Span)
			default:
				c.raise(SelfOutsideMethod, seg.Span)
			}
		}
	}
}

func (c *checker) typ(id ast.TypeID) {
	if !id.IsValid() {
		return
	}
	te := c.b.Types.Get(id)
	switch te.Kind {
	case ast.TypeExprPath:
		c.path(te.Path, false)
	case ast.TypeExprRef:
		c.typ(te.Elem)
	case ast.TypeExprArray:
		c.typ(te.Elem)
		c.expr(te.Len)
	}
}

func (c *checker) stmt(id ast.StmtID) {
	st := c.b.Stmts.Get(id)
	switch st.Kind {
	case ast.StmtLet:
		let, _ := c.b.Stmts.Let(id)
		c.typ(let.Type)
		c.expr(let.Value)
	case ast.StmtExpr:
		es, _ := c.b.Stmts.Expr(id)
		c.expr(es.Expr)
	case ast.StmtItem:
		is, _ := c.b.Stmts.Item(id)
		c.item(is.Item)
	}
}

func (c *checker) expr(id ast.ExprID) {
	if !id.IsValid() {
		return
	}
	ex := c.b.Exprs
	switch e := ex.Get(id); e.Kind {
	case ast.ExprLiteral, ast.ExprUnderscore, ast.ExprContinue:
	case ast.ExprPath:
		p, _ := ex.Path(id)
		c.path(p.Path, true)
	case ast.ExprGroup:
		g, _ := ex.Group(id)
		c.expr(g.Inner)
	case ast.ExprUnary:
		u, _ := ex.Unary(id)
		c.expr(u.Operand)
	case ast.ExprBinary:
		bin, _ := ex.Binary(id)
		c.expr(bin.Left)
		c.expr(bin.Right)
	case ast.ExprCast:
		cast, _ := ex.Cast(id)
		c.expr(cast.Value)
		c.typ(cast.Type)
	case ast.ExprAssign:
		a, _ := ex.Assign(id)
		c.expr(a.Target)
		c.expr(a.Value)
	case ast.ExprBorrow:
		br, _ := ex.Borrow(id)
		c.expr(br.Value)
	case ast.ExprDeref:
		d, _ := ex.Deref(id)
		c.expr(d.Value)
	case ast.ExprCall:
		call, _ := ex.Call(id)
		c.expr(call.Callee)
		for _, a := range call.Args {
			c.expr(a)
		}
	case ast.ExprMethodCall:
		m, _ := ex.MethodCall(id)
		c.expr(m.Receiver)
		for _, a := range m.Args {
			c.expr(a)
		}
	case ast.ExprField:
		f, _ := ex.Field(id)
		c.expr(f.Target)
	case ast.ExprIndex:
		ix, _ := ex.Index(id)
		c.expr(ix.Target)
		c.expr(ix.Index)
	case ast.ExprArray:
		arr, _ := ex.Array(id)
		for _, el := range arr.Elems {
			c.expr(el)
		}
	case ast.ExprArrayRepeat:
		rep, _ := ex.ArrayRepeat(id)
		c.expr(rep.Value)
		c.expr(rep.Count)
	case ast.ExprStruct:
		s, _ := ex.Struct(id)
		c.path(s.Path, false)
		for _, f := range s.Fields {
			c.expr(f.Value)
		}
	case ast.ExprBlock:
		blk, _ := ex.Block(id)
		for _, st := range blk.Stmts {
			c.stmt(st)
		}
		c.expr(blk.Tail)
	case ast.ExprIf:
		i, _ := ex.If(id)
		c.expr(i.Cond)
		c.expr(i.Then)
		c.expr(i.Else)
	case ast.ExprLoop:
		l, _ := ex.Loop(id)
		c.expr(l.Body)
	case ast.ExprWhile:
		w, _ := ex.While(id)
		c.expr(w.Cond)
		c.expr(w.Body)
	case ast.ExprBreak:
		br, _ := ex.Break(id)
		c.expr(br.Value)
	case ast.ExprReturn:
		r, _ := ex.Return(id)
		c.expr(r.Value)
	default:
		panic("selfcheck: unhandled expression kind " + e.Kind.String())
	}
}
