package ast

// WalkExpr visits id and its subexpressions in source order. Children of an
// expression are skipped when visit returns false. Items nested in blocks
// are not entered.
func (b *Builder) WalkExpr(id ExprID, visit func(ExprID) bool) {
	if !id.IsValid() || !visit(id) {
		return
	}
	for _, child := range b.exprChildren(id) {
		b.WalkExpr(child, visit)
	}
}

func (b *Builder) exprChildren(id ExprID) []ExprID {
	ex := b.Exprs
	switch ex.Get(id).Kind {
	case ExprGroup:
		g, _ := ex.Group(id)
		return []ExprID{g.Inner}
	case ExprUnary:
		u, _ := ex.Unary(id)
		return []ExprID{u.Operand}
	case ExprBinary:
		bin, _ := ex.Binary(id)
		return []ExprID{bin.Left, bin.Right}
	case ExprCast:
		c, _ := ex.Cast(id)
		return []ExprID{c.Value}
	case ExprAssign:
		a, _ := ex.Assign(id)
		return []ExprID{a.Target, a.Value}
	case ExprBorrow:
		br, _ := ex.Borrow(id)
		return []ExprID{br.Value}
	case ExprDeref:
		d, _ := ex.Deref(id)
		return []ExprID{d.Value}
	case ExprCall:
		c, _ := ex.Call(id)
		return append([]ExprID{c.Callee}, c.Args...)
	case ExprMethodCall:
		m, _ := ex.MethodCall(id)
		return append([]ExprID{m.Receiver}, m.Args...)
	case ExprField:
		f, _ := ex.Field(id)
		return []ExprID{f.Target}
	case ExprIndex:
		ix, _ := ex.Index(id)
		return []ExprID{ix.Target, ix.Index}
	case ExprArray:
		arr, _ := ex.Array(id)
		return arr.Elems
	case ExprArrayRepeat:
		r, _ := ex.ArrayRepeat(id)
		return []ExprID{r.Value, r.Count}
	case ExprStruct:
		st, _ := ex.Struct(id)
		out := make([]ExprID, 0, len(st.Fields))
		for _, f := range st.Fields {
			out = append(out, f.Value)
		}
		return out
	case ExprBlock:
		blk, _ := ex.Block(id)
		var out []ExprID
		for _, s := range blk.Stmts {
			switch b.Stmts.Get(s).Kind {
			case StmtLet:
				let, _ := b.Stmts.Let(s)
				out = append(out, let.Value)
			case StmtExpr:
				es, _ := b.Stmts.Expr(s)
				out = append(out, es.Expr)
			}
		}
		return append(out, blk.Tail)
	case ExprIf:
		n, _ := ex.If(id)
		return []ExprID{n.Cond, n.Then, n.Else}
	case ExprLoop:
		l, _ := ex.Loop(id)
		return []ExprID{l.Body}
	case ExprWhile:
		w, _ := ex.While(id)
		return []ExprID{w.Cond, w.Body}
	case ExprBreak:
		br, _ := ex.Break(id)
		return []ExprID{br.Value}
	case ExprReturn:
		r, _ := ex.Return(id)
		return []ExprID{r.Value}
	}
	return nil
}
