package checker

import (
	"github.com/wdlkit/wdlkit/pkg/wdl"
)

// infer assigns e.Info().Typ (by way of the concrete node's embedded
// Info) and returns the resolved type. Every case sets Typ even on
// failure (falling back to Unknown/Any) so a later pass can keep
// walking the tree without a nil-type crash.
func (c *Checker) infer(doc *wdl.Document, scope *Scope, e wdl.Expr) *wdl.Type {
	switch n := e.(type) {
	case *wdl.NullLit:
		return c.set(&n.Typ, wdl.Unknown())
	case *wdl.BoolLit:
		return c.set(&n.Typ, wdl.Boolean())
	case *wdl.IntLit:
		return c.set(&n.Typ, wdl.Int())
	case *wdl.FloatLit:
		return c.set(&n.Typ, wdl.Float())
	case *wdl.CompoundString:
		for _, f := range n.Fragments {
			if f.Expr != nil {
				c.inferPlaceholder(doc, scope, f.Expr)
			}
		}
		return c.set(&n.Typ, wdl.String())
	case *wdl.IdentifierExpr:
		if t, ok := scope.Resolve(n.Name); ok {
			return c.set(&n.Typ, t)
		}
		c.fail(n.ExprSpan, "undefined identifier %q", n.Name)
		return c.set(&n.Typ, wdl.Unknown())
	case *wdl.ArrayLit:
		return c.inferArrayLit(doc, scope, n)
	case *wdl.MapLit:
		return c.inferMapLit(doc, scope, n)
	case *wdl.ObjectLit:
		return c.inferObjectLit(doc, scope, n)
	case *wdl.PairExpr:
		l := c.infer(doc, scope, n.Left)
		r := c.infer(doc, scope, n.Right)
		return c.set(&n.Typ, wdl.PairOf(l, r))
	case *wdl.BinaryExpr:
		return c.inferBinary(doc, scope, n)
	case *wdl.UnaryExpr:
		return c.inferUnary(doc, scope, n)
	case *wdl.IfThenElseExpr:
		return c.inferIfThenElse(doc, scope, n)
	case *wdl.AtExpr:
		return c.inferAt(doc, scope, n)
	case *wdl.ApplyExpr:
		return c.inferApply(doc, scope, n)
	case *wdl.GetNameExpr:
		return c.inferGetName(doc, scope, n)
	case *wdl.CoerceExpr:
		c.infer(doc, scope, n.X)
		return c.set(&n.Typ, n.ToType)
	case *wdl.PlaceholderEqualExpr, *wdl.PlaceholderDefaultExpr, *wdl.PlaceholderSepExpr:
		return c.inferPlaceholder(doc, scope, e)
	default:
		c.fail(e.Span(), "internal: unhandled expression node in inference")
		return wdl.Unknown()
	}
}

func (c *Checker) set(slot **wdl.Type, t *wdl.Type) *wdl.Type {
	*slot = t
	return t
}

func (c *Checker) inferArrayLit(doc *wdl.Document, scope *Scope, n *wdl.ArrayLit) *wdl.Type {
	var elem *wdl.Type
	for _, e := range n.Elems {
		et := c.infer(doc, scope, e)
		if elem == nil {
			elem = et
			continue
		}
		if u := wdl.Unify(elem, et); u != nil {
			elem = u
		} else {
			c.fail(e.Span(), "array element type %s does not unify with %s", et, elem)
		}
	}
	if elem == nil {
		elem = wdl.Unknown()
	}
	return c.set(&n.Typ, wdl.ArrayOf(elem, len(n.Elems) > 0))
}

func (c *Checker) inferMapLit(doc *wdl.Document, scope *Scope, n *wdl.MapLit) *wdl.Type {
	var keyT, valT *wdl.Type
	for _, e := range n.Entries {
		kt := c.infer(doc, scope, e.Key)
		vt := c.infer(doc, scope, e.Value)
		if keyT == nil {
			keyT, valT = kt, vt
			continue
		}
		if u := wdl.Unify(keyT, kt); u != nil {
			keyT = u
		}
		if u := wdl.Unify(valT, vt); u != nil {
			valT = u
		}
	}
	if keyT == nil {
		keyT, valT = wdl.Unknown(), wdl.Unknown()
	}
	return c.set(&n.Typ, wdl.MapOf(keyT, valT))
}

func (c *Checker) inferObjectLit(doc *wdl.Document, scope *Scope, n *wdl.ObjectLit) *wdl.Type {
	for _, e := range n.Entries {
		c.infer(doc, scope, e.Value)
	}
	return c.set(&n.Typ, wdl.ObjectType())
}

func (c *Checker) inferBinary(doc *wdl.Document, scope *Scope, n *wdl.BinaryExpr) *wdl.Type {
	xt := c.infer(doc, scope, n.X)
	yt := c.infer(doc, scope, n.Y)
	switch n.Op {
	case "&&", "||":
		if !xt.Equal(wdl.Boolean()) || !yt.Equal(wdl.Boolean()) {
			c.fail(n.ExprSpan, "operator %s requires Boolean operands, found %s and %s", n.Op, xt, yt)
		}
		return c.set(&n.Typ, wdl.Boolean())
	case "==", "!=":
		if wdl.Unify(xt, yt) == nil {
			c.fail(n.ExprSpan, "operator %s requires comparable operands, found %s and %s", n.Op, xt, yt)
		}
		return c.set(&n.Typ, wdl.Boolean())
	case "<", "<=", ">", ">=":
		if !isOrderable(xt) || !isOrderable(yt) {
			c.fail(n.ExprSpan, "operator %s requires numeric or String operands, found %s and %s", n.Op, xt, yt)
		}
		return c.set(&n.Typ, wdl.Boolean())
	case "+":
		// String concatenation is allowed if either side is String and
		// the other coerces to String (spec.md §4.4).
		if xt.Equal(wdl.String()) || yt.Equal(wdl.String()) {
			if wdl.IsCoercibleTo(xt, wdl.String()) && wdl.IsCoercibleTo(yt, wdl.String()) {
				return c.set(&n.Typ, wdl.String())
			}
		}
		fallthrough
	case "-", "*", "/", "%":
		if !isNumeric(xt) || !isNumeric(yt) {
			c.fail(n.ExprSpan, "operator %s requires numeric operands, found %s and %s", n.Op, xt, yt)
			return c.set(&n.Typ, wdl.Unknown())
		}
		if xt.Equal(wdl.Int()) && yt.Equal(wdl.Int()) {
			return c.set(&n.Typ, wdl.Int())
		}
		return c.set(&n.Typ, wdl.Float())
	default:
		c.fail(n.ExprSpan, "internal: unknown binary operator %q", n.Op)
		return c.set(&n.Typ, wdl.Unknown())
	}
}

func isNumeric(t *wdl.Type) bool { return t.Kind == wdl.KindInt || t.Kind == wdl.KindFloat }
func isOrderable(t *wdl.Type) bool {
	return isNumeric(t) || t.Kind == wdl.KindString
}

func (c *Checker) inferUnary(doc *wdl.Document, scope *Scope, n *wdl.UnaryExpr) *wdl.Type {
	xt := c.infer(doc, scope, n.X)
	if n.Op == "!" {
		if !xt.Equal(wdl.Boolean()) {
			c.fail(n.ExprSpan, "operator ! requires a Boolean operand, found %s", xt)
		}
		return c.set(&n.Typ, wdl.Boolean())
	}
	if !isNumeric(xt) {
		c.fail(n.ExprSpan, "unary - requires a numeric operand, found %s", xt)
	}
	return c.set(&n.Typ, xt)
}

func (c *Checker) inferIfThenElse(doc *wdl.Document, scope *Scope, n *wdl.IfThenElseExpr) *wdl.Type {
	condT := c.infer(doc, scope, n.Cond)
	if !condT.Equal(wdl.Boolean()) {
		c.fail(n.Cond.Span(), "if condition must be Boolean, found %s", condT)
	}
	tt := c.infer(doc, scope, n.True)
	ft := c.infer(doc, scope, n.False)
	u := wdl.Unify(tt, ft)
	if u == nil {
		c.fail(n.ExprSpan, "if/then/else branches do not unify: %s vs %s", tt, ft)
		u = wdl.Unknown()
	}
	return c.set(&n.Typ, u)
}

func (c *Checker) inferAt(doc *wdl.Document, scope *Scope, n *wdl.AtExpr) *wdl.Type {
	arrT := c.infer(doc, scope, n.Array)
	idxT := c.infer(doc, scope, n.Index)
	switch arrT.Kind {
	case wdl.KindArray:
		if !idxT.Equal(wdl.Int()) {
			c.fail(n.Index.Span(), "array index must be Int, found %s", idxT)
		}
		return c.set(&n.Typ, arrT.Elem)
	case wdl.KindMap:
		if !wdl.IsCoercibleTo(idxT, arrT.Key) {
			c.fail(n.Index.Span(), "map index must coerce to key type %s, found %s", arrT.Key, idxT)
		}
		return c.set(&n.Typ, arrT.Value)
	default:
		c.fail(n.Array.Span(), "cannot index into %s", arrT)
		return c.set(&n.Typ, wdl.Unknown())
	}
}

func (c *Checker) inferGetName(doc *wdl.Document, scope *Scope, n *wdl.GetNameExpr) *wdl.Type {
	// A bare identifier receiver naming an import namespace or call
	// alias is resolved directly rather than through infer, since
	// namespaces and call aliases are not ordinary value bindings.
	if id, ok := n.X.(*wdl.IdentifierExpr); ok {
		if t, ok := scope.Resolve(id.Name); ok {
			id.Typ = t
			return c.getNameOfType(n, t)
		}
	}
	xt := c.infer(doc, scope, n.X)
	return c.getNameOfType(n, xt)
}

func (c *Checker) getNameOfType(n *wdl.GetNameExpr, xt *wdl.Type) *wdl.Type {
	base := xt
	if base.IsOptional() {
		base = base.Inner
	}
	switch base.Kind {
	case wdl.KindStruct, wdl.KindCall:
		if m, ok := base.Members[n.Field]; ok {
			return c.set(&n.Typ, m)
		}
		c.fail(n.ExprSpan, "%s has no member %q", base, n.Field)
	case wdl.KindObject:
		return c.set(&n.Typ, wdl.Any())
	case wdl.KindPair:
		if n.Field == "left" {
			return c.set(&n.Typ, base.Left)
		}
		if n.Field == "right" {
			return c.set(&n.Typ, base.Right)
		}
		c.fail(n.ExprSpan, "Pair has no member %q (expected left or right)", n.Field)
	default:
		c.fail(n.ExprSpan, "cannot access member %q on %s", n.Field, xt)
	}
	return c.set(&n.Typ, wdl.Unknown())
}
