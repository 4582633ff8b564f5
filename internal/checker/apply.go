package checker

import "github.com/wdlkit/wdlkit/pkg/wdl"

// inferApply resolves an ApplyExpr against the stdlib prototype table
// (pkg/wdl.LookupStdlib), picking the first overload whose arity and
// argument coercibility matches. Generic prototypes use wdl.Any() as a
// placeholder for "some single type chosen by the caller"; resolution
// substitutes the first argument's concrete type for every Any() slot
// in that prototype before checking the rest.
func (c *Checker) inferApply(doc *wdl.Document, scope *Scope, n *wdl.ApplyExpr) *wdl.Type {
	argTypes := make([]*wdl.Type, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = c.infer(doc, scope, a)
	}

	overloads := wdl.LookupStdlib(n.FuncName)
	if len(overloads) == 0 {
		c.fail(n.ExprSpan, "call to undefined function %q", n.FuncName)
		return c.set(&n.Typ, wdl.Unknown())
	}

	for _, ov := range overloads {
		if len(ov.ParamTypes) != len(argTypes) {
			continue
		}
		subst := genericSubst(ov.ParamTypes, argTypes)
		ok := true
		for i, p := range ov.ParamTypes {
			want := substitute(p, subst)
			if !wdl.IsCoercibleTo(argTypes[i], want) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		ret := substitute(ov.ReturnType, subst)
		n.ResolvedFunc = wdl.FunctionOf(n.FuncName, ov.ParamTypes, ov.ReturnType)
		return c.set(&n.Typ, ret)
	}

	c.fail(n.ExprSpan, "no overload of %q matches argument types %v", n.FuncName, argTypes)
	return c.set(&n.Typ, wdl.Unknown())
}

// genericSubst finds the concrete type each Any()-typed parameter
// position was called with, so a single generic placeholder threaded
// through a prototype (e.g. select_first's Array[X?] -> X) resolves
// consistently.
func genericSubst(params []*wdl.Type, args []*wdl.Type) *wdl.Type {
	for i, p := range params {
		if t := findAny(p, args[i]); t != nil {
			return t
		}
	}
	return wdl.Any()
}

// findAny walks proto alongside actual, returning the concrete type
// standing in the position where proto is Any() or Optional(Any())/
// Array(Any()), or nil if proto contains no generic slot here.
func findAny(proto, actual *wdl.Type) *wdl.Type {
	if proto == nil || actual == nil {
		return nil
	}
	if proto.Kind == wdl.KindAny {
		return actual
	}
	switch proto.Kind {
	case wdl.KindArray:
		inner := actual
		if actual.Kind == wdl.KindArray {
			inner = actual.Elem
		}
		return findAny(proto.Elem, inner)
	case wdl.KindOptional:
		inner := actual
		if actual.Kind == wdl.KindOptional {
			inner = actual.Inner
		}
		return findAny(proto.Inner, inner)
	}
	return nil
}

// substitute replaces every Any() occurrence in t with subst.
func substitute(t *wdl.Type, subst *wdl.Type) *wdl.Type {
	if t == nil {
		return nil
	}
	if t.Kind == wdl.KindAny {
		return subst
	}
	switch t.Kind {
	case wdl.KindArray:
		return wdl.ArrayOf(substitute(t.Elem, subst), t.NonEmpty)
	case wdl.KindOptional:
		return wdl.OptionalOf(substitute(t.Inner, subst))
	case wdl.KindMap:
		return wdl.MapOf(substitute(t.Key, subst), substitute(t.Value, subst))
	case wdl.KindPair:
		return wdl.PairOf(substitute(t.Left, subst), substitute(t.Right, subst))
	}
	return t
}
