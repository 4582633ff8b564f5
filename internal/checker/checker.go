// Package checker implements component C5 of spec.md §4.4: bidirectional
// type inference over the version-neutral AST, using the coercion
// lattice of pkg/wdl to resolve every expression's type, insert
// explicit Coerce nodes, and resolve stdlib/task/workflow call targets.
// Inference is total: it never aborts on the first error. TypeErrors
// accumulate into the returned wdl.ErrorList and inference continues
// with the best type it can still assign, the same accumulate-and-continue
// discipline the teacher's validator.go uses for CWL tool graphs.
package checker

import (
	"github.com/wdlkit/wdlkit/internal/parser"
	"github.com/wdlkit/wdlkit/pkg/wdl"
)

// Checker holds the state of one inference pass across a document and
// its transitively imported documents.
type Checker struct {
	// Docs indexes every document reachable from the one being
	// checked, by canonical source URI (see internal/importresolve.AllDocuments).
	Docs map[string]*wdl.Document
	// FlattenNestedOptional resolves the Optional(Optional(T)) Open
	// Question (spec.md §9) in favor of flattening. The checker does not
	// read it: pkg/wdl.OptionalOf flattens unconditionally, so setting
	// it to false changes nothing and nested optionals are never
	// rejected or reported.
	FlattenNestedOptional bool

	errors      wdl.ErrorList
	structTypes map[string]*wdl.Type
}

// New builds a Checker over the document set docs (self included).
func New(docs map[string]*wdl.Document) *Checker {
	return &Checker{Docs: docs, FlattenNestedOptional: true, structTypes: map[string]*wdl.Type{}}
}

// CheckDocument runs inference over doc's tasks and workflow (but not
// its imports, which the caller checks independently — each document
// in the graph is checked once). It returns the accumulated TypeErrors,
// empty if none.
func (c *Checker) CheckDocument(doc *wdl.Document) wdl.ErrorList {
	c.errors = nil
	c.registerStructs(doc)

	for _, t := range doc.Tasks {
		c.checkTask(doc, t)
	}
	if doc.Workflow != nil {
		c.checkWorkflow(doc, doc.Workflow)
	}
	return c.errors
}

func (c *Checker) fail(span wdl.Span, format string, args ...any) {
	c.errors = append(c.errors, wdl.NewTypeError(span, format, args...))
}

func (c *Checker) registerStructs(doc *wdl.Document) {
	for _, sd := range doc.Structs {
		c.structTypes[sd.Name] = c.structDefType(doc, sd)
	}
}

func (c *Checker) structDefType(doc *wdl.Document, sd *wdl.StructDef) *wdl.Type {
	names := make([]string, len(sd.Members))
	members := make(map[string]*wdl.Type, len(sd.Members))
	for i, m := range sd.Members {
		names[i] = m.Name
		members[m.Name] = c.resolveTypeRef(doc, m.Type)
	}
	return wdl.StructOf(sd.Name, names, members)
}

// resolveTypeRef converts the raw syntax of a TypeRef into a concrete
// *wdl.Type, looking up struct names in this document's (and its
// imports') struct registry.
func (c *Checker) resolveTypeRef(doc *wdl.Document, ref *wdl.TypeRef) *wdl.Type {
	if ref == nil {
		return wdl.Unknown()
	}
	var base *wdl.Type
	switch ref.Name {
	case "Boolean":
		base = wdl.Boolean()
	case "Int":
		base = wdl.Int()
	case "Float":
		base = wdl.Float()
	case "String":
		base = wdl.String()
	case "File":
		base = wdl.File()
	case "Directory":
		base = wdl.Directory()
	case "Object":
		base = wdl.ObjectType()
	case "Array":
		elem := wdl.Unknown()
		if len(ref.Elems) > 0 {
			elem = c.resolveTypeRef(doc, ref.Elems[0])
		}
		base = wdl.ArrayOf(elem, ref.NonEmpty)
	case "Map":
		key, val := wdl.Unknown(), wdl.Unknown()
		if len(ref.Elems) > 1 {
			key = c.resolveTypeRef(doc, ref.Elems[0])
			val = c.resolveTypeRef(doc, ref.Elems[1])
		}
		base = wdl.MapOf(key, val)
	case "Pair":
		left, right := wdl.Unknown(), wdl.Unknown()
		if len(ref.Elems) > 1 {
			left = c.resolveTypeRef(doc, ref.Elems[0])
			right = c.resolveTypeRef(doc, ref.Elems[1])
		}
		base = wdl.PairOf(left, right)
	default:
		if st, ok := c.lookupStruct(doc, ref.Name); ok {
			base = st
		} else {
			c.fail(ref.Span(), "unknown type %q", ref.Name)
			base = wdl.Unknown()
		}
	}
	if ref.Optional {
		return wdl.OptionalOf(base)
	}
	return base
}

func (c *Checker) lookupStruct(doc *wdl.Document, name string) (*wdl.Type, bool) {
	if t, ok := c.structTypes[name]; ok {
		return t, true
	}
	for _, imp := range doc.Imports {
		if imp.Document == nil {
			continue
		}
		aliased := name
		for from, to := range imp.StructAliases {
			if to == name {
				aliased = from
			}
		}
		for _, sd := range imp.Document.Structs {
			if sd.Name == aliased {
				t := c.structDefType(imp.Document, sd)
				c.structTypes[name] = t
				return t, true
			}
		}
	}
	return nil, false
}

func (c *Checker) checkTask(doc *wdl.Document, t *wdl.Task) {
	scope := NewScope()
	for _, in := range t.Inputs {
		c.checkDeclaration(doc, scope, in, true)
	}
	// draft-2 has no mandatory `input {}` wrapper: every bare
	// declaration at the task's top level is itself an input
	// (spec.md §4.1), so it needs no initializer either. 1.0+ requires
	// `input {}` for inputs, so a bare declaration there is a private
	// intermediate value and must have one.
	declsAreInputs := !parser.Features(doc.Version).RequireExplicitInputSection
	for _, d := range t.Decls {
		c.checkDeclaration(doc, scope, d, declsAreInputs)
	}
	if t.Command != nil {
		for _, frag := range t.Command.Fragments {
			if frag.Expr != nil {
				c.inferPlaceholder(doc, scope, frag.Expr)
			}
		}
	}
	for _, entry := range t.Runtime {
		c.infer(doc, scope, entry.Expr)
	}
	for _, entry := range t.Hints {
		c.infer(doc, scope, entry.Expr)
	}
	for _, out := range t.Outputs {
		c.checkDeclaration(doc, scope, out, false)
	}
}

// checkDeclaration infers d.Expr's type (if present), checks it
// coerces to the declared type, and defines the binding in scope.
// isInput allows a required input (nil Expr) to be defined at its
// declared type with no initializer check.
func (c *Checker) checkDeclaration(doc *wdl.Document, scope *Scope, d *wdl.Declaration, isInput bool) {
	declared := c.resolveTypeRef(doc, d.Type)
	if d.Expr != nil {
		exprType := c.infer(doc, scope, d.Expr)
		if !wdl.IsCoercibleTo(exprType, declared) {
			c.fail(d.Expr.Span(), "cannot coerce %s to declared type %s for %q", exprType, declared, d.Name)
		} else if !exprType.Equal(declared) {
			d.Expr = &wdl.CoerceExpr{Info: wdl.Info{ExprSpan: d.Expr.Span(), Typ: declared}, X: d.Expr, ToType: declared}
		}
	} else if !isInput {
		c.fail(d.DeclSpan, "declaration %q requires an initializer", d.Name)
	}
	if redeclared, shadowed := scope.Define(d.Name, declared); redeclared {
		c.fail(d.DeclSpan, "%q is already declared in this scope", d.Name)
	} else if shadowed {
		c.fail(d.DeclSpan, "%q shadows a name visible in an enclosing scope", d.Name)
	}
}

// inferPlaceholder infers a command-section interpolation expression,
// unwrapping placeholder wrapper nodes to type-check their payload
// (spec.md §4.6): PlaceholderDefault's Value must be Optional(T) and
// its Default must coerce to T; PlaceholderSep's Array must be
// Array(T); PlaceholderEqual's Cond must be Boolean.
func (c *Checker) inferPlaceholder(doc *wdl.Document, scope *Scope, e wdl.Expr) *wdl.Type {
	switch n := e.(type) {
	case *wdl.PlaceholderDefaultExpr:
		valType := c.infer(doc, scope, n.Value)
		defType := c.infer(doc, scope, n.Default)
		inner := valType
		if valType.IsOptional() {
			inner = valType.Inner
		}
		if !wdl.IsCoercibleTo(defType, inner) {
			c.fail(n.Default.Span(), "default= value of type %s does not match %s", defType, inner)
		}
		return wdl.String()
	case *wdl.PlaceholderSepExpr:
		c.infer(doc, scope, n.Sep)
		arrType := c.infer(doc, scope, n.Array)
		if arrType.Kind != wdl.KindArray {
			c.fail(n.Array.Span(), "sep= requires an Array argument, found %s", arrType)
		}
		return wdl.String()
	case *wdl.PlaceholderEqualExpr:
		condType := c.infer(doc, scope, n.Cond)
		if !condType.Equal(wdl.Boolean()) {
			c.fail(n.Cond.Span(), "placeholder condition must be Boolean, found %s", condType)
		}
		return wdl.String()
	default:
		return c.infer(doc, scope, e)
	}
}
