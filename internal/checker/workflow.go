package checker

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wdlkit/wdlkit/pkg/wdl"
)

func (c *Checker) checkWorkflow(doc *wdl.Document, w *wdl.Workflow) {
	scope := NewScope()
	for _, in := range w.Inputs {
		c.checkDeclaration(doc, scope, in, true)
	}
	c.checkBody(doc, scope, w.Body)
	for _, out := range w.Outputs {
		c.checkDeclaration(doc, scope, out, false)
	}
}

func (c *Checker) checkBody(doc *wdl.Document, scope *Scope, body []wdl.WorkflowElement) {
	for _, el := range body {
		switch n := el.(type) {
		case *wdl.Declaration:
			c.checkDeclaration(doc, scope, n, false)
		case *wdl.Call:
			c.checkCall(doc, scope, n)
		case *wdl.Scatter:
			c.checkScatter(doc, scope, n)
		case *wdl.Conditional:
			c.checkConditional(doc, scope, n)
		}
	}
}

// checkScatter opens a child scope binding Var to the collection's
// element type, checks the body in it, then re-exports every binding
// the body produced into the enclosing scope wrapped in Array(T)
// (spec.md §4.4); the iterator variable itself is not exported.
func (c *Checker) checkScatter(doc *wdl.Document, scope *Scope, s *wdl.Scatter) {
	collT := c.infer(doc, scope, s.Collection)
	var elemT *wdl.Type
	if collT.Kind == wdl.KindArray {
		elemT = collT.Elem
	} else {
		c.fail(s.Collection.Span(), "scatter collection must be an Array, found %s", collT)
		elemT = wdl.Unknown()
	}
	inner := scope.Child()
	if _, shadowed := inner.Define(s.Var, elemT); shadowed {
		c.fail(s.ScatterSpan, "%q shadows a name visible in an enclosing scope", s.Var)
	}
	before := snapshotNames(inner)
	c.checkBody(doc, inner, s.Body)
	for name, t := range inner.names {
		if before[name] || name == s.Var {
			continue
		}
		if redeclared, shadowed := scope.Define(name, wdl.ArrayOf(t, false)); redeclared {
			c.fail(s.ScatterSpan, "%q is already declared in this scope", name)
		} else if shadowed {
			c.fail(s.ScatterSpan, "%q shadows a name visible in an enclosing scope", name)
		}
	}
}

// checkConditional behaves like checkScatter but wraps exported
// bindings in Optional(T) instead of Array(T) (spec.md §4.4).
func (c *Checker) checkConditional(doc *wdl.Document, scope *Scope, n *wdl.Conditional) {
	condT := c.infer(doc, scope, n.Condition)
	if !condT.Equal(wdl.Boolean()) {
		c.fail(n.Condition.Span(), "if condition must be Boolean, found %s", condT)
	}
	inner := scope.Child()
	before := snapshotNames(inner)
	c.checkBody(doc, inner, n.Body)
	for name, t := range inner.names {
		if before[name] {
			continue
		}
		if redeclared, shadowed := scope.Define(name, wdl.OptionalOf(t)); redeclared {
			c.fail(n.CondSpan, "%q is already declared in this scope", name)
		} else if shadowed {
			c.fail(n.CondSpan, "%q shadows a name visible in an enclosing scope", name)
		}
	}
}

func snapshotNames(s *Scope) map[string]bool {
	out := map[string]bool{}
	for name := range s.names {
		out[name] = true
	}
	return out
}

// checkCall resolves c.Callee against this document's own tasks/
// workflow or a namespace-qualified import, types each input
// expression against the callee's declared input types, and defines
// the call's alias in scope as a Call(name, outputs) type.
func (c *Checker) checkCall(doc *wdl.Document, scope *Scope, call *wdl.Call) {
	_, inputs, outputs, err := c.resolveCallee(doc, call.Callee)
	if err != nil {
		c.fail(call.CallSpan, "%v", err)
		c.defineCallAlias(scope, call, wdl.CallOf(call.Alias, nil, nil))
		return
	}

	supplied := make(map[string]bool, len(call.Inputs))
	for i, in := range call.Inputs {
		supplied[in.Name] = true
		argT := c.infer(doc, scope, in.Expr)
		want, ok := inputs[in.Name]
		if !ok {
			c.fail(in.Expr.Span(), "call %q has no input %q", call.Callee, in.Name)
			continue
		}
		if !wdl.IsCoercibleTo(argT, want.Type) {
			c.fail(in.Expr.Span(), "input %q of call %q expects %s, found %s", in.Name, call.Callee, want.Type, argT)
		} else if !argT.Equal(want.Type) {
			call.Inputs[i].Expr = &wdl.CoerceExpr{Info: wdl.Info{ExprSpan: in.Expr.Span(), Typ: want.Type}, X: in.Expr, ToType: want.Type}
		}
	}

	var missing []string
	for name, want := range inputs {
		if want.required() && !supplied[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	for _, name := range missing {
		c.fail(call.CallSpan, "call %q is missing required input %q", call.Callee, name)
	}

	outputNames := make([]string, 0, len(outputs))
	for name := range outputs {
		outputNames = append(outputNames, name)
	}
	call.ResolvedOutputs = outputs
	c.defineCallAlias(scope, call, wdl.CallOf(call.Callee, outputNames, outputs))
}

// defineCallAlias binds a call's alias in scope, reporting the same
// redeclaration/shadowing violations as any other declaration (spec.md
// §4.4): a call alias is a name in scope like any other.
func (c *Checker) defineCallAlias(scope *Scope, call *wdl.Call, t *wdl.Type) {
	if redeclared, shadowed := scope.Define(call.Alias, t); redeclared {
		c.fail(call.CallSpan, "%q is already declared in this scope", call.Alias)
	} else if shadowed {
		c.fail(call.CallSpan, "%q shadows a name visible in an enclosing scope", call.Alias)
	}
}

// calleeInput is one entry of a call target's input map: its type plus
// whether the declaration is optional or carries a default, either of
// which makes it unnecessary to supply at a call site (spec.md §4.4).
type calleeInput struct {
	Type       *wdl.Type
	Optional   bool
	HasDefault bool
}

func (ci calleeInput) required() bool {
	return !ci.Optional && !ci.HasDefault
}

// resolveCallee finds the Task or Workflow named by a (possibly
// namespace-qualified) callee reference and returns its input/output
// type maps.
func (c *Checker) resolveCallee(doc *wdl.Document, callee string) (name string, inputs map[string]calleeInput, outputs map[string]*wdl.Type, err error) {
	targetDoc := doc
	localName := callee
	if idx := strings.IndexByte(callee, '.'); idx >= 0 {
		ns := callee[:idx]
		localName = callee[idx+1:]
		found := false
		for _, imp := range doc.Imports {
			if imp.Namespace == ns && imp.Document != nil {
				targetDoc = imp.Document
				found = true
				break
			}
		}
		if !found {
			return "", nil, nil, errorf("unknown import namespace %q", ns)
		}
	}

	for _, t := range targetDoc.Tasks {
		if t.Name == localName {
			return t.Name, c.inputDeclMap(targetDoc, t.Inputs), c.declMap(targetDoc, t.Outputs), nil
		}
	}
	if targetDoc.Workflow != nil && targetDoc.Workflow.Name == localName {
		w := targetDoc.Workflow
		return w.Name, c.inputDeclMap(targetDoc, w.Inputs), c.declMap(targetDoc, w.Outputs), nil
	}
	return "", nil, nil, errorf("call target %q not found", callee)
}

func (c *Checker) declMap(doc *wdl.Document, decls []*wdl.Declaration) map[string]*wdl.Type {
	out := make(map[string]*wdl.Type, len(decls))
	for _, d := range decls {
		out[d.Name] = c.resolveTypeRef(doc, d.Type)
	}
	return out
}

// inputDeclMap is declMap for a callee's input declarations, additionally
// recording whether each is optional or has a default so checkCall can
// tell which ones are required.
func (c *Checker) inputDeclMap(doc *wdl.Document, decls []*wdl.Declaration) map[string]calleeInput {
	out := make(map[string]calleeInput, len(decls))
	for _, d := range decls {
		t := c.resolveTypeRef(doc, d.Type)
		out[d.Name] = calleeInput{Type: t, Optional: t.IsOptional(), HasDefault: d.Expr != nil}
	}
	return out
}

func errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
