// Package astlower implements component C3 of spec.md §4.2: lowering
// a parsed document into the form internal/checker and internal/eval
// expect. internal/parser already emits the version-neutral AST
// directly (its VersionFeatures table isolates cross-version grammar
// differences the way spec.md's CST/AST split would otherwise), so
// this package's job narrows to the remaining *semantic* lowering that
// is not purely syntactic: expanding call-input shorthand
// (`name` standing for `name = name`) into explicit expressions. A
// call's default alias (its unqualified callee name) is already set
// by internal/parser.
package astlower

import (
	"github.com/wdlkit/wdlkit/pkg/wdl"
)

// Lower normalizes doc in place and returns it, or the first
// SyntaxError found (e.g. a duplicate struct name).
func Lower(doc *wdl.Document) (*wdl.Document, error) {
	seen := map[string]bool{}
	for _, sd := range doc.Structs {
		if seen[sd.Name] {
			return nil, wdl.NewSyntaxError(sd.Span(), "duplicate struct definition %q", sd.Name)
		}
		seen[sd.Name] = true
	}

	for _, t := range doc.Tasks {
		if err := lowerCommandFragments(t.Command); err != nil {
			return nil, err
		}
	}
	if doc.Workflow != nil {
		if err := lowerElements(doc.Workflow.Body); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func lowerElements(body []wdl.WorkflowElement) error {
	for _, el := range body {
		switch n := el.(type) {
		case *wdl.Call:
			lowerCallInputs(n)
		case *wdl.Scatter:
			if err := lowerElements(n.Body); err != nil {
				return err
			}
		case *wdl.Conditional:
			if err := lowerElements(n.Body); err != nil {
				return err
			}
		}
	}
	return nil
}

// lowerCallInputs expands the `name` shorthand of a call's input block
// into `name = name` (spec.md §4.4): a CallInput whose Expr is nil
// binds from an identically-named value in the enclosing scope.
func lowerCallInputs(c *wdl.Call) {
	for i, in := range c.Inputs {
		if in.Expr == nil {
			c.Inputs[i].Expr = &wdl.IdentifierExpr{
				Info: wdl.Info{ExprSpan: c.CallSpan},
				Name: in.Name,
			}
		}
	}
}

// lowerCommandFragments is a no-op today (command interpolation is
// already fully parsed into fragments by internal/parser) but is kept
// as the seam where dedent-independent, purely syntactic
// normalization of the command AST would go if a future WDL version
// changes fragment shape.
func lowerCommandFragments(cmd *wdl.CommandSection) error {
	return nil
}
