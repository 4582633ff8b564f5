package eval

import (
	"context"

	"github.com/wdlkit/wdlkit/pkg/wdl"
)

// ApplyDeclarations threads env through decls left to right (spec.md
// §4.5), evaluating each declaration's expression or, if it has none,
// taking its value from inputs; a declaration with neither fails with
// a MissingBinding EvalError. Values are bound as produced: coercion
// to the declared type happens only through CoerceExpr nodes the
// checker inserted into the expression, and a name bound twice
// shadows the earlier binding.
func (ev *Evaluator) ApplyDeclarations(ctx context.Context, env *Env, decls []*wdl.Declaration, inputs map[string]wdl.Value) (*Env, error) {
	for _, d := range decls {
		var v wdl.Value
		switch {
		case d.Expr != nil:
			ev1, err := ev.Eval(ctx, env, d.Expr)
			if err != nil {
				return nil, err
			}
			v = ev1
		default:
			iv, ok := inputs[d.Name]
			if !ok {
				return nil, wdl.NewEvalError(d.DeclSpan, wdl.ReasonMissingBinding, "no value supplied for required declaration %q", d.Name)
			}
			v = iv
		}
		env = env.With(d.Name, v)
	}
	return env, nil
}
