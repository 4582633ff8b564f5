// Package pipeline wires the front-end components (C1, C2/C3 via
// internal/importresolve, C5, C6) into the two operations the CLI and
// server consumers share: type-check a document graph, and evaluate a
// task or workflow's declarations and command against a set of JSON
// inputs. It exists only as ambient plumbing for cmd/wdlkit and
// cmd/wdlkitd — the language front end itself has no orchestration
// layer of its own, per spec.md §1's "parsing, inference, and
// evaluation are each pure functions of their inputs".
package pipeline

import (
	"context"
	"fmt"

	"github.com/wdlkit/wdlkit/internal/checker"
	"github.com/wdlkit/wdlkit/internal/eval"
	"github.com/wdlkit/wdlkit/internal/importresolve"
	"github.com/wdlkit/wdlkit/internal/source"
	"github.com/wdlkit/wdlkit/pkg/wdl"
)

// CheckResult is the outcome of loading and type-checking a document
// graph rooted at one source URI.
type CheckResult struct {
	Root   *wdl.Document
	Errors wdl.ErrorList
}

// Check resolves sourceURI's import graph and type-checks every
// document reachable from it, returning the root document and the
// combined TypeErrors from every document in the graph.
func Check(ctx context.Context, src *source.Resolver, sourceURI string) (*CheckResult, error) {
	resolver := importresolve.New(src)
	root, err := resolver.Resolve(ctx, sourceURI)
	if err != nil {
		if werr, ok := err.(*wdl.Error); ok {
			return &CheckResult{Errors: wdl.ErrorList{werr}}, nil
		}
		return nil, err
	}

	docs := importresolve.AllDocuments(root)
	c := checker.New(docs)

	var errs wdl.ErrorList
	for _, doc := range docs {
		errs = append(errs, c.CheckDocument(doc)...)
	}
	return &CheckResult{Root: root, Errors: errs}, nil
}

// EvalTarget names a task or workflow within a checked document to
// evaluate.
type EvalTarget struct {
	// TaskName selects a task by name; empty selects the document's
	// single workflow.
	TaskName string
}

// EvalResult is the outcome of evaluating a target's inputs, outputs,
// and (for a task) command string.
type EvalResult struct {
	Outputs map[string]wdl.Value
	Command string // set only when the target is a task
}

// Evaluate type-checks sourceURI, then evaluates target's declarations
// (inputs seeded from the given JSON-shaped values, in the mapping
// spec.md §6 fixes) followed by its outputs and, for a task, its
// command section.
func Evaluate(ctx context.Context, src *source.Resolver, files eval.FileIO, sourceURI string, target EvalTarget, inputs map[string]wdl.Value) (*EvalResult, error) {
	res, err := Check(ctx, src, sourceURI)
	if err != nil {
		return nil, err
	}
	if res.Errors.HasErrors() {
		return nil, res.Errors
	}

	ev := eval.New(files)

	if target.TaskName != "" {
		for _, t := range res.Root.Tasks {
			if t.Name != target.TaskName {
				continue
			}
			return evaluateTask(ctx, ev, t, inputs)
		}
		return nil, fmt.Errorf("pipeline: task %q not found", target.TaskName)
	}

	if res.Root.Workflow == nil {
		return nil, fmt.Errorf("pipeline: document has no workflow")
	}
	return evaluateWorkflow(ctx, ev, res.Root.Workflow, inputs)
}

func evaluateTask(ctx context.Context, ev *eval.Evaluator, t *wdl.Task, inputs map[string]wdl.Value) (*EvalResult, error) {
	env, err := ev.ApplyDeclarations(ctx, eval.NewEnv(), t.Inputs, inputs)
	if err != nil {
		return nil, err
	}
	env, err = ev.ApplyDeclarations(ctx, env, t.Decls, nil)
	if err != nil {
		return nil, err
	}
	cmd, err := ev.ApplyCommand(ctx, env, t.Command)
	if err != nil {
		return nil, err
	}
	env, err = ev.ApplyDeclarations(ctx, env, t.Outputs, nil)
	if err != nil {
		return nil, err
	}
	outs := make(map[string]wdl.Value, len(t.Outputs))
	for _, o := range t.Outputs {
		v, _ := env.Lookup(o.Name)
		outs[o.Name] = v
	}
	return &EvalResult{Outputs: outs, Command: cmd}, nil
}

// evaluateWorkflow evaluates a workflow's input and output
// declarations directly. Running the calls within a workflow body
// means invoking a task's materialized command on an external
// executor, which spec.md places out of scope for this front end; a
// workflow whose body contains a Call, Scatter, or Conditional
// element is rejected rather than partially evaluated.
func evaluateWorkflow(ctx context.Context, ev *eval.Evaluator, w *wdl.Workflow, inputs map[string]wdl.Value) (*EvalResult, error) {
	for _, el := range w.Body {
		switch n := el.(type) {
		case *wdl.Declaration:
			continue
		default:
			return nil, fmt.Errorf("pipeline: workflow %q contains a %T; evaluating call/scatter/conditional bodies requires an external task executor", w.Name, n)
		}
	}

	env, err := ev.ApplyDeclarations(ctx, eval.NewEnv(), w.Inputs, inputs)
	if err != nil {
		return nil, err
	}
	for _, el := range w.Body {
		d := el.(*wdl.Declaration)
		env, err = ev.ApplyDeclarations(ctx, env, []*wdl.Declaration{d}, nil)
		if err != nil {
			return nil, err
		}
	}
	env, err = ev.ApplyDeclarations(ctx, env, w.Outputs, nil)
	if err != nil {
		return nil, err
	}
	outs := make(map[string]wdl.Value, len(w.Outputs))
	for _, o := range w.Outputs {
		v, _ := env.Lookup(o.Name)
		outs[o.Name] = v
	}
	return &EvalResult{Outputs: outs}, nil
}
