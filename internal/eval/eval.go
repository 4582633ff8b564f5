// Package eval implements component C6 of spec.md §4.5: the
// expression and declaration evaluator that turns a type-checked AST
// (pkg/wdl.Expr nodes annotated by internal/checker) into runtime
// Values, and materializes a task's command string from them.
package eval

import (
	"context"
	"fmt"
	"strings"

	"github.com/wdlkit/wdlkit/internal/jsonio"
	"github.com/wdlkit/wdlkit/pkg/wdl"
)

// JSONCodec is the union of jsonio.Reader and jsonio.Writer the
// evaluator needs to back read_json/write_json.
type JSONCodec interface {
	jsonio.Reader
	jsonio.Writer
}

// Evaluator holds the state shared across one task or workflow
// evaluation: the injected file-access boundary for I/O-bearing
// stdlib calls, the JSON codec backing read_json/write_json, and the
// captured stdout/stderr paths a running task makes available to the
// stdout()/stderr() builtins.
type Evaluator struct {
	Files  FileIO
	JSON   JSONCodec
	Stdout string
	Stderr string
}

// New builds an Evaluator backed by files, using the default
// encoding/json-backed codec for read_json/write_json.
func New(files FileIO) *Evaluator {
	return &Evaluator{Files: files, JSON: jsonio.NewCodec()}
}

// Eval evaluates e in env, returning the runtime Value (spec.md
// §4.5's `eval(expr, ctx) → Value`).
func (ev *Evaluator) Eval(ctx context.Context, env *Env, e wdl.Expr) (wdl.Value, error) {
	switch n := e.(type) {
	case *wdl.NullLit:
		return wdl.NullValue(), nil
	case *wdl.BoolLit:
		return wdl.BoolValue(n.Value), nil
	case *wdl.IntLit:
		return wdl.IntValue(n.Value), nil
	case *wdl.FloatLit:
		return wdl.FloatValue(n.Value), nil
	case *wdl.CompoundString:
		return ev.evalCompoundString(ctx, env, n)
	case *wdl.IdentifierExpr:
		v, ok := env.Lookup(n.Name)
		if !ok {
			return wdl.Value{}, wdl.NewEvalError(n.ExprSpan, wdl.ReasonMissingBinding, "undefined identifier %q", n.Name)
		}
		return v, nil
	case *wdl.ArrayLit:
		elems := make([]wdl.Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := ev.Eval(ctx, env, el)
			if err != nil {
				return wdl.Value{}, err
			}
			elems[i] = v
		}
		return wdl.ArrayValue(elems), nil
	case *wdl.MapLit:
		entries := make([]wdl.MapEntry, len(n.Entries))
		for i, me := range n.Entries {
			k, err := ev.Eval(ctx, env, me.Key)
			if err != nil {
				return wdl.Value{}, err
			}
			v, err := ev.Eval(ctx, env, me.Value)
			if err != nil {
				return wdl.Value{}, err
			}
			entries[i] = wdl.MapEntry{Key: k, Value: v}
		}
		return wdl.MapValue(entries), nil
	case *wdl.ObjectLit:
		names := make([]string, len(n.Entries))
		fields := make(map[string]wdl.Value, len(n.Entries))
		for i, oe := range n.Entries {
			v, err := ev.Eval(ctx, env, oe.Value)
			if err != nil {
				return wdl.Value{}, err
			}
			names[i] = oe.Name
			fields[oe.Name] = v
		}
		return wdl.ObjectValue(names, fields), nil
	case *wdl.PairExpr:
		l, err := ev.Eval(ctx, env, n.Left)
		if err != nil {
			return wdl.Value{}, err
		}
		r, err := ev.Eval(ctx, env, n.Right)
		if err != nil {
			return wdl.Value{}, err
		}
		return wdl.PairValue(l, r), nil
	case *wdl.BinaryExpr:
		return ev.evalBinary(ctx, env, n)
	case *wdl.UnaryExpr:
		return ev.evalUnary(ctx, env, n)
	case *wdl.IfThenElseExpr:
		return ev.evalIfThenElse(ctx, env, n)
	case *wdl.AtExpr:
		return ev.evalAt(ctx, env, n)
	case *wdl.ApplyExpr:
		return ev.evalApply(ctx, env, n)
	case *wdl.GetNameExpr:
		return ev.evalGetName(ctx, env, n)
	case *wdl.CoerceExpr:
		v, err := ev.Eval(ctx, env, n.X)
		if err != nil {
			return wdl.Value{}, err
		}
		return coerceValue(n.ExprSpan, v, n.ToType)
	case *wdl.PlaceholderEqualExpr:
		cond, err := ev.Eval(ctx, env, n.Cond)
		if err != nil {
			return wdl.Value{}, err
		}
		branch := n.False
		if cond.Kind == wdl.ValBoolean && cond.Bool {
			branch = n.True
		}
		v, err := ev.Eval(ctx, env, branch)
		if err != nil {
			return wdl.Value{}, err
		}
		return ev.stringify(n.ExprSpan, v)
	case *wdl.PlaceholderDefaultExpr:
		v, err := ev.Eval(ctx, env, n.Value)
		if err != nil {
			return wdl.Value{}, err
		}
		if v.IsNull() {
			v, err = ev.Eval(ctx, env, n.Default)
			if err != nil {
				return wdl.Value{}, err
			}
		} else {
			v = v.Unwrap()
		}
		return ev.stringify(n.ExprSpan, v)
	case *wdl.PlaceholderSepExpr:
		sepV, err := ev.Eval(ctx, env, n.Sep)
		if err != nil {
			return wdl.Value{}, err
		}
		sep, err := sepV.CanonicalString()
		if err != nil {
			return wdl.Value{}, wdl.NewEvalError(n.ExprSpan, wdl.ReasonBadCoercion, "%v", err)
		}
		arrV, err := ev.Eval(ctx, env, n.Array)
		if err != nil {
			return wdl.Value{}, err
		}
		if arrV.Kind != wdl.ValArray {
			return wdl.Value{}, wdl.NewEvalError(n.ExprSpan, wdl.ReasonBadCoercion, "sep= requires an Array value")
		}
		parts := make([]string, len(arrV.Elems))
		for i, el := range arrV.Elems {
			s, err := el.CanonicalString()
			if err != nil {
				return wdl.Value{}, wdl.NewEvalError(n.ExprSpan, wdl.ReasonBadCoercion, "%v", err)
			}
			parts[i] = s
		}
		return wdl.StringValue(strings.Join(parts, sep)), nil
	default:
		return wdl.Value{}, wdl.NewInternalError(fmt.Sprintf("%T", e), "unhandled expression node in evaluation")
	}
}

func (ev *Evaluator) stringify(span wdl.Span, v wdl.Value) (wdl.Value, error) {
	s, err := v.CanonicalString()
	if err != nil {
		return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonBadCoercion, "%v", err)
	}
	return wdl.StringValue(s), nil
}

func (ev *Evaluator) evalCompoundString(ctx context.Context, env *Env, n *wdl.CompoundString) (wdl.Value, error) {
	var sb strings.Builder
	for _, f := range n.Fragments {
		if f.Literal != nil {
			sb.WriteString(*f.Literal)
			continue
		}
		v, err := ev.Eval(ctx, env, f.Expr)
		if err != nil {
			return wdl.Value{}, err
		}
		s, err := v.CanonicalString()
		if err != nil {
			return wdl.Value{}, wdl.NewEvalError(f.Expr.Span(), wdl.ReasonBadCoercion, "%v", err)
		}
		sb.WriteString(s)
	}
	return wdl.StringValue(sb.String()), nil
}

func (ev *Evaluator) evalUnary(ctx context.Context, env *Env, n *wdl.UnaryExpr) (wdl.Value, error) {
	v, err := ev.Eval(ctx, env, n.X)
	if err != nil {
		return wdl.Value{}, err
	}
	switch n.Op {
	case "!":
		return wdl.BoolValue(!v.Bool), nil
	case "-":
		if v.Kind == wdl.ValInt {
			return wdl.IntValue(-v.Int), nil
		}
		return wdl.FloatValue(-v.Float), nil
	default:
		return wdl.Value{}, wdl.NewInternalError("UnaryExpr", "unknown unary operator %q", n.Op)
	}
}

func (ev *Evaluator) evalIfThenElse(ctx context.Context, env *Env, n *wdl.IfThenElseExpr) (wdl.Value, error) {
	cond, err := ev.Eval(ctx, env, n.Cond)
	if err != nil {
		return wdl.Value{}, err
	}
	branch := n.False
	if cond.Kind == wdl.ValBoolean && cond.Bool {
		branch = n.True
	}
	v, err := ev.Eval(ctx, env, branch)
	if err != nil {
		return wdl.Value{}, err
	}
	return coerceValue(n.ExprSpan, v, n.Typ)
}

func (ev *Evaluator) evalAt(ctx context.Context, env *Env, n *wdl.AtExpr) (wdl.Value, error) {
	arr, err := ev.Eval(ctx, env, n.Array)
	if err != nil {
		return wdl.Value{}, err
	}
	idx, err := ev.Eval(ctx, env, n.Index)
	if err != nil {
		return wdl.Value{}, err
	}
	switch arr.Kind {
	case wdl.ValArray:
		i := idx.Int
		if i < 0 || i >= int64(len(arr.Elems)) {
			return wdl.Value{}, wdl.NewEvalError(n.ExprSpan, wdl.ReasonIndexOutOfBounds, "array index %d out of bounds (length %d)", i, len(arr.Elems))
		}
		return arr.Elems[i], nil
	case wdl.ValMap:
		for _, e := range arr.Entries {
			if e.Key.Equal(idx) {
				return e.Value, nil
			}
		}
		return wdl.Value{}, wdl.NewEvalError(n.ExprSpan, wdl.ReasonMissingBinding, "map has no entry for the given key")
	default:
		return wdl.Value{}, wdl.NewInternalError("AtExpr", "indexing into non-Array/Map value")
	}
}

func (ev *Evaluator) evalGetName(ctx context.Context, env *Env, n *wdl.GetNameExpr) (wdl.Value, error) {
	v, err := ev.Eval(ctx, env, n.X)
	if err != nil {
		return wdl.Value{}, err
	}
	v = v.Unwrap()
	if v.Kind == wdl.ValPair {
		switch strings.ToLower(n.Field) {
		case "left":
			return *v.Pair.Left, nil
		case "right":
			return *v.Pair.Right, nil
		default:
			return wdl.Value{}, wdl.NewEvalError(n.ExprSpan, wdl.ReasonMissingBinding, "Pair has no member %q", n.Field)
		}
	}
	f, ok := v.Fields[n.Field]
	if !ok {
		return wdl.Value{}, wdl.NewEvalError(n.ExprSpan, wdl.ReasonMissingBinding, "value has no member %q", n.Field)
	}
	return f, nil
}

func (ev *Evaluator) evalBinary(ctx context.Context, env *Env, n *wdl.BinaryExpr) (wdl.Value, error) {
	x, err := ev.Eval(ctx, env, n.X)
	if err != nil {
		return wdl.Value{}, err
	}
	switch n.Op {
	case "&&":
		if !x.Bool {
			return wdl.BoolValue(false), nil
		}
		y, err := ev.Eval(ctx, env, n.Y)
		if err != nil {
			return wdl.Value{}, err
		}
		return wdl.BoolValue(y.Bool), nil
	case "||":
		if x.Bool {
			return wdl.BoolValue(true), nil
		}
		y, err := ev.Eval(ctx, env, n.Y)
		if err != nil {
			return wdl.Value{}, err
		}
		return wdl.BoolValue(y.Bool), nil
	}

	y, err := ev.Eval(ctx, env, n.Y)
	if err != nil {
		return wdl.Value{}, err
	}

	switch n.Op {
	case "==":
		return wdl.BoolValue(x.Equal(y)), nil
	case "!=":
		return wdl.BoolValue(!x.Equal(y)), nil
	case "<", "<=", ">", ">=":
		return compareOrdered(n.ExprSpan, n.Op, x, y)
	case "+":
		if x.Kind == wdl.ValString || x.Kind == wdl.ValFile || y.Kind == wdl.ValString || y.Kind == wdl.ValFile {
			xs, err := x.CanonicalString()
			if err != nil {
				return wdl.Value{}, wdl.NewEvalError(n.ExprSpan, wdl.ReasonBadCoercion, "%v", err)
			}
			ys, err := y.CanonicalString()
			if err != nil {
				return wdl.Value{}, wdl.NewEvalError(n.ExprSpan, wdl.ReasonBadCoercion, "%v", err)
			}
			if x.Kind == wdl.ValFile || y.Kind == wdl.ValFile {
				return wdl.FileValue(xs + ys), nil
			}
			return wdl.StringValue(xs + ys), nil
		}
		return arith(n.ExprSpan, "+", x, y)
	case "-", "*", "/", "%":
		return arith(n.ExprSpan, n.Op, x, y)
	default:
		return wdl.Value{}, wdl.NewInternalError("BinaryExpr", "unknown binary operator %q", n.Op)
	}
}

func arith(span wdl.Span, op string, x, y wdl.Value) (wdl.Value, error) {
	if x.Kind == wdl.ValInt && y.Kind == wdl.ValInt {
		switch op {
		case "+":
			return wdl.IntValue(x.Int + y.Int), nil
		case "-":
			return wdl.IntValue(x.Int - y.Int), nil
		case "*":
			return wdl.IntValue(x.Int * y.Int), nil
		case "/":
			if y.Int == 0 {
				return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonDivisionByZero, "integer division by zero")
			}
			return wdl.IntValue(x.Int / y.Int), nil
		case "%":
			if y.Int == 0 {
				return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonDivisionByZero, "integer modulo by zero")
			}
			return wdl.IntValue(x.Int % y.Int), nil
		}
	}
	xf, yf := asFloat(x), asFloat(y)
	switch op {
	case "+":
		return wdl.FloatValue(xf + yf), nil
	case "-":
		return wdl.FloatValue(xf - yf), nil
	case "*":
		return wdl.FloatValue(xf * yf), nil
	case "/":
		if yf == 0 {
			return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonDivisionByZero, "floating-point division by zero")
		}
		return wdl.FloatValue(xf / yf), nil
	case "%":
		if yf == 0 {
			return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonDivisionByZero, "floating-point modulo by zero")
		}
		return wdl.FloatValue(mathMod(xf, yf)), nil
	}
	return wdl.Value{}, wdl.NewInternalError("BinaryExpr", "unknown arithmetic operator %q", op)
}

func mathMod(a, b float64) float64 {
	m := a - b*float64(int64(a/b))
	return m
}

func asFloat(v wdl.Value) float64 {
	if v.Kind == wdl.ValInt {
		return float64(v.Int)
	}
	return v.Float
}

func compareOrdered(span wdl.Span, op string, x, y wdl.Value) (wdl.Value, error) {
	var cmp int
	switch {
	case x.Kind == wdl.ValString || x.Kind == wdl.ValFile || x.Kind == wdl.ValDirectory:
		xs, _ := x.CanonicalString()
		ys, _ := y.CanonicalString()
		cmp = strings.Compare(xs, ys)
	default:
		xf, yf := asFloat(x), asFloat(y)
		switch {
		case xf < yf:
			cmp = -1
		case xf > yf:
			cmp = 1
		default:
			cmp = 0
		}
	}
	var result bool
	switch op {
	case "<":
		result = cmp < 0
	case "<=":
		result = cmp <= 0
	case ">":
		result = cmp > 0
	case ">=":
		result = cmp >= 0
	default:
		return wdl.Value{}, wdl.NewInternalError("BinaryExpr", "unknown comparison operator %q", op)
	}
	return wdl.BoolValue(result), nil
}
