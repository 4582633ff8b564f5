package eval

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/wdlkit/wdlkit/pkg/wdl"
)

// evalApply dispatches an ApplyExpr to its stdlib implementation.
// Overload disambiguation mirrors internal/checker/apply.go: dispatch
// on the function name plus the runtime kind of the arguments actually
// evaluated, since ResolvedFunc.Name is all that the checker promises
// to have picked consistently across overloads of the same name.
func (ev *Evaluator) evalApply(ctx context.Context, env *Env, n *wdl.ApplyExpr) (wdl.Value, error) {
	args := make([]wdl.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := ev.Eval(ctx, env, a)
		if err != nil {
			return wdl.Value{}, err
		}
		args[i] = v
	}
	span := n.ExprSpan

	switch n.FuncName {
	case "read_lines":
		return ev.readLines(ctx, span, args[0])
	case "read_string":
		return ev.readString(ctx, span, args[0])
	case "read_int":
		return ev.readScalar(ctx, span, args[0], wdl.Int())
	case "read_float":
		return ev.readScalar(ctx, span, args[0], wdl.Float())
	case "read_boolean":
		return ev.readScalar(ctx, span, args[0], wdl.Boolean())
	case "read_map":
		return ev.readMap(ctx, span, args[0])
	case "read_tsv":
		return ev.readTSV(ctx, span, args[0])
	case "read_object":
		return ev.readObject(ctx, span, args[0])
	case "read_objects":
		return ev.readObjects(ctx, span, args[0])
	case "read_json":
		return ev.readJSON(ctx, span, args[0])
	case "write_lines":
		return ev.writeLines(ctx, span, args[0])
	case "write_tsv":
		return ev.writeTSV(ctx, span, args[0])
	case "write_map":
		return ev.writeMap(ctx, span, args[0])
	case "write_object":
		return ev.writeObjects(ctx, span, wdl.ArrayValue([]wdl.Value{args[0]}))
	case "write_objects":
		return ev.writeObjects(ctx, span, args[0])
	case "write_json":
		return ev.writeJSON(ctx, span, args[0])
	case "stdout":
		return wdl.FileValue(ev.Stdout), nil
	case "stderr":
		return wdl.FileValue(ev.Stderr), nil
	case "glob":
		pattern, _ := args[0].CanonicalString()
		matches, err := ev.Files.Glob(pattern)
		if err != nil {
			return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "glob %q: %v", pattern, err)
		}
		elems := make([]wdl.Value, len(matches))
		for i, m := range matches {
			elems[i] = wdl.FileValue(m)
		}
		return wdl.ArrayValue(elems), nil
	case "size":
		return ev.size(span, args)
	case "basename":
		return basenameFn(span, args)
	case "sub":
		return subFn(span, args)
	case "sep":
		return sepFn(span, args)
	case "prefix":
		return affixFn(span, args, true)
	case "suffix":
		return affixFn(span, args, false)
	case "quote":
		return quoteFn(span, args, `"`)
	case "squote":
		return quoteFn(span, args, `'`)
	case "length":
		return lengthFn(span, args[0])
	case "range":
		n := args[0].Int
		elems := make([]wdl.Value, 0, n)
		for i := int64(0); i < n; i++ {
			elems = append(elems, wdl.IntValue(i))
		}
		return wdl.ArrayValue(elems), nil
	case "transpose":
		return transposeFn(span, args[0])
	case "zip":
		return zipFn(args[0], args[1])
	case "cross":
		return crossFn(args[0], args[1])
	case "flatten":
		return flattenFn(args[0])
	case "select_first":
		return selectFirst(span, args[0])
	case "select_all":
		return selectAll(args[0]), nil
	case "defined":
		return wdl.BoolValue(!args[0].IsNull()), nil
	case "ceil":
		return wdl.IntValue(int64(math.Ceil(asFloat(args[0])))), nil
	case "floor":
		return wdl.IntValue(int64(math.Floor(asFloat(args[0])))), nil
	case "round":
		return wdl.IntValue(int64(math.Round(asFloat(args[0])))), nil
	case "min":
		return minMaxFn(args[0], args[1], true), nil
	case "max":
		return minMaxFn(args[0], args[1], false), nil
	default:
		return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "no evaluator implementation for stdlib function %q", n.FuncName)
	}
}

func splitLines(data []byte) []string {
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func (ev *Evaluator) readLines(ctx context.Context, span wdl.Span, f wdl.Value) (wdl.Value, error) {
	path, _ := f.Unwrap().CanonicalString()
	data, err := ev.Files.ReadFile(ctx, path)
	if err != nil {
		return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "read_lines %q: %v", path, err)
	}
	lines := splitLines(data)
	elems := make([]wdl.Value, len(lines))
	for i, l := range lines {
		elems[i] = wdl.StringValue(l)
	}
	return wdl.ArrayValue(elems), nil
}

func (ev *Evaluator) readString(ctx context.Context, span wdl.Span, f wdl.Value) (wdl.Value, error) {
	path, _ := f.Unwrap().CanonicalString()
	data, err := ev.Files.ReadFile(ctx, path)
	if err != nil {
		return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "read_string %q: %v", path, err)
	}
	return wdl.StringValue(strings.TrimSuffix(string(data), "\n")), nil
}

func (ev *Evaluator) readScalar(ctx context.Context, span wdl.Span, f wdl.Value, kind *wdl.Type) (wdl.Value, error) {
	sv, err := ev.readString(ctx, span, f)
	if err != nil {
		return wdl.Value{}, err
	}
	text := strings.TrimSpace(sv.Str)
	switch kind.Kind {
	case wdl.KindInt:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "read_int: %v", err)
		}
		return wdl.IntValue(i), nil
	case wdl.KindFloat:
		fl, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "read_float: %v", err)
		}
		return wdl.FloatValue(fl), nil
	case wdl.KindBoolean:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "read_boolean: %v", err)
		}
		return wdl.BoolValue(b), nil
	}
	return wdl.Value{}, wdl.NewInternalError("readScalar", "unsupported scalar kind")
}

func (ev *Evaluator) readTSV(ctx context.Context, span wdl.Span, f wdl.Value) (wdl.Value, error) {
	path, _ := f.Unwrap().CanonicalString()
	data, err := ev.Files.ReadFile(ctx, path)
	if err != nil {
		return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "read_tsv %q: %v", path, err)
	}
	rows := splitLines(data)
	out := make([]wdl.Value, len(rows))
	for i, row := range rows {
		cols := strings.Split(row, "\t")
		elems := make([]wdl.Value, len(cols))
		for j, c := range cols {
			elems[j] = wdl.StringValue(c)
		}
		out[i] = wdl.ArrayValue(elems)
	}
	return wdl.ArrayValue(out), nil
}

func (ev *Evaluator) readMap(ctx context.Context, span wdl.Span, f wdl.Value) (wdl.Value, error) {
	rows, err := ev.readTSV(ctx, span, f)
	if err != nil {
		return wdl.Value{}, err
	}
	entries := make([]wdl.MapEntry, len(rows.Elems))
	for i, row := range rows.Elems {
		if len(row.Elems) != 2 {
			return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "read_map: row %d does not have exactly 2 columns", i)
		}
		entries[i] = wdl.MapEntry{Key: row.Elems[0], Value: row.Elems[1]}
	}
	return wdl.MapValue(entries), nil
}

func (ev *Evaluator) readObject(ctx context.Context, span wdl.Span, f wdl.Value) (wdl.Value, error) {
	rows, err := ev.readTSV(ctx, span, f)
	if err != nil {
		return wdl.Value{}, err
	}
	if len(rows.Elems) != 2 {
		return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "read_object: expected exactly 2 lines (header, values)")
	}
	return objectFromRow(rows.Elems[0], rows.Elems[1])
}

func (ev *Evaluator) readObjects(ctx context.Context, span wdl.Span, f wdl.Value) (wdl.Value, error) {
	rows, err := ev.readTSV(ctx, span, f)
	if err != nil {
		return wdl.Value{}, err
	}
	if len(rows.Elems) < 1 {
		return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "read_objects: missing header row")
	}
	header := rows.Elems[0]
	objs := make([]wdl.Value, 0, len(rows.Elems)-1)
	for _, row := range rows.Elems[1:] {
		o, err := objectFromRow(header, row)
		if err != nil {
			return wdl.Value{}, err
		}
		objs = append(objs, o)
	}
	return wdl.ArrayValue(objs), nil
}

func objectFromRow(header, row wdl.Value) (wdl.Value, error) {
	if len(header.Elems) != len(row.Elems) {
		return wdl.Value{}, fmt.Errorf("read_object: header/value column count mismatch")
	}
	names := make([]string, len(header.Elems))
	fields := make(map[string]wdl.Value, len(header.Elems))
	for i, h := range header.Elems {
		names[i] = h.Str
		fields[h.Str] = row.Elems[i]
	}
	return wdl.ObjectValue(names, fields), nil
}

func (ev *Evaluator) readJSON(ctx context.Context, span wdl.Span, f wdl.Value) (wdl.Value, error) {
	path, _ := f.Unwrap().CanonicalString()
	data, err := ev.Files.ReadFile(ctx, path)
	if err != nil {
		return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "read_json %q: %v", path, err)
	}
	v, err := ev.JSON.Decode(data)
	if err != nil {
		return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "read_json %q: %v", path, err)
	}
	return v, nil
}

func (ev *Evaluator) writeLines(ctx context.Context, span wdl.Span, arr wdl.Value) (wdl.Value, error) {
	var sb strings.Builder
	for _, e := range arr.Elems {
		s, _ := e.CanonicalString()
		sb.WriteString(s)
		sb.WriteByte('\n')
	}
	return ev.writeTemp(ctx, span, "write_lines", []byte(sb.String()))
}

func (ev *Evaluator) writeTSV(ctx context.Context, span wdl.Span, arr wdl.Value) (wdl.Value, error) {
	var sb strings.Builder
	for _, row := range arr.Elems {
		cols := make([]string, len(row.Elems))
		for i, c := range row.Elems {
			cols[i], _ = c.CanonicalString()
		}
		sb.WriteString(strings.Join(cols, "\t"))
		sb.WriteByte('\n')
	}
	return ev.writeTemp(ctx, span, "write_tsv", []byte(sb.String()))
}

func (ev *Evaluator) writeMap(ctx context.Context, span wdl.Span, m wdl.Value) (wdl.Value, error) {
	var sb strings.Builder
	for _, e := range m.Entries {
		k, _ := e.Key.CanonicalString()
		v, _ := e.Value.CanonicalString()
		sb.WriteString(k)
		sb.WriteByte('\t')
		sb.WriteString(v)
		sb.WriteByte('\n')
	}
	return ev.writeTemp(ctx, span, "write_map", []byte(sb.String()))
}

func (ev *Evaluator) writeObjects(ctx context.Context, span wdl.Span, objs wdl.Value) (wdl.Value, error) {
	if len(objs.Elems) == 0 {
		return ev.writeTemp(ctx, span, "write_objects", nil)
	}
	header := objs.Elems[0].MemberNames
	var sb strings.Builder
	sb.WriteString(strings.Join(header, "\t"))
	sb.WriteByte('\n')
	for _, o := range objs.Elems {
		cols := make([]string, len(header))
		for i, name := range header {
			cols[i], _ = o.Fields[name].CanonicalString()
		}
		sb.WriteString(strings.Join(cols, "\t"))
		sb.WriteByte('\n')
	}
	return ev.writeTemp(ctx, span, "write_objects", []byte(sb.String()))
}

func (ev *Evaluator) writeJSON(ctx context.Context, span wdl.Span, v wdl.Value) (wdl.Value, error) {
	data, err := ev.JSON.Encode(v)
	if err != nil {
		return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "write_json: %v", err)
	}
	return ev.writeTemp(ctx, span, "write_json", data)
}

func (ev *Evaluator) writeTemp(ctx context.Context, span wdl.Span, who string, data []byte) (wdl.Value, error) {
	path, err := ev.Files.WriteFile(ctx, data)
	if err != nil {
		return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "%s: %v", who, err)
	}
	return wdl.FileValue(path), nil
}

func (ev *Evaluator) size(span wdl.Span, args []wdl.Value) (wdl.Value, error) {
	unit := "B"
	if len(args) > 1 {
		unit, _ = args[1].CanonicalString()
	}
	var total int64
	target := args[0].Unwrap()
	switch target.Kind {
	case wdl.ValArray:
		for _, e := range target.Elems {
			if e.IsNull() {
				continue
			}
			p, _ := e.Unwrap().CanonicalString()
			sz, err := ev.Files.Stat(p)
			if err != nil {
				return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "size: %v", err)
			}
			total += sz
		}
	default:
		if args[0].IsNull() {
			return wdl.FloatValue(0), nil
		}
		p, _ := target.CanonicalString()
		sz, err := ev.Files.Stat(p)
		if err != nil {
			return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "size: %v", err)
		}
		total = sz
	}
	return wdl.FloatValue(float64(total) / sizeUnitDivisor(unit)), nil
}

func sizeUnitDivisor(unit string) float64 {
	switch strings.ToUpper(unit) {
	case "B":
		return 1
	case "K", "KB":
		return 1000
	case "KI", "KIB":
		return 1024
	case "M", "MB":
		return 1000 * 1000
	case "MI", "MIB":
		return 1024 * 1024
	case "G", "GB":
		return 1000 * 1000 * 1000
	case "GI", "GIB":
		return 1024 * 1024 * 1024
	case "T", "TB":
		return 1e12
	case "TI", "TIB":
		return math.Pow(1024, 4)
	default:
		return 1
	}
}

func basenameFn(span wdl.Span, args []wdl.Value) (wdl.Value, error) {
	p, _ := args[0].Unwrap().CanonicalString()
	base := p
	if idx := strings.LastIndexByte(p, '/'); idx >= 0 {
		base = p[idx+1:]
	}
	if len(args) > 1 {
		suffix, _ := args[1].CanonicalString()
		base = strings.TrimSuffix(base, suffix)
	}
	return wdl.StringValue(base), nil
}

func subFn(span wdl.Span, args []wdl.Value) (wdl.Value, error) {
	input, _ := args[0].CanonicalString()
	pattern, _ := args[1].CanonicalString()
	replace, _ := args[2].CanonicalString()
	re, err := regexp.Compile(pattern)
	if err != nil {
		return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "sub: invalid pattern %q: %v", pattern, err)
	}
	return wdl.StringValue(re.ReplaceAllString(input, replace)), nil
}

func sepFn(span wdl.Span, args []wdl.Value) (wdl.Value, error) {
	sep, _ := args[0].CanonicalString()
	parts := make([]string, len(args[1].Elems))
	for i, e := range args[1].Elems {
		parts[i], _ = e.CanonicalString()
	}
	return wdl.StringValue(strings.Join(parts, sep)), nil
}

func affixFn(span wdl.Span, args []wdl.Value, isPrefix bool) (wdl.Value, error) {
	aff, _ := args[0].CanonicalString()
	out := make([]wdl.Value, len(args[1].Elems))
	for i, e := range args[1].Elems {
		s, _ := e.CanonicalString()
		if isPrefix {
			out[i] = wdl.StringValue(aff + s)
		} else {
			out[i] = wdl.StringValue(s + aff)
		}
	}
	return wdl.ArrayValue(out), nil
}

func quoteFn(span wdl.Span, args []wdl.Value, mark string) (wdl.Value, error) {
	out := make([]wdl.Value, len(args[0].Elems))
	for i, e := range args[0].Elems {
		s, _ := e.CanonicalString()
		out[i] = wdl.StringValue(mark + s + mark)
	}
	return wdl.ArrayValue(out), nil
}

func lengthFn(span wdl.Span, v wdl.Value) (wdl.Value, error) {
	switch v.Kind {
	case wdl.ValArray:
		return wdl.IntValue(int64(len(v.Elems))), nil
	case wdl.ValMap:
		return wdl.IntValue(int64(len(v.Entries))), nil
	default:
		return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "length: argument is not an Array or Map")
	}
}

func transposeFn(span wdl.Span, v wdl.Value) (wdl.Value, error) {
	rows := v.Elems
	if len(rows) == 0 {
		return wdl.ArrayValue(nil), nil
	}
	cols := len(rows[0].Elems)
	out := make([]wdl.Value, cols)
	for c := 0; c < cols; c++ {
		col := make([]wdl.Value, len(rows))
		for r, row := range rows {
			if c >= len(row.Elems) {
				return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "transpose: ragged array")
			}
			col[r] = row.Elems[c]
		}
		out[c] = wdl.ArrayValue(col)
	}
	return wdl.ArrayValue(out), nil
}

func zipFn(a, b wdl.Value) (wdl.Value, error) {
	n := len(a.Elems)
	if len(b.Elems) < n {
		n = len(b.Elems)
	}
	out := make([]wdl.Value, n)
	for i := 0; i < n; i++ {
		out[i] = wdl.PairValue(a.Elems[i], b.Elems[i])
	}
	return wdl.ArrayValue(out), nil
}

func crossFn(a, b wdl.Value) (wdl.Value, error) {
	out := make([]wdl.Value, 0, len(a.Elems)*len(b.Elems))
	for _, x := range a.Elems {
		for _, y := range b.Elems {
			out = append(out, wdl.PairValue(x, y))
		}
	}
	return wdl.ArrayValue(out), nil
}

func flattenFn(v wdl.Value) (wdl.Value, error) {
	var out []wdl.Value
	for _, inner := range v.Elems {
		out = append(out, inner.Elems...)
	}
	return wdl.ArrayValue(out), nil
}

func selectFirst(span wdl.Span, v wdl.Value) (wdl.Value, error) {
	for _, e := range v.Elems {
		if !e.IsNull() {
			return e.Unwrap(), nil
		}
	}
	return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonStdlibFailure, "select_first: all elements are null")
}

func selectAll(v wdl.Value) wdl.Value {
	var out []wdl.Value
	for _, e := range v.Elems {
		if !e.IsNull() {
			out = append(out, e.Unwrap())
		}
	}
	return wdl.ArrayValue(out)
}

func minMaxFn(a, b wdl.Value, wantMin bool) wdl.Value {
	af, bf := asFloat(a), asFloat(b)
	pickA := af < bf
	if !wantMin {
		pickA = af > bf
	}
	if pickA {
		return a
	}
	return b
}
