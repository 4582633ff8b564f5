package eval

import "github.com/wdlkit/wdlkit/pkg/wdl"

// coerceValue applies the runtime side of the coercion relation
// checked statically by pkg/wdl.IsCoercibleTo (spec.md §3.4), producing
// the Value the target type expects. It assumes the checker already
// verified from ⟶ to for the static types involved; a mismatch here
// (e.g. a Map value reaching a Struct target) is an internal inference
// bug, not a user-facing coercion failure, and reported as such.
func coerceValue(span wdl.Span, v wdl.Value, to *wdl.Type) (wdl.Value, error) {
	if to == nil || to.Kind == wdl.KindAny || to.Kind == wdl.KindUnknown {
		return v, nil
	}
	if to.Kind == wdl.KindOptional {
		if v.IsNull() {
			return wdl.OptionalValue(nil), nil
		}
		inner, err := coerceValue(span, v.Unwrap(), to.Inner)
		if err != nil {
			return wdl.Value{}, err
		}
		return wdl.OptionalValue(&inner), nil
	}
	if v.IsNull() {
		return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonBadCoercion, "cannot coerce Null to non-optional type %s", to)
	}
	v = v.Unwrap()

	switch to.Kind {
	case wdl.KindBoolean, wdl.KindInt:
		return v, nil
	case wdl.KindFloat:
		if v.Kind == wdl.ValInt {
			return wdl.FloatValue(float64(v.Int)), nil
		}
		return v, nil
	case wdl.KindString, wdl.KindFile, wdl.KindDirectory:
		s, err := v.CanonicalString()
		if err != nil {
			return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonBadCoercion, "%v", err)
		}
		switch to.Kind {
		case wdl.KindFile:
			return wdl.FileValue(s), nil
		case wdl.KindDirectory:
			return wdl.DirValue(s), nil
		default:
			return wdl.StringValue(s), nil
		}
	case wdl.KindArray:
		if v.Kind != wdl.ValArray {
			return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonBadCoercion, "expected Array value, found kind %d", v.Kind)
		}
		out := make([]wdl.Value, len(v.Elems))
		for i, e := range v.Elems {
			ce, err := coerceValue(span, e, to.Elem)
			if err != nil {
				return wdl.Value{}, err
			}
			out[i] = ce
		}
		return wdl.ArrayValue(out), nil
	case wdl.KindMap:
		if v.Kind != wdl.ValMap {
			return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonBadCoercion, "expected Map value, found kind %d", v.Kind)
		}
		out := make([]wdl.MapEntry, len(v.Entries))
		for i, e := range v.Entries {
			ck, err := coerceValue(span, e.Key, to.Key)
			if err != nil {
				return wdl.Value{}, err
			}
			cv, err := coerceValue(span, e.Value, to.Value)
			if err != nil {
				return wdl.Value{}, err
			}
			out[i] = wdl.MapEntry{Key: ck, Value: cv}
		}
		return wdl.MapValue(out), nil
	case wdl.KindPair:
		if v.Kind != wdl.ValPair {
			return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonBadCoercion, "expected Pair value, found kind %d", v.Kind)
		}
		l, err := coerceValue(span, *v.Pair.Left, to.Left)
		if err != nil {
			return wdl.Value{}, err
		}
		r, err := coerceValue(span, *v.Pair.Right, to.Right)
		if err != nil {
			return wdl.Value{}, err
		}
		return wdl.PairValue(l, r), nil
	case wdl.KindStruct:
		if v.Kind != wdl.ValObject && v.Kind != wdl.ValStruct {
			return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonBadCoercion, "expected Object or Struct value, found kind %d", v.Kind)
		}
		fields := make(map[string]wdl.Value, len(to.MemberNames))
		for _, name := range to.MemberNames {
			f, ok := v.Fields[name]
			if !ok {
				return wdl.Value{}, wdl.NewEvalError(span, wdl.ReasonBadCoercion, "missing member %q for struct %s", name, to.Name)
			}
			cf, err := coerceValue(span, f, to.Members[name])
			if err != nil {
				return wdl.Value{}, err
			}
			fields[name] = cf
		}
		return wdl.StructValue(to.Name, to.MemberNames, fields), nil
	default:
		return v, nil
	}
}
