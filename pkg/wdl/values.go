package wdl

import (
	"fmt"
	"sort"
	"strconv"
)

// ValueKind tags the variant of a runtime Value (spec.md §3.5).
type ValueKind int

const (
	ValNull ValueKind = iota
	ValBoolean
	ValInt
	ValFloat
	ValString
	ValFile
	ValDirectory
	ValPair
	ValArray
	ValMap
	ValOptional
	ValStruct
	ValObject
	ValCall
)

// MapEntry is one key/value pair of a Map value, kept in insertion
// order so equality (spec.md §4.5: "order-independent... pointwise")
// and serialization are deterministic modulo the stated rule.
type MapEntry struct {
	Key   Value
	Value Value
}

// Value is a runtime value produced by the evaluator. It carries no
// span (spec.md §3.5).
type Value struct {
	Kind ValueKind

	Bool   bool
	Int    int64
	Float  float64
	Str    string // also backs File/Directory

	Pair struct {
		Left, Right *Value
	}
	Elems   []Value    // Array
	Entries []MapEntry // Map
	Inner   *Value     // Optional (nil means Optional(Null))

	// Struct / Object / Call
	Name        string
	MemberNames []string
	Fields      map[string]Value
}

// NullValue is the singleton Null value.
func NullValue() Value { return Value{Kind: ValNull} }

func BoolValue(b bool) Value    { return Value{Kind: ValBoolean, Bool: b} }
func IntValue(i int64) Value    { return Value{Kind: ValInt, Int: i} }
func FloatValue(f float64) Value { return Value{Kind: ValFloat, Float: f} }
func StringValue(s string) Value { return Value{Kind: ValString, Str: s} }
func FileValue(s string) Value   { return Value{Kind: ValFile, Str: s} }
func DirValue(s string) Value    { return Value{Kind: ValDirectory, Str: s} }

func ArrayValue(elems []Value) Value {
	return Value{Kind: ValArray, Elems: elems}
}

func MapValue(entries []MapEntry) Value {
	return Value{Kind: ValMap, Entries: entries}
}

func PairValue(left, right Value) Value {
	v := Value{Kind: ValPair}
	v.Pair.Left, v.Pair.Right = &left, &right
	return v
}

func OptionalValue(inner *Value) Value {
	if inner == nil {
		return Value{Kind: ValOptional}
	}
	return Value{Kind: ValOptional, Inner: inner}
}

func StructValue(name string, memberNames []string, fields map[string]Value) Value {
	return Value{Kind: ValStruct, Name: name, MemberNames: memberNames, Fields: fields}
}

func ObjectValue(memberNames []string, fields map[string]Value) Value {
	return Value{Kind: ValObject, MemberNames: memberNames, Fields: fields}
}

func CallValue(name string, outputNames []string, fields map[string]Value) Value {
	return Value{Kind: ValCall, Name: name, MemberNames: outputNames, Fields: fields}
}

// IsNull reports whether v is Null or an empty Optional.
func (v Value) IsNull() bool {
	if v.Kind == ValNull {
		return true
	}
	return v.Kind == ValOptional && v.Inner == nil
}

// Unwrap strips one layer of Optional, returning the inner value (or
// Null if the optional was empty).
func (v Value) Unwrap() Value {
	if v.Kind == ValOptional {
		if v.Inner == nil {
			return NullValue()
		}
		return *v.Inner
	}
	return v
}

// CanonicalString renders a value in the canonical string form used
// for command materialization (spec.md §4.5): Int/Float base-10,
// Boolean true/false, File/Directory/String raw text.
func (v Value) CanonicalString() (string, error) {
	switch v.Kind {
	case ValBoolean:
		if v.Bool {
			return "true", nil
		}
		return "false", nil
	case ValInt:
		return strconv.FormatInt(v.Int, 10), nil
	case ValFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64), nil
	case ValString, ValFile, ValDirectory:
		return v.Str, nil
	case ValOptional:
		if v.Inner == nil {
			return "", fmt.Errorf("cannot stringify a null optional value")
		}
		return v.Inner.CanonicalString()
	default:
		return "", fmt.Errorf("value of kind %d is not coercible to String", v.Kind)
	}
}

// Equal implements spec.md §4.5's structural equality: maps compare
// as sets of key/value pairs, independent of order; Object equality is
// structural-by-field-name, the same as struct equality (spec.md §9).
func (v Value) Equal(o Value) bool {
	if v.IsNull() && o.IsNull() {
		return true
	}
	uv, uo := v.Unwrap(), o.Unwrap()
	if uv.Kind != uo.Kind {
		// Numeric cross-kind equality (Int vs Float) is allowed, mirroring
		// the comparison operators' numeric promotion.
		if numericVal(uv) && numericVal(uo) {
			return asFloat(uv) == asFloat(uo)
		}
		// A Struct and an Object compare by field name, as below.
		if (uv.Kind == ValStruct || uv.Kind == ValObject) && (uo.Kind == ValStruct || uo.Kind == ValObject) {
			uo.Kind = uv.Kind
		} else {
			return false
		}
	}
	switch uv.Kind {
	case ValNull:
		return true
	case ValBoolean:
		return uv.Bool == uo.Bool
	case ValInt:
		return uv.Int == uo.Int
	case ValFloat:
		return uv.Float == uo.Float
	case ValString, ValFile, ValDirectory:
		return uv.Str == uo.Str
	case ValPair:
		return uv.Pair.Left.Equal(*uo.Pair.Left) && uv.Pair.Right.Equal(*uo.Pair.Right)
	case ValArray:
		if len(uv.Elems) != len(uo.Elems) {
			return false
		}
		for i := range uv.Elems {
			if !uv.Elems[i].Equal(uo.Elems[i]) {
				return false
			}
		}
		return true
	case ValMap:
		if len(uv.Entries) != len(uo.Entries) {
			return false
		}
		used := make([]bool, len(uo.Entries))
		for _, e := range uv.Entries {
			found := false
			for j, oe := range uo.Entries {
				if used[j] {
					continue
				}
				if e.Key.Equal(oe.Key) && e.Value.Equal(oe.Value) {
					used[j] = true
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case ValStruct, ValObject, ValCall:
		if len(uv.MemberNames) != len(uo.MemberNames) {
			return false
		}
		for _, n := range uv.MemberNames {
			of, ok := uo.Fields[n]
			if !ok || !uv.Fields[n].Equal(of) {
				return false
			}
		}
		return true
	}
	return false
}

func numericVal(v Value) bool { return v.Kind == ValInt || v.Kind == ValFloat }

func asFloat(v Value) float64 {
	if v.Kind == ValInt {
		return float64(v.Int)
	}
	return v.Float
}

// ToJSON converts a Value to its JSON-ready representation per the
// mapping in spec.md §6: Int/Float→number, Boolean→bool,
// String/File/Directory→string, Array→array, Map→object with
// stringified keys, Pair→{left,right}, Struct→object, Null→null.
func (v Value) ToJSON() (any, error) {
	switch v.Kind {
	case ValNull:
		return nil, nil
	case ValOptional:
		if v.Inner == nil {
			return nil, nil
		}
		return v.Inner.ToJSON()
	case ValBoolean:
		return v.Bool, nil
	case ValInt:
		return v.Int, nil
	case ValFloat:
		return v.Float, nil
	case ValString, ValFile, ValDirectory:
		return v.Str, nil
	case ValPair:
		l, err := v.Pair.Left.ToJSON()
		if err != nil {
			return nil, err
		}
		r, err := v.Pair.Right.ToJSON()
		if err != nil {
			return nil, err
		}
		return map[string]any{"left": l, "right": r}, nil
	case ValArray:
		out := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			j, err := e.ToJSON()
			if err != nil {
				return nil, err
			}
			out[i] = j
		}
		return out, nil
	case ValMap:
		out := make(map[string]any, len(v.Entries))
		for _, e := range v.Entries {
			k, err := e.Key.CanonicalString()
			if err != nil {
				return nil, fmt.Errorf("map key not stringifiable: %w", err)
			}
			j, err := e.Value.ToJSON()
			if err != nil {
				return nil, err
			}
			out[k] = j
		}
		return out, nil
	case ValStruct, ValObject, ValCall:
		out := make(map[string]any, len(v.MemberNames))
		for _, n := range v.MemberNames {
			j, err := v.Fields[n].ToJSON()
			if err != nil {
				return nil, err
			}
			out[n] = j
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unrepresentable value kind %d", v.Kind)
	}
}

// SortedMapKeys returns the canonical-string forms of a map value's
// keys in sorted order; used for deterministic write_map/write_json output.
func (v Value) SortedMapKeys() ([]string, error) {
	keys := make([]string, len(v.Entries))
	for i, e := range v.Entries {
		s, err := e.Key.CanonicalString()
		if err != nil {
			return nil, err
		}
		keys[i] = s
	}
	sort.Strings(keys)
	return keys, nil
}
