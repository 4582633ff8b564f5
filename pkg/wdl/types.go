package wdl

import (
	"fmt"
	"strings"
)

// Kind tags the variant of a Type. Go has no closed sum type, so the
// type lattice of spec.md §3.3 is modeled as one struct with a Kind
// discriminant plus the fields relevant to that kind, mirroring the
// embedding-based schema sums seen in the pack's CWL type models
// (adapted to an explicit tag since embedding gives an open, not
// closed, set of variants).
type Kind int

const (
	KindBoolean Kind = iota
	KindInt
	KindFloat
	KindString
	KindFile
	KindDirectory
	KindArray
	KindMap
	KindPair
	KindOptional
	KindObject
	KindStruct
	KindCall
	KindAny
	KindUnknown
	KindFunction
)

// Type is one node of the WDL type lattice.
type Type struct {
	Kind Kind

	// Array
	Elem     *Type
	NonEmpty bool

	// Map
	Key   *Type
	Value *Type

	// Pair
	Left  *Type
	Right *Type

	// Optional
	Inner *Type

	// Struct / Call: ordered member/output names with their types.
	Name        string
	MemberNames []string
	Members     map[string]*Type

	// Function_n
	ArgTypes   []*Type
	ReturnType *Type
}

// Primitive constructors.
func Boolean() *Type   { return &Type{Kind: KindBoolean} }
func Int() *Type       { return &Type{Kind: KindInt} }
func Float() *Type     { return &Type{Kind: KindFloat} }
func String() *Type    { return &Type{Kind: KindString} }
func File() *Type      { return &Type{Kind: KindFile} }
func Directory() *Type { return &Type{Kind: KindDirectory} }
func Any() *Type       { return &Type{Kind: KindAny} }
func Unknown() *Type   { return &Type{Kind: KindUnknown} }
func ObjectType() *Type { return &Type{Kind: KindObject} }

// ArrayOf builds Array(elem, nonEmpty).
func ArrayOf(elem *Type, nonEmpty bool) *Type {
	return &Type{Kind: KindArray, Elem: elem, NonEmpty: nonEmpty}
}

// MapOf builds Map(key, value).
func MapOf(key, value *Type) *Type {
	return &Type{Kind: KindMap, Key: key, Value: value}
}

// PairOf builds Pair(left, right).
func PairOf(left, right *Type) *Type {
	return &Type{Kind: KindPair, Left: left, Right: right}
}

// OptionalOf builds Optional(inner). Optional(Optional(T)) is
// flattened to Optional(T) per spec.md §3.3's invariant and the
// default resolution of the Open Question in §9. The flattening is
// unconditional; checker.FlattenNestedOptional does not change it.
func OptionalOf(inner *Type) *Type {
	if inner != nil && inner.Kind == KindOptional {
		return inner
	}
	return &Type{Kind: KindOptional, Inner: inner}
}

// StructOf builds a named Struct type with ordered members.
func StructOf(name string, memberNames []string, members map[string]*Type) *Type {
	return &Type{Kind: KindStruct, Name: name, MemberNames: memberNames, Members: members}
}

// CallOf builds a Call(name, outputs) type produced by a workflow Call.
func CallOf(name string, outputNames []string, outputs map[string]*Type) *Type {
	return &Type{Kind: KindCall, Name: name, MemberNames: outputNames, Members: outputs}
}

// FunctionOf builds a Function_n prototype type.
func FunctionOf(name string, args []*Type, ret *Type) *Type {
	return &Type{Kind: KindFunction, Name: name, ArgTypes: args, ReturnType: ret}
}

// String renders a Type in WDL-ish surface syntax, used in error
// messages and by the CLI's `parse` output.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindBoolean:
		return "Boolean"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindFile:
		return "File"
	case KindDirectory:
		return "Directory"
	case KindObject:
		return "Object"
	case KindAny:
		return "Any"
	case KindUnknown:
		return "Unknown"
	case KindArray:
		suffix := ""
		if t.NonEmpty {
			suffix = "+"
		}
		return fmt.Sprintf("Array[%s]%s", t.Elem, suffix)
	case KindMap:
		return fmt.Sprintf("Map[%s,%s]", t.Key, t.Value)
	case KindPair:
		return fmt.Sprintf("Pair[%s,%s]", t.Left, t.Right)
	case KindOptional:
		return t.Inner.String() + "?"
	case KindStruct:
		return t.Name
	case KindCall:
		return fmt.Sprintf("Call<%s>", t.Name)
	case KindFunction:
		parts := make([]string, len(t.ArgTypes))
		for i, a := range t.ArgTypes {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s(%s) -> %s", t.Name, strings.Join(parts, ", "), t.ReturnType)
	}
	return "?"
}

// Equal reports structural equality, ignoring NonEmpty-vs-subtype
// distinctions (use IsCoercibleTo for subtyping).
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindArray:
		return t.NonEmpty == o.NonEmpty && t.Elem.Equal(o.Elem)
	case KindMap:
		return t.Key.Equal(o.Key) && t.Value.Equal(o.Value)
	case KindPair:
		return t.Left.Equal(o.Left) && t.Right.Equal(o.Right)
	case KindOptional:
		return t.Inner.Equal(o.Inner)
	case KindStruct:
		if t.Name != o.Name || len(t.MemberNames) != len(o.MemberNames) {
			return false
		}
		for _, n := range t.MemberNames {
			om, ok := o.Members[n]
			if !ok || !t.Members[n].Equal(om) {
				return false
			}
		}
		return true
	case KindCall:
		return t.Name == o.Name
	default:
		return true
	}
}

// IsOptional reports whether t is Optional(_).
func (t *Type) IsOptional() bool {
	return t != nil && t.Kind == KindOptional
}

// IsPrimitive reports whether t is one of the six primitive kinds.
func (t *Type) IsPrimitive() bool {
	switch t.Kind {
	case KindBoolean, KindInt, KindFloat, KindString, KindFile, KindDirectory:
		return true
	}
	return false
}
