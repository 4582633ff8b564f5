package eval

import (
	"testing"

	"github.com/wdlkit/wdlkit/pkg/wdl"
)

var testSpan = wdl.Span{SourceURI: "test.wdl", StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1}

func TestCoerceValue_IntToFloat(t *testing.T) {
	v, err := coerceValue(testSpan, wdl.IntValue(5), wdl.Float())
	if err != nil {
		t.Fatalf("coerceValue: %v", err)
	}
	if v.Kind != wdl.ValFloat || v.Float != 5.0 {
		t.Errorf("got %+v, want Float(5.0)", v)
	}
}

func TestCoerceValue_StringToFile(t *testing.T) {
	v, err := coerceValue(testSpan, wdl.StringValue("out.txt"), wdl.File())
	if err != nil {
		t.Fatalf("coerceValue: %v", err)
	}
	if v.Kind != wdl.ValFile || v.Str != "out.txt" {
		t.Errorf("got %+v, want File(out.txt)", v)
	}
}

func TestCoerceValue_NullToOptional(t *testing.T) {
	v, err := coerceValue(testSpan, wdl.NullValue(), wdl.OptionalOf(wdl.Int()))
	if err != nil {
		t.Fatalf("coerceValue: %v", err)
	}
	if v.Kind != wdl.ValOptional || v.Inner != nil {
		t.Errorf("got %+v, want Optional(nil)", v)
	}
}

func TestCoerceValue_NullToNonOptionalFails(t *testing.T) {
	_, err := coerceValue(testSpan, wdl.NullValue(), wdl.Int())
	if err == nil {
		t.Fatal("expected error coercing Null into a non-optional type")
	}
	werr, ok := err.(*wdl.Error)
	if !ok || werr.Kind != wdl.KindEvalError || werr.Reason != wdl.ReasonBadCoercion {
		t.Errorf("got %v, want an EvalError with ReasonBadCoercion", err)
	}
}

func TestCoerceValue_ArrayElementwise(t *testing.T) {
	arr := wdl.ArrayValue([]wdl.Value{wdl.IntValue(1), wdl.IntValue(2)})
	v, err := coerceValue(testSpan, arr, wdl.ArrayOf(wdl.Float(), false))
	if err != nil {
		t.Fatalf("coerceValue: %v", err)
	}
	if len(v.Elems) != 2 || v.Elems[0].Kind != wdl.ValFloat {
		t.Errorf("got %+v, want Array(Float) elements", v)
	}
}

func TestCoerceValue_MapKindMismatch(t *testing.T) {
	_, err := coerceValue(testSpan, wdl.IntValue(1), wdl.MapOf(wdl.String(), wdl.Int()))
	if err == nil {
		t.Fatal("expected error coercing a non-Map value to a Map type")
	}
}

func TestCoerceValue_ObjectToStruct(t *testing.T) {
	obj := wdl.ObjectValue([]string{"a", "b"}, map[string]wdl.Value{
		"a": wdl.IntValue(1),
		"b": wdl.StringValue("x"),
	})
	target := wdl.StructOf("Pair2", []string{"a", "b"}, map[string]*wdl.Type{
		"a": wdl.Int(),
		"b": wdl.String(),
	})
	v, err := coerceValue(testSpan, obj, target)
	if err != nil {
		t.Fatalf("coerceValue: %v", err)
	}
	if v.Kind != wdl.ValStruct || v.Name != "Pair2" {
		t.Errorf("got %+v, want Struct(Pair2)", v)
	}
}

func TestCoerceValue_StructMissingMember(t *testing.T) {
	obj := wdl.ObjectValue([]string{"a"}, map[string]wdl.Value{"a": wdl.IntValue(1)})
	target := wdl.StructOf("Pair2", []string{"a", "b"}, map[string]*wdl.Type{
		"a": wdl.Int(),
		"b": wdl.String(),
	})
	if _, err := coerceValue(testSpan, obj, target); err == nil {
		t.Fatal("expected error for missing struct member")
	}
}

func TestCoerceValue_AnyPassesThrough(t *testing.T) {
	v, err := coerceValue(testSpan, wdl.IntValue(9), wdl.Any())
	if err != nil {
		t.Fatalf("coerceValue: %v", err)
	}
	if v.Kind != wdl.ValInt || v.Int != 9 {
		t.Errorf("got %+v, want unchanged Int(9)", v)
	}
}
