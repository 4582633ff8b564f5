package jsonio

import (
	"testing"

	"github.com/wdlkit/wdlkit/pkg/wdl"
)

func TestCodec_DecodePrimitives(t *testing.T) {
	c := NewCodec()

	cases := []struct {
		json string
		want wdl.ValueKind
	}{
		{"null", wdl.ValNull},
		{"true", wdl.ValBoolean},
		{"42", wdl.ValInt},
		{"3.14", wdl.ValFloat},
		{`"hi"`, wdl.ValString},
		{"[1,2,3]", wdl.ValArray},
		{`{"a":1}`, wdl.ValObject},
	}
	for _, c2 := range cases {
		v, err := c.Decode([]byte(c2.json))
		if err != nil {
			t.Fatalf("Decode(%q): %v", c2.json, err)
		}
		if v.Kind != c2.want {
			t.Errorf("Decode(%q).Kind = %v, want %v", c2.json, v.Kind, c2.want)
		}
	}
}

func TestCodec_DecodeInvalid(t *testing.T) {
	c := NewCodec()
	if _, err := c.Decode([]byte("not json")); err == nil {
		t.Error("expected an error decoding invalid JSON")
	}
}

func TestCodec_RoundTripArray(t *testing.T) {
	c := NewCodec()
	orig := wdl.ArrayValue([]wdl.Value{wdl.IntValue(1), wdl.IntValue(2), wdl.IntValue(3)})

	data, err := c.Encode(orig)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := c.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.Equal(orig) {
		t.Errorf("round trip = %v, want %v", got, orig)
	}
}

func TestCodec_RoundTripObject(t *testing.T) {
	c := NewCodec()
	orig := wdl.ObjectValue([]string{"name", "count"}, map[string]wdl.Value{
		"name":  wdl.StringValue("sample"),
		"count": wdl.IntValue(7),
	})

	data, err := c.Encode(orig)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := c.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Kind != wdl.ValObject {
		t.Fatalf("decoded Kind = %v, want ValObject", got.Kind)
	}
	if got.Fields["name"].Str != "sample" {
		t.Errorf("Fields[name] = %v, want sample", got.Fields["name"])
	}
}
