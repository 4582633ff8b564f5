// Package jsonio backs the stdlib read_json/write_json calls with a
// round-trippable Value/JSON conversion, kept as its own collaborator
// (spec.md §6: "JsonReader/JsonWriter … round-trippable value/JSON
// conversion") rather than inlined in the evaluator, so an alternate
// encoding (e.g. a streaming decoder for very large files) can be
// substituted without touching stdlib dispatch.
package jsonio

import (
	"bytes"
	"encoding/json"

	"github.com/wdlkit/wdlkit/pkg/wdl"
)

// Reader decodes JSON bytes into a runtime Value.
type Reader interface {
	Decode(data []byte) (wdl.Value, error)
}

// Writer encodes a runtime Value as JSON bytes, following the mapping
// spec.md §6 fixes: Int/Float→number, Boolean→bool,
// String/File/Directory→string, Array→array, Map→object with
// stringified keys, Pair→object{left,right}, Struct→object,
// Null→null.
type Writer interface {
	Encode(v wdl.Value) ([]byte, error)
}

// Codec is the default encoding/json-backed Reader and Writer.
type Codec struct{}

// NewCodec returns the default JSON codec.
func NewCodec() *Codec { return &Codec{} }

// Decode parses data as JSON, preserving integer/float distinction via
// json.Number so "1" and "1.0" coerce to Int and Float respectively.
func (Codec) Decode(data []byte) (wdl.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return wdl.Value{}, err
	}
	return fromAny(raw), nil
}

// Encode serializes v via wdl.Value.ToJSON then marshals the result.
func (Codec) Encode(v wdl.Value) ([]byte, error) {
	j, err := v.ToJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(j)
}

func fromAny(raw any) wdl.Value {
	switch v := raw.(type) {
	case nil:
		return wdl.NullValue()
	case bool:
		return wdl.BoolValue(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return wdl.IntValue(i)
		}
		f, _ := v.Float64()
		return wdl.FloatValue(f)
	case string:
		return wdl.StringValue(v)
	case []any:
		elems := make([]wdl.Value, len(v))
		for i, e := range v {
			elems[i] = fromAny(e)
		}
		return wdl.ArrayValue(elems)
	case map[string]any:
		names := make([]string, 0, len(v))
		fields := make(map[string]wdl.Value, len(v))
		for k, e := range v {
			names = append(names, k)
			fields[k] = fromAny(e)
		}
		return wdl.ObjectValue(names, fields)
	default:
		return wdl.NullValue()
	}
}
