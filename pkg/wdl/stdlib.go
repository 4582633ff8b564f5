package wdl

// This file catalogs the standard-library surface of spec.md §4.3 as
// static Function_n prototypes. internal/checker resolves an ApplyExpr
// to one of these by name and arity; internal/eval owns the actual
// evaluators, keyed by the same Name, since prototypes are pure type
// signatures and carry no behavior (grounded on the pack's
// validate.go-style separation of a static prototype table from a
// dynamic dispatcher).

// StdlibFunction is one overload of a (possibly overloaded) standard
// library name: read_json's single overload differs from select_first
// (Array[X?] -> X) only in which concrete X is chosen at call time, so
// most entries here are the sole overload for their name; a few names
// (size, sep) have more than one arity.
type StdlibFunction struct {
	Name       string
	ParamTypes []*Type
	ReturnType *Type
	// Variadic marks a trailing Array-typed parameter as accepting one
	// or more trailing scalar-typed arguments flattened into it (used
	// only by write_lines-style calls that additionally accept a bare
	// array). None of the WDL builtins currently need this; kept for
	// forward compatibility with 1.1 additions.
	Variadic bool
}

// stdlibTable lists every WDL standard-library function named in
// spec.md §4.3. Entries with a generic parameter (X, T) are recorded
// using Any() as a placeholder; the checker treats a StdlibFunction
// whose ParamTypes/ReturnType contain Any() as generic and unifies the
// placeholder against the actual call-site argument types before
// checking coercibility, substituting the same concrete type
// everywhere Any() appears in that prototype.
var stdlibTable = []StdlibFunction{
	{Name: "read_int", ParamTypes: []*Type{File()}, ReturnType: Int()},
	{Name: "read_float", ParamTypes: []*Type{File()}, ReturnType: Float()},
	{Name: "read_boolean", ParamTypes: []*Type{File()}, ReturnType: Boolean()},
	{Name: "read_string", ParamTypes: []*Type{File()}, ReturnType: String()},
	{Name: "read_lines", ParamTypes: []*Type{File()}, ReturnType: ArrayOf(String(), false)},
	{Name: "read_tsv", ParamTypes: []*Type{File()}, ReturnType: ArrayOf(ArrayOf(String(), false), false)},
	{Name: "read_map", ParamTypes: []*Type{File()}, ReturnType: MapOf(String(), String())},
	{Name: "read_object", ParamTypes: []*Type{File()}, ReturnType: ObjectType()},
	{Name: "read_objects", ParamTypes: []*Type{File()}, ReturnType: ArrayOf(ObjectType(), false)},
	{Name: "read_json", ParamTypes: []*Type{File()}, ReturnType: Any()},

	{Name: "write_lines", ParamTypes: []*Type{ArrayOf(String(), false)}, ReturnType: File()},
	{Name: "write_tsv", ParamTypes: []*Type{ArrayOf(ArrayOf(String(), false), false)}, ReturnType: File()},
	{Name: "write_map", ParamTypes: []*Type{MapOf(String(), String())}, ReturnType: File()},
	{Name: "write_object", ParamTypes: []*Type{ObjectType()}, ReturnType: File()},
	{Name: "write_objects", ParamTypes: []*Type{ArrayOf(ObjectType(), false)}, ReturnType: File()},
	{Name: "write_json", ParamTypes: []*Type{Any()}, ReturnType: File()},

	{Name: "size", ParamTypes: []*Type{OptionalOf(File())}, ReturnType: Float()},
	{Name: "size", ParamTypes: []*Type{OptionalOf(File()), String()}, ReturnType: Float()},
	{Name: "size", ParamTypes: []*Type{OptionalOf(ArrayOf(File(), false))}, ReturnType: Float()},
	{Name: "size", ParamTypes: []*Type{OptionalOf(ArrayOf(File(), false)), String()}, ReturnType: Float()},

	{Name: "stdout", ParamTypes: nil, ReturnType: File()},
	{Name: "stderr", ParamTypes: nil, ReturnType: File()},
	{Name: "glob", ParamTypes: []*Type{String()}, ReturnType: ArrayOf(File(), false)},
	{Name: "basename", ParamTypes: []*Type{String()}, ReturnType: String()},
	{Name: "basename", ParamTypes: []*Type{String(), String()}, ReturnType: String()},

	{Name: "sub", ParamTypes: []*Type{String(), String(), String()}, ReturnType: String()},
	{Name: "sep", ParamTypes: []*Type{String(), ArrayOf(String(), false)}, ReturnType: String()},
	{Name: "prefix", ParamTypes: []*Type{String(), ArrayOf(Any(), false)}, ReturnType: ArrayOf(String(), false)},
	{Name: "suffix", ParamTypes: []*Type{String(), ArrayOf(Any(), false)}, ReturnType: ArrayOf(String(), false)},
	{Name: "quote", ParamTypes: []*Type{ArrayOf(Any(), false)}, ReturnType: ArrayOf(String(), false)},
	{Name: "squote", ParamTypes: []*Type{ArrayOf(Any(), false)}, ReturnType: ArrayOf(String(), false)},

	{Name: "length", ParamTypes: []*Type{ArrayOf(Any(), false)}, ReturnType: Int()},
	{Name: "range", ParamTypes: []*Type{Int()}, ReturnType: ArrayOf(Int(), false)},
	{Name: "transpose", ParamTypes: []*Type{ArrayOf(ArrayOf(Any(), false), false)}, ReturnType: ArrayOf(ArrayOf(Any(), false), false)},
	{Name: "zip", ParamTypes: []*Type{ArrayOf(Any(), false), ArrayOf(Any(), false)}, ReturnType: ArrayOf(PairOf(Any(), Any()), false)},
	{Name: "cross", ParamTypes: []*Type{ArrayOf(Any(), false), ArrayOf(Any(), false)}, ReturnType: ArrayOf(PairOf(Any(), Any()), false)},
	{Name: "flatten", ParamTypes: []*Type{ArrayOf(ArrayOf(Any(), false), false)}, ReturnType: ArrayOf(Any(), false)},

	{Name: "select_first", ParamTypes: []*Type{ArrayOf(OptionalOf(Any()), false)}, ReturnType: Any()},
	{Name: "select_all", ParamTypes: []*Type{ArrayOf(OptionalOf(Any()), false)}, ReturnType: ArrayOf(Any(), false)},
	{Name: "defined", ParamTypes: []*Type{OptionalOf(Any())}, ReturnType: Boolean()},

	{Name: "ceil", ParamTypes: []*Type{Float()}, ReturnType: Int()},
	{Name: "floor", ParamTypes: []*Type{Float()}, ReturnType: Int()},
	{Name: "round", ParamTypes: []*Type{Float()}, ReturnType: Int()},
	{Name: "min", ParamTypes: []*Type{Any(), Any()}, ReturnType: Any()},
	{Name: "max", ParamTypes: []*Type{Any(), Any()}, ReturnType: Any()},
}

// LookupStdlib returns every overload registered under name.
func LookupStdlib(name string) []StdlibFunction {
	var out []StdlibFunction
	for _, f := range stdlibTable {
		if f.Name == name {
			out = append(out, f)
		}
	}
	return out
}

// StdlibNames returns the sorted set of distinct standard-library
// names, for diagnostics ("unknown function %q, did you mean...").
func StdlibNames() []string {
	seen := map[string]bool{}
	var names []string
	for _, f := range stdlibTable {
		if !seen[f.Name] {
			seen[f.Name] = true
			names = append(names, f.Name)
		}
	}
	return names
}
