package wdl

// Expr is the version-neutral expression sum of spec.md §3.6 (30+
// variants). Every implementation embeds Info, which doubles as the
// Typed AST annotation slot (spec.md §3.7): Typ is populated by
// internal/checker and read by internal/eval. There is no separate
// "Typed AST" type — the same node, once Typ is non-nil, is the typed
// form, matching the instruction that the Typed AST share the AST's
// shape.
type Expr interface {
	Span() Span
	exprNode()
}

// Info is embedded in every Expr implementation.
type Info struct {
	ExprSpan Span
	Typ      *Type // nil until internal/checker runs
}

func (i Info) Span() Span { return i.ExprSpan }
func (Info) exprNode()    {}

// NullLit is the literal `null` (draft-2 calls this the empty-literal
// placeholder that unifies with Unknown).
type NullLit struct{ Info }

// BoolLit is a boolean literal.
type BoolLit struct {
	Info
	Value bool
}

// IntLit is an integer literal.
type IntLit struct {
	Info
	Value int64
}

// FloatLit is a floating point literal.
type FloatLit struct {
	Info
	Value float64
}

// StringFragment is one piece of an interpolated string or command
// section: either literal text or an embedded expression (with
// optional placeholder wrapping already applied by the parser).
type StringFragment struct {
	Literal *string
	Expr    Expr
}

// CompoundString is a string literal, possibly with ~{}/${}
// interpolation. A literal with no interpolation is a single Literal
// fragment (spec.md §4.1).
type CompoundString struct {
	Info
	Fragments []StringFragment
}

// IdentifierExpr is a bare name reference, resolved by the checker
// either to a scope binding or to the compound key `callAlias.output`.
type IdentifierExpr struct {
	Info
	Name string
}

// ArrayLit is `[e1, e2, ...]`.
type ArrayLit struct {
	Info
	Elems []Expr
}

// MapLitEntry is one key/value pair of a MapLit.
type MapLitEntry struct {
	Key   Expr
	Value Expr
}

// MapLit is `{k1: v1, k2: v2, ...}`.
type MapLit struct {
	Info
	Entries []MapLitEntry
}

// ObjectLitEntry is one field of an ObjectLit.
type ObjectLitEntry struct {
	Name  string
	Value Expr
}

// ObjectLit is `object {a: 1, b: 2}`.
type ObjectLit struct {
	Info
	Entries []ObjectLitEntry
}

// PairExpr is `(left, right)`.
type PairExpr struct {
	Info
	Left, Right Expr
}

// BinaryExpr covers +, -, *, /, %, ==, !=, <, <=, >, >=, &&, ||.
type BinaryExpr struct {
	Info
	Op   string
	X, Y Expr
}

// UnaryExpr covers unary - and !.
type UnaryExpr struct {
	Info
	Op string
	X  Expr
}

// IfThenElseExpr is `if cond then t else f`.
type IfThenElseExpr struct {
	Info
	Cond, True, False Expr
}

// AtExpr is `array[index]`.
type AtExpr struct {
	Info
	Array, Index Expr
}

// ApplyExpr is a standard-library call. ResolvedFunc is set by the
// checker to the chosen overload's Function_n type.
type ApplyExpr struct {
	Info
	FuncName     string
	Args         []Expr
	ResolvedFunc *Type
}

// GetNameExpr is `expr.field`, valid on Struct/Object/Call/Pair.
type GetNameExpr struct {
	Info
	X     Expr
	Field string
}

// PlaceholderEqualExpr is `~{if cond then t else f}`-shaped sugar:
// `true=`/`false=` placeholder options.
type PlaceholderEqualExpr struct {
	Info
	Cond, True, False Expr
}

// PlaceholderDefaultExpr is the `default=` placeholder option.
type PlaceholderDefaultExpr struct {
	Info
	Value, Default Expr
}

// PlaceholderSepExpr is the `sep=` placeholder option.
type PlaceholderSepExpr struct {
	Info
	Sep, Array Expr
}

// CoerceExpr wraps a subexpression with an explicit, checker-inserted
// coercion to ToType (spec.md §3.7).
type CoerceExpr struct {
	Info
	X      Expr
	ToType *Type
}

var (
	_ Expr = (*NullLit)(nil)
	_ Expr = (*BoolLit)(nil)
	_ Expr = (*IntLit)(nil)
	_ Expr = (*FloatLit)(nil)
	_ Expr = (*CompoundString)(nil)
	_ Expr = (*IdentifierExpr)(nil)
	_ Expr = (*ArrayLit)(nil)
	_ Expr = (*MapLit)(nil)
	_ Expr = (*ObjectLit)(nil)
	_ Expr = (*PairExpr)(nil)
	_ Expr = (*BinaryExpr)(nil)
	_ Expr = (*UnaryExpr)(nil)
	_ Expr = (*IfThenElseExpr)(nil)
	_ Expr = (*AtExpr)(nil)
	_ Expr = (*ApplyExpr)(nil)
	_ Expr = (*GetNameExpr)(nil)
	_ Expr = (*PlaceholderEqualExpr)(nil)
	_ Expr = (*PlaceholderDefaultExpr)(nil)
	_ Expr = (*PlaceholderSepExpr)(nil)
	_ Expr = (*CoerceExpr)(nil)
)
