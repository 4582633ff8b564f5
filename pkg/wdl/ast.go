package wdl

// This file defines the version-neutral AST of spec.md §3.6: the
// shape produced by internal/astlower from any supported WDL version's
// CST, and consumed unchanged by internal/checker and internal/eval.
// As with Expr, there is no separate Typed AST type; checker-populated
// fields (Type, ResolvedFunc, inserted CoerceExpr nodes) live directly
// on these nodes.

// TypeRef is the raw, unresolved type syntax written in source (e.g.
// `Array[Int]+`, `Pair[File,String]`, `SampleInfo`, `Int?`). The
// checker resolves it to a *Type once struct definitions are in scope.
type TypeRef struct {
	TypeSpan Span
	Name     string // primitive keyword, or struct/Object name
	Elems    []*TypeRef // Array: [elem]; Map: [key,value]; Pair: [left,right]
	NonEmpty bool       // Array[...]+
	Optional bool        // trailing ?
}

func (t *TypeRef) Span() Span { return t.TypeSpan }

// Declaration binds Name to an optionally-present initializer Expr
// under a declared Type. Inputs may omit Expr (required) or carry a
// default (optional-with-default); private declarations and outputs
// always carry one.
type Declaration struct {
	Name      string
	Type      *TypeRef
	Expr      Expr // nil for a required input
	DeclSpan  Span
}

func (d *Declaration) Span() Span { return d.DeclSpan }

// CommandSection is the ordered sequence of literal text and
// interpolated expressions between `command {` / `}` or `command <<<`
// / `>>>` (spec.md §3.6, §4.6).
type CommandSection struct {
	Fragments []StringFragment
	SecSpan   Span
}

func (c *CommandSection) Span() Span { return c.SecSpan }

// RuntimeEntry is one `key: expr` line of a runtime section.
type RuntimeEntry struct {
	Name string
	Expr Expr
}

// MetaValue is the restricted literal sum accepted inside meta /
// parameter_meta sections (spec.md §3.6): no identifiers, no
// expressions, only `null`, Bool, Int, Float, String, Array, Object.
type MetaValue struct {
	MetaSpan Span

	IsNull bool
	Bool   *bool
	Int    *int64
	Float  *float64
	Str    *string
	Array  []MetaValue
	Object map[string]MetaValue
	// ObjectKeys preserves source order for stable re-rendering.
	ObjectKeys []string
}

func (m MetaValue) Span() Span { return m.MetaSpan }

// MetaSection is an ordered `key: MetaValue` mapping.
type MetaSection struct {
	Keys    []string
	Entries map[string]MetaValue
	SecSpan Span
}

func (m *MetaSection) Span() Span { return m.SecSpan }

// StructMember is one `Type name` line of a struct definition.
type StructMember struct {
	Name string
	Type *TypeRef
}

// StructDef is a top-level `struct Name { ... }` declaration.
type StructDef struct {
	Name      string
	Members   []StructMember
	DefSpan   Span
}

func (s *StructDef) Span() Span { return s.DefSpan }

// Import is a top-level `import "uri" as namespace` with optional
// struct aliases (spec.md §3.6, §4.7).
type Import struct {
	URI           string
	Namespace     string // defaults to the basename of URI sans extension
	StructAliases map[string]string // source struct name -> alias
	ImportSpan    Span

	// Document is populated by internal/importresolve once the import
	// graph has been resolved; nil on a freshly lowered, unresolved AST.
	Document *Document
}

func (i *Import) Span() Span { return i.ImportSpan }

// Task is a top-level `task Name { ... }` definition.
type Task struct {
	Name         string
	Inputs       []*Declaration
	Decls        []*Declaration // private (non-input, non-output) declarations
	Command      *CommandSection
	Outputs      []*Declaration
	Runtime      []RuntimeEntry
	// Hints is the task-level `hints { ... }` section (1.1+); nil if
	// absent or unsupported by the document's version.
	Hints         []RuntimeEntry
	Meta          *MetaSection
	ParameterMeta *MetaSection
	TaskSpan      Span
}

func (t *Task) Span() Span { return t.TaskSpan }

// WorkflowElement is one statement of a workflow body: a private
// declaration, a call, a scatter, or a conditional (spec.md §3.6).
type WorkflowElement interface {
	Span() Span
	workflowElementNode()
}

func (*Declaration) workflowElementNode() {}
func (*Call) workflowElementNode()        {}
func (*Scatter) workflowElementNode()     {}
func (*Conditional) workflowElementNode() {}

// CallInput is one `name = expr` (or shorthand `name` standing for
// `name = name`) of a call's input block.
type CallInput struct {
	Name string
	Expr Expr // nil for the shorthand form; filled in by astlower
}

// Call is a `call task.name as alias { input: ... }` statement. Callee
// is the dotted reference as written (namespace-qualified or bare);
// ResolvedTarget is populated by the checker once the referenced
// task/workflow is known.
type Call struct {
	Callee           string
	Alias            string
	Inputs           []CallInput
	CallSpan         Span
	ResolvedOutputs  map[string]*Type // populated by checker
}

func (c *Call) Span() Span { return c.CallSpan }

// Scatter is `scatter (x in collection) { body }`. Its own iterator
// variable is not exported to the enclosing scope (spec.md §4.4); only
// the body's bindings are, each wrapped in Array(T).
type Scatter struct {
	Var          string
	Collection   Expr
	Body         []WorkflowElement
	ScatterSpan  Span
}

func (s *Scatter) Span() Span { return s.ScatterSpan }

// Conditional is `if (cond) { body }`. Body bindings are exported to
// the enclosing scope wrapped in Optional(T).
type Conditional struct {
	Condition   Expr
	Body        []WorkflowElement
	CondSpan    Span
}

func (c *Conditional) Span() Span { return c.CondSpan }

// Workflow is the single top-level `workflow Name { ... }` definition.
type Workflow struct {
	Name          string
	Inputs        []*Declaration
	Body          []WorkflowElement
	Outputs       []*Declaration
	Meta          *MetaSection
	ParameterMeta *MetaSection
	WorkflowSpan  Span
}

func (w *Workflow) Span() Span { return w.WorkflowSpan }

// Document is the root of one parsed/lowered WDL file (spec.md §3.6).
type Document struct {
	SourceURI string
	Version   string // "draft-2", "1.0", "1.1"
	Imports   []*Import
	Structs   []*StructDef
	Tasks     []*Task
	Workflow  *Workflow // nil if the document declares none
	Comments  *CommentMap
	DocSpan   Span
}

func (d *Document) Span() Span { return d.DocSpan }
