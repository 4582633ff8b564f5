package parser

import (
	"testing"

	"github.com/wdlkit/wdlkit/pkg/wdl"
)

func TestParseDocument_MinimalTask(t *testing.T) {
	src := `version 1.1

task greet {
  input {
    String name
  }
  command <<<
    echo ~{name}
  >>>
  output {
    String out = "hi ~{name}"
  }
}
`
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc.Version != "1.1" {
		t.Errorf("Version = %q, want 1.1", doc.Version)
	}
	if len(doc.Tasks) != 1 || doc.Tasks[0].Name != "greet" {
		t.Fatalf("Tasks = %+v", doc.Tasks)
	}
	if len(doc.Tasks[0].Inputs) != 1 || doc.Tasks[0].Inputs[0].Name != "name" {
		t.Errorf("Inputs = %+v", doc.Tasks[0].Inputs)
	}
	if len(doc.Tasks[0].Outputs) != 1 {
		t.Fatalf("Outputs = %+v", doc.Tasks[0].Outputs)
	}
}

func TestParseDocument_DefaultsToDraft2WithoutVersionStatement(t *testing.T) {
	doc, err := ParseDocument("t.wdl", "task t {\n  command { true }\n}\n")
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc.Version != "draft-2" {
		t.Errorf("Version = %q, want draft-2", doc.Version)
	}
}

func TestParseDocument_StructRequiresVersion1OrLater(t *testing.T) {
	src := "struct S {\n  String x\n}\n"
	if _, err := ParseDocument("t.wdl", src); err == nil {
		t.Fatal("expected an error defining a struct in a draft-2 document")
	}
}

func TestParseDocument_StructAllowedIn1_0(t *testing.T) {
	src := "version 1.0\n\nstruct S {\n  String x\n}\n"
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(doc.Structs) != 1 || doc.Structs[0].Name != "S" {
		t.Fatalf("Structs = %+v", doc.Structs)
	}
}

func TestParseDocument_AtMostOneWorkflow(t *testing.T) {
	src := `version 1.1

workflow w1 {
}

workflow w2 {
}
`
	if _, err := ParseDocument("t.wdl", src); err == nil {
		t.Fatal("expected an error for a second workflow declaration")
	}
}

func TestParseDocument_ImportWithNamespaceAndAlias(t *testing.T) {
	src := `version 1.1

import "lib.wdl" as helpers
  alias Sample as HelperSample
`
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(doc.Imports) != 1 {
		t.Fatalf("Imports = %+v", doc.Imports)
	}
	imp := doc.Imports[0]
	if imp.URI != "lib.wdl" || imp.Namespace != "helpers" {
		t.Errorf("import = %+v", imp)
	}
	if imp.StructAliases["Sample"] != "HelperSample" {
		t.Errorf("StructAliases = %v", imp.StructAliases)
	}
}

func TestParseDocument_CallAfterClauseRequires1_1(t *testing.T) {
	src := `version 1.0

task noop {
  command <<< true >>>
}

workflow w {
  call noop as a
  call noop as b after a
}
`
	if _, err := ParseDocument("t.wdl", src); err == nil {
		t.Fatal("expected an error using an after clause before WDL 1.1")
	}
}

func TestParseDocument_CallAfterClauseAllowedIn1_1(t *testing.T) {
	src := `version 1.1

task noop {
  command <<< true >>>
}

workflow w {
  call noop as a
  call noop as b after a
}
`
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(doc.Workflow.Body) != 2 {
		t.Fatalf("Body = %+v", doc.Workflow.Body)
	}
}

func TestParseDocument_CallDefaultAliasIsCalleeName(t *testing.T) {
	src := `version 1.1

task greet {
  command <<< true >>>
}

workflow w {
  call greet
}
`
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	call := doc.Workflow.Body[0].(*wdl.Call)
	if call.Alias != "greet" {
		t.Errorf("Alias = %q, want greet", call.Alias)
	}
}

func TestParseDocument_ScatterAndConditional(t *testing.T) {
	src := `version 1.1

workflow w {
  input {
    Array[Int] xs
    Boolean flag
  }
  scatter (x in xs) {
    Int y = x
  }
  if (flag) {
    Int z = 1
  }
}
`
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(doc.Workflow.Body) != 2 {
		t.Fatalf("Body = %+v", doc.Workflow.Body)
	}
	scatter, ok := doc.Workflow.Body[0].(*wdl.Scatter)
	if !ok || scatter.Var != "x" {
		t.Errorf("Body[0] = %+v, want a Scatter over x", doc.Workflow.Body[0])
	}
	cond, ok := doc.Workflow.Body[1].(*wdl.Conditional)
	if !ok {
		t.Errorf("Body[1] = %+v, want a Conditional", doc.Workflow.Body[1])
	}
	_ = cond
}

func TestParseDocument_MetaSection(t *testing.T) {
	src := `version 1.1

task t {
  command <<< true >>>
  meta {
    author: "me"
    stable: true
    retries: 3
  }
}
`
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	m := doc.Tasks[0].Meta
	if m == nil || len(m.Keys) != 3 {
		t.Fatalf("Meta = %+v", m)
	}
	if *m.Entries["author"].Str != "me" {
		t.Errorf("author = %+v", m.Entries["author"])
	}
	if !*m.Entries["stable"].Bool {
		t.Errorf("stable = %+v", m.Entries["stable"])
	}
}

func TestParseDocument_RuntimeSection(t *testing.T) {
	src := `version 1.1

task t {
  command <<< true >>>
  runtime {
    docker: "ubuntu:20.04"
    memory: "4 GB"
  }
}
`
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(doc.Tasks[0].Runtime) != 2 {
		t.Fatalf("Runtime = %+v", doc.Tasks[0].Runtime)
	}
}

func TestParseExpr_BinaryPrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3), not (1 + 2) * 3.
	src := "version 1.1\n\ntask t {\n  Int x = 1 + 2 * 3\n  command <<< true >>>\n}\n"
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	expr := doc.Tasks[0].Decls[0].Expr.(*wdl.BinaryExpr)
	if expr.Op != "+" {
		t.Fatalf("top operator = %q, want +", expr.Op)
	}
	rhs, ok := expr.Y.(*wdl.BinaryExpr)
	if !ok || rhs.Op != "*" {
		t.Errorf("rhs = %+v, want a * expression", expr.Y)
	}
}

func TestParseExpr_UnaryAndPostfix(t *testing.T) {
	src := "version 1.1\n\ntask t {\n  Int x = -arr[0]\n  Array[Int] arr = [1,2]\n  command <<< true >>>\n}\n"
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	unary, ok := doc.Tasks[0].Decls[0].Expr.(*wdl.UnaryExpr)
	if !ok || unary.Op != "-" {
		t.Fatalf("expr = %+v, want a unary minus", doc.Tasks[0].Decls[0].Expr)
	}
	if _, ok := unary.X.(*wdl.AtExpr); !ok {
		t.Errorf("unary.X = %+v, want an index expression", unary.X)
	}
}

func TestParseExpr_IfThenElse(t *testing.T) {
	src := "version 1.1\n\ntask t {\n  Int x = if true then 1 else 2\n  command <<< true >>>\n}\n"
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if _, ok := doc.Tasks[0].Decls[0].Expr.(*wdl.IfThenElseExpr); !ok {
		t.Errorf("expr = %+v, want IfThenElseExpr", doc.Tasks[0].Decls[0].Expr)
	}
}

func TestParseExpr_ArrayMapObjectAndPairLiterals(t *testing.T) {
	src := `version 1.1

task t {
  Array[Int] a = [1, 2, 3]
  Map[String,Int] m = {"a": 1}
  Pair[Int,Int] p = (1, 2)
  command <<< true >>>
}
`
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if _, ok := doc.Tasks[0].Decls[0].Expr.(*wdl.ArrayLit); !ok {
		t.Errorf("decls[0] = %+v, want ArrayLit", doc.Tasks[0].Decls[0].Expr)
	}
	if _, ok := doc.Tasks[0].Decls[1].Expr.(*wdl.MapLit); !ok {
		t.Errorf("decls[1] = %+v, want MapLit", doc.Tasks[0].Decls[1].Expr)
	}
	if _, ok := doc.Tasks[0].Decls[2].Expr.(*wdl.PairExpr); !ok {
		t.Errorf("decls[2] = %+v, want PairExpr", doc.Tasks[0].Decls[2].Expr)
	}
}

func TestParseExpr_ApplyCall(t *testing.T) {
	src := "version 1.1\n\ntask t {\n  Int x = length([1,2,3])\n  command <<< true >>>\n}\n"
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	apply, ok := doc.Tasks[0].Decls[0].Expr.(*wdl.ApplyExpr)
	if !ok || apply.FuncName != "length" || len(apply.Args) != 1 {
		t.Errorf("expr = %+v, want ApplyExpr length(...)", doc.Tasks[0].Decls[0].Expr)
	}
}

func TestParseExpr_PlaceholderDefault(t *testing.T) {
	src := `version 1.1

task t {
  String? name
  command <<<
    echo ~{default="anon" name}
  >>>
}
`
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	frag := doc.Tasks[0].Command.Fragments[1]
	if _, ok := frag.Expr.(*wdl.PlaceholderDefaultExpr); !ok {
		t.Errorf("interpolated fragment = %+v, want PlaceholderDefaultExpr", frag.Expr)
	}
}

func TestParseExpr_PlaceholderSep(t *testing.T) {
	src := `version 1.1

task t {
  Array[String] words
  command <<<
    echo ~{sep=" " words}
  >>>
}
`
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	frag := doc.Tasks[0].Command.Fragments[1]
	if _, ok := frag.Expr.(*wdl.PlaceholderSepExpr); !ok {
		t.Errorf("interpolated fragment = %+v, want PlaceholderSepExpr", frag.Expr)
	}
}

func TestParseExpr_PlaceholderTrueFalse(t *testing.T) {
	src := `version 1.1

task t {
  Boolean flag
  command <<<
    echo ~{true="yes" false="no" flag}
  >>>
}
`
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	frag := doc.Tasks[0].Command.Fragments[1]
	ph, ok := frag.Expr.(*wdl.PlaceholderEqualExpr)
	if !ok {
		t.Fatalf("interpolated fragment = %+v, want PlaceholderEqualExpr", frag.Expr)
	}
	if ph.True == nil || ph.False == nil {
		t.Errorf("PlaceholderEqualExpr = %+v, want both True and False set", ph)
	}
}

func TestParseCommandSection_HeredocRequires1_0(t *testing.T) {
	src := "task t {\n  command <<< true >>>\n}\n"
	if _, err := ParseDocument("t.wdl", src); err == nil {
		t.Fatal("expected an error using a heredoc command section in draft-2")
	}
}

func TestParseCommandSection_BraceFormWorksInDraft2(t *testing.T) {
	src := "task t {\n  command {\n    true\n  }\n}\n"
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc.Tasks[0].Command == nil {
		t.Fatal("expected a command section")
	}
}

func TestParseDocument_SyntaxErrorOnUnknownTopLevelKeyword(t *testing.T) {
	src := "version 1.1\n\nbogus x {\n}\n"
	if _, err := ParseDocument("t.wdl", src); err == nil {
		t.Fatal("expected a syntax error for an unrecognized top-level construct")
	}
}

func TestParseTask_HintsSectionAllowedIn1_1(t *testing.T) {
	src := `version 1.1

task t {
  command <<< true >>>
  hints {
    maxCpu: 4
  }
}
`
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	hints := doc.Tasks[0].Hints
	if len(hints) != 1 || hints[0].Name != "maxCpu" {
		t.Fatalf("Hints = %+v", hints)
	}
}

func TestParseTask_HintsSectionRequires1_1(t *testing.T) {
	src := "version 1.0\n\ntask t {\n  command <<< true >>>\n  hints {\n    maxCpu: 4\n  }\n}\n"
	if _, err := ParseDocument("t.wdl", src); err == nil {
		t.Fatal("expected an error using hints before WDL 1.1")
	}
}

func TestParseTypeRef_DirectoryRequires1_0(t *testing.T) {
	src := "task t {\n  input {\n    Directory d\n  }\n  command { true }\n}\n"
	if _, err := ParseDocument("t.wdl", src); err == nil {
		t.Fatal("expected an error using Directory in draft-2")
	}
}

func TestParseTypeRef_DirectoryAllowedIn1_0(t *testing.T) {
	src := "version 1.0\n\ntask t {\n  input {\n    Directory d\n  }\n  command <<< true >>>\n}\n"
	doc, err := ParseDocument("t.wdl", src)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(doc.Tasks[0].Inputs) != 1 || doc.Tasks[0].Inputs[0].Type.Name != "Directory" {
		t.Fatalf("Inputs = %+v", doc.Tasks[0].Inputs)
	}
}
