package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/wdlkit/wdlkit/internal/eval"
	"github.com/wdlkit/wdlkit/internal/source"
	"github.com/wdlkit/wdlkit/pkg/wdl"
)

const taskDoc = `version 1.1

task greet {
  input {
    String name
  }
  command <<<
    echo "hello ~{name}"
  >>>
  output {
    String greeting = "hello ~{name}"
  }
}
`

const badTaskDoc = `version 1.1

task greet {
  input {
    String name
  }
  command <<<
    echo hi
  >>>
  output {
    Int greeting = name
  }
}
`

const workflowDoc = `version 1.1

workflow addone {
  input {
    Int x
  }
  Int y = x + 1
  output {
    Int result = y
  }
}
`

const callWorkflowDoc = `version 1.1

task noop {
  command <<<
    true
  >>>
  output {
    String done = "ok"
  }
}

workflow withcall {
  call noop
  output {
    String done = noop.done
  }
}
`

func writeDoc(t *testing.T, name, body string) (*source.Resolver, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	src := source.NewResolver()
	src.Register(source.LocalReader{})
	return src, path
}

func TestCheck_ValidDocument(t *testing.T) {
	src, path := writeDoc(t, "greet.wdl", taskDoc)
	res, err := Check(context.Background(), src, path)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.Errors.HasErrors() {
		t.Fatalf("unexpected type errors: %v", res.Errors)
	}
	if len(res.Root.Tasks) != 1 || res.Root.Tasks[0].Name != "greet" {
		t.Fatalf("Root.Tasks = %+v, want one task named greet", res.Root.Tasks)
	}
}

func TestCheck_TypeErrorAccumulates(t *testing.T) {
	src, path := writeDoc(t, "bad.wdl", badTaskDoc)
	res, err := Check(context.Background(), src, path)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !res.Errors.HasErrors() {
		t.Fatal("expected a type error coercing String to Int")
	}
}

func TestCheck_UnreadableURI(t *testing.T) {
	src, path := writeDoc(t, "greet.wdl", taskDoc)
	missing := filepath.Join(filepath.Dir(path), "missing.wdl")
	if _, err := Check(context.Background(), src, missing); err != nil {
		t.Fatalf("Check should report an ImportError result, not a Go error: %v", err)
	}
}

func TestEvaluate_TaskCommandAndOutputs(t *testing.T) {
	src, path := writeDoc(t, "greet.wdl", taskDoc)
	files := &eval.LocalFileIO{Src: src, WorkDir: t.TempDir()}

	res, err := Evaluate(context.Background(), src, files, path,
		EvalTarget{TaskName: "greet"},
		map[string]wdl.Value{"name": wdl.StringValue("world")})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Outputs["greeting"].Str != "hello world" {
		t.Errorf("Outputs[greeting] = %+v, want %q", res.Outputs["greeting"], "hello world")
	}
}

func TestEvaluate_WorkflowDeclarationsOnly(t *testing.T) {
	src, path := writeDoc(t, "addone.wdl", workflowDoc)
	files := &eval.LocalFileIO{Src: src, WorkDir: t.TempDir()}

	res, err := Evaluate(context.Background(), src, files, path,
		EvalTarget{}, map[string]wdl.Value{"x": wdl.IntValue(4)})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Outputs["result"].Int != 5 {
		t.Errorf("Outputs[result] = %+v, want IntValue(5)", res.Outputs["result"])
	}
}

func TestEvaluate_WorkflowWithCallRejected(t *testing.T) {
	src, path := writeDoc(t, "withcall.wdl", callWorkflowDoc)
	files := &eval.LocalFileIO{Src: src, WorkDir: t.TempDir()}

	if _, err := Evaluate(context.Background(), src, files, path, EvalTarget{}, nil); err == nil {
		t.Fatal("expected evaluation of a workflow containing a call to be rejected")
	}
}

func TestEvaluate_UnknownTaskName(t *testing.T) {
	src, path := writeDoc(t, "greet.wdl", taskDoc)
	files := &eval.LocalFileIO{Src: src, WorkDir: t.TempDir()}

	if _, err := Evaluate(context.Background(), src, files, path,
		EvalTarget{TaskName: "nope"}, nil); err == nil {
		t.Fatal("expected an error for an unknown task name")
	}
}
