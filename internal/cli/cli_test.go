package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const validDoc = `version 1.1

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

const syntaxErrorDoc = `version 1.1

task greet {
  input {
`

func writeFixture(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("seed fixture: %v", err)
	}
	return path
}

func runRoot(t *testing.T, args ...string) (stdout string, err error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), err
}

func TestParseCmd_ValidDocument(t *testing.T) {
	path := writeFixture(t, "greet.wdl", validDoc)
	out, err := runRoot(t, "parse", path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !bytes.Contains([]byte(out), []byte("parsed ok")) {
		t.Errorf("output = %q, want it to mention parsed ok", out)
	}
}

func TestParseCmd_SyntaxError(t *testing.T) {
	path := writeFixture(t, "bad.wdl", syntaxErrorDoc)
	if _, err := runRoot(t, "parse", path); err == nil {
		t.Fatal("expected a syntax error")
	}
}

func TestCheckCmd_ValidDocument(t *testing.T) {
	path := writeFixture(t, "greet.wdl", validDoc)
	out, err := runRoot(t, "check", path)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !bytes.Contains([]byte(out), []byte(": ok")) {
		t.Errorf("output = %q, want it to report ok", out)
	}
}

func TestEvalCmd_TaskOutputs(t *testing.T) {
	path := writeFixture(t, "greet.wdl", validDoc)
	inputsPath := writeFixture(t, "inputs.json", `{"name": "world"}`)
	out, err := runRoot(t, "eval", "--task", "greet", path, inputsPath)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !bytes.Contains([]byte(out), []byte("hello world")) {
		t.Errorf("output = %q, want it to contain the evaluated greeting", out)
	}
}

func TestEvalCmd_UnknownTaskReturnsError(t *testing.T) {
	path := writeFixture(t, "greet.wdl", validDoc)
	if _, err := runRoot(t, "eval", "--task", "nope", path); err == nil {
		t.Fatal("expected an error for an unknown task")
	}
}
