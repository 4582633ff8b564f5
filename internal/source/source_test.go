package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSchemeOf(t *testing.T) {
	cases := []struct {
		uri  string
		want string
	}{
		{"https://example.com/a.wdl", "https"},
		{"http://example.com/a.wdl", "https"},
		{"s3://bucket/a.wdl", "s3"},
		{"/abs/path/a.wdl", "file"},
		{"rel/path/a.wdl", "file"},
	}
	for _, c := range cases {
		if got := SchemeOf(c.uri); got != c.want {
			t.Errorf("SchemeOf(%q) = %q, want %q", c.uri, got, c.want)
		}
	}
}

func TestCanonicalize_RelativeAgainstLocalBase(t *testing.T) {
	got, err := Canonicalize("/workflows/main.wdl", "tasks/sub.wdl")
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	want := filepath.Clean("/workflows/tasks/sub.wdl")
	if got != want {
		t.Errorf("Canonicalize = %q, want %q", got, want)
	}
}

func TestCanonicalize_RelativeAgainstHTTPSBase(t *testing.T) {
	got, err := Canonicalize("https://example.com/wf/main.wdl", "tasks/sub.wdl")
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	want := "https://example.com/wf/tasks/sub.wdl"
	if got != want {
		t.Errorf("Canonicalize = %q, want %q", got, want)
	}
}

func TestCanonicalize_AbsoluteURIUnchanged(t *testing.T) {
	got, err := Canonicalize("/workflows/main.wdl", "https://example.com/x.wdl")
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if got != "https://example.com/x.wdl" {
		t.Errorf("Canonicalize = %q, want unchanged absolute URI", got)
	}
}

func TestResolver_DispatchesToRegisteredScheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.wdl")
	if err := os.WriteFile(path, []byte("version 1.1\n"), 0o644); err != nil {
		t.Fatalf("seed fixture: %v", err)
	}
	r := NewResolver()
	r.Register(LocalReader{})

	data, canonical, err := r.Read(context.Background(), "", path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "version 1.1\n" {
		t.Errorf("Read data = %q", data)
	}
	if canonical != filepath.Clean(path) {
		t.Errorf("canonical = %q, want %q", canonical, filepath.Clean(path))
	}
}

func TestResolver_NoReaderRegisteredForScheme(t *testing.T) {
	r := NewResolver()
	if _, _, err := r.Read(context.Background(), "", "s3://bucket/key.wdl"); err == nil {
		t.Fatal("expected an error when no s3 reader is registered")
	}
}
