package importresolve

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/wdlkit/wdlkit/internal/source"
)

func newFileResolver() *source.Resolver {
	src := source.NewResolver()
	src.Register(source.LocalReader{})
	return src
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestResolve_SingleDocumentNoImports(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.wdl", "version 1.1\n\ntask t {\n  command <<< true >>>\n}\n")

	r := New(newFileResolver())
	doc, err := r.Resolve(context.Background(), main)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(doc.Tasks) != 1 {
		t.Errorf("Tasks = %v, want 1", doc.Tasks)
	}
	if len(AllDocuments(doc)) != 1 {
		t.Errorf("AllDocuments = %v, want 1 entry", AllDocuments(doc))
	}
}

func TestResolve_ImportsAreLinkedAndDeduped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.wdl", "version 1.1\n\ntask helper {\n  command <<< true >>>\n}\n")
	writeFile(t, dir, "a.wdl", "version 1.1\n\nimport \"lib.wdl\"\n\ntask a {\n  command <<< true >>>\n}\n")
	main := writeFile(t, dir, "main.wdl", "version 1.1\n\nimport \"a.wdl\"\nimport \"lib.wdl\"\n\ntask t {\n  command <<< true >>>\n}\n")

	r := New(newFileResolver())
	doc, err := r.Resolve(context.Background(), main)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(doc.Imports) != 2 {
		t.Fatalf("Imports = %v, want 2", doc.Imports)
	}
	for _, imp := range doc.Imports {
		if imp.Document == nil {
			t.Errorf("import %q was not linked", imp.URI)
		}
	}
	// lib.wdl is reachable both directly and via a.wdl; it must be
	// parsed once and shared, not duplicated in the flattened graph.
	all := AllDocuments(doc)
	if len(all) != 3 {
		t.Errorf("AllDocuments = %d entries, want 3 (main, a, lib)", len(all))
	}
}

func TestResolve_ImportCycleDetected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.wdl", "version 1.1\n\nimport \"b.wdl\"\n")
	writeFile(t, dir, "b.wdl", "version 1.1\n\nimport \"a.wdl\"\n")

	r := New(newFileResolver())
	_, err := r.Resolve(context.Background(), filepath.Join(dir, "a.wdl"))
	if err == nil {
		t.Fatal("expected an import cycle error")
	}
}

func TestResolve_ConflictingStructShapesRejected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.wdl", "version 1.1\n\nstruct Sample {\n  String name\n}\n")
	writeFile(t, dir, "two.wdl", "version 1.1\n\nstruct Sample {\n  Int name\n}\n")
	main := writeFile(t, dir, "main.wdl", "version 1.1\n\nimport \"one.wdl\"\nimport \"two.wdl\"\n")

	r := New(newFileResolver())
	if _, err := r.Resolve(context.Background(), main); err == nil {
		t.Fatal("expected a struct-identity conflict error")
	}
}

func TestResolve_NamespaceDefaultsToFileBasename(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "helpers.wdl", "version 1.1\n\ntask helper {\n  command <<< true >>>\n}\n")
	main := writeFile(t, dir, "main.wdl", "version 1.1\n\nimport \"helpers.wdl\"\n")

	r := New(newFileResolver())
	doc, err := r.Resolve(context.Background(), main)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if doc.Imports[0].Namespace != "helpers" {
		t.Errorf("Namespace = %q, want %q", doc.Imports[0].Namespace, "helpers")
	}
}
