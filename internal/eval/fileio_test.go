package eval

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/wdlkit/wdlkit/internal/source"
)

func newLocalFileIO(t *testing.T) *LocalFileIO {
	t.Helper()
	src := source.NewResolver()
	src.Register(source.LocalReader{})
	return &LocalFileIO{Src: src, WorkDir: t.TempDir()}
}

func TestLocalFileIO_WriteThenReadRoundTrip(t *testing.T) {
	f := newLocalFileIO(t)
	path, err := f.WriteFile(context.Background(), []byte("hello"))
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := f.ReadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("ReadFile = %q, want %q", data, "hello")
	}
}

func TestLocalFileIO_Stat(t *testing.T) {
	f := newLocalFileIO(t)
	path, err := f.WriteFile(context.Background(), []byte("12345"))
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	size, err := f.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if size != 5 {
		t.Errorf("Stat size = %d, want 5", size)
	}
}

func TestLocalFileIO_GlobRelativeToWorkDir(t *testing.T) {
	f := newLocalFileIO(t)
	for _, name := range []string{"a.txt", "b.txt", "c.log"} {
		if err := os.WriteFile(filepath.Join(f.WorkDir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("seed fixture: %v", err)
		}
	}
	matches, err := f.Glob("*.txt")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Glob(*.txt) = %v, want 2 matches", matches)
	}
}

func TestLocalFileIO_GlobAbsolutePattern(t *testing.T) {
	f := newLocalFileIO(t)
	path := filepath.Join(f.WorkDir, "abs.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("seed fixture: %v", err)
	}
	matches, err := f.Glob(filepath.Join(f.WorkDir, "*.txt"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(matches) != 1 || matches[0] != path {
		t.Errorf("Glob(abs) = %v, want [%s]", matches, path)
	}
}
