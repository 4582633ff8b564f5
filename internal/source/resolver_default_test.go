package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaultResolver_LocalReadWithoutCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.wdl")
	if err := os.WriteFile(path, []byte("version 1.1\n"), 0o644); err != nil {
		t.Fatalf("seed fixture: %v", err)
	}
	r := NewDefaultResolver(context.Background(), "", discardLogger())
	data, _, err := r.Read(context.Background(), "", path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "version 1.1\n" {
		t.Errorf("Read = %q", data)
	}
}

func TestNewDefaultResolver_LocalReadWithCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.wdl")
	if err := os.WriteFile(path, []byte("version 1.1\n"), 0o644); err != nil {
		t.Fatalf("seed fixture: %v", err)
	}
	cacheDB := filepath.Join(dir, "cache.sqlite")
	r := NewDefaultResolver(context.Background(), cacheDB, discardLogger())
	data, _, err := r.Read(context.Background(), "", path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "version 1.1\n" {
		t.Errorf("Read = %q", data)
	}
}
