package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
)

// countingReader counts how many times Read actually fetches, so tests
// can assert a CachingReader only calls through once per URI.
type countingReader struct {
	scheme string
	calls  int
	body   string
}

func (c *countingReader) Scheme() string { return c.scheme }

func (c *countingReader) Read(_ context.Context, uri string) ([]byte, error) {
	c.calls++
	return []byte(fmt.Sprintf("%s:%d", c.body, c.calls)), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCachingReader_SecondReadIsCacheHit(t *testing.T) {
	inner := &countingReader{scheme: "file", body: "data"}
	c, err := NewCachingReader(inner, ":memory:", discardLogger())
	if err != nil {
		t.Fatalf("NewCachingReader: %v", err)
	}
	defer c.Close()

	first, err := c.Read(context.Background(), "main.wdl")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	second, err := c.Read(context.Background(), "main.wdl")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("cached read returned different content: %q vs %q", first, second)
	}
	if inner.calls != 1 {
		t.Errorf("inner.calls = %d, want 1 (second Read should hit the cache)", inner.calls)
	}
}

func TestCachingReader_DistinctURIsFetchIndependently(t *testing.T) {
	inner := &countingReader{scheme: "file", body: "data"}
	c, err := NewCachingReader(inner, ":memory:", discardLogger())
	if err != nil {
		t.Fatalf("NewCachingReader: %v", err)
	}
	defer c.Close()

	if _, err := c.Read(context.Background(), "a.wdl"); err != nil {
		t.Fatalf("Read a.wdl: %v", err)
	}
	if _, err := c.Read(context.Background(), "b.wdl"); err != nil {
		t.Fatalf("Read b.wdl: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner.calls = %d, want 2", inner.calls)
	}
}

func TestCachingReader_SchemeDelegatesToInner(t *testing.T) {
	inner := &countingReader{scheme: "https"}
	c, err := NewCachingReader(inner, ":memory:", discardLogger())
	if err != nil {
		t.Fatalf("NewCachingReader: %v", err)
	}
	defer c.Close()
	if c.Scheme() != "https" {
		t.Errorf("Scheme() = %q, want %q", c.Scheme(), "https")
	}
}
