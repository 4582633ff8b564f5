// Package source implements component C1 of spec.md §4.7's import
// pipeline: fetching the raw text of a WDL document from local disk,
// HTTPS, or S3, behind one SourceReader interface so
// internal/importresolve never branches on scheme itself.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// SourceReader fetches the raw bytes backing a canonical URI.
type SourceReader interface {
	Read(ctx context.Context, uri string) ([]byte, error)
	// Scheme reports the URI scheme this reader serves ("file", "https", "s3").
	Scheme() string
}

// Resolver dispatches Read calls to the SourceReader registered for a
// URI's scheme, and canonicalizes relative import URIs against a base
// document URI (spec.md §4.7).
type Resolver struct {
	readers map[string]SourceReader
}

// NewResolver builds a Resolver with no readers registered; call
// Register for each scheme the deployment supports.
func NewResolver() *Resolver {
	return &Resolver{readers: map[string]SourceReader{}}
}

// Register installs r as the handler for its own Scheme().
func (m *Resolver) Register(r SourceReader) {
	m.readers[r.Scheme()] = r
}

// Read canonicalizes uri (if relative, against baseURI) and dispatches
// to the registered reader for its scheme.
func (m *Resolver) Read(ctx context.Context, baseURI, uri string) ([]byte, string, error) {
	canonical, err := Canonicalize(baseURI, uri)
	if err != nil {
		return nil, "", fmt.Errorf("canonicalize %q: %w", uri, err)
	}
	scheme := SchemeOf(canonical)
	r, ok := m.readers[scheme]
	if !ok {
		return nil, "", fmt.Errorf("no source reader registered for scheme %q (uri %q)", scheme, canonical)
	}
	data, err := r.Read(ctx, canonical)
	if err != nil {
		return nil, "", err
	}
	return data, canonical, nil
}

// SchemeOf returns a canonical URI's scheme, defaulting to "file" for
// plain filesystem paths.
func SchemeOf(uri string) string {
	if strings.HasPrefix(uri, "https://") || strings.HasPrefix(uri, "http://") {
		return "https"
	}
	if strings.HasPrefix(uri, "s3://") {
		return "s3"
	}
	return "file"
}

// Canonicalize resolves uri against baseURI (the document that
// imports it), producing a stable key for the import graph's
// cycle-detection and struct-identity checks (spec.md §4.7).
func Canonicalize(baseURI, uri string) (string, error) {
	if strings.Contains(uri, "://") {
		u, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return u.String(), nil
	}
	if filepath.IsAbs(uri) {
		return filepath.Clean(uri), nil
	}
	if baseURI == "" {
		abs, err := filepath.Abs(uri)
		if err != nil {
			return "", err
		}
		return abs, nil
	}
	if strings.Contains(baseURI, "://") {
		base, err := url.Parse(baseURI)
		if err != nil {
			return "", err
		}
		rel, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return base.ResolveReference(rel).String(), nil
	}
	return filepath.Clean(filepath.Join(filepath.Dir(baseURI), uri)), nil
}

// LocalReader reads WDL sources from the local filesystem.
type LocalReader struct{}

func (LocalReader) Scheme() string { return "file" }

func (LocalReader) Read(_ context.Context, uri string) ([]byte, error) {
	return os.ReadFile(uri)
}

// HTTPSReader fetches WDL sources over HTTP(S).
type HTTPSReader struct {
	Client *http.Client
}

func (HTTPSReader) Scheme() string { return "https" }

func (h HTTPSReader) Read(ctx context.Context, uri string) ([]byte, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %q: %w", uri, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", uri, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %q: unexpected status %s", uri, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
