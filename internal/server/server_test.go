package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/wdlkit/wdlkit/internal/config"
	"github.com/wdlkit/wdlkit/internal/source"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

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

const invalidDoc = `version 1.1

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

func newTestServer(t *testing.T) *Server {
	t.Helper()
	src := source.NewResolver()
	src.Register(source.LocalReader{})
	return New(config.DefaultConfig(), src, discardLogger())
}

func writeFixture(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("seed fixture: %v", err)
	}
	return path
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if body.RequestID == "" {
		t.Error("expected a non-empty request id")
	}
}

func TestHandleCheck_ValidDocument(t *testing.T) {
	s := newTestServer(t)
	path := writeFixture(t, "greet.wdl", validDoc)

	reqBody, _ := json.Marshal(checkRequest{SourceURI: path})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/check", bytes.NewReader(reqBody))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestHandleCheck_InvalidDocument(t *testing.T) {
	s := newTestServer(t)
	path := writeFixture(t, "bad.wdl", invalidDoc)

	reqBody, _ := json.Marshal(checkRequest{SourceURI: path})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/check", bytes.NewReader(reqBody))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body = %s", rec.Code, rec.Body.String())
	}
}

func TestHandleEvaluate_TaskOutputs(t *testing.T) {
	s := newTestServer(t)
	path := writeFixture(t, "greet.wdl", validDoc)

	reqBody, _ := json.Marshal(evaluateRequest{
		SourceURI: path,
		Task:      "greet",
		Inputs:    map[string]json.RawMessage{"name": json.RawMessage(`"world"`)},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", bytes.NewReader(reqBody))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	data, ok := body.Data.(map[string]any)
	if !ok {
		t.Fatalf("Data = %#v, want a JSON object", body.Data)
	}
	outputs, ok := data["outputs"].(map[string]any)
	if !ok || outputs["greeting"] != "hello world" {
		t.Errorf("outputs = %#v, want greeting=hello world", data["outputs"])
	}
}

func TestHandleEvaluate_MalformedBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRequestIDMiddleware_SetsResponseHeader(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID response header to be set")
	}
}
