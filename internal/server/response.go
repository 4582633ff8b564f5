package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/wdlkit/wdlkit/pkg/wdl"
)

// response is the standard envelope every endpoint returns.
type response struct {
	RequestID string          `json:"request_id"`
	Timestamp time.Time       `json:"timestamp"`
	Status    string          `json:"status"`
	Data      any             `json:"data,omitempty"`
	Errors    []wdlErrorBody  `json:"errors,omitempty"`
}

// wdlErrorBody is the caller-facing error envelope spec.md §6 fixes:
// { kind, span?, message, sourceUri }.
type wdlErrorBody struct {
	Kind      wdl.ErrorKind `json:"kind"`
	Span      *wdl.Span     `json:"span,omitempty"`
	Message   string        `json:"message"`
	SourceURI string        `json:"sourceUri,omitempty"`
	Reason    string        `json:"reason,omitempty"`
}

func toErrorBody(e *wdl.Error) wdlErrorBody {
	return wdlErrorBody{
		Kind:      e.Kind,
		Span:      e.Span,
		Message:   e.Message,
		SourceURI: e.SourceURI,
		Reason:    string(e.Reason),
	}
}

func respondOK(w http.ResponseWriter, reqID string, data any) {
	respondJSON(w, http.StatusOK, reqID, data, nil)
}

func respondErrors(w http.ResponseWriter, reqID string, status int, errs wdl.ErrorList) {
	bodies := make([]wdlErrorBody, len(errs))
	for i, e := range errs {
		bodies[i] = toErrorBody(e)
	}
	respondJSON(w, status, reqID, nil, bodies)
}

func respondFatal(w http.ResponseWriter, reqID string, status int, err error) {
	respondErrors(w, reqID, status, wdl.ErrorList{wdl.NewInternalError("", "%v", err)})
}

func respondJSON(w http.ResponseWriter, status int, reqID string, data any, errs []wdlErrorBody) {
	resp := response{
		RequestID: reqID,
		Timestamp: time.Now().UTC(),
		Data:      data,
		Errors:    errs,
	}
	if len(errs) > 0 {
		resp.Status = "error"
	} else {
		resp.Status = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
