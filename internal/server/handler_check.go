package server

import (
	"encoding/json"
	"net/http"

	"github.com/wdlkit/wdlkit/internal/pipeline"
)

type checkRequest struct {
	SourceURI string `json:"source_uri"`
}

type checkResponse struct {
	Valid bool `json:"valid"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFatal(w, reqID, http.StatusBadRequest, err)
		return
	}

	res, err := pipeline.Check(r.Context(), s.src, req.SourceURI)
	if err != nil {
		respondFatal(w, reqID, http.StatusInternalServerError, err)
		return
	}
	if res.Errors.HasErrors() {
		respondErrors(w, reqID, http.StatusUnprocessableEntity, res.Errors)
		return
	}
	respondOK(w, reqID, checkResponse{Valid: true})
}
