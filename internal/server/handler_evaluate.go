package server

import (
	"encoding/json"
	"net/http"

	"github.com/wdlkit/wdlkit/internal/jsonio"
	"github.com/wdlkit/wdlkit/internal/pipeline"
	"github.com/wdlkit/wdlkit/pkg/wdl"
)

type evaluateRequest struct {
	SourceURI string                     `json:"source_uri"`
	Task      string                     `json:"task,omitempty"`
	Inputs    map[string]json.RawMessage `json:"inputs,omitempty"`
}

type evaluateResponse struct {
	Outputs map[string]any `json:"outputs"`
	Command string         `json:"command,omitempty"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFatal(w, reqID, http.StatusBadRequest, err)
		return
	}

	codec := jsonio.NewCodec()
	inputs := make(map[string]wdl.Value, len(req.Inputs))
	for name, raw := range req.Inputs {
		v, err := codec.Decode(raw)
		if err != nil {
			respondFatal(w, reqID, http.StatusBadRequest, err)
			return
		}
		inputs[name] = v
	}

	res, err := pipeline.Evaluate(r.Context(), s.src, s.files, req.SourceURI, pipeline.EvalTarget{TaskName: req.Task}, inputs)
	if err != nil {
		if errs, ok := err.(wdl.ErrorList); ok {
			respondErrors(w, reqID, http.StatusUnprocessableEntity, errs)
			return
		}
		if werr, ok := err.(*wdl.Error); ok {
			respondErrors(w, reqID, http.StatusUnprocessableEntity, wdl.ErrorList{werr})
			return
		}
		respondFatal(w, reqID, http.StatusInternalServerError, err)
		return
	}

	outs := make(map[string]any, len(res.Outputs))
	for name, v := range res.Outputs {
		j, err := v.ToJSON()
		if err != nil {
			respondFatal(w, reqID, http.StatusInternalServerError, err)
			return
		}
		outs[name] = j
	}
	respondOK(w, reqID, evaluateResponse{Outputs: outs, Command: res.Command})
}
