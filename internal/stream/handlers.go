package stream

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vango-dev/changetree/internal/demo"
)

type mutationRequest struct {
	Op   string    `json:"op"`
	Args demo.Args `json:"args,omitempty"`
}

type mutationResponse struct {
	Op      string `json:"op"`
	Records uint64 `json:"records"`
	Total   int    `json:"total"`
}

type opInfo struct {
	Name string `json:"name"`
	Help string `json:"help"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleMutation(w http.ResponseWriter, r *http.Request) {
	var req mutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Op == "" {
		writeError(w, http.StatusBadRequest, "missing op")
		return
	}

	var resp mutationResponse
	err := s.do(r.Context(), func() error {
		before := s.recorder.Count()
		err := demo.Apply(s.order, req.Op, req.Args)
		resp = mutationResponse{
			Op:      req.Op,
			Records: s.recorder.Count() - before,
			Total:   s.order.Total(),
		}
		return err
	})

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, demo.ErrUnknownOp):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, demo.ErrNoSuchItem), errors.Is(err, demo.ErrNoCustomer):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.opts.Logger.Error("mutation failed", slog.String("op", req.Op), slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	node, err := s.Tree(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, node)
}

func (s *Server) handleOps(w http.ResponseWriter, r *http.Request) {
	ops := demo.Ops()
	out := make([]opInfo, len(ops))
	for i, op := range ops {
		out[i] = opInfo{Name: op.Name, Help: op.Help}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
		"records": s.recorder.Count(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
