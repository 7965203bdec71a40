package main

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Server is the HTTP surface the display layer binds to: one trigger route
// per (backend, operation) pair and a results route rendering the registry
// snapshot.
type Server struct {
	system *System
}

func NewServer(system *System) *Server {
	return &Server{system: system}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /run/{backend}/{operation}", s.handleRun)
	mux.HandleFunc("GET /results", s.handleResults)
	mux.HandleFunc("GET /info", s.handleInfo)
	return mux
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	op := Operation(r.PathValue("operation"))
	if op != OpPopulate && op != OpUpdate {
		http.Error(w, "unknown operation", http.StatusNotFound)
		return
	}
	adapter, ok := s.system.Adapter(r.PathValue("backend"))
	if !ok {
		http.Error(w, "unknown backend", http.StatusNotFound)
		return
	}
	result, err := s.system.Run(r.Context(), adapter, op)
	if err != nil {
		Logger.Errorf("run %v/%v failed: %v", adapter.Name(), op, err)
		var fetchErr *DatasetFetchError
		var backendErr *BackendOperationError
		if errors.As(err, &fetchErr) || errors.As(err, &backendErr) {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.system.Snapshot())
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HostStat())
}

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(value); err != nil {
		Logger.Errorf("failed to encode response: %v", err)
	}
}
