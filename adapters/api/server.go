// Package api exposes a finished run over HTTP as read-only JSON plus an
// HTML rendering of the report. It consumes the core's records; it has no
// influence on how they are computed.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"simlab/adapters/export"
	"simlab/domain/simulation"
	"simlab/internal"
)

// Server serves one completed run.
type Server struct {
	result *simulation.RunResult
	log    *internal.Logger
	router chi.Router
}

// NewServer creates the result server.
func NewServer(result *simulation.RunResult, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{result: result, log: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Route("/api/run", func(r chi.Router) {
		r.Get("/", s.handleJSON(func() interface{} { return s.result }))
		r.Get("/manifest", s.handleJSON(func() interface{} { return s.result.Manifest }))
		r.Get("/coverage", s.handleJSON(func() interface{} { return s.result.Coverage }))
		r.Get("/convergence", s.handleJSON(func() interface{} { return s.result.Convergence }))
		r.Get("/estimation", s.handleJSON(func() interface{} { return s.result.Estimation }))
		r.Get("/testing", s.handleJSON(func() interface{} { return s.result.Testing }))
		r.Get("/remediation", s.handleJSON(func() interface{} { return s.result.Remediation }))
		r.Get("/mixture", s.handleJSON(func() interface{} { return s.result.Mixture }))
	})
	r.Get("/report", s.handleReport)
	s.router = r
	return s
}

// Handler returns the HTTP handler for mounting or serving.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving the run on the given port.
func (s *Server) ListenAndServe(port string) error {
	s.log.Info("serving run %s on :%s", s.result.Manifest.RunID, port)
	return http.ListenAndServe(":"+port, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleJSON(data func() interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(data()); err != nil {
			s.log.Error("encoding response: %v", err)
		}
	}
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(export.RenderHTML(s.result))
}
