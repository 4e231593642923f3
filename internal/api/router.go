// v0
// internal/api/router.go
package api

import (
	"github.com/gorilla/mux"

	"github.com/krish12388/EcoAgent/internal/metrics"
)

// NewRouter wires the serving surface.
func NewRouter(s *Server) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	r.HandleFunc("/api/analysis/run", s.handleRunAnalysis).Methods("POST")
	r.HandleFunc("/api/simulation/run", s.handleRunSimulation).Methods("POST")
	r.HandleFunc("/api/simulation/compare", s.handleCompare).Methods("POST")
	r.HandleFunc("/api/simulation/templates", s.handleTemplates).Methods("GET")
	r.HandleFunc("/api/campus/profile", s.handleProfile).Methods("GET")

	return r
}
