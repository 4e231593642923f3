// v1
// internal/api/http.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/krish12388/EcoAgent/internal/campus"
	"github.com/krish12388/EcoAgent/internal/config"
	"github.com/krish12388/EcoAgent/internal/pipeline"
	"github.com/krish12388/EcoAgent/internal/publish"
	"github.com/krish12388/EcoAgent/internal/simulate"
	"github.com/krish12388/EcoAgent/internal/synth"
)

// Server is the thin serving layer over the pipeline: it delivers request
// parameters in and serializes results out, nothing more.
type Server struct {
	cfg       *config.Config
	lg        *slog.Logger
	runner    *pipeline.Runner
	differ    *simulate.Differ
	publisher *publish.Publisher
	templates []simulate.Template
}

func NewServer(cfg *config.Config, lg *slog.Logger, runner *pipeline.Runner, differ *simulate.Differ, publisher *publish.Publisher, templates []simulate.Template) *Server {
	return &Server{cfg: cfg, lg: lg, runner: runner, differ: differ, publisher: publisher, templates: templates}
}

// AnalysisRequest selects what to analyze. Zero-valued fields fall back to
// the configured defaults.
type AnalysisRequest struct {
	Topology   *campus.Topology           `json:"topology,omitempty"`
	Global     *campus.GlobalParams       `json:"global,omitempty"`
	Overrides  map[string]campus.Override `json:"overrides,omitempty"`
	BudgetTier string                     `json:"budgetTier,omitempty"`
	Demo       bool                       `json:"demo,omitempty"`
	DemoSeed   int64                      `json:"demoSeed,omitempty"`
}

// SimulationRequest is an AnalysisRequest plus the scenario to diff.
type SimulationRequest struct {
	AnalysisRequest
	Scenario simulate.Scenario `json:"scenario"`
}

// CompareRequest diffs several scenarios against one baseline.
type CompareRequest struct {
	AnalysisRequest
	Scenarios []simulate.Scenario `json:"scenarios"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"reasoning":        s.cfg.ReasoningURL != "",
		"reportPublishing": s.publisher != nil,
	})
}

func (s *Server) handleRunAnalysis(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	topo, global, overrides, tier, err := s.resolve(req)
	if err != nil {
		writeRunError(w, err)
		return
	}
	res, err := s.runner.RunAnalysis(r.Context(), topo, global, overrides, tier)
	if err != nil {
		writeRunError(w, err)
		return
	}
	env := publish.NewEnvelope(res, tier)
	s.publisher.Publish(r.Context(), env)
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleRunSimulation(w http.ResponseWriter, r *http.Request) {
	var req SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	contexts, tier, err := s.resolveContexts(req.AnalysisRequest)
	if err != nil {
		writeRunError(w, err)
		return
	}
	delta, err := s.differ.Simulate(r.Context(), contexts, req.Scenario, tier)
	if err != nil {
		writeRunError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, delta)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Scenarios) == 0 {
		writeError(w, http.StatusBadRequest, "at least one scenario is required")
		return
	}
	contexts, tier, err := s.resolveContexts(req.AnalysisRequest)
	if err != nil {
		writeRunError(w, err)
		return
	}
	ranked, err := s.differ.Compare(r.Context(), contexts, req.Scenarios, tier)
	if err != nil {
		writeRunError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scenariosCompared": len(ranked),
		"results":           ranked,
		"recommended":       ranked[0],
	})
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.templates)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"defaultTopology": s.cfg.DefaultTopology,
		"defaultGlobal":   s.cfg.DefaultGlobal,
		"defaultTier":     s.cfg.DefaultTier,
		"roomTypes":       campus.RoomTypes,
	})
}

// resolve merges the request with configured defaults. Demo requests get a
// synthesized dataset instead of caller-provided parameters.
func (s *Server) resolve(req AnalysisRequest) (campus.Topology, campus.GlobalParams, map[string]campus.Override, pipeline.Tier, error) {
	tier, err := pipeline.ParseTier(req.BudgetTier, s.cfg.DefaultTier)
	if err != nil {
		return campus.Topology{}, campus.GlobalParams{}, nil, "", err
	}
	topo := s.cfg.DefaultTopology
	if req.Topology != nil {
		topo = *req.Topology
	}
	if req.Demo {
		seed := req.DemoSeed
		if seed == 0 {
			seed = 42
		}
		ds := synth.Generate(topo, s.cfg.DefaultGlobal.Hour, seed)
		return ds.Topology, ds.Global, ds.Overrides, tier, nil
	}
	global := s.cfg.DefaultGlobal
	if req.Global != nil {
		global = *req.Global
	}
	return topo, global, req.Overrides, tier, nil
}

func (s *Server) resolveContexts(req AnalysisRequest) ([]campus.RoomContext, pipeline.Tier, error) {
	topo, global, overrides, tier, err := s.resolve(req)
	if err != nil {
		return nil, "", err
	}
	contexts, err := campus.BuildContexts(topo, global, overrides)
	if err != nil {
		return nil, "", err
	}
	return contexts, tier, nil
}

// writeRunError maps the error taxonomy onto status codes: configuration
// errors are the caller's fault, anything else is internal. Reasoning
// degradation never reaches this path.
func writeRunError(w http.ResponseWriter, err error) {
	var cfgErr *campus.ConfigurationError
	if errors.As(err, &cfgErr) {
		writeError(w, http.StatusBadRequest, cfgErr.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
