// v1
// internal/reasoning/reasoning.go
// Package reasoning wraps the external reasoning service behind a single
// capability: Infer(context) -> enriched recommendations/anomalies. Latency
// and quality are opaque to callers; the contract is returns-or-times-out.
package reasoning

import (
	"context"
	"errors"
)

// Layer identifies which stage of the hierarchy is asking.
type Layer string

const (
	LayerRoom     Layer = "room"
	LayerBuilding Layer = "building"
	LayerCampus   Layer = "campus"
)

// ErrUnavailable covers every way the service can fail for one entity:
// transport error, timeout, open breaker, malformed reply. Callers recover
// by keeping their heuristic result; it is never a run failure.
var ErrUnavailable = errors.New("reasoning service unavailable")

// Request carries one entity's context plus the heuristic precomputation the
// service may refine.
type Request struct {
	Layer    Layer             `json:"layer"`
	EntityID string            `json:"entityId"`
	Summary  string            `json:"summary"`
	Facts    map[string]string `json:"facts,omitempty"`

	HeuristicEnergyKW float64  `json:"heuristicEnergyKw"`
	HeuristicWaterLPH float64  `json:"heuristicWaterLph"`
	Recommendations   []string `json:"recommendations,omitempty"`
	Anomalies         []string `json:"anomalies,omitempty"`
}

// Response is the service's enrichment. EnergyKW is optional: when present it
// is the service's own estimate and may disagree with the heuristic one.
type Response struct {
	Recommendations []string `json:"recommendations"`
	Anomalies       []string `json:"anomalies"`
	EnergyKW        *float64 `json:"energyKw,omitempty"`
	Narrative       string   `json:"narrative,omitempty"`
}

// Engine is the capability interface. A nil Engine means the capability is
// absent and every entity takes the heuristic path.
type Engine interface {
	Infer(ctx context.Context, req Request) (Response, error)
}
