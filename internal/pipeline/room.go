// v1
// internal/pipeline/room.go
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/krish12388/EcoAgent/internal/campus"
	"github.com/krish12388/EcoAgent/internal/config"
	"github.com/krish12388/EcoAgent/internal/metrics"
	"github.com/krish12388/EcoAgent/internal/reasoning"
)

// Evaluator computes per-room results. The heuristic path always produces a
// fully populated result with no external call; the inference path only ever
// enriches it.
type Evaluator struct {
	coeffs config.Coefficients
	engine reasoning.Engine
	lg     *slog.Logger
}

func NewEvaluator(coeffs config.Coefficients, engine reasoning.Engine, lg *slog.Logger) *Evaluator {
	return &Evaluator{coeffs: coeffs, engine: engine, lg: lg}
}

// Evaluate runs the heuristics, the anomaly rules, and - when the budget
// grant permits and the capability is present - the reasoning enrichment.
// A failed reasoning call is recovered locally: the heuristic result stands
// and usedInference stays false.
func (ev *Evaluator) Evaluate(ctx context.Context, rc campus.RoomContext, grant bool) RoomResult {
	res := RoomResult{
		RoomID:     rc.RoomID,
		BuildingID: rc.BuildingID,
		Type:       rc.Type,
		Capacity:   rc.Capacity,
		Occupancy:  rc.Occupancy,
	}

	res.EnergyKW = ev.heuristicEnergyKW(rc)
	res.WaterLPH = ev.heuristicWaterLPH(rc)
	res.CO2KgH = res.EnergyKW * ev.coeffs.CO2KgPerKWh
	res.OccupancyRatePct = round2(100 * float64(rc.Occupancy) / float64(capacityFloor(rc.Capacity)))

	res.Anomalies = ev.detectAnomalies(rc)
	res.Recommendations = ev.heuristicRecommendations(rc, res)

	if grant && ev.engine != nil {
		ev.enrich(ctx, rc, &res)
	}
	return res
}

// heuristicEnergyKW is a weighted sum over active equipment plus the room
// type's base load and an occupancy-proportional term. The AC term grows
// with how far the setpoint sits below the outdoor temperature.
func (ev *Evaluator) heuristicEnergyKW(rc campus.RoomContext) float64 {
	c := ev.coeffs
	kw := c.BaseLoadKW[rc.Type]
	if rc.Equipment.Lights {
		kw += c.LightsKW
	}
	if rc.Equipment.AC {
		kw += c.ACBaseKW
		if d := rc.OutdoorTempC - rc.ACSetpointC; d > 0 {
			kw += c.ACPerDegreeKW * d
		}
	}
	if rc.Equipment.Fans {
		kw += c.FansKW
	}
	if rc.Equipment.Projector {
		kw += c.ProjectorKW
	}
	kw += float64(rc.Equipment.Computers) * c.PerComputerKW
	kw += float64(rc.Occupancy) * c.PerOccupantKW
	return kw
}

func (ev *Evaluator) heuristicWaterLPH(rc campus.RoomContext) float64 {
	c := ev.coeffs
	return float64(rc.Occupancy) * c.WaterPerOccupantLPH[rc.Type] * c.WaterBucketFactor[rc.Bucket()]
}

// detectAnomalies runs on the heuristic numbers regardless of budget.
func (ev *Evaluator) detectAnomalies(rc campus.RoomContext) []string {
	var out []string
	if rc.Occupancy == 0 && rc.Equipment.Any() {
		out = append(out, AnomalyEquipmentLeftOn)
	}
	if rc.Occupancy > rc.Capacity {
		out = append(out, AnomalyOvercapacity)
	}
	if rc.ACSetpointC < ev.coeffs.SetpointMinC || rc.ACSetpointC > ev.coeffs.SetpointMaxC {
		out = append(out, AnomalySetpointOutOfRange)
	}
	return out
}

func (ev *Evaluator) heuristicRecommendations(rc campus.RoomContext, res RoomResult) []string {
	var out []string
	if rc.Occupancy == 0 && rc.Equipment.Any() {
		out = append(out, "ACTION: Shut down idle equipment in unoccupied room (est. 15% savings)")
	}
	if rc.Equipment.AC && rc.ACSetpointC < ev.coeffs.ComfortLowC {
		out = append(out, "ACTION: Raise AC setpoint into the comfort band (est. 10% savings)")
	}
	if rc.Occupancy > 0 && res.OccupancyRatePct < 30 && rc.Equipment.Any() {
		out = append(out, "ACTION: Consolidate low-occupancy usage into fewer rooms (est. 15% savings)")
	}
	if rc.Occupancy > rc.Capacity {
		out = append(out, "ACTION: Relocate overflow occupants; room is over capacity")
	}
	return out
}

// enrich passes the heuristic result as context to the reasoning service.
// The response may override recommendations and add anomalies, but never
// silently replaces the numeric totals: an energy figure diverging beyond
// the configured tolerance keeps both values and flags the disagreement.
func (ev *Evaluator) enrich(ctx context.Context, rc campus.RoomContext, res *RoomResult) {
	req := reasoning.Request{
		Layer:    reasoning.LayerRoom,
		EntityID: rc.RoomID,
		Summary:  fmt.Sprintf("%s, %d/%d occupants, hour %d (%s)", rc.Type, rc.Occupancy, rc.Capacity, rc.Hour, rc.Bucket()),
		Facts: map[string]string{
			"equipment":    equipmentFacts(rc.Equipment),
			"acSetpointC":  fmt.Sprintf("%.1f", rc.ACSetpointC),
			"outdoorTempC": fmt.Sprintf("%.1f", rc.OutdoorTempC),
		},
		HeuristicEnergyKW: res.EnergyKW,
		HeuristicWaterLPH: res.WaterLPH,
		Recommendations:   res.Recommendations,
		Anomalies:         res.Anomalies,
	}

	resp, err := ev.engine.Infer(ctx, req)
	if err != nil {
		metrics.IncInference("room", "fallback")
		return
	}
	metrics.IncInference("room", "granted")
	res.UsedInference = true

	if len(resp.Recommendations) > 0 {
		res.Recommendations = resp.Recommendations
	}
	res.Anomalies = appendUnique(res.Anomalies, resp.Anomalies...)

	if resp.EnergyKW != nil {
		tol := math.Abs(res.EnergyKW) * ev.coeffs.InferenceTolerancePct / 100
		if math.Abs(*resp.EnergyKW-res.EnergyKW) > tol {
			v := *resp.EnergyKW
			res.InferredEnergyKW = &v
			res.Anomalies = appendUnique(res.Anomalies, AnomalyInferenceDisagreement)
		} else {
			res.EnergyKW = *resp.EnergyKW
			res.CO2KgH = res.EnergyKW * ev.coeffs.CO2KgPerKWh
		}
	}
}

func equipmentFacts(e campus.Equipment) string {
	s := ""
	add := func(name string, on bool) {
		if on {
			if s != "" {
				s += ","
			}
			s += name
		}
	}
	add("lights", e.Lights)
	add("ac", e.AC)
	add("fans", e.Fans)
	add("projector", e.Projector)
	if e.Computers > 0 {
		add(fmt.Sprintf("%d computers", e.Computers), true)
	}
	if s == "" {
		s = "none"
	}
	return s
}

func capacityFloor(capacity int) int {
	if capacity < 1 {
		return 1
	}
	return capacity
}

func appendUnique(dst []string, more ...string) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range more {
		if !seen[s] {
			dst = append(dst, s)
			seen[s] = true
		}
	}
	return dst
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
