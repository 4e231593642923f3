// v1
// internal/pipeline/building.go
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/krish12388/EcoAgent/internal/campus"
	"github.com/krish12388/EcoAgent/internal/config"
	"github.com/krish12388/EcoAgent/internal/metrics"
	"github.com/krish12388/EcoAgent/internal/reasoning"
)

// policyRecommendation is the campus-configured measure appended at building
// level whenever the building carries after-hours occupancy.
const policyRecommendation = "BUILDING ACTION: Consolidate after-hours occupancy into fewer rooms"

// BuildingAggregator folds room results into one BuildingResult. No
// reasoning call happens here by default; the budget tier may grant a single
// escalation per building for a narrative.
type BuildingAggregator struct {
	coeffs config.Coefficients
	engine reasoning.Engine
	lg     *slog.Logger
}

func NewBuildingAggregator(coeffs config.Coefficients, engine reasoning.Engine, lg *slog.Logger) *BuildingAggregator {
	return &BuildingAggregator{coeffs: coeffs, engine: engine, lg: lg}
}

// Aggregate consumes exactly the building's room contexts and results, in
// input order. Totals are exact sums; the occupancy rate uses a capacity
// floor of one per room.
func (ba *BuildingAggregator) Aggregate(ctx context.Context, buildingID string, contexts []campus.RoomContext, rooms []RoomResult, escalate bool) BuildingResult {
	b := BuildingResult{BuildingID: buildingID, Rooms: rooms}

	flooredCapacity := 0
	for _, r := range rooms {
		b.TotalEnergyKW += r.EnergyKW
		b.TotalWaterLPH += r.WaterLPH
		b.TotalCO2KgH += r.CO2KgH
		b.TotalOccupancy += r.Occupancy
		b.TotalCapacity += r.Capacity
		flooredCapacity += capacityFloor(r.Capacity)
		for _, a := range r.Anomalies {
			b.Anomalies = append(b.Anomalies, r.RoomID+": "+a)
		}
	}
	b.OccupancyRatePct = round2(100 * float64(b.TotalOccupancy) / float64(flooredCapacity))
	b.SavingsPotentialPct = ba.savingsPotentialPct(contexts, b.TotalEnergyKW)
	b.Recommendations = ba.recommendations(contexts, rooms)

	if escalate && ba.engine != nil {
		ba.escalate(ctx, &b)
	}
	return b
}

// savingsPotentialPct estimates reducible load: equipment running in empty
// rooms plus AC overcooling beyond the comfort band, as a percentage of the
// building's total energy.
func (ba *BuildingAggregator) savingsPotentialPct(contexts []campus.RoomContext, totalEnergyKW float64) float64 {
	if totalEnergyKW <= 0 {
		return 0
	}
	c := ba.coeffs
	var wasteKW float64
	for _, rc := range contexts {
		if rc.Occupancy == 0 {
			if rc.Equipment.Lights {
				wasteKW += c.LightsKW
			}
			if rc.Equipment.AC {
				wasteKW += c.ACBaseKW
				if d := rc.OutdoorTempC - rc.ACSetpointC; d > 0 {
					wasteKW += c.ACPerDegreeKW * d
				}
			}
			if rc.Equipment.Fans {
				wasteKW += c.FansKW
			}
			if rc.Equipment.Projector {
				wasteKW += c.ProjectorKW
			}
			wasteKW += float64(rc.Equipment.Computers) * c.PerComputerKW
		} else if rc.Equipment.AC && rc.ACSetpointC < c.ComfortLowC {
			wasteKW += c.ACPerDegreeKW * (c.ComfortLowC - rc.ACSetpointC)
		}
	}
	pct := 100 * wasteKW / totalEnergyKW
	if pct > 100 {
		pct = 100
	}
	return round2(pct)
}

// recommendations keeps the deduplicated union of room recommendations whose
// supporting condition recurs in at least two rooms, in first-seen order,
// plus the after-hours policy measure when it applies.
func (ba *BuildingAggregator) recommendations(contexts []campus.RoomContext, rooms []RoomResult) []string {
	counts := map[string]int{}
	var order []string
	for _, r := range rooms {
		seenHere := map[string]bool{}
		for _, rec := range r.Recommendations {
			if seenHere[rec] {
				continue
			}
			seenHere[rec] = true
			if counts[rec] == 0 {
				order = append(order, rec)
			}
			counts[rec]++
		}
	}
	var out []string
	for _, rec := range order {
		if counts[rec] >= 2 {
			out = append(out, rec)
		}
	}
	for _, rc := range contexts {
		if rc.Occupancy > 0 {
			if bu := rc.Bucket(); bu == campus.BucketEvening || bu == campus.BucketNight {
				out = append(out, policyRecommendation)
				break
			}
		}
	}
	return out
}

func (ba *BuildingAggregator) escalate(ctx context.Context, b *BuildingResult) {
	req := reasoning.Request{
		Layer:    reasoning.LayerBuilding,
		EntityID: b.BuildingID,
		Summary: fmt.Sprintf("%d rooms, %.2f kW, %.2f L/h, %d/%d occupants (%.1f%%), savings potential %.1f%%",
			len(b.Rooms), b.TotalEnergyKW, b.TotalWaterLPH, b.TotalOccupancy, b.TotalCapacity, b.OccupancyRatePct, b.SavingsPotentialPct),
		HeuristicEnergyKW: b.TotalEnergyKW,
		HeuristicWaterLPH: b.TotalWaterLPH,
		Recommendations:   b.Recommendations,
		Anomalies:         b.Anomalies,
	}
	resp, err := ba.engine.Infer(ctx, req)
	if err != nil {
		metrics.IncInference("building", "fallback")
		return
	}
	metrics.IncInference("building", "granted")
	b.UsedInference = true
	b.Narrative = resp.Narrative
	b.Recommendations = appendUnique(b.Recommendations, resp.Recommendations...)
}
