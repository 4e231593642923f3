// v1
// internal/pipeline/campus.go
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/krish12388/EcoAgent/internal/campus"
	"github.com/krish12388/EcoAgent/internal/config"
	"github.com/krish12388/EcoAgent/internal/metrics"
	"github.com/krish12388/EcoAgent/internal/reasoning"
)

// sumEpsilon bounds the floating-point drift tolerated by the parent/child
// sum invariant checks.
const sumEpsilon = 1e-6

// CampusAggregator folds building results into the terminal CampusResult.
type CampusAggregator struct {
	coeffs config.Coefficients
	engine reasoning.Engine
	lg     *slog.Logger
}

func NewCampusAggregator(coeffs config.Coefficients, engine reasoning.Engine, lg *slog.Logger) *CampusAggregator {
	return &CampusAggregator{coeffs: coeffs, engine: engine, lg: lg}
}

// Aggregate receives buildings in input order (buildingIDs preserves it;
// the map in the result is for keyed access only).
func (ca *CampusAggregator) Aggregate(ctx context.Context, buildingIDs []string, buildings map[string]BuildingResult, narrate bool) CampusResult {
	res := CampusResult{Buildings: buildings}

	flooredCapacity := 0
	for _, id := range buildingIDs {
		b := buildings[id]
		res.Totals.Buildings++
		res.Totals.Rooms += len(b.Rooms)
		res.Totals.EnergyKW += b.TotalEnergyKW
		res.Totals.WaterLPH += b.TotalWaterLPH
		res.Totals.CO2KgH += b.TotalCO2KgH
		res.Totals.Occupancy += b.TotalOccupancy
		res.Totals.Capacity += b.TotalCapacity
		for _, r := range b.Rooms {
			flooredCapacity += capacityFloor(r.Capacity)
		}

		res.Savings.EnergyKWH += b.TotalEnergyKW * b.SavingsPotentialPct / 100
		res.Savings.WaterLPH += b.TotalWaterLPH * b.SavingsPotentialPct / 100
	}
	if flooredCapacity > 0 {
		res.Totals.OccupancyRatePct = round2(100 * float64(res.Totals.Occupancy) / float64(flooredCapacity))
	}
	res.Savings.EnergyKWH = round2(res.Savings.EnergyKWH)
	res.Savings.WaterLPH = round2(res.Savings.WaterLPH)
	res.Savings.HourlyCostUSD = round2(res.Savings.EnergyKWH * ca.coeffs.PricePerKWh)
	res.Savings.CO2ReductionKg = round2(res.Savings.EnergyKWH * ca.coeffs.CO2KgPerKWh)

	res.CriticalBuildings = ca.criticalBuildings(buildingIDs, buildings)
	res.Recommendations = ca.recommendations(buildingIDs, buildings)

	if narrate && ca.engine != nil {
		ca.narrate(ctx, &res)
	}
	if len(res.Recommendations) > ca.coeffs.MaxCampusRecommendations {
		res.Recommendations = res.Recommendations[:ca.coeffs.MaxCampusRecommendations]
	}
	return res
}

// criticalBuildings flags buildings whose energy-per-occupant or savings
// potential exceeds its threshold, with one reason per rule fired. Ordering:
// energy descending, building id ascending on ties, for determinism.
func (ca *CampusAggregator) criticalBuildings(buildingIDs []string, buildings map[string]BuildingResult) []CriticalBuilding {
	var out []CriticalBuilding
	for _, id := range buildingIDs {
		b := buildings[id]
		var reasons []string
		perOccupant := b.TotalEnergyKW / float64(maxInt(b.TotalOccupancy, 1))
		if perOccupant > ca.coeffs.EnergyPerOccupantKW {
			reasons = append(reasons, fmt.Sprintf("energy per occupant %.2f kW exceeds %.2f kW", perOccupant, ca.coeffs.EnergyPerOccupantKW))
		}
		if b.SavingsPotentialPct > ca.coeffs.HighWastePct {
			reasons = append(reasons, fmt.Sprintf("savings potential %.1f%% exceeds %.1f%%", b.SavingsPotentialPct, ca.coeffs.HighWastePct))
		}
		if len(reasons) > 0 {
			out = append(out, CriticalBuilding{
				BuildingID:       b.BuildingID,
				EnergyKW:         b.TotalEnergyKW,
				OccupancyRatePct: b.OccupancyRatePct,
				Reasons:          reasons,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EnergyKW != out[j].EnergyKW {
			return out[i].EnergyKW > out[j].EnergyKW
		}
		return out[i].BuildingID < out[j].BuildingID
	})
	return out
}

// recommendations keeps building recommendations recurring across at least
// two buildings, ordered by recurrence count descending then first-seen.
func (ca *CampusAggregator) recommendations(buildingIDs []string, buildings map[string]BuildingResult) []string {
	counts := map[string]int{}
	firstSeen := map[string]int{}
	var order []string
	for _, id := range buildingIDs {
		seenHere := map[string]bool{}
		for _, rec := range buildings[id].Recommendations {
			if seenHere[rec] {
				continue
			}
			seenHere[rec] = true
			if counts[rec] == 0 {
				firstSeen[rec] = len(order)
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
	sort.SliceStable(out, func(i, j int) bool {
		if counts[out[i]] != counts[out[j]] {
			return counts[out[i]] > counts[out[j]]
		}
		return firstSeen[out[i]] < firstSeen[out[j]]
	})
	return out
}

func (ca *CampusAggregator) narrate(ctx context.Context, res *CampusResult) {
	req := reasoning.Request{
		Layer:    reasoning.LayerCampus,
		EntityID: "campus",
		Summary: fmt.Sprintf("%d buildings, %d rooms, %.2f kW, %.2f L/h, occupancy %.1f%%, %d critical buildings",
			res.Totals.Buildings, res.Totals.Rooms, res.Totals.EnergyKW, res.Totals.WaterLPH, res.Totals.OccupancyRatePct, len(res.CriticalBuildings)),
		HeuristicEnergyKW: res.Totals.EnergyKW,
		HeuristicWaterLPH: res.Totals.WaterLPH,
		Recommendations:   res.Recommendations,
	}
	resp, err := ca.engine.Infer(ctx, req)
	if err != nil {
		metrics.IncInference("campus", "fallback")
		return
	}
	metrics.IncInference("campus", "granted")
	res.Narrative = resp.Narrative
	res.Recommendations = appendUnique(res.Recommendations, resp.Recommendations...)
}

// VerifyInvariants recomputes every parent total from its children and
// aborts the run on drift beyond sumEpsilon. This class of failure is a
// programming error, never expected in correct operation.
func VerifyInvariants(res *CampusResult) error {
	var energy, water, co2 float64
	occ, capTotal, rooms := 0, 0, 0
	for id, b := range res.Buildings {
		var be, bw, bc float64
		bo, bcap := 0, 0
		for _, r := range b.Rooms {
			be += r.EnergyKW
			bw += r.WaterLPH
			bc += r.CO2KgH
			bo += r.Occupancy
			bcap += r.Capacity
		}
		if err := checkSum("building", id, "energyKw", b.TotalEnergyKW, be); err != nil {
			return err
		}
		if err := checkSum("building", id, "waterLph", b.TotalWaterLPH, bw); err != nil {
			return err
		}
		if err := checkSum("building", id, "co2KgH", b.TotalCO2KgH, bc); err != nil {
			return err
		}
		if b.TotalOccupancy != bo || b.TotalCapacity != bcap {
			return &campus.InvariantViolation{Stage: "building", Entity: id, Detail: "occupancy or capacity totals do not match children"}
		}
		energy += b.TotalEnergyKW
		water += b.TotalWaterLPH
		co2 += b.TotalCO2KgH
		occ += b.TotalOccupancy
		capTotal += b.TotalCapacity
		rooms += len(b.Rooms)
	}
	if err := checkSum("campus", "campus", "energyKw", res.Totals.EnergyKW, energy); err != nil {
		return err
	}
	if err := checkSum("campus", "campus", "waterLph", res.Totals.WaterLPH, water); err != nil {
		return err
	}
	if err := checkSum("campus", "campus", "co2KgH", res.Totals.CO2KgH, co2); err != nil {
		return err
	}
	if res.Totals.Occupancy != occ || res.Totals.Capacity != capTotal || res.Totals.Rooms != rooms {
		return &campus.InvariantViolation{Stage: "campus", Entity: "campus", Detail: "count totals do not match children"}
	}
	return nil
}

func checkSum(stage, entity, field string, have, want float64) error {
	if math.Abs(have-want) > sumEpsilon {
		return &campus.InvariantViolation{
			Stage:  stage,
			Entity: entity,
			Detail: fmt.Sprintf("%s parent total %.9f != child sum %.9f", field, have, want),
		}
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
