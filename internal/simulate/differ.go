// v1
// internal/simulate/differ.go
package simulate

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/krish12388/EcoAgent/internal/campus"
	"github.com/krish12388/EcoAgent/internal/config"
	"github.com/krish12388/EcoAgent/internal/pipeline"
)

// BuildingDelta is the baseline-minus-modified difference for one building.
type BuildingDelta struct {
	BuildingID string  `json:"buildingId"`
	EnergyKW   float64 `json:"energyKw"`
	WaterLPH   float64 `json:"waterLph"`
}

// Delta holds the per-metric differences, baseline minus modified. Negative
// values mean the scenario consumes more; they are surfaced, never clamped.
type Delta struct {
	EnergyKW      float64 `json:"energyKw"`
	EnergyPct     float64 `json:"energyPct"`
	WaterLPH      float64 `json:"waterLph"`
	WaterPct      float64 `json:"waterPct"`
	CO2KgH        float64 `json:"co2KgH"`
	CostUSDPerHr  float64 `json:"costUsdPerHour"`
}

// SimulationDelta compares two full pipeline runs of the same topology.
type SimulationDelta struct {
	Scenario  Scenario              `json:"scenario"`
	Baseline  pipeline.CampusTotals `json:"baseline"`
	Modified  pipeline.CampusTotals `json:"modified"`
	Delta     Delta                 `json:"delta"`
	Buildings []BuildingDelta       `json:"buildings"`

	// Verdict is "Implement" when the scenario saves more than 10% energy,
	// otherwise "Review".
	Verdict string `json:"verdict"`
}

// Differ treats the whole four-stage pipeline as a pure function of
// (contexts, tier) and calls it twice. Grants are derived independently for
// each run.
type Differ struct {
	runner *pipeline.Runner
	coeffs config.Coefficients
	lg     *slog.Logger
}

func NewDiffer(runner *pipeline.Runner, coeffs config.Coefficients, lg *slog.Logger) *Differ {
	return &Differ{runner: runner, coeffs: coeffs, lg: lg}
}

// Simulate runs baseline and scenario-modified pipelines and diffs them.
func (d *Differ) Simulate(ctx context.Context, contexts []campus.RoomContext, sc Scenario, tier pipeline.Tier) (*SimulationDelta, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	modified := Apply(contexts, sc, d.coeffs)

	baseline, err := d.runner.Run(ctx, contexts, tier)
	if err != nil {
		return nil, err
	}
	after, err := d.runner.Run(ctx, modified, tier)
	if err != nil {
		return nil, err
	}

	out := &SimulationDelta{
		Scenario: sc,
		Baseline: baseline.Totals,
		Modified: after.Totals,
		Delta: Delta{
			EnergyKW:  round2(baseline.Totals.EnergyKW - after.Totals.EnergyKW),
			WaterLPH:  round2(baseline.Totals.WaterLPH - after.Totals.WaterLPH),
			CO2KgH:    round2(baseline.Totals.CO2KgH - after.Totals.CO2KgH),
			EnergyPct: pctOf(baseline.Totals.EnergyKW-after.Totals.EnergyKW, baseline.Totals.EnergyKW),
			WaterPct:  pctOf(baseline.Totals.WaterLPH-after.Totals.WaterLPH, baseline.Totals.WaterLPH),
		},
		Buildings: buildingDeltas(baseline, after),
	}
	out.Delta.CostUSDPerHr = round2(out.Delta.EnergyKW * d.coeffs.PricePerKWh)
	out.Verdict = "Review"
	if out.Delta.EnergyPct > 10 {
		out.Verdict = "Implement"
	}
	d.lg.Info("simulation complete", "scenario", sc.Name, "type", sc.Type,
		"energySavedKw", out.Delta.EnergyKW, "energySavedPct", out.Delta.EnergyPct, "verdict", out.Verdict)
	return out, nil
}

// Ranked is one entry of a scenario comparison, ordered best-first.
type Ranked struct {
	Scenario string `json:"scenario"`
	Delta    Delta  `json:"delta"`
	Verdict  string `json:"verdict"`
}

// Compare runs several scenarios against the same baseline contexts and
// ranks them by energy savings percentage, descending.
func (d *Differ) Compare(ctx context.Context, contexts []campus.RoomContext, scenarios []Scenario, tier pipeline.Tier) ([]Ranked, error) {
	out := make([]Ranked, 0, len(scenarios))
	for _, sc := range scenarios {
		res, err := d.Simulate(ctx, contexts, sc, tier)
		if err != nil {
			return nil, err
		}
		out = append(out, Ranked{Scenario: sc.Name, Delta: res.Delta, Verdict: res.Verdict})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Delta.EnergyPct > out[j].Delta.EnergyPct })
	return out, nil
}

func buildingDeltas(baseline, modified *pipeline.CampusResult) []BuildingDelta {
	ids := make([]string, 0, len(baseline.Buildings))
	for id := range baseline.Buildings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]BuildingDelta, 0, len(ids))
	for _, id := range ids {
		b := baseline.Buildings[id]
		m := modified.Buildings[id]
		out = append(out, BuildingDelta{
			BuildingID: id,
			EnergyKW:   round2(b.TotalEnergyKW - m.TotalEnergyKW),
			WaterLPH:   round2(b.TotalWaterLPH - m.TotalWaterLPH),
		})
	}
	return out
}

func pctOf(delta, base float64) float64 {
	if base <= 0 {
		return 0
	}
	return round2(100 * delta / base)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
