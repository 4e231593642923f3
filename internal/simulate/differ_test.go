// v1
// internal/simulate/differ_test.go
package simulate

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/krish12388/EcoAgent/internal/config"
	"github.com/krish12388/EcoAgent/internal/pipeline"
)

func testDiffer() *Differ {
	lg := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{Coeffs: config.DefaultCoefficients()}
	return NewDiffer(pipeline.NewRunner(cfg, lg, nil), cfg.Coeffs, lg)
}

func TestSimulateAfterHoursShutdownSaves(t *testing.T) {
	d := testDiffer()
	res, err := d.Simulate(context.Background(), eveningContexts(), Scenario{Name: "after hours", Type: TypeAfterHoursShutdown}, pipeline.TierLow)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if res.Delta.EnergyKW <= 0 {
		t.Fatalf("shutting everything down must save energy, delta %+v", res.Delta)
	}
	if res.Delta.EnergyPct <= 10 || res.Verdict != "Implement" {
		t.Fatalf("large saving must yield Implement, got %q at %.2f%%", res.Verdict, res.Delta.EnergyPct)
	}
	if res.Baseline.EnergyKW <= res.Modified.EnergyKW {
		t.Fatalf("totals inverted: baseline %.2f, modified %.2f", res.Baseline.EnergyKW, res.Modified.EnergyKW)
	}
}

func TestSimulateNoopScenarioShowsZeroDelta(t *testing.T) {
	d := testDiffer()

	// reduce_hvac on contexts whose setpoints already sit in the comfort band
	// changes nothing: deltas must be exactly zero, not clamped positives.
	res, err := d.Simulate(context.Background(), eveningContexts(), Scenario{Name: "noop", Type: TypeReduceHVAC}, pipeline.TierLow)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if res.Delta.EnergyKW != 0 || res.Verdict != "Review" {
		t.Fatalf("no-op scenario must show zero delta and Review, got %+v", res.Delta)
	}
}

func TestSimulateRejectsInvalidScenario(t *testing.T) {
	d := testDiffer()
	if _, err := d.Simulate(context.Background(), eveningContexts(), Scenario{Type: "demolish"}, pipeline.TierLow); err == nil {
		t.Fatalf("invalid scenario must not run the pipeline")
	}
}

func TestCompareRanksByEnergySavings(t *testing.T) {
	d := testDiffer()
	ranked, err := d.Compare(context.Background(), eveningContexts(), []Scenario{
		{Name: "noop", Type: TypeReduceHVAC},
		{Name: "shutdown", Type: TypeAfterHoursShutdown},
	}, pipeline.TierLow)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(ranked) != 2 || ranked[0].Scenario != "shutdown" {
		t.Fatalf("best scenario must rank first: %+v", ranked)
	}
	if ranked[0].Delta.EnergyPct < ranked[1].Delta.EnergyPct {
		t.Fatalf("ranking not descending: %+v", ranked)
	}
}

func TestBuildingDeltasCoverEveryBuilding(t *testing.T) {
	d := testDiffer()
	res, err := d.Simulate(context.Background(), eveningContexts(), Scenario{Name: "close", Type: TypeCloseBuilding, BuildingID: "B02"}, pipeline.TierLow)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if len(res.Buildings) != 2 {
		t.Fatalf("expected 2 building deltas, got %d", len(res.Buildings))
	}
	if res.Buildings[0].BuildingID != "B01" || res.Buildings[1].BuildingID != "B02" {
		t.Fatalf("building deltas must be id-ordered: %+v", res.Buildings)
	}
	if res.Buildings[0].EnergyKW != 0 {
		t.Fatalf("untouched building must show zero delta: %+v", res.Buildings[0])
	}
	if res.Buildings[1].EnergyKW <= 0 {
		t.Fatalf("closed building must show savings: %+v", res.Buildings[1])
	}
}
