// v1
// internal/pipeline/runner.go
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/krish12388/EcoAgent/internal/campus"
	"github.com/krish12388/EcoAgent/internal/config"
	"github.com/krish12388/EcoAgent/internal/metrics"
	"github.com/krish12388/EcoAgent/internal/reasoning"
)

// Runner owns one configuration of the four-stage pipeline. It is safe for
// concurrent use: every run owns its own contexts, grants and results, and
// no state is shared across runs.
type Runner struct {
	cfg    *config.Config
	lg     *slog.Logger
	engine reasoning.Engine
}

// NewRunner wires the pipeline. A nil engine puts every run in
// heuristic-only mode.
func NewRunner(cfg *config.Config, lg *slog.Logger, engine reasoning.Engine) *Runner {
	return &Runner{cfg: cfg, lg: lg, engine: engine}
}

// RunAnalysis executes the full pipeline: build contexts, evaluate rooms
// concurrently per building, aggregate buildings concurrently once their
// rooms have joined, then fold the campus. The run either completes fully or
// reports failure; a cancelled run never returns a partial result.
func (rn *Runner) RunAnalysis(ctx context.Context, topo campus.Topology, global campus.GlobalParams, overrides map[string]campus.Override, tier Tier) (*CampusResult, error) {
	started := time.Now()
	contexts, err := campus.BuildContexts(topo, global, overrides)
	if err != nil {
		metrics.IncRun("config_error")
		return nil, err
	}
	res, err := rn.run(ctx, contexts, tier)
	switch {
	case err == nil:
		metrics.IncRun("ok")
		metrics.ObserveRunDuration(time.Since(started).Seconds())
		metrics.AddRoomsEvaluated(len(contexts))
	case ctx.Err() != nil:
		metrics.IncRun("cancelled")
	default:
		metrics.IncRun("internal_error")
	}
	return res, err
}

// Run executes the pipeline over prebuilt contexts. Exposed for the
// simulation differ, which transforms contexts before running.
func (rn *Runner) Run(ctx context.Context, contexts []campus.RoomContext, tier Tier) (*CampusResult, error) {
	return rn.run(ctx, contexts, tier)
}

func (rn *Runner) run(ctx context.Context, contexts []campus.RoomContext, tier Tier) (*CampusResult, error) {
	buildingIDs, grouped := campus.GroupByBuilding(contexts)
	totalRooms := len(contexts)

	// Grants are a pure function of (tier, global input index), computed up
	// front so concurrent evaluation never touches shared counters.
	roomGrant := make(map[string]bool, totalRooms)
	for i, rc := range contexts {
		roomGrant[rc.RoomID] = tier.Grant(reasoning.LayerRoom, i, totalRooms)
	}

	evaluator := NewEvaluator(rn.cfg.Coeffs, rn.engine, rn.lg)
	buildingAgg := NewBuildingAggregator(rn.cfg.Coeffs, rn.engine, rn.lg)
	campusAgg := NewCampusAggregator(rn.cfg.Coeffs, rn.engine, rn.lg)

	buildingResults := make([]BuildingResult, len(buildingIDs))
	g, gctx := errgroup.WithContext(ctx)
	for bi, id := range buildingIDs {
		bi, id := bi, id
		roomContexts := grouped[id]
		escalate := tier.Grant(reasoning.LayerBuilding, bi, len(buildingIDs))
		g.Go(func() error {
			rooms := make([]RoomResult, len(roomContexts))
			rg, rctx := errgroup.WithContext(gctx)
			for ri, rc := range roomContexts {
				ri, rc := ri, rc
				rg.Go(func() error {
					if err := rctx.Err(); err != nil {
						return err
					}
					rooms[ri] = evaluator.Evaluate(rctx, rc, roomGrant[rc.RoomID])
					return nil
				})
			}
			if err := rg.Wait(); err != nil {
				return err
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			buildingResults[bi] = buildingAgg.Aggregate(gctx, id, roomContexts, rooms, escalate)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		rn.lg.Warn("analysis run aborted", "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byID := make(map[string]BuildingResult, len(buildingResults))
	for _, b := range buildingResults {
		byID[b.BuildingID] = b
	}
	narrate := tier.Grant(reasoning.LayerCampus, 0, 1)
	res := campusAgg.Aggregate(ctx, buildingIDs, byID, narrate)

	res.InferenceUsed, res.InferenceBudget = rn.accounting(&res, tier, totalRooms, len(buildingIDs))
	if err := VerifyInvariants(&res); err != nil {
		rn.lg.Error("invariant check failed", "error", err)
		return nil, err
	}
	rn.lg.Info("analysis run complete",
		"rooms", totalRooms, "buildings", len(buildingIDs), "tier", string(tier),
		"energyKw", res.Totals.EnergyKW, "inference", res.InferenceUsed, "budget", res.InferenceBudget)
	return &res, nil
}

// accounting produces the run-level "used N/M inference calls" summary.
func (rn *Runner) accounting(res *CampusResult, tier Tier, rooms, buildings int) (used, budget int) {
	for _, b := range res.Buildings {
		if b.UsedInference {
			used++
		}
		for _, r := range b.Rooms {
			if r.UsedInference {
				used++
			}
		}
	}
	if res.Narrative != "" {
		used++
	}
	budget = tier.Cap(reasoning.LayerRoom, rooms) +
		tier.Cap(reasoning.LayerBuilding, buildings) +
		tier.Cap(reasoning.LayerCampus, 1)
	return used, budget
}
