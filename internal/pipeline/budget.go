// v1
// internal/pipeline/budget.go
package pipeline

import (
	"math"

	"github.com/krish12388/EcoAgent/internal/campus"
	"github.com/krish12388/EcoAgent/internal/reasoning"
)

// Tier is the per-run inference budget policy. It is fixed for the duration
// of one run.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// ParseTier validates a tier name; an empty string selects def.
func ParseTier(s, def string) (Tier, error) {
	if s == "" {
		s = def
	}
	switch Tier(s) {
	case TierLow, TierMedium, TierHigh:
		return Tier(s), nil
	}
	return "", &campus.ConfigurationError{Field: "budgetTier", Reason: "must be low, medium or high, got " + s}
}

// Cap returns how many entities at a layer may take the inference path:
//
//	low:    ceil(0.3·rooms), 0 buildings, 1 campus call
//	medium: ceil(0.6·rooms), 1 escalation per building, 1 campus call
//	high:   all rooms, all buildings, 1 campus call
func (t Tier) Cap(layer reasoning.Layer, total int) int {
	if total <= 0 {
		return 0
	}
	switch layer {
	case reasoning.LayerRoom:
		switch t {
		case TierLow:
			return int(math.Ceil(0.3 * float64(total)))
		case TierMedium:
			return int(math.Ceil(0.6 * float64(total)))
		default:
			return total
		}
	case reasoning.LayerBuilding:
		if t == TierLow {
			return 0
		}
		return total
	case reasoning.LayerCampus:
		return 1
	}
	return 0
}

// Grant decides whether the entity at index (0-based, input order) receives
// an inference slot. Selection is a pure function over the index range:
// entities are granted in input order up to the cap, with no state touched
// during evaluation, so concurrent evaluation stays race-free and re-runs
// reproduce the same grant set.
func (t Tier) Grant(layer reasoning.Layer, index, total int) bool {
	if index < 0 || index >= total {
		return false
	}
	return index < t.Cap(layer, total)
}
