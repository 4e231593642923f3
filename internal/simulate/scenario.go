// v1
// internal/simulate/scenario.go
// Package simulate runs what-if scenarios: a parameter transform over the
// baseline contexts, two full pipeline runs, and a structured delta.
package simulate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/krish12388/EcoAgent/internal/campus"
	"github.com/krish12388/EcoAgent/internal/config"
)

// Scenario types supported by the transform.
const (
	TypeCloseBuilding      = "close_building"
	TypeReduceHVAC         = "reduce_hvac"
	TypeAfterHoursShutdown = "after_hours_shutdown"
	TypeShiftSchedule      = "shift_schedule"
)

// Scenario describes one what-if transform. Zero-valued knobs fall back to
// the type's defaults.
type Scenario struct {
	Name          string `json:"name" yaml:"name"`
	Type          string `json:"type" yaml:"type"`
	BuildingID    string `json:"buildingId,omitempty" yaml:"building_id,omitempty"`
	AfterHour     int    `json:"afterHour,omitempty" yaml:"after_hour,omitempty"`
	KeepBuildings int    `json:"keepBuildings,omitempty" yaml:"keep_buildings,omitempty"`
}

// Validate rejects malformed scenarios before any pipeline run.
func (s Scenario) Validate() error {
	switch s.Type {
	case TypeCloseBuilding:
		if s.BuildingID == "" {
			return &campus.ConfigurationError{Field: "scenario.buildingId", Reason: "required for close_building"}
		}
	case TypeReduceHVAC, TypeAfterHoursShutdown, TypeShiftSchedule:
	default:
		return &campus.ConfigurationError{Field: "scenario.type", Reason: fmt.Sprintf("unknown scenario type %q", s.Type)}
	}
	return nil
}

// Apply produces the modified context set. The baseline slice is never
// mutated; the pipeline treats both sets as independent inputs.
func Apply(contexts []campus.RoomContext, sc Scenario, coeffs config.Coefficients) []campus.RoomContext {
	out := make([]campus.RoomContext, len(contexts))
	copy(out, contexts)

	switch sc.Type {
	case TypeCloseBuilding:
		for i := range out {
			if out[i].BuildingID == sc.BuildingID {
				shutDown(&out[i])
			}
		}
	case TypeReduceHVAC:
		// Cap AC draw in low-occupancy rooms by lifting the setpoint to the
		// comfort band's lower edge.
		for i := range out {
			rate := 100 * float64(out[i].Occupancy) / float64(floor1(out[i].Capacity))
			if rate < 30 && out[i].Equipment.AC && out[i].ACSetpointC < coeffs.ComfortLowC {
				out[i].ACSetpointC = coeffs.ComfortLowC
			}
		}
	case TypeAfterHoursShutdown:
		after := sc.AfterHour
		if after == 0 {
			after = 20
		}
		for i := range out {
			if out[i].Hour >= after {
				shutDown(&out[i])
			}
		}
	case TypeShiftSchedule:
		applyShift(out, sc)
	}
	return out
}

// applyShift consolidates evening and night occupancy into the first
// KeepBuildings buildings: displaced occupants are re-seated round-robin
// into kept rooms up to capacity, source rooms shut down.
func applyShift(out []campus.RoomContext, sc Scenario) {
	keep := sc.KeepBuildings
	if keep <= 0 {
		keep = 1
	}
	kept := map[string]bool{}
	var keptIdx []int
	order := 0
	for i := range out {
		if kept[out[i].BuildingID] {
			keptIdx = append(keptIdx, i)
			continue
		}
		if order < keep {
			kept[out[i].BuildingID] = true
			keptIdx = append(keptIdx, i)
			order++
		}
	}

	displaced := 0
	for i := range out {
		if kept[out[i].BuildingID] {
			continue
		}
		if bu := out[i].Bucket(); bu == campus.BucketEvening || bu == campus.BucketNight {
			displaced += out[i].Occupancy
			shutDown(&out[i])
		}
	}
	for _, i := range keptIdx {
		if displaced == 0 {
			break
		}
		free := floor1(out[i].Capacity) - out[i].Occupancy
		if free <= 0 {
			continue
		}
		moved := displaced
		if moved > free {
			moved = free
		}
		out[i].Occupancy += moved
		displaced -= moved
	}
	// Occupants that fit nowhere stay displaced; the scenario models closing
	// space, not conjuring capacity.
}

func shutDown(rc *campus.RoomContext) {
	rc.Occupancy = 0
	rc.Equipment = campus.Equipment{}
}

func floor1(capacity int) int {
	if capacity < 1 {
		return 1
	}
	return capacity
}

// Template is a catalogue entry served to the UI.
type Template struct {
	ID              string   `json:"id" yaml:"id"`
	Description     string   `json:"description" yaml:"description"`
	EstimatedImpact string   `json:"estimatedImpact" yaml:"estimated_impact"`
	Scenario        Scenario `json:"scenario" yaml:",inline"`
}

type catalogue struct {
	Templates []Template `yaml:"templates"`
}

// LoadTemplates reads the YAML catalogue; a missing file yields the built-in
// defaults so the demo deployment works with no config volume.
func LoadTemplates(path string) ([]Template, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return builtinTemplates(), nil
		}
		return nil, fmt.Errorf("cannot read scenario catalogue %s: %w", path, err)
	}
	var c catalogue
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("cannot parse scenario catalogue %s: %w", path, err)
	}
	if len(c.Templates) == 0 {
		return builtinTemplates(), nil
	}
	return c.Templates, nil
}

func builtinTemplates() []Template {
	return []Template{
		{
			ID:              "close_building_night",
			Description:     "Close one building after hours",
			EstimatedImpact: "15-25% building energy savings",
			Scenario:        Scenario{Name: "Close Building After 8 PM", Type: TypeCloseBuilding, BuildingID: campus.BuildingID(0)},
		},
		{
			ID:              "reduce_hvac_low_occupancy",
			Description:     "Cap AC draw in rooms under 30% occupancy",
			EstimatedImpact: "10-15% campus energy savings",
			Scenario:        Scenario{Name: "Reduce HVAC in Low Occupancy", Type: TypeReduceHVAC},
		},
		{
			ID:              "after_hours_shutdown",
			Description:     "Zero occupancy and equipment after hour 20",
			EstimatedImpact: "20-30% evening energy savings",
			Scenario:        Scenario{Name: "After Hours Shutdown", Type: TypeAfterHoursShutdown, AfterHour: 20},
		},
		{
			ID:              "consolidate_classes",
			Description:     "Move evening usage into fewer buildings",
			EstimatedImpact: "20-30% evening energy savings",
			Scenario:        Scenario{Name: "Consolidate Evening Classes", Type: TypeShiftSchedule, KeepBuildings: 2},
		},
	}
}
