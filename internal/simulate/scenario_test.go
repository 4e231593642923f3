// v1
// internal/simulate/scenario_test.go
package simulate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/krish12388/EcoAgent/internal/campus"
	"github.com/krish12388/EcoAgent/internal/config"
)

func eveningContexts() []campus.RoomContext {
	mk := func(b, r, occ, hour int) campus.RoomContext {
		return campus.RoomContext{
			RoomID:       campus.RoomID(b, r),
			BuildingID:   campus.BuildingID(b),
			Type:         campus.RoomClassroom,
			Capacity:     30,
			Occupancy:    occ,
			Equipment:    campus.Equipment{Lights: true, AC: true},
			ACSetpointC:  23,
			OutdoorTempC: 30,
			Hour:         hour,
		}
	}
	return []campus.RoomContext{
		mk(0, 0, 10, 21), mk(0, 1, 5, 21),
		mk(1, 0, 8, 21), mk(1, 1, 0, 21),
	}
}

func TestApplyNeverMutatesBaseline(t *testing.T) {
	baseline := eveningContexts()
	before := baseline[0]
	Apply(baseline, Scenario{Type: TypeCloseBuilding, BuildingID: "B01"}, config.DefaultCoefficients())
	if baseline[0] != before {
		t.Fatalf("baseline mutated: %+v", baseline[0])
	}
}

func TestCloseBuildingZeroesItsRooms(t *testing.T) {
	out := Apply(eveningContexts(), Scenario{Type: TypeCloseBuilding, BuildingID: "B01"}, config.DefaultCoefficients())
	for _, rc := range out {
		if rc.BuildingID == "B01" && (rc.Occupancy != 0 || rc.Equipment.Any()) {
			t.Fatalf("B01 room not shut down: %+v", rc)
		}
		if rc.BuildingID == "B02" && rc.RoomID == "B02-R01" && rc.Occupancy != 8 {
			t.Fatalf("other buildings must be untouched: %+v", rc)
		}
	}
}

func TestReduceHVACLiftsSetpointOnlyInLowOccupancyRooms(t *testing.T) {
	coeffs := config.DefaultCoefficients()
	contexts := eveningContexts()
	contexts[0].ACSetpointC = 18 // 33% occupancy, stays
	contexts[1].ACSetpointC = 18 // 16.7% occupancy, lifted
	out := Apply(contexts, Scenario{Type: TypeReduceHVAC}, coeffs)
	if out[0].ACSetpointC != 18 {
		t.Fatalf("occupied room setpoint must not move, got %.1f", out[0].ACSetpointC)
	}
	if out[1].ACSetpointC != coeffs.ComfortLowC {
		t.Fatalf("low-occupancy setpoint must lift to %.1f, got %.1f", coeffs.ComfortLowC, out[1].ACSetpointC)
	}
}

func TestAfterHoursShutdownDefaultsToHour20(t *testing.T) {
	contexts := eveningContexts()
	contexts[0].Hour = 14 // daytime room survives
	out := Apply(contexts, Scenario{Type: TypeAfterHoursShutdown}, config.DefaultCoefficients())
	if out[0].Occupancy != 10 {
		t.Fatalf("daytime room must be untouched")
	}
	for _, rc := range out[1:] {
		if rc.Occupancy != 0 || rc.Equipment.Any() {
			t.Fatalf("hour-21 room not shut down: %+v", rc)
		}
	}
}

func TestShiftScheduleConsolidatesWithinCapacity(t *testing.T) {
	out := Apply(eveningContexts(), Scenario{Type: TypeShiftSchedule, KeepBuildings: 1}, config.DefaultCoefficients())

	var keptOcc, otherOcc int
	for _, rc := range out {
		switch rc.BuildingID {
		case "B01":
			keptOcc += rc.Occupancy
			if rc.Occupancy > rc.Capacity {
				t.Fatalf("re-seating overflowed capacity: %+v", rc)
			}
		default:
			otherOcc += rc.Occupancy
			if rc.Equipment.Any() {
				t.Fatalf("shut building still drawing power: %+v", rc)
			}
		}
	}
	// 15 original B01 occupants plus 8 displaced from B02.
	if keptOcc != 23 {
		t.Fatalf("kept occupancy: expected 23, got %d", keptOcc)
	}
	if otherOcc != 0 {
		t.Fatalf("displaced occupancy left behind: %d", otherOcc)
	}
}

func TestValidateRejectsUnknownTypeAndMissingBuilding(t *testing.T) {
	var ce *campus.ConfigurationError
	if err := (Scenario{Type: "demolish"}).Validate(); !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError for unknown type, got %v", err)
	}
	if err := (Scenario{Type: TypeCloseBuilding}).Validate(); !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError for missing building id, got %v", err)
	}
	if err := (Scenario{Type: TypeReduceHVAC}).Validate(); err != nil {
		t.Fatalf("valid scenario rejected: %v", err)
	}
}

func TestLoadTemplatesFallsBackToBuiltins(t *testing.T) {
	got, err := LoadTemplates(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing catalogue must not error: %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("builtin catalogue is empty")
	}
}

func TestLoadTemplatesParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	body := `templates:
  - id: close_b2
    description: Close B02 overnight
    estimated_impact: 20% savings
    name: Close B02
    type: close_building
    building_id: B02
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 1 || got[0].Scenario.BuildingID != "B02" || got[0].Scenario.Type != TypeCloseBuilding {
		t.Fatalf("unexpected catalogue: %+v", got)
	}
}
