// v1
// internal/campus/builder_test.go
package campus

import (
	"errors"
	"testing"
)

func defaultGlobal() GlobalParams {
	return GlobalParams{
		Type:         RoomClassroom,
		Capacity:     30,
		Occupancy:    10,
		Equipment:    Equipment{Lights: true},
		ACSetpointC:  23,
		OutdoorTempC: 30,
		Hour:         14,
	}
}

func TestBuildContextsShape(t *testing.T) {
	contexts, err := BuildContexts(Topology{Buildings: 2, RoomsPerBuilding: 3}, defaultGlobal(), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(contexts) != 6 {
		t.Fatalf("expected 6 contexts, got %d", len(contexts))
	}
	if contexts[0].RoomID != "B01-R01" || contexts[0].BuildingID != "B01" {
		t.Fatalf("unexpected first id: %s / %s", contexts[0].RoomID, contexts[0].BuildingID)
	}
	if contexts[5].RoomID != "B02-R03" || contexts[5].BuildingID != "B02" {
		t.Fatalf("unexpected last id: %s / %s", contexts[5].RoomID, contexts[5].BuildingID)
	}
	for _, rc := range contexts {
		if rc.Occupancy != 10 || rc.Capacity != 30 || !rc.Equipment.Lights {
			t.Fatalf("defaults not applied for %s: %+v", rc.RoomID, rc)
		}
	}
}

func TestBuildContextsAppliesSparseOverride(t *testing.T) {
	occ := 25
	rt := RoomLab
	overrides := map[string]Override{
		"B01-R02": {Occupancy: &occ, Type: &rt},
	}
	contexts, err := BuildContexts(Topology{Buildings: 1, RoomsPerBuilding: 2}, defaultGlobal(), overrides)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	got := contexts[1]
	if got.Occupancy != 25 || got.Type != RoomLab {
		t.Fatalf("override not applied: %+v", got)
	}
	// Fields the override leaves nil inherit the default.
	if got.Capacity != 30 || got.ACSetpointC != 23 {
		t.Fatalf("inherited fields clobbered: %+v", got)
	}
	if contexts[0].Occupancy != 10 || contexts[0].Type != RoomClassroom {
		t.Fatalf("neighbour room affected: %+v", contexts[0])
	}
}

func TestBuildContextsRejectsBadTopology(t *testing.T) {
	cases := []Topology{
		{Buildings: 0, RoomsPerBuilding: 3},
		{Buildings: 2, RoomsPerBuilding: 0},
		{Buildings: -1, RoomsPerBuilding: -1},
	}
	for _, topo := range cases {
		_, err := BuildContexts(topo, defaultGlobal(), nil)
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("topology %+v: expected ConfigurationError, got %v", topo, err)
		}
	}
}

func TestBuildContextsRejectsUnknownOverride(t *testing.T) {
	occ := 5
	_, err := BuildContexts(Topology{Buildings: 1, RoomsPerBuilding: 2}, defaultGlobal(), map[string]Override{
		"B09-R01": {Occupancy: &occ},
	})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestGroupByBuildingPreservesOrder(t *testing.T) {
	contexts, err := BuildContexts(Topology{Buildings: 3, RoomsPerBuilding: 2}, defaultGlobal(), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	ids, groups := GroupByBuilding(contexts)
	if len(ids) != 3 || ids[0] != "B01" || ids[2] != "B03" {
		t.Fatalf("unexpected building order: %v", ids)
	}
	if len(groups["B02"]) != 2 || groups["B02"][0].RoomID != "B02-R01" {
		t.Fatalf("unexpected group content: %+v", groups["B02"])
	}
}

func TestBucketForHour(t *testing.T) {
	cases := map[int]TimeBucket{
		7: BucketMorning, 13: BucketAfternoon, 20: BucketEvening, 23: BucketNight, 2: BucketNight,
	}
	for hour, want := range cases {
		if got := BucketForHour(hour); got != want {
			t.Fatalf("hour %d: expected %s, got %s", hour, want, got)
		}
	}
}
