// v0
// internal/synth/dataset_test.go
package synth

import (
	"reflect"
	"testing"

	"github.com/krish12388/EcoAgent/internal/campus"
)

func TestGenerateIsSeedDeterministic(t *testing.T) {
	topo := campus.Topology{Buildings: 3, RoomsPerBuilding: 6}
	a := Generate(topo, 14, 42)
	b := Generate(topo, 14, 42)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed must reproduce the dataset")
	}
	c := Generate(topo, 14, 43)
	if reflect.DeepEqual(a, c) {
		t.Fatalf("different seeds should vary the dataset")
	}
}

func TestGenerateCoversEveryRoomSlot(t *testing.T) {
	topo := campus.Topology{Buildings: 2, RoomsPerBuilding: 4}
	ds := Generate(topo, 10, 1)
	if len(ds.Overrides) != topo.Rooms() {
		t.Fatalf("expected %d overrides, got %d", topo.Rooms(), len(ds.Overrides))
	}
	for b := 0; b < topo.Buildings; b++ {
		for r := 0; r < topo.RoomsPerBuilding; r++ {
			ov, ok := ds.Overrides[campus.RoomID(b, r)]
			if !ok {
				t.Fatalf("missing override for %s", campus.RoomID(b, r))
			}
			if ov.Type == nil || ov.Capacity == nil || ov.Occupancy == nil || ov.Equipment == nil {
				t.Fatalf("sparse override for %s: %+v", campus.RoomID(b, r), ov)
			}
		}
	}
}

func TestGenerateRespectsCapacity(t *testing.T) {
	ds := Generate(campus.Topology{Buildings: 4, RoomsPerBuilding: 6}, 14, 7)
	for id, ov := range ds.Overrides {
		if *ov.Occupancy > *ov.Capacity {
			t.Fatalf("%s over capacity: %d > %d", id, *ov.Occupancy, *ov.Capacity)
		}
		if *ov.Occupancy < 0 {
			t.Fatalf("%s negative occupancy", id)
		}
	}
}

func TestOccupancyFollowsDailyCurve(t *testing.T) {
	if m, n := occupancyForHour(14, 30), occupancyForHour(2, 30); m <= n {
		t.Fatalf("afternoon (%d) must exceed night (%d)", m, n)
	}
	if occupancyForHour(8, 30) != 18 {
		t.Fatalf("morning at 60%%: got %d", occupancyForHour(8, 30))
	}
}
