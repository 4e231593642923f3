// v0
// internal/synth/dataset.go
// Package synth generates a deterministic offline campus dataset for demo
// runs. The output feeds the exact same pipeline as live requests, so the
// fallback mode satisfies the full output contract.
package synth

import (
	"math/rand"

	"github.com/krish12388/EcoAgent/internal/campus"
)

// Dataset bundles everything a pipeline run needs.
type Dataset struct {
	Topology  campus.Topology
	Global    campus.GlobalParams
	Overrides map[string]campus.Override
}

// Generate synthesizes a varied campus: room types rotate through the
// profiles, occupancy follows a coarse daily curve, and a couple of waste
// conditions are seeded so the demo has something to flag. The same seed
// always yields the same dataset.
func Generate(topo campus.Topology, hour int, seed int64) Dataset {
	rng := rand.New(rand.NewSource(seed))
	global := campus.GlobalParams{
		Type:         campus.RoomClassroom,
		Capacity:     30,
		Occupancy:    occupancyForHour(hour, 30),
		Equipment:    campus.Equipment{Lights: true, AC: true},
		ACSetpointC:  23,
		OutdoorTempC: 30,
		Hour:         hour,
	}

	overrides := make(map[string]campus.Override)
	for b := 0; b < topo.Buildings; b++ {
		for r := 0; r < topo.RoomsPerBuilding; r++ {
			id := campus.RoomID(b, r)
			rt := campus.RoomTypes[(b*topo.RoomsPerBuilding+r)%len(campus.RoomTypes)]
			occ := occupancyForHour(hour, capacityFor(rt)) + rng.Intn(5)
			cap := capacityFor(rt)
			if occ > cap {
				occ = cap
			}
			eq := equipmentFor(rt, occ, rng)
			ov := campus.Override{Type: &rt, Capacity: &cap, Occupancy: &occ, Equipment: &eq}

			// Seed an occasional waste condition: lights and AC left running
			// in an empty room.
			if rng.Intn(10) == 0 {
				zero := 0
				left := campus.Equipment{Lights: true, AC: true}
				ov.Occupancy = &zero
				ov.Equipment = &left
			}
			overrides[id] = ov
		}
	}
	return Dataset{Topology: topo, Global: global, Overrides: overrides}
}

func occupancyForHour(hour, capacity int) int {
	switch campus.BucketForHour(hour) {
	case campus.BucketMorning:
		return capacity * 6 / 10
	case campus.BucketAfternoon:
		return capacity * 8 / 10
	case campus.BucketEvening:
		return capacity * 3 / 10
	default:
		return capacity / 10
	}
}

func capacityFor(rt campus.RoomType) int {
	switch rt {
	case campus.RoomLab:
		return 20
	case campus.RoomLibrary:
		return 80
	case campus.RoomDorm:
		return 4
	case campus.RoomBathroom:
		return 8
	case campus.RoomCafeteria:
		return 120
	default:
		return 30
	}
}

func equipmentFor(rt campus.RoomType, occ int, rng *rand.Rand) campus.Equipment {
	eq := campus.Equipment{Lights: occ > 0, AC: occ > 0}
	switch rt {
	case campus.RoomClassroom:
		eq.Projector = occ > 0
		eq.Computers = rng.Intn(3)
	case campus.RoomLab:
		eq.Computers = occ
		eq.Fans = true
	case campus.RoomLibrary:
		eq.Computers = occ / 4
	case campus.RoomCafeteria:
		eq.Fans = occ > 0
	}
	return eq
}
