// v1
// internal/campus/builder.go
package campus

// BuildContexts materialises one RoomContext per room slot of the topology,
// applying sparse overrides field-by-field on top of the global defaults.
// Pure function: same inputs, same contexts, same order (building-major).
//
// Overrides are keyed by room id as produced by RoomID. A key that does not
// belong to the generated topology is a ConfigurationError: a silent skip
// here would make a mistyped id indistinguishable from a no-op.
func BuildContexts(topo Topology, global GlobalParams, overrides map[string]Override) ([]RoomContext, error) {
	if topo.Buildings <= 0 {
		return nil, &ConfigurationError{Field: "topology.buildings", Reason: "must be positive"}
	}
	if topo.RoomsPerBuilding <= 0 {
		return nil, &ConfigurationError{Field: "topology.roomsPerBuilding", Reason: "must be positive"}
	}

	known := make(map[string]struct{}, topo.Rooms())
	out := make([]RoomContext, 0, topo.Rooms())
	for b := 0; b < topo.Buildings; b++ {
		for r := 0; r < topo.RoomsPerBuilding; r++ {
			id := RoomID(b, r)
			known[id] = struct{}{}
			rc := RoomContext{
				RoomID:       id,
				BuildingID:   BuildingID(b),
				Type:         global.Type,
				Capacity:     global.Capacity,
				Occupancy:    global.Occupancy,
				Equipment:    global.Equipment,
				ACSetpointC:  global.ACSetpointC,
				OutdoorTempC: global.OutdoorTempC,
				Hour:         global.Hour,
			}
			if ov, ok := overrides[id]; ok {
				applyOverride(&rc, ov)
			}
			out = append(out, rc)
		}
	}

	for id := range overrides {
		if _, ok := known[id]; !ok {
			return nil, &ConfigurationError{Field: "overrides", Reason: "unknown room id " + id}
		}
	}
	return out, nil
}

func applyOverride(rc *RoomContext, ov Override) {
	if ov.Type != nil {
		rc.Type = *ov.Type
	}
	if ov.Capacity != nil {
		rc.Capacity = *ov.Capacity
	}
	if ov.Occupancy != nil {
		rc.Occupancy = *ov.Occupancy
	}
	if ov.Equipment != nil {
		rc.Equipment = *ov.Equipment
	}
	if ov.ACSetpointC != nil {
		rc.ACSetpointC = *ov.ACSetpointC
	}
	if ov.OutdoorTempC != nil {
		rc.OutdoorTempC = *ov.OutdoorTempC
	}
	if ov.Hour != nil {
		rc.Hour = *ov.Hour
	}
}

// GroupByBuilding splits contexts by building id, preserving input order both
// across and within buildings. Order determines inference grant selection, so
// it must be stable.
func GroupByBuilding(contexts []RoomContext) (ids []string, groups map[string][]RoomContext) {
	groups = make(map[string][]RoomContext)
	for _, rc := range contexts {
		if _, ok := groups[rc.BuildingID]; !ok {
			ids = append(ids, rc.BuildingID)
		}
		groups[rc.BuildingID] = append(groups[rc.BuildingID], rc)
	}
	return ids, groups
}
