// v1
// internal/campus/types.go
package campus

import "fmt"

// RoomType selects the usage profile applied to a room's heuristics.
type RoomType string

const (
	RoomClassroom RoomType = "classroom"
	RoomLab       RoomType = "lab"
	RoomLibrary   RoomType = "library"
	RoomDorm      RoomType = "dorm"
	RoomBathroom  RoomType = "bathroom"
	RoomCafeteria RoomType = "cafeteria"
)

// RoomTypes lists the supported profiles in a stable order.
var RoomTypes = []RoomType{RoomClassroom, RoomLab, RoomLibrary, RoomDorm, RoomBathroom, RoomCafeteria}

// TimeBucket is the coarse time-of-day classification used by the water and
// idle-equipment heuristics.
type TimeBucket string

const (
	BucketMorning   TimeBucket = "morning"
	BucketAfternoon TimeBucket = "afternoon"
	BucketEvening   TimeBucket = "evening"
	BucketNight     TimeBucket = "night"
)

// BucketForHour maps an hour of day (0-23) to its bucket.
func BucketForHour(hour int) TimeBucket {
	h := ((hour % 24) + 24) % 24
	switch {
	case h >= 6 && h < 12:
		return BucketMorning
	case h >= 12 && h < 18:
		return BucketAfternoon
	case h >= 18 && h < 23:
		return BucketEvening
	default:
		return BucketNight
	}
}

// Equipment holds the per-room equipment state observed for one snapshot.
type Equipment struct {
	Lights    bool `json:"lights"`
	AC        bool `json:"ac"`
	Fans      bool `json:"fans"`
	Projector bool `json:"projector"`
	Computers int  `json:"computers"`
}

// Any reports whether at least one piece of equipment is drawing power.
func (e Equipment) Any() bool {
	return e.Lights || e.AC || e.Fans || e.Projector || e.Computers > 0
}

// RoomContext is the immutable input snapshot for one room. It is built once
// per analysis run and never mutated afterwards.
type RoomContext struct {
	RoomID     string     `json:"roomId"`
	BuildingID string     `json:"buildingId"`
	Type       RoomType   `json:"type"`
	Capacity   int        `json:"capacity"`

	Occupancy    int       `json:"occupancy"`
	Equipment    Equipment `json:"equipment"`
	ACSetpointC  float64   `json:"acSetpointC"`
	OutdoorTempC float64   `json:"outdoorTempC"`
	Hour         int       `json:"hour"`
}

// Bucket returns the time-of-day bucket for the context's hour.
func (rc RoomContext) Bucket() TimeBucket { return BucketForHour(rc.Hour) }

// Topology describes the campus grid: every building holds the same number of
// room slots, identified deterministically from their indices.
type Topology struct {
	Buildings        int `json:"buildings"`
	RoomsPerBuilding int `json:"roomsPerBuilding"`
}

// Rooms returns the total number of room slots.
func (t Topology) Rooms() int { return t.Buildings * t.RoomsPerBuilding }

// BuildingID formats the identifier of building index b (0-based).
func BuildingID(b int) string { return fmt.Sprintf("B%02d", b+1) }

// RoomID formats the identifier of room index r within building index b.
func RoomID(b, r int) string { return fmt.Sprintf("B%02d-R%02d", b+1, r+1) }

// GlobalParams are the campus-wide defaults applied to every room slot unless
// a per-room override says otherwise.
type GlobalParams struct {
	Type         RoomType  `json:"type"`
	Capacity     int       `json:"capacity"`
	Occupancy    int       `json:"occupancy"`
	Equipment    Equipment `json:"equipment"`
	ACSetpointC  float64   `json:"acSetpointC"`
	OutdoorTempC float64   `json:"outdoorTempC"`
	Hour         int       `json:"hour"`
}

// Override is a sparse field-by-field replacement for one room slot. Nil
// fields inherit the global default.
type Override struct {
	Type         *RoomType  `json:"type,omitempty"`
	Capacity     *int       `json:"capacity,omitempty"`
	Occupancy    *int       `json:"occupancy,omitempty"`
	Equipment    *Equipment `json:"equipment,omitempty"`
	ACSetpointC  *float64   `json:"acSetpointC,omitempty"`
	OutdoorTempC *float64   `json:"outdoorTempC,omitempty"`
	Hour         *int       `json:"hour,omitempty"`
}
