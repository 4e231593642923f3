// v1
// internal/pipeline/results.go
package pipeline

import "github.com/krish12388/EcoAgent/internal/campus"

// Anomaly flags attached to room results. Out-of-band setpoints are reported
// conditions, not rejected inputs.
const (
	AnomalyEquipmentLeftOn       = "equipment_left_on"
	AnomalyOvercapacity          = "overcapacity"
	AnomalySetpointOutOfRange    = "setpoint_out_of_range"
	AnomalyInferenceDisagreement = "inference_disagreement"
)

// RoomResult is the evaluated state of one room. Produced once, consumed only
// by the room's building aggregation, never mutated.
type RoomResult struct {
	RoomID     string          `json:"roomId"`
	BuildingID string          `json:"buildingId"`
	Type       campus.RoomType `json:"type"`
	Capacity   int             `json:"capacity"`
	Occupancy  int             `json:"occupancy"`

	EnergyKW         float64  `json:"energyKw"`
	WaterLPH         float64  `json:"waterLph"`
	CO2KgH           float64  `json:"co2KgH"`
	OccupancyRatePct float64  `json:"occupancyRatePct"`
	InferredEnergyKW *float64 `json:"inferredEnergyKw,omitempty"`

	Recommendations []string `json:"recommendations"`
	Anomalies       []string `json:"anomalies"`
	UsedInference   bool     `json:"usedInference"`
}

// BuildingResult folds exactly the RoomResults of one building, in input
// order.
type BuildingResult struct {
	BuildingID string       `json:"buildingId"`
	Rooms      []RoomResult `json:"rooms"`

	TotalEnergyKW    float64 `json:"totalEnergyKw"`
	TotalWaterLPH    float64 `json:"totalWaterLph"`
	TotalCO2KgH      float64 `json:"totalCo2KgH"`
	TotalOccupancy   int     `json:"totalOccupancy"`
	TotalCapacity    int     `json:"totalCapacity"`
	OccupancyRatePct float64 `json:"occupancyRatePct"`

	SavingsPotentialPct float64  `json:"savingsPotentialPct"`
	Recommendations     []string `json:"recommendations"`
	Anomalies           []string `json:"anomalies"`
	Narrative           string   `json:"narrative,omitempty"`
	UsedInference       bool     `json:"usedInference"`
}

// CampusTotals mirror the building summation rule one level up.
type CampusTotals struct {
	Buildings        int     `json:"buildings"`
	Rooms            int     `json:"rooms"`
	EnergyKW         float64 `json:"energyKw"`
	WaterLPH         float64 `json:"waterLph"`
	CO2KgH           float64 `json:"co2KgH"`
	Occupancy        int     `json:"occupancy"`
	Capacity         int     `json:"capacity"`
	OccupancyRatePct float64 `json:"occupancyRatePct"`
}

// CriticalBuilding names a building that tripped one or both critical rules,
// with a human-readable reason per rule fired.
type CriticalBuilding struct {
	BuildingID       string   `json:"buildingId"`
	EnergyKW         float64  `json:"energyKw"`
	OccupancyRatePct float64  `json:"occupancyRatePct"`
	Reasons          []string `json:"reasons"`
}

// SavingsPotential is the recoverable load if every detected waste condition
// were corrected, held for one hour.
type SavingsPotential struct {
	EnergyKWH      float64 `json:"energyKwh"`
	WaterLPH       float64 `json:"waterLph"`
	HourlyCostUSD  float64 `json:"hourlyCostUsd"`
	CO2ReductionKg float64 `json:"co2ReductionKg"`
}

// CampusResult is the terminal output of one analysis run, read-only to
// consumers. It carries no run id or wall-clock stamp: with a fixed tier and
// reasoning responses it is a pure function of its inputs, so two identical
// runs marshal byte-identically.
type CampusResult struct {
	Buildings map[string]BuildingResult `json:"buildings"`
	Totals    CampusTotals              `json:"totals"`

	CriticalBuildings []CriticalBuilding `json:"criticalBuildings"`
	Recommendations   []string           `json:"recommendations"`
	Savings           SavingsPotential   `json:"savings"`
	Narrative         string             `json:"narrative,omitempty"`

	InferenceUsed   int `json:"inferenceUsed"`
	InferenceBudget int `json:"inferenceBudget"`
}
