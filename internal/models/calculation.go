package models

import (
	"math"
	"time"
)

// Distance units accepted by the API.
const (
	UnitMiles = "miles"
	UnitKm    = "km"
)

const maxLocationNameLen = 100

// Location is a geographic point with an optional display name
type Location struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Name string  `json:"name,omitempty"`
}

func (l Location) validate(field string) error {
	if math.IsNaN(l.Lat) || l.Lat < -90 || l.Lat > 90 {
		return &FieldError{Field: field + ".lat", Reason: "latitude must be between -90 and 90"}
	}
	if math.IsNaN(l.Lng) || l.Lng < -180 || l.Lng > 180 {
		return &FieldError{Field: field + ".lng", Reason: "longitude must be between -180 and 180"}
	}
	if len(l.Name) > maxLocationNameLen {
		return &FieldError{Field: field + ".name", Reason: "name must be at most 100 characters"}
	}
	return nil
}

// CircuityRequest is the request body for POST /calculate
type CircuityRequest struct {
	Origin      Location `json:"origin"`
	Destination Location `json:"destination"`
	Units       string   `json:"units"`
}

// Validate checks coordinate ranges, name length and the units enum.
// Invalid requests never reach the orchestrator or any collaborator.
func (r *CircuityRequest) Validate() error {
	if err := r.Origin.validate("origin"); err != nil {
		return err
	}
	if err := r.Destination.validate("destination"); err != nil {
		return err
	}
	switch r.Units {
	case UnitMiles, UnitKm:
	default:
		return &FieldError{Field: "units", Reason: `units must be "miles" or "km"`}
	}
	return nil
}

// FieldError reports a validation failure on a single request field
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// CircuityResponse is the response body for POST /calculate.
// For cache hits CalculationTimeMs carries the latency of the original
// computation, not of the lookup.
type CircuityResponse struct {
	Origin            Location `json:"origin"`
	Destination       Location `json:"destination"`
	RoadDistance      float64  `json:"road_distance"`
	StraightDistance  float64  `json:"straight_distance"`
	CircuityFactor    float64  `json:"circuity_factor"`
	EfficiencyPercent float64  `json:"efficiency_percent"`
	Units             string   `json:"units"`
	CalculationTimeMs int64    `json:"calculation_time_ms"`
	Cached            bool     `json:"cached"`
}

// Calculation is a persisted circuity computation
// DB: circuity_calculations
type Calculation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OriginLat  float64 `gorm:"column:origin_lat;not null" json:"origin_lat"`
	OriginLng  float64 `gorm:"column:origin_lng;not null" json:"origin_lng"`
	OriginName *string `gorm:"column:origin_name;size:100" json:"origin_name,omitempty"`

	DestinationLat  float64 `gorm:"column:destination_lat;not null" json:"destination_lat"`
	DestinationLng  float64 `gorm:"column:destination_lng;not null" json:"destination_lng"`
	DestinationName *string `gorm:"column:destination_name;size:100" json:"destination_name,omitempty"`

	RoadDistance      float64 `gorm:"column:road_distance;not null" json:"road_distance"`
	StraightDistance  float64 `gorm:"column:straight_distance;not null" json:"straight_distance"`
	CircuityFactor    float64 `gorm:"column:circuity_factor;not null" json:"circuity_factor"`
	EfficiencyPercent float64 `gorm:"column:efficiency_percent;not null" json:"efficiency_percent"`
	Units             string  `gorm:"column:units;size:10;not null" json:"units"`
	CalculationTimeMs int64   `gorm:"column:calculation_time_ms;not null" json:"calculation_time_ms"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:idx_circuity_created,sort:desc" json:"created_at"`
}

func (Calculation) TableName() string {
	return "circuity_calculations"
}

// StatsSummary aggregates all stored calculations
type StatsSummary struct {
	TotalCalculations        int64   `json:"total_calculations"`
	AverageCircuityFactor    float64 `json:"average_circuity_factor"`
	AverageEfficiencyPercent float64 `json:"average_efficiency_percent"`
}

// HealthStatus is the composite liveness report for GET /health
type HealthStatus struct {
	Status           string    `json:"status"`
	RoutingConnected bool      `json:"routing_connected"`
	StoreConnected   bool      `json:"store_connected"`
	Timestamp        time.Time `json:"timestamp"`
}
