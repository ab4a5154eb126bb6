package models

import "time"

// FleetSnapshot is the deduplicated view of every vehicle observed across all
// vantage points in a single cycle. It is immutable once published and is
// superseded wholesale by the next cycle.
type FleetSnapshot struct {
	Vehicles             []Vehicle  `json:"vehicles"`
	Count                int        `json:"count"`
	LocationsTotal       int        `json:"locations_total"`
	SuccessLocations     []Location `json:"success_locations"`
	FailedLocations      []Location `json:"failed_locations"`
	FetchDurationSeconds float64    `json:"fetch_time"`
	GeneratedAt          time.Time  `json:"generated_at"`
}
