package models

import "time"

// SweepRun represents one parameter sweep job: every combination of the
// candidate radii and minimum member counts is evaluated with the
// centroid-refinement detector
type SweepRun struct {
	ID      int64  `json:"id" db:"id"`
	SweepID string `json:"sweep_id" db:"sweep_id"` // external UUID

	// Candidate grids, stored as JSON arrays
	RadiiJSON        string `json:"radii_json,omitempty" db:"radii_json"`
	MinMerchantsJSON string `json:"min_merchants_json,omitempty" db:"min_merchants_json"`

	// Optional area restriction
	FilterCity     string `json:"filter_city,omitempty" db:"filter_city"`
	FilterDistrict string `json:"filter_district,omitempty" db:"filter_district"`

	// Status
	Status       string `json:"status" db:"status"` // pending, running, completed, failed
	ErrorMessage string `json:"error_message,omitempty" db:"error_message"`

	// Execution info
	StartTime int64 `json:"start_time,omitempty" db:"start_time"` // Unix timestamp
	EndTime   int64 `json:"end_time,omitempty" db:"end_time"`     // Unix timestamp

	// Metadata
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SweepResult represents the summary row for one (radius, min merchants)
// combination of a sweep
type SweepResult struct {
	ID      int64 `json:"id" db:"id"`
	SweepID int64 `json:"-" db:"sweep_run_id"`

	RadiusMeters       float64 `json:"radius_meters" db:"radius_meters"`
	MinMerchants       int     `json:"min_merchants" db:"min_merchants"`
	NumPOIs            int     `json:"num_pois" db:"num_pois"`
	MerchantsInPOIs    int     `json:"merchants_in_pois" db:"merchants_in_pois"`
	CoveragePct        float64 `json:"coverage_pct" db:"coverage_pct"`
	AvgMerchantsPerPOI float64 `json:"avg_merchants_per_poi" db:"avg_merchants_per_poi"`
	Valid              bool    `json:"valid" db:"valid"`
}

// CreateSweepRequest is the payload for starting a parameter sweep. Empty
// grids fall back to the default candidate values.
type CreateSweepRequest struct {
	RadiiMeters  []float64 `json:"radii_meters"`
	MinMerchants []int     `json:"min_merchants"`

	// Optional merchant filter: restrict the sweep to one administrative area
	City     string `json:"city"`
	District string `json:"district"`
}

// SweepResponse represents a sweep run with its result rows
type SweepResponse struct {
	Run     SweepRun      `json:"run"`
	Results []SweepResult `json:"results"`
}
