package models

import "time"

// DetectionRun represents one POI detection job over the merchant table
type DetectionRun struct {
	ID int64 `json:"id" db:"id"`

	// Input parameters
	Algorithm    string  `json:"algorithm" db:"algorithm"`         // density_peaks, kmeans_refined
	RadiusMeters float64 `json:"radius_meters" db:"radius_meters"` // strict cluster radius
	MinMerchants int     `json:"min_merchants" db:"min_merchants"` // minimum cluster size

	// Optional area restriction
	FilterCity     string `json:"filter_city,omitempty" db:"filter_city"`
	FilterDistrict string `json:"filter_district,omitempty" db:"filter_district"`

	// Who started the run (token subject)
	CreatedBy string `json:"created_by,omitempty" db:"created_by"`

	// Status
	Status          string `json:"status" db:"status"` // pending, running, completed, failed
	ProgressPercent int    `json:"progress_percent" db:"progress_percent"`

	// Results
	TotalPoints    int     `json:"total_points" db:"total_points"`
	AssignedPoints int     `json:"assigned_points" db:"assigned_points"`
	NumPOIs        int     `json:"num_pois" db:"num_pois"`
	CoveragePct    float64 `json:"coverage_pct" db:"coverage_pct"`
	ResultSummary  string  `json:"result_summary,omitempty" db:"result_summary"` // JSON object with summary statistics
	ErrorMessage   string  `json:"error_message,omitempty" db:"error_message"`

	// Execution info
	StartTime int64 `json:"start_time,omitempty" db:"start_time"` // Unix timestamp
	EndTime   int64 `json:"end_time,omitempty" db:"end_time"`     // Unix timestamp

	// Metadata
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Algorithm constants
const (
	AlgorithmDensityPeaks  = "density_peaks"
	AlgorithmKMeansRefined = "kmeans_refined"
)

// RunStatus constants
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// CreateDetectionRunRequest is the payload for starting a detection run
type CreateDetectionRunRequest struct {
	Algorithm    string  `json:"algorithm"`
	RadiusMeters float64 `json:"radius_meters" binding:"required"`
	MinMerchants int     `json:"min_merchants" binding:"required"`

	// Optional merchant filter: restrict the run to one administrative area
	City     string `json:"city"`
	District string `json:"district"`
}

// DetectionRunFilter represents filter parameters for listing runs
type DetectionRunFilter struct {
	Status    string `form:"status"`
	Algorithm string `form:"algorithm"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// DetectionRunsResponse represents a paginated response of detection runs
type DetectionRunsResponse struct {
	Data       []DetectionRun `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}
