package models

// POI represents one detected point-of-interest belonging to a detection run
type POI struct {
	ID    int64 `json:"id" db:"id"`
	RunID int64 `json:"run_id" db:"run_id"`

	POIID     string `json:"poi_id" db:"poi_id"`         // POI_000, POI_001, ...
	ClusterID int    `json:"cluster_id" db:"cluster_id"` // sequential within the run

	// Center is the centroid of the final members, not an input point
	CenterLat float64 `json:"center_lat" db:"center_lat"`
	CenterLon float64 `json:"center_lon" db:"center_lon"`

	// Membership statistics, distances in meters to the final center
	MemberCount int     `json:"member_count" db:"member_count"`
	MaxDistance float64 `json:"max_distance" db:"max_distance"`
	AvgDistance float64 `json:"avg_distance" db:"avg_distance"`
	MinDistance float64 `json:"min_distance" db:"min_distance"`

	// Parameters the POI was detected with
	RadiusMeters float64 `json:"radius_meters" db:"radius_meters"`
	MinMerchants int     `json:"min_merchants" db:"min_merchants"`

	// Majority-vote labels from the members
	Subdistrict string `json:"subdistrict,omitempty" db:"subdistrict"`
	District    string `json:"district,omitempty" db:"district"`
	City        string `json:"city,omitempty" db:"city"`
}

// POIAssignment represents one merchant's detection outcome within a run.
// ClusterID is -1 and DistanceToCenter is null for unassigned merchants.
type POIAssignment struct {
	ID         int64 `json:"id" db:"id"`
	RunID      int64 `json:"run_id" db:"run_id"`
	MerchantID int64 `json:"merchant_id" db:"merchant_id"`

	ClusterID        int      `json:"cluster_id" db:"cluster_id"`
	DistanceToCenter *float64 `json:"distance_to_center" db:"distance_to_center"`
}

// POIsResponse represents the POI list of a run
type POIsResponse struct {
	RunID int64 `json:"run_id"`
	Total int   `json:"total"`
	Data  []POI `json:"data"`
}

// AssignmentsResponse represents the assignment list of a run
type AssignmentsResponse struct {
	RunID int64           `json:"run_id"`
	Total int             `json:"total"`
	Data  []POIAssignment `json:"data"`
}
