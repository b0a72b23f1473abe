package poi

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Distribution summarizes one metric across all POIs of a result.
type Distribution struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Statistics aggregates a detection result: totals, coverage, metric
// distributions across POIs, and frequency tables of the majority-vote
// labels. All fields are zero/empty when the result holds no POIs.
type Statistics struct {
	TotalPOIs        int            `json:"total_pois"`
	TotalPoints      int            `json:"total_points"`
	AssignedPoints   int            `json:"assigned_points"`
	UnassignedPoints int            `json:"unassigned_points"`
	CoveragePct      float64        `json:"coverage_pct"`
	MemberCount      Distribution   `json:"member_count"`
	MaxDistance      Distribution   `json:"max_distance"`
	AvgDistance      Distribution   `json:"avg_distance"`
	Subdistricts     map[string]int `json:"subdistricts,omitempty"`
	Districts        map[string]int `json:"districts,omitempty"`
	Cities           map[string]int `json:"cities,omitempty"`
}

// ComputeStatistics summarizes a detection result. A nil result or a result
// with no POIs yields a neutral summary, never an error, so callers can ask
// for statistics before any detection has completed.
func ComputeStatistics(result *Result) Statistics {
	var stats Statistics
	if result == nil {
		return stats
	}

	stats.TotalPoints = len(result.Assignments)
	for _, a := range result.Assignments {
		if a.ClusterID != Unassigned {
			stats.AssignedPoints++
		}
	}
	stats.UnassignedPoints = stats.TotalPoints - stats.AssignedPoints
	if stats.TotalPoints > 0 {
		stats.CoveragePct = float64(stats.AssignedPoints) / float64(stats.TotalPoints) * 100
	}

	stats.TotalPOIs = len(result.POIs)
	if stats.TotalPOIs == 0 {
		return stats
	}

	memberCounts := make([]float64, len(result.POIs))
	maxDistances := make([]float64, len(result.POIs))
	avgDistances := make([]float64, len(result.POIs))
	for i, p := range result.POIs {
		memberCounts[i] = float64(p.MemberCount)
		maxDistances[i] = p.MaxDistance
		avgDistances[i] = p.AvgDistance
	}
	stats.MemberCount = summarize(memberCounts)
	stats.MaxDistance = summarize(maxDistances)
	stats.AvgDistance = summarize(avgDistances)

	stats.Subdistricts = labelCounts(result.POIs, func(p POI) string { return p.Subdistrict })
	stats.Districts = labelCounts(result.POIs, func(p POI) string { return p.District })
	stats.Cities = labelCounts(result.POIs, func(p POI) string { return p.City })

	return stats
}

// summarize computes mean, sample standard deviation, min and max. A single
// value has no spread, so its standard deviation reports as 0.
func summarize(values []float64) Distribution {
	dist := Distribution{
		Mean: stat.Mean(values, nil),
		Min:  floats.Min(values),
		Max:  floats.Max(values),
	}
	if len(values) > 1 {
		dist.StdDev = stat.StdDev(values, nil)
	}
	return dist
}

func labelCounts(pois []POI, label func(POI) string) map[string]int {
	counts := make(map[string]int)
	for _, p := range pois {
		if v := label(p); v != "" {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return nil
	}
	return counts
}
