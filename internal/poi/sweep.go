package poi

import "log"

// Default sweep grids, matching the ranges used for production tuning.
var (
	DefaultSweepRadii        = []float64{100, 200, 250, 300}
	DefaultSweepMinMerchants = []int{20, 30, 40, 50}
)

// SweepRow is the comparative summary for one (radius, min merchants)
// combination.
type SweepRow struct {
	RadiusMeters       float64 `json:"radius_meters"`
	MinMerchants       int     `json:"min_merchants"`
	NumPOIs            int     `json:"num_pois"`
	MerchantsInPOIs    int     `json:"merchants_in_pois"`
	CoveragePct        float64 `json:"coverage_pct"`
	AvgMerchantsPerPOI float64 `json:"avg_merchants_per_poi"`
	Valid              bool    `json:"valid"`
}

// OptimizeParameters runs the centroid-refinement detector for every
// combination of the candidate radii and minimum member counts and collects
// one summary row per combination. Empty candidate lists fall back to the
// default grids. Combinations that produce zero POIs are valid rows, not
// failures.
func (d *Detector) OptimizeParameters(radii []float64, minMerchants []int) ([]SweepRow, error) {
	if len(radii) == 0 {
		radii = DefaultSweepRadii
	}
	if len(minMerchants) == 0 {
		minMerchants = DefaultSweepMinMerchants
	}

	total := len(radii) * len(minMerchants)
	rows := make([]SweepRow, 0, total)
	for _, radius := range radii {
		for _, min := range minMerchants {
			log.Printf("[Sweep] Combination %d/%d: radius=%gm, min_merchants=%d",
				len(rows)+1, total, radius, min)

			params := Params{RadiusMeters: radius, MinMerchants: min}
			result, err := d.DetectKMeansRefined(params)
			if err != nil {
				return nil, err
			}

			stats := ComputeStatistics(result)
			report, err := Validate(d.points, result)
			if err != nil {
				return nil, err
			}

			rows = append(rows, SweepRow{
				RadiusMeters:       radius,
				MinMerchants:       min,
				NumPOIs:            stats.TotalPOIs,
				MerchantsInPOIs:    stats.AssignedPoints,
				CoveragePct:        stats.CoveragePct,
				AvgMerchantsPerPOI: stats.MemberCount.Mean,
				Valid:              report.AllValid,
			})
		}
	}

	return rows, nil
}
