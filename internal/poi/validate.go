package poi

import (
	"fmt"

	"github.com/jengzang/poi-backend-go/internal/spatial"
)

// validationTolerance absorbs floating-point noise when re-deriving member
// distances, in meters.
const validationTolerance = 1e-6

// POIValidation is the oracle verdict for a single POI.
type POIValidation struct {
	POIID        string  `json:"poi_id"`
	MemberCount  int     `json:"member_count"`
	MaxDistance  float64 `json:"max_distance"`
	RadiusMeters float64 `json:"radius_meters"`
	Valid        bool    `json:"valid"`
}

// ValidationReport is the outcome of re-checking a detection result against
// the strict-radius constraint.
type ValidationReport struct {
	AllValid bool            `json:"all_valid"`
	POIs     []POIValidation `json:"pois"`
}

// Validate re-derives every member's distance to its POI's stored center and
// checks it against the POI's radius. It is a correctness oracle for the
// detectors: a failure signals an implementation bug, so failures are
// reported, never returned as errors. It can run against any point set and
// result pair; a result with no POIs validates trivially.
func Validate(points []Point, result *Result) (ValidationReport, error) {
	report := ValidationReport{AllValid: true}
	if result == nil || len(result.POIs) == 0 {
		return report, nil
	}
	if len(points) != len(result.Assignments) {
		return ValidationReport{}, fmt.Errorf("point count %d does not match assignment count %d", len(points), len(result.Assignments))
	}

	members := make(map[int][]int, len(result.POIs))
	for i, a := range result.Assignments {
		if a.ClusterID != Unassigned {
			members[a.ClusterID] = append(members[a.ClusterID], i)
		}
	}

	for _, p := range result.POIs {
		check := POIValidation{
			POIID:        p.POIID,
			MemberCount:  len(members[p.ClusterID]),
			RadiusMeters: p.RadiusMeters,
			Valid:        true,
		}
		for _, idx := range members[p.ClusterID] {
			dist := spatial.HaversineDistance(p.CenterLat, p.CenterLon, points[idx].Lat, points[idx].Lon)
			if dist > check.MaxDistance {
				check.MaxDistance = dist
			}
			if dist > p.RadiusMeters+validationTolerance {
				check.Valid = false
			}
		}
		if !check.Valid {
			report.AllValid = false
		}
		report.POIs = append(report.POIs, check)
	}

	return report, nil
}
