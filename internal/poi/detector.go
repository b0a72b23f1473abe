// Package poi detects points-of-interest from geocoded merchant records.
//
// Detection partitions points into non-overlapping clusters that satisfy a
// strict radius bound and a minimum member count. Two strategies are
// provided: greedy density-peak expansion (primary) and fixed-k centroid
// partitioning with the same refinement (alternative, used for parameter
// tuning). Both are single-threaded batch computations over an immutable
// point set; results carry explicit per-point assignments instead of
// mutating the caller's collection.
package poi

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/jengzang/poi-backend-go/internal/spatial"
)

// Unassigned is the sentinel cluster id for points that belong to no POI.
const Unassigned = -1

// Point is one geocoded merchant record. The administrative labels are
// passed through for majority-vote labeling of clusters only; they never
// influence the clustering itself.
type Point struct {
	ID          int64
	Lat         float64
	Lon         float64
	Subdistrict string
	District    string
	City        string
}

// Params are the two knobs of a detection run.
type Params struct {
	RadiusMeters float64
	MinMerchants int
}

func (p Params) validate() error {
	if p.RadiusMeters <= 0 {
		return fmt.Errorf("radius must be positive, got %g", p.RadiusMeters)
	}
	if p.MinMerchants < 1 {
		return fmt.Errorf("min merchants must be at least 1, got %d", p.MinMerchants)
	}
	return nil
}

// Assignment is the per-point detection outcome. DistanceToCenter is
// meaningful only when ClusterID != Unassigned.
type Assignment struct {
	ClusterID        int
	DistanceToCenter float64
}

// POI is one detected cluster. Center coordinates are the centroid of the
// final members, not necessarily any input point. Distance fields are in
// meters, relative to the final center.
type POI struct {
	POIID        string
	ClusterID    int
	CenterLat    float64
	CenterLon    float64
	MemberCount  int
	MaxDistance  float64
	AvgDistance  float64
	MinDistance  float64
	RadiusMeters float64
	MinMerchants int
	Subdistrict  string
	District     string
	City         string
}

// Result holds the full outcome of one detection run. Assignments is
// parallel to the detector's point slice.
type Result struct {
	Params      Params
	Assignments []Assignment
	POIs        []POI
}

// Detector owns an immutable point set and runs detection over it.
// Not safe for concurrent use while a detection call is in progress.
type Detector struct {
	points []Point
}

// NewDetector validates coordinates and copies the point set. A point with
// non-finite or out-of-range coordinates is a data-quality error; it is
// never coerced to (0, 0).
func NewDetector(points []Point) (*Detector, error) {
	for i, p := range points {
		if err := CheckCoordinates(p.Lat, p.Lon); err != nil {
			return nil, fmt.Errorf("point %d (id=%d): %w", i, p.ID, err)
		}
	}

	pts := make([]Point, len(points))
	copy(pts, points)
	return &Detector{points: pts}, nil
}

// Points returns the detector's point set. Callers must not modify it.
func (d *Detector) Points() []Point {
	return d.points
}

// CheckCoordinates rejects non-finite or out-of-range WGS84 coordinates.
// Import and detection both use it, so a bad row can never reach a detector.
func CheckCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return fmt.Errorf("coordinates are not finite: (%v, %v)", lat, lon)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %g out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %g out of range [-180, 180]", lon)
	}
	return nil
}

func newAssignments(n int) []Assignment {
	assignments := make([]Assignment, n)
	for i := range assignments {
		assignments[i].ClusterID = Unassigned
	}
	return assignments
}

// refineCluster re-centers a candidate member set until it is stable: the
// centroid is recomputed from the current members, members outside the
// radius of the new centroid are dropped, and the process repeats until no
// member is dropped. Membership strictly shrinks, so the loop terminates.
// Returns ok=false as soon as membership falls below the minimum; the
// candidate is then discarded whole and its points stay unassigned.
//
// On success every returned member is within RadiusMeters of the returned
// center, and the center is exactly the centroid of the returned members.
func (d *Detector) refineCluster(initial []int, params Params) (members []int, center spatial.Point, dists []float64, ok bool) {
	members = append([]int(nil), initial...)

	for {
		if len(members) < params.MinMerchants {
			return nil, spatial.Point{}, nil, false
		}

		center = d.centroidOf(members)

		var kept []int
		var keptDists []float64
		for _, idx := range members {
			p := d.points[idx]
			dist := spatial.HaversineDistance(center.Lat, center.Lon, p.Lat, p.Lon)
			if dist <= params.RadiusMeters {
				kept = append(kept, idx)
				keptDists = append(keptDists, dist)
			}
		}

		if len(kept) == len(members) {
			return members, center, keptDists, true
		}
		members = kept
	}
}

func (d *Detector) centroidOf(members []int) spatial.Point {
	pts := make([]spatial.Point, len(members))
	for i, idx := range members {
		pts[i] = spatial.Point{Lat: d.points[idx].Lat, Lon: d.points[idx].Lon}
	}
	return spatial.Centroid(pts)
}

// finalizePOI writes assignments for the final members and builds the POI
// record with distance statistics over the final membership.
func (d *Detector) finalizePOI(clusterID int, members []int, center spatial.Point, dists []float64, params Params, assignments []Assignment) POI {
	for i, idx := range members {
		assignments[idx] = Assignment{
			ClusterID:        clusterID,
			DistanceToCenter: dists[i],
		}
	}

	subdistricts := make([]string, len(members))
	districts := make([]string, len(members))
	cities := make([]string, len(members))
	for i, idx := range members {
		subdistricts[i] = d.points[idx].Subdistrict
		districts[i] = d.points[idx].District
		cities[i] = d.points[idx].City
	}

	return POI{
		POIID:        fmt.Sprintf("POI_%03d", clusterID),
		ClusterID:    clusterID,
		CenterLat:    center.Lat,
		CenterLon:    center.Lon,
		MemberCount:  len(members),
		MaxDistance:  floats.Max(dists),
		AvgDistance:  stat.Mean(dists, nil),
		MinDistance:  floats.Min(dists),
		RadiusMeters: params.RadiusMeters,
		MinMerchants: params.MinMerchants,
		Subdistrict:  majorityVote(subdistricts),
		District:     majorityVote(districts),
		City:         majorityVote(cities),
	}
}

// majorityVote returns the most frequent non-empty value. Ties resolve to
// the lexicographically smallest value so labeling is deterministic.
// Returns "" when every value is empty.
func majorityVote(values []string) string {
	counts := make(map[string]int)
	for _, v := range values {
		if v == "" {
			continue
		}
		counts[v]++
	}

	var best string
	bestCount := 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best = v
			bestCount = c
		}
	}
	return best
}
