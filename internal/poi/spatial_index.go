package poi

import (
	"math"
	"sort"

	"github.com/jengzang/poi-backend-go/internal/spatial"
)

// spatialIndex is a uniform lat/lon grid with cell size equal to the query
// radius, so every point within the radius of a query point lies in the 3x3
// cell neighborhood around it. Candidates from the grid are exact-filtered
// with the haversine distance, which keeps results identical to a full
// pairwise scan.
type spatialIndex struct {
	points     []Point
	radius     float64
	latCellDeg float64
	lonCellDeg float64
	lonCells   int64
	cells      map[int64][]int
}

const metersPerDegree = spatial.EarthRadiusMeters * math.Pi / 180

func newSpatialIndex(points []Point, radiusMeters float64) *spatialIndex {
	// Longitude degrees shrink with latitude; size lon cells for the widest
	// |lat| in the data, with 1% slack so the 3x3 neighborhood stays
	// sufficient at the band edges.
	maxAbsLat := 0.0
	for _, p := range points {
		if abs := math.Abs(p.Lat); abs > maxAbsLat {
			maxAbsLat = abs
		}
	}
	cosLat := math.Cos(maxAbsLat * math.Pi / 180)
	if cosLat < 1e-6 {
		cosLat = 1e-6
	}

	idx := &spatialIndex{
		points:     points,
		radius:     radiusMeters,
		latCellDeg: radiusMeters / metersPerDegree,
	}

	// Longitude cells wrap around the full circle so neighborhoods stay
	// correct across the antimeridian. The cell width must divide 360 evenly,
	// otherwise the seam cell is narrower than the radius and a 3x3 query can
	// miss neighbors there.
	minLonCellDeg := radiusMeters / (metersPerDegree * cosLat) * 1.01
	idx.lonCells = int64(math.Floor(360 / minLonCellDeg))
	if idx.lonCells < 1 {
		idx.lonCells = 1
	}
	idx.lonCellDeg = 360 / float64(idx.lonCells)

	idx.cells = make(map[int64][]int, len(points)/4+1)
	for i, p := range points {
		key := cellKey(idx.cellX(p.Lon), idx.cellY(p.Lat))
		idx.cells[key] = append(idx.cells[key], i)
	}

	return idx
}

func (s *spatialIndex) cellX(lon float64) int64 {
	x := int64(math.Floor((lon + 180) / s.lonCellDeg))
	return s.wrapX(x)
}

func (s *spatialIndex) cellY(lat float64) int64 {
	return int64(math.Floor(lat / s.latCellDeg))
}

func (s *spatialIndex) wrapX(x int64) int64 {
	x %= s.lonCells
	if x < 0 {
		x += s.lonCells
	}
	return x
}

// neighbors returns the indices of all points within the index radius of
// points[i], the point itself included, in ascending index order.
func (s *spatialIndex) neighbors(i int) []int {
	p := s.points[i]
	cx := s.cellX(p.Lon)
	cy := s.cellY(p.Lat)

	// Wrapping can fold the three columns onto fewer distinct cells when the
	// grid is narrow; deduplicate so no point is reported twice.
	var xs []int64
	for dx := int64(-1); dx <= 1; dx++ {
		x := s.wrapX(cx + dx)
		seen := false
		for _, prev := range xs {
			if prev == x {
				seen = true
				break
			}
		}
		if !seen {
			xs = append(xs, x)
		}
	}

	var result []int
	for dy := int64(-1); dy <= 1; dy++ {
		for _, x := range xs {
			for _, j := range s.cells[cellKey(x, cy+dy)] {
				q := s.points[j]
				if spatial.HaversineDistance(p.Lat, p.Lon, q.Lat, q.Lon) <= s.radius {
					result = append(result, j)
				}
			}
		}
	}

	sort.Ints(result)
	return result
}

// cellKey maps a signed cell coordinate pair to a unique map key using
// zigzag encoding followed by Szudzik's pairing function.
func cellKey(x, y int64) int64 {
	var a, b int64
	if x >= 0 {
		a = 2 * x
	} else {
		a = -2*x - 1
	}
	if y >= 0 {
		b = 2 * y
	} else {
		b = -2*y - 1
	}

	if a >= b {
		return a*a + a + b
	}
	return a + b*b
}
