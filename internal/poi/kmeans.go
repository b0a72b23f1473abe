package poi

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const (
	kmeansSeed    = 42
	kmeansMaxIter = 100
)

// DetectKMeansRefined is the alternative clustering strategy: points are
// partitioned with fixed-k centroid seeding (Lloyd's algorithm), then each
// partition goes through the same strict-radius re-centering and
// minimum-size filtering as the density-peak detector. Partitions whose
// refined membership falls below the minimum are discarded and their points
// stay unassigned; this variant never reclaims points outside the initial
// partitioning, trading completeness for speed.
//
// k is derived from N / (2 * MinMerchants), bounded above by
// N / MinMerchants and below by 1. Seeding uses a fixed source, so the
// result is deterministic for a given input and parameter set.
func (d *Detector) DetectKMeansRefined(params Params) (*Result, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	n := len(d.points)
	result := &Result{
		Params:      params,
		Assignments: newAssignments(n),
	}
	if n == 0 || params.MinMerchants > n {
		return result, nil
	}

	k := n / (2 * params.MinMerchants)
	if k < 1 {
		k = 1
	}
	if upper := n / params.MinMerchants; k > upper {
		k = upper
	}

	assigned := make([]bool, n)
	clusterID := 0
	for _, partition := range d.kmeansPartition(k) {
		members := make([]int, 0, len(partition))
		for _, idx := range partition {
			if !assigned[idx] {
				members = append(members, idx)
			}
		}
		if len(members) < params.MinMerchants {
			continue
		}

		finalMembers, center, dists, ok := d.refineCluster(members, params)
		if !ok {
			continue
		}

		result.POIs = append(result.POIs, d.finalizePOI(clusterID, finalMembers, center, dists, params, result.Assignments))
		for _, idx := range finalMembers {
			assigned[idx] = true
		}
		clusterID++
	}

	return result, nil
}

// kmeansPartition splits the full point set into k partitions with Lloyd's
// algorithm over raw lat/lon degrees. Degree-space distance is only used for
// seeding partitions; all radius decisions happen later in meters during
// refinement. Ties in the assignment step go to the lowest centroid index
// and empty clusters keep their previous centroid, so iteration is
// deterministic. Partitions are returned in centroid order; empty ones are
// kept so the order is stable.
func (d *Detector) kmeansPartition(k int) [][]int {
	n := len(d.points)
	if k >= n {
		partitions := make([][]int, n)
		for i := range partitions {
			partitions[i] = []int{i}
		}
		return partitions
	}

	rng := rand.New(rand.NewSource(kmeansSeed))
	centroids := d.seedCentroids(k, rng)

	labels := make([]int, n)
	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, p := range d.points {
			best := 0
			bestDist := math.MaxFloat64
			for c, cen := range centroids {
				if dist := sqDegreeDist(p.Lat, p.Lon, cen[0], cen[1]); dist < bestDist {
					best = c
					bestDist = dist
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		sumLat := make([]float64, k)
		sumLon := make([]float64, k)
		count := make([]float64, k)
		for i, p := range d.points {
			sumLat[labels[i]] += p.Lat
			sumLon[labels[i]] += p.Lon
			count[labels[i]]++
		}
		for c := 0; c < k; c++ {
			if count[c] > 0 {
				centroids[c] = [2]float64{sumLat[c] / count[c], sumLon[c] / count[c]}
			}
		}
	}

	partitions := make([][]int, k)
	for i, label := range labels {
		partitions[label] = append(partitions[label], i)
	}
	return partitions
}

// seedCentroids picks k initial centroids with k-means++ weighting driven by
// the given source.
func (d *Detector) seedCentroids(k int, rng *rand.Rand) [][2]float64 {
	n := len(d.points)
	centroids := make([][2]float64, 0, k)

	first := d.points[rng.Intn(n)]
	centroids = append(centroids, [2]float64{first.Lat, first.Lon})

	distSq := make([]float64, n)
	for i, p := range d.points {
		distSq[i] = sqDegreeDist(p.Lat, p.Lon, centroids[0][0], centroids[0][1])
	}

	for len(centroids) < k {
		target := rng.Float64() * floats.Sum(distSq)
		chosen := n - 1
		var cum float64
		for i, ds := range distSq {
			cum += ds
			if cum >= target {
				chosen = i
				break
			}
		}

		p := d.points[chosen]
		centroids = append(centroids, [2]float64{p.Lat, p.Lon})
		for i, q := range d.points {
			if ds := sqDegreeDist(q.Lat, q.Lon, p.Lat, p.Lon); ds < distSq[i] {
				distSq[i] = ds
			}
		}
	}

	return centroids
}

func sqDegreeDist(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat1 - lat2
	dLon := lon1 - lon2
	return dLat*dLat + dLon*dLon
}
