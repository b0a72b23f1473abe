package poi

import "sort"

// DetectDensityPeaks partitions the point set into radius-bounded,
// minimum-size clusters by repeatedly expanding around the densest
// unassigned point.
//
// The density of a point is the size of its prospective member set: the
// unassigned points within RadiusMeters of it, itself included. Candidates
// are ranked once by (density desc, input order asc) and processed in a
// single pass; because the unassigned pool only ever shrinks, a candidate
// that fails at its turn can never succeed later, so one pass is complete.
// Each candidate's member set is re-centered to a fixpoint (refineCluster)
// before it is accepted, which guarantees that every member of a finalized
// cluster lies within the radius of the cluster's final center.
//
// Points never claimed by any cluster keep ClusterID == Unassigned; that is
// an expected outcome, not an error.
func (d *Detector) DetectDensityPeaks(params Params) (*Result, error) {
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

	index := newSpatialIndex(d.points, params.RadiusMeters)
	assigned := make([]bool, n)

	type candidate struct {
		idx     int
		density int
	}
	candidates := make([]candidate, n)
	for i := 0; i < n; i++ {
		candidates[i] = candidate{idx: i, density: len(index.neighbors(i))}
	}
	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].density != candidates[b].density {
			return candidates[a].density > candidates[b].density
		}
		return candidates[a].idx < candidates[b].idx
	})

	clusterID := 0
	for _, cand := range candidates {
		if assigned[cand.idx] {
			continue
		}
		if cand.density < params.MinMerchants {
			// Ranked descending: nothing later can qualify either.
			break
		}

		// Earlier clusters may have consumed neighbors, so the prospective
		// member set is rebuilt against the remaining pool and the minimum
		// rechecked at processing time.
		var members []int
		for _, j := range index.neighbors(cand.idx) {
			if !assigned[j] {
				members = append(members, j)
			}
		}
		if len(members) < params.MinMerchants {
			continue
		}

		finalMembers, center, dists, ok := d.refineCluster(members, params)
		if !ok {
			// Re-centering dropped the membership below the minimum. The
			// candidate is discarded whole; its points remain unassigned and
			// stay claimable by later candidates.
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
