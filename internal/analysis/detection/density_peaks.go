// Package detection implements the POI detection algorithms and registers
// them with the analysis registry.
package detection

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/jengzang/poi-backend-go/internal/analysis"
	"github.com/jengzang/poi-backend-go/internal/models"
	"github.com/jengzang/poi-backend-go/internal/poi"
)

// DensityPeaksAlgorithm runs greedy density-peak clustering, the primary
// detection strategy
type DensityPeaksAlgorithm struct {
	*analysis.BaseAlgorithm
}

// NewDensityPeaksAlgorithm creates a new density peaks algorithm
func NewDensityPeaksAlgorithm(db *sql.DB) analysis.Algorithm {
	return &DensityPeaksAlgorithm{
		BaseAlgorithm: analysis.NewBaseAlgorithm(db, models.AlgorithmDensityPeaks),
	}
}

// Run executes one detection run
func (a *DensityPeaksAlgorithm) Run(ctx context.Context, runID int64) error {
	log.Printf("[DensityPeaks] Starting detection (run_id=%d)", runID)

	run, err := a.Runs.GetByID(runID)
	if err != nil {
		return err
	}

	points, err := a.LoadPoints(run)
	if err != nil {
		a.Runs.MarkAsFailed(runID, err.Error())
		return fmt.Errorf("failed to load merchants: %w", err)
	}

	if err := a.Runs.MarkAsRunning(runID, len(points)); err != nil {
		return err
	}

	detector, err := poi.NewDetector(points)
	if err != nil {
		a.Runs.MarkAsFailed(runID, err.Error())
		return fmt.Errorf("invalid merchant coordinates: %w", err)
	}

	result, err := detector.DetectDensityPeaks(poi.Params{
		RadiusMeters: run.RadiusMeters,
		MinMerchants: run.MinMerchants,
	})
	if err != nil {
		a.Runs.MarkAsFailed(runID, err.Error())
		return fmt.Errorf("detection failed: %w", err)
	}

	if err := a.CompleteRun(runID, points, result); err != nil {
		a.Runs.MarkAsFailed(runID, err.Error())
		return fmt.Errorf("failed to persist run %d: %w", runID, err)
	}

	log.Printf("[DensityPeaks] Completed detection (run_id=%d, pois=%d, assigned=%d/%d)",
		runID, len(result.POIs), len(points)-countUnassigned(result), len(points))
	return nil
}

func countUnassigned(result *poi.Result) int {
	n := 0
	for _, a := range result.Assignments {
		if a.ClusterID == poi.Unassigned {
			n++
		}
	}
	return n
}

// Register the algorithm
func init() {
	analysis.RegisterAlgorithm(models.AlgorithmDensityPeaks, NewDensityPeaksAlgorithm)
}
