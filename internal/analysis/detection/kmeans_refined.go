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

// KMeansRefinedAlgorithm runs fixed-k centroid partitioning with strict
// radius refinement, the alternative detection strategy
type KMeansRefinedAlgorithm struct {
	*analysis.BaseAlgorithm
}

// NewKMeansRefinedAlgorithm creates a new kmeans refined algorithm
func NewKMeansRefinedAlgorithm(db *sql.DB) analysis.Algorithm {
	return &KMeansRefinedAlgorithm{
		BaseAlgorithm: analysis.NewBaseAlgorithm(db, models.AlgorithmKMeansRefined),
	}
}

// Run executes one detection run
func (a *KMeansRefinedAlgorithm) Run(ctx context.Context, runID int64) error {
	log.Printf("[KMeansRefined] Starting detection (run_id=%d)", runID)

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

	result, err := detector.DetectKMeansRefined(poi.Params{
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

	log.Printf("[KMeansRefined] Completed detection (run_id=%d, pois=%d, assigned=%d/%d)",
		runID, len(result.POIs), len(points)-countUnassigned(result), len(points))
	return nil
}

// Register the algorithm
func init() {
	analysis.RegisterAlgorithm(models.AlgorithmKMeansRefined, NewKMeansRefinedAlgorithm)
}
