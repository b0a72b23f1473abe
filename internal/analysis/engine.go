// Package analysis hosts the detection algorithm registry. Algorithm
// implementations live in subpackages and register themselves in init(), so
// the server binary selects them with blank imports.
package analysis

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jengzang/poi-backend-go/internal/models"
	"github.com/jengzang/poi-backend-go/internal/poi"
	"github.com/jengzang/poi-backend-go/internal/repository"
)

// Algorithm is the interface every detection algorithm implements.
// Run executes one detection run end to end: load the merchants, cluster
// them, persist the POIs and assignments, and close out the run record.
type Algorithm interface {
	Run(ctx context.Context, runID int64) error
	GetName() string
}

// BaseAlgorithm provides the shared plumbing of detection algorithms:
// loading the point set and persisting the outcome.
type BaseAlgorithm struct {
	DB        *sql.DB
	Name      string
	Runs      *repository.DetectionRunRepository
	Merchants *repository.MerchantRepository
	POIs      *repository.POIRepository
}

// NewBaseAlgorithm creates the shared algorithm plumbing
func NewBaseAlgorithm(db *sql.DB, name string) *BaseAlgorithm {
	return &BaseAlgorithm{
		DB:        db,
		Name:      name,
		Runs:      repository.NewDetectionRunRepository(db),
		Merchants: repository.NewMerchantRepository(db),
		POIs:      repository.NewPOIRepository(db),
	}
}

// GetName returns the algorithm name
func (a *BaseAlgorithm) GetName() string {
	return a.Name
}

// LoadPoints loads the run's merchant set, applying its area restriction,
// and converts the rows to detector points. The point order is the merchant
// insertion order, which fixes the tie-breaking order of the detectors.
func (a *BaseAlgorithm) LoadPoints(run *models.DetectionRun) ([]poi.Point, error) {
	merchants, err := a.Merchants.GetAllInArea(run.FilterCity, run.FilterDistrict)
	if err != nil {
		return nil, err
	}

	points := make([]poi.Point, len(merchants))
	for i, m := range merchants {
		points[i] = poi.Point{
			ID:          m.ID,
			Lat:         m.Latitude,
			Lon:         m.Longitude,
			Subdistrict: m.Subdistrict,
			District:    m.District,
			City:        m.City,
		}
	}
	return points, nil
}

// CompleteRun persists a finished detection: POI rows, one assignment row
// per input merchant, and the run record's totals with a JSON summary.
func (a *BaseAlgorithm) CompleteRun(runID int64, points []poi.Point, result *poi.Result) error {
	stats := poi.ComputeStatistics(result)
	report, err := poi.Validate(points, result)
	if err != nil {
		return fmt.Errorf("failed to validate result: %w", err)
	}
	if !report.AllValid {
		return fmt.Errorf("result violates the radius constraint, refusing to persist")
	}

	pois := make([]models.POI, len(result.POIs))
	for i, p := range result.POIs {
		pois[i] = models.POI{
			RunID:        runID,
			POIID:        p.POIID,
			ClusterID:    p.ClusterID,
			CenterLat:    p.CenterLat,
			CenterLon:    p.CenterLon,
			MemberCount:  p.MemberCount,
			MaxDistance:  p.MaxDistance,
			AvgDistance:  p.AvgDistance,
			MinDistance:  p.MinDistance,
			RadiusMeters: p.RadiusMeters,
			MinMerchants: p.MinMerchants,
			Subdistrict:  p.Subdistrict,
			District:     p.District,
			City:         p.City,
		}
	}

	assignments := make([]models.POIAssignment, len(points))
	for i, pt := range points {
		assignments[i] = models.POIAssignment{
			RunID:      runID,
			MerchantID: pt.ID,
			ClusterID:  result.Assignments[i].ClusterID,
		}
		if result.Assignments[i].ClusterID != poi.Unassigned {
			dist := result.Assignments[i].DistanceToCenter
			assignments[i].DistanceToCenter = &dist
		}
	}

	if err := a.POIs.SaveRunResult(runID, pois, assignments); err != nil {
		return err
	}

	summary, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to serialize result summary: %w", err)
	}

	if err := a.Runs.MarkAsCompleted(runID, stats.AssignedPoints, stats.TotalPOIs, stats.CoveragePct, string(summary)); err != nil {
		// The run will be marked failed; it must not keep result rows.
		a.POIs.DeleteByRun(runID)
		return err
	}
	return nil
}

// AlgorithmFactory is a function that creates an algorithm instance
type AlgorithmFactory func(db *sql.DB) Algorithm

// AlgorithmRegistry maps algorithm names to factories
var AlgorithmRegistry = make(map[string]AlgorithmFactory)

// RegisterAlgorithm registers an algorithm factory under a name
func RegisterAlgorithm(name string, factory AlgorithmFactory) {
	AlgorithmRegistry[name] = factory
}

// GetAlgorithm retrieves an algorithm instance by name
func GetAlgorithm(name string, db *sql.DB) Algorithm {
	factory, ok := AlgorithmRegistry[name]
	if !ok {
		return nil
	}
	return factory(db)
}

// IsRegisteredAlgorithm checks whether an algorithm name is known
func IsRegisteredAlgorithm(name string) bool {
	_, ok := AlgorithmRegistry[name]
	return ok
}
