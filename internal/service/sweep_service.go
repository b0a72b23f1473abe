package service

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/jengzang/poi-backend-go/internal/models"
	"github.com/jengzang/poi-backend-go/internal/poi"
	"github.com/jengzang/poi-backend-go/internal/repository"
)

// SweepService handles parameter sweep business logic
type SweepService struct {
	sweeps    *repository.SweepRepository
	merchants *repository.MerchantRepository
}

// NewSweepService creates a new sweep service
func NewSweepService(sweeps *repository.SweepRepository, merchants *repository.MerchantRepository) *SweepService {
	return &SweepService{
		sweeps:    sweeps,
		merchants: merchants,
	}
}

// CreateSweep validates the grids, records a pending sweep and starts the
// worker asynchronously. Empty grids fall back to the default candidates.
func (s *SweepService) CreateSweep(req models.CreateSweepRequest) (*models.SweepRun, error) {
	radii := req.RadiiMeters
	if len(radii) == 0 {
		radii = poi.DefaultSweepRadii
	}
	minMerchants := req.MinMerchants
	if len(minMerchants) == 0 {
		minMerchants = poi.DefaultSweepMinMerchants
	}

	for _, r := range radii {
		if r <= 0 {
			return nil, fmt.Errorf("radius candidates must be positive, got %g", r)
		}
	}
	for _, m := range minMerchants {
		if m < 1 {
			return nil, fmt.Errorf("min merchant candidates must be at least 1, got %d", m)
		}
	}

	radiiJSON, err := json.Marshal(radii)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize radii: %w", err)
	}
	minJSON, err := json.Marshal(minMerchants)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize min merchants: %w", err)
	}

	run := &models.SweepRun{
		SweepID:          uuid.New().String(),
		RadiiJSON:        string(radiiJSON),
		MinMerchantsJSON: string(minJSON),
		FilterCity:       req.City,
		FilterDistrict:   req.District,
		Status:           models.RunStatusPending,
	}
	if err := s.sweeps.Create(run); err != nil {
		return nil, err
	}

	go s.runSweep(run.ID, run.SweepID, radii, minMerchants, req.City, req.District)

	return run, nil
}

// runSweep evaluates every grid combination in the background
func (s *SweepService) runSweep(id int64, sweepID string, radii []float64, minMerchants []int, city, district string) {
	log.Printf("[SweepService] Starting sweep %s (%d combinations)", sweepID, len(radii)*len(minMerchants))

	if err := s.sweeps.MarkAsRunning(id); err != nil {
		log.Printf("[SweepService] Failed to mark sweep %s as running: %v", sweepID, err)
		return
	}

	merchants, err := s.merchants.GetAllInArea(city, district)
	if err != nil {
		s.failSweep(id, sweepID, err)
		return
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

	detector, err := poi.NewDetector(points)
	if err != nil {
		s.failSweep(id, sweepID, err)
		return
	}

	rows, err := detector.OptimizeParameters(radii, minMerchants)
	if err != nil {
		s.failSweep(id, sweepID, err)
		return
	}

	results := make([]models.SweepResult, len(rows))
	for i, row := range rows {
		results[i] = models.SweepResult{
			RadiusMeters:       row.RadiusMeters,
			MinMerchants:       row.MinMerchants,
			NumPOIs:            row.NumPOIs,
			MerchantsInPOIs:    row.MerchantsInPOIs,
			CoveragePct:        row.CoveragePct,
			AvgMerchantsPerPOI: row.AvgMerchantsPerPOI,
			Valid:              row.Valid,
		}
	}

	if err := s.sweeps.SaveResults(id, results); err != nil {
		s.failSweep(id, sweepID, err)
		return
	}
	if err := s.sweeps.MarkAsCompleted(id); err != nil {
		log.Printf("[SweepService] Failed to mark sweep %s as completed: %v", sweepID, err)
		return
	}

	log.Printf("[SweepService] Sweep %s completed (%d rows)", sweepID, len(results))
}

func (s *SweepService) failSweep(id int64, sweepID string, err error) {
	log.Printf("[SweepService] Sweep %s failed: %v", sweepID, err)
	if markErr := s.sweeps.MarkAsFailed(id, err.Error()); markErr != nil {
		log.Printf("[SweepService] Failed to mark sweep %s as failed: %v", sweepID, markErr)
	}
}

// GetSweep retrieves a sweep run with its result rows
func (s *SweepService) GetSweep(sweepID string) (*models.SweepResponse, error) {
	run, err := s.sweeps.GetBySweepID(sweepID)
	if err != nil {
		return nil, err
	}

	results, err := s.sweeps.ListResults(run.ID)
	if err != nil {
		return nil, err
	}

	return &models.SweepResponse{
		Run:     *run,
		Results: results,
	}, nil
}
