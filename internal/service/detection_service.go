package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jengzang/poi-backend-go/internal/analysis"
	"github.com/jengzang/poi-backend-go/internal/models"
	"github.com/jengzang/poi-backend-go/internal/poi"
	"github.com/jengzang/poi-backend-go/internal/repository"
)

// DetectionService handles detection run business logic
type DetectionService struct {
	runs      *repository.DetectionRunRepository
	pois      *repository.POIRepository
	merchants *repository.MerchantRepository
	db        *sql.DB
}

// NewDetectionService creates a new detection service
func NewDetectionService(runs *repository.DetectionRunRepository, pois *repository.POIRepository, merchants *repository.MerchantRepository, db *sql.DB) *DetectionService {
	return &DetectionService{
		runs:      runs,
		pois:      pois,
		merchants: merchants,
		db:        db,
	}
}

// CreateRun validates the request, records a pending run and starts the
// detection worker asynchronously. An empty merchant table is not an error;
// the run completes with zero POIs.
func (s *DetectionService) CreateRun(req models.CreateDetectionRunRequest, createdBy string) (*models.DetectionRun, error) {
	algorithm := req.Algorithm
	if algorithm == "" {
		algorithm = models.AlgorithmDensityPeaks
	}
	if !analysis.IsRegisteredAlgorithm(algorithm) {
		return nil, fmt.Errorf("unknown algorithm: %s", algorithm)
	}

	if req.RadiusMeters <= 0 {
		return nil, fmt.Errorf("radius_meters must be positive, got %g", req.RadiusMeters)
	}
	if req.MinMerchants < 1 {
		return nil, fmt.Errorf("min_merchants must be at least 1, got %d", req.MinMerchants)
	}

	run := &models.DetectionRun{
		Algorithm:      algorithm,
		RadiusMeters:   req.RadiusMeters,
		MinMerchants:   req.MinMerchants,
		FilterCity:     req.City,
		FilterDistrict: req.District,
		CreatedBy:      createdBy,
		Status:         models.RunStatusPending,
	}
	if err := s.runs.Create(run); err != nil {
		return nil, err
	}

	go s.startDetectionWorker(run.ID, algorithm)

	return run, nil
}

// startDetectionWorker runs a detection algorithm in the background
func (s *DetectionService) startDetectionWorker(runID int64, algorithm string) {
	log.Printf("[DetectionService] Starting worker for run %d (algorithm: %s)", runID, algorithm)

	algo := analysis.GetAlgorithm(algorithm, s.db)
	if algo == nil {
		log.Printf("[DetectionService] No algorithm registered for %s", algorithm)
		s.runs.MarkAsFailed(runID, fmt.Sprintf("unknown algorithm: %s", algorithm))
		return
	}

	if err := algo.Run(context.Background(), runID); err != nil {
		// The algorithm already marked the run as failed; just log it.
		log.Printf("[DetectionService] Run %d failed: %v", runID, err)
		return
	}

	log.Printf("[DetectionService] Run %d completed", runID)
}

// GetRun retrieves a detection run by ID
func (s *DetectionService) GetRun(id int64) (*models.DetectionRun, error) {
	return s.runs.GetByID(id)
}

// ListRuns retrieves detection runs with pagination defaults applied
func (s *DetectionService) ListRuns(filter models.DetectionRunFilter) (*models.DetectionRunsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 200 {
		filter.PageSize = 200
	}

	runs, total, err := s.runs.List(filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	return &models.DetectionRunsResponse{
		Data:       runs,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetRunPOIs retrieves the POIs of a completed run
func (s *DetectionService) GetRunPOIs(runID int64) (*models.POIsResponse, error) {
	if _, err := s.runs.GetByID(runID); err != nil {
		return nil, err
	}

	pois, err := s.pois.ListByRun(runID)
	if err != nil {
		return nil, err
	}

	return &models.POIsResponse{
		RunID: runID,
		Total: len(pois),
		Data:  pois,
	}, nil
}

// GetRunAssignments retrieves the per-merchant assignments of a run
func (s *DetectionService) GetRunAssignments(runID int64) (*models.AssignmentsResponse, error) {
	if _, err := s.runs.GetByID(runID); err != nil {
		return nil, err
	}

	assignments, err := s.pois.ListAssignmentsByRun(runID)
	if err != nil {
		return nil, err
	}

	return &models.AssignmentsResponse{
		RunID: runID,
		Total: len(assignments),
		Data:  assignments,
	}, nil
}

// GetRunStatistics returns the statistics summary of a completed run
func (s *DetectionService) GetRunStatistics(runID int64) (*poi.Statistics, error) {
	run, err := s.runs.GetByID(runID)
	if err != nil {
		return nil, err
	}
	if run.Status != models.RunStatusCompleted {
		return nil, fmt.Errorf("run %d is %s, statistics are available once it completes", runID, run.Status)
	}

	var stats poi.Statistics
	if err := json.Unmarshal([]byte(run.ResultSummary), &stats); err != nil {
		return nil, fmt.Errorf("failed to parse result summary of run %d: %w", runID, err)
	}
	return &stats, nil
}

// ValidateRun re-derives every member distance of a completed run from the
// stored rows and checks the strict radius constraint. It is an end-to-end
// oracle over what was actually persisted, not over in-memory state.
func (s *DetectionService) ValidateRun(runID int64) (*poi.ValidationReport, error) {
	run, err := s.runs.GetByID(runID)
	if err != nil {
		return nil, err
	}
	if run.Status != models.RunStatusCompleted {
		return nil, fmt.Errorf("run %d is %s, validation is available once it completes", runID, run.Status)
	}

	assignments, err := s.pois.ListAssignmentsByRun(runID)
	if err != nil {
		return nil, err
	}
	poiRows, err := s.pois.ListByRun(runID)
	if err != nil {
		return nil, err
	}

	// Coordinates come from the merchant table; merchants imported after the
	// run are not part of it, so index by id instead of reloading the area.
	merchants, err := s.merchants.GetAllInArea("", "")
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Merchant, len(merchants))
	for _, m := range merchants {
		byID[m.ID] = m
	}

	points := make([]poi.Point, len(assignments))
	resultAssignments := make([]poi.Assignment, len(assignments))
	for i, a := range assignments {
		m, ok := byID[a.MerchantID]
		if !ok {
			return nil, fmt.Errorf("assignment references missing merchant %d", a.MerchantID)
		}
		points[i] = poi.Point{ID: m.ID, Lat: m.Latitude, Lon: m.Longitude}
		resultAssignments[i] = poi.Assignment{ClusterID: a.ClusterID}
		if a.DistanceToCenter != nil {
			resultAssignments[i].DistanceToCenter = *a.DistanceToCenter
		}
	}

	pois := make([]poi.POI, len(poiRows))
	for i, p := range poiRows {
		pois[i] = poi.POI{
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
		}
	}

	result := &poi.Result{
		Params:      poi.Params{RadiusMeters: run.RadiusMeters, MinMerchants: run.MinMerchants},
		Assignments: resultAssignments,
		POIs:        pois,
	}

	report, err := poi.Validate(points, result)
	if err != nil {
		return nil, err
	}
	return &report, nil
}
