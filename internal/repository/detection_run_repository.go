package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jengzang/poi-backend-go/internal/models"
)

// DetectionRunRepository handles database operations for detection runs
type DetectionRunRepository struct {
	db *sql.DB
}

// NewDetectionRunRepository creates a new detection run repository
func NewDetectionRunRepository(db *sql.DB) *DetectionRunRepository {
	return &DetectionRunRepository{db: db}
}

// Create creates a new detection run in pending state
func (r *DetectionRunRepository) Create(run *models.DetectionRun) error {
	query := `
		INSERT INTO detection_runs (algorithm, radius_meters, min_merchants, filter_city, filter_district, created_by, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query, run.Algorithm, run.RadiusMeters, run.MinMerchants, run.FilterCity, run.FilterDistrict, run.CreatedBy, run.Status)
	if err != nil {
		return fmt.Errorf("failed to create detection run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	run.ID = id
	return nil
}

// GetByID retrieves a detection run by ID
func (r *DetectionRunRepository) GetByID(id int64) (*models.DetectionRun, error) {
	query := `
		SELECT id, algorithm, radius_meters, min_merchants, filter_city, filter_district, created_by,
			   status, progress_percent,
			   total_points, assigned_points, num_pois, coverage_pct,
			   result_summary, error_message, start_time, end_time, created_at, updated_at
		FROM detection_runs
		WHERE id = ?
	`

	run := &models.DetectionRun{}
	err := r.db.QueryRow(query, id).Scan(
		&run.ID,
		&run.Algorithm,
		&run.RadiusMeters,
		&run.MinMerchants,
		&run.FilterCity,
		&run.FilterDistrict,
		&run.CreatedBy,
		&run.Status,
		&run.ProgressPercent,
		&run.TotalPoints,
		&run.AssignedPoints,
		&run.NumPOIs,
		&run.CoveragePct,
		&run.ResultSummary,
		&run.ErrorMessage,
		&run.StartTime,
		&run.EndTime,
		&run.CreatedAt,
		&run.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("detection run not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get detection run: %w", err)
	}

	return run, nil
}

// List retrieves detection runs with optional filters
func (r *DetectionRunRepository) List(filter models.DetectionRunFilter) ([]models.DetectionRun, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Algorithm != "" {
		where += " AND algorithm = ?"
		args = append(args, filter.Algorithm)
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM detection_runs"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count detection runs: %w", err)
	}

	query := `
		SELECT id, algorithm, radius_meters, min_merchants, filter_city, filter_district, created_by,
			   status, progress_percent,
			   total_points, assigned_points, num_pois, coverage_pct,
			   result_summary, error_message, start_time, end_time, created_at, updated_at
		FROM detection_runs
	` + where + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list detection runs: %w", err)
	}
	defer rows.Close()

	var runs []models.DetectionRun
	for rows.Next() {
		var run models.DetectionRun
		err := rows.Scan(
			&run.ID,
			&run.Algorithm,
			&run.RadiusMeters,
			&run.MinMerchants,
			&run.FilterCity,
			&run.FilterDistrict,
			&run.CreatedBy,
			&run.Status,
			&run.ProgressPercent,
			&run.TotalPoints,
			&run.AssignedPoints,
			&run.NumPOIs,
			&run.CoveragePct,
			&run.ResultSummary,
			&run.ErrorMessage,
			&run.StartTime,
			&run.EndTime,
			&run.CreatedAt,
			&run.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan detection run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, total, nil
}

// MarkAsRunning marks a detection run as running
func (r *DetectionRunRepository) MarkAsRunning(id int64, totalPoints int) error {
	now := time.Now().Unix()
	query := `
		UPDATE detection_runs
		SET status = ?, start_time = ?, total_points = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Exec(query, models.RunStatusRunning, now, totalPoints, id)
	if err != nil {
		return fmt.Errorf("failed to mark detection run as running: %w", err)
	}

	return nil
}

// MarkAsCompleted marks a detection run as completed and records its totals
func (r *DetectionRunRepository) MarkAsCompleted(id int64, assignedPoints, numPOIs int, coveragePct float64, resultSummary string) error {
	now := time.Now().Unix()
	query := `
		UPDATE detection_runs
		SET status = ?, end_time = ?, assigned_points = ?, num_pois = ?,
			coverage_pct = ?, result_summary = ?, progress_percent = 100,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Exec(query, models.RunStatusCompleted, now, assignedPoints, numPOIs, coveragePct, resultSummary, id)
	if err != nil {
		return fmt.Errorf("failed to mark detection run as completed: %w", err)
	}

	return nil
}

// MarkAsFailed marks a detection run as failed with an error message
func (r *DetectionRunRepository) MarkAsFailed(id int64, errorMessage string) error {
	now := time.Now().Unix()
	query := `
		UPDATE detection_runs
		SET status = ?, end_time = ?, error_message = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Exec(query, models.RunStatusFailed, now, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to mark detection run as failed: %w", err)
	}

	return nil
}
