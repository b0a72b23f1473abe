package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jengzang/poi-backend-go/internal/database"
	"github.com/jengzang/poi-backend-go/internal/models"
)

// SweepRepository handles database operations for parameter sweeps
type SweepRepository struct {
	db *sql.DB
}

// NewSweepRepository creates a new sweep repository
func NewSweepRepository(db *sql.DB) *SweepRepository {
	return &SweepRepository{db: db}
}

// Create creates a new sweep run in pending state
func (r *SweepRepository) Create(run *models.SweepRun) error {
	query := `
		INSERT INTO sweep_runs (sweep_id, radii_json, min_merchants_json, filter_city, filter_district, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query, run.SweepID, run.RadiiJSON, run.MinMerchantsJSON, run.FilterCity, run.FilterDistrict, run.Status)
	if err != nil {
		return fmt.Errorf("failed to create sweep run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	run.ID = id
	return nil
}

// GetBySweepID retrieves a sweep run by its external UUID
func (r *SweepRepository) GetBySweepID(sweepID string) (*models.SweepRun, error) {
	query := `
		SELECT id, sweep_id, radii_json, min_merchants_json, filter_city, filter_district,
			   status, error_message, start_time, end_time, created_at, updated_at
		FROM sweep_runs
		WHERE sweep_id = ?
	`

	run := &models.SweepRun{}
	err := r.db.QueryRow(query, sweepID).Scan(
		&run.ID,
		&run.SweepID,
		&run.RadiiJSON,
		&run.MinMerchantsJSON,
		&run.FilterCity,
		&run.FilterDistrict,
		&run.Status,
		&run.ErrorMessage,
		&run.StartTime,
		&run.EndTime,
		&run.CreatedAt,
		&run.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sweep run not found: %s", sweepID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sweep run: %w", err)
	}

	return run, nil
}

// SaveResults stores the summary rows of a completed sweep in one transaction
func (r *SweepRepository) SaveResults(sweepRunID int64, results []models.SweepResult) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO sweep_results (
				sweep_run_id, radius_meters, min_merchants, num_pois,
				merchants_in_pois, coverage_pct, avg_merchants_per_poi, valid
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare sweep result insert: %w", err)
		}
		defer stmt.Close()

		for _, res := range results {
			_, err := stmt.Exec(
				sweepRunID,
				res.RadiusMeters,
				res.MinMerchants,
				res.NumPOIs,
				res.MerchantsInPOIs,
				res.CoveragePct,
				res.AvgMerchantsPerPOI,
				res.Valid,
			)
			if err != nil {
				return fmt.Errorf("failed to insert sweep result (%g, %d): %w", res.RadiusMeters, res.MinMerchants, err)
			}
		}

		return nil
	})
}

// ListResults retrieves the summary rows of a sweep in grid order
func (r *SweepRepository) ListResults(sweepRunID int64) ([]models.SweepResult, error) {
	query := `
		SELECT id, sweep_run_id, radius_meters, min_merchants, num_pois,
			   merchants_in_pois, coverage_pct, avg_merchants_per_poi, valid
		FROM sweep_results
		WHERE sweep_run_id = ?
		ORDER BY radius_meters, min_merchants
	`

	rows, err := r.db.Query(query, sweepRunID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sweep results: %w", err)
	}
	defer rows.Close()

	var results []models.SweepResult
	for rows.Next() {
		var res models.SweepResult
		err := rows.Scan(
			&res.ID,
			&res.SweepID,
			&res.RadiusMeters,
			&res.MinMerchants,
			&res.NumPOIs,
			&res.MerchantsInPOIs,
			&res.CoveragePct,
			&res.AvgMerchantsPerPOI,
			&res.Valid,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sweep result: %w", err)
		}
		results = append(results, res)
	}

	return results, nil
}

// MarkAsRunning marks a sweep run as running
func (r *SweepRepository) MarkAsRunning(id int64) error {
	now := time.Now().Unix()
	query := `
		UPDATE sweep_runs
		SET status = ?, start_time = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Exec(query, models.RunStatusRunning, now, id)
	if err != nil {
		return fmt.Errorf("failed to mark sweep as running: %w", err)
	}

	return nil
}

// MarkAsCompleted marks a sweep run as completed
func (r *SweepRepository) MarkAsCompleted(id int64) error {
	now := time.Now().Unix()
	query := `
		UPDATE sweep_runs
		SET status = ?, end_time = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Exec(query, models.RunStatusCompleted, now, id)
	if err != nil {
		return fmt.Errorf("failed to mark sweep as completed: %w", err)
	}

	return nil
}

// MarkAsFailed marks a sweep run as failed with an error message
func (r *SweepRepository) MarkAsFailed(id int64, errorMessage string) error {
	now := time.Now().Unix()
	query := `
		UPDATE sweep_runs
		SET status = ?, end_time = ?, error_message = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Exec(query, models.RunStatusFailed, now, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to mark sweep as failed: %w", err)
	}

	return nil
}
