package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/poi-backend-go/internal/database"
	"github.com/jengzang/poi-backend-go/internal/models"
)

// POIRepository handles database operations for POIs and their assignments
type POIRepository struct {
	db *sql.DB
}

// NewPOIRepository creates a new POI repository
func NewPOIRepository(db *sql.DB) *POIRepository {
	return &POIRepository{db: db}
}

// SaveRunResult stores every POI and assignment of a completed run in a
// single transaction, so a run is either fully persisted or not at all.
func (r *POIRepository) SaveRunResult(runID int64, pois []models.POI, assignments []models.POIAssignment) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		poiStmt, err := tx.Prepare(`
			INSERT INTO pois (
				run_id, poi_id, cluster_id, center_lat, center_lon, member_count,
				max_distance, avg_distance, min_distance, radius_meters, min_merchants,
				subdistrict, district, city
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare poi insert: %w", err)
		}
		defer poiStmt.Close()

		for _, p := range pois {
			_, err := poiStmt.Exec(
				runID,
				p.POIID,
				p.ClusterID,
				p.CenterLat,
				p.CenterLon,
				p.MemberCount,
				p.MaxDistance,
				p.AvgDistance,
				p.MinDistance,
				p.RadiusMeters,
				p.MinMerchants,
				p.Subdistrict,
				p.District,
				p.City,
			)
			if err != nil {
				return fmt.Errorf("failed to insert poi %s: %w", p.POIID, err)
			}
		}

		assignStmt, err := tx.Prepare(`
			INSERT INTO poi_assignments (run_id, merchant_id, cluster_id, distance_to_center)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare assignment insert: %w", err)
		}
		defer assignStmt.Close()

		for _, a := range assignments {
			var dist interface{}
			if a.DistanceToCenter != nil {
				dist = *a.DistanceToCenter
			}
			if _, err := assignStmt.Exec(runID, a.MerchantID, a.ClusterID, dist); err != nil {
				return fmt.Errorf("failed to insert assignment for merchant %d: %w", a.MerchantID, err)
			}
		}

		return nil
	})
}

// ListByRun retrieves all POIs of a detection run in cluster order
func (r *POIRepository) ListByRun(runID int64) ([]models.POI, error) {
	query := `
		SELECT id, run_id, poi_id, cluster_id, center_lat, center_lon, member_count,
			   max_distance, avg_distance, min_distance, radius_meters, min_merchants,
			   subdistrict, district, city
		FROM pois
		WHERE run_id = ?
		ORDER BY cluster_id
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pois: %w", err)
	}
	defer rows.Close()

	var pois []models.POI
	for rows.Next() {
		var p models.POI
		err := rows.Scan(
			&p.ID,
			&p.RunID,
			&p.POIID,
			&p.ClusterID,
			&p.CenterLat,
			&p.CenterLon,
			&p.MemberCount,
			&p.MaxDistance,
			&p.AvgDistance,
			&p.MinDistance,
			&p.RadiusMeters,
			&p.MinMerchants,
			&p.Subdistrict,
			&p.District,
			&p.City,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poi: %w", err)
		}
		pois = append(pois, p)
	}

	return pois, nil
}

// ListAssignmentsByRun retrieves all assignments of a detection run in
// merchant order. DistanceToCenter is nil for unassigned merchants.
func (r *POIRepository) ListAssignmentsByRun(runID int64) ([]models.POIAssignment, error) {
	query := `
		SELECT id, run_id, merchant_id, cluster_id, distance_to_center
		FROM poi_assignments
		WHERE run_id = ?
		ORDER BY merchant_id
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.POIAssignment
	for rows.Next() {
		var a models.POIAssignment
		var dist sql.NullFloat64
		err := rows.Scan(&a.ID, &a.RunID, &a.MerchantID, &a.ClusterID, &dist)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		if dist.Valid {
			a.DistanceToCenter = &dist.Float64
		}
		assignments = append(assignments, a)
	}

	return assignments, nil
}

// DeleteByRun removes the POIs and assignments of a run, for reruns
func (r *POIRepository) DeleteByRun(runID int64) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM poi_assignments WHERE run_id = ?", runID); err != nil {
			return fmt.Errorf("failed to delete assignments: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM pois WHERE run_id = ?", runID); err != nil {
			return fmt.Errorf("failed to delete pois: %w", err)
		}
		return nil
	})
}
