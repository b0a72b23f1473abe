package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/poi-backend-go/internal/database"
	"github.com/jengzang/poi-backend-go/internal/models"
)

// MerchantRepository handles database operations for merchants
type MerchantRepository struct {
	db *sql.DB
}

// NewMerchantRepository creates a new merchant repository
func NewMerchantRepository(db *sql.DB) *MerchantRepository {
	return &MerchantRepository{db: db}
}

// BulkInsert inserts a batch of merchants in a single transaction
func (r *MerchantRepository) BulkInsert(merchants []models.Merchant) error {
	if len(merchants) == 0 {
		return nil
	}

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO merchants (name, latitude, longitude, subdistrict, district, city, keyword, import_batch)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare merchant insert: %w", err)
		}
		defer stmt.Close()

		for i := range merchants {
			m := &merchants[i]
			result, err := stmt.Exec(m.Name, m.Latitude, m.Longitude, m.Subdistrict, m.District, m.City, m.Keyword, m.ImportBatch)
			if err != nil {
				return fmt.Errorf("failed to insert merchant %q: %w", m.Name, err)
			}
			id, err := result.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to get merchant insert id: %w", err)
			}
			m.ID = id
		}

		return nil
	})
}

// List retrieves merchants with optional filters and pagination
func (r *MerchantRepository) List(filter models.MerchantFilter) ([]models.Merchant, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Subdistrict != "" {
		where += " AND subdistrict = ?"
		args = append(args, filter.Subdistrict)
	}
	if filter.District != "" {
		where += " AND district = ?"
		args = append(args, filter.District)
	}
	if filter.City != "" {
		where += " AND city = ?"
		args = append(args, filter.City)
	}
	if filter.Keyword != "" {
		where += " AND keyword = ?"
		args = append(args, filter.Keyword)
	}
	if filter.ImportBatch != "" {
		where += " AND import_batch = ?"
		args = append(args, filter.ImportBatch)
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM merchants"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count merchants: %w", err)
	}

	query := `
		SELECT id, name, latitude, longitude, subdistrict, district, city, keyword, import_batch, created_at
		FROM merchants
	` + where + " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list merchants: %w", err)
	}
	defer rows.Close()

	var merchants []models.Merchant
	for rows.Next() {
		var m models.Merchant
		err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Latitude,
			&m.Longitude,
			&m.Subdistrict,
			&m.District,
			&m.City,
			&m.Keyword,
			&m.ImportBatch,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan merchant: %w", err)
		}
		merchants = append(merchants, m)
	}

	return merchants, total, nil
}

// GetAllInArea retrieves every merchant, optionally restricted to one city
// and/or district, in insertion order. Detection runs consume this.
func (r *MerchantRepository) GetAllInArea(city, district string) ([]models.Merchant, error) {
	query := `
		SELECT id, name, latitude, longitude, subdistrict, district, city, keyword, import_batch, created_at
		FROM merchants
		WHERE 1=1
	`
	args := []interface{}{}
	if city != "" {
		query += " AND city = ?"
		args = append(args, city)
	}
	if district != "" {
		query += " AND district = ?"
		args = append(args, district)
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load merchants: %w", err)
	}
	defer rows.Close()

	var merchants []models.Merchant
	for rows.Next() {
		var m models.Merchant
		err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Latitude,
			&m.Longitude,
			&m.Subdistrict,
			&m.District,
			&m.City,
			&m.Keyword,
			&m.ImportBatch,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan merchant: %w", err)
		}
		merchants = append(merchants, m)
	}

	return merchants, nil
}

// Count returns the total number of merchants
func (r *MerchantRepository) Count() (int64, error) {
	var count int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM merchants").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count merchants: %w", err)
	}
	return count, nil
}
