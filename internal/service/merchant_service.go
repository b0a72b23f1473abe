package service

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/jengzang/poi-backend-go/internal/models"
	"github.com/jengzang/poi-backend-go/internal/poi"
	"github.com/jengzang/poi-backend-go/internal/repository"
)

// MerchantService handles merchant import and query business logic
type MerchantService struct {
	repo *repository.MerchantRepository
}

// NewMerchantService creates a new merchant service
func NewMerchantService(repo *repository.MerchantRepository) *MerchantService {
	return &MerchantService{repo: repo}
}

// Import validates and stores a batch of merchants under a fresh batch id.
// A single malformed coordinate rejects the whole payload; nothing is
// written and nothing is coerced.
func (s *MerchantService) Import(req models.ImportMerchantsRequest) (*models.ImportMerchantsResult, error) {
	if len(req.Merchants) == 0 {
		return nil, fmt.Errorf("no merchants in payload")
	}

	batch := uuid.New().String()
	merchants := make([]models.Merchant, 0, len(req.Merchants))
	for i, in := range req.Merchants {
		if in.Latitude == nil || in.Longitude == nil {
			return nil, fmt.Errorf("merchant %d (%q): missing coordinates", i, in.Name)
		}
		if err := poi.CheckCoordinates(*in.Latitude, *in.Longitude); err != nil {
			return nil, fmt.Errorf("merchant %d (%q): %w", i, in.Name, err)
		}

		merchants = append(merchants, models.Merchant{
			Name:        in.Name,
			Latitude:    *in.Latitude,
			Longitude:   *in.Longitude,
			Subdistrict: in.Subdistrict,
			District:    in.District,
			City:        in.City,
			Keyword:     in.Keyword,
			ImportBatch: batch,
		})
	}

	if err := s.repo.BulkInsert(merchants); err != nil {
		return nil, err
	}

	log.Printf("[MerchantService] Imported %d merchants (batch=%s)", len(merchants), batch)
	return &models.ImportMerchantsResult{
		ImportBatch: batch,
		Imported:    len(merchants),
	}, nil
}

// List retrieves merchants with pagination defaults applied
func (s *MerchantService) List(filter models.MerchantFilter) (*models.MerchantsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}

	merchants, total, err := s.repo.List(filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	return &models.MerchantsResponse{
		Data:       merchants,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Count returns the total number of merchants
func (s *MerchantService) Count() (int64, error) {
	return s.repo.Count()
}
