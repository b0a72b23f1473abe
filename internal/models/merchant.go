package models

// Merchant represents a geocoded merchant record with administrative
// division information
type Merchant struct {
	ID        int64   `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`

	// Administrative divisions
	Subdistrict string `json:"subdistrict,omitempty" db:"subdistrict"` // kelurahan
	District    string `json:"district,omitempty" db:"district"`       // kecamatan
	City        string `json:"city,omitempty" db:"city"`               // kota/kabupaten

	// Metadata
	Keyword     string `json:"keyword,omitempty" db:"keyword"` // search keyword that produced this record
	ImportBatch string `json:"import_batch,omitempty" db:"import_batch"`
	CreatedAt   string `json:"created_at,omitempty" db:"created_at"`
}

// MerchantsResponse represents a paginated response of merchants
type MerchantsResponse struct {
	Data       []Merchant `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
}

// MerchantFilter represents filter parameters for querying merchants
type MerchantFilter struct {
	Subdistrict string `form:"subdistrict"`
	District    string `form:"district"`
	City        string `form:"city"`
	Keyword     string `form:"keyword"`
	ImportBatch string `form:"importBatch"`
	Page        int    `form:"page"`
	PageSize    int    `form:"pageSize"`
}

// ImportMerchantsRequest is the payload for a bulk merchant import
type ImportMerchantsRequest struct {
	Merchants []MerchantInput `json:"merchants" binding:"required"`
}

// MerchantInput is one merchant row in an import payload. Coordinates are
// required and validated before anything is written; a malformed row aborts
// the whole import.
type MerchantInput struct {
	Name        string   `json:"name"`
	Latitude    *float64 `json:"latitude" binding:"required"`
	Longitude   *float64 `json:"longitude" binding:"required"`
	Subdistrict string   `json:"subdistrict"`
	District    string   `json:"district"`
	City        string   `json:"city"`
	Keyword     string   `json:"keyword"`
}

// ImportMerchantsResult summarizes a completed import
type ImportMerchantsResult struct {
	ImportBatch string `json:"import_batch"`
	Imported    int    `json:"imported"`
}
