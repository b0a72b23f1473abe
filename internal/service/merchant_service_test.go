package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/poi-backend-go/internal/models"
	"github.com/jengzang/poi-backend-go/internal/repository"
)

func floatPtr(v float64) *float64 { return &v }

func TestMerchantService_Import(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewMerchantRepository(db)
	svc := NewMerchantService(repo)

	req := models.ImportMerchantsRequest{
		Merchants: []models.MerchantInput{
			{Name: "Warung Kopi Tuku", Latitude: floatPtr(-6.2607), Longitude: floatPtr(106.8105), Subdistrict: "Senayan", District: "Kebayoran Baru", City: "Jakarta Selatan"},
			{Name: "Sate Khas Senayan", Latitude: floatPtr(-6.2611), Longitude: floatPtr(106.8109), Subdistrict: "Senayan", District: "Kebayoran Baru", City: "Jakarta Selatan"},
		},
	}

	result, err := svc.Import(req)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.NotEmpty(t, result.ImportBatch)

	count, err := svc.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Every imported row carries the batch id the service handed back.
	listed, total, err := repo.List(models.MerchantFilter{ImportBatch: result.ImportBatch})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, m := range listed {
		assert.Equal(t, result.ImportBatch, m.ImportBatch)
	}
}

func TestMerchantService_ImportRejectsBadCoordinates(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewMerchantRepository(db)
	svc := NewMerchantService(repo)

	cases := []struct {
		name  string
		input models.MerchantInput
	}{
		{"latitude out of range", models.MerchantInput{Name: "bad", Latitude: floatPtr(91), Longitude: floatPtr(106.8)}},
		{"longitude out of range", models.MerchantInput{Name: "bad", Latitude: floatPtr(-6.2), Longitude: floatPtr(181)}},
		{"missing latitude", models.MerchantInput{Name: "bad", Longitude: floatPtr(106.8)}},
		{"missing longitude", models.MerchantInput{Name: "bad", Latitude: floatPtr(-6.2)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := models.ImportMerchantsRequest{
				Merchants: []models.MerchantInput{
					{Name: "good", Latitude: floatPtr(-6.2607), Longitude: floatPtr(106.8105)},
					tc.input,
				},
			}

			_, err := svc.Import(req)
			require.Error(t, err)

			// One bad row rejects the whole payload; the good row must not land either.
			count, err := svc.Count()
			require.NoError(t, err)
			assert.Equal(t, int64(0), count)
		})
	}
}

func TestMerchantService_ImportEmptyPayload(t *testing.T) {
	db := newTestDB(t)
	svc := NewMerchantService(repository.NewMerchantRepository(db))

	_, err := svc.Import(models.ImportMerchantsRequest{})
	assert.Error(t, err)
}

func TestMerchantService_ListDefaults(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewMerchantRepository(db)
	svc := NewMerchantService(repo)

	seedCluster(t, repo, -6.2607, 106.8105, 150, 80, "Kebayoran Baru")

	resp, err := svc.List(models.MerchantFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(150), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 100, resp.PageSize)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Len(t, resp.Data, 100)

	resp, err = svc.List(models.MerchantFilter{Page: 2, PageSize: 100})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 50)
}
