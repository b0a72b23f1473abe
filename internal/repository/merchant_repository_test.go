package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/poi-backend-go/internal/models"
)

func sampleMerchants(batch string) []models.Merchant {
	return []models.Merchant{
		{Name: "Warung Kopi Tuku", Latitude: -6.2601, Longitude: 106.8133, Subdistrict: "Senayan", District: "Kebayoran Baru", City: "Jakarta Selatan", Keyword: "kopi", ImportBatch: batch},
		{Name: "Sate Khas Senayan", Latitude: -6.2612, Longitude: 106.8141, Subdistrict: "Senayan", District: "Kebayoran Baru", City: "Jakarta Selatan", Keyword: "sate", ImportBatch: batch},
		{Name: "Bakmi GM Kemang", Latitude: -6.2718, Longitude: 106.8165, Subdistrict: "Bangka", District: "Mampang Prapatan", City: "Jakarta Selatan", Keyword: "bakmi", ImportBatch: batch},
	}
}

func TestMerchantRepository_BulkInsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewMerchantRepository(db)

	merchants := sampleMerchants("batch-1")
	require.NoError(t, repo.BulkInsert(merchants))

	// Inserted rows get their ids back.
	for i, m := range merchants {
		assert.Equal(t, int64(i+1), m.ID)
	}

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestMerchantRepository_BulkInsertEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := NewMerchantRepository(db)

	require.NoError(t, repo.BulkInsert(nil))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestMerchantRepository_ListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewMerchantRepository(db)
	require.NoError(t, repo.BulkInsert(sampleMerchants("batch-1")))

	merchants, total, err := repo.List(models.MerchantFilter{
		District: "Kebayoran Baru",
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, merchants, 2)
	for _, m := range merchants {
		assert.Equal(t, "Kebayoran Baru", m.District)
	}

	merchants, total, err = repo.List(models.MerchantFilter{
		Keyword:  "kopi",
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, merchants, 1)
	assert.Equal(t, "Warung Kopi Tuku", merchants[0].Name)

	merchants, total, err = repo.List(models.MerchantFilter{
		City:     "Jakarta Pusat",
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, merchants)
}

func TestMerchantRepository_ListPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewMerchantRepository(db)
	require.NoError(t, repo.BulkInsert(sampleMerchants("batch-1")))

	page1, total, err := repo.List(models.MerchantFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page1, 2)

	page2, _, err := repo.List(models.MerchantFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.NotEqual(t, page1[0].ID, page2[0].ID)
}

func TestMerchantRepository_GetAllInArea(t *testing.T) {
	db := newTestDB(t)
	repo := NewMerchantRepository(db)
	require.NoError(t, repo.BulkInsert(sampleMerchants("batch-1")))

	all, err := repo.GetAllInArea("", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Rows come back in insertion order.
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i].ID, all[i-1].ID)
	}

	area, err := repo.GetAllInArea("Jakarta Selatan", "Mampang Prapatan")
	require.NoError(t, err)
	require.Len(t, area, 1)
	assert.Equal(t, "Bakmi GM Kemang", area[0].Name)
}
