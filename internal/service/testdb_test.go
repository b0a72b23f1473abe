package service

import (
	"database/sql"
	"math"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/jengzang/poi-backend-go/internal/models"
	"github.com/jengzang/poi-backend-go/internal/repository"
	"github.com/jengzang/poi-backend-go/internal/spatial"
)

// newTestDB opens an in-memory database with the real schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Each pool connection would get its own empty in-memory database.
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys=ON")
	require.NoError(t, err)

	schema, err := os.ReadFile("../../migrations/001_initial_schema.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return db
}

// seedCluster imports count merchants spiraling within maxRadius meters of
// (lat, lon), so detection over them forms one tight cluster.
func seedCluster(t *testing.T, repo *repository.MerchantRepository, lat, lon float64, count int, maxRadius float64, district string) {
	t.Helper()

	merchants := make([]models.Merchant, 0, count)
	for i := 0; i < count; i++ {
		bearing := math.Mod(float64(i)*137.5, 360)
		dist := maxRadius * float64(i+1) / float64(count)
		pLat, pLon := spatial.DestinationPoint(lat, lon, bearing, dist)
		merchants = append(merchants, models.Merchant{
			Name:        "merchant",
			Latitude:    pLat,
			Longitude:   pLon,
			District:    district,
			City:        "Jakarta Selatan",
			ImportBatch: "seed",
		})
	}
	require.NoError(t, repo.BulkInsert(merchants))
}

// waitForStatus polls a fetch function until the status matches or the
// deadline passes. Detection and sweep workers run in goroutines, so tests
// wait for them to settle.
func waitForStatus(t *testing.T, fetch func() (string, error), want string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		status, err := fetch()
		require.NoError(t, err)
		if status == want {
			return
		}
		if status == models.RunStatusFailed && want != models.RunStatusFailed {
			t.Fatalf("run failed while waiting for %s", want)
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for status %s", want)
}
