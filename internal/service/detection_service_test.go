package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/jengzang/poi-backend-go/internal/analysis/detection"
	"github.com/jengzang/poi-backend-go/internal/models"
	"github.com/jengzang/poi-backend-go/internal/poi"
	"github.com/jengzang/poi-backend-go/internal/repository"
	"github.com/jengzang/poi-backend-go/internal/spatial"
)

func newDetectionService(t *testing.T) (*DetectionService, *repository.MerchantRepository) {
	t.Helper()
	db := newTestDB(t)
	merchants := repository.NewMerchantRepository(db)
	svc := NewDetectionService(
		repository.NewDetectionRunRepository(db),
		repository.NewPOIRepository(db),
		merchants,
		db,
	)
	return svc, merchants
}

func waitForRun(t *testing.T, svc *DetectionService, runID int64, want string) *models.DetectionRun {
	t.Helper()
	waitForStatus(t, func() (string, error) {
		run, err := svc.GetRun(runID)
		if err != nil {
			return "", err
		}
		return run.Status, nil
	}, want)

	run, err := svc.GetRun(runID)
	require.NoError(t, err)
	return run
}

func TestDetectionService_CreateRunValidation(t *testing.T) {
	svc, _ := newDetectionService(t)

	cases := []struct {
		name string
		req  models.CreateDetectionRunRequest
	}{
		{"unknown algorithm", models.CreateDetectionRunRequest{Algorithm: "voronoi", RadiusMeters: 100, MinMerchants: 30}},
		{"zero radius", models.CreateDetectionRunRequest{RadiusMeters: 0, MinMerchants: 30}},
		{"negative radius", models.CreateDetectionRunRequest{RadiusMeters: -50, MinMerchants: 30}},
		{"zero min merchants", models.CreateDetectionRunRequest{RadiusMeters: 100, MinMerchants: 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateRun(tc.req, "tester")
			assert.Error(t, err)
		})
	}
}

func TestDetectionService_DensityPeaksLifecycle(t *testing.T) {
	svc, merchants := newDetectionService(t)

	// 40 merchants in a tight cloud and 5 more ~1km east of it.
	seedCluster(t, merchants, -6.2607, 106.8105, 40, 45, "Kebayoran Baru")
	farLat, farLon := spatial.DestinationPoint(-6.2607, 106.8105, 90, 1000)
	seedCluster(t, merchants, farLat, farLon, 5, 10, "Setiabudi")

	run, err := svc.CreateRun(models.CreateDetectionRunRequest{
		Algorithm:    models.AlgorithmDensityPeaks,
		RadiusMeters: 100,
		MinMerchants: 30,
	}, "tester")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusPending, run.Status)
	assert.Equal(t, "tester", run.CreatedBy)

	run = waitForRun(t, svc, run.ID, models.RunStatusCompleted)
	assert.Equal(t, 45, run.TotalPoints)
	assert.Equal(t, 40, run.AssignedPoints)
	assert.Equal(t, 1, run.NumPOIs)
	assert.InDelta(t, 100.0*40/45, run.CoveragePct, 0.01)
	assert.Equal(t, 100, run.ProgressPercent)
	assert.NotEmpty(t, run.ResultSummary)

	poisResp, err := svc.GetRunPOIs(run.ID)
	require.NoError(t, err)
	require.Equal(t, 1, poisResp.Total)
	p := poisResp.Data[0]
	assert.Equal(t, "POI_000", p.POIID)
	assert.Equal(t, 40, p.MemberCount)
	assert.LessOrEqual(t, p.MaxDistance, 100.0)
	assert.Equal(t, "Kebayoran Baru", p.District)

	assignResp, err := svc.GetRunAssignments(run.ID)
	require.NoError(t, err)
	require.Equal(t, 45, assignResp.Total)
	unassigned := 0
	for _, a := range assignResp.Data {
		if a.ClusterID == poi.Unassigned {
			unassigned++
			assert.Nil(t, a.DistanceToCenter)
		} else {
			require.NotNil(t, a.DistanceToCenter)
			assert.LessOrEqual(t, *a.DistanceToCenter, 100.0)
		}
	}
	assert.Equal(t, 5, unassigned)

	stats, err := svc.GetRunStatistics(run.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalPOIs)
	assert.Equal(t, 45, stats.TotalPoints)
	assert.Equal(t, 40, stats.AssignedPoints)
	assert.Equal(t, map[string]int{"Kebayoran Baru": 1}, stats.Districts)

	report, err := svc.ValidateRun(run.ID)
	require.NoError(t, err)
	assert.True(t, report.AllValid)
	require.Len(t, report.POIs, 1)
	assert.Equal(t, 40, report.POIs[0].MemberCount)
}

func TestDetectionService_KMeansRefinedLifecycle(t *testing.T) {
	svc, merchants := newDetectionService(t)

	seedCluster(t, merchants, -6.2607, 106.8105, 40, 45, "Kebayoran Baru")

	run, err := svc.CreateRun(models.CreateDetectionRunRequest{
		Algorithm:    models.AlgorithmKMeansRefined,
		RadiusMeters: 100,
		MinMerchants: 30,
	}, "tester")
	require.NoError(t, err)

	run = waitForRun(t, svc, run.ID, models.RunStatusCompleted)
	assert.Equal(t, 40, run.TotalPoints)
	assert.Equal(t, 40, run.AssignedPoints)
	assert.Equal(t, 1, run.NumPOIs)
	assert.InDelta(t, 100.0, run.CoveragePct, 0.01)

	report, err := svc.ValidateRun(run.ID)
	require.NoError(t, err)
	assert.True(t, report.AllValid)
}

func TestDetectionService_DefaultAlgorithm(t *testing.T) {
	svc, _ := newDetectionService(t)

	run, err := svc.CreateRun(models.CreateDetectionRunRequest{RadiusMeters: 100, MinMerchants: 30}, "tester")
	require.NoError(t, err)
	assert.Equal(t, models.AlgorithmDensityPeaks, run.Algorithm)

	waitForRun(t, svc, run.ID, models.RunStatusCompleted)
}

func TestDetectionService_EmptyMerchantTable(t *testing.T) {
	svc, _ := newDetectionService(t)

	run, err := svc.CreateRun(models.CreateDetectionRunRequest{RadiusMeters: 100, MinMerchants: 30}, "tester")
	require.NoError(t, err)

	// No merchants is not a failure: the run completes with zero POIs.
	run = waitForRun(t, svc, run.ID, models.RunStatusCompleted)
	assert.Equal(t, 0, run.TotalPoints)
	assert.Equal(t, 0, run.NumPOIs)
	assert.Equal(t, 0.0, run.CoveragePct)

	poisResp, err := svc.GetRunPOIs(run.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, poisResp.Total)

	stats, err := svc.GetRunStatistics(run.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalPOIs)
	assert.Equal(t, 0.0, stats.CoveragePct)
}

func TestDetectionService_AreaFilter(t *testing.T) {
	svc, merchants := newDetectionService(t)

	seedCluster(t, merchants, -6.2607, 106.8105, 40, 45, "Kebayoran Baru")
	farLat, farLon := spatial.DestinationPoint(-6.2607, 106.8105, 90, 5000)
	seedCluster(t, merchants, farLat, farLon, 35, 45, "Setiabudi")

	run, err := svc.CreateRun(models.CreateDetectionRunRequest{
		RadiusMeters: 100,
		MinMerchants: 30,
		District:     "Setiabudi",
	}, "tester")
	require.NoError(t, err)

	run = waitForRun(t, svc, run.ID, models.RunStatusCompleted)
	assert.Equal(t, 35, run.TotalPoints)
	assert.Equal(t, 1, run.NumPOIs)
	assert.Equal(t, 35, run.AssignedPoints)
}

func TestDetectionService_StatisticsRequireCompletedRun(t *testing.T) {
	db := newTestDB(t)
	runs := repository.NewDetectionRunRepository(db)
	svc := NewDetectionService(runs, repository.NewPOIRepository(db), repository.NewMerchantRepository(db), db)

	// A row created directly, with no worker attached, stays pending.
	run := &models.DetectionRun{
		Algorithm:    models.AlgorithmDensityPeaks,
		RadiusMeters: 100,
		MinMerchants: 30,
		Status:       models.RunStatusPending,
	}
	require.NoError(t, runs.Create(run))

	_, err := svc.GetRunStatistics(run.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pending")

	_, err = svc.ValidateRun(run.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pending")
}

func TestDetectionService_ListRuns(t *testing.T) {
	svc, _ := newDetectionService(t)

	var ids []int64
	for i := 0; i < 3; i++ {
		run, err := svc.CreateRun(models.CreateDetectionRunRequest{RadiusMeters: 100, MinMerchants: 30}, "tester")
		require.NoError(t, err)
		ids = append(ids, run.ID)
	}
	for _, id := range ids {
		waitForRun(t, svc, id, models.RunStatusCompleted)
	}

	resp, err := svc.ListRuns(models.DetectionRunFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
	assert.Len(t, resp.Data, 3)

	resp, err = svc.ListRuns(models.DetectionRunFilter{Status: models.RunStatusFailed})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Total)
}
