package poi

import (
	"testing"

	"github.com/jengzang/poi-backend-go/internal/spatial"
)

func TestValidate_CleanResult(t *testing.T) {
	points := clusterAround(baseLat, baseLon, 40, 45, 0)
	d, err := NewDetector(points)
	if err != nil {
		t.Fatalf("NewDetector() error: %v", err)
	}
	result, err := d.DetectDensityPeaks(Params{RadiusMeters: 100, MinMerchants: 30})
	if err != nil {
		t.Fatalf("DetectDensityPeaks() error: %v", err)
	}

	report, err := Validate(d.Points(), result)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if !report.AllValid {
		t.Errorf("clean result should validate: %+v", report.POIs)
	}
	if len(report.POIs) != 1 {
		t.Fatalf("expected 1 POI verdict, got %d", len(report.POIs))
	}
	if report.POIs[0].POIID != "POI_000" || report.POIs[0].MemberCount != 40 {
		t.Errorf("unexpected verdict: %+v", report.POIs[0])
	}
	if report.POIs[0].MaxDistance > 100 {
		t.Errorf("max distance %f exceeds radius", report.POIs[0].MaxDistance)
	}
}

func TestValidate_DetectsCorruptedCenter(t *testing.T) {
	points := clusterAround(baseLat, baseLon, 30, 45, 0)
	farLat, farLon := spatial.DestinationPoint(baseLat, baseLon, 90, 1500)
	points = append(points, clusterAround(farLat, farLon, 30, 45, 100)...)

	d, err := NewDetector(points)
	if err != nil {
		t.Fatalf("NewDetector() error: %v", err)
	}
	result, err := d.DetectDensityPeaks(Params{RadiusMeters: 200, MinMerchants: 20})
	if err != nil {
		t.Fatalf("DetectDensityPeaks() error: %v", err)
	}
	if len(result.POIs) != 2 {
		t.Fatalf("fixture should produce 2 POIs, got %d", len(result.POIs))
	}

	// Drag the first center 500 m north: its members now sit beyond the radius.
	result.POIs[0].CenterLat, result.POIs[0].CenterLon = spatial.DestinationPoint(
		result.POIs[0].CenterLat, result.POIs[0].CenterLon, 0, 500)

	report, err := Validate(d.Points(), result)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if report.AllValid {
		t.Error("corrupted center must fail validation")
	}
	if report.POIs[0].Valid {
		t.Error("first POI should be flagged invalid")
	}
	if !report.POIs[1].Valid {
		t.Error("untouched POI should stay valid")
	}
	if report.POIs[0].MaxDistance <= 200 {
		t.Errorf("recomputed max distance %f should exceed the radius", report.POIs[0].MaxDistance)
	}
}

func TestValidate_NoPOIs(t *testing.T) {
	report, err := Validate(nil, nil)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if !report.AllValid {
		t.Error("empty result should validate trivially")
	}

	report, err = Validate(nil, &Result{})
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if !report.AllValid || len(report.POIs) != 0 {
		t.Errorf("result without POIs should validate trivially, got %+v", report)
	}
}

func TestValidate_PointCountMismatch(t *testing.T) {
	points := clusterAround(baseLat, baseLon, 40, 45, 0)
	d, err := NewDetector(points)
	if err != nil {
		t.Fatalf("NewDetector() error: %v", err)
	}
	result, err := d.DetectDensityPeaks(Params{RadiusMeters: 100, MinMerchants: 30})
	if err != nil {
		t.Fatalf("DetectDensityPeaks() error: %v", err)
	}

	if _, err := Validate(points[:10], result); err == nil {
		t.Error("expected error when point and assignment counts disagree")
	}
}
