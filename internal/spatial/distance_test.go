package spatial

import (
	"math"
	"testing"
)

func TestHaversineDistance(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lon1 float64
		lat2, lon2 float64
		want       float64
		tolerance  float64
	}{
		{
			name: "zero distance",
			lat1: -6.2607, lon1: 106.8105,
			lat2: -6.2607, lon2: 106.8105,
			want:      0,
			tolerance: 1e-9,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			want:      111195, // pi * R / 180
			tolerance: 1,
		},
		{
			name: "blok m to kemang",
			lat1: -6.2444, lon1: 106.7991,
			lat2: -6.2608, lon2: 106.8136,
			want:      2420,
			tolerance: 50,
		},
		{
			name: "across the equator",
			lat1: -0.5, lon1: 106.8,
			lat2: 0.5, lon2: 106.8,
			want:      111195,
			tolerance: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("HaversineDistance() = %f, want %f (±%f)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestHaversineDistanceSymmetry(t *testing.T) {
	d1 := HaversineDistance(-6.2607, 106.8105, -6.1754, 106.8272)
	d2 := HaversineDistance(-6.1754, 106.8272, -6.2607, 106.8105)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %f vs %f", d1, d2)
	}
}

func TestDestinationPoint(t *testing.T) {
	tests := []struct {
		name     string
		bearing  float64
		distance float64
	}{
		{name: "north 100m", bearing: 0, distance: 100},
		{name: "east 250m", bearing: 90, distance: 250},
		{name: "south 50m", bearing: 180, distance: 50},
		{name: "northwest 1km", bearing: 315, distance: 1000},
	}

	startLat, startLon := -6.2607, 106.8105

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon := DestinationPoint(startLat, startLon, tt.bearing, tt.distance)

			// Round trip: the haversine distance back to the start must match
			got := HaversineDistance(startLat, startLon, lat, lon)
			if math.Abs(got-tt.distance) > 0.01 {
				t.Errorf("round-trip distance = %f, want %f", got, tt.distance)
			}
		})
	}
}

func TestCentroid(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		c := Centroid(nil)
		if c.Lat != 0 || c.Lon != 0 {
			t.Errorf("Centroid(nil) = %+v, want zero point", c)
		}
	})

	t.Run("single point", func(t *testing.T) {
		c := Centroid([]Point{{Lat: -6.26, Lon: 106.81}})
		if c.Lat != -6.26 || c.Lon != 106.81 {
			t.Errorf("Centroid() = %+v, want the point itself", c)
		}
	})

	t.Run("symmetric square", func(t *testing.T) {
		points := []Point{
			{Lat: -6.25, Lon: 106.80},
			{Lat: -6.25, Lon: 106.82},
			{Lat: -6.27, Lon: 106.80},
			{Lat: -6.27, Lon: 106.82},
		}
		c := Centroid(points)
		if math.Abs(c.Lat-(-6.26)) > 1e-9 || math.Abs(c.Lon-106.81) > 1e-9 {
			t.Errorf("Centroid() = %+v, want (-6.26, 106.81)", c)
		}
	})
}
