package tests

import (
	"testing"

	"mobility/internal/domain"
	"mobility/internal/service"
)

// ──────────────────────────────────────────────
// 2. RETURN-TO-STATION VERIFICATION
// ──────────────────────────────────────────────

func f64(v float64) *float64 {
	return &v
}

func testStations() []*domain.Station {
	return []*domain.Station{
		{ID: "station-1", Name: "Central", Lat: 55.7558, Lng: 37.6173, IsActive: true},
		{ID: "station-2", Name: "North", Lat: 55.8000, Lng: 37.6000, IsActive: true},
	}
}

func TestGeofence_ReturnNearStationVerifies(t *testing.T) {
	t.Parallel()

	geofence := service.NewGeofenceEvaluator(50)

	// Roughly 13 meters from station-1.
	check := geofence.VerifyReturn(f64(55.7559), f64(37.6174), testStations())

	if !check.Verified {
		t.Errorf("expected return verified, nearest distance %f", check.NearestDistanceMeters)
	}
	if check.NearestDistanceMeters <= 0 || check.NearestDistanceMeters > 50 {
		t.Errorf("expected nearest distance within radius, got %f", check.NearestDistanceMeters)
	}
}

func TestGeofence_ReturnFarFromAllStationsViolates(t *testing.T) {
	t.Parallel()

	geofence := service.NewGeofenceEvaluator(50)

	check := geofence.VerifyReturn(f64(55.7700), f64(37.6500), testStations())

	if check.Verified {
		t.Error("expected violation far from every station")
	}
	if check.NearestDistanceMeters <= 50 {
		t.Errorf("expected nearest distance beyond radius, got %f", check.NearestDistanceMeters)
	}
}

func TestGeofence_MissingCoordinatesAlwaysViolate(t *testing.T) {
	t.Parallel()

	geofence := service.NewGeofenceEvaluator(50)

	cases := []struct {
		name string
		lat  *float64
		lng  *float64
	}{
		{"both missing", nil, nil},
		{"lat missing", nil, f64(37.6173)},
		{"lng missing", f64(55.7558), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			check := geofence.VerifyReturn(tc.lat, tc.lng, testStations())
			if check.Verified {
				t.Error("missing coordinates must never verify")
			}
			if check.NearestDistanceMeters != -1 {
				t.Errorf("expected sentinel distance -1, got %f", check.NearestDistanceMeters)
			}
		})
	}
}

func TestGeofence_NoStationsViolates(t *testing.T) {
	t.Parallel()

	geofence := service.NewGeofenceEvaluator(50)

	check := geofence.VerifyReturn(f64(55.7558), f64(37.6173), nil)

	if check.Verified {
		t.Error("expected violation with no active stations")
	}
}

func TestGeofence_IsWithinRadius(t *testing.T) {
	t.Parallel()

	geofence := service.NewGeofenceEvaluator(50)
	station := &domain.Station{ID: "station-1", Lat: 55.7558, Lng: 37.6173}

	if !geofence.IsWithinRadius(55.7558, 37.6173, station) {
		t.Error("expected point at the station itself to be within radius")
	}
	if geofence.IsWithinRadius(55.7700, 37.6500, station) {
		t.Error("expected distant point outside radius")
	}
}
