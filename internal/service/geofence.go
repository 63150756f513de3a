package service

import (
	"math"

	"mobility/internal/domain"
)

const earthRadiusMeters = 6371000.0

// GeofenceEvaluator decides whether a point lies within the return radius
// of a station.
type GeofenceEvaluator struct {
	radiusMeters float64
}

// NewGeofenceEvaluator creates a new GeofenceEvaluator with the given
// station return radius in meters.
func NewGeofenceEvaluator(radiusMeters float64) *GeofenceEvaluator {
	return &GeofenceEvaluator{radiusMeters: radiusMeters}
}

// ReturnCheck is the outcome of a return-to-station verification.
type ReturnCheck struct {
	Verified bool
	// NearestDistanceMeters is the distance to the closest active station,
	// or -1 when no coordinates were available to measure from.
	NearestDistanceMeters float64
}

// IsWithinRadius reports whether the point lies within the return radius of
// the station.
func (g *GeofenceEvaluator) IsWithinRadius(lat, lng float64, station *domain.Station) bool {
	return haversineMeters(lat, lng, station.Lat, station.Lng) <= g.radiusMeters
}

// VerifyReturn checks the point against all active stations. A single match
// suffices. Missing coordinates can never verify: absence of location data
// is a violation, not benefit of the doubt.
func (g *GeofenceEvaluator) VerifyReturn(lat, lng *float64, stations []*domain.Station) ReturnCheck {
	if lat == nil || lng == nil {
		return ReturnCheck{Verified: false, NearestDistanceMeters: -1}
	}

	nearest := -1.0
	for _, station := range stations {
		d := haversineMeters(*lat, *lng, station.Lat, station.Lng)
		if nearest < 0 || d < nearest {
			nearest = d
		}
	}

	return ReturnCheck{
		Verified:              nearest >= 0 && nearest <= g.radiusMeters,
		NearestDistanceMeters: nearest,
	}
}

// haversineMeters computes the great-circle distance between two points.
func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
