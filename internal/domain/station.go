package domain

import "time"

// Station is a fixed docking point. Its coordinates are the geofence
// reference for return verification.
type Station struct {
	ID        string
	Name      string
	Lat       float64
	Lng       float64
	Capacity  int
	IsActive  bool
	CreatedAt time.Time
}
