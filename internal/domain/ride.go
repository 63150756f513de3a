package domain

import "time"

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"
)

// Ride is an active or completed usage session of a vehicle. Exactly one
// ride per vehicle may be in_progress at a time.
type Ride struct {
	ID        string
	UserID    string
	VehicleID string
	BookingID string // originating booking, empty for none
	Status    RideStatus
	StartTime time.Time
	EndTime   time.Time
	StartLat  *float64
	StartLng  *float64
	EndLat    *float64
	EndLng    *float64
	// CurrentLat/CurrentLng/CurrentBattery are refreshed by the tracking
	// loop while the ride is in progress.
	CurrentLat     *float64
	CurrentLng     *float64
	CurrentBattery int
	DistanceKm     float64
	TotalCost      float64
	CreatedAt      time.Time
}
