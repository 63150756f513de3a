package domain

import "time"

// FineType classifies the policy violation a fine was issued for.
type FineType string

const (
	FineTypeStationReturnViolation FineType = "station_return_violation"
	FineTypeVehicleDamage          FineType = "vehicle_damage"
	FineTypeLateReturn             FineType = "late_return"
	FineTypeOther                  FineType = "other"
)

// FineStatus represents the payment state of a fine.
type FineStatus string

const (
	FineStatusPending   FineStatus = "pending"
	FineStatusPaid      FineStatus = "paid"
	FineStatusCancelled FineStatus = "cancelled"
)

// Fine is a monetary penalty issued to a user. Any pending fine blocks new
// bookings and ride starts until settled.
type Fine struct {
	ID          string
	UserID      string
	Type        FineType
	Amount      float64
	Status      FineStatus
	Description string
	DueDate     time.Time
	CreatedAt   time.Time
}
