package domain

import "time"

// VehicleType is the closed set of vehicle variants in the fleet.
type VehicleType string

const (
	VehicleTypeBicycle VehicleType = "bicycle"
	VehicleTypeScooter VehicleType = "scooter"
)

// VehicleStatus represents the current status of a vehicle.
// Status is the single source of truth for availability: a vehicle may be
// claimed only while `available`, and only inside the same transaction that
// moves it to `reserved` or `in_ride`.
type VehicleStatus string

const (
	VehicleStatusAvailable    VehicleStatus = "available"
	VehicleStatusReserved     VehicleStatus = "reserved"
	VehicleStatusInRide       VehicleStatus = "in_ride"
	VehicleStatusMaintenance  VehicleStatus = "maintenance"
	VehicleStatusOutOfService VehicleStatus = "out_of_service"
)

// Vehicle represents a rentable vehicle. Booking, ride and cost logic depend
// only on the common fields (PricePerMinute, coordinates, Status) and are
// oblivious to the variant; GearCount and MaxSpeedKmh are variant attributes.
type Vehicle struct {
	ID             string
	Type           VehicleType
	Model          string
	Status         VehicleStatus
	PricePerMinute float64
	BatteryLevel   int
	CurrentLat     *float64 // nil when no position is known
	CurrentLng     *float64
	StationID      string // optional home station
	GearCount      int    // bicycle only
	MaxSpeedKmh    int    // scooter only
	CreatedAt      time.Time
}

// HasPosition reports whether the vehicle has known coordinates.
func (v *Vehicle) HasPosition() bool {
	return v.CurrentLat != nil && v.CurrentLng != nil
}
