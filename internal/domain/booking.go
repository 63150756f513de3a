package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusUsed      BookingStatus = "used"
	BookingStatusExpired   BookingStatus = "expired"
)

// Booking is a time-bounded reservation of one vehicle for one user.
// A user holds at most one booking that is `active` with EndTime in the
// future. A booking becomes `used` when a ride starts from it, `expired`
// when the sweeper finds it past EndTime with no ride, or `cancelled` by
// explicit user action.
type Booking struct {
	ID        string
	UserID    string
	VehicleID string
	Status    BookingStatus
	StartTime time.Time
	EndTime   time.Time // reservation deadline
	CreatedAt time.Time
}

// IsUsable reports whether a ride may still start from this booking.
func (b *Booking) IsUsable(now time.Time) bool {
	return b.Status == BookingStatusActive && b.EndTime.After(now)
}
