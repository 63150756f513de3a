package domain

import "time"

// User represents a registered rider. Identity issuance lives in the
// external identity provider; only the resolved id is used here.
type User struct {
	ID       string
	Phone    string
	IsActive bool
	// LastBookingEndedAt anchors the post-ride booking cooldown.
	// Zero value means the user has never finished a booking.
	LastBookingEndedAt time.Time
	CreatedAt          time.Time
}
