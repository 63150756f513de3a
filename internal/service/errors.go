package service

import (
	"errors"
	"fmt"

	"mobility/internal/domain"
)

var (
	// ErrInvalidUserID is returned when user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidVehicleID is returned when vehicle ID is empty.
	ErrInvalidVehicleID = errors.New("invalid vehicle id")

	// ErrInvalidBookingID is returned when booking ID is empty.
	ErrInvalidBookingID = errors.New("booking ID is required")

	// ErrInvalidRideID is returned when ride ID is empty.
	ErrInvalidRideID = errors.New("ride ID is required")

	// ErrInvalidPlanID is returned when tariff plan ID is empty.
	ErrInvalidPlanID = errors.New("invalid tariff plan id")

	// ErrInvalidFineID is returned when fine ID is empty.
	ErrInvalidFineID = errors.New("invalid fine id")

	// ErrVehicleNotAvailable is returned when the vehicle is not in
	// available status at reservation time.
	ErrVehicleNotAvailable = errors.New("vehicle is not available")

	// ErrCooldownActive is returned when the user's post-booking cooldown
	// window has not elapsed yet.
	ErrCooldownActive = errors.New("please wait for the cooldown period to end")

	// ErrActiveBookingExists is returned when the user already holds an
	// unexpired active booking.
	ErrActiveBookingExists = errors.New("user already has an active booking")

	// ErrBookingNotUsable is returned when a booking is missing, expired,
	// or does not belong to the caller.
	ErrBookingNotUsable = errors.New("booking not found or expired")

	// ErrBookingNotActive is returned when cancelling a booking that is
	// not in active status.
	ErrBookingNotActive = errors.New("booking is not active")

	// ErrRideNotFound is returned when a ride is missing or not owned by
	// the caller.
	ErrRideNotFound = errors.New("ride not found")

	// ErrRideNotInProgress is returned when finishing a ride that is not
	// in progress.
	ErrRideNotInProgress = errors.New("ride is not in progress")

	// ErrSubscriptionOverlap is returned when purchasing a subscription
	// while another one is active.
	ErrSubscriptionOverlap = errors.New("user already has an active subscription")

	// ErrFineNotPending is returned when paying a fine that is not pending.
	ErrFineNotPending = errors.New("fine is not pending")

	// ErrInvalidPaymentAmount is returned when payment amount is invalid.
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")
)

// UnpaidFineError blocks bookings and ride starts while the user has a
// pending fine. It carries the blocking fine so handlers can surface its id
// and amount; the fine's internal status is never echoed.
type UnpaidFineError struct {
	Fine *domain.Fine
}

func (e *UnpaidFineError) Error() string {
	return fmt.Sprintf("user has unpaid fines: fine %s amount %.2f", e.Fine.ID, e.Fine.Amount)
}
