package repository

import (
	"context"

	"mobility/internal/domain"
)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetByIDForUpdate retrieves a ride and takes a row lock on it, so the
	// in_progress check and the terminal write serialize against concurrent
	// finishes.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Ride, error)

	// Update updates an existing ride.
	Update(ctx context.Context, ride *domain.Ride) error

	// UpdatePosition updates the live position and battery of a ride that
	// is still in progress. Returns ErrNotFound when the ride is gone or
	// already terminal; status, end time and cost are never touched.
	UpdatePosition(ctx context.Context, id string, lat, lng *float64, battery int) error

	// CountByBookingID returns the number of rides that consumed a booking.
	CountByBookingID(ctx context.Context, bookingID string) (int, error)
}
