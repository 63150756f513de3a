package repository

import (
	"context"
	"time"

	"mobility/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetByIDForUpdate retrieves a booking and takes a row lock on it, so
	// ride start, cancellation and the expiration sweep serialize on the
	// same booking.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error)

	// GetActiveByUserID retrieves the user's booking that is active with a
	// reservation deadline in the future. Returns nil if none exists.
	GetActiveByUserID(ctx context.Context, userID string, now time.Time) (*domain.Booking, error)

	// GetExpiredActive retrieves bookings still marked active whose
	// reservation deadline has passed, locking the rows when called inside
	// a transaction.
	GetExpiredActive(ctx context.Context, now time.Time) ([]*domain.Booking, error)

	// UpdateStatus sets the status of a booking.
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
}
