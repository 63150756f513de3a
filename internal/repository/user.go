package repository

import (
	"context"
	"time"

	"mobility/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// SetLastBookingEnded stamps the cooldown anchor for a user.
	SetLastBookingEnded(ctx context.Context, id string, endedAt time.Time) error
}
