package repository

import (
	"context"

	"mobility/internal/domain"
)

// FineRepository defines the persistence operations for fines.
type FineRepository interface {
	// Create persists a new fine.
	Create(ctx context.Context, fine *domain.Fine) error

	// GetByID retrieves a fine by ID.
	GetByID(ctx context.Context, id string) (*domain.Fine, error)

	// GetPendingByUserID retrieves one pending fine for the user,
	// or nil if the user has none.
	GetPendingByUserID(ctx context.Context, userID string) (*domain.Fine, error)

	// GetByUserID retrieves all fines for a user, newest first.
	GetByUserID(ctx context.Context, userID string) ([]*domain.Fine, error)

	// UpdateStatus sets the status of a fine.
	UpdateStatus(ctx context.Context, id string, status domain.FineStatus) error
}
