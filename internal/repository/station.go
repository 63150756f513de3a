package repository

import (
	"context"

	"mobility/internal/domain"
)

// StationRepository defines the persistence operations for stations.
type StationRepository interface {
	// Create persists a new station.
	Create(ctx context.Context, station *domain.Station) error

	// GetByID retrieves a station by ID.
	GetByID(ctx context.Context, id string) (*domain.Station, error)

	// GetActive retrieves all active stations.
	GetActive(ctx context.Context) ([]*domain.Station, error)
}
