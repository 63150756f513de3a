package repository

import (
	"context"

	"mobility/internal/domain"
)

// VehicleRepository defines the persistence operations for vehicles.
type VehicleRepository interface {
	// Create persists a new vehicle.
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID retrieves a vehicle by ID.
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)

	// GetByIDForUpdate retrieves a vehicle and takes a row lock on it.
	// Must be called inside a transaction; the lock is held until commit.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Vehicle, error)

	// GetAvailable retrieves all vehicles in available status.
	GetAvailable(ctx context.Context) ([]*domain.Vehicle, error)

	// UpdateStatus sets the status of a vehicle.
	UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error
}
