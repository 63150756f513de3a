package postgres

import (
	"context"
	"database/sql"
	"errors"

	"mobility/internal/domain"
	"mobility/internal/repository"
)

// VehicleRepository is a PostgreSQL implementation of repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{q: db}
}

// NewVehicleRepositoryWithTx creates a vehicle repository using a transaction.
func NewVehicleRepositoryWithTx(tx *sql.Tx) *VehicleRepository {
	return &VehicleRepository{q: tx}
}

const vehicleColumns = `id, type, model, status, price_per_minute, battery_level, current_lat, current_lng, station_id, gear_count, max_speed_kmh, created_at`

// Create persists a new vehicle.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (` + vehicleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var stationID sql.NullString
	if vehicle.StationID != "" {
		stationID = sql.NullString{String: vehicle.StationID, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.Type,
		vehicle.Model,
		vehicle.Status,
		vehicle.PricePerMinute,
		vehicle.BatteryLevel,
		nullFloat(vehicle.CurrentLat),
		nullFloat(vehicle.CurrentLng),
		stationID,
		vehicle.GearCount,
		vehicle.MaxSpeedKmh,
		vehicle.CreatedAt,
	)

	return err
}

// GetByID retrieves a vehicle by ID.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate retrieves a vehicle and takes a row lock on it. The lock
// serializes concurrent booking attempts for the same vehicle; the losing
// transaction re-reads the status after the winner commits.
func (r *VehicleRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetAvailable retrieves all vehicles in available status.
func (r *VehicleRepository) GetAvailable(ctx context.Context) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE status = $1 ORDER BY created_at`

	rows, err := r.q.QueryContext(ctx, query, domain.VehicleStatusAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, rows.Err()
}

// UpdateStatus sets the status of a vehicle.
func (r *VehicleRepository) UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error {
	query := `UPDATE vehicles SET status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *VehicleRepository) scanOne(row *sql.Row) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	var lat, lng sql.NullFloat64
	var stationID sql.NullString

	err := row.Scan(
		&vehicle.ID,
		&vehicle.Type,
		&vehicle.Model,
		&vehicle.Status,
		&vehicle.PricePerMinute,
		&vehicle.BatteryLevel,
		&lat,
		&lng,
		&stationID,
		&vehicle.GearCount,
		&vehicle.MaxSpeedKmh,
		&vehicle.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	vehicle.CurrentLat = floatPtr(lat)
	vehicle.CurrentLng = floatPtr(lng)
	if stationID.Valid {
		vehicle.StationID = stationID.String
	}

	return &vehicle, nil
}

func scanVehicle(rows *sql.Rows) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	var lat, lng sql.NullFloat64
	var stationID sql.NullString

	if err := rows.Scan(
		&vehicle.ID,
		&vehicle.Type,
		&vehicle.Model,
		&vehicle.Status,
		&vehicle.PricePerMinute,
		&vehicle.BatteryLevel,
		&lat,
		&lng,
		&stationID,
		&vehicle.GearCount,
		&vehicle.MaxSpeedKmh,
		&vehicle.CreatedAt,
	); err != nil {
		return nil, err
	}

	vehicle.CurrentLat = floatPtr(lat)
	vehicle.CurrentLng = floatPtr(lng)
	if stationID.Valid {
		vehicle.StationID = stationID.String
	}

	return &vehicle, nil
}
