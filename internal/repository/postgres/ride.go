package postgres

import (
	"context"
	"database/sql"
	"errors"

	"mobility/internal/domain"
	"mobility/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `id, user_id, vehicle_id, booking_id, status, start_time, end_time, start_lat, start_lng, end_lat, end_lng, current_lat, current_lng, current_battery, distance_km, total_cost, created_at`

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	var bookingID sql.NullString
	if ride.BookingID != "" {
		bookingID = sql.NullString{String: ride.BookingID, Valid: true}
	}

	var endTime sql.NullTime
	if !ride.EndTime.IsZero() {
		endTime = sql.NullTime{Time: ride.EndTime, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.UserID,
		ride.VehicleID,
		bookingID,
		ride.Status,
		ride.StartTime,
		endTime,
		nullFloat(ride.StartLat),
		nullFloat(ride.StartLng),
		nullFloat(ride.EndLat),
		nullFloat(ride.EndLng),
		nullFloat(ride.CurrentLat),
		nullFloat(ride.CurrentLng),
		ride.CurrentBattery,
		ride.DistanceKm,
		ride.TotalCost,
		ride.CreatedAt,
	)

	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`
	return scanRideRow(r.q.QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate retrieves a ride and takes a row lock on it. The lock
// serializes concurrent finish attempts; the losing transaction re-reads
// the status after the winner commits.
func (r *RideRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1 FOR UPDATE`
	return scanRideRow(r.q.QueryRowContext(ctx, query, id))
}

func scanRideRow(row *sql.Row) (*domain.Ride, error) {
	var ride domain.Ride
	var bookingID sql.NullString
	var endTime sql.NullTime
	var startLat, startLng, endLat, endLng, curLat, curLng sql.NullFloat64

	err := row.Scan(
		&ride.ID,
		&ride.UserID,
		&ride.VehicleID,
		&bookingID,
		&ride.Status,
		&ride.StartTime,
		&endTime,
		&startLat,
		&startLng,
		&endLat,
		&endLng,
		&curLat,
		&curLng,
		&ride.CurrentBattery,
		&ride.DistanceKm,
		&ride.TotalCost,
		&ride.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if bookingID.Valid {
		ride.BookingID = bookingID.String
	}
	if endTime.Valid {
		ride.EndTime = endTime.Time
	}
	ride.StartLat = floatPtr(startLat)
	ride.StartLng = floatPtr(startLng)
	ride.EndLat = floatPtr(endLat)
	ride.EndLng = floatPtr(endLng)
	ride.CurrentLat = floatPtr(curLat)
	ride.CurrentLng = floatPtr(curLng)

	return &ride, nil
}

// UpdatePosition updates the live position and battery of an in-progress
// ride. The status guard keeps a stale tracking tick from writing over a
// ride that finished between the tick's read and this write.
func (r *RideRepository) UpdatePosition(ctx context.Context, id string, lat, lng *float64, battery int) error {
	query := `
		UPDATE rides
		SET current_lat = $1, current_lng = $2, current_battery = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.q.ExecContext(ctx, query, nullFloat(lat), nullFloat(lng), battery, id, domain.RideStatusInProgress)
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

// Update updates an existing ride.
func (r *RideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	query := `
		UPDATE rides
		SET status = $1, end_time = $2, start_lat = $3, start_lng = $4, end_lat = $5, end_lng = $6,
		    current_lat = $7, current_lng = $8, current_battery = $9, distance_km = $10, total_cost = $11
		WHERE id = $12
	`

	var endTime sql.NullTime
	if !ride.EndTime.IsZero() {
		endTime = sql.NullTime{Time: ride.EndTime, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		ride.Status,
		endTime,
		nullFloat(ride.StartLat),
		nullFloat(ride.StartLng),
		nullFloat(ride.EndLat),
		nullFloat(ride.EndLng),
		nullFloat(ride.CurrentLat),
		nullFloat(ride.CurrentLng),
		ride.CurrentBattery,
		ride.DistanceKm,
		ride.TotalCost,
		ride.ID,
	)
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

// CountByBookingID returns the number of rides that consumed a booking.
func (r *RideRepository) CountByBookingID(ctx context.Context, bookingID string) (int, error) {
	query := `SELECT COUNT(*) FROM rides WHERE booking_id = $1`

	var count int
	if err := r.q.QueryRowContext(ctx, query, bookingID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
