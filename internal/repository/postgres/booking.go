package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mobility/internal/domain"
	"mobility/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `id, user_id, vehicle_id, status, start_time, end_time, created_at`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.UserID,
		booking.VehicleID,
		booking.Status,
		booking.StartTime,
		booking.EndTime,
		booking.CreatedAt,
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBookingRow(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// GetByIDForUpdate retrieves a booking and takes a row lock on it. A ride
// start, a cancel and a sweep racing for the same booking serialize here;
// whoever loses re-reads a status the winner already committed.
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	booking, err := scanBookingRow(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// GetActiveByUserID retrieves the user's unexpired active booking, or nil.
func (r *BookingRepository) GetActiveByUserID(ctx context.Context, userID string, now time.Time) (*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + ` FROM bookings
		WHERE user_id = $1 AND status = $2 AND end_time > $3
		LIMIT 1
	`

	booking, err := scanBookingRow(r.q.QueryRowContext(ctx, query, userID, domain.BookingStatusActive, now))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return booking, nil
}

// GetExpiredActive retrieves active bookings past their reservation deadline.
// Inside a transaction the rows are locked so a concurrent sweep or ride
// start blocks until this one commits.
func (r *BookingRepository) GetExpiredActive(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + ` FROM bookings
		WHERE status = $1 AND end_time <= $2
		FOR UPDATE
	`

	rows, err := r.q.QueryContext(ctx, query, domain.BookingStatusActive, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		var booking domain.Booking
		if err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.VehicleID,
			&booking.Status,
			&booking.StartTime,
			&booking.EndTime,
			&booking.CreatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, &booking)
	}
	return bookings, rows.Err()
}

// UpdateStatus sets the status of a booking.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $1 WHERE id = $2`

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

func scanBookingRow(row *sql.Row) (*domain.Booking, error) {
	var booking domain.Booking

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.VehicleID,
		&booking.Status,
		&booking.StartTime,
		&booking.EndTime,
		&booking.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &booking, nil
}

var _ repository.BookingRepository = (*BookingRepository)(nil)
