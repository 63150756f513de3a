package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mobility/internal/domain"
	"mobility/internal/repository"
)

// UserRepository is a PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// NewUserRepositoryWithTx creates a user repository using a transaction.
func NewUserRepositoryWithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{q: tx}
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, phone, is_active, last_booking_ended_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	var lastEnded sql.NullTime
	if !user.LastBookingEndedAt.IsZero() {
		lastEnded = sql.NullTime{Time: user.LastBookingEndedAt, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.Phone,
		user.IsActive,
		lastEnded,
		user.CreatedAt,
	)

	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, phone, is_active, last_booking_ended_at, created_at
		FROM users WHERE id = $1
	`

	var user domain.User
	var lastEnded sql.NullTime

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Phone,
		&user.IsActive,
		&lastEnded,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if lastEnded.Valid {
		user.LastBookingEndedAt = lastEnded.Time
	}

	return &user, nil
}

// SetLastBookingEnded stamps the cooldown anchor for a user.
func (r *UserRepository) SetLastBookingEnded(ctx context.Context, id string, endedAt time.Time) error {
	query := `UPDATE users SET last_booking_ended_at = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, endedAt, id)
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
