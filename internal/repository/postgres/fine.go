package postgres

import (
	"context"
	"database/sql"
	"errors"

	"mobility/internal/domain"
	"mobility/internal/repository"
)

// FineRepository is a PostgreSQL implementation of repository.FineRepository.
type FineRepository struct {
	q Querier
}

// NewFineRepository creates a new PostgreSQL fine repository.
func NewFineRepository(db *sql.DB) *FineRepository {
	return &FineRepository{q: db}
}

// NewFineRepositoryWithTx creates a fine repository using a transaction.
func NewFineRepositoryWithTx(tx *sql.Tx) *FineRepository {
	return &FineRepository{q: tx}
}

const fineColumns = `id, user_id, type, amount, status, description, due_date, created_at`

// Create persists a new fine.
func (r *FineRepository) Create(ctx context.Context, fine *domain.Fine) error {
	query := `
		INSERT INTO fines (` + fineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		fine.ID,
		fine.UserID,
		fine.Type,
		fine.Amount,
		fine.Status,
		fine.Description,
		fine.DueDate,
		fine.CreatedAt,
	)

	return err
}

// GetByID retrieves a fine by ID.
func (r *FineRepository) GetByID(ctx context.Context, id string) (*domain.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines WHERE id = $1`

	fine, err := scanFineRow(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return fine, nil
}

// GetPendingByUserID retrieves one pending fine for the user, or nil.
func (r *FineRepository) GetPendingByUserID(ctx context.Context, userID string) (*domain.Fine, error) {
	query := `
		SELECT ` + fineColumns + ` FROM fines
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at
		LIMIT 1
	`

	fine, err := scanFineRow(r.q.QueryRowContext(ctx, query, userID, domain.FineStatusPending))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return fine, nil
}

// GetByUserID retrieves all fines for a user, newest first.
func (r *FineRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fines []*domain.Fine
	for rows.Next() {
		var fine domain.Fine
		if err := rows.Scan(
			&fine.ID,
			&fine.UserID,
			&fine.Type,
			&fine.Amount,
			&fine.Status,
			&fine.Description,
			&fine.DueDate,
			&fine.CreatedAt,
		); err != nil {
			return nil, err
		}
		fines = append(fines, &fine)
	}
	return fines, rows.Err()
}

// UpdateStatus sets the status of a fine.
func (r *FineRepository) UpdateStatus(ctx context.Context, id string, status domain.FineStatus) error {
	query := `UPDATE fines SET status = $1 WHERE id = $2`

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

func scanFineRow(row *sql.Row) (*domain.Fine, error) {
	var fine domain.Fine

	err := row.Scan(
		&fine.ID,
		&fine.UserID,
		&fine.Type,
		&fine.Amount,
		&fine.Status,
		&fine.Description,
		&fine.DueDate,
		&fine.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &fine, nil
}
