package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mobility/internal/domain"
	"mobility/internal/repository"
)

// SubscriptionRepository is a PostgreSQL implementation of
// repository.SubscriptionRepository.
type SubscriptionRepository struct {
	q Querier
}

// NewSubscriptionRepository creates a new PostgreSQL subscription repository.
func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{q: db}
}

// NewSubscriptionRepositoryWithTx creates a subscription repository using a transaction.
func NewSubscriptionRepositoryWithTx(tx *sql.Tx) *SubscriptionRepository {
	return &SubscriptionRepository{q: tx}
}

// Create persists a new subscription.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, user_id, tariff_plan_id, status, start_date, end_date, used_minutes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		sub.ID,
		sub.UserID,
		sub.TariffPlanID,
		sub.Status,
		sub.StartDate,
		sub.EndDate,
		sub.UsedMinutes,
		sub.CreatedAt,
	)

	return err
}

// GetActiveByUserID retrieves the user's currently active subscription with
// its tariff plan. Returns (nil, nil, nil) when the user has none.
func (r *SubscriptionRepository) GetActiveByUserID(ctx context.Context, userID string, now time.Time) (*domain.Subscription, *domain.TariffPlan, error) {
	query := `
		SELECT s.id, s.user_id, s.tariff_plan_id, s.status, s.start_date, s.end_date, s.used_minutes, s.created_at,
		       p.id, p.name, p.price, p.free_minutes, p.is_active, p.created_at
		FROM subscriptions s
		JOIN tariff_plans p ON p.id = s.tariff_plan_id
		WHERE s.user_id = $1 AND s.status = $2 AND s.start_date <= $3 AND s.end_date >= $3
		ORDER BY s.end_date DESC
		LIMIT 1
	`

	var sub domain.Subscription
	var plan domain.TariffPlan

	err := r.q.QueryRowContext(ctx, query, userID, domain.SubscriptionStatusActive, now).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.TariffPlanID,
		&sub.Status,
		&sub.StartDate,
		&sub.EndDate,
		&sub.UsedMinutes,
		&sub.CreatedAt,
		&plan.ID,
		&plan.Name,
		&plan.Price,
		&plan.FreeMinutes,
		&plan.IsActive,
		&plan.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	return &sub, &plan, nil
}

// IncrementUsedMinutes adds consumed free minutes to a subscription.
func (r *SubscriptionRepository) IncrementUsedMinutes(ctx context.Context, id string, minutes float64) error {
	query := `UPDATE subscriptions SET used_minutes = used_minutes + $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, minutes, id)
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

// TariffPlanRepository is a PostgreSQL implementation of
// repository.TariffPlanRepository.
type TariffPlanRepository struct {
	q Querier
}

// NewTariffPlanRepository creates a new PostgreSQL tariff plan repository.
func NewTariffPlanRepository(db *sql.DB) *TariffPlanRepository {
	return &TariffPlanRepository{q: db}
}

const tariffPlanColumns = `id, name, price, free_minutes, is_active, created_at`

// GetByID retrieves a tariff plan by ID.
func (r *TariffPlanRepository) GetByID(ctx context.Context, id string) (*domain.TariffPlan, error) {
	query := `SELECT ` + tariffPlanColumns + ` FROM tariff_plans WHERE id = $1`

	var plan domain.TariffPlan
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&plan.ID,
		&plan.Name,
		&plan.Price,
		&plan.FreeMinutes,
		&plan.IsActive,
		&plan.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &plan, nil
}

// GetActive retrieves all purchasable tariff plans.
func (r *TariffPlanRepository) GetActive(ctx context.Context) ([]*domain.TariffPlan, error) {
	query := `SELECT ` + tariffPlanColumns + ` FROM tariff_plans WHERE is_active = TRUE ORDER BY price`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*domain.TariffPlan
	for rows.Next() {
		var plan domain.TariffPlan
		if err := rows.Scan(
			&plan.ID,
			&plan.Name,
			&plan.Price,
			&plan.FreeMinutes,
			&plan.IsActive,
			&plan.CreatedAt,
		); err != nil {
			return nil, err
		}
		plans = append(plans, &plan)
	}
	return plans, rows.Err()
}
