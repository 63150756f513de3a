package repository

import (
	"context"
	"time"

	"mobility/internal/domain"
)

// SubscriptionRepository defines the persistence operations for
// subscriptions and their tariff plans.
type SubscriptionRepository interface {
	// Create persists a new subscription.
	Create(ctx context.Context, sub *domain.Subscription) error

	// GetActiveByUserID retrieves the user's currently active subscription
	// together with its tariff plan. Returns (nil, nil, nil) if the user
	// has no active subscription covering the given instant.
	GetActiveByUserID(ctx context.Context, userID string, now time.Time) (*domain.Subscription, *domain.TariffPlan, error)

	// IncrementUsedMinutes adds consumed free minutes to a subscription.
	IncrementUsedMinutes(ctx context.Context, id string, minutes float64) error
}

// TariffPlanRepository defines the persistence operations for tariff plans.
type TariffPlanRepository interface {
	// GetByID retrieves a tariff plan by ID.
	GetByID(ctx context.Context, id string) (*domain.TariffPlan, error)

	// GetActive retrieves all purchasable tariff plans.
	GetActive(ctx context.Context) ([]*domain.TariffPlan, error)
}
