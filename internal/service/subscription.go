package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mobility/internal/domain"
	"mobility/internal/repository"
)

const subscriptionPeriod = 30 * 24 * time.Hour

// SubscriptionService purchases subscriptions and resolves the active one
// for billing.
type SubscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	planRepo         repository.TariffPlanRepository
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(
	subscriptionRepo repository.SubscriptionRepository,
	planRepo repository.TariffPlanRepository,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
	}
}

// Purchase creates an active subscription for the user on the given plan.
// At most one subscription per user may be concurrently active; overlap is
// rejected at creation.
func (s *SubscriptionService) Purchase(ctx context.Context, userID, planID string) (*domain.Subscription, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if planID == "" {
		return nil, ErrInvalidPlanID
	}

	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	if !plan.IsActive {
		return nil, repository.ErrNotFound
	}

	now := time.Now()

	existing, _, err := s.subscriptionRepo.GetActiveByUserID(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSubscriptionOverlap
	}

	sub := &domain.Subscription{
		ID:           uuid.New().String(),
		UserID:       userID,
		TariffPlanID: plan.ID,
		Status:       domain.SubscriptionStatusActive,
		StartDate:    now,
		EndDate:      now.Add(subscriptionPeriod),
		UsedMinutes:  0,
		CreatedAt:    now,
	}

	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	return sub, nil
}

// ActiveForUser returns the user's active subscription with its plan, or
// nils if none exists.
func (s *SubscriptionService) ActiveForUser(ctx context.Context, userID string) (*domain.Subscription, *domain.TariffPlan, error) {
	if userID == "" {
		return nil, nil, ErrInvalidUserID
	}

	return s.subscriptionRepo.GetActiveByUserID(ctx, userID, time.Now())
}

// ListPlans retrieves all purchasable tariff plans.
func (s *SubscriptionService) ListPlans(ctx context.Context) ([]*domain.TariffPlan, error) {
	return s.planRepo.GetActive(ctx)
}
