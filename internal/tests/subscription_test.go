package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"mobility/internal/domain"
	"mobility/internal/repository"
	"mobility/internal/service"
)

// ──────────────────────────────────────────────
// 5. SUBSCRIPTION PURCHASE
// ──────────────────────────────────────────────

func TestSubscription_PurchaseCreatesActiveSubscription(t *testing.T) {
	t.Parallel()

	subRepo := NewMockSubscriptionRepository()
	planRepo := NewMockTariffPlanRepository()
	planRepo.AddPlan(&domain.TariffPlan{
		ID:          "plan-1",
		Name:        "Monthly 30",
		Price:       499,
		FreeMinutes: 30,
		IsActive:    true,
	})

	subscriptionService := service.NewSubscriptionService(subRepo, planRepo)

	sub, err := subscriptionService.Purchase(context.Background(), "user-1", "plan-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sub.Status != domain.SubscriptionStatusActive {
		t.Errorf("expected active subscription, got %s", sub.Status)
	}
	if sub.UsedMinutes != 0 {
		t.Errorf("expected zero used minutes, got %f", sub.UsedMinutes)
	}
	if !sub.EndDate.After(sub.StartDate.Add(29 * 24 * time.Hour)) {
		t.Errorf("expected a month-long period, got %s to %s", sub.StartDate, sub.EndDate)
	}
}

func TestSubscription_OverlappingPurchaseRejected(t *testing.T) {
	t.Parallel()

	subRepo := NewMockSubscriptionRepository()
	planRepo := NewMockTariffPlanRepository()
	plan := &domain.TariffPlan{ID: "plan-1", FreeMinutes: 30, IsActive: true}
	planRepo.AddPlan(plan)

	now := time.Now()
	subRepo.AddSubscription(&domain.Subscription{
		ID:           "sub-1",
		UserID:       "user-1",
		TariffPlanID: "plan-1",
		Status:       domain.SubscriptionStatusActive,
		StartDate:    now.Add(-24 * time.Hour),
		EndDate:      now.Add(24 * time.Hour),
	}, plan)

	subscriptionService := service.NewSubscriptionService(subRepo, planRepo)

	_, err := subscriptionService.Purchase(context.Background(), "user-1", "plan-1")
	if !errors.Is(err, service.ErrSubscriptionOverlap) {
		t.Errorf("expected ErrSubscriptionOverlap, got %v", err)
	}
}

func TestSubscription_ExpiredSubscriptionDoesNotBlockPurchase(t *testing.T) {
	t.Parallel()

	subRepo := NewMockSubscriptionRepository()
	planRepo := NewMockTariffPlanRepository()
	plan := &domain.TariffPlan{ID: "plan-1", FreeMinutes: 30, IsActive: true}
	planRepo.AddPlan(plan)

	now := time.Now()
	subRepo.AddSubscription(&domain.Subscription{
		ID:           "sub-old",
		UserID:       "user-1",
		TariffPlanID: "plan-1",
		Status:       domain.SubscriptionStatusActive,
		StartDate:    now.Add(-60 * 24 * time.Hour),
		EndDate:      now.Add(-30 * 24 * time.Hour),
	}, plan)

	subscriptionService := service.NewSubscriptionService(subRepo, planRepo)

	if _, err := subscriptionService.Purchase(context.Background(), "user-1", "plan-1"); err != nil {
		t.Errorf("expired subscription must not block a new purchase: %v", err)
	}
}

func TestSubscription_InactivePlanNotPurchasable(t *testing.T) {
	t.Parallel()

	subRepo := NewMockSubscriptionRepository()
	planRepo := NewMockTariffPlanRepository()
	planRepo.AddPlan(&domain.TariffPlan{ID: "plan-retired", IsActive: false})

	subscriptionService := service.NewSubscriptionService(subRepo, planRepo)

	_, err := subscriptionService.Purchase(context.Background(), "user-1", "plan-retired")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for retired plan, got %v", err)
	}
}
