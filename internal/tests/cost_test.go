package tests

import (
	"testing"
	"time"

	"mobility/internal/domain"
	"mobility/internal/service"
)

// ──────────────────────────────────────────────
// 1. RIDE COST COMPUTATION
// ──────────────────────────────────────────────

func TestCost_WholeMinutesNoSubscription(t *testing.T) {
	t.Parallel()

	engine := service.NewCostEngine()
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(10 * time.Minute)

	cost := engine.Compute(start, end, 10, nil, nil)

	if cost.DurationMinutes != 10 {
		t.Errorf("expected duration 10, got %f", cost.DurationMinutes)
	}
	if cost.FreeMinutesUsed != 0 {
		t.Errorf("expected no free minutes, got %f", cost.FreeMinutesUsed)
	}
	if cost.BillableMinutes != 10 {
		t.Errorf("expected billable 10, got %f", cost.BillableMinutes)
	}
	if cost.Total != 100 {
		t.Errorf("expected total 100, got %f", cost.Total)
	}
}

func TestCost_FractionalMinutesRoundUp(t *testing.T) {
	t.Parallel()

	engine := service.NewCostEngine()
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	// 10 minutes and 3 seconds: 10.05 minutes, 100.5 currency units.
	end := start.Add(10*time.Minute + 3*time.Second)

	cost := engine.Compute(start, end, 10, nil, nil)

	if cost.Total != 101 {
		t.Errorf("expected total rounded up to 101, got %f", cost.Total)
	}
}

func TestCost_FreeMinutesOffsetPartially(t *testing.T) {
	t.Parallel()

	engine := service.NewCostEngine()
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Minute)

	sub := &domain.Subscription{ID: "sub-1", UsedMinutes: 25}
	plan := &domain.TariffPlan{ID: "plan-1", FreeMinutes: 30}

	cost := engine.Compute(start, end, 10, sub, plan)

	// 5 free minutes remain; 3 of 8 minutes bill.
	if cost.FreeMinutesUsed != 5 {
		t.Errorf("expected 5 free minutes used, got %f", cost.FreeMinutesUsed)
	}
	if cost.BillableMinutes != 3 {
		t.Errorf("expected 3 billable minutes, got %f", cost.BillableMinutes)
	}
	if cost.Total != 30 {
		t.Errorf("expected total 30, got %f", cost.Total)
	}
}

func TestCost_FreeMinutesCoverWholeRide(t *testing.T) {
	t.Parallel()

	engine := service.NewCostEngine()
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Minute)

	sub := &domain.Subscription{ID: "sub-1", UsedMinutes: 0}
	plan := &domain.TariffPlan{ID: "plan-1", FreeMinutes: 30}

	cost := engine.Compute(start, end, 10, sub, plan)

	if cost.FreeMinutesUsed != 3 {
		t.Errorf("expected 3 free minutes used, got %f", cost.FreeMinutesUsed)
	}
	if cost.Total != 0 {
		t.Errorf("expected total 0, got %f", cost.Total)
	}
}

func TestCost_ExhaustedAllowanceBillsFullRate(t *testing.T) {
	t.Parallel()

	engine := service.NewCostEngine()
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Minute)

	// Overconsumed allowance must clamp to zero, not go negative.
	sub := &domain.Subscription{ID: "sub-1", UsedMinutes: 35}
	plan := &domain.TariffPlan{ID: "plan-1", FreeMinutes: 30}

	cost := engine.Compute(start, end, 10, sub, plan)

	if cost.FreeMinutesUsed != 0 {
		t.Errorf("expected no free minutes, got %f", cost.FreeMinutesUsed)
	}
	if cost.Total != 50 {
		t.Errorf("expected total 50, got %f", cost.Total)
	}
}

func TestCost_ComputeIsDeterministic(t *testing.T) {
	t.Parallel()

	engine := service.NewCostEngine()
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(7 * time.Minute)

	sub := &domain.Subscription{ID: "sub-1", UsedMinutes: 10}
	plan := &domain.TariffPlan{ID: "plan-1", FreeMinutes: 15}

	first := engine.Compute(start, end, 12, sub, plan)
	second := engine.Compute(start, end, 12, sub, plan)

	if first != second {
		t.Errorf("expected identical breakdowns, got %+v and %+v", first, second)
	}
	if sub.UsedMinutes != 10 {
		t.Errorf("Compute must not mutate the subscription, used minutes now %f", sub.UsedMinutes)
	}
}

func TestCost_EstimateIgnoresFreeMinutes(t *testing.T) {
	t.Parallel()

	engine := service.NewCostEngine()
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(6 * time.Minute)

	estimate := engine.Estimate(start, now, 10)

	if estimate != 60 {
		t.Errorf("expected running cost 60, got %f", estimate)
	}
}

func TestCost_NegativeDurationClampsToZero(t *testing.T) {
	t.Parallel()

	engine := service.NewCostEngine()
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(-time.Minute)

	cost := engine.Compute(start, end, 10, nil, nil)

	if cost.DurationMinutes != 0 || cost.Total != 0 {
		t.Errorf("expected zero charge for clock skew, got %+v", cost)
	}
}
