package service

import (
	"math"
	"time"

	"mobility/internal/domain"
)

// CostBreakdown is the result of computing a ride charge.
type CostBreakdown struct {
	DurationMinutes float64
	FreeMinutesUsed float64
	BillableMinutes float64
	Total           float64
}

// CostEngine computes ride charges. Compute is deterministic: it never
// mutates the subscription; persisting the consumed free minutes is the
// caller's job, inside the same transaction that completes the ride.
type CostEngine struct{}

// NewCostEngine creates a new CostEngine.
func NewCostEngine() *CostEngine {
	return &CostEngine{}
}

// Compute calculates the charge for a ride of [start, end] at the vehicle's
// per-minute rate, offsetting the subscription's remaining free minutes.
// Duration is real-valued minutes; the total is rounded up to the nearest
// whole currency unit, so any overage past a whole minute still bills.
func (e *CostEngine) Compute(start, end time.Time, ratePerMinute float64, sub *domain.Subscription, plan *domain.TariffPlan) CostBreakdown {
	duration := end.Sub(start).Minutes()
	if duration < 0 {
		duration = 0
	}

	var free float64
	if sub != nil && plan != nil {
		remaining := plan.FreeMinutes - sub.UsedMinutes
		if remaining < 0 {
			remaining = 0
		}
		free = math.Min(duration, remaining)
	}

	billable := duration - free

	return CostBreakdown{
		DurationMinutes: duration,
		FreeMinutesUsed: free,
		BillableMinutes: billable,
		Total:           math.Ceil(billable * ratePerMinute),
	}
}

// Estimate returns the running cost of an in-progress ride at the full
// vehicle rate. Free minutes are not applied here; they are consumed only
// once, at ride finish.
func (e *CostEngine) Estimate(start, now time.Time, ratePerMinute float64) float64 {
	duration := now.Sub(start).Minutes()
	if duration < 0 {
		duration = 0
	}
	return duration * ratePerMinute
}
