package domain

import "time"

// SubscriptionStatus represents the current status of a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusInactive  SubscriptionStatus = "inactive"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription grants a user a tariff plan's free-minute allowance for a
// period. At most one subscription per user may be concurrently active.
// UsedMinutes only ever grows; it is fractional because ride durations are
// billed in real-valued minutes.
type Subscription struct {
	ID           string
	UserID       string
	TariffPlanID string
	Status       SubscriptionStatus
	StartDate    time.Time
	EndDate      time.Time
	UsedMinutes  float64
	CreatedAt    time.Time
}

// IsCurrent reports whether the subscription is active at the given instant.
func (s *Subscription) IsCurrent(now time.Time) bool {
	return s.Status == SubscriptionStatusActive &&
		!s.StartDate.After(now) && !s.EndDate.Before(now)
}

// TariffPlan defines the price and free-minute allowance of a subscription.
type TariffPlan struct {
	ID          string
	Name        string
	Price       float64
	FreeMinutes float64
	IsActive    bool
	CreatedAt   time.Time
}
