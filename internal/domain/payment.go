package domain

import "time"

// PaymentStatus represents the status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// Payment records a settlement attempt for a fine.
type Payment struct {
	ID             string
	FineID         string
	Amount         float64
	Status         PaymentStatus
	IdempotencyKey string
	CreatedAt      time.Time
}
