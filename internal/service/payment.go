package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mobility/internal/domain"
	"mobility/internal/repository"
)

// PSP is the interface for a Payment Service Provider. Only the status
// callback matters here; the gateway protocol lives outside this service.
type PSP interface {
	Charge(ctx context.Context, amount float64) (bool, error)
}

// MockPSP is a mock implementation of PSP for development and testing.
type MockPSP struct{}

// NewMockPSP creates a new mock PSP.
func NewMockPSP() *MockPSP {
	return &MockPSP{}
}

// Charge simulates a payment charge. Always succeeds.
func (p *MockPSP) Charge(ctx context.Context, amount float64) (bool, error) {
	return true, nil
}

// PaymentService handles fine payment processing.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	psp         PSP
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(paymentRepo repository.PaymentRepository, psp PSP) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		psp:         psp,
	}
}

// ProcessFinePaymentRequest contains the parameters for paying a fine.
type ProcessFinePaymentRequest struct {
	FineID string
	Amount float64
}

// ProcessFinePayment charges the fine amount with idempotency support:
// repeated attempts for the same fine return the existing payment instead
// of charging twice.
func (s *PaymentService) ProcessFinePayment(ctx context.Context, req ProcessFinePaymentRequest) (*domain.Payment, error) {
	if req.FineID == "" {
		return nil, ErrInvalidFineID
	}

	if req.Amount <= 0 {
		return nil, ErrInvalidPaymentAmount
	}

	idempotencyKey := fmt.Sprintf("fine-payment:%s", req.FineID)

	existingPayment, err := s.paymentRepo.GetByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, err
	}

	if existingPayment != nil {
		return existingPayment, nil
	}

	payment := &domain.Payment{
		ID:             uuid.New().String(),
		FineID:         req.FineID,
		Amount:         req.Amount,
		Status:         domain.PaymentStatusPending,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      time.Now(),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	success, err := s.psp.Charge(ctx, req.Amount)
	if err != nil {
		// PSP error - mark as failed, payment can be retried later.
		_ = s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusFailed)
		payment.Status = domain.PaymentStatusFailed
		return payment, nil
	}

	status := domain.PaymentStatusSuccess
	if !success {
		status = domain.PaymentStatusFailed
	}

	if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, status); err != nil {
		return nil, err
	}
	payment.Status = status

	return payment, nil
}

// GetPayment retrieves a payment by ID.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return s.paymentRepo.GetByID(ctx, paymentID)
}
