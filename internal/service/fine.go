package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mobility/internal/domain"
	"mobility/internal/repository"
)

const fineDueWindow = 14 * 24 * time.Hour

// FineGate checks whether a user is blocked by unpaid fines. Both booking
// creation and ride start consult it.
type FineGate interface {
	HasUnpaidFine(ctx context.Context, userID string) (*domain.Fine, error)
}

// Ensure FineService implements FineGate.
var _ FineGate = (*FineService)(nil)

// FineService issues fines and answers the unpaid-fine gate.
type FineService struct {
	fineRepo       repository.FineRepository
	paymentService *PaymentService
}

// NewFineService creates a new FineService.
func NewFineService(fineRepo repository.FineRepository, paymentService *PaymentService) *FineService {
	return &FineService{
		fineRepo:       fineRepo,
		paymentService: paymentService,
	}
}

// HasUnpaidFine returns a pending fine for the user, or nil if the user has
// none. Paid and cancelled fines never block.
func (s *FineService) HasUnpaidFine(ctx context.Context, userID string) (*domain.Fine, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	return s.fineRepo.GetPendingByUserID(ctx, userID)
}

// Issue creates a pending fine for the user.
func (s *FineService) Issue(ctx context.Context, userID string, fineType domain.FineType, amount float64, description string) (*domain.Fine, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	fine := buildFine(userID, fineType, amount, description, time.Now())

	if err := s.fineRepo.Create(ctx, fine); err != nil {
		return nil, err
	}

	return fine, nil
}

// ListByUser retrieves all fines of a user, newest first.
func (s *FineService) ListByUser(ctx context.Context, userID string) ([]*domain.Fine, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	return s.fineRepo.GetByUserID(ctx, userID)
}

// Pay settles a pending fine through the payment provider. The fine is
// marked paid only after the provider reports success.
func (s *FineService) Pay(ctx context.Context, fineID, userID string) (*domain.Payment, error) {
	if fineID == "" {
		return nil, ErrInvalidFineID
	}

	fine, err := s.fineRepo.GetByID(ctx, fineID)
	if err != nil {
		return nil, err
	}

	if fine.UserID != userID {
		return nil, repository.ErrNotFound
	}

	if fine.Status != domain.FineStatusPending {
		return nil, ErrFineNotPending
	}

	payment, err := s.paymentService.ProcessFinePayment(ctx, ProcessFinePaymentRequest{
		FineID: fine.ID,
		Amount: fine.Amount,
	})
	if err != nil {
		return nil, err
	}

	if payment.Status == domain.PaymentStatusSuccess {
		if err := s.fineRepo.UpdateStatus(ctx, fine.ID, domain.FineStatusPaid); err != nil {
			return nil, err
		}
	}

	return payment, nil
}

// buildFine assembles a pending fine record. Fines are always created
// pending; payment or cancellation happens elsewhere.
func buildFine(userID string, fineType domain.FineType, amount float64, description string, now time.Time) *domain.Fine {
	return &domain.Fine{
		ID:          uuid.New().String(),
		UserID:      userID,
		Type:        fineType,
		Amount:      amount,
		Status:      domain.FineStatusPending,
		Description: description,
		DueDate:     now.Add(fineDueWindow),
		CreatedAt:   now,
	}
}
