package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"mobility/internal/domain"
	"mobility/internal/service"
)

// ──────────────────────────────────────────────
// 3. FINE GATE AND FINE PAYMENT
// ──────────────────────────────────────────────

func TestFineGate_PendingFineBlocks(t *testing.T) {
	t.Parallel()

	fineRepo := NewMockFineRepository()
	fineRepo.AddFine(&domain.Fine{
		ID:     "fine-1",
		UserID: "user-1",
		Type:   domain.FineTypeStationReturnViolation,
		Amount: 1000,
		Status: domain.FineStatusPending,
	})

	fineService := service.NewFineService(fineRepo, nil)

	fine, err := fineService.HasUnpaidFine(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fine == nil {
		t.Fatal("expected pending fine to block")
	}
	if fine.ID != "fine-1" {
		t.Errorf("expected fine-1, got %s", fine.ID)
	}
}

func TestFineGate_SettledFinesDoNotBlock(t *testing.T) {
	t.Parallel()

	fineRepo := NewMockFineRepository()
	fineRepo.AddFine(&domain.Fine{
		ID:     "fine-1",
		UserID: "user-1",
		Status: domain.FineStatusPaid,
	})
	fineRepo.AddFine(&domain.Fine{
		ID:     "fine-2",
		UserID: "user-1",
		Status: domain.FineStatusCancelled,
	})

	fineService := service.NewFineService(fineRepo, nil)

	fine, err := fineService.HasUnpaidFine(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fine != nil {
		t.Errorf("paid and cancelled fines must not block, got %s", fine.ID)
	}
}

func TestFinePayment_SuccessMarksFinePaid(t *testing.T) {
	t.Parallel()

	fineRepo := NewMockFineRepository()
	fineRepo.AddFine(&domain.Fine{
		ID:     "fine-1",
		UserID: "user-1",
		Amount: 1000,
		Status: domain.FineStatusPending,
	})

	paymentRepo := NewMockPaymentRepository()
	psp := NewMockPSP()
	paymentService := service.NewPaymentService(paymentRepo, psp)
	fineService := service.NewFineService(fineRepo, paymentService)

	payment, err := fineService.Pay(context.Background(), "fine-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.Status != domain.PaymentStatusSuccess {
		t.Errorf("expected payment success, got %s", payment.Status)
	}
	if payment.Amount != 1000 {
		t.Errorf("expected payment amount 1000, got %f", payment.Amount)
	}

	stored := fineRepo.GetFine("fine-1")
	if stored.Status != domain.FineStatusPaid {
		t.Errorf("expected fine marked paid, got %s", stored.Status)
	}
}

func TestFinePayment_DeclinedChargeKeepsFinePending(t *testing.T) {
	t.Parallel()

	fineRepo := NewMockFineRepository()
	fineRepo.AddFine(&domain.Fine{
		ID:     "fine-1",
		UserID: "user-1",
		Amount: 1000,
		Status: domain.FineStatusPending,
	})

	paymentRepo := NewMockPaymentRepository()
	psp := NewMockPSP()
	psp.SetFailure(true, nil)
	paymentService := service.NewPaymentService(paymentRepo, psp)
	fineService := service.NewFineService(fineRepo, paymentService)

	payment, err := fineService.Pay(context.Background(), "fine-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.Status != domain.PaymentStatusFailed {
		t.Errorf("expected failed payment, got %s", payment.Status)
	}

	stored := fineRepo.GetFine("fine-1")
	if stored.Status != domain.FineStatusPending {
		t.Errorf("declined charge must leave fine pending, got %s", stored.Status)
	}
}

func TestFinePayment_AlreadyPaidFineRejected(t *testing.T) {
	t.Parallel()

	fineRepo := NewMockFineRepository()
	fineRepo.AddFine(&domain.Fine{
		ID:     "fine-1",
		UserID: "user-1",
		Amount: 1000,
		Status: domain.FineStatusPaid,
	})

	paymentRepo := NewMockPaymentRepository()
	paymentService := service.NewPaymentService(paymentRepo, NewMockPSP())
	fineService := service.NewFineService(fineRepo, paymentService)

	_, err := fineService.Pay(context.Background(), "fine-1", "user-1")
	if !errors.Is(err, service.ErrFineNotPending) {
		t.Errorf("expected ErrFineNotPending, got %v", err)
	}
}

func TestFinePayment_RepeatAttemptIsIdempotent(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	paymentService := service.NewPaymentService(paymentRepo, NewMockPSP())

	first, err := paymentService.ProcessFinePayment(context.Background(), service.ProcessFinePaymentRequest{
		FineID: "fine-1",
		Amount: 1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := paymentService.ProcessFinePayment(context.Background(), service.ProcessFinePaymentRequest{
		FineID: "fine-1",
		Amount: 1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("expected the same payment on retry, got %s and %s", first.ID, second.ID)
	}
	if paymentRepo.CountPayments("fine-payment:fine-1") != 1 {
		t.Error("expected exactly one payment record for the fine")
	}
}

func TestFineIssue_CreatesPendingFineWithDueDate(t *testing.T) {
	t.Parallel()

	fineRepo := NewMockFineRepository()
	fineService := service.NewFineService(fineRepo, nil)

	before := time.Now()
	fine, err := fineService.Issue(context.Background(), "user-1",
		domain.FineTypeVehicleDamage, 500, "broken mirror")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fine.Status != domain.FineStatusPending {
		t.Errorf("expected pending fine, got %s", fine.Status)
	}
	if fine.DueDate.Before(before.Add(13 * 24 * time.Hour)) {
		t.Errorf("expected due date about two weeks out, got %s", fine.DueDate)
	}
	if fineRepo.GetFine(fine.ID) == nil {
		t.Error("fine not persisted")
	}
}
