package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mobility/internal/domain"
	"mobility/internal/repository"
	"mobility/internal/tests"
)

func newTestBookingService(
	userRepo repository.UserRepository,
	vehicleRepo repository.VehicleRepository,
	bookingRepo repository.BookingRepository,
	fineGate FineGate,
) *BookingService {
	// db stays nil: these tests exercise the precondition checks and the
	// transactional bodies directly, never BeginTx.
	return NewBookingService(nil, userRepo, vehicleRepo, bookingRepo, fineGate,
		nil, 15*time.Minute, 5*time.Minute)
}

func TestCreateBooking_UnpaidFineBlocks(t *testing.T) {
	t.Parallel()

	userRepo := tests.NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "user-1"})

	fineRepo := tests.NewMockFineRepository()
	fineRepo.AddFine(&domain.Fine{
		ID:     "fine-1",
		UserID: "user-1",
		Amount: 1000,
		Status: domain.FineStatusPending,
	})

	svc := newTestBookingService(userRepo, tests.NewMockVehicleRepository(),
		tests.NewMockBookingRepository(), NewFineService(fineRepo, nil))

	_, err := svc.CreateBooking(context.Background(), "user-1", "vehicle-1")

	var unpaid *UnpaidFineError
	if !errors.As(err, &unpaid) {
		t.Fatalf("expected UnpaidFineError, got %v", err)
	}
	if unpaid.Fine.ID != "fine-1" {
		t.Errorf("expected blocking fine fine-1, got %s", unpaid.Fine.ID)
	}
}

func TestCreateBooking_CooldownBlocks(t *testing.T) {
	t.Parallel()

	userRepo := tests.NewMockUserRepository()
	userRepo.AddUser(&domain.User{
		ID:                 "user-1",
		LastBookingEndedAt: time.Now().Add(-time.Minute),
	})

	svc := newTestBookingService(userRepo, tests.NewMockVehicleRepository(),
		tests.NewMockBookingRepository(), NewFineService(tests.NewMockFineRepository(), nil))

	_, err := svc.CreateBooking(context.Background(), "user-1", "vehicle-1")
	if !errors.Is(err, ErrCooldownActive) {
		t.Errorf("expected ErrCooldownActive, got %v", err)
	}
}

func TestCreateBooking_ElapsedCooldownReachesVehicleCheck(t *testing.T) {
	t.Parallel()

	userRepo := tests.NewMockUserRepository()
	userRepo.AddUser(&domain.User{
		ID:                 "user-1",
		LastBookingEndedAt: time.Now().Add(-10 * time.Minute),
	})

	bookingRepo := tests.NewMockBookingRepository()
	vehicleRepo := tests.NewMockVehicleRepository()
	vehicleRepo.AddVehicle(&domain.Vehicle{
		ID:     "vehicle-1",
		Status: domain.VehicleStatusAvailable,
	})

	svc := newTestBookingService(userRepo, vehicleRepo, bookingRepo,
		NewFineService(tests.NewMockFineRepository(), nil))

	// The elapsed cooldown must not block; the transactional body proves
	// the flow got past every precondition.
	booking, err := svc.createBookingTx(context.Background(), vehicleRepo, bookingRepo,
		"user-1", "vehicle-1", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking == nil {
		t.Fatal("expected booking")
	}
}

func TestCreateBooking_ActiveBookingBlocks(t *testing.T) {
	t.Parallel()

	userRepo := tests.NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "user-1"})

	bookingRepo := tests.NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:      "booking-1",
		UserID:  "user-1",
		Status:  domain.BookingStatusActive,
		EndTime: time.Now().Add(10 * time.Minute),
	})

	svc := newTestBookingService(userRepo, tests.NewMockVehicleRepository(), bookingRepo,
		NewFineService(tests.NewMockFineRepository(), nil))

	_, err := svc.CreateBooking(context.Background(), "user-1", "vehicle-1")
	if !errors.Is(err, ErrActiveBookingExists) {
		t.Errorf("expected ErrActiveBookingExists, got %v", err)
	}
}

func TestCreateBookingTx_ReservesVehicle(t *testing.T) {
	t.Parallel()

	vehicleRepo := tests.NewMockVehicleRepository()
	vehicleRepo.AddVehicle(&domain.Vehicle{
		ID:     "vehicle-1",
		Status: domain.VehicleStatusAvailable,
	})
	bookingRepo := tests.NewMockBookingRepository()

	svc := newTestBookingService(tests.NewMockUserRepository(), vehicleRepo, bookingRepo,
		NewFineService(tests.NewMockFineRepository(), nil))

	now := time.Now()
	booking, err := svc.createBookingTx(context.Background(), vehicleRepo, bookingRepo,
		"user-1", "vehicle-1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != domain.BookingStatusActive {
		t.Errorf("expected active booking, got %s", booking.Status)
	}
	if !booking.EndTime.Equal(now.Add(15 * time.Minute)) {
		t.Errorf("expected reservation deadline 15 minutes out, got %s", booking.EndTime)
	}
	if vehicleRepo.GetVehicle("vehicle-1").Status != domain.VehicleStatusReserved {
		t.Error("expected vehicle reserved")
	}
	if bookingRepo.GetBooking(booking.ID) == nil {
		t.Error("booking not persisted")
	}
}

func TestCreateBookingTx_VehicleNotAvailable(t *testing.T) {
	t.Parallel()

	for _, status := range []domain.VehicleStatus{
		domain.VehicleStatusReserved,
		domain.VehicleStatusInRide,
		domain.VehicleStatusMaintenance,
		domain.VehicleStatusOutOfService,
	} {
		vehicleRepo := tests.NewMockVehicleRepository()
		vehicleRepo.AddVehicle(&domain.Vehicle{ID: "vehicle-1", Status: status})
		bookingRepo := tests.NewMockBookingRepository()

		svc := newTestBookingService(tests.NewMockUserRepository(), vehicleRepo, bookingRepo,
			NewFineService(tests.NewMockFineRepository(), nil))

		_, err := svc.createBookingTx(context.Background(), vehicleRepo, bookingRepo,
			"user-1", "vehicle-1", time.Now())
		if !errors.Is(err, ErrVehicleNotAvailable) {
			t.Errorf("status %s: expected ErrVehicleNotAvailable, got %v", status, err)
		}
		if bookingRepo.CountBookings() != 0 {
			t.Errorf("status %s: no booking must be created", status)
		}
	}
}

func TestCancelBookingTx_ReleasesVehicleAndStartsCooldown(t *testing.T) {
	t.Parallel()

	userRepo := tests.NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "user-1"})

	vehicleRepo := tests.NewMockVehicleRepository()
	vehicleRepo.AddVehicle(&domain.Vehicle{ID: "vehicle-1", Status: domain.VehicleStatusReserved})

	bookingRepo := tests.NewMockBookingRepository()
	booking := &domain.Booking{
		ID:        "booking-1",
		UserID:    "user-1",
		VehicleID: "vehicle-1",
		Status:    domain.BookingStatusActive,
		EndTime:   time.Now().Add(10 * time.Minute),
	}
	bookingRepo.AddBooking(booking)

	svc := newTestBookingService(userRepo, vehicleRepo, bookingRepo,
		NewFineService(tests.NewMockFineRepository(), nil))

	now := time.Now()
	if err := svc.cancelBookingTx(context.Background(), bookingRepo, vehicleRepo, userRepo, booking, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bookingRepo.GetBooking("booking-1").Status != domain.BookingStatusCancelled {
		t.Error("expected booking cancelled")
	}
	if vehicleRepo.GetVehicle("vehicle-1").Status != domain.VehicleStatusAvailable {
		t.Error("expected vehicle released")
	}
	if !userRepo.GetUser("user-1").LastBookingEndedAt.Equal(now) {
		t.Error("expected cooldown anchor stamped")
	}
}

func TestCancelBookingTx_ConsumedConcurrentlyNotCancelled(t *testing.T) {
	t.Parallel()

	userRepo := tests.NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "user-1"})

	// The vehicle is mid-ride: a start consumed the booking after the
	// cancel's precondition check read it as active.
	vehicleRepo := tests.NewMockVehicleRepository()
	vehicleRepo.AddVehicle(&domain.Vehicle{ID: "vehicle-1", Status: domain.VehicleStatusInRide})

	stale := &domain.Booking{
		ID:        "booking-1",
		UserID:    "user-1",
		VehicleID: "vehicle-1",
		Status:    domain.BookingStatusActive,
		EndTime:   time.Now().Add(10 * time.Minute),
	}
	bookingRepo := tests.NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:        "booking-1",
		UserID:    "user-1",
		VehicleID: "vehicle-1",
		Status:    domain.BookingStatusUsed,
		EndTime:   stale.EndTime,
	})

	svc := newTestBookingService(userRepo, vehicleRepo, bookingRepo,
		NewFineService(tests.NewMockFineRepository(), nil))

	err := svc.cancelBookingTx(context.Background(), bookingRepo, vehicleRepo, userRepo, stale, time.Now())
	if !errors.Is(err, ErrBookingNotActive) {
		t.Fatalf("expected ErrBookingNotActive, got %v", err)
	}

	if bookingRepo.GetBooking("booking-1").Status != domain.BookingStatusUsed {
		t.Error("expected booking to stay used")
	}
	if vehicleRepo.GetVehicle("vehicle-1").Status != domain.VehicleStatusInRide {
		t.Error("expected vehicle to stay mid-ride")
	}
	if userRepo.SetLastBookingEndedCallCount != 0 {
		t.Errorf("expected no cooldown stamp, got %d", userRepo.SetLastBookingEndedCallCount)
	}
}

func TestCancelBooking_OnlyActiveBookings(t *testing.T) {
	t.Parallel()

	bookingRepo := tests.NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:     "booking-1",
		UserID: "user-1",
		Status: domain.BookingStatusUsed,
	})

	svc := newTestBookingService(tests.NewMockUserRepository(), tests.NewMockVehicleRepository(),
		bookingRepo, NewFineService(tests.NewMockFineRepository(), nil))

	_, err := svc.CancelBooking(context.Background(), "booking-1", "user-1")
	if !errors.Is(err, ErrBookingNotActive) {
		t.Errorf("expected ErrBookingNotActive, got %v", err)
	}
}

func TestCancelBooking_ForeignBookingHidden(t *testing.T) {
	t.Parallel()

	bookingRepo := tests.NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:     "booking-1",
		UserID: "user-1",
		Status: domain.BookingStatusActive,
	})

	svc := newTestBookingService(tests.NewMockUserRepository(), tests.NewMockVehicleRepository(),
		bookingRepo, NewFineService(tests.NewMockFineRepository(), nil))

	_, err := svc.CancelBooking(context.Background(), "booking-1", "user-2")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign booking, got %v", err)
	}
}

func TestCheckBooking_ReportsUsability(t *testing.T) {
	t.Parallel()

	bookingRepo := tests.NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:      "booking-live",
		UserID:  "user-1",
		Status:  domain.BookingStatusActive,
		EndTime: time.Now().Add(5 * time.Minute),
	})
	bookingRepo.AddBooking(&domain.Booking{
		ID:      "booking-stale",
		UserID:  "user-1",
		Status:  domain.BookingStatusActive,
		EndTime: time.Now().Add(-time.Minute),
	})

	svc := newTestBookingService(tests.NewMockUserRepository(), tests.NewMockVehicleRepository(),
		bookingRepo, NewFineService(tests.NewMockFineRepository(), nil))

	_, canRide, err := svc.CheckBooking(context.Background(), "booking-live", "user-1")
	if err != nil || !canRide {
		t.Errorf("expected live booking usable, canRide=%v err=%v", canRide, err)
	}

	_, canRide, err = svc.CheckBooking(context.Background(), "booking-stale", "user-1")
	if err != nil || canRide {
		t.Errorf("expected stale booking unusable, canRide=%v err=%v", canRide, err)
	}
}
