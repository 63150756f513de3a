package service

import (
	"context"
	"testing"
	"time"

	"mobility/internal/domain"
	"mobility/internal/tests"
)

func TestSweepBatch_ExpiresStaleBookingsAndReleasesVehicles(t *testing.T) {
	t.Parallel()

	bookingRepo := tests.NewMockBookingRepository()
	rideRepo := tests.NewMockRideRepository()
	vehicleRepo := tests.NewMockVehicleRepository()

	now := time.Now()

	vehicleRepo.AddVehicle(&domain.Vehicle{ID: "vehicle-1", Status: domain.VehicleStatusReserved})
	vehicleRepo.AddVehicle(&domain.Vehicle{ID: "vehicle-2", Status: domain.VehicleStatusReserved})

	bookingRepo.AddBooking(&domain.Booking{
		ID:        "booking-stale-1",
		UserID:    "user-1",
		VehicleID: "vehicle-1",
		Status:    domain.BookingStatusActive,
		EndTime:   now.Add(-time.Minute),
	})
	bookingRepo.AddBooking(&domain.Booking{
		ID:        "booking-stale-2",
		UserID:    "user-2",
		VehicleID: "vehicle-2",
		Status:    domain.BookingStatusActive,
		EndTime:   now.Add(-2 * time.Minute),
	})

	sweeper := NewExpirationSweeper(nil, nil, nil, 30*time.Second)

	expired, err := sweeper.sweepBatch(context.Background(), bookingRepo, rideRepo, vehicleRepo, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if expired != 2 {
		t.Errorf("expected 2 expirations, got %d", expired)
	}
	for _, id := range []string{"booking-stale-1", "booking-stale-2"} {
		if bookingRepo.GetBooking(id).Status != domain.BookingStatusExpired {
			t.Errorf("expected %s expired", id)
		}
	}
	for _, id := range []string{"vehicle-1", "vehicle-2"} {
		if vehicleRepo.GetVehicle(id).Status != domain.VehicleStatusAvailable {
			t.Errorf("expected %s released", id)
		}
	}
}

func TestSweepBatch_BookingWithRideLeftAlone(t *testing.T) {
	t.Parallel()

	bookingRepo := tests.NewMockBookingRepository()
	rideRepo := tests.NewMockRideRepository()
	vehicleRepo := tests.NewMockVehicleRepository()

	now := time.Now()

	vehicleRepo.AddVehicle(&domain.Vehicle{ID: "vehicle-1", Status: domain.VehicleStatusInRide})
	bookingRepo.AddBooking(&domain.Booking{
		ID:        "booking-consumed",
		UserID:    "user-1",
		VehicleID: "vehicle-1",
		Status:    domain.BookingStatusActive,
		EndTime:   now.Add(-time.Minute),
	})
	rideRepo.AddRide(&domain.Ride{
		ID:        "ride-1",
		BookingID: "booking-consumed",
		Status:    domain.RideStatusInProgress,
	})

	sweeper := NewExpirationSweeper(nil, nil, nil, 30*time.Second)

	expired, err := sweeper.sweepBatch(context.Background(), bookingRepo, rideRepo, vehicleRepo, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if expired != 0 {
		t.Errorf("expected no expirations, got %d", expired)
	}
	if bookingRepo.GetBooking("booking-consumed").Status != domain.BookingStatusActive {
		t.Error("booking with a ride must not be expired")
	}
	if vehicleRepo.GetVehicle("vehicle-1").Status != domain.VehicleStatusInRide {
		t.Error("vehicle of a consumed booking must not be released")
	}
}

func TestSweepBatch_FreshBookingsUntouched(t *testing.T) {
	t.Parallel()

	bookingRepo := tests.NewMockBookingRepository()
	vehicleRepo := tests.NewMockVehicleRepository()

	now := time.Now()

	vehicleRepo.AddVehicle(&domain.Vehicle{ID: "vehicle-1", Status: domain.VehicleStatusReserved})
	bookingRepo.AddBooking(&domain.Booking{
		ID:        "booking-fresh",
		UserID:    "user-1",
		VehicleID: "vehicle-1",
		Status:    domain.BookingStatusActive,
		EndTime:   now.Add(10 * time.Minute),
	})

	sweeper := NewExpirationSweeper(nil, nil, nil, 30*time.Second)

	expired, err := sweeper.sweepBatch(context.Background(), bookingRepo, tests.NewMockRideRepository(), vehicleRepo, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if expired != 0 {
		t.Errorf("expected no expirations, got %d", expired)
	}
	if bookingRepo.GetBooking("booking-fresh").Status != domain.BookingStatusActive {
		t.Error("fresh booking must stay active")
	}
	if vehicleRepo.GetVehicle("vehicle-1").Status != domain.VehicleStatusReserved {
		t.Error("fresh booking's vehicle must stay reserved")
	}
}

func TestSweepBatch_TerminalStatusesIgnored(t *testing.T) {
	t.Parallel()

	bookingRepo := tests.NewMockBookingRepository()
	vehicleRepo := tests.NewMockVehicleRepository()

	now := time.Now()

	for i, status := range []domain.BookingStatus{
		domain.BookingStatusCancelled,
		domain.BookingStatusUsed,
		domain.BookingStatusExpired,
	} {
		bookingRepo.AddBooking(&domain.Booking{
			ID:      string(status) + "-booking",
			UserID:  "user-1",
			Status:  status,
			EndTime: now.Add(time.Duration(-i-1) * time.Minute),
		})
	}

	sweeper := NewExpirationSweeper(nil, nil, nil, 30*time.Second)

	expired, err := sweeper.sweepBatch(context.Background(), bookingRepo, tests.NewMockRideRepository(), vehicleRepo, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expired != 0 {
		t.Errorf("terminal bookings must not be re-expired, got %d", expired)
	}
}
