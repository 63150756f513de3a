package tests

import (
	"sync/atomic"
	"testing"
	"time"

	"mobility/internal/domain"
	"mobility/internal/service"
)

// ──────────────────────────────────────────────
// 4. RIDE TRACKING LOOPS
// ──────────────────────────────────────────────

func newTestTracking(rideRepo *MockRideRepository, vehicleRepo *MockVehicleRepository, publisher *MockTrackPublisher) *service.TrackingService {
	return service.NewTrackingService(rideRepo, vehicleRepo, service.NewCostEngine(), publisher, 20*time.Millisecond)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestTracking_PublishesSnapshotsWhileInProgress(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	vehicleRepo := NewMockVehicleRepository()
	publisher := NewMockTrackPublisher()

	vehicleRepo.AddVehicle(&domain.Vehicle{
		ID:             "vehicle-1",
		Status:         domain.VehicleStatusInRide,
		PricePerMinute: 10,
		BatteryLevel:   80,
		CurrentLat:     f64(55.7558),
		CurrentLng:     f64(37.6173),
	})
	rideRepo.AddRide(&domain.Ride{
		ID:        "ride-1",
		UserID:    "user-1",
		VehicleID: "vehicle-1",
		Status:    domain.RideStatusInProgress,
		StartTime: time.Now().Add(-time.Minute),
	})

	tracking := newTestTracking(rideRepo, vehicleRepo, publisher)
	defer tracking.Shutdown()

	tracking.Start("ride-1")

	if !waitFor(t, time.Second, func() bool {
		return atomic.LoadInt32(&publisher.PublishCallCount) >= 2
	}) {
		t.Fatal("expected at least two snapshots published")
	}

	snapshots := publisher.Snapshots()
	last := snapshots[len(snapshots)-1]
	if last.RideID != "ride-1" {
		t.Errorf("expected snapshot for ride-1, got %s", last.RideID)
	}
	if last.BatteryLevel != 80 {
		t.Errorf("expected battery 80, got %d", last.BatteryLevel)
	}
	if last.RunningCost <= 0 {
		t.Errorf("expected positive running cost, got %f", last.RunningCost)
	}

	// The loop also mirrors the vehicle position onto the ride.
	if !waitFor(t, time.Second, func() bool {
		ride := rideRepo.GetRide("ride-1")
		return ride.CurrentLat != nil && *ride.CurrentLat == 55.7558
	}) {
		t.Error("expected ride position refreshed from vehicle")
	}
}

func TestTracking_StartIsIdempotent(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	vehicleRepo := NewMockVehicleRepository()

	rideRepo.AddRide(&domain.Ride{
		ID:        "ride-1",
		Status:    domain.RideStatusInProgress,
		StartTime: time.Now(),
	})

	tracking := newTestTracking(rideRepo, vehicleRepo, NewMockTrackPublisher())
	defer tracking.Shutdown()

	tracking.Start("ride-1")
	tracking.Start("ride-1")

	if !tracking.IsTracking("ride-1") {
		t.Error("expected ride to be tracked")
	}

	tracking.Stop("ride-1")

	if tracking.IsTracking("ride-1") {
		t.Error("expected tracking stopped")
	}
}

func TestTracking_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	tracking := newTestTracking(NewMockRideRepository(), NewMockVehicleRepository(), NewMockTrackPublisher())
	defer tracking.Shutdown()

	// Stopping a ride that was never tracked must not panic.
	tracking.Stop("ride-unknown")

	tracking.Start("ride-1")
	tracking.Stop("ride-1")
	tracking.Stop("ride-1")

	if tracking.IsTracking("ride-1") {
		t.Error("expected tracking stopped")
	}
}

func TestTracking_SelfStopsWhenRideNoLongerInProgress(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	rideRepo.AddRide(&domain.Ride{
		ID:        "ride-1",
		Status:    domain.RideStatusCompleted,
		StartTime: time.Now().Add(-time.Minute),
	})

	tracking := newTestTracking(rideRepo, NewMockVehicleRepository(), NewMockTrackPublisher())
	defer tracking.Shutdown()

	tracking.Start("ride-1")

	if !waitFor(t, time.Second, func() bool {
		return !tracking.IsTracking("ride-1")
	}) {
		t.Error("expected loop to terminate itself on completed ride")
	}
}

func TestTracking_TickCannotReopenFinishedRide(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	vehicleRepo := NewMockVehicleRepository()
	publisher := NewMockTrackPublisher()

	vehicleRepo.AddVehicle(&domain.Vehicle{
		ID:             "vehicle-1",
		Status:         domain.VehicleStatusInRide,
		PricePerMinute: 10,
		BatteryLevel:   60,
		CurrentLat:     f64(55.7558),
		CurrentLng:     f64(37.6173),
	})
	rideRepo.AddRide(&domain.Ride{
		ID:        "ride-1",
		UserID:    "user-1",
		VehicleID: "vehicle-1",
		Status:    domain.RideStatusInProgress,
		StartTime: time.Now().Add(-10 * time.Minute),
	})

	tracking := newTestTracking(rideRepo, vehicleRepo, publisher)
	defer tracking.Shutdown()

	tracking.Start("ride-1")

	if !waitFor(t, time.Second, func() bool {
		return atomic.LoadInt32(&publisher.PublishCallCount) >= 1
	}) {
		t.Fatal("expected tracking to tick at least once")
	}

	// The ride finishes while the loop is mid-flight. Any tick that read
	// the ride before this point must not write the charge away.
	finishedAt := time.Now()
	rideRepo.AddRide(&domain.Ride{
		ID:        "ride-1",
		UserID:    "user-1",
		VehicleID: "vehicle-1",
		Status:    domain.RideStatusCompleted,
		StartTime: time.Now().Add(-10 * time.Minute),
		EndTime:   finishedAt,
		TotalCost: 100,
	})

	if !waitFor(t, time.Second, func() bool {
		return !tracking.IsTracking("ride-1")
	}) {
		t.Fatal("expected loop to terminate after the ride completed")
	}

	ride := rideRepo.GetRide("ride-1")
	if ride.Status != domain.RideStatusCompleted {
		t.Errorf("expected ride to stay completed, got %s", ride.Status)
	}
	if ride.TotalCost != 100 {
		t.Errorf("expected total cost preserved at 100, got %f", ride.TotalCost)
	}
	if !ride.EndTime.Equal(finishedAt) {
		t.Error("expected end time preserved")
	}
}

func TestTracking_SelfStopsWhenRideDeleted(t *testing.T) {
	t.Parallel()

	tracking := newTestTracking(NewMockRideRepository(), NewMockVehicleRepository(), NewMockTrackPublisher())
	defer tracking.Shutdown()

	tracking.Start("ride-missing")

	if !waitFor(t, time.Second, func() bool {
		return !tracking.IsTracking("ride-missing")
	}) {
		t.Error("expected loop to terminate itself on missing ride")
	}
}

func TestTracking_ShutdownStopsAllLoops(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	for _, id := range []string{"ride-1", "ride-2", "ride-3"} {
		rideRepo.AddRide(&domain.Ride{
			ID:        id,
			Status:    domain.RideStatusInProgress,
			StartTime: time.Now(),
		})
	}

	tracking := newTestTracking(rideRepo, NewMockVehicleRepository(), NewMockTrackPublisher())

	tracking.Start("ride-1")
	tracking.Start("ride-2")
	tracking.Start("ride-3")

	tracking.Shutdown()

	for _, id := range []string{"ride-1", "ride-2", "ride-3"} {
		if tracking.IsTracking(id) {
			t.Errorf("expected %s untracked after shutdown", id)
		}
	}
}
