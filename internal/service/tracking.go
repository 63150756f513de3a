package service

import (
	"context"
	"log"
	"sync"
	"time"

	"mobility/internal/domain"
	internalRedis "mobility/internal/redis"
	"mobility/internal/repository"
)

// TrackingService runs one supervised tracking loop per in-progress ride.
// Each loop periodically re-reads the vehicle's position and battery,
// recomputes the running cost without committing a charge, and publishes a
// snapshot for live display. A loop is registered at ride start and
// cancelled exactly once: by Stop at ride finish, or by itself when the
// ride is gone or no longer in progress.
type TrackingService struct {
	rideRepo    repository.RideRepository
	vehicleRepo repository.VehicleRepository
	costEngine  *CostEngine
	publisher   internalRedis.TrackPublisherInterface
	interval    time.Duration

	mu   sync.Mutex
	jobs map[string]context.CancelFunc
	wg   sync.WaitGroup
}

// NewTrackingService creates a new TrackingService.
func NewTrackingService(
	rideRepo repository.RideRepository,
	vehicleRepo repository.VehicleRepository,
	costEngine *CostEngine,
	publisher internalRedis.TrackPublisherInterface,
	interval time.Duration,
) *TrackingService {
	return &TrackingService{
		rideRepo:    rideRepo,
		vehicleRepo: vehicleRepo,
		costEngine:  costEngine,
		publisher:   publisher,
		interval:    interval,
		jobs:        make(map[string]context.CancelFunc),
	}
}

// Start registers a tracking loop for the ride. Starting an already
// tracked ride is a no-op.
func (s *TrackingService) Start(rideID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[rideID]; ok {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.jobs[rideID] = cancel

	s.wg.Add(1)
	go s.run(ctx, rideID)
}

// Stop cancels the tracking loop for the ride. Safe to call repeatedly and
// for rides that were never tracked.
func (s *TrackingService) Stop(rideID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, ok := s.jobs[rideID]; ok {
		cancel()
		delete(s.jobs, rideID)
	}
}

// IsTracking reports whether a loop is registered for the ride.
func (s *TrackingService) IsTracking(rideID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.jobs[rideID]
	return ok
}

// Shutdown cancels all tracking loops and waits for them to exit.
func (s *TrackingService) Shutdown() {
	s.mu.Lock()
	for rideID, cancel := range s.jobs {
		cancel()
		delete(s.jobs, rideID)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *TrackingService) run(ctx context.Context, rideID string) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.track(ctx, rideID) {
				s.Stop(rideID)
				return
			}
		}
	}
}

// track performs one tracking tick. It returns false when the loop should
// terminate because the ride is gone or no longer in progress.
func (s *TrackingService) track(ctx context.Context, rideID string) bool {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		if err == repository.ErrNotFound {
			log.Printf("ride %s not found, stopping tracking", rideID)
			return false
		}
		// Transient storage error: keep the loop alive for the next tick.
		log.Printf("tracking ride %s: %v", rideID, err)
		return true
	}

	if ride.Status != domain.RideStatusInProgress {
		return false
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, ride.VehicleID)
	if err != nil {
		log.Printf("tracking ride %s: %v", rideID, err)
		return true
	}

	duration := time.Since(ride.StartTime).Minutes()
	runningCost := s.costEngine.Estimate(ride.StartTime, time.Now(), vehicle.PricePerMinute)

	// The position write is guarded on in_progress status. A tick whose
	// read landed before a concurrent finish committed must not touch the
	// completed row.
	if err := s.rideRepo.UpdatePosition(ctx, rideID, vehicle.CurrentLat, vehicle.CurrentLng, vehicle.BatteryLevel); err != nil {
		if err == repository.ErrNotFound {
			return false
		}
		log.Printf("tracking ride %s: %v", rideID, err)
		return true
	}

	if s.publisher != nil {
		snapshot := internalRedis.RideSnapshot{
			RideID:          rideID,
			Lat:             vehicle.CurrentLat,
			Lng:             vehicle.CurrentLng,
			BatteryLevel:    vehicle.BatteryLevel,
			DurationMinutes: duration,
			RunningCost:     runningCost,
		}
		if err := s.publisher.Publish(ctx, snapshot); err != nil {
			log.Printf("publishing snapshot for ride %s: %v", rideID, err)
		}
	}

	return true
}
