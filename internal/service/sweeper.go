package service

import (
	"context"
	"database/sql"
	"log"
	"time"

	"mobility/internal/domain"
	internalRedis "mobility/internal/redis"
	"mobility/internal/repository"
	"mobility/internal/repository/postgres"
)

// ExpirationSweeper is the background process that expires stale bookings.
// Each pass runs in one transaction: either every stale booking in the
// batch is expired and its vehicle released, or none are and the pass is
// retried on the next tick. A missed tick is tolerated; partial expiry
// within a pass is not.
type ExpirationSweeper struct {
	db         *sql.DB
	lockStore  internalRedis.LockStoreInterface
	cacheStore *internalRedis.CacheStore
	interval   time.Duration

	stop chan struct{}
	done chan struct{}
}

// NewExpirationSweeper creates a new ExpirationSweeper.
func NewExpirationSweeper(
	db *sql.DB,
	lockStore internalRedis.LockStoreInterface,
	cacheStore *internalRedis.CacheStore,
	interval time.Duration,
) *ExpirationSweeper {
	return &ExpirationSweeper{
		db:         db,
		lockStore:  lockStore,
		cacheStore: cacheStore,
		interval:   interval,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start launches the sweep loop in its own goroutine.
func (s *ExpirationSweeper) Start() {
	go s.run()
	log.Printf("booking expiration sweeper started (interval %s)", s.interval)
}

// Stop terminates the sweep loop and waits for the current pass to finish.
func (s *ExpirationSweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *ExpirationSweeper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if err := s.sweep(context.Background()); err != nil {
				// Log and retry on the next tick.
				log.Printf("booking sweep failed: %v", err)
			}
		}
	}
}

// sweep runs one expiration pass.
func (s *ExpirationSweeper) sweep(ctx context.Context) error {
	// Only one process sweeps at a time; a tick that loses the lock is
	// simply skipped.
	if s.lockStore != nil {
		acquired, err := s.lockStore.AcquireSweepLock(ctx, s.interval)
		if err != nil {
			return err
		}
		if !acquired {
			return nil
		}
		defer func() { _ = s.lockStore.ReleaseSweepLock(ctx) }()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	expired, err := s.sweepBatch(ctx,
		postgres.NewBookingRepositoryWithTx(tx),
		postgres.NewRideRepositoryWithTx(tx),
		postgres.NewVehicleRepositoryWithTx(tx),
		time.Now(),
	)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if expired > 0 {
		log.Printf("expired %d stale bookings", expired)
		if s.cacheStore != nil {
			_ = s.cacheStore.InvalidateAvailableVehicles(ctx)
		}
	}

	return nil
}

// sweepBatch expires every active booking past its deadline that produced
// no ride, releasing the vehicle of each. A booking with any ride is left
// alone: the ride consumed it and expiry no longer applies.
func (s *ExpirationSweeper) sweepBatch(
	ctx context.Context,
	bookings repository.BookingRepository,
	rides repository.RideRepository,
	vehicles repository.VehicleRepository,
	now time.Time,
) (int, error) {
	stale, err := bookings.GetExpiredActive(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, booking := range stale {
		rideCount, err := rides.CountByBookingID(ctx, booking.ID)
		if err != nil {
			return 0, err
		}

		if rideCount > 0 {
			continue
		}

		if err := bookings.UpdateStatus(ctx, booking.ID, domain.BookingStatusExpired); err != nil {
			return 0, err
		}

		if err := vehicles.UpdateStatus(ctx, booking.VehicleID, domain.VehicleStatusAvailable); err != nil {
			return 0, err
		}

		expired++
	}

	return expired, nil
}
