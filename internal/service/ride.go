package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mobility/internal/domain"
	internalRedis "mobility/internal/redis"
	"mobility/internal/repository"
	"mobility/internal/repository/postgres"
)

// RideService drives the ride lifecycle: starting a ride from a booking,
// live tracking while in progress, and the finish transition with cost
// computation and return-to-station compliance.
type RideService struct {
	db               *sql.DB
	rideRepo         repository.RideRepository
	bookingRepo      repository.BookingRepository
	vehicleRepo      repository.VehicleRepository
	stationRepo      repository.StationRepository
	subscriptionRepo repository.SubscriptionRepository
	fineGate         FineGate
	costEngine       *CostEngine
	geofence         *GeofenceEvaluator
	tracking         *TrackingService
	cacheStore       *internalRedis.CacheStore

	stationReturnFineAmount float64
}

// NewRideService creates a new RideService.
func NewRideService(
	db *sql.DB,
	rideRepo repository.RideRepository,
	bookingRepo repository.BookingRepository,
	vehicleRepo repository.VehicleRepository,
	stationRepo repository.StationRepository,
	subscriptionRepo repository.SubscriptionRepository,
	fineGate FineGate,
	costEngine *CostEngine,
	geofence *GeofenceEvaluator,
	tracking *TrackingService,
	cacheStore *internalRedis.CacheStore,
	stationReturnFineAmount float64,
) *RideService {
	return &RideService{
		db:                      db,
		rideRepo:                rideRepo,
		bookingRepo:             bookingRepo,
		vehicleRepo:             vehicleRepo,
		stationRepo:             stationRepo,
		subscriptionRepo:        subscriptionRepo,
		fineGate:                fineGate,
		costEngine:              costEngine,
		geofence:                geofence,
		tracking:                tracking,
		cacheStore:              cacheStore,
		stationReturnFineAmount: stationReturnFineAmount,
	}
}

// SubscriptionInfo summarizes the rider's billing context at ride start.
type SubscriptionInfo struct {
	HasSubscription      bool
	FreeMinutesUsed      float64
	FreeMinutesRemaining float64
}

// StartRideResponse contains the result of starting a ride.
type StartRideResponse struct {
	Ride         *domain.Ride
	Subscription SubscriptionInfo
}

// StartRide consumes an active booking and creates an in-progress ride.
// The ride insert, vehicle transition to in_ride and booking transition to
// used commit as one unit. Tracking starts after commit.
func (s *RideService) StartRide(ctx context.Context, bookingID, userID string) (*StartRideResponse, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	fine, err := s.fineGate.HasUnpaidFine(ctx, userID)
	if err != nil {
		return nil, err
	}
	if fine != nil {
		return nil, &UnpaidFineError{Fine: fine}
	}

	now := time.Now()

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrBookingNotUsable
		}
		return nil, err
	}

	if booking.UserID != userID || !booking.IsUsable(now) {
		return nil, ErrBookingNotUsable
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, booking.VehicleID)
	if err != nil {
		return nil, err
	}

	// Absence of a subscription is not blocking; it only changes billing.
	sub, plan, err := s.subscriptionRepo.GetActiveByUserID(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var ride *domain.Ride
	ride, err = s.startRideTx(ctx,
		postgres.NewRideRepositoryWithTx(tx),
		postgres.NewVehicleRepositoryWithTx(tx),
		postgres.NewBookingRepositoryWithTx(tx),
		booking, vehicle, now,
	)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	if s.tracking != nil {
		s.tracking.Start(ride.ID)
	}
	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateAvailableVehicles(ctx)
	}

	return &StartRideResponse{
		Ride:         ride,
		Subscription: subscriptionInfo(sub, plan),
	}, nil
}

// startRideTx is the transactional body of StartRide. The booking and the
// vehicle are re-read under row locks: a concurrent start, cancel or sweep
// that committed first leaves the booking unusable and this attempt fails
// before writing anything.
func (s *RideService) startRideTx(
	ctx context.Context,
	rides repository.RideRepository,
	vehicles repository.VehicleRepository,
	bookings repository.BookingRepository,
	booking *domain.Booking,
	vehicle *domain.Vehicle,
	now time.Time,
) (*domain.Ride, error) {
	booking, err := bookings.GetByIDForUpdate(ctx, booking.ID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrBookingNotUsable
		}
		return nil, err
	}

	if !booking.IsUsable(now) {
		return nil, ErrBookingNotUsable
	}

	vehicle, err = vehicles.GetByIDForUpdate(ctx, booking.VehicleID)
	if err != nil {
		return nil, err
	}

	if vehicle.Status != domain.VehicleStatusReserved && vehicle.Status != domain.VehicleStatusAvailable {
		return nil, ErrVehicleNotAvailable
	}

	ride := &domain.Ride{
		ID:             uuid.New().String(),
		UserID:         booking.UserID,
		VehicleID:      vehicle.ID,
		BookingID:      booking.ID,
		Status:         domain.RideStatusInProgress,
		StartTime:      now,
		StartLat:       vehicle.CurrentLat,
		StartLng:       vehicle.CurrentLng,
		CurrentLat:     vehicle.CurrentLat,
		CurrentLng:     vehicle.CurrentLng,
		CurrentBattery: vehicle.BatteryLevel,
		CreatedAt:      now,
	}

	if err := rides.Create(ctx, ride); err != nil {
		return nil, err
	}

	if err := vehicles.UpdateStatus(ctx, vehicle.ID, domain.VehicleStatusInRide); err != nil {
		return nil, err
	}

	if err := bookings.UpdateStatus(ctx, booking.ID, domain.BookingStatusUsed); err != nil {
		return nil, err
	}

	return ride, nil
}

// FinishRideResponse contains the result of finishing a ride. Every finish
// either verifies the return or records a violation; there is no third
// outcome.
type FinishRideResponse struct {
	Ride             *domain.Ride
	Cost             CostBreakdown
	ReturnVerified   bool
	ViolationDetails string
	Fine             *domain.Fine
}

// FinishRide completes an in-progress ride: it stamps the end time,
// computes the total cost with free-minute offsetting, releases the
// vehicle, verifies return-to-station compliance and issues a fine on
// violation. All of it commits as one transaction, so a crash cannot leave
// a completed ride with an unreleased vehicle or a half-issued fine.
func (s *RideService) FinishRide(ctx context.Context, rideID, userID string) (*FinishRideResponse, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrRideNotFound
		}
		return nil, err
	}

	if ride.UserID != userID {
		return nil, ErrRideNotFound
	}

	if ride.Status != domain.RideStatusInProgress {
		return nil, ErrRideNotInProgress
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, ride.VehicleID)
	if err != nil {
		return nil, err
	}

	sub, plan, err := s.subscriptionRepo.GetActiveByUserID(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}

	now := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var result *FinishRideResponse
	result, err = s.finishRideTx(ctx,
		postgres.NewRideRepositoryWithTx(tx),
		postgres.NewVehicleRepositoryWithTx(tx),
		postgres.NewUserRepositoryWithTx(tx),
		postgres.NewSubscriptionRepositoryWithTx(tx),
		postgres.NewFineRepositoryWithTx(tx),
		postgres.NewStationRepositoryWithTx(tx),
		ride, vehicle, sub, plan, now,
	)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	// Tracking stops exactly once, after the terminal state is durable.
	if s.tracking != nil {
		s.tracking.Stop(ride.ID)
	}
	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateAvailableVehicles(ctx)
	}

	return result, nil
}

// finishRideTx is the transactional body of FinishRide. The ride is
// re-read under a row lock and the in_progress check repeated, so two
// concurrent finishes serialize and the loser fails without charging,
// fining or stamping the cooldown a second time.
func (s *RideService) finishRideTx(
	ctx context.Context,
	rides repository.RideRepository,
	vehicles repository.VehicleRepository,
	users repository.UserRepository,
	subscriptions repository.SubscriptionRepository,
	fines repository.FineRepository,
	stations repository.StationRepository,
	ride *domain.Ride,
	vehicle *domain.Vehicle,
	sub *domain.Subscription,
	plan *domain.TariffPlan,
	now time.Time,
) (*FinishRideResponse, error) {
	ride, err := rides.GetByIDForUpdate(ctx, ride.ID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrRideNotFound
		}
		return nil, err
	}

	if ride.Status != domain.RideStatusInProgress {
		return nil, ErrRideNotInProgress
	}

	cost := s.costEngine.Compute(ride.StartTime, now, vehicle.PricePerMinute, sub, plan)

	if sub != nil && cost.FreeMinutesUsed > 0 {
		if err := subscriptions.IncrementUsedMinutes(ctx, sub.ID, cost.FreeMinutesUsed); err != nil {
			return nil, err
		}
	}

	endLat, endLng := effectiveEndPosition(ride, vehicle)

	ride.Status = domain.RideStatusCompleted
	ride.EndTime = now
	ride.EndLat = endLat
	ride.EndLng = endLng
	ride.TotalCost = cost.Total

	if err := rides.Update(ctx, ride); err != nil {
		return nil, err
	}

	if err := vehicles.UpdateStatus(ctx, vehicle.ID, domain.VehicleStatusAvailable); err != nil {
		return nil, err
	}

	if err := users.SetLastBookingEnded(ctx, ride.UserID, now); err != nil {
		return nil, err
	}

	activeStations, err := stations.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	check := s.geofence.VerifyReturn(endLat, endLng, activeStations)
	if check.Verified {
		return &FinishRideResponse{
			Ride:           ride,
			Cost:           cost,
			ReturnVerified: true,
		}, nil
	}

	details := violationDetails(check)
	fine := buildFine(ride.UserID, domain.FineTypeStationReturnViolation, s.stationReturnFineAmount, details, now)
	if err := fines.Create(ctx, fine); err != nil {
		return nil, err
	}

	return &FinishRideResponse{
		Ride:             ride,
		Cost:             cost,
		ReturnVerified:   false,
		ViolationDetails: details,
		Fine:             fine,
	}, nil
}

// GetRide retrieves a ride owned by the user.
func (s *RideService) GetRide(ctx context.Context, rideID, userID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.UserID != userID {
		return nil, repository.ErrNotFound
	}

	return ride, nil
}

// effectiveEndPosition picks the coordinates used for return verification:
// the ride's own position if tracking recorded one, else the vehicle's.
func effectiveEndPosition(ride *domain.Ride, vehicle *domain.Vehicle) (*float64, *float64) {
	if ride.EndLat != nil && ride.EndLng != nil {
		return ride.EndLat, ride.EndLng
	}
	if ride.CurrentLat != nil && ride.CurrentLng != nil {
		return ride.CurrentLat, ride.CurrentLng
	}
	return vehicle.CurrentLat, vehicle.CurrentLng
}

// violationDetails builds the human-readable description stored on the fine.
func violationDetails(check ReturnCheck) string {
	if check.NearestDistanceMeters < 0 {
		return "Vehicle was not returned to a station: no end location could be determined"
	}
	return fmt.Sprintf("Vehicle was left %.0f meters away from the nearest station", check.NearestDistanceMeters)
}

func subscriptionInfo(sub *domain.Subscription, plan *domain.TariffPlan) SubscriptionInfo {
	if sub == nil || plan == nil {
		return SubscriptionInfo{}
	}

	remaining := plan.FreeMinutes - sub.UsedMinutes
	if remaining < 0 {
		remaining = 0
	}

	return SubscriptionInfo{
		HasSubscription:      true,
		FreeMinutesUsed:      sub.UsedMinutes,
		FreeMinutesRemaining: remaining,
	}
}
