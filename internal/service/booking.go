package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"mobility/internal/domain"
	internalRedis "mobility/internal/redis"
	"mobility/internal/repository"
	"mobility/internal/repository/postgres"
)

// BookingService creates and cancels vehicle reservations. It owns the
// vehicle status transitions available ⇄ reserved.
type BookingService struct {
	db          *sql.DB
	userRepo    repository.UserRepository
	vehicleRepo repository.VehicleRepository
	bookingRepo repository.BookingRepository
	fineGate    FineGate
	cacheStore  *internalRedis.CacheStore

	reservationWindow time.Duration
	cooldown          time.Duration
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	db *sql.DB,
	userRepo repository.UserRepository,
	vehicleRepo repository.VehicleRepository,
	bookingRepo repository.BookingRepository,
	fineGate FineGate,
	cacheStore *internalRedis.CacheStore,
	reservationWindow time.Duration,
	cooldown time.Duration,
) *BookingService {
	return &BookingService{
		db:                db,
		userRepo:          userRepo,
		vehicleRepo:       vehicleRepo,
		bookingRepo:       bookingRepo,
		fineGate:          fineGate,
		cacheStore:        cacheStore,
		reservationWindow: reservationWindow,
		cooldown:          cooldown,
	}
}

// CreateBooking reserves a vehicle for the user. The vehicle availability
// check, the vehicle status write and the booking insert run in one
// transaction under a row lock, so two concurrent attempts for the same
// vehicle cannot both succeed.
func (s *BookingService) CreateBooking(ctx context.Context, userID, vehicleID string) (*domain.Booking, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}

	now := time.Now()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fine, err := s.fineGate.HasUnpaidFine(ctx, userID)
	if err != nil {
		return nil, err
	}
	if fine != nil {
		return nil, &UnpaidFineError{Fine: fine}
	}

	if !user.LastBookingEndedAt.IsZero() && now.Sub(user.LastBookingEndedAt) < s.cooldown {
		return nil, ErrCooldownActive
	}

	active, err := s.bookingRepo.GetActiveByUserID(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrActiveBookingExists
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

	var booking *domain.Booking
	booking, err = s.createBookingTx(ctx,
		postgres.NewVehicleRepositoryWithTx(tx),
		postgres.NewBookingRepositoryWithTx(tx),
		userID, vehicleID, now,
	)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateAvailableVehicles(ctx)
	}

	return booking, nil
}

// createBookingTx is the transactional body of CreateBooking. The vehicle
// status is re-validated under the row lock: a concurrent reservation that
// committed first leaves the vehicle reserved and this attempt fails.
func (s *BookingService) createBookingTx(
	ctx context.Context,
	vehicles repository.VehicleRepository,
	bookings repository.BookingRepository,
	userID, vehicleID string,
	now time.Time,
) (*domain.Booking, error) {
	vehicle, err := vehicles.GetByIDForUpdate(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	if vehicle.Status != domain.VehicleStatusAvailable {
		return nil, ErrVehicleNotAvailable
	}

	if err := vehicles.UpdateStatus(ctx, vehicle.ID, domain.VehicleStatusReserved); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:        uuid.New().String(),
		UserID:    userID,
		VehicleID: vehicle.ID,
		Status:    domain.BookingStatusActive,
		StartTime: now,
		EndTime:   now.Add(s.reservationWindow),
		CreatedAt: now,
	}

	if err := bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// CancelBooking cancels the user's active booking and releases the vehicle.
// Cancelling starts the same cooldown as finishing a ride.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		return nil, repository.ErrNotFound
	}

	if booking.Status != domain.BookingStatusActive {
		return nil, ErrBookingNotActive
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

	err = s.cancelBookingTx(ctx,
		postgres.NewBookingRepositoryWithTx(tx),
		postgres.NewVehicleRepositoryWithTx(tx),
		postgres.NewUserRepositoryWithTx(tx),
		booking, now,
	)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatusCancelled

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateAvailableVehicles(ctx)
	}

	return booking, nil
}

// cancelBookingTx is the transactional body of CancelBooking. The booking
// is re-read under a row lock: a ride start that consumed it first leaves
// it used, and the cancel fails instead of releasing a vehicle mid-ride.
func (s *BookingService) cancelBookingTx(
	ctx context.Context,
	bookings repository.BookingRepository,
	vehicles repository.VehicleRepository,
	users repository.UserRepository,
	booking *domain.Booking,
	now time.Time,
) error {
	booking, err := bookings.GetByIDForUpdate(ctx, booking.ID)
	if err != nil {
		return err
	}

	if booking.Status != domain.BookingStatusActive {
		return ErrBookingNotActive
	}

	if err := bookings.UpdateStatus(ctx, booking.ID, domain.BookingStatusCancelled); err != nil {
		return err
	}

	if err := vehicles.UpdateStatus(ctx, booking.VehicleID, domain.VehicleStatusAvailable); err != nil {
		return err
	}

	return users.SetLastBookingEnded(ctx, booking.UserID, now)
}

// CheckBooking reports whether a booking is still usable for starting a
// ride. Read-only; clients call it before POST /rides/start.
func (s *BookingService) CheckBooking(ctx context.Context, bookingID, userID string) (*domain.Booking, bool, error) {
	if bookingID == "" {
		return nil, false, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, false, err
	}

	if booking.UserID != userID {
		return nil, false, repository.ErrNotFound
	}

	return booking, booking.IsUsable(time.Now()), nil
}
