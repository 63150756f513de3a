package tests

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"mobility/internal/domain"
	"mobility/internal/redis"
	"mobility/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	SetLastBookingEndedCallCount int32

	// Error injection
	SetLastBookingEndedError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) SetLastBookingEnded(ctx context.Context, id string, endedAt time.Time) error {
	atomic.AddInt32(&m.SetLastBookingEndedCallCount, 1)
	if m.SetLastBookingEndedError != nil {
		return m.SetLastBookingEndedError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.LastBookingEndedAt = endedAt
	return nil
}

// GetUser returns the stored user for test assertions.
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

// ──────────────────────────────────────────────
// MOCK VEHICLE REPOSITORY
// ──────────────────────────────────────────────

// MockVehicleRepository is a mock implementation of VehicleRepository.
type MockVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]*domain.Vehicle

	// Counters for verification
	GetByIDForUpdateCallCount int32
	UpdateStatusCallCount     int32

	// Error injection
	UpdateStatusError error
}

// NewMockVehicleRepository creates a new mock vehicle repository.
func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{
		vehicles: make(map[string]*domain.Vehicle),
	}
}

// AddVehicle adds a vehicle to the mock repository.
func (m *MockVehicleRepository) AddVehicle(vehicle *domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.ID] = vehicle
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.ID] = vehicle
	return nil
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *vehicle
	return &copy, nil
}

func (m *MockVehicleRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Vehicle, error) {
	atomic.AddInt32(&m.GetByIDForUpdateCallCount, 1)
	return m.GetByID(ctx, id)
}

func (m *MockVehicleRepository) GetAvailable(ctx context.Context) ([]*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		if v.Status == domain.VehicleStatusAvailable {
			copy := *v
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockVehicleRepository) UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return repository.ErrNotFound
	}
	vehicle.Status = status
	return nil
}

// GetVehicle returns the stored vehicle for test assertions.
func (m *MockVehicleRepository) GetVehicle(id string) *domain.Vehicle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vehicles[id]
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount           int32
	GetByIDForUpdateCallCount int32
	UpdateStatusCallCount     int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	atomic.AddInt32(&m.GetByIDForUpdateCallCount, 1)
	return m.GetByID(ctx, id)
}

func (m *MockBookingRepository) GetActiveByUserID(ctx context.Context, userID string, now time.Time) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.UserID == userID && b.Status == domain.BookingStatusActive && b.EndTime.After(now) {
			copy := *b
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockBookingRepository) GetExpiredActive(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.Status == domain.BookingStatusActive && !b.EndTime.After(now) {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	booking.Status = status
	return nil
}

// GetBooking returns the stored booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// CountBookings returns the number of stored bookings.
func (m *MockBookingRepository) CountBookings() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride

	// Counters for verification
	CreateCallCount           int32
	GetByIDForUpdateCallCount int32
	UpdateCallCount           int32
	UpdatePositionCallCount   int32

	// Error injection
	CreateError         error
	UpdateError         error
	UpdatePositionError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Ride, error) {
	atomic.AddInt32(&m.GetByIDForUpdateCallCount, 1)
	return m.GetByID(ctx, id)
}

// UpdatePosition mirrors the status guard of the real repository: the
// write only lands while the ride is in progress.
func (m *MockRideRepository) UpdatePosition(ctx context.Context, id string, lat, lng *float64, battery int) error {
	atomic.AddInt32(&m.UpdatePositionCallCount, 1)
	if m.UpdatePositionError != nil {
		return m.UpdatePositionError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok || ride.Status != domain.RideStatusInProgress {
		return repository.ErrNotFound
	}
	ride.CurrentLat = lat
	ride.CurrentLng = lng
	ride.CurrentBattery = battery
	return nil
}

func (m *MockRideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rides[ride.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *ride
	m.rides[ride.ID] = &copy
	return nil
}

func (m *MockRideRepository) CountByBookingID(ctx context.Context, bookingID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, r := range m.rides {
		if r.BookingID == bookingID {
			count++
		}
	}
	return count, nil
}

// GetRide returns the stored ride for test assertions.
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// CountRides returns the number of stored rides.
func (m *MockRideRepository) CountRides() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rides)
}

// ──────────────────────────────────────────────
// MOCK STATION REPOSITORY
// ──────────────────────────────────────────────

// MockStationRepository is a mock implementation of StationRepository.
type MockStationRepository struct {
	mu       sync.RWMutex
	stations map[string]*domain.Station
}

// NewMockStationRepository creates a new mock station repository.
func NewMockStationRepository() *MockStationRepository {
	return &MockStationRepository{
		stations: make(map[string]*domain.Station),
	}
}

// AddStation adds a station to the mock repository.
func (m *MockStationRepository) AddStation(station *domain.Station) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stations[station.ID] = station
}

func (m *MockStationRepository) Create(ctx context.Context, station *domain.Station) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stations[station.ID] = station
	return nil
}

func (m *MockStationRepository) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	station, ok := m.stations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *station
	return &copy, nil
}

func (m *MockStationRepository) GetActive(ctx context.Context) ([]*domain.Station, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Station, 0, len(m.stations))
	for _, s := range m.stations {
		if s.IsActive {
			copy := *s
			result = append(result, &copy)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK FINE REPOSITORY
// ──────────────────────────────────────────────

// MockFineRepository is a mock implementation of FineRepository.
type MockFineRepository struct {
	mu    sync.RWMutex
	fines map[string]*domain.Fine

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError error
}

// NewMockFineRepository creates a new mock fine repository.
func NewMockFineRepository() *MockFineRepository {
	return &MockFineRepository{
		fines: make(map[string]*domain.Fine),
	}
}

// AddFine adds a fine to the mock repository.
func (m *MockFineRepository) AddFine(fine *domain.Fine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fines[fine.ID] = fine
}

func (m *MockFineRepository) Create(ctx context.Context, fine *domain.Fine) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fines[fine.ID] = fine
	return nil
}

func (m *MockFineRepository) GetByID(ctx context.Context, id string) (*domain.Fine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fine, ok := m.fines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *fine
	return &copy, nil
}

func (m *MockFineRepository) GetPendingByUserID(ctx context.Context, userID string) (*domain.Fine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.fines {
		if f.UserID == userID && f.Status == domain.FineStatusPending {
			copy := *f
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockFineRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Fine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Fine
	for _, f := range m.fines {
		if f.UserID == userID {
			copy := *f
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockFineRepository) UpdateStatus(ctx context.Context, id string, status domain.FineStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	fine, ok := m.fines[id]
	if !ok {
		return repository.ErrNotFound
	}
	fine.Status = status
	return nil
}

// GetFine returns the stored fine for test assertions.
func (m *MockFineRepository) GetFine(id string) *domain.Fine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fines[id]
}

// FinesByType returns stored fines of the given type.
func (m *MockFineRepository) FinesByType(fineType domain.FineType) []*domain.Fine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Fine
	for _, f := range m.fines {
		if f.Type == fineType {
			copy := *f
			result = append(result, &copy)
		}
	}
	return result
}

// ──────────────────────────────────────────────
// MOCK SUBSCRIPTION REPOSITORY
// ──────────────────────────────────────────────

// MockSubscriptionRepository is a mock implementation of
// SubscriptionRepository.
type MockSubscriptionRepository struct {
	mu    sync.RWMutex
	subs  map[string]*domain.Subscription
	plans map[string]*domain.TariffPlan

	// Counters for verification
	IncrementUsedMinutesCallCount int32

	// Error injection
	IncrementUsedMinutesError error
}

// NewMockSubscriptionRepository creates a new mock subscription repository.
func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{
		subs:  make(map[string]*domain.Subscription),
		plans: make(map[string]*domain.TariffPlan),
	}
}

// AddSubscription adds a subscription and its plan to the mock repository.
func (m *MockSubscriptionRepository) AddSubscription(sub *domain.Subscription, plan *domain.TariffPlan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[sub.ID] = sub
	m.plans[plan.ID] = plan
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[sub.ID] = sub
	return nil
}

func (m *MockSubscriptionRepository) GetActiveByUserID(ctx context.Context, userID string, now time.Time) (*domain.Subscription, *domain.TariffPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.subs {
		if s.UserID == userID && s.IsCurrent(now) {
			plan, ok := m.plans[s.TariffPlanID]
			if !ok {
				return nil, nil, repository.ErrNotFound
			}
			subCopy := *s
			planCopy := *plan
			return &subCopy, &planCopy, nil
		}
	}
	return nil, nil, nil
}

func (m *MockSubscriptionRepository) IncrementUsedMinutes(ctx context.Context, id string, minutes float64) error {
	atomic.AddInt32(&m.IncrementUsedMinutesCallCount, 1)
	if m.IncrementUsedMinutesError != nil {
		return m.IncrementUsedMinutesError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[id]
	if !ok {
		return repository.ErrNotFound
	}
	sub.UsedMinutes += minutes
	return nil
}

// GetSubscription returns the stored subscription for test assertions.
func (m *MockSubscriptionRepository) GetSubscription(id string) *domain.Subscription {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.subs[id]
}

// ──────────────────────────────────────────────
// MOCK TARIFF PLAN REPOSITORY
// ──────────────────────────────────────────────

// MockTariffPlanRepository is a mock implementation of TariffPlanRepository.
type MockTariffPlanRepository struct {
	mu    sync.RWMutex
	plans map[string]*domain.TariffPlan
}

// NewMockTariffPlanRepository creates a new mock tariff plan repository.
func NewMockTariffPlanRepository() *MockTariffPlanRepository {
	return &MockTariffPlanRepository{
		plans: make(map[string]*domain.TariffPlan),
	}
}

// AddPlan adds a tariff plan to the mock repository.
func (m *MockTariffPlanRepository) AddPlan(plan *domain.TariffPlan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[plan.ID] = plan
}

func (m *MockTariffPlanRepository) GetByID(ctx context.Context, id string) (*domain.TariffPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	plan, ok := m.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *plan
	return &copy, nil
}

func (m *MockTariffPlanRepository) GetActive(ctx context.Context) ([]*domain.TariffPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.TariffPlan, 0, len(m.plans))
	for _, p := range m.plans {
		if p.IsActive {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.IdempotencyKey == key {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.Status = status
	return nil
}

// CountPayments returns payments whose idempotency key has the prefix.
func (m *MockPaymentRepository) CountPayments(keyPrefix string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, p := range m.payments {
		if strings.HasPrefix(p.IdempotencyKey, keyPrefix) {
			count++
		}
	}
	return count
}

// ──────────────────────────────────────────────
// MOCK TRACK PUBLISHER
// ──────────────────────────────────────────────

// MockTrackPublisher records published ride snapshots.
type MockTrackPublisher struct {
	mu        sync.Mutex
	snapshots []redis.RideSnapshot

	// Counters for verification
	PublishCallCount int32

	// Error injection
	PublishError error
}

// NewMockTrackPublisher creates a new mock track publisher.
func NewMockTrackPublisher() *MockTrackPublisher {
	return &MockTrackPublisher{}
}

func (m *MockTrackPublisher) Publish(ctx context.Context, snapshot redis.RideSnapshot) error {
	atomic.AddInt32(&m.PublishCallCount, 1)
	if m.PublishError != nil {
		return m.PublishError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, snapshot)
	return nil
}

// Snapshots returns a copy of all published snapshots.
func (m *MockTrackPublisher) Snapshots() []redis.RideSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]redis.RideSnapshot, len(m.snapshots))
	copy(result, m.snapshots)
	return result
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	// AcquireResult controls whether the lock is granted.
	AcquireResult bool

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store that grants the lock.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{AcquireResult: true}
}

func (m *MockLockStore) AcquireSweepLock(ctx context.Context, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	return m.AcquireResult, nil
}

func (m *MockLockStore) ReleaseSweepLock(ctx context.Context) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	return nil
}

// ──────────────────────────────────────────────
// MOCK PSP
// ──────────────────────────────────────────────

// MockPSP is a controllable payment service provider.
type MockPSP struct {
	mu sync.Mutex

	ShouldFail bool
	FailError  error

	// Counters for verification
	ChargeCallCount int32
}

// NewMockPSP creates a new mock PSP that approves every charge.
func NewMockPSP() *MockPSP {
	return &MockPSP{}
}

func (m *MockPSP) Charge(ctx context.Context, amount float64) (bool, error) {
	atomic.AddInt32(&m.ChargeCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailError != nil {
		return false, m.FailError
	}
	if m.ShouldFail {
		return false, nil
	}
	return true, nil
}

// SetFailure configures the PSP to decline charges.
func (m *MockPSP) SetFailure(shouldFail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ShouldFail = shouldFail
	m.FailError = err
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
