package service

import (
	"context"

	"mobility/internal/domain"
	internalRedis "mobility/internal/redis"
	"mobility/internal/repository"
)

// VehicleService exposes the discoverable fleet.
type VehicleService struct {
	vehicleRepo repository.VehicleRepository
	cacheStore  *internalRedis.CacheStore
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(vehicleRepo repository.VehicleRepository, cacheStore *internalRedis.CacheStore) *VehicleService {
	return &VehicleService{
		vehicleRepo: vehicleRepo,
		cacheStore:  cacheStore,
	}
}

// ListAvailable returns all vehicles currently available for booking,
// served cache-aside from Redis.
func (s *VehicleService) ListAvailable(ctx context.Context) ([]internalRedis.CachedVehicle, error) {
	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetAvailableVehicles(ctx)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	vehicles, err := s.vehicleRepo.GetAvailable(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]internalRedis.CachedVehicle, 0, len(vehicles))
	for _, v := range vehicles {
		entries = append(entries, internalRedis.CachedVehicle{
			ID:             v.ID,
			Type:           string(v.Type),
			Model:          v.Model,
			PricePerMinute: v.PricePerMinute,
			BatteryLevel:   v.BatteryLevel,
			Lat:            v.CurrentLat,
			Lng:            v.CurrentLng,
		})
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetAvailableVehicles(ctx, entries)
	}

	return entries, nil
}

// Get retrieves a single vehicle.
func (s *VehicleService) Get(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}

	return s.vehicleRepo.GetByID(ctx, vehicleID)
}
