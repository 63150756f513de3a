package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTL constants
const (
	// VehicleListCacheTTL is short because vehicle availability flips on
	// every booking, ride start and sweep pass.
	VehicleListCacheTTL = 10 * time.Second
)

const availableVehiclesKey = "cache:vehicles:available"

// CachedVehicle represents a cached vehicle entry for map display.
type CachedVehicle struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Model          string   `json:"model"`
	PricePerMinute float64  `json:"price_per_minute"`
	BatteryLevel   int      `json:"battery_level"`
	Lat            *float64 `json:"lat"`
	Lng            *float64 `json:"lng"`
}

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// GetAvailableVehicles retrieves the cached available-vehicle list.
// Returns nil on cache miss.
func (s *CacheStore) GetAvailableVehicles(ctx context.Context) ([]CachedVehicle, error) {
	data, err := s.client.Get(ctx, availableVehiclesKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var vehicles []CachedVehicle
	if err := json.Unmarshal(data, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// SetAvailableVehicles stores the available-vehicle list in cache.
func (s *CacheStore) SetAvailableVehicles(ctx context.Context, vehicles []CachedVehicle) error {
	data, err := json.Marshal(vehicles)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, availableVehiclesKey, data, VehicleListCacheTTL).Err()
}

// InvalidateAvailableVehicles drops the cached list after a status change.
func (s *CacheStore) InvalidateAvailableVehicles(ctx context.Context) error {
	return s.client.Del(ctx, availableVehiclesKey).Err()
}
