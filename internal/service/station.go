package service

import (
	"context"

	"mobility/internal/domain"
	"mobility/internal/repository"
)

// StationService exposes the station network.
type StationService struct {
	stationRepo repository.StationRepository
}

// NewStationService creates a new StationService.
func NewStationService(stationRepo repository.StationRepository) *StationService {
	return &StationService{stationRepo: stationRepo}
}

// ListActive retrieves all active stations.
func (s *StationService) ListActive(ctx context.Context) ([]*domain.Station, error) {
	return s.stationRepo.GetActive(ctx)
}
