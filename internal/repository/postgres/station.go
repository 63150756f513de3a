package postgres

import (
	"context"
	"database/sql"
	"errors"

	"mobility/internal/domain"
	"mobility/internal/repository"
)

// StationRepository is a PostgreSQL implementation of repository.StationRepository.
type StationRepository struct {
	q Querier
}

// NewStationRepository creates a new PostgreSQL station repository.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{q: db}
}

// NewStationRepositoryWithTx creates a station repository using a transaction.
func NewStationRepositoryWithTx(tx *sql.Tx) *StationRepository {
	return &StationRepository{q: tx}
}

const stationColumns = `id, name, lat, lng, capacity, is_active, created_at`

// Create persists a new station.
func (r *StationRepository) Create(ctx context.Context, station *domain.Station) error {
	query := `
		INSERT INTO stations (` + stationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		station.ID,
		station.Name,
		station.Lat,
		station.Lng,
		station.Capacity,
		station.IsActive,
		station.CreatedAt,
	)

	return err
}

// GetByID retrieves a station by ID.
func (r *StationRepository) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM stations WHERE id = $1`

	var station domain.Station
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&station.ID,
		&station.Name,
		&station.Lat,
		&station.Lng,
		&station.Capacity,
		&station.IsActive,
		&station.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &station, nil
}

// GetActive retrieves all active stations.
func (r *StationRepository) GetActive(ctx context.Context) ([]*domain.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM stations WHERE is_active = TRUE ORDER BY name`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []*domain.Station
	for rows.Next() {
		var station domain.Station
		if err := rows.Scan(
			&station.ID,
			&station.Name,
			&station.Lat,
			&station.Lng,
			&station.Capacity,
			&station.IsActive,
			&station.CreatedAt,
		); err != nil {
			return nil, err
		}
		stations = append(stations, &station)
	}
	return stations, rows.Err()
}
