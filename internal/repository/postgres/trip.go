package postgres

import (
	"context"
	"database/sql"
	"errors"

	"triproute/internal/domain"
	"triproute/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

const tripColumns = `
	id, status, departure_name, departure_lat, departure_lng,
	arrival_name, arrival_lat, arrival_lng, departure_time, progress, created_at
`

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.Status,
		trip.DepartureName,
		trip.Departure.Latitude,
		trip.Departure.Longitude,
		trip.ArrivalName,
		trip.Arrival.Latitude,
		trip.Arrival.Longitude,
		trip.DepartureTime,
		trip.Progress,
		trip.CreatedAt,
	)

	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return trip, nil
}

// GetAll retrieves recent trips, newest departure first.
func (r *TripRepository) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY departure_time DESC LIMIT 100`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// Update updates an existing trip.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET status = $1, departure_name = $2, departure_lat = $3, departure_lng = $4,
		    arrival_name = $5, arrival_lat = $6, arrival_lng = $7,
		    departure_time = $8, progress = $9
		WHERE id = $10
	`

	result, err := r.q.ExecContext(ctx, query,
		trip.Status,
		trip.DepartureName,
		trip.Departure.Latitude,
		trip.Departure.Longitude,
		trip.ArrivalName,
		trip.Arrival.Latitude,
		trip.Arrival.Longitude,
		trip.DepartureTime,
		trip.Progress,
		trip.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(s scanner) (*domain.Trip, error) {
	var trip domain.Trip

	err := s.Scan(
		&trip.ID,
		&trip.Status,
		&trip.DepartureName,
		&trip.Departure.Latitude,
		&trip.Departure.Longitude,
		&trip.ArrivalName,
		&trip.Arrival.Latitude,
		&trip.Arrival.Longitude,
		&trip.DepartureTime,
		&trip.Progress,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &trip, nil
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
