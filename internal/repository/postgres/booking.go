package postgres

import (
	"context"
	"database/sql"
	"errors"

	"triproute/internal/domain"
	"triproute/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `
	id, trip_id, status, picked_up, dropped_off,
	origin_lat, origin_lng, destination_lat, destination_lng,
	seats, rejection_reason, created_at
`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	originLat, originLng := nullCoordinate(booking.PassengerOrigin)
	destLat, destLng := nullCoordinate(booking.PassengerDestination)

	var reason sql.NullString
	if booking.RejectionReason != "" {
		reason = sql.NullString{String: booking.RejectionReason, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.TripID,
		booking.Status,
		booking.PickedUp,
		booking.DroppedOff,
		originLat,
		originLng,
		destLat,
		destLng,
		booking.NumberOfSeats,
		reason,
		booking.CreatedAt,
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return booking, nil
}

// GetByTripID retrieves all bookings for a trip.
func (r *BookingRepository) GetByTripID(ctx context.Context, tripID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE trip_id = $1 ORDER BY created_at`

	rows, err := r.q.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// Update updates an existing booking.
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, picked_up = $2, dropped_off = $3,
		    origin_lat = $4, origin_lng = $5, destination_lat = $6, destination_lng = $7,
		    seats = $8, rejection_reason = $9
		WHERE id = $10
	`

	originLat, originLng := nullCoordinate(booking.PassengerOrigin)
	destLat, destLng := nullCoordinate(booking.PassengerDestination)

	var reason sql.NullString
	if booking.RejectionReason != "" {
		reason = sql.NullString{String: booking.RejectionReason, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		booking.Status,
		booking.PickedUp,
		booking.DroppedOff,
		originLat,
		originLng,
		destLat,
		destLng,
		booking.NumberOfSeats,
		reason,
		booking.ID,
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

func nullCoordinate(c *domain.Coordinate) (lat, lng sql.NullFloat64) {
	if c == nil {
		return
	}
	return sql.NullFloat64{Float64: c.Latitude, Valid: true},
		sql.NullFloat64{Float64: c.Longitude, Valid: true}
}

func scanBooking(s scanner) (*domain.Booking, error) {
	var booking domain.Booking
	var originLat, originLng, destLat, destLng sql.NullFloat64
	var reason sql.NullString

	err := s.Scan(
		&booking.ID,
		&booking.TripID,
		&booking.Status,
		&booking.PickedUp,
		&booking.DroppedOff,
		&originLat,
		&originLng,
		&destLat,
		&destLng,
		&booking.NumberOfSeats,
		&reason,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if originLat.Valid && originLng.Valid {
		booking.PassengerOrigin = &domain.Coordinate{Latitude: originLat.Float64, Longitude: originLng.Float64}
	}
	if destLat.Valid && destLng.Valid {
		booking.PassengerDestination = &domain.Coordinate{Latitude: destLat.Float64, Longitude: destLng.Float64}
	}
	if reason.Valid {
		booking.RejectionReason = reason.String
	}

	return &booking, nil
}

// Ensure BookingRepository implements repository.BookingRepository.
var _ repository.BookingRepository = (*BookingRepository)(nil)
