package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"triproute/internal/domain"
	"triproute/internal/redis"
	"triproute/internal/repository"
	"triproute/internal/repository/postgres"
)

// TripService handles trip lifecycle operations.
type TripService struct {
	db          *sql.DB
	tripRepo    repository.TripRepository
	bookingRepo repository.BookingRepository
	routes      *RouteService
	eta         *ETAService
	locations   redis.VehicleLocationStoreInterface
}

// NewTripService creates a new TripService. db may be nil when the caller
// never completes trips (no transactional path is needed then).
func NewTripService(
	db *sql.DB,
	tripRepo repository.TripRepository,
	bookingRepo repository.BookingRepository,
	routes *RouteService,
	eta *ETAService,
	locations redis.VehicleLocationStoreInterface,
) *TripService {
	return &TripService{
		db:          db,
		tripRepo:    tripRepo,
		bookingRepo: bookingRepo,
		routes:      routes,
		eta:         eta,
		locations:   locations,
	}
}

// CreateTripRequest contains the parameters for publishing a trip.
type CreateTripRequest struct {
	DepartureName string
	Departure     domain.Coordinate
	ArrivalName   string
	Arrival       domain.Coordinate
	DepartureTime time.Time
}

// Create publishes a new trip in UPCOMING state.
func (s *TripService) Create(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	if !req.Departure.Valid() {
		return nil, ErrInvalidOrigin
	}
	if !req.Arrival.Valid() {
		return nil, ErrInvalidDestination
	}
	if req.DepartureTime.IsZero() {
		return nil, ErrInvalidDepartureTime
	}

	trip := &domain.Trip{
		ID:            uuid.New().String(),
		Status:        domain.TripStatusUpcoming,
		DepartureName: req.DepartureName,
		Departure:     req.Departure,
		ArrivalName:   req.ArrivalName,
		Arrival:       req.Arrival,
		DepartureTime: req.DepartureTime,
		CreatedAt:     time.Now(),
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// Get retrieves a trip by ID.
func (s *TripService) Get(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	return s.tripRepo.GetByID(ctx, tripID)
}

// GetAll retrieves recent trips.
func (s *TripService) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	return s.tripRepo.GetAll(ctx)
}

// Start transitions a trip from UPCOMING to ONGOING.
func (s *TripService) Start(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if trip.Status != domain.TripStatusUpcoming {
		return nil, ErrTripNotUpcoming
	}

	trip.Status = domain.TripStatusOngoing
	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// Cancel cancels a trip. Only UPCOMING trips can be cancelled; once a trip
// is ongoing it can only be driven to completion.
func (s *TripService) Cancel(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if trip.Status != domain.TripStatusUpcoming {
		return nil, ErrTripCannotBeCancelled
	}

	trip.Status = domain.TripStatusCancelled
	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// Complete transitions an ongoing trip to COMPLETED and settles its
// accepted bookings in the same transaction.
func (s *TripService) Complete(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if trip.Status != domain.TripStatusOngoing {
		return nil, ErrTripNotOngoing
	}

	bookings, err := s.bookingRepo.GetByTripID(ctx, tripID)
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

	txTripRepo := postgres.NewTripRepositoryWithTx(tx)
	txBookingRepo := postgres.NewBookingRepositoryWithTx(tx)

	trip.Status = domain.TripStatusCompleted
	trip.Progress = 100
	if err = txTripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	for _, booking := range bookings {
		if booking.Status != domain.BookingStatusAccepted {
			continue
		}
		booking.Status = domain.BookingStatusCompleted
		if err = txBookingRepo.Update(ctx, booking); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	// The position is stale the moment the trip ends.
	if s.locations != nil {
		_ = s.locations.Remove(ctx, tripID)
	}

	return trip, nil
}

// RecordProgress stores an externally maintained progress value. Progress
// is monotone non-decreasing and only applies to ongoing trips.
func (s *TripService) RecordProgress(ctx context.Context, tripID string, progress float64) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	if progress < 0 || progress > 100 {
		return nil, ErrInvalidProgress
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if trip.Status != domain.TripStatusOngoing {
		return nil, ErrTripNotOngoing
	}
	if progress < trip.Progress {
		return nil, ErrProgressNotMonotonic
	}

	trip.Progress = progress
	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// RecordLocation stores a streamed vehicle position for a trip.
// Last-write-wins; no history is kept.
func (s *TripService) RecordLocation(ctx context.Context, tripID string, coord domain.Coordinate) error {
	if tripID == "" {
		return ErrInvalidTripID
	}
	if !coord.Valid() {
		return ErrInvalidCoordinate
	}

	return s.locations.Update(ctx, tripID, coord.Latitude, coord.Longitude)
}

// Route returns the trip's route. Callers may substitute either endpoint
// (e.g. a passenger's custom pickup overriding the nominal departure);
// substituted endpoints use their own throttle subject so they don't
// starve the nominal route.
func (s *TripService) Route(ctx context.Context, tripID string, originOverride, destinationOverride *domain.Coordinate) (*domain.RouteInfo, error) {
	trip, err := s.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}

	origin := trip.Departure
	destination := trip.Arrival
	subject := trip.ID
	if originOverride != nil {
		origin = *originOverride
		subject = trip.ID + ":custom"
	}
	if destinationOverride != nil {
		destination = *destinationOverride
		subject = trip.ID + ":custom"
	}

	return s.routes.FetchRoute(ctx, subject, origin, destination)
}

// ETA returns the estimated arrival time for an ongoing trip.
func (s *TripService) ETA(ctx context.Context, tripID string) (time.Time, error) {
	trip, err := s.Get(ctx, tripID)
	if err != nil {
		return time.Time{}, err
	}

	if trip.Status != domain.TripStatusOngoing {
		return time.Time{}, ErrTripNotOngoing
	}

	// The nominal full route feeds the progress fallback.
	route, err := s.routes.FetchRoute(ctx, trip.ID, trip.Departure, trip.Arrival)
	if err != nil {
		route = nil
	}

	return s.eta.Estimate(ctx, trip, route)
}

// SnapToRoute constrains a free-form point (dragged pin, typed address,
// GPS fix) to the trip's route corridor. When the trip has no usable
// route, snapping is a no-op and the point is returned unchanged.
func (s *TripService) SnapToRoute(ctx context.Context, tripID string, point domain.Coordinate) (domain.Coordinate, *domain.SnapResult, error) {
	if !point.Valid() {
		return domain.Coordinate{}, nil, ErrInvalidCoordinate
	}

	route, err := s.Route(ctx, tripID, nil, nil)
	if err != nil {
		return domain.Coordinate{}, nil, err
	}

	snap := snapToCorridor(point, route)
	if snap == nil {
		return point, nil, nil
	}
	return snap.ClosestPoint, snap, nil
}
