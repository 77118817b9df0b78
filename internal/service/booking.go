package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"triproute/internal/domain"
	"triproute/internal/geo"
	"triproute/internal/repository"
)

// BookingService handles the booking lifecycle.
type BookingService struct {
	bookingRepo repository.BookingRepository
	tripRepo    repository.TripRepository
	routes      *RouteService
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	tripRepo repository.TripRepository,
	routes *RouteService,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		tripRepo:    tripRepo,
		routes:      routes,
	}
}

// CreateBookingRequest contains the parameters for requesting a booking.
type CreateBookingRequest struct {
	TripID        string
	NumberOfSeats int

	// Optional custom endpoints; snapped to the trip's route corridor
	// when a route exists.
	Origin      *domain.Coordinate
	Destination *domain.Coordinate
}

// Create requests a new booking in PENDING state. Custom origin and
// destination points are constrained to the trip's route corridor before
// being persisted, so downstream consumers can assume every selected point
// lies on the route. Without a usable route, snapping is a pass-through.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}
	if req.NumberOfSeats < 1 {
		return nil, ErrInvalidSeatCount
	}
	if req.Origin != nil && !req.Origin.Valid() {
		return nil, ErrInvalidOrigin
	}
	if req.Destination != nil && !req.Destination.Valid() {
		return nil, ErrInvalidDestination
	}

	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}

	origin := req.Origin
	destination := req.Destination
	if origin != nil || destination != nil {
		// Fetch goes through the guard, so repeated booking attempts
		// within the window reuse the same route.
		route, err := s.routes.FetchRoute(ctx, trip.ID, trip.Departure, trip.Arrival)
		if err == nil {
			if origin != nil {
				if snapped := snapToCorridor(*origin, route); snapped != nil {
					origin = &snapped.ClosestPoint
				}
			}
			if destination != nil {
				if snapped := snapToCorridor(*destination, route); snapped != nil {
					destination = &snapped.ClosestPoint
				}
			}
		}
	}

	booking := &domain.Booking{
		ID:                   uuid.New().String(),
		TripID:               trip.ID,
		Status:               domain.BookingStatusPending,
		PassengerOrigin:      origin,
		PassengerDestination: destination,
		NumberOfSeats:        req.NumberOfSeats,
		CreatedAt:            time.Now(),
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// Get retrieves a booking by ID.
func (s *BookingService) Get(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	return s.bookingRepo.GetByID(ctx, bookingID)
}

// GetByTripID retrieves all bookings for a trip.
func (s *BookingService) GetByTripID(ctx context.Context, tripID string) ([]*domain.Booking, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	return s.bookingRepo.GetByTripID(ctx, tripID)
}

// Accept transitions a booking from PENDING to ACCEPTED.
func (s *BookingService) Accept(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingStatusPending {
		return nil, ErrBookingNotPending
	}

	booking.Status = domain.BookingStatusAccepted
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// Reject transitions a booking from PENDING to REJECTED. The reason is
// mandatory: rejecting without one is a validation failure and no state
// changes.
func (s *BookingService) Reject(ctx context.Context, bookingID, reason string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ErrEmptyRejectionReason
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingStatusPending {
		return nil, ErrBookingNotPending
	}

	booking.Status = domain.BookingStatusRejected
	booking.RejectionReason = reason
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// ConfirmPickup marks an accepted booking's passenger as picked up. Only
// valid while the parent trip is ongoing. The flag is monotone: confirming
// an already picked-up booking is a no-op, matching the idempotent-on-retry
// contract of the mutation endpoints.
func (s *BookingService) ConfirmPickup(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.confirmable(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.PickedUp {
		return booking, nil
	}

	booking.PickedUp = true
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// ConfirmDropoff marks an accepted booking's passenger as dropped off.
// Requires pickup to have been confirmed first; both flags are monotone.
func (s *BookingService) ConfirmDropoff(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.confirmable(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.PickedUp {
		return nil, ErrDropoffBeforePickup
	}
	if booking.DroppedOff {
		return booking, nil
	}

	booking.DroppedOff = true
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// confirmable loads a booking and checks the shared pickup/dropoff guards:
// booking accepted, parent trip ongoing.
func (s *BookingService) confirmable(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingStatusAccepted {
		return nil, ErrBookingNotAccepted
	}

	trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return nil, err
	}

	if trip.Status != domain.TripStatusOngoing {
		return nil, ErrTripNotOngoing
	}

	return booking, nil
}

// snapToCorridor projects a point onto a route's corridor. Returns nil
// when no usable route exists (snapping is opt-in per call site).
func snapToCorridor(point domain.Coordinate, route *domain.RouteInfo) *domain.SnapResult {
	if route == nil || len(route.Coordinates) < 2 {
		return nil
	}
	return geo.ClosestPointOnRoute(point, route.Coordinates)
}
