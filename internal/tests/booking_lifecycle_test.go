package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"triproute/internal/directions"
	"triproute/internal/domain"
	"triproute/internal/geo"
	"triproute/internal/service"
)

func newBookingFixture(t *testing.T, provider *MockProvider) (*service.BookingService, *MockTripRepository, *MockBookingRepository) {
	t.Helper()

	tripRepo := NewMockTripRepository()
	bookingRepo := NewMockBookingRepository()
	routes := service.NewRouteService(provider, nil, nil)

	return service.NewBookingService(bookingRepo, tripRepo, routes), tripRepo, bookingRepo
}

func seedTrip(tripRepo *MockTripRepository, status domain.TripStatus) *domain.Trip {
	trip := &domain.Trip{
		ID:            "trip-1",
		Status:        status,
		Departure:     domain.Coordinate{Latitude: -4.441931, Longitude: 15.266293},
		Arrival:       domain.Coordinate{Latitude: -4.4, Longitude: 15.3},
		DepartureTime: time.Now().Add(time.Hour),
	}
	tripRepo.AddTrip(trip)
	return trip
}

func TestBookingLifecycle_CreateStartsPending(t *testing.T) {
	t.Parallel()

	svc, tripRepo, bookingRepo := newBookingFixture(t, kinshasaProvider(t))
	seedTrip(tripRepo, domain.TripStatusUpcoming)

	booking, err := svc.Create(context.Background(), service.CreateBookingRequest{
		TripID:        "trip-1",
		NumberOfSeats: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != domain.BookingStatusPending {
		t.Errorf("expected PENDING, got %s", booking.Status)
	}
	if bookingRepo.CreateCallCount != 1 {
		t.Errorf("expected 1 repository create, got %d", bookingRepo.CreateCallCount)
	}
}

func TestBookingLifecycle_CreateValidatesSeats(t *testing.T) {
	t.Parallel()

	svc, tripRepo, _ := newBookingFixture(t, kinshasaProvider(t))
	seedTrip(tripRepo, domain.TripStatusUpcoming)

	_, err := svc.Create(context.Background(), service.CreateBookingRequest{
		TripID:        "trip-1",
		NumberOfSeats: 0,
	})
	if !errors.Is(err, service.ErrInvalidSeatCount) {
		t.Errorf("expected ErrInvalidSeatCount, got %v", err)
	}
}

func TestBookingLifecycle_CustomOriginSnapsToCorridor(t *testing.T) {
	t.Parallel()

	provider := &MockProvider{Route: &directions.Route{
		OverviewPolyline: geo.Encode([]domain.Coordinate{
			{Latitude: 0, Longitude: 0},
			{Latitude: 0, Longitude: 10},
		}),
		DistanceMeters:  1_100_000,
		DurationSeconds: 40_000,
	}}
	svc, tripRepo, _ := newBookingFixture(t, provider)

	trip := seedTrip(tripRepo, domain.TripStatusUpcoming)
	trip.Departure = domain.Coordinate{Latitude: 0, Longitude: 0}
	trip.Arrival = domain.Coordinate{Latitude: 0, Longitude: 10}
	tripRepo.AddTrip(trip)

	booking, err := svc.Create(context.Background(), service.CreateBookingRequest{
		TripID:        "trip-1",
		NumberOfSeats: 1,
		Origin:        &domain.Coordinate{Latitude: 5, Longitude: 5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.PassengerOrigin == nil {
		t.Fatal("expected a persisted passenger origin")
	}
	if !closeTo(booking.PassengerOrigin.Latitude, 0) || !closeTo(booking.PassengerOrigin.Longitude, 5) {
		t.Errorf("expected origin snapped to (0, 5), got (%v, %v)",
			booking.PassengerOrigin.Latitude, booking.PassengerOrigin.Longitude)
	}
}

func TestBookingLifecycle_OnlySuppliedEndpointsAreSnapped(t *testing.T) {
	t.Parallel()

	provider := &MockProvider{Route: &directions.Route{
		OverviewPolyline: geo.Encode([]domain.Coordinate{
			{Latitude: 0, Longitude: 0},
			{Latitude: 0, Longitude: 10},
		}),
		DistanceMeters:  1_100_000,
		DurationSeconds: 40_000,
	}}
	svc, tripRepo, _ := newBookingFixture(t, provider)

	trip := seedTrip(tripRepo, domain.TripStatusUpcoming)
	trip.Departure = domain.Coordinate{Latitude: 0, Longitude: 0}
	trip.Arrival = domain.Coordinate{Latitude: 0, Longitude: 10}
	tripRepo.AddTrip(trip)

	booking, err := svc.Create(context.Background(), service.CreateBookingRequest{
		TripID:        "trip-1",
		NumberOfSeats: 1,
		Destination:   &domain.Coordinate{Latitude: 3, Longitude: 8},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.PassengerOrigin != nil {
		t.Errorf("expected no passenger origin, got %+v", booking.PassengerOrigin)
	}
	if booking.PassengerDestination == nil {
		t.Fatal("expected a persisted passenger destination")
	}
	if !closeTo(booking.PassengerDestination.Latitude, 0) || !closeTo(booking.PassengerDestination.Longitude, 8) {
		t.Errorf("expected destination snapped to (0, 8), got (%v, %v)",
			booking.PassengerDestination.Latitude, booking.PassengerDestination.Longitude)
	}
}

func TestBookingLifecycle_AcceptOnlyFromPending(t *testing.T) {
	t.Parallel()

	svc, tripRepo, bookingRepo := newBookingFixture(t, kinshasaProvider(t))
	seedTrip(tripRepo, domain.TripStatusUpcoming)
	bookingRepo.AddBooking(&domain.Booking{ID: "b-1", TripID: "trip-1", Status: domain.BookingStatusPending, NumberOfSeats: 1})

	booking, err := svc.Accept(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != domain.BookingStatusAccepted {
		t.Errorf("expected ACCEPTED, got %s", booking.Status)
	}

	if _, err := svc.Accept(context.Background(), "b-1"); !errors.Is(err, service.ErrBookingNotPending) {
		t.Errorf("expected ErrBookingNotPending, got %v", err)
	}
	if _, err := svc.Reject(context.Background(), "b-1", "full"); !errors.Is(err, service.ErrBookingNotPending) {
		t.Errorf("expected ErrBookingNotPending, got %v", err)
	}
}

func TestBookingLifecycle_RejectRequiresReason(t *testing.T) {
	t.Parallel()

	svc, tripRepo, bookingRepo := newBookingFixture(t, kinshasaProvider(t))
	seedTrip(tripRepo, domain.TripStatusUpcoming)
	bookingRepo.AddBooking(&domain.Booking{ID: "b-1", TripID: "trip-1", Status: domain.BookingStatusPending, NumberOfSeats: 1})

	if _, err := svc.Reject(context.Background(), "b-1", "   "); !errors.Is(err, service.ErrEmptyRejectionReason) {
		t.Errorf("expected ErrEmptyRejectionReason, got %v", err)
	}

	// A failed rejection must leave the booking untouched.
	unchanged, err := svc.Get(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unchanged.Status != domain.BookingStatusPending {
		t.Errorf("expected booking still PENDING, got %s", unchanged.Status)
	}
	if bookingRepo.UpdateCallCount != 0 {
		t.Errorf("expected no repository update, got %d", bookingRepo.UpdateCallCount)
	}

	rejected, err := svc.Reject(context.Background(), "b-1", "vehicle full")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rejected.Status != domain.BookingStatusRejected {
		t.Errorf("expected REJECTED, got %s", rejected.Status)
	}
	if rejected.RejectionReason != "vehicle full" {
		t.Errorf("expected the reason to be persisted, got %q", rejected.RejectionReason)
	}
}

func TestBookingLifecycle_PickupRequiresOngoingTrip(t *testing.T) {
	t.Parallel()

	svc, tripRepo, bookingRepo := newBookingFixture(t, kinshasaProvider(t))
	seedTrip(tripRepo, domain.TripStatusUpcoming)
	bookingRepo.AddBooking(&domain.Booking{ID: "b-1", TripID: "trip-1", Status: domain.BookingStatusAccepted, NumberOfSeats: 1})

	if _, err := svc.ConfirmPickup(context.Background(), "b-1"); !errors.Is(err, service.ErrTripNotOngoing) {
		t.Errorf("expected ErrTripNotOngoing, got %v", err)
	}
}

func TestBookingLifecycle_PickupThenDropoff(t *testing.T) {
	t.Parallel()

	svc, tripRepo, bookingRepo := newBookingFixture(t, kinshasaProvider(t))
	seedTrip(tripRepo, domain.TripStatusOngoing)
	bookingRepo.AddBooking(&domain.Booking{ID: "b-1", TripID: "trip-1", Status: domain.BookingStatusAccepted, NumberOfSeats: 1})

	// Dropoff before pickup is rejected.
	if _, err := svc.ConfirmDropoff(context.Background(), "b-1"); !errors.Is(err, service.ErrDropoffBeforePickup) {
		t.Errorf("expected ErrDropoffBeforePickup, got %v", err)
	}

	picked, err := svc.ConfirmPickup(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !picked.PickedUp {
		t.Error("expected PickedUp to be set")
	}

	// Confirming again is an idempotent no-op.
	updatesBefore := bookingRepo.UpdateCallCount
	if _, err := svc.ConfirmPickup(context.Background(), "b-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bookingRepo.UpdateCallCount != updatesBefore {
		t.Error("expected repeated pickup confirmation to skip the repository write")
	}

	dropped, err := svc.ConfirmDropoff(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dropped.DroppedOff {
		t.Error("expected DroppedOff to be set")
	}
}

func TestBookingLifecycle_ConfirmRequiresAccepted(t *testing.T) {
	t.Parallel()

	svc, tripRepo, bookingRepo := newBookingFixture(t, kinshasaProvider(t))
	seedTrip(tripRepo, domain.TripStatusOngoing)
	bookingRepo.AddBooking(&domain.Booking{ID: "b-1", TripID: "trip-1", Status: domain.BookingStatusPending, NumberOfSeats: 1})

	if _, err := svc.ConfirmPickup(context.Background(), "b-1"); !errors.Is(err, service.ErrBookingNotAccepted) {
		t.Errorf("expected ErrBookingNotAccepted, got %v", err)
	}
	if _, err := svc.ConfirmDropoff(context.Background(), "b-1"); !errors.Is(err, service.ErrBookingNotAccepted) {
		t.Errorf("expected ErrBookingNotAccepted, got %v", err)
	}
}
