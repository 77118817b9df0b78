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

func newTripService(t *testing.T, tripRepo *MockTripRepository, bookingRepo *MockBookingRepository, provider *MockProvider, locations *MockLocationStore) *service.TripService {
	t.Helper()

	if locations == nil {
		locations = NewMockLocationStore()
	}

	routes := service.NewRouteService(provider, nil, nil)
	eta := service.NewETAService(routes, locations)

	return service.NewTripService(nil, tripRepo, bookingRepo, routes, eta, locations)
}

func kinshasaProvider(t *testing.T) *MockProvider {
	t.Helper()
	polyline := geo.Encode([]domain.Coordinate{
		{Latitude: -4.441931, Longitude: 15.266293},
		{Latitude: -4.42, Longitude: 15.28},
		{Latitude: -4.4, Longitude: 15.3},
	})
	return &MockProvider{Route: &directions.Route{
		OverviewPolyline: polyline,
		DistanceMeters:   12000,
		DurationSeconds:  5400,
	}}
}

func createTripRequest() service.CreateTripRequest {
	return service.CreateTripRequest{
		DepartureName: "Gombe",
		Departure:     domain.Coordinate{Latitude: -4.441931, Longitude: 15.266293},
		ArrivalName:   "Ndjili",
		Arrival:       domain.Coordinate{Latitude: -4.4, Longitude: 15.3},
		DepartureTime: time.Now().Add(time.Hour),
	}
}

func TestTripLifecycle_CreateStartsUpcoming(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := newTripService(t, tripRepo, NewMockBookingRepository(), kinshasaProvider(t), nil)

	trip, err := svc.Create(context.Background(), createTripRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.Status != domain.TripStatusUpcoming {
		t.Errorf("expected UPCOMING, got %s", trip.Status)
	}
	if trip.ID == "" {
		t.Error("expected a generated trip ID")
	}
	if tripRepo.CreateCallCount != 1 {
		t.Errorf("expected 1 repository create, got %d", tripRepo.CreateCallCount)
	}
}

func TestTripLifecycle_StartRequiresUpcoming(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := newTripService(t, tripRepo, NewMockBookingRepository(), kinshasaProvider(t), nil)

	trip, err := svc.Create(context.Background(), createTripRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	started, err := svc.Start(context.Background(), trip.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if started.Status != domain.TripStatusOngoing {
		t.Errorf("expected ONGOING, got %s", started.Status)
	}

	// Starting again is a guard violation, not an idempotent no-op.
	if _, err := svc.Start(context.Background(), trip.ID); !errors.Is(err, service.ErrTripNotUpcoming) {
		t.Errorf("expected ErrTripNotUpcoming, got %v", err)
	}
}

func TestTripLifecycle_CancelOnlyBeforeDeparture(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := newTripService(t, tripRepo, NewMockBookingRepository(), kinshasaProvider(t), nil)

	trip, err := svc.Create(context.Background(), createTripRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Start(context.Background(), trip.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// An ongoing trip can only be driven to completion.
	if _, err := svc.Cancel(context.Background(), trip.ID); !errors.Is(err, service.ErrTripCannotBeCancelled) {
		t.Errorf("expected ErrTripCannotBeCancelled, got %v", err)
	}

	upcoming, err := svc.Create(context.Background(), createTripRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cancelled, err := svc.Cancel(context.Background(), upcoming.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != domain.TripStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", cancelled.Status)
	}
}

func TestTripLifecycle_ProgressIsMonotone(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := newTripService(t, tripRepo, NewMockBookingRepository(), kinshasaProvider(t), nil)

	trip, err := svc.Create(context.Background(), createTripRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Progress only applies to ongoing trips.
	if _, err := svc.RecordProgress(context.Background(), trip.ID, 10); !errors.Is(err, service.ErrTripNotOngoing) {
		t.Errorf("expected ErrTripNotOngoing, got %v", err)
	}

	if _, err := svc.Start(context.Background(), trip.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.RecordProgress(context.Background(), trip.ID, 40); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.RecordProgress(context.Background(), trip.ID, 25); !errors.Is(err, service.ErrProgressNotMonotonic) {
		t.Errorf("expected ErrProgressNotMonotonic, got %v", err)
	}
	if _, err := svc.RecordProgress(context.Background(), trip.ID, 140); !errors.Is(err, service.ErrInvalidProgress) {
		t.Errorf("expected ErrInvalidProgress, got %v", err)
	}

	updated, err := svc.Get(context.Background(), trip.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Progress != 40 {
		t.Errorf("expected progress 40 after rejected updates, got %.0f", updated.Progress)
	}
}

func TestTripLifecycle_ETAFromProgress(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := newTripService(t, tripRepo, NewMockBookingRepository(), kinshasaProvider(t), NewMockLocationStore())

	trip, err := svc.Create(context.Background(), createTripRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Start(context.Background(), trip.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.RecordProgress(context.Background(), trip.ID, 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before := time.Now()
	eta, err := svc.ETA(context.Background(), trip.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Half of the 5400s route remains.
	remaining := eta.Sub(before)
	if remaining < 2690*time.Second || remaining > 2710*time.Second {
		t.Errorf("expected roughly 2700s remaining, got %v", remaining)
	}
}

func TestTripLifecycle_RecordLocationFeedsETA(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	locations := NewMockLocationStore()
	svc := newTripService(t, tripRepo, NewMockBookingRepository(), kinshasaProvider(t), locations)

	trip, err := svc.Create(context.Background(), createTripRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Start(context.Background(), trip.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.RecordLocation(context.Background(), trip.ID, domain.Coordinate{Latitude: -4.43, Longitude: 15.27}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pos, err := locations.Get(context.Background(), trip.ID)
	if err != nil || pos == nil {
		t.Fatalf("expected a stored position, got %v (err %v)", pos, err)
	}

	// With a live position, the estimate comes from a position-based fetch.
	before := time.Now()
	eta, err := svc.ETA(context.Background(), trip.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	remaining := eta.Sub(before)
	if remaining < 5390*time.Second || remaining > 5410*time.Second {
		t.Errorf("expected the provider duration remaining, got %v", remaining)
	}
}

func TestTripLifecycle_SnapToRouteCorridor(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	provider := &MockProvider{Route: &directions.Route{
		OverviewPolyline: geo.Encode([]domain.Coordinate{
			{Latitude: 0, Longitude: 0},
			{Latitude: 0, Longitude: 10},
		}),
		DistanceMeters:  1_100_000,
		DurationSeconds: 40_000,
	}}
	svc := newTripService(t, tripRepo, NewMockBookingRepository(), provider, nil)

	req := createTripRequest()
	req.Departure = domain.Coordinate{Latitude: 0, Longitude: 0}
	req.Arrival = domain.Coordinate{Latitude: 0, Longitude: 10}

	trip, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	point, snap, err := svc.SnapToRoute(context.Background(), trip.ID, domain.Coordinate{Latitude: 5, Longitude: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap == nil {
		t.Fatal("expected a snap result")
	}

	if !closeTo(point.Latitude, 0) || !closeTo(point.Longitude, 5) {
		t.Errorf("expected snap to (0, 5), got (%v, %v)", point.Latitude, point.Longitude)
	}
}

// closeTo allows for polyline quantization at 1e-5 precision.
func closeTo(got, want float64) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-4
}
