package service

import (
	"context"
	"sync"
	"time"

	"triproute/internal/domain"
	"triproute/internal/observability"
	"triproute/internal/redis"
)

// DefaultETADebounce is how long after the last position change a
// position-based recomputation fires.
const DefaultETADebounce = 5 * time.Second

// RouteFetcher is the slice of RouteService the estimator depends on.
type RouteFetcher interface {
	FetchRoute(ctx context.Context, subject string, origin, destination domain.Coordinate) (*domain.RouteInfo, error)
}

// ETAService estimates a trip's arrival time.
//
// Two modes, selected by data availability: position-based (route fetch
// from the live position to the arrival point) and a progress-based
// fallback over the original route duration. Position mode always
// supersedes progress mode when a live position exists.
type ETAService struct {
	routes    RouteFetcher
	locations redis.VehicleLocationStoreInterface
	debounce  time.Duration
	now       func() time.Time
}

// NewETAService creates a new ETAService. locations may be nil, in which
// case only the trip's own CurrentLocation feeds position mode.
func NewETAService(routes RouteFetcher, locations redis.VehicleLocationStoreInterface) *ETAService {
	return &ETAService{
		routes:    routes,
		locations: locations,
		debounce:  DefaultETADebounce,
		now:       time.Now,
	}
}

// SetDebounce overrides the default watcher debounce. Call before first use.
func (s *ETAService) SetDebounce(d time.Duration) {
	if d > 0 {
		s.debounce = d
	}
}

// Estimate returns the estimated arrival time for an ongoing trip. route
// is the trip's nominal full route, used for the progress fallback; it may
// be nil when only a live position is available.
//
// ETA is only meaningful while the trip is ongoing; any other state is
// refused.
func (s *ETAService) Estimate(ctx context.Context, trip *domain.Trip, route *domain.RouteInfo) (time.Time, error) {
	if trip.Status != domain.TripStatusOngoing {
		return time.Time{}, ErrTripNotOngoing
	}

	if loc := s.currentLocation(ctx, trip); loc != nil {
		if eta, ok := s.positionBased(ctx, trip, *loc); ok {
			return eta, nil
		}
		// Position fetch failed or came back without metrics; degrade to
		// the progress estimate.
	}

	return s.progressBased(trip, route)
}

func (s *ETAService) currentLocation(ctx context.Context, trip *domain.Trip) *domain.Coordinate {
	if s.locations != nil {
		if loc, err := s.locations.Get(ctx, trip.ID); err == nil && loc != nil {
			return &domain.Coordinate{Latitude: loc.Lat, Longitude: loc.Lng}
		}
	}
	return trip.CurrentLocation
}

func (s *ETAService) positionBased(ctx context.Context, trip *domain.Trip, pos domain.Coordinate) (time.Time, bool) {
	info, err := s.routes.FetchRoute(ctx, "eta:"+trip.ID, pos, trip.Arrival)
	if err != nil || !info.HasMetrics {
		return time.Time{}, false
	}

	observability.ETAComputations.WithLabelValues("position").Inc()
	return s.now().Add(time.Duration(info.DurationSeconds * float64(time.Second))), true
}

func (s *ETAService) progressBased(trip *domain.Trip, route *domain.RouteInfo) (time.Time, error) {
	if route == nil || !route.HasMetrics {
		return time.Time{}, ErrETAUnavailable
	}

	progress := trip.Progress
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	remaining := (100 - progress) / 100

	observability.ETAComputations.WithLabelValues("progress").Inc()
	return s.now().Add(time.Duration(route.DurationSeconds * remaining * float64(time.Second))), nil
}

// Watch creates a watcher that recomputes the estimate as positions stream
// in for one trip. The caller must Stop the watcher when the consumer goes
// away, or its scheduled task leaks.
func (s *ETAService) Watch(tripID string, onETA func(time.Time)) *Watcher {
	return &Watcher{svc: s, tripID: tripID, onETA: onETA}
}

// Watcher debounces position-driven ETA recomputation for a single trip.
// A new position cancels any scheduled computation for the same trip, so
// results cannot complete out of order.
type Watcher struct {
	svc    *ETAService
	tripID string
	onETA  func(time.Time)

	mu      sync.Mutex
	timer   *time.Timer
	started bool
	stopped bool
}

// ObservePosition notes a fresh vehicle position. The first observation
// computes immediately so the consumer is never empty on mount; later ones
// are debounced to avoid one provider fetch per location tick.
//
// The computation reads trip and route from its own goroutine after the
// debounce elapses, so callers must hand over a snapshot they will not
// mutate afterwards.
func (w *Watcher) ObservePosition(trip *domain.Trip, route *domain.RouteInfo) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}

	if !w.started {
		w.started = true
		go w.compute(trip, route)
		return
	}

	w.timer = time.AfterFunc(w.svc.debounce, func() {
		w.compute(trip, route)
	})
}

func (w *Watcher) compute(trip *domain.Trip, route *domain.RouteInfo) {
	eta, err := w.svc.Estimate(context.Background(), trip, route)
	if err != nil {
		return
	}

	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if !stopped {
		w.onETA(eta)
	}
}

// Stop cancels any scheduled recomputation. Safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
