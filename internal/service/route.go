package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"triproute/internal/directions"
	"triproute/internal/domain"
	"triproute/internal/geo"
	"triproute/internal/observability"
	"triproute/internal/redis"
)

// DefaultFetchWindow is the minimum spacing between live provider calls
// for the same route subject.
const DefaultFetchWindow = 30 * time.Second

// fetchState guards the provider for one logical route subject.
type fetchState struct {
	mu        sync.Mutex
	lastFetch time.Time
	lastRoute *domain.RouteInfo
}

// RouteService is the fetch guard in front of the directions provider: it
// throttles per-subject calls, decodes and simplifies the returned
// polyline, and applies the straight-line fallback policy when the
// provider reports no route.
type RouteService struct {
	provider  directions.Provider
	cache     redis.RouteCacheStoreInterface
	locks     redis.LockStoreInterface
	window    time.Duration
	maxPoints int

	mu     sync.Mutex
	states map[string]*fetchState

	now func() time.Time
}

// NewRouteService creates a new RouteService. cache and locks may be nil,
// in which case cross-instance reuse and single-flight are disabled.
func NewRouteService(
	provider directions.Provider,
	cache redis.RouteCacheStoreInterface,
	locks redis.LockStoreInterface,
) *RouteService {
	return &RouteService{
		provider:  provider,
		cache:     cache,
		locks:     locks,
		window:    DefaultFetchWindow,
		maxPoints: geo.DefaultSimplifyMaxPoints,
		states:    make(map[string]*fetchState),
		now:       time.Now,
	}
}

// SetFetchWindow overrides the default throttle window. Call before first use.
func (s *RouteService) SetFetchWindow(d time.Duration) {
	if d > 0 {
		s.window = d
	}
}

// SetSimplifyMaxPoints overrides the polyline simplification cap.
func (s *RouteService) SetSimplifyMaxPoints(n int) {
	if n >= 2 {
		s.maxPoints = n
	}
}

func (s *RouteService) state(subject string) *fetchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[subject]
	if !ok {
		st = &fetchState{}
		s.states[subject] = st
	}
	return st
}

// FetchRoute returns a route between origin and destination for the given
// subject (typically a trip ID). The guard is endpoint-agnostic: callers
// may substitute custom endpoints under their own subject key.
//
// At most one live provider call is made per subject per window; a call
// inside the window reuses the previous result if one exists, and
// otherwise proceeds. A "no route" response yields a two-point
// straight-line route without distance/duration. Hard provider failures
// are surfaced and not retried.
func (s *RouteService) FetchRoute(ctx context.Context, subject string, origin, destination domain.Coordinate) (*domain.RouteInfo, error) {
	if !origin.Valid() {
		return nil, ErrInvalidOrigin
	}
	if !destination.Valid() {
		return nil, ErrInvalidDestination
	}

	st := s.state(subject)
	st.mu.Lock()
	defer st.mu.Unlock()

	now := s.now()
	if st.lastRoute != nil && now.Sub(st.lastFetch) < s.window {
		observability.RouteThrottleHits.Inc()
		return st.lastRoute, nil
	}

	// Another instance may have fetched this subject inside the window.
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, subject); err == nil && cached != nil {
			st.lastRoute = cached
			st.lastFetch = now
			return cached, nil
		}
	}

	if s.locks != nil {
		acquired, err := s.locks.AcquireFetchLock(ctx, subject, s.window)
		if err == nil && acquired {
			defer func() { _ = s.locks.ReleaseFetchLock(ctx, subject) }()
		}
		// Lock contention or a lock-store error never blocks the fetch:
		// availability of a route wins over strict single-flight.
	}

	route, err := s.provider.GetRoute(ctx, origin, destination)
	// Every live provider call counts, whatever it returns.
	observability.RouteFetchesTotal.Inc()
	if errors.Is(err, directions.ErrNoRoute) {
		// Expected-degraded: a visual path must always be renderable, but
		// distance/duration stay absent rather than claiming precision.
		log.Printf("no route for subject %s, falling back to straight line", subject)
		observability.RouteFallbacks.Inc()
		info := &domain.RouteInfo{
			Coordinates: []domain.Coordinate{origin, destination},
			Fallback:    true,
		}
		st.lastRoute = info
		st.lastFetch = now
		return info, nil
	}
	if err != nil {
		// Transient-retryable: surfaced to the caller, never retried here.
		log.Printf("route fetch failed for subject %s: %v", subject, err)
		return nil, fmt.Errorf("%w: %v", ErrRouteUnavailable, err)
	}

	coords := geo.Simplify(geo.Decode(route.OverviewPolyline), s.maxPoints)
	if len(coords) < 2 {
		// Provider returned metrics but an unusable path.
		coords = []domain.Coordinate{origin, destination}
	}

	info := &domain.RouteInfo{
		Coordinates:     coords,
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: route.DurationSeconds,
		HasMetrics:      true,
	}

	st.lastRoute = info
	st.lastFetch = now

	// Fallback results are deliberately not written to the shared cache.
	if s.cache != nil {
		if err := s.cache.Set(ctx, subject, info); err != nil {
			log.Printf("route cache write failed for subject %s: %v", subject, err)
		}
	}

	return info, nil
}
