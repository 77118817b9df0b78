package tests

import (
	"context"
	"sync"
	"sync/atomic"

	"triproute/internal/directions"
	"triproute/internal/domain"
	"triproute/internal/redis"
	"triproute/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trips := make([]*domain.Trip, 0, len(m.trips))
	for _, trip := range m.trips {
		copy := *trip
		trips = append(trips, &copy)
	}
	return trips, nil
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GetByTripID(ctx context.Context, tripID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bookings := make([]*domain.Booking, 0)
	for _, booking := range m.bookings {
		if booking.TripID == tripID {
			copy := *booking
			bookings = append(bookings, &copy)
		}
	}
	return bookings, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *booking
	m.bookings[booking.ID] = &copy
	return nil
}

// ──────────────────────────────────────────────
// MOCK DIRECTIONS PROVIDER
// ──────────────────────────────────────────────

// MockProvider is a directions provider returning a canned route.
type MockProvider struct {
	Route *directions.Route
	Err   error

	CallCount int32
}

func (m *MockProvider) GetRoute(ctx context.Context, origin, destination domain.Coordinate) (*directions.Route, error) {
	atomic.AddInt32(&m.CallCount, 1)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Route, nil
}

// ──────────────────────────────────────────────
// MOCK VEHICLE LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is an in-memory vehicle position store.
type MockLocationStore struct {
	mu        sync.RWMutex
	positions map[string]redis.VehicleLocation
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{positions: make(map[string]redis.VehicleLocation)}
}

func (m *MockLocationStore) Update(ctx context.Context, tripID string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[tripID] = redis.VehicleLocation{Lat: lat, Lng: lng}
	return nil
}

func (m *MockLocationStore) Get(ctx context.Context, tripID string) (*redis.VehicleLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pos, ok := m.positions[tripID]
	if !ok {
		return nil, nil
	}
	return &pos, nil
}

func (m *MockLocationStore) Remove(ctx context.Context, tripID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.positions, tripID)
	return nil
}
