package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const vehicleLocationKey = "trips:vehicle_locations"

// VehicleLocation is a vehicle's last known position for a trip.
type VehicleLocation struct {
	TripID string
	Lat    float64
	Lng    float64
}

// VehicleLocationStore holds each trip's last streamed vehicle position in
// Redis. Writes are last-write-wins; there is no history.
type VehicleLocationStore struct {
	client *redis.Client
}

// NewVehicleLocationStore creates a new VehicleLocationStore.
func NewVehicleLocationStore(client *redis.Client) *VehicleLocationStore {
	return &VehicleLocationStore{client: client}
}

// Update stores a trip's vehicle position using GEOADD.
func (s *VehicleLocationStore) Update(ctx context.Context, tripID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, vehicleLocationKey, &redis.GeoLocation{
		Name:      tripID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// Get returns the last known position for a trip, or nil when none has
// been recorded.
func (s *VehicleLocationStore) Get(ctx context.Context, tripID string) (*VehicleLocation, error) {
	positions, err := s.client.GeoPos(ctx, vehicleLocationKey, tripID).Result()
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 || positions[0] == nil {
		return nil, nil
	}

	return &VehicleLocation{
		TripID: tripID,
		Lat:    positions[0].Latitude,
		Lng:    positions[0].Longitude,
	}, nil
}

// Remove drops a trip's position from the geo index, typically when the
// trip reaches a terminal state.
func (s *VehicleLocationStore) Remove(ctx context.Context, tripID string) error {
	return s.client.ZRem(ctx, vehicleLocationKey, tripID).Err()
}
