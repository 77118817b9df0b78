package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusAccepted  BookingStatus = "ACCEPTED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusExpired   BookingStatus = "EXPIRED"
)

// Booking represents a single passenger reservation on a trip.
//
// PickedUp and DroppedOff are monotone flags: once true they never reset,
// and DroppedOff can only become true after PickedUp. Both are only
// meaningful while the parent trip is ongoing.
type Booking struct {
	ID         string
	TripID     string
	Status     BookingStatus
	PickedUp   bool
	DroppedOff bool

	// Optional passenger-chosen endpoints overriding the trip's nominal
	// departure/arrival. When the trip has a computed route, these are
	// snapped to the route corridor before being persisted.
	PassengerOrigin      *Coordinate
	PassengerDestination *Coordinate

	NumberOfSeats   int
	RejectionReason string
	CreatedAt       time.Time
}
