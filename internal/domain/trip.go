package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusUpcoming  TripStatus = "UPCOMING"
	TripStatusOngoing   TripStatus = "ONGOING"
	TripStatusCompleted TripStatus = "COMPLETED"
	TripStatusCancelled TripStatus = "CANCELLED"
)

// Trip represents a single published journey.
//
// Progress (0-100) and CurrentLocation are maintained by external
// collaborators; this core only reads them, except for ETA purposes.
type Trip struct {
	ID              string
	Status          TripStatus
	DepartureName   string
	Departure       Coordinate
	ArrivalName     string
	Arrival         Coordinate
	DepartureTime   time.Time
	Progress        float64
	CurrentLocation *Coordinate
	CreatedAt       time.Time
}

// DisplayStatus is a presentation-only classification of a trip. It is
// derived, never persisted: a trip whose departure time has passed is shown
// as expired without mutating the authoritative status, which avoids
// client clock drift silently rewriting server state.
type DisplayStatus string

const (
	DisplayStatusUpcoming  DisplayStatus = "UPCOMING"
	DisplayStatusOngoing   DisplayStatus = "ONGOING"
	DisplayStatusCompleted DisplayStatus = "COMPLETED"
	DisplayStatusCancelled DisplayStatus = "CANCELLED"
	DisplayStatusExpired   DisplayStatus = "EXPIRED"
)

// ClassifyDisplayStatus maps a trip's persisted status and departure time
// to what a listing should show at the given instant.
func ClassifyDisplayStatus(status TripStatus, departureTime, now time.Time) DisplayStatus {
	switch status {
	case TripStatusCompleted:
		return DisplayStatusCompleted
	case TripStatusCancelled:
		return DisplayStatusCancelled
	}
	if departureTime.Before(now) {
		return DisplayStatusExpired
	}
	if status == TripStatusOngoing {
		return DisplayStatusOngoing
	}
	return DisplayStatusUpcoming
}
