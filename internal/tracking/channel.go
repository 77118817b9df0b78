package tracking

import "encoding/json"

// Event names exchanged over the live location channel.
const (
	EventJoinTrip              = "joinTrip"
	EventLeaveTrip             = "leaveTrip"
	EventRequestDriverLocation = "requestDriverLocation"
	EventDriverLocation        = "driverLocation"
	EventETA                   = "eta"
	EventTrackingError         = "trackingError"
)

// Envelope frames every message on the channel.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// LocationEvent is a vehicle position for a trip. Coordinates are in
// [longitude, latitude] order on the wire.
type LocationEvent struct {
	TripID      string     `json:"tripId"`
	Coordinates [2]float64 `json:"coordinates"`
}

// ETAEvent carries a recomputed arrival estimate, RFC3339.
type ETAEvent struct {
	TripID string `json:"tripId"`
	ETA    string `json:"eta"`
}

// ErrorEvent is a plain tracking error message.
type ErrorEvent struct {
	Message string `json:"message"`
}

// Channel is the live location transport the engine consumes: join/leave a
// trip's room and ask the driver for a fresh position. Implementations own
// transport, reconnection and authentication.
type Channel interface {
	JoinTrip(tripID string) error
	LeaveTrip(tripID string) error
	RequestDriverLocation(tripID string) error
}
