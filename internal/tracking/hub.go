package tracking

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Sender delivers one JSON message to a connected session.
type Sender interface {
	Send(v any) error
}

// Session wraps a websocket connection with a write lock, since gorilla
// connections allow only one concurrent writer.
type Session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewSession creates a session over an upgraded connection.
func NewSession(conn *websocket.Conn) *Session {
	return &Session{conn: conn}
}

// Send writes a JSON message to the session.
func (s *Session) Send(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

// Hub fans live location traffic out to per-trip rooms. It is injected
// into whichever component activates tracking rather than shared as a
// module-level singleton, so tests can substitute their own.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[Sender]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[Sender]struct{})}
}

// Register adds a session to a trip's room.
func (h *Hub) Register(tripID string, s Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[tripID]
	if !ok {
		room = make(map[Sender]struct{})
		h.rooms[tripID] = room
	}
	room[s] = struct{}{}
}

// Unregister removes a session from a trip's room, dropping the room when
// it empties.
func (h *Hub) Unregister(tripID string, s Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[tripID]
	if !ok {
		return
	}
	delete(room, s)
	if len(room) == 0 {
		delete(h.rooms, tripID)
	}
}

// RoomSize returns the number of sessions watching a trip.
func (h *Hub) RoomSize(tripID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[tripID])
}

// broadcast sends an event to every session in a trip's room. Send errors
// are logged, not fatal: a dead session is cleaned up by its read loop.
func (h *Hub) broadcast(tripID, event string, data any) {
	h.mu.RLock()
	sessions := make([]Sender, 0, len(h.rooms[tripID]))
	for s := range h.rooms[tripID] {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	msg := map[string]any{"event": event, "data": data}
	for _, s := range sessions {
		if err := s.Send(msg); err != nil {
			log.Printf("tracking send error for trip %s: %v", tripID, err)
		}
	}
}

// BroadcastLocation publishes a vehicle position to a trip's room.
func (h *Hub) BroadcastLocation(tripID string, lat, lng float64) {
	h.broadcast(tripID, EventDriverLocation, LocationEvent{
		TripID:      tripID,
		Coordinates: [2]float64{lng, lat},
	})
}

// BroadcastETA publishes a recomputed arrival estimate to a trip's room.
func (h *Hub) BroadcastETA(tripID, eta string) {
	h.broadcast(tripID, EventETA, ETAEvent{TripID: tripID, ETA: eta})
}

// BroadcastError publishes a tracking error to a trip's room.
func (h *Hub) BroadcastError(tripID, message string) {
	h.broadcast(tripID, EventTrackingError, ErrorEvent{Message: message})
}

// JoinTrip, LeaveTrip and RequestDriverLocation make the hub usable as the
// Channel for server-side trackers: joining is implicit in Register, and a
// location request is broadcast to the room for the driver client to answer.

func (h *Hub) JoinTrip(tripID string) error {
	h.broadcast(tripID, EventJoinTrip, map[string]string{"tripId": tripID})
	return nil
}

func (h *Hub) LeaveTrip(tripID string) error {
	h.broadcast(tripID, EventLeaveTrip, map[string]string{"tripId": tripID})
	return nil
}

func (h *Hub) RequestDriverLocation(tripID string) error {
	h.broadcast(tripID, EventRequestDriverLocation, map[string]string{"tripId": tripID})
	return nil
}

// Ensure Hub implements Channel.
var _ Channel = (*Hub)(nil)
