package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"triproute/internal/domain"
	"triproute/internal/observability"
	"triproute/internal/service"
	"triproute/internal/tracking"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checks belong to the gateway in front of this service.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// TrackHandler upgrades trip-tracking requests to WebSocket sessions and
// bridges the live location channel to the ETA watcher.
type TrackHandler struct {
	tripService *service.TripService
	etaService  *service.ETAService
	hub         *tracking.Hub
	interval    time.Duration
}

// NewTrackHandler creates a new TrackHandler. interval controls how often
// the server re-requests the driver's position for the room.
func NewTrackHandler(
	tripService *service.TripService,
	etaService *service.ETAService,
	hub *tracking.Hub,
	interval time.Duration,
) *TrackHandler {
	return &TrackHandler{
		tripService: tripService,
		etaService:  etaService,
		hub:         hub,
		interval:    interval,
	}
}

// Track handles GET /v1/trips/:id/track
//
// The session stays open until the client disconnects. Incoming
// driverLocation frames update the vehicle position and feed the debounced
// ETA watcher; position and ETA updates fan out to every session in the
// trip's room.
func (h *TrackHandler) Track(c *gin.Context) {
	tripID := c.Param("id")

	trip, err := h.tripService.Get(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		log.Printf("websocket upgrade failed for trip %s: %v", tripID, err)
		return
	}

	session := tracking.NewSession(conn)
	h.hub.Register(tripID, session)
	observability.TrackingSessions.Inc()

	tracker := tracking.StartTracker(h.hub, tripID, h.interval)
	watcher := h.etaService.Watch(tripID, func(eta time.Time) {
		h.hub.BroadcastETA(tripID, eta.Format(time.RFC3339))
	})

	// The nominal route feeds the progress fallback while no live
	// position-based estimate is possible. Best effort; the watcher copes
	// with a nil route.
	route, err := h.tripService.Route(c.Request.Context(), tripID, nil, nil)
	if err != nil {
		route = nil
	}

	defer func() {
		tracker.Dispose()
		watcher.Stop()
		h.hub.Unregister(tripID, session)
		observability.TrackingSessions.Dec()
		_ = conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("tracking session closed unexpectedly for trip %s: %v", tripID, err)
			}
			return
		}

		var envelope tracking.Envelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			h.hub.BroadcastError(tripID, "malformed tracking frame")
			continue
		}

		switch envelope.Event {
		case tracking.EventDriverLocation:
			h.handleDriverLocation(c, trip, route, watcher, envelope.Data)
		case tracking.EventLeaveTrip:
			return
		default:
			// Frames the server doesn't consume (join acks, ping payloads)
			// are ignored rather than rejected.
		}
	}
}

func (h *TrackHandler) handleDriverLocation(c *gin.Context, trip *domain.Trip, route *domain.RouteInfo, watcher *service.Watcher, data json.RawMessage) {
	var event tracking.LocationEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.hub.BroadcastError(trip.ID, "malformed driverLocation frame")
		return
	}

	// Wire order is [longitude, latitude].
	coord := domain.Coordinate{
		Latitude:  event.Coordinates[1],
		Longitude: event.Coordinates[0],
	}

	if err := h.tripService.RecordLocation(c.Request.Context(), trip.ID, coord); err != nil {
		h.hub.BroadcastError(trip.ID, "invalid vehicle position")
		return
	}

	h.hub.BroadcastLocation(trip.ID, coord.Latitude, coord.Longitude)

	// The watcher's debounced computation reads the trip from another
	// goroutine, so it gets its own snapshot per frame; the shared trip is
	// never written after the session starts. Each session keeps its own
	// watcher; the fetch guard makes concurrent sessions for the same trip
	// converge on one provider call per window.
	snapshot := *trip
	snapshot.CurrentLocation = &coord
	watcher.ObservePosition(&snapshot, route)
}
