package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"triproute/internal/domain"
	"triproute/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest is the HTTP request for publishing a trip.
type CreateTripRequest struct {
	DepartureName string  `json:"departure_name"`
	DepartureLat  float64 `json:"departure_lat"`
	DepartureLng  float64 `json:"departure_lng"`
	ArrivalName   string  `json:"arrival_name"`
	ArrivalLat    float64 `json:"arrival_lat"`
	ArrivalLng    float64 `json:"arrival_lng"`
	DepartureTime string  `json:"departure_time"`
}

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	TripID        string   `json:"trip_id"`
	Status        string   `json:"status"`
	DisplayStatus string   `json:"display_status"`
	DepartureName string   `json:"departure_name"`
	DepartureLat  float64  `json:"departure_lat"`
	DepartureLng  float64  `json:"departure_lng"`
	ArrivalName   string   `json:"arrival_name"`
	ArrivalLat    float64  `json:"arrival_lat"`
	ArrivalLng    float64  `json:"arrival_lng"`
	DepartureTime string   `json:"departure_time"`
	Progress      float64  `json:"progress"`
	CurrentLat    *float64 `json:"current_lat,omitempty"`
	CurrentLng    *float64 `json:"current_lng,omitempty"`
}

func tripResponse(trip *domain.Trip) TripResponse {
	resp := TripResponse{
		TripID:        trip.ID,
		Status:        string(trip.Status),
		DisplayStatus: string(domain.ClassifyDisplayStatus(trip.Status, trip.DepartureTime, time.Now())),
		DepartureName: trip.DepartureName,
		DepartureLat:  trip.Departure.Latitude,
		DepartureLng:  trip.Departure.Longitude,
		ArrivalName:   trip.ArrivalName,
		ArrivalLat:    trip.Arrival.Latitude,
		ArrivalLng:    trip.Arrival.Longitude,
		DepartureTime: trip.DepartureTime.Format(time.RFC3339),
		Progress:      trip.Progress,
	}

	if trip.CurrentLocation != nil {
		lat, lng := trip.CurrentLocation.Latitude, trip.CurrentLocation.Longitude
		resp.CurrentLat = &lat
		resp.CurrentLng = &lng
	}

	return resp
}

// CreateTrip handles POST /v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	departureTime, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "departure_time must be RFC3339"})
		return
	}

	trip, err := h.tripService.Create(c.Request.Context(), service.CreateTripRequest{
		DepartureName: req.DepartureName,
		Departure:     domain.Coordinate{Latitude: req.DepartureLat, Longitude: req.DepartureLng},
		ArrivalName:   req.ArrivalName,
		Arrival:       domain.Coordinate{Latitude: req.ArrivalLat, Longitude: req.ArrivalLng},
		DepartureTime: departureTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, tripResponse(trip))
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// GetAll handles GET /v1/trips
func (h *TripHandler) GetAll(c *gin.Context) {
	trips, err := h.tripService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	active := false
	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		if trip.Status == domain.TripStatusOngoing {
			active = true
		}
		response = append(response, tripResponse(trip))
	}

	// Clients poll summaries; the hint shortens while anything is live.
	c.Header("X-Refresh-After", strconv.Itoa(int(service.SummaryPollInterval(active).Seconds())))
	c.JSON(http.StatusOK, response)
}

// StartTrip handles POST /v1/trips/:id/start
func (h *TripHandler) StartTrip(c *gin.Context) {
	trip, err := h.tripService.Start(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// CancelTrip handles POST /v1/trips/:id/cancel
func (h *TripHandler) CancelTrip(c *gin.Context) {
	trip, err := h.tripService.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// CompleteTrip handles POST /v1/trips/:id/complete
func (h *TripHandler) CompleteTrip(c *gin.Context) {
	trip, err := h.tripService.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// ProgressRequest is the HTTP request for a progress update.
type ProgressRequest struct {
	Progress float64 `json:"progress"`
}

// UpdateProgress handles POST /v1/trips/:id/progress
func (h *TripHandler) UpdateProgress(c *gin.Context) {
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.RecordProgress(c.Request.Context(), c.Param("id"), req.Progress)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// RouteResponse is the HTTP response for a trip route.
type RouteResponse struct {
	Coordinates     []domain.Coordinate `json:"coordinates"`
	DistanceMeters  *float64            `json:"distance_meters,omitempty"`
	DurationSeconds *float64            `json:"duration_seconds,omitempty"`
	Fallback        bool                `json:"fallback"`
}

// GetRoute handles GET /v1/trips/:id/route
//
// Optional origin_lat/origin_lng and dest_lat/dest_lng query parameters
// substitute the trip's nominal endpoints.
func (h *TripHandler) GetRoute(c *gin.Context) {
	origin, err := coordinateQuery(c, "origin_lat", "origin_lng")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	destination, err := coordinateQuery(c, "dest_lat", "dest_lng")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	route, err := h.tripService.Route(c.Request.Context(), c.Param("id"), origin, destination)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := RouteResponse{
		Coordinates: route.Coordinates,
		Fallback:    route.Fallback,
	}
	// Fallback routes carry no metrics; omit rather than claim zero.
	if route.HasMetrics {
		resp.DistanceMeters = &route.DistanceMeters
		resp.DurationSeconds = &route.DurationSeconds
	}

	respondJSON(c, http.StatusOK, resp)
}

// ETAResponse is the HTTP response for a trip ETA.
type ETAResponse struct {
	TripID string `json:"trip_id"`
	ETA    string `json:"eta"`
}

// GetETA handles GET /v1/trips/:id/eta
func (h *TripHandler) GetETA(c *gin.Context) {
	tripID := c.Param("id")

	eta, err := h.tripService.ETA(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, ETAResponse{
		TripID: tripID,
		ETA:    eta.Format(time.RFC3339),
	})
}

// SnapRequest is the HTTP request for snapping a point to a trip's route.
type SnapRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SnapResponse is the HTTP response for a snapped point.
type SnapResponse struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Snapped      bool    `json:"snapped"`
	SegmentIndex int     `json:"segment_index,omitempty"`
}

// SnapPoint handles POST /v1/trips/:id/snap
func (h *TripHandler) SnapPoint(c *gin.Context) {
	var req SnapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	point, snap, err := h.tripService.SnapToRoute(c.Request.Context(), c.Param("id"), domain.Coordinate{
		Latitude:  req.Lat,
		Longitude: req.Lng,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := SnapResponse{Lat: point.Latitude, Lng: point.Longitude}
	if snap != nil {
		resp.Snapped = true
		resp.SegmentIndex = snap.SegmentIndex
	}

	respondJSON(c, http.StatusOK, resp)
}

// coordinateQuery parses an optional lat/lng query pair. Both or neither
// must be present.
func coordinateQuery(c *gin.Context, latKey, lngKey string) (*domain.Coordinate, error) {
	latStr := c.Query(latKey)
	lngStr := c.Query(lngKey)
	if latStr == "" && lngStr == "" {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, errInvalidQueryCoordinate
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, errInvalidQueryCoordinate
	}

	return &domain.Coordinate{Latitude: lat, Longitude: lng}, nil
}
