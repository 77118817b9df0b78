package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"triproute/internal/domain"
	"triproute/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest is the HTTP request for requesting a booking.
type CreateBookingRequest struct {
	TripID        string   `json:"trip_id"`
	NumberOfSeats int      `json:"number_of_seats"`
	OriginLat     *float64 `json:"origin_lat,omitempty"`
	OriginLng     *float64 `json:"origin_lng,omitempty"`
	DestLat       *float64 `json:"dest_lat,omitempty"`
	DestLng       *float64 `json:"dest_lng,omitempty"`
}

// BookingResponse is the HTTP response for booking operations.
type BookingResponse struct {
	BookingID       string   `json:"booking_id"`
	TripID          string   `json:"trip_id"`
	Status          string   `json:"status"`
	NumberOfSeats   int      `json:"number_of_seats"`
	OriginLat       *float64 `json:"origin_lat,omitempty"`
	OriginLng       *float64 `json:"origin_lng,omitempty"`
	DestLat         *float64 `json:"dest_lat,omitempty"`
	DestLng         *float64 `json:"dest_lng,omitempty"`
	PickedUp        bool     `json:"picked_up"`
	DroppedOff      bool     `json:"dropped_off"`
	RejectionReason string   `json:"rejection_reason,omitempty"`
}

func bookingResponse(booking *domain.Booking) BookingResponse {
	resp := BookingResponse{
		BookingID:       booking.ID,
		TripID:          booking.TripID,
		Status:          string(booking.Status),
		NumberOfSeats:   booking.NumberOfSeats,
		PickedUp:        booking.PickedUp,
		DroppedOff:      booking.DroppedOff,
		RejectionReason: booking.RejectionReason,
	}

	if booking.PassengerOrigin != nil {
		lat, lng := booking.PassengerOrigin.Latitude, booking.PassengerOrigin.Longitude
		resp.OriginLat = &lat
		resp.OriginLng = &lng
	}
	if booking.PassengerDestination != nil {
		lat, lng := booking.PassengerDestination.Latitude, booking.PassengerDestination.Longitude
		resp.DestLat = &lat
		resp.DestLng = &lng
	}

	return resp
}

// CreateBooking handles POST /v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	svcReq := service.CreateBookingRequest{
		TripID:        req.TripID,
		NumberOfSeats: req.NumberOfSeats,
	}
	if req.OriginLat != nil && req.OriginLng != nil {
		svcReq.Origin = &domain.Coordinate{Latitude: *req.OriginLat, Longitude: *req.OriginLng}
	}
	if req.DestLat != nil && req.DestLng != nil {
		svcReq.Destination = &domain.Coordinate{Latitude: *req.DestLat, Longitude: *req.DestLng}
	}

	booking, err := h.bookingService.Create(c.Request.Context(), svcReq)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, bookingResponse(booking))
}

// GetBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingResponse(booking))
}

// GetTripBookings handles GET /v1/trips/:id/bookings
func (h *BookingHandler) GetTripBookings(c *gin.Context) {
	bookings, err := h.bookingService.GetByTripID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	active := false
	response := make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		if booking.Status == domain.BookingStatusPending {
			active = true
		}
		response = append(response, bookingResponse(booking))
	}

	c.Header("X-Refresh-After", strconv.Itoa(int(service.SummaryPollInterval(active).Seconds())))
	c.JSON(http.StatusOK, response)
}

// AcceptBooking handles POST /v1/bookings/:id/accept
func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	booking, err := h.bookingService.Accept(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingResponse(booking))
}

// RejectBookingRequest is the HTTP request for rejecting a booking.
type RejectBookingRequest struct {
	Reason string `json:"reason"`
}

// RejectBooking handles POST /v1/bookings/:id/reject
func (h *BookingHandler) RejectBooking(c *gin.Context) {
	var req RejectBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.Reject(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingResponse(booking))
}

// ConfirmPickup handles POST /v1/bookings/:id/pickup
func (h *BookingHandler) ConfirmPickup(c *gin.Context) {
	booking, err := h.bookingService.ConfirmPickup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingResponse(booking))
}

// ConfirmDropoff handles POST /v1/bookings/:id/dropoff
func (h *BookingHandler) ConfirmDropoff(c *gin.Context) {
	booking, err := h.bookingService.ConfirmDropoff(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingResponse(booking))
}
