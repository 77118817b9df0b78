package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"triproute/internal/repository"
	"triproute/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// errInvalidQueryCoordinate reports a malformed or half-specified lat/lng
// query pair.
var errInvalidQueryCoordinate = errors.New("coordinate query parameters must be a numeric lat/lng pair")

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidSeatCount),
		errors.Is(err, service.ErrInvalidOrigin),
		errors.Is(err, service.ErrInvalidDestination),
		errors.Is(err, service.ErrInvalidCoordinate),
		errors.Is(err, service.ErrInvalidDepartureTime),
		errors.Is(err, service.ErrInvalidProgress),
		errors.Is(err, service.ErrEmptyRejectionReason):
		return http.StatusBadRequest

	// Guard violations - Conflict
	case errors.Is(err, service.ErrBookingNotPending),
		errors.Is(err, service.ErrBookingNotAccepted),
		errors.Is(err, service.ErrDropoffBeforePickup),
		errors.Is(err, service.ErrTripNotUpcoming),
		errors.Is(err, service.ErrTripNotOngoing),
		errors.Is(err, service.ErrTripCannotBeCancelled),
		errors.Is(err, service.ErrProgressNotMonotonic):
		return http.StatusConflict

	// Degraded upstream
	case errors.Is(err, service.ErrRouteUnavailable),
		errors.Is(err, service.ErrETAUnavailable):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
