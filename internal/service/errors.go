package service

import "errors"

var (
	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidBookingID is returned when booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidSeatCount is returned when a booking requests fewer than one seat.
	ErrInvalidSeatCount = errors.New("invalid seat count")

	// ErrInvalidOrigin is returned when origin coordinates are out of range.
	ErrInvalidOrigin = errors.New("invalid origin coordinates")

	// ErrInvalidDestination is returned when destination coordinates are out of range.
	ErrInvalidDestination = errors.New("invalid destination coordinates")

	// ErrInvalidCoordinate is returned when a supplied coordinate is out of range.
	ErrInvalidCoordinate = errors.New("invalid coordinates")

	// ErrInvalidDepartureTime is returned when a trip is created without a departure time.
	ErrInvalidDepartureTime = errors.New("invalid departure time")

	// ErrEmptyRejectionReason is returned when rejecting a booking without a reason.
	ErrEmptyRejectionReason = errors.New("rejection reason must not be empty")

	// ErrBookingNotPending is returned when accepting or rejecting a booking
	// that is no longer pending.
	ErrBookingNotPending = errors.New("booking not pending")

	// ErrBookingNotAccepted is returned when confirming pickup or dropoff on
	// a booking that was never accepted.
	ErrBookingNotAccepted = errors.New("booking not accepted")

	// ErrDropoffBeforePickup is returned when confirming dropoff before pickup.
	ErrDropoffBeforePickup = errors.New("cannot confirm dropoff before pickup")

	// ErrTripNotUpcoming is returned when starting a trip not in UPCOMING state.
	ErrTripNotUpcoming = errors.New("trip not upcoming")

	// ErrTripNotOngoing is returned when an operation requires an ongoing trip.
	ErrTripNotOngoing = errors.New("trip not ongoing")

	// ErrTripCannotBeCancelled is returned when cancelling a trip that already
	// departed; an ongoing trip can only be driven to completion.
	ErrTripCannotBeCancelled = errors.New("trip cannot be cancelled in current state")

	// ErrProgressNotMonotonic is returned when a progress update would move backwards.
	ErrProgressNotMonotonic = errors.New("progress cannot decrease")

	// ErrInvalidProgress is returned when progress is outside 0-100.
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")

	// ErrRouteUnavailable is returned when the directions provider failed hard
	// and no usable route exists for the caller to reuse.
	ErrRouteUnavailable = errors.New("route unavailable")

	// ErrETAUnavailable is returned when neither a live position nor a usable
	// route duration exists to estimate from.
	ErrETAUnavailable = errors.New("eta unavailable")
)
