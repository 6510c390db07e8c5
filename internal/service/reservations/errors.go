package reservations

import "errors"

var (
	ErrFlightNotFound       = errors.New("flight not found")
	ErrSeatNotFound         = errors.New("seat not found")
	ErrPassengerNotFound    = errors.New("passenger not found")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrFlightNotBookable    = errors.New("flight is not open for booking")
	ErrSeatTaken            = errors.New("seat is already reserved")
	ErrSeatUnavailable      = errors.New("seat is unavailable")
	ErrSeatNotOnAirplane    = errors.New("seat does not belong to the flight's airplane")
	ErrDuplicateReservation = errors.New("passenger already has a reservation on this flight")
	ErrReservationExpired   = errors.New("reservation has expired")
	ErrInvalidTransition    = errors.New("invalid reservation state transition")
	ErrRateLimited          = errors.New("too many booking attempts")
)
