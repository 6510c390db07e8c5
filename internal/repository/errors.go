package repository

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrEmailTaken           = errors.New("email already registered")
	ErrSeatNotFound         = errors.New("seat not found")
	ErrPassengerNotFound    = errors.New("passenger not found")
	ErrSeatTaken            = errors.New("seat already held for this flight")
	ErrSeatUnavailable      = errors.New("seat unavailable")
	ErrSeatNotOnAirplane    = errors.New("seat does not belong to the flight's airplane")
	ErrDuplicateReservation = errors.New("passenger already holds a reservation for this flight")
	ErrFlightNotBookable    = errors.New("flight not open for reservations")
	ErrExpired              = errors.New("reservation expired")
	ErrInvalidState         = errors.New("action not allowed in current state")
	ErrCodesExhausted       = errors.New("could not generate a unique code")
)
