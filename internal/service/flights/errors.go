package flights

import "errors"

var (
	ErrNotFound        = errors.New("flight not found")
	ErrInvalidSchedule = errors.New("arrival must be after departure")
	ErrInvalidFlight   = errors.New("invalid flight")
	ErrDuplicateNumber = errors.New("flight number already exists for that departure")
	ErrNoAirplane      = errors.New("airplane missing or inactive")
)
