package fleet

import "errors"

var (
	ErrAirplaneNotFound = errors.New("airplane not found")
	ErrSeatNotFound     = errors.New("seat not found")
	ErrInvalidLayout    = errors.New("invalid cabin layout")
	ErrInvalidStatus    = errors.New("invalid seat status")
)
