package passengers

import "errors"

var (
	ErrNotFound          = errors.New("passenger not found")
	ErrDuplicateDocument = errors.New("document already registered")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrInvalidPassenger  = errors.New("invalid passenger")
)
