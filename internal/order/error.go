package order

import "errors"

var (
	// ErrOrderNotFound covers both a missing id and an ownership-scoped
	// miss, so callers cannot probe for other users' orders.
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("order can no longer be changed")
	ErrInvalidStatus     = errors.New("invalid status value")
	ErrInvalidInput      = errors.New("invalid order input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
)
