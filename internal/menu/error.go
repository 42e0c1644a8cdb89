package menu

import "errors"

var (
	ErrItemNotFound = errors.New("menu item not found")
	ErrInvalidInput = errors.New("invalid menu item input")
	ErrForbidden    = errors.New("forbidden")
)
