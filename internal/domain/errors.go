package domain

import "errors"

var (
	ErrInvalidTransition = errors.New("Invalid status transition")
	ErrUnknownField      = errors.New("Unknown field in update")
	ErrInvalidInput      = errors.New("Invalid input")
)
