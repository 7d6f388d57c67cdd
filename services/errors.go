package services

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")

	// ErrCodeSpaceExhausted means the allocator kept colliding past its retry
	// bound. Surfaced as an internal fault, never as client error.
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique short code")
)
