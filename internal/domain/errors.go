package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Violations returned by Validate wrap it so callers can use errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidKey is returned when a natural key component is outside its
	// allowed range.
	ErrInvalidKey = errors.New("invalid key")
)
