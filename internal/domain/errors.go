// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidRole is returned when a role is not one of user, manager, admin.
	ErrInvalidRole = fmt.Errorf("%w: invalid role", ErrValidation)

	// ErrUnauthorized is returned when an operation is not permitted
	// for the calling user.
	ErrUnauthorized = errors.New("unauthorized operation")
)
