// Package apperror defines the sentinel errors surfaced by HTTP handlers.
package apperror

import "errors"

var (
	// ErrOrderNotFound is returned when no order exists for the requested ID.
	ErrOrderNotFound = errors.New("order not found")

	// ErrCustomerNotFound is returned when no customer exists for the requested ID.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrCustomerExists is returned when creating a customer whose dedup key is taken.
	ErrCustomerExists = errors.New("customer already exists")

	// ErrValidation is returned for malformed or incomplete request payloads.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyUpdate is returned when a partial update carries none of the allowed fields.
	ErrEmptyUpdate = errors.New("update contains no updatable fields")

	// ErrInvalidQuery is returned when order query validation fails.
	ErrInvalidQuery = errors.New("invalid orders query")
)
