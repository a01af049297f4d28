// Package apperr holds the storefront error taxonomy. Every error is terminal
// for the gesture that caused it; none is retried.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrPersistence        = errors.New("persistence failure")
	ErrDelivery           = errors.New("message delivery failed")
	ErrValidation         = errors.New("validation failed")
	ErrProductNotFound    = errors.New("product not found")
	ErrNoSession          = errors.New("no active session")
	ErrInvalidTransition  = errors.New("invalid view transition")
	ErrMissingSelection   = errors.New("product detail requires a selected product")
)

// Persistence wraps an adapter read/write failure so callers can match it
// with errors.Is(err, ErrPersistence) while keeping the cause.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// Delivery wraps a notification submission failure.
func Delivery(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrDelivery, err)
}

// StatusCode maps an error to the HTTP status used by the API.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, ErrDuplicateAccount), errors.Is(err, ErrEmptyCart), errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrValidation), errors.Is(err, ErrMissingSelection):
		return http.StatusBadRequest
	case errors.Is(err, ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPersistence), errors.Is(err, ErrDelivery):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message is the user-facing notice for err. Wrapped causes are not leaked.
func Message(err error) string {
	for _, known := range []error{
		ErrInvalidCredentials, ErrDuplicateAccount, ErrEmptyCart, ErrPersistence,
		ErrDelivery, ErrValidation, ErrProductNotFound, ErrNoSession,
		ErrInvalidTransition, ErrMissingSelection,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "internal error"
}
