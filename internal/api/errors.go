package api

import (
	"errors"
	"net/http"

	"github.com/packlane/packlane-api/internal/domain"
	"github.com/packlane/packlane-api/internal/job"
	"github.com/packlane/packlane-api/internal/service/auth"
	"github.com/packlane/packlane-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrBadCredentials):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrTripNotFound),
		errors.Is(err, store.ErrJobNotFound):
		return http.StatusNotFound

	// Backpressure: the submission queue is full or shutting down
	case errors.Is(err, job.ErrQueueFull),
		errors.Is(err, job.ErrQueueClosed),
		errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidTravelerType),
		errors.Is(err, domain.ErrNoTravelers),
		errors.Is(err, domain.ErrEmptyDestination),
		errors.Is(err, domain.ErrEmptyTravelerName),
		errors.Is(err, domain.ErrNegativeTravelerAge),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrBadCredentials):
		return "Invalid credentials"

	case errors.Is(err, store.ErrTripNotFound):
		return "Trip not found"

	case errors.Is(err, store.ErrJobNotFound):
		return "Job not found"

	case errors.Is(err, job.ErrQueueFull),
		errors.Is(err, job.ErrQueueClosed):
		return "Service is at capacity, please try again later"

	case errors.Is(err, store.ErrUnavailable):
		return "Service temporarily unavailable"

	case errors.Is(err, domain.ErrInvalidDateRange):
		return "Invalid trip dates"

	case errors.Is(err, domain.ErrNoTravelers):
		return "Trip must have at least one traveler"

	case errors.Is(err, domain.ErrInvalidTravelerType):
		return "Traveler type must be adult or child"

	case errors.Is(err, domain.ErrEmptyDestination):
		return "Destination is required"

	case errors.Is(err, domain.ErrEmptyTravelerName):
		return "Traveler name is required"

	case errors.Is(err, domain.ErrNegativeTravelerAge):
		return "Traveler age cannot be negative"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}
