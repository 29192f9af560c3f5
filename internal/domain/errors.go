package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidDateRange is returned when a trip's end date precedes its
	// start date or a date is not a valid calendar date.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidTravelerType is returned when a traveler type is not one of
	// the recognized values.
	ErrInvalidTravelerType = errors.New("invalid traveler type")

	// ErrNoTravelers is returned when a trip request contains no travelers.
	ErrNoTravelers = errors.New("trip must have at least one traveler")

	// ErrInvalidJobStatus is returned when a job status is not valid.
	ErrInvalidJobStatus = errors.New("invalid job status")

	// ErrTerminalJob is returned when attempting to transition a job that
	// has already reached a terminal state.
	ErrTerminalJob = errors.New("job is in a terminal state")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
