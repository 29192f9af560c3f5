package weatherapi

import "errors"

// Sentinel errors for forecast retrieval. Callers classify them with
// errors.Is to decide whether a retry can help.
var (
	// ErrProviderUnavailable indicates a network failure, timeout, or 5xx
	// from the weather provider. Retryable.
	ErrProviderUnavailable = errors.New("weather provider unavailable")

	// ErrLocationNotFound indicates the provider does not recognize the
	// requested location. Not retryable; the request itself is at fault.
	ErrLocationNotFound = errors.New("location not found")

	// ErrInvalidResponse indicates the provider answered with a body that
	// could not be parsed into a forecast. Not retryable.
	ErrInvalidResponse = errors.New("invalid weather provider response")

	// ErrInvalidConfig indicates the client was constructed with missing
	// or malformed settings.
	ErrInvalidConfig = errors.New("invalid weatherapi configuration")
)
