package job

import (
	"context"
	"errors"

	"github.com/packlane/packlane-api/internal/domain"
	"github.com/packlane/packlane-api/internal/generation"
	"github.com/packlane/packlane-api/internal/platform/weatherapi"
	"github.com/packlane/packlane-api/internal/store"
)

// User-safe failure messages. Internal error text can leak provider details
// or keys, so jobs surface these instead; the raw error goes to the logs.
const (
	msgTimeout    = "generation timed out, please try again"
	msgBadRequest = "trip request is invalid, please review it and resubmit"
	msgBadPlace   = "destination not recognized, please check the spelling"
	msgTransient  = "a temporary service issue interrupted generation, please try again"
	msgStorage    = "the generated trip could not be saved, please try again"
	msgUnknown    = "an unexpected error interrupted generation, please try again"
)

// validationErrs are request faults that retrying can never fix.
var validationErrs = []error{
	domain.ErrValidation,
	domain.ErrInvalidDateRange,
	domain.ErrInvalidTravelerType,
	domain.ErrNoTravelers,
	domain.ErrEmptyDestination,
	domain.ErrEmptyTravelerName,
	domain.ErrNegativeTravelerAge,
}

// Classify maps a pipeline error to a failure kind and a message safe to
// show to the submitting client.
func Classify(err error) (domain.FailureKind, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.FailureTimeout, msgTimeout
	case errors.Is(err, weatherapi.ErrLocationNotFound):
		return domain.FailureValidation, msgBadPlace
	case isValidation(err):
		return domain.FailureValidation, msgBadRequest
	case errors.Is(err, store.ErrUnavailable):
		return domain.FailureStorage, msgStorage
	case errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, weatherapi.ErrProviderUnavailable):
		return domain.FailureTransient, msgTransient
	default:
		return domain.FailureUnknown, msgUnknown
	}
}

// IsRetryable reports whether another attempt could plausibly succeed.
// Timeouts are excluded: the hard deadline covers all attempts, so there is
// no budget left to retry into.
func IsRetryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, generation.ErrTransientFailure) ||
		errors.Is(err, weatherapi.ErrProviderUnavailable) ||
		errors.Is(err, store.ErrUnavailable)
}

func isValidation(err error) bool {
	for _, sentinel := range validationErrs {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
