package generation

import (
	"context"

	"github.com/packlane/packlane-api/internal/domain"
)

// TripContext carries the trip-wide inputs shared by every traveler's
// generation call: where, how long, what for, and the weather.
type TripContext struct {
	Destination  string
	DurationDays int
	Activities   []string
	Transport    []string
	Weather      *domain.Forecast
	// IsPrimaryPacker marks the traveler who carries shared items
	// (first-aid kit, chargers, documents) so they are not duplicated
	// on every list.
	IsPrimaryPacker bool
}

// Generator defines the interface for generating a packing list for one
// traveler. This interface serves as a boundary between the application
// core and external AI/LLM services; the pipeline fans out one call per
// traveler and merges the results.
type Generator interface {
	// GeneratePackingList creates a packing list for a single traveler
	// given the shared trip context. A single call can take seconds to
	// tens of seconds; implementations must honor ctx cancellation.
	//
	// Returns the generated items, or an error classified against the
	// sentinels in errors.go (transient failures may be retried by the
	// caller, invalid-response failures may not).
	GeneratePackingList(ctx context.Context, traveler domain.Traveler, tripCtx TripContext) ([]domain.PackingItem, error)
}
