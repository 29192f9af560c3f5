// Package tripgen implements the trip generation pipeline: fetch the
// forecast, generate one packing list per traveler, assemble the trip, and
// persist it. The scheduler drives it; the pipeline itself is stateless.
package tripgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/packlane/packlane-api/internal/domain"
	"github.com/packlane/packlane-api/internal/generation"
	"github.com/packlane/packlane-api/internal/redact"
	"github.com/packlane/packlane-api/internal/store"
)

// ErrAllTravelersFailed is returned when not a single traveler's list could
// be generated. Partial failures do not produce this error; the trip is
// saved with a failure manifest instead.
var ErrAllTravelersFailed = errors.New("no packing lists could be generated")

// maxConcurrentGenerations bounds the per-trip fan-out so one large family
// cannot monopolize the LLM quota.
const maxConcurrentGenerations = 4

// WeatherSource provides the forecast for a destination and date range.
// Implemented by the weather cache.
type WeatherSource interface {
	Get(ctx context.Context, location string, start, end time.Time) (*domain.Forecast, error)
}

// Pipeline runs the full generation flow for one trip request.
type Pipeline struct {
	weather   WeatherSource
	generator generation.Generator
	trips     store.TripStore
	logger    *slog.Logger
}

// NewPipeline creates a trip generation pipeline.
func NewPipeline(
	weather WeatherSource,
	generator generation.Generator,
	trips store.TripStore,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		weather:   weather,
		generator: generator,
		trips:     trips,
		logger:    logger.With("component", "tripgen_pipeline"),
	}
}

// travelerResult carries one traveler's generation outcome across the
// fan-out boundary.
type travelerResult struct {
	traveler domain.Traveler
	items    []domain.PackingItem
	err      error
}

// Run executes the pipeline and returns the ID of the persisted trip.
//
// The per-traveler fan-out tolerates partial failure: as long as at least
// one traveler gets a list, the trip is saved and the failed travelers are
// recorded in its failure manifest. Only when every traveler fails does the
// run itself fail.
func (p *Pipeline) Run(ctx context.Context, ownerID uuid.UUID, req domain.TripRequest) (uuid.UUID, error) {
	totalStart := time.Now()
	logger := p.logger.With("destination", req.Destination, "travelers", len(req.Travelers))

	weatherStart := time.Now()
	forecast, err := p.weather.Get(ctx, req.Destination, req.StartDate, req.EndDate)
	if err != nil {
		return uuid.Nil, fmt.Errorf("weather lookup: %w", err)
	}
	weatherMs := time.Since(weatherStart).Milliseconds()

	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}

	genStart := time.Now()
	results := p.generateAll(ctx, req, forecast)
	genMs := time.Since(genStart).Milliseconds()

	lists := make([]domain.PackingList, 0, len(results))
	var failures []domain.TravelerFailure
	var genErrs []error

	for _, res := range results {
		if res.err != nil {
			logger.Error("traveler generation failed",
				"traveler", res.traveler.DisplayName(),
				"error", redact.Error(res.err))
			failures = append(failures, domain.TravelerFailure{
				TravelerID:   res.traveler.ID,
				TravelerName: res.traveler.DisplayName(),
				Reason:       failureReason(res.err),
			})
			genErrs = append(genErrs, res.err)
			continue
		}
		lists = append(lists, domain.PackingList{
			TravelerID:   res.traveler.ID,
			TravelerName: res.traveler.DisplayName(),
			Items:        res.items,
		})
	}

	if len(lists) == 0 {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrAllTravelersFailed, multierr.Combine(genErrs...))
	}

	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}

	trip, err := domain.NewTrip(ownerID, req, forecast, lists, failures)
	if err != nil {
		return uuid.Nil, fmt.Errorf("assembling trip: %w", err)
	}

	persistStart := time.Now()
	if err := p.trips.Create(ctx, trip); err != nil {
		return uuid.Nil, fmt.Errorf("saving trip: %w", err)
	}

	logger.Info("trip generated",
		"trip_id", trip.ID,
		"lists", len(lists),
		"failures", len(failures),
		"weather_ms", weatherMs,
		"generation_ms", genMs,
		"persist_ms", time.Since(persistStart).Milliseconds(),
		"total_ms", time.Since(totalStart).Milliseconds())
	return trip.ID, nil
}

// generateAll fans out one generation call per traveler with bounded
// concurrency and collects every result; a failing traveler never cancels
// the others.
func (p *Pipeline) generateAll(ctx context.Context, req domain.TripRequest, forecast *domain.Forecast) []travelerResult {
	primary, hasPrimary := req.PrimaryPacker()

	results := make([]travelerResult, len(req.Travelers))
	var g errgroup.Group
	g.SetLimit(maxConcurrentGenerations)

	for i, traveler := range req.Travelers {
		g.Go(func() error {
			tripCtx := generation.TripContext{
				Destination:     req.Destination,
				DurationDays:    req.DurationDays(),
				Activities:      req.Activities,
				Transport:       req.Transport,
				Weather:         forecast,
				IsPrimaryPacker: hasPrimary && traveler.ID == primary.ID,
			}
			items, err := p.generator.GeneratePackingList(ctx, traveler, tripCtx)
			results[i] = travelerResult{traveler: traveler, items: items, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// failureReason renders a generation error as a short message fit for the
// trip's failure manifest.
func failureReason(err error) string {
	switch {
	case errors.Is(err, generation.ErrContentBlocked):
		return "content was blocked by safety filters"
	case errors.Is(err, generation.ErrInvalidResponse):
		return "the generated list could not be parsed"
	case errors.Is(err, generation.ErrTransientFailure):
		return "a temporary service issue interrupted generation"
	case errors.Is(err, context.DeadlineExceeded):
		return "generation timed out"
	default:
		return "packing list generation failed"
	}
}
