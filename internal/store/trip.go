package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/packlane/packlane-api/internal/domain"
)

// TripStore defines the interface for trip data persistence.
type TripStore interface {
	// Create saves a fully generated trip to the store.
	// Returns validation errors from the domain Trip if data is invalid.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by its unique ID.
	// Returns ErrTripNotFound if the trip does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error)

	// ListByOwner retrieves the owner's trips ordered by creation time,
	// newest first. Returns an empty slice if the owner has no trips.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*domain.Trip, error)

	// Delete removes a trip from the store.
	// Returns ErrTripNotFound if the trip does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
