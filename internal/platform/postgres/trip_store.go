package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/packlane/packlane-api/internal/domain"
	"github.com/packlane/packlane-api/internal/platform/logger"
	"github.com/packlane/packlane-api/internal/store"
)

// DB is the subset of pgxpool.Pool the stores need. Satisfied by
// *pgxpool.Pool and stubbed in unit tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripStore implements store.TripStore using a PostgreSQL database. The
// request inputs and generation results are stored as JSONB documents; the
// columns used for filtering and ordering are proper scalars.
type TripStore struct {
	db     DB
	logger *slog.Logger
}

// Ensure TripStore implements store.TripStore interface
var _ store.TripStore = (*TripStore)(nil)

// NewTripStore creates a PostgreSQL implementation of store.TripStore.
func NewTripStore(db DB, log *slog.Logger) *TripStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TripStore{
		db:     db,
		logger: log.With(slog.String("component", "trip_store")),
	}
}

// tripDoc bundles the JSONB columns of one trip row.
type tripDoc struct {
	activities   []byte
	transport    []byte
	travelers    []byte
	weather      []byte
	packingLists []byte
	failures     []byte
}

func encodeTrip(trip *domain.Trip) (tripDoc, error) {
	var doc tripDoc
	var err error

	if doc.activities, err = json.Marshal(trip.Activities); err != nil {
		return doc, fmt.Errorf("encoding activities: %w", err)
	}
	if doc.transport, err = json.Marshal(trip.Transport); err != nil {
		return doc, fmt.Errorf("encoding transport: %w", err)
	}
	if doc.travelers, err = json.Marshal(trip.Travelers); err != nil {
		return doc, fmt.Errorf("encoding travelers: %w", err)
	}
	if trip.Weather != nil {
		if doc.weather, err = json.Marshal(trip.Weather); err != nil {
			return doc, fmt.Errorf("encoding weather: %w", err)
		}
	}
	if doc.packingLists, err = json.Marshal(trip.PackingLists); err != nil {
		return doc, fmt.Errorf("encoding packing lists: %w", err)
	}
	if doc.failures, err = json.Marshal(trip.Failures); err != nil {
		return doc, fmt.Errorf("encoding failures: %w", err)
	}
	return doc, nil
}

func decodeTrip(trip *domain.Trip, doc tripDoc) error {
	if err := json.Unmarshal(doc.activities, &trip.Activities); err != nil {
		return fmt.Errorf("decoding activities: %w", err)
	}
	if err := json.Unmarshal(doc.transport, &trip.Transport); err != nil {
		return fmt.Errorf("decoding transport: %w", err)
	}
	if err := json.Unmarshal(doc.travelers, &trip.Travelers); err != nil {
		return fmt.Errorf("decoding travelers: %w", err)
	}
	if len(doc.weather) > 0 {
		trip.Weather = &domain.Forecast{}
		if err := json.Unmarshal(doc.weather, trip.Weather); err != nil {
			return fmt.Errorf("decoding weather: %w", err)
		}
	}
	if err := json.Unmarshal(doc.packingLists, &trip.PackingLists); err != nil {
		return fmt.Errorf("decoding packing lists: %w", err)
	}
	if len(doc.failures) > 0 {
		if err := json.Unmarshal(doc.failures, &trip.Failures); err != nil {
			return fmt.Errorf("decoding failures: %w", err)
		}
	}
	return nil
}

// Create saves a generated trip. Returns validation errors from the domain
// Trip if data is invalid and store.ErrDuplicate if the ID already exists.
func (s *TripStore) Create(ctx context.Context, trip *domain.Trip) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := trip.Validate(); err != nil {
		log.Warn("trip validation failed during create",
			slog.String("error", err.Error()),
			slog.String("trip_id", trip.ID.String()))
		return err
	}

	doc, err := encodeTrip(trip)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO trips (
			id, owner_id, destination, start_date, end_date,
			activities, transport, travelers, weather,
			packing_lists, failures, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = s.db.Exec(ctx, query,
		trip.ID,
		trip.OwnerID,
		trip.Destination,
		trip.StartDate,
		trip.EndDate,
		doc.activities,
		doc.transport,
		doc.travelers,
		doc.weather,
		doc.packingLists,
		doc.failures,
		trip.CreatedAt,
		trip.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create trip",
			slog.String("error", err.Error()),
			slog.String("trip_id", trip.ID.String()),
			slog.String("owner_id", trip.OwnerID.String()))
		return mapError(err)
	}

	log.Debug("trip created",
		slog.String("trip_id", trip.ID.String()),
		slog.String("destination", trip.Destination))
	return nil
}

// GetByID retrieves a trip by its unique ID.
// Returns store.ErrTripNotFound if the trip does not exist.
func (s *TripStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, destination, start_date, end_date,
		       activities, transport, travelers, weather,
		       packing_lists, failures, created_at, updated_at
		FROM trips
		WHERE id = $1
	`

	var trip domain.Trip
	var doc tripDoc

	err := s.db.QueryRow(ctx, query, id).Scan(
		&trip.ID,
		&trip.OwnerID,
		&trip.Destination,
		&trip.StartDate,
		&trip.EndDate,
		&doc.activities,
		&doc.transport,
		&doc.travelers,
		&doc.weather,
		&doc.packingLists,
		&doc.failures,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug("trip not found", slog.String("trip_id", id.String()))
			return nil, store.ErrTripNotFound
		}
		log.Error("failed to get trip",
			slog.String("error", err.Error()),
			slog.String("trip_id", id.String()))
		return nil, mapError(err)
	}

	if err := decodeTrip(&trip, doc); err != nil {
		log.Error("failed to decode trip row",
			slog.String("error", err.Error()),
			slog.String("trip_id", id.String()))
		return nil, err
	}

	return &trip, nil
}

// ListByOwner retrieves the owner's trips, newest first.
// Returns an empty slice when the owner has no trips.
func (s *TripStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	limit, offset int,
) ([]*domain.Trip, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, owner_id, destination, start_date, end_date,
		       activities, transport, travelers, weather,
		       packing_lists, failures, created_at, updated_at
		FROM trips
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		log.Error("failed to list trips",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, mapError(err)
	}
	defer rows.Close()

	trips := []*domain.Trip{}
	for rows.Next() {
		var trip domain.Trip
		var doc tripDoc

		err := rows.Scan(
			&trip.ID,
			&trip.OwnerID,
			&trip.Destination,
			&trip.StartDate,
			&trip.EndDate,
			&doc.activities,
			&doc.transport,
			&doc.travelers,
			&doc.weather,
			&doc.packingLists,
			&doc.failures,
			&trip.CreatedAt,
			&trip.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan trip row", slog.String("error", err.Error()))
			return nil, mapError(err)
		}
		if err := decodeTrip(&trip, doc); err != nil {
			return nil, err
		}
		trips = append(trips, &trip)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning trip rows", slog.String("error", err.Error()))
		return nil, mapError(err)
	}

	return trips, nil
}

// Delete removes a trip by ID.
// Returns store.ErrTripNotFound if the trip does not exist.
func (s *TripStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tag, err := s.db.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete trip",
			slog.String("error", err.Error()),
			slog.String("trip_id", id.String()))
		return mapError(err)
	}

	if tag.RowsAffected() == 0 {
		log.Debug("trip not found for delete", slog.String("trip_id", id.String()))
		return store.ErrTripNotFound
	}

	log.Debug("trip deleted", slog.String("trip_id", id.String()))
	return nil
}
