package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packlane/packlane-api/internal/domain"
	"github.com/packlane/packlane-api/internal/store"
)

// fakeTripStore is a map-backed store.TripStore for handler tests.
type fakeTripStore struct {
	trips map[uuid.UUID]*domain.Trip
	err   error
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{trips: make(map[uuid.UUID]*domain.Trip)}
}

func (s *fakeTripStore) Create(_ context.Context, trip *domain.Trip) error {
	if s.err != nil {
		return s.err
	}
	s.trips[trip.ID] = trip
	return nil
}

func (s *fakeTripStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Trip, error) {
	if s.err != nil {
		return nil, s.err
	}
	trip, ok := s.trips[id]
	if !ok {
		return nil, store.ErrTripNotFound
	}
	return trip, nil
}

func (s *fakeTripStore) ListByOwner(_ context.Context, ownerID uuid.UUID, _, _ int) ([]*domain.Trip, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := []*domain.Trip{}
	for _, trip := range s.trips {
		if trip.OwnerID == ownerID {
			out = append(out, trip)
		}
	}
	return out, nil
}

func (s *fakeTripStore) Delete(_ context.Context, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.trips[id]; !ok {
		return store.ErrTripNotFound
	}
	delete(s.trips, id)
	return nil
}

func newTripRouter(h *TripHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/trips", h.ListTrips)
	r.Get("/trips/{id}", h.GetTrip)
	r.Delete("/trips/{id}", h.DeleteTrip)
	return r
}

func seedTrip(t *testing.T, trips *fakeTripStore, ownerID uuid.UUID) *domain.Trip {
	t.Helper()

	trip, err := domain.NewTrip(
		ownerID,
		domain.TripRequest{
			Destination: "Tokyo",
			StartDate:   time.Date(2026, time.March, 28, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2026, time.April, 4, 0, 0, 0, 0, time.UTC),
			Travelers: []domain.Traveler{
				{ID: uuid.New(), Name: "Alex", Age: 34, Type: domain.TravelerTypeAdult},
			},
		},
		&domain.Forecast{Location: "Tokyo", AvgTempC: 14.2},
		[]domain.PackingList{
			{TravelerID: uuid.New(), TravelerName: "Alex"},
		},
		nil,
	)
	require.NoError(t, err)
	require.NoError(t, trips.Create(context.Background(), trip))
	return trip
}

func TestTripHandler_GetTrip(t *testing.T) {
	t.Parallel()

	trips := newFakeTripStore()
	ownerID := uuid.New()
	trip := seedTrip(t, trips, ownerID)

	router := newTripRouter(NewTripHandler(trips))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/trips/"+trip.ID.String(), "", ownerID))

	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Trip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, trip.ID, got.ID)
	assert.Equal(t, "Tokyo", got.Destination)
}

func TestTripHandler_GetTripWrongOwner(t *testing.T) {
	t.Parallel()

	trips := newFakeTripStore()
	trip := seedTrip(t, trips, uuid.New())

	router := newTripRouter(NewTripHandler(trips))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/trips/"+trip.ID.String(), "", uuid.New()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTripHandler_ListTrips(t *testing.T) {
	t.Parallel()

	trips := newFakeTripStore()
	ownerID := uuid.New()
	seedTrip(t, trips, ownerID)
	seedTrip(t, trips, ownerID)
	seedTrip(t, trips, uuid.New())

	router := newTripRouter(NewTripHandler(trips))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/trips?limit=10", "", ownerID))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp TripListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Trips, 2)
}

func TestTripHandler_DeleteTrip(t *testing.T) {
	t.Parallel()

	trips := newFakeTripStore()
	ownerID := uuid.New()
	trip := seedTrip(t, trips, ownerID)

	router := newTripRouter(NewTripHandler(trips))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/trips/"+trip.ID.String(), "", ownerID))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/trips/"+trip.ID.String(), "", ownerID))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTripHandler_DeleteTripWrongOwner(t *testing.T) {
	t.Parallel()

	trips := newFakeTripStore()
	trip := seedTrip(t, trips, uuid.New())

	router := newTripRouter(NewTripHandler(trips))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/trips/"+trip.ID.String(), "", uuid.New()))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The trip survives the cross-owner delete attempt.
	_, err := trips.GetByID(context.Background(), trip.ID)
	assert.NoError(t, err)
}

func TestTripHandler_StoreUnavailable(t *testing.T) {
	t.Parallel()

	trips := newFakeTripStore()
	trips.err = store.ErrUnavailable

	router := newTripRouter(NewTripHandler(trips))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/trips", "", uuid.New()))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
