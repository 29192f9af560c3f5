package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/packlane/packlane-api/internal/api/middleware"
	"github.com/packlane/packlane-api/internal/api/shared"
	"github.com/packlane/packlane-api/internal/store"
)

// TripHandler handles read and delete access to generated trips.
type TripHandler struct {
	trips store.TripStore
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(trips store.TripStore) *TripHandler {
	return &TripHandler{trips: trips}
}

// GetTrip handles GET /api/v1/trips/{id} requests.
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r)
	if !ok || ownerID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Owner ID not found or invalid")
		return
	}

	tripID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid trip ID")
		return
	}

	trip, err := h.trips.GetByID(r.Context(), tripID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	// Another owner's trip is indistinguishable from a missing one.
	if trip.OwnerID != ownerID {
		shared.RespondWithError(w, r, http.StatusNotFound, "Trip not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, trip)
}

// ListTrips handles GET /api/v1/trips requests. Supports limit and offset
// query parameters for paging.
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r)
	if !ok || ownerID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Owner ID not found or invalid")
		return
	}

	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	trips, err := h.trips.ListByOwner(r.Context(), ownerID, limit, offset)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TripListResponse{Trips: trips})
}

// DeleteTrip handles DELETE /api/v1/trips/{id} requests.
func (h *TripHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r)
	if !ok || ownerID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Owner ID not found or invalid")
		return
	}

	tripID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid trip ID")
		return
	}

	// Load first so a delete across owners cannot succeed or leak existence.
	trip, err := h.trips.GetByID(r.Context(), tripID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if trip.OwnerID != ownerID {
		shared.RespondWithError(w, r, http.StatusNotFound, "Trip not found")
		return
	}

	if err := h.trips.Delete(r.Context(), tripID); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
