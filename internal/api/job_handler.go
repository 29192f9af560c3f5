package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/packlane/packlane-api/internal/api/middleware"
	"github.com/packlane/packlane-api/internal/api/shared"
	"github.com/packlane/packlane-api/internal/domain"
	"github.com/packlane/packlane-api/internal/store"
)

// degradedProcessingThreshold is the number of simultaneously processing
// jobs beyond which the health endpoint reports the service as degraded.
const degradedProcessingThreshold = 10

// JobSubmitter accepts validated trip requests for asynchronous processing.
// Implemented by the job scheduler.
type JobSubmitter interface {
	Submit(ctx context.Context, ownerID uuid.UUID, req domain.TripRequest) (*domain.TripGenerationJob, error)
}

// JobHandler handles trip generation job submission and polling.
type JobHandler struct {
	submitter JobSubmitter
	jobs      store.JobStore
	// stuckAge is how long a processing job may run before the stats and
	// health endpoints count it as stuck. Wired to the scheduler's hard
	// timeout.
	stuckAge time.Duration
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(submitter JobSubmitter, jobs store.JobStore, stuckAge time.Duration) *JobHandler {
	return &JobHandler{
		submitter: submitter,
		jobs:      jobs,
		stuckAge:  stuckAge,
	}
}

// SubmitJob handles POST /api/v1/trip-generation/jobs requests. A valid
// submission is answered with 202 Accepted and a job the client can poll.
func (h *JobHandler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r)
	if !ok || ownerID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Owner ID not found or invalid")
		return
	}

	var req CreateJobRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	tripReq, err := req.ToDomain()
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	job, err := h.submitter.Submit(r.Context(), ownerID, tripReq)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, jobToResponse(job))
}

// GetJob handles GET /api/v1/trip-generation/jobs/{id} requests, the polling
// side of the async contract.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r)
	if !ok || ownerID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Owner ID not found or invalid")
		return
	}

	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := h.jobs.Get(r.Context(), jobID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	// Another owner's job is indistinguishable from a missing one.
	if job.OwnerID != ownerID {
		shared.RespondWithError(w, r, http.StatusNotFound, "Job not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, jobToResponse(job))
}

// GetStats handles GET /api/v1/trip-generation/jobs/stats requests.
func (h *JobHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.jobs.Stats(r.Context(), h.stuckAge)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to collect job statistics", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// HealthResponse reports service liveness plus the job backlog snapshot the
// judgement is based on.
type HealthResponse struct {
	Status    string         `json:"status"`
	Jobs      store.JobStats `json:"jobs"`
	Timestamp time.Time      `json:"timestamp"`
}

// Health handles GET /api/v1/trip-generation/jobs/health requests. The
// service reports degraded when jobs are stuck past the hard timeout or the
// processing backlog is deep.
func (h *JobHandler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.jobs.Stats(r.Context(), h.stuckAge)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusServiceUnavailable, "Health check failed", err)
		return
	}

	status := "ok"
	code := http.StatusOK
	if stats.Stuck > 0 || stats.Processing >= degradedProcessingThreshold {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	shared.RespondWithJSON(w, r, code, HealthResponse{
		Status:    status,
		Jobs:      stats,
		Timestamp: time.Now().UTC(),
	})
}
