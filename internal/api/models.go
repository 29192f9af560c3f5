package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/packlane/packlane-api/internal/domain"
)

// dateLayout is the wire format for trip dates. Trips are planned by
// calendar day, so requests carry dates without a time component.
const dateLayout = "2006-01-02"

// TravelerPayload is one traveler in a job submission.
type TravelerPayload struct {
	Name string `json:"name" validate:"required,min=1"`
	Age  int    `json:"age"  validate:"gte=0"`
	Type string `json:"type" validate:"required,oneof=adult child"`
}

// CreateJobRequest represents the request body for submitting a trip
// generation job.
type CreateJobRequest struct {
	Destination string            `json:"destination" validate:"required,min=1"`
	StartDate   string            `json:"start_date"  validate:"required"`
	EndDate     string            `json:"end_date"    validate:"required"`
	Activities  []string          `json:"activities"`
	Transport   []string          `json:"transport"`
	Travelers   []TravelerPayload `json:"travelers" validate:"required,min=1,dive"`
}

// ToDomain converts the request payload into a domain TripRequest, parsing
// the dates and assigning each traveler an ID.
func (r CreateJobRequest) ToDomain() (domain.TripRequest, error) {
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return domain.TripRequest{}, fmt.Errorf("%w: start date %q", domain.ErrInvalidDateRange, r.StartDate)
	}
	end, err := time.Parse(dateLayout, r.EndDate)
	if err != nil {
		return domain.TripRequest{}, fmt.Errorf("%w: end date %q", domain.ErrInvalidDateRange, r.EndDate)
	}

	travelers := make([]domain.Traveler, len(r.Travelers))
	for i, t := range r.Travelers {
		travelers[i] = domain.Traveler{
			ID:   uuid.New(),
			Name: t.Name,
			Age:  t.Age,
			Type: domain.TravelerType(t.Type),
		}
	}

	return domain.TripRequest{
		Destination: r.Destination,
		StartDate:   start,
		EndDate:     end,
		Activities:  r.Activities,
		Transport:   r.Transport,
		Travelers:   travelers,
	}, nil
}

// TokenRequest represents the request body for the token endpoint.
type TokenRequest struct {
	Name     string `json:"name"     validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// JobResponse represents the polling view of a trip generation job. The
// request inputs are not echoed back; clients fetch the trip once the job
// completes.
type JobResponse struct {
	ID           string     `json:"id"`
	Status       string     `json:"status"`
	TripID       string     `json:"trip_id,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	ErrorKind    string     `json:"error_kind,omitempty"`
	Attempt      int        `json:"attempt"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// jobToResponse converts a domain job to its polling representation.
func jobToResponse(j *domain.TripGenerationJob) JobResponse {
	resp := JobResponse{
		ID:           j.ID.String(),
		Status:       string(j.Status),
		ErrorMessage: j.ErrorMessage,
		ErrorKind:    string(j.ErrorKind),
		Attempt:      j.Attempt,
		StartedAt:    j.StartedAt,
		CompletedAt:  j.CompletedAt,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
	if j.TripID != uuid.Nil {
		resp.TripID = j.TripID.String()
	}
	return resp
}

// TripListResponse wraps a page of trips.
type TripListResponse struct {
	Trips []*domain.Trip `json:"trips"`
}
