package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TravelerType distinguishes adults from children for packing purposes.
type TravelerType string

// Possible traveler type values
const (
	TravelerTypeAdult TravelerType = "adult"
	TravelerTypeChild TravelerType = "child"
)

// Common validation errors for Trip and its parts
var (
	ErrEmptyTripID          = errors.New("trip ID cannot be empty")
	ErrEmptyTripOwnerID     = errors.New("trip owner ID cannot be empty")
	ErrEmptyDestination     = errors.New("destination cannot be empty")
	ErrEmptyTravelerName    = errors.New("traveler name cannot be empty")
	ErrNegativeTravelerAge  = errors.New("traveler age cannot be negative")
	ErrEmptyPackingListName = errors.New("packing list traveler name cannot be empty")
)

// Traveler is one person going on a trip. Name may be a generic label
// ("Child") at submission time; DisplayName produces the form used in
// generated lists.
type Traveler struct {
	ID   uuid.UUID    `json:"id"`
	Name string       `json:"name"`
	Age  int          `json:"age"`
	Type TravelerType `json:"type"`
}

// Validate checks if the Traveler has valid data.
func (t Traveler) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyTravelerName
	}
	if t.Age < 0 {
		return ErrNegativeTravelerAge
	}
	if t.Type != TravelerTypeAdult && t.Type != TravelerTypeChild {
		return ErrInvalidTravelerType
	}
	return nil
}

// DisplayName returns the traveler's name formatted for packing lists.
// Generic or missing child names are rendered as "Child (8)" or
// "Infant (1)" so lists for multiple children stay distinguishable.
func (t Traveler) DisplayName() string {
	name := strings.TrimSpace(t.Name)
	switch strings.ToLower(name) {
	case "", "child", "kid", "baby", "toddler":
		if t.Age < 2 {
			return fmt.Sprintf("Infant (%d)", t.Age)
		}
		return fmt.Sprintf("Child (%d)", t.Age)
	}
	return name
}

// PackingItem is a single entry on a traveler's packing list.
type PackingItem struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  int       `json:"quantity"`
	Essential bool      `json:"essential"`
	Packed    bool      `json:"packed"`
}

// PackingList holds the generated items for one traveler.
type PackingList struct {
	TravelerID   uuid.UUID     `json:"traveler_id"`
	TravelerName string        `json:"traveler_name"`
	Items        []PackingItem `json:"items"`
}

// TravelerFailure records a traveler whose list generation failed while
// the rest of the trip succeeded. The trip still completes; the failure
// manifest tells the client which lists are missing and why.
type TravelerFailure struct {
	TravelerID   uuid.UUID `json:"traveler_id"`
	TravelerName string    `json:"traveler_name"`
	Reason       string    `json:"reason"`
}

// TripRequest is the immutable input to a trip generation job.
type TripRequest struct {
	Destination string     `json:"destination"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	Activities  []string   `json:"activities"`
	Transport   []string   `json:"transport"`
	Travelers   []Traveler `json:"travelers"`
}

// Validate checks if the TripRequest has valid data.
// Returns an error if any field fails validation.
func (r TripRequest) Validate() error {
	if strings.TrimSpace(r.Destination) == "" {
		return ErrEmptyDestination
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() || r.EndDate.Before(r.StartDate) {
		return ErrInvalidDateRange
	}
	if len(r.Travelers) == 0 {
		return ErrNoTravelers
	}
	for _, t := range r.Travelers {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DurationDays returns the trip length in days, inclusive of both ends.
func (r TripRequest) DurationDays() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}

// PrimaryPacker returns the first adult traveler, who carries shared
// items so they are not duplicated across every list. The second return
// is false when the trip has no adults.
func (r TripRequest) PrimaryPacker() (Traveler, bool) {
	for _, t := range r.Travelers {
		if t.Type == TravelerTypeAdult {
			return t, true
		}
	}
	return Traveler{}, false
}

// Trip is a fully generated trip: the request inputs, the weather context
// used during generation, and one packing list per successful traveler.
type Trip struct {
	ID           uuid.UUID         `json:"id"`
	OwnerID      uuid.UUID         `json:"owner_id"`
	Destination  string            `json:"destination"`
	StartDate    time.Time         `json:"start_date"`
	EndDate      time.Time         `json:"end_date"`
	Activities   []string          `json:"activities"`
	Transport    []string          `json:"transport"`
	Travelers    []Traveler        `json:"travelers"`
	Weather      *Forecast         `json:"weather,omitempty"`
	PackingLists []PackingList     `json:"packing_lists"`
	Failures     []TravelerFailure `json:"failures,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// NewTrip assembles a Trip from a validated request and its generation
// results. It generates a new UUID and sets the timestamps.
func NewTrip(
	ownerID uuid.UUID,
	req TripRequest,
	weather *Forecast,
	lists []PackingList,
	failures []TravelerFailure,
) (*Trip, error) {
	now := time.Now().UTC()
	trip := &Trip{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Destination:  req.Destination,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Activities:   req.Activities,
		Transport:    req.Transport,
		Travelers:    req.Travelers,
		Weather:      weather,
		PackingLists: lists,
		Failures:     failures,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := trip.Validate(); err != nil {
		return nil, err
	}

	return trip, nil
}

// Validate checks if the Trip has valid data.
func (t *Trip) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTripID
	}
	if t.OwnerID == uuid.Nil {
		return ErrEmptyTripOwnerID
	}
	if strings.TrimSpace(t.Destination) == "" {
		return ErrEmptyDestination
	}
	if t.EndDate.Before(t.StartDate) {
		return ErrInvalidDateRange
	}
	for _, list := range t.PackingLists {
		if strings.TrimSpace(list.TravelerName) == "" {
			return ErrEmptyPackingListName
		}
	}
	return nil
}
