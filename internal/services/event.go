package services

import (
	"context"
	"fmt"
	"time"

	"github.com/samarpan-samaj/community-backend/internal/models"

	"github.com/google/uuid"
)

// EventStore is the persistence surface the event service needs.
// *repository.EventRepository implements it.
type EventStore interface {
	Create(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, limit, offset int) ([]*models.Event, error)
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id string) error
}

// EventService handles the community events CMS
type EventService struct {
	store EventStore
	now   func() time.Time
}

// NewEventService creates a new event service
func NewEventService(store EventStore) *EventService {
	return &EventService{store: store, now: time.Now}
}

// EventInput carries admin-supplied event fields
type EventInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	ImageURL    string    `json:"image_url"`
}

func (in *EventInput) validate() error {
	if in.Title == "" {
		return fmt.Errorf("%w: title required", models.ErrValidation)
	}
	if in.StartsAt.IsZero() {
		return fmt.Errorf("%w: starts_at required", models.ErrValidation)
	}
	if !in.EndsAt.IsZero() && in.EndsAt.Before(in.StartsAt) {
		return fmt.Errorf("%w: ends_at before starts_at", models.ErrValidation)
	}
	return nil
}

// Create publishes a new event
func (s *EventService) Create(ctx context.Context, input EventInput) (*models.Event, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	now := s.now()
	e := &models.Event{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Venue:       input.Venue,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		ImageURL:    input.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Get retrieves one event
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	return s.store.GetByID(ctx, id)
}

// List retrieves events with pagination
func (s *EventService) List(ctx context.Context, limit, offset int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.List(ctx, limit, offset)
}

// Update rewrites an event's fields
func (s *EventService) Update(ctx context.Context, id string, input EventInput) (*models.Event, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Title = input.Title
	e.Description = input.Description
	e.Venue = input.Venue
	e.StartsAt = input.StartsAt
	e.EndsAt = input.EndsAt
	e.ImageURL = input.ImageURL
	if err := s.store.Update(ctx, e); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}

// Delete removes an event
func (s *EventService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
