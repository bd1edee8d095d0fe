package domain

import (
	"context"
	"time"
)

// EntityEvent is the entity name reported in NotFoundError for events.
const EntityEvent = "event"

// DefaultSimilarLimit is the number of similar events returned when the caller does not ask for a limit.
const DefaultSimilarLimit = 3

// Event represents a listed event.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Overview    string    `json:"overview"`
	Image       string    `json:"image"`
	Venue       string    `json:"venue"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Mode        string    `json:"mode"`
	Audience    string    `json:"audience"`
	Agenda      []string  `json:"agenda"`
	Organizer   string    `json:"organizer"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventAttrs holds the caller-supplied fields of a new event. Slug, timestamps and
// the canonical date and time are derived by the event service.
type EventAttrs struct {
	Title       string
	Description string
	Overview    string
	Image       string
	Venue       string
	Location    string
	Date        string
	Time        string
	Mode        string
	Audience    string
	Agenda      []string
	Organizer   string
	Tags        []string
}

// SimilarEvent is the public projection of an event returned by similar-event queries.
// swagger:model SimilarEvent
type SimilarEvent struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Overview    string   `json:"overview"`
	Image       string   `json:"image"`
	Venue       string   `json:"venue"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Mode        string   `json:"mode"`
	Audience    string   `json:"audience"`
	Organizer   string   `json:"organizer"`
	Tags        []string `json:"tags"`
}

// NewSimilarEvent projects e to its public shape.
func NewSimilarEvent(e *Event) *SimilarEvent {
	return &SimilarEvent{
		ID:          e.ID,
		Title:       e.Title,
		Slug:        e.Slug,
		Description: e.Description,
		Overview:    e.Overview,
		Image:       e.Image,
		Venue:       e.Venue,
		Location:    e.Location,
		Date:        e.Date,
		Time:        e.Time,
		Mode:        e.Mode,
		Audience:    e.Audience,
		Organizer:   e.Organizer,
		Tags:        e.Tags,
	}
}

// EventRepository defines the interface for event storage.
// Create must return ErrDuplicateSlug when the slug unique constraint rejects the write.
// GetByID and GetBySlug return ErrNotFound on a miss.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	// FindByTags returns up to limit events sharing at least one of tags, excluding excludeID,
	// ordered by created_at then id.
	FindByTags(ctx context.Context, tags []string, excludeID string, limit int) ([]*Event, error)
	// List returns one page of events, newest first, and the total number of events.
	List(ctx context.Context, params PaginationParams) ([]*Event, int, error)
}

// EventService owns event creation and lookups.
type EventService interface {
	Create(ctx context.Context, attrs EventAttrs) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	FindSimilar(ctx context.Context, base *Event, limit int) ([]*Event, error)
	List(ctx context.Context, params PaginationParams) ([]*Event, int, error)
}

// QueryService exposes the read operations used by the event pages.
type QueryService interface {
	GetEventPage(ctx context.Context, slug string) (*Event, error)
	GetSimilarEvents(ctx context.Context, slug string, limit int) ([]*SimilarEvent, error)
}
