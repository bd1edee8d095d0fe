package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/domain"
	"eventhub/internal/normalize"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewEventService returns the EventService backed by eventRepo. Every storage call
// is bounded by timeout.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// Create validates and normalizes attrs, then persists the event. Checks run in a fixed
// order so the first offending field is the one reported.
func (s *eventService) Create(ctx context.Context, attrs domain.EventAttrs) (*domain.Event, error) {
	event, err := s.buildEvent(attrs)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, domain.ErrDuplicateSlug) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) buildEvent(attrs domain.EventAttrs) (*domain.Event, error) {
	slug := normalize.Slugify(attrs.Title)
	if slug == "" {
		return nil, domain.NewValidationError("slug", "title must contain at least one letter or digit")
	}

	required := []struct {
		field string
		value string
	}{
		{"title", attrs.Title},
		{"description", attrs.Description},
		{"overview", attrs.Overview},
		{"image", attrs.Image},
		{"venue", attrs.Venue},
		{"location", attrs.Location},
		{"date", attrs.Date},
		{"time", attrs.Time},
		{"mode", attrs.Mode},
		{"audience", attrs.Audience},
		{"organizer", attrs.Organizer},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, domain.NewValidationError(r.field, "is required and cannot be empty")
		}
	}

	now := s.now()
	date, err := normalize.DateAt(attrs.Date, now)
	if err != nil {
		return nil, domain.NewValidationError("date", "unable to convert to an ISO date")
	}
	clock, err := normalize.Time(attrs.Time)
	if err != nil {
		return nil, domain.NewValidationError("time", "expected formats like '09:30' or '9:30 am'")
	}

	agenda := normalize.List(attrs.Agenda)
	if len(agenda) == 0 || len(agenda) != len(attrs.Agenda) {
		return nil, domain.NewValidationError("agenda", "must contain at least one item and no empty items")
	}
	tags := normalize.List(attrs.Tags)
	if len(tags) == 0 || len(tags) != len(attrs.Tags) {
		return nil, domain.NewValidationError("tags", "must contain at least one tag and no empty tags")
	}

	return &domain.Event{
		Title:       strings.TrimSpace(attrs.Title),
		Slug:        slug,
		Description: strings.TrimSpace(attrs.Description),
		Overview:    strings.TrimSpace(attrs.Overview),
		Image:       strings.TrimSpace(attrs.Image),
		Venue:       strings.TrimSpace(attrs.Venue),
		Location:    strings.TrimSpace(attrs.Location),
		Date:        date,
		Time:        clock,
		Mode:        strings.TrimSpace(attrs.Mode),
		Audience:    strings.TrimSpace(attrs.Audience),
		Agenda:      agenda,
		Organizer:   strings.TrimSpace(attrs.Organizer),
		Tags:        normalize.Tags(tags),
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}, nil
}

func (s *eventService) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	slug = normalize.Slug(slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: a non-empty slug is required", domain.ErrInvalidArgument)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFoundError(domain.EntityEvent)
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}
	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewNotFoundError(domain.EntityEvent)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFoundError(domain.EntityEvent)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// FindSimilar returns events sharing at least one tag with base. The base event is never
// included; results are de-duplicated by id and capped at limit.
func (s *eventService) FindSimilar(ctx context.Context, base *domain.Event, limit int) ([]*domain.Event, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be a positive number", domain.ErrInvalidArgument)
	}
	if base == nil || len(base.Tags) == 0 {
		return []*domain.Event{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	candidates, err := s.eventRepo.FindByTags(ctx, base.Tags, base.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("find similar events: %w", err)
	}

	seen := map[string]struct{}{base.ID: {}}
	similar := make([]*domain.Event, 0, len(candidates))
	for _, e := range candidates {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		similar = append(similar, e)
		if len(similar) == limit {
			break
		}
	}
	return similar, nil
}

func (s *eventService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.List(ctx, params.Normalized())
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}
