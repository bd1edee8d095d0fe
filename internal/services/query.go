package services

import (
	"context"
	"errors"
	"fmt"

	"eventhub/internal/domain"
)

type queryService struct {
	events domain.EventService
}

// NewQueryService returns the read façade used by the event pages.
func NewQueryService(events domain.EventService) domain.QueryService {
	return &queryService{events: events}
}

func (s *queryService) GetEventPage(ctx context.Context, slug string) (*domain.Event, error) {
	return s.events.GetBySlug(ctx, slug)
}

// GetSimilarEvents returns up to limit events sharing a tag with the event at slug.
// A non-positive limit fails before any lookup; a missing or blank base slug yields an
// empty result rather than an error.
func (s *queryService) GetSimilarEvents(ctx context.Context, slug string, limit int) ([]*domain.SimilarEvent, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be a positive number", domain.ErrInvalidArgument)
	}
	base, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidArgument) {
			return []*domain.SimilarEvent{}, nil
		}
		return nil, err
	}

	similar, err := s.events.FindSimilar(ctx, base, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.SimilarEvent, 0, len(similar))
	for _, e := range similar {
		out = append(out, domain.NewSimilarEvent(e))
	}
	return out, nil
}
