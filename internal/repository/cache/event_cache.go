// Package cache adds a Redis read-through layer in front of the event store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"eventhub/internal/domain"

	"github.com/redis/go-redis/v9"
)

const slugKeyPrefix = "eventhub:event:slug:"

// Store is the subset of redis.Cmdable used by the cache.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type eventCache struct {
	domain.EventRepository
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewEventRepository wraps next so GetBySlug is served from Redis when possible.
// Redis failures are logged and the lookup falls through to next.
func NewEventRepository(next domain.EventRepository, store Store, ttl time.Duration, logger *slog.Logger) domain.EventRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &eventCache{EventRepository: next, store: store, ttl: ttl, logger: logger}
}

func slugKey(slug string) string { return slugKeyPrefix + slug }

func (c *eventCache) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	key := slugKey(slug)
	raw, err := c.store.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var e domain.Event
		if jsonErr := json.Unmarshal(raw, &e); jsonErr == nil {
			return &e, nil
		}
		c.logger.WarnContext(ctx, "dropping undecodable cache entry", "key", key)
		c.store.Del(ctx, key)
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "cache read failed", "key", key, "err", err)
	}

	event, err := c.EventRepository.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	c.put(ctx, key, event)
	return event, nil
}

func (c *eventCache) Create(ctx context.Context, event *domain.Event) error {
	if err := c.EventRepository.Create(ctx, event); err != nil {
		return err
	}
	c.put(ctx, slugKey(event.Slug), event)
	return nil
}

func (c *eventCache) put(ctx context.Context, key string, event *domain.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", "key", key, "err", err)
	}
}
