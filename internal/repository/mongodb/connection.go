// Package mongodb is the document-store backend for events and bookings.
package mongodb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"eventhub/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/singleflight"
)

const (
	eventsCollection   = "events"
	bookingsCollection = "bookings"

	defaultConnectTimeout = 10 * time.Second

	connectKey = "connect"
)

// DatabaseProvider hands out the database the repositories work against.
type DatabaseProvider interface {
	Database(ctx context.Context) (*mongo.Database, error)
}

type connectFunc func(ctx context.Context, uri string) (*mongo.Client, error)

// Connector is the process-wide lazily established MongoDB connection. The first caller
// triggers the connection; concurrent first callers share that single in-flight attempt.
// A failed attempt is not remembered, so the next call tries again. An attempt still in
// flight when Close runs is discarded.
type Connector struct {
	uri            string
	database       string
	connectTimeout time.Duration
	onConnect      func(ctx context.Context, db *mongo.Database) error

	mu     sync.RWMutex
	client *mongo.Client
	// gen is bumped by Close; an attempt started under an older gen must not publish its client.
	gen   uint64
	group singleflight.Group

	connect connectFunc
}

// NewConnector returns a Connector for uri and database. No connection is made until first use.
// Indexes are created on the first successful connection.
func NewConnector(uri, database string) *Connector {
	return &Connector{
		uri:            uri,
		database:       database,
		connectTimeout: defaultConnectTimeout,
		onConnect:      EnsureIndexes,
		connect:        connectAndPing,
	}
}

func connectAndPing(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// Client returns the shared client, connecting on first use.
func (c *Connector) Client(ctx context.Context) (*mongo.Client, error) {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()
	if client != nil {
		return client, nil
	}

	ch := c.group.DoChan(connectKey, func() (any, error) {
		c.mu.RLock()
		existing, gen := c.client, c.gen
		c.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		// the attempt is shared, so one caller giving up must not cancel it for the others
		connCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.connectTimeout)
		defer cancel()

		client, err := c.connect(connCtx, c.uri)
		if err != nil {
			return nil, fmt.Errorf("%w: connect to mongodb: %v", domain.ErrStorageUnavailable, err)
		}
		if c.onConnect != nil {
			if err := c.onConnect(connCtx, client.Database(c.database)); err != nil {
				_ = client.Disconnect(context.Background())
				return nil, fmt.Errorf("%w: prepare mongodb: %v", domain.ErrStorageUnavailable, err)
			}
		}

		c.mu.Lock()
		if c.gen != gen {
			c.mu.Unlock()
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("%w: connector closed while connecting", domain.ErrStorageUnavailable)
		}
		c.client = client
		c.mu.Unlock()
		return client, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*mongo.Client), nil
	}
}

// Database returns the configured database on the shared client.
func (c *Connector) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := c.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(c.database), nil
}

// Ping checks the primary is reachable, connecting first if needed.
func (c *Connector) Ping(ctx context.Context) error {
	client, err := c.Client(ctx)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: ping mongodb: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Close disconnects the shared client if one was established. A later call to Client reconnects.
func (c *Connector) Close(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.gen++
	c.mu.Unlock()
	c.group.Forget(connectKey)
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// EnsureIndexes declares the uniqueness constraints the stores rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(eventsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_slug")},
		{Keys: bson.D{{Key: "tags", Value: 1}}, Options: options.Index().SetName("tags")},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("created_at")},
	})
	if err != nil {
		return fmt.Errorf("events indexes: %w", err)
	}
	_, err = db.Collection(bookingsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "eventId", Value: 1}, {Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_event_email")},
		{Keys: bson.D{{Key: "eventId", Value: 1}}, Options: options.Index().SetName("event_id")},
	})
	if err != nil {
		return fmt.Errorf("bookings indexes: %w", err)
	}
	return nil
}
