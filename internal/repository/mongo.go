package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/sui-chat/api/internal/model"
	"github.com/sui-chat/api/internal/observability"
)

const (
	ProfilesCollection = "profiles"
	OutboxCollection   = "outbox"

	connectTimeout = 15 * time.Second
	pingTimeout    = 5 * time.Second
	// longer than the request timeout
	drainDelay = 30 * time.Second
)

var errNoURI = errors.New("MONGODB_URI environment variable is not set")

// Database hands out collections of the configured database and can be told
// to forget its connection after a connectivity failure.
type Database interface {
	Collection(ctx context.Context, name string) (*mongo.Collection, error)
	Invalidate()
}

// Conn owns the process-wide MongoDB client. The client is created on first use
// and pinged before every reuse; a client that fails the ping is replaced by a
// freshly dialed one. Replaced clients stay open for a drain period so that
// operations already running on them can finish.
type Conn struct {
	uri    string
	dbName string

	dial       func(ctx context.Context) (*mongo.Client, error)
	ping       func(ctx context.Context, client *mongo.Client) error
	disconnect func(client *mongo.Client)
	drain      time.Duration

	mu     sync.Mutex
	client *mongo.Client
}

func NewConn(uri, dbName string) *Conn {
	c := &Conn{
		uri:        uri,
		dbName:     dbName,
		ping:       ping,
		disconnect: disconnect,
		drain:      drainDelay,
	}
	c.dial = c.connect
	return c
}

// ClientOptions returns the pool and timeout settings shared by every client
// this package dials.
func ClientOptions(uri string) *options.ClientOptions {
	return options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10).
		SetMinPoolSize(1).
		SetServerSelectionTimeout(connectTimeout).
		SetConnectTimeout(connectTimeout)
}

func (c *Conn) Name() string { return c.dbName }

// Database returns a live handle, reconnecting if the cached client is dead.
func (c *Conn) Database(ctx context.Context) (*mongo.Database, error) {
	c.mu.Lock()
	cached := c.client
	c.mu.Unlock()

	if cached != nil {
		err := c.probe(ctx, cached)
		if err == nil {
			return cached.Database(c.dbName), nil
		}
		observability.GetLogger(ctx).Warn("cached mongo client failed ping, reconnecting", zap.Error(err))
		c.drop(cached)
		observability.StoreReconnectsTotal.Inc()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// another request may have reconnected while we were pinging
	if c.client != nil {
		return c.client.Database(c.dbName), nil
	}

	client, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	c.client = client
	return client.Database(c.dbName), nil
}

// probe pings on a context detached from the caller's cancellation, so an
// aborted request never marks a healthy client as dead.
func (c *Conn) probe(ctx context.Context, client *mongo.Client) error {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pingTimeout)
	defer cancel()
	return c.ping(pctx, client)
}

func (c *Conn) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := c.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// Ping reports whether the store is reachable.
func (c *Conn) Ping(ctx context.Context) error {
	_, err := c.Database(ctx)
	return err
}

// Invalidate forgets the cached client so the next call dials again. The old
// client is disconnected after the drain period.
func (c *Conn) Invalidate() {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()

	if client != nil {
		c.retire(client)
	}
}

// Close disconnects the cached client at process teardown.
func (c *Conn) Close(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

func (c *Conn) connect(ctx context.Context) (*mongo.Client, error) {
	if c.uri == "" {
		return nil, errNoURI
	}

	client, err := mongo.Connect(ctx, ClientOptions(c.uri))
	if err != nil {
		return nil, connectErr(ctx, "mongo connect failed", err)
	}

	// Connect is lazy; force server selection so a bad cluster fails here.
	if err := ping(ctx, client); err != nil {
		go disconnect(client)
		return nil, connectErr(ctx, "mongo ping after connect failed", err)
	}
	return client, nil
}

// connectErr reports a failed dial. When the caller's own context ended the
// context error is returned instead of a store outage.
func connectErr(ctx context.Context, msg string, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", msg, ctx.Err())
	}
	observability.GetLogger(ctx).Error(msg, zap.Error(err))
	return &model.StoreUnavailableError{Err: err}
}

func (c *Conn) drop(stale *mongo.Client) {
	c.mu.Lock()
	if c.client == stale {
		c.client = nil
	}
	c.mu.Unlock()
	c.retire(stale)
}

func (c *Conn) retire(client *mongo.Client) {
	time.AfterFunc(c.drain, func() { c.disconnect(client) })
}

func ping(ctx context.Context, client *mongo.Client) error {
	return client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = client.Disconnect(ctx)
}
