// Package mongodb implements the document-store platform layer: the
// lifecycle-managed connection to MongoDB and the store interfaces backed
// by it.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lkemp/userbase/internal/redact"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// connectTimeout bounds both the initial dial and the readiness ping.
const connectTimeout = 5 * time.Second

// State represents the lifecycle state of the document-store connection.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateError
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// StateEvent is emitted on every connection state transition. Err is set
// only for StateError transitions.
type StateEvent struct {
	State State
	Err   error
}

// driverClient is the slice of *mongo.Client behavior the connection manager
// depends on. Narrowing it to an interface lets tests substitute the driver.
type driverClient interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
	Disconnect(ctx context.Context) error
	Database(name string, opts ...*options.DatabaseOptions) *mongo.Database
}

// connectFunc opens a client for the given URI.
type connectFunc func(ctx context.Context, uri string) (driverClient, error)

// defaultConnect dials MongoDB with the production client options.
func defaultConnect(ctx context.Context, uri string) (driverClient, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10).
		SetConnectTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Connection owns the single shared connection to the document store.
// It is created disconnected; Start establishes the connection and Close
// tears it down. Both are idempotent, and at most one underlying client
// exists per Connection. State transitions are observable via Events.
type Connection struct {
	uri     string
	logger  *slog.Logger
	connect connectFunc

	mu     sync.Mutex
	state  State
	client driverClient

	events chan StateEvent
}

// NewConnection creates a Connection for the given URI. The URI may be
// empty; Start then logs an error and leaves the connection down without
// failing the caller.
func NewConnection(uri string, logger *slog.Logger) *Connection {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for Connection")
	}

	return &Connection{
		uri:     uri,
		logger:  logger.With(slog.String("component", "mongodb_connection")),
		connect: defaultConnect,
		state:   StateDisconnected,
		events:  make(chan StateEvent, 8),
	}
}

// Start establishes the connection to the document store.
// Calling Start while already connected is a no-op, so a single underlying
// client is held no matter how often it is invoked. A missing URI and a
// failed connect are both logged and surfaced as state events, never
// returned: the server can still serve non-persistent routes.
func (c *Connection) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateConnected {
		c.logger.Debug("document store already connected, ignoring start")
		return
	}

	if c.uri == "" {
		c.logger.Error("no document store URI configured, skipping connection")
		return
	}

	c.setState(StateConnecting, nil)

	client, err := c.connect(ctx, c.uri)
	if err != nil {
		c.logger.Error("failed to connect to document store",
			"error", redact.Error(err))
		c.setState(StateError, err)
		return
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		c.logger.Error("failed to ping document store",
			"error", redact.Error(err))
		_ = client.Disconnect(ctx)
		c.setState(StateError, err)
		return
	}

	c.client = client
	c.setState(StateConnected, nil)
	c.logger.Info("document store connection established")
}

// Close gracefully disconnects from the document store. It is safe to call
// when Start was never called and safe to call repeatedly.
func (c *Connection) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		// Emit the transition (e.g. out of StateError) like every other
		// state change, but stay silent when already disconnected so
		// repeated closes produce no events.
		if c.state != StateDisconnected {
			c.setState(StateDisconnected, nil)
		}
		return nil
	}

	err := c.client.Disconnect(ctx)
	c.client = nil
	c.setState(StateDisconnected, nil)

	if err != nil {
		c.logger.Error("error closing document store connection",
			"error", redact.Error(err))
		return fmt.Errorf("failed to disconnect from document store: %w", err)
	}

	c.logger.Info("document store connection closed")
	return nil
}

// State returns the current connection state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Events exposes the connection's state transitions. The channel is buffered;
// if no one is listening, events are dropped rather than blocking the
// lifecycle.
func (c *Connection) Events() <-chan StateEvent {
	return c.events
}

// Database returns a handle to the named database, or nil while the
// connection is down. Callers treat nil as "store unavailable" and fail the
// operation rather than queueing it.
func (c *Connection) Database(name string) *mongo.Database {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	return c.client.Database(name)
}

// setState records the transition and publishes it. Callers must hold c.mu.
func (c *Connection) setState(s State, err error) {
	c.state = s
	select {
	case c.events <- StateEvent{State: s, Err: err}:
	default:
	}
}
