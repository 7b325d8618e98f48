// Package mongo owns the MongoDB connection and the marketplace repositories
// built on top of it.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a client, verifies connectivity with a ping, and
// returns the selected database together with a disconnect function for
// shutdown. Writes are acknowledged by a majority of the replica set: the
// request lifecycle relies on conditional updates, so an acknowledged
// transition must survive a primary failover.
func Connect(ctx context.Context, cfg Config) (*mongo.Database, func(context.Context) error, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetWriteConcern(writeconcern.Majority()).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	disconnect := func(ctx context.Context) error {
		return client.Disconnect(ctx)
	}
	return client.Database(cfg.Database), disconnect, nil
}
