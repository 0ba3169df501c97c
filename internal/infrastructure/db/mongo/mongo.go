// Package mongo connects to the MongoDB instance that owns the profile and
// IP rule collections and implements the lookup capabilities the gate
// pipeline consumes.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config carries the connection settings for the profile/IP-rule store.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect dials the store, verifies connectivity with a ping, and returns the
// client plus the selected database. The connect timeout defaults when unset;
// it is distinct from the per-lookup timeout the gate services apply.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}
