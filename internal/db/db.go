// Package db holds storage contracts and errors shared by the Postgres and
// Redis adapters.
package db

import (
	"context"
	"time"
)

// Pinger checks store connectivity. Health checks depend on it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ExpiringStore keeps short-lived shared markers, such as the match
// provider cooldown, visible to every service instance.
type ExpiringStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
