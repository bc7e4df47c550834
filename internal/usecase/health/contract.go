package health

import "context"

// DBPinger checks availability of a backing connection (database, cache, bus).
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks match provider availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
