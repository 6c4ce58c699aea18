package ports

import "context"

// HealthChecker checks an external dependency (postgresql, redis, chain rpc).
type HealthChecker interface {
	// Ping returns nil if the dependency is reachable.
	Ping(ctx context.Context) error
	Name() string
}
