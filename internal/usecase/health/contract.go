package health

import "context"

// Pinger checks a storage dependency's availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks an external API provider's availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
