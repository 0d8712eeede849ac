package health

import "context"

// StorePinger checks cache store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks an external provider's availability or
// credentials.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
