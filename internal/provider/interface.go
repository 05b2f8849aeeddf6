package provider

import "context"

// Provider resolves secrets from a specific backend.
type Provider interface {
	// Name returns the unique identifier for this provider.
	Name() string
	// Priority returns the priority (lower = higher priority).
	Priority() int
	// Resolve fetches a secret value by name.
	Resolve(ctx context.Context, name string) (string, error)
	// Healthy checks if the provider is reachable. Returns (ok, latencyMs, error).
	Healthy(ctx context.Context) (bool, int64, error)
}

// Authenticator is implemented by providers that must acquire an identity
// before they can serve secrets.
type Authenticator interface {
	Authenticate(ctx context.Context) error
}
