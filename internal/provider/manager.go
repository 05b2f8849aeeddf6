package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// Manager holds an ordered list of providers and implements fallback resolution.
type Manager struct {
	providers []Provider
}

func NewManager(providers []Provider) *Manager {
	sort.SliceStable(providers, func(i, j int) bool {
		return providers[i].Priority() < providers[j].Priority()
	})
	return &Manager{providers: providers}
}

// Authenticate authenticates every provider that needs an identity. It
// succeeds as soon as one provider is usable; providers without an
// authentication step count as usable.
func (m *Manager) Authenticate(ctx context.Context) error {
	if len(m.providers) == 0 {
		return fmt.Errorf("no providers configured: %w", ErrAuthentication)
	}
	var errs []error
	for _, p := range m.providers {
		a, ok := p.(Authenticator)
		if !ok {
			return nil
		}
		if err := a.Authenticate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		return nil
	}
	return errors.Join(errs...)
}

// Resolve attempts each provider in priority order, returning the first success.
// Returns (value, providerName, error).
func (m *Manager) Resolve(ctx context.Context, name string) (string, string, error) {
	var lastErr error
	for _, p := range m.providers {
		val, err := p.Resolve(ctx, name)
		if err != nil {
			lastErr = err
			continue
		}
		return val, p.Name(), nil
	}
	if lastErr != nil {
		return "", "", fmt.Errorf("all providers failed, last error: %w", lastErr)
	}
	return "", "", fmt.Errorf("no providers configured")
}

// Health returns the status of all providers.
func (m *Manager) Health(ctx context.Context) []ProviderHealth {
	results := make([]ProviderHealth, len(m.providers))
	for i, p := range m.providers {
		ok, latency, err := p.Healthy(ctx)
		h := ProviderHealth{Name: p.Name(), Healthy: ok, LatencyMs: latency, CheckedAt: time.Now()}
		if err != nil {
			h.Error = err.Error()
		}
		if t, ok := p.(interface{ Type() string }); ok {
			h.Type = t.Type()
		}
		results[i] = h
	}
	return results
}

// Names returns the names of all configured providers.
func (m *Manager) Names() []string {
	names := make([]string, len(m.providers))
	for i, p := range m.providers {
		names[i] = p.Name()
	}
	return names
}

type ProviderHealth struct {
	Name      string
	Type      string
	Healthy   bool
	LatencyMs int64
	Error     string
	CheckedAt time.Time
}
