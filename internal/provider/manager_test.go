package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/quantumventures/credentials/internal/provider"
)

type mockProvider struct {
	name     string
	priority int
	value    string
	err      error
	authErr  error
	healthy  bool
}

func (m *mockProvider) Name() string  { return m.name }
func (m *mockProvider) Priority() int { return m.priority }
func (m *mockProvider) Type() string  { return "mock" }
func (m *mockProvider) Resolve(ctx context.Context, name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.value, nil
}
func (m *mockProvider) Healthy(ctx context.Context) (bool, int64, error) {
	return m.healthy, 5, nil
}

type authProvider struct {
	mockProvider
}

func (a *authProvider) Authenticate(ctx context.Context) error { return a.authErr }

func TestManagerResolvesWithPrimary(t *testing.T) {
	mgr := provider.NewManager([]provider.Provider{
		&mockProvider{name: "primary", value: "secret-value", healthy: true},
	})

	val, name, err := mgr.Resolve(context.Background(), "QuantumDB-password")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if val != "secret-value" {
		t.Errorf("val = %q, want secret-value", val)
	}
	if name != "primary" {
		t.Errorf("provider name = %q, want primary", name)
	}
}

func TestManagerOrdersByPriority(t *testing.T) {
	mgr := provider.NewManager([]provider.Provider{
		&mockProvider{name: "second", priority: 2, value: "b"},
		&mockProvider{name: "first", priority: 1, value: "a"},
	})
	if got := mgr.Names(); got[0] != "first" || got[1] != "second" {
		t.Errorf("Names() = %v, want [first second]", got)
	}
	_, name, _ := mgr.Resolve(context.Background(), "x")
	if name != "first" {
		t.Errorf("resolved by %q, want first", name)
	}
}

func TestManagerFallsBackOnError(t *testing.T) {
	mgr := provider.NewManager([]provider.Provider{
		&mockProvider{name: "primary", priority: 1, err: errors.New("unavailable")},
		&mockProvider{name: "fallback", priority: 2, value: "fallback-value", healthy: true},
	})

	val, name, err := mgr.Resolve(context.Background(), "QuantumDB-password")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if val != "fallback-value" {
		t.Errorf("val = %q, want fallback-value", val)
	}
	if name != "fallback" {
		t.Errorf("provider name = %q, want fallback", name)
	}
}

func TestManagerAllFailsKeepsCause(t *testing.T) {
	mgr := provider.NewManager([]provider.Provider{
		&mockProvider{name: "primary", err: provider.ErrAccessDenied},
	})

	_, _, err := mgr.Resolve(context.Background(), "QuantumDB-password")
	if !errors.Is(err, provider.ErrAccessDenied) {
		t.Fatalf("Resolve() error = %v, want ErrAccessDenied", err)
	}
}

func TestManagerNoProviders(t *testing.T) {
	mgr := provider.NewManager(nil)
	if _, _, err := mgr.Resolve(context.Background(), "x"); err == nil {
		t.Error("Resolve() expected error with no providers")
	}
	if err := mgr.Authenticate(context.Background()); !errors.Is(err, provider.ErrAuthentication) {
		t.Errorf("Authenticate() error = %v, want ErrAuthentication", err)
	}
}

func TestManagerAuthenticate(t *testing.T) {
	failing := &authProvider{mockProvider{name: "kv", priority: 1, authErr: provider.ErrAuthentication}}
	plain := &mockProvider{name: "env", priority: 2}

	if err := provider.NewManager([]provider.Provider{failing, plain}).Authenticate(context.Background()); err != nil {
		t.Errorf("Authenticate() error = %v, want nil when a later provider is usable", err)
	}

	other := &authProvider{mockProvider{name: "kv2", priority: 2, authErr: errors.New("expired")}}
	err := provider.NewManager([]provider.Provider{failing, other}).Authenticate(context.Background())
	if !errors.Is(err, provider.ErrAuthentication) {
		t.Errorf("Authenticate() error = %v, want ErrAuthentication", err)
	}
}

func TestManagerHealth(t *testing.T) {
	mgr := provider.NewManager([]provider.Provider{
		&mockProvider{name: "primary", healthy: true},
	})
	h := mgr.Health(context.Background())
	if len(h) != 1 || !h[0].Healthy || h[0].Type != "mock" || h[0].LatencyMs != 5 {
		t.Errorf("Health() = %+v", h)
	}
}
