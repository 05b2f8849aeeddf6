package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/quantumventures/credentials/internal/provider"
)

func TestEnvProviderVarName(t *testing.T) {
	p := provider.NewEnvProvider("env", "", 1)
	if got := p.VarName("QuantumDB-Server"); got != "QUANTUMDB_SERVER" {
		t.Errorf("VarName() = %q, want QUANTUMDB_SERVER", got)
	}
	p = provider.NewEnvProvider("env", "QV_", 1)
	if got := p.VarName("storage-phoenixus-connection-string"); got != "QV_STORAGE_PHOENIXUS_CONNECTION_STRING" {
		t.Errorf("VarName() = %q", got)
	}
}

func TestEnvProviderResolve(t *testing.T) {
	t.Setenv("QUANTUMDB_USERNAME", "svc")
	p := provider.NewEnvProvider("env", "", 1)

	val, err := p.Resolve(context.Background(), "QuantumDB-username")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if val != "svc" {
		t.Errorf("val = %q, want svc", val)
	}
}

func TestEnvProviderMissing(t *testing.T) {
	p := provider.NewEnvProvider("env", "", 1)
	provider.SetLookup(p, func(string) (string, bool) { return "", false })

	_, err := p.Resolve(context.Background(), "QuantumDB-password")
	if !errors.Is(err, provider.ErrSecretNotFound) {
		t.Errorf("Resolve() error = %v, want ErrSecretNotFound", err)
	}
}
