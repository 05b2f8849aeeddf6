package provider

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EnvProvider serves secrets from environment variables, for local development
// without vault access. A secret named "QuantumDB-Server" is read from
// QUANTUMDB_SERVER, preceded by the optional prefix.
type EnvProvider struct {
	name     string
	prefix   string
	priority int
	lookup   func(string) (string, bool)
}

func NewEnvProvider(name, prefix string, priority int) *EnvProvider {
	return &EnvProvider{
		name:     name,
		prefix:   prefix,
		priority: priority,
		lookup:   os.LookupEnv,
	}
}

func (p *EnvProvider) Name() string  { return p.name }
func (p *EnvProvider) Priority() int { return p.priority }
func (p *EnvProvider) Type() string  { return "env" }

// VarName returns the environment variable consulted for a secret.
func (p *EnvProvider) VarName(secret string) string {
	return p.prefix + strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(secret))
}

func (p *EnvProvider) Resolve(ctx context.Context, name string) (string, error) {
	key := p.VarName(name)
	v, ok := p.lookup(key)
	if !ok {
		return "", fmt.Errorf("environment variable %s not set: %w", key, ErrSecretNotFound)
	}
	return v, nil
}

func (p *EnvProvider) Healthy(ctx context.Context) (bool, int64, error) {
	return true, 0, nil
}
