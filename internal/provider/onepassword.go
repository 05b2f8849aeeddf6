package provider

import (
	"context"
	"fmt"
	"time"

	onepassword "github.com/1password/onepassword-sdk-go"
)

const defaultOnePasswordField = "password"

// OnePasswordProvider resolves secrets mirrored into a 1Password vault. Each
// secret is an item titled after the secret name.
type OnePasswordProvider struct {
	name     string
	vault    string
	field    string
	priority int
	client   *onepassword.Client
}

func NewOnePasswordProvider(ctx context.Context, name, token, vault, field string, priority int) (*OnePasswordProvider, error) {
	if token == "" {
		return nil, fmt.Errorf("service account token is required")
	}
	if vault == "" {
		return nil, fmt.Errorf("1password vault is required")
	}
	if field == "" {
		field = defaultOnePasswordField
	}
	client, err := onepassword.NewClient(
		ctx,
		onepassword.WithServiceAccountToken(token),
		onepassword.WithIntegrationInfo("qvcreds", "1.0.0"),
	)
	if err != nil {
		return nil, fmt.Errorf("create 1password client: %w", err)
	}
	return &OnePasswordProvider{
		name:     name,
		vault:    vault,
		field:    field,
		priority: priority,
		client:   client,
	}, nil
}

func (p *OnePasswordProvider) Name() string  { return p.name }
func (p *OnePasswordProvider) Priority() int { return p.priority }
func (p *OnePasswordProvider) Type() string  { return "onepassword" }

// SecretReference returns the op:// URI for a secret name.
func SecretReference(vault, item, field string) string {
	return fmt.Sprintf("op://%s/%s/%s", vault, item, field)
}

func (p *OnePasswordProvider) Resolve(ctx context.Context, name string) (string, error) {
	ref := SecretReference(p.vault, name, p.field)
	val, err := p.client.Secrets().Resolve(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", ref, err)
	}
	return val, nil
}

func (p *OnePasswordProvider) Healthy(ctx context.Context) (bool, int64, error) {
	start := time.Now()
	_, err := p.client.Vaults().List(ctx)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return false, latency, err
	}
	return true, latency, nil
}
