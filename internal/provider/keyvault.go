package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/rs/zerolog/log"
)

const keyVaultScope = "https://vault.azure.net/.default"

// An empty version asks Key Vault for the current version of a secret.
const latestVersion = ""

type secretGetter interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

// KeyVaultProvider reads secrets from an Azure Key Vault using a token
// credential, normally the DefaultAzureCredential chain.
type KeyVaultProvider struct {
	name     string
	url      string
	priority int
	cred     azcore.TokenCredential
	client   secretGetter
}

func NewKeyVaultProvider(name, vaultURL string, priority int, cred azcore.TokenCredential) (*KeyVaultProvider, error) {
	if vaultURL == "" {
		return nil, fmt.Errorf("key vault url is required")
	}
	if cred == nil {
		return nil, fmt.Errorf("key vault credential is required")
	}
	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create key vault client: %w", err)
	}
	return &KeyVaultProvider{
		name:     name,
		url:      vaultURL,
		priority: priority,
		cred:     cred,
		client:   client,
	}, nil
}

func (p *KeyVaultProvider) Name() string  { return p.name }
func (p *KeyVaultProvider) Priority() int { return p.priority }
func (p *KeyVaultProvider) Type() string  { return "keyvault" }
func (p *KeyVaultProvider) URL() string   { return p.url }

// Authenticate acquires a Key Vault token so identity problems surface before
// any secret is requested.
func (p *KeyVaultProvider) Authenticate(ctx context.Context) error {
	if _, err := p.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{keyVaultScope}}); err != nil {
		return fmt.Errorf("key vault %s: %w: %w", p.url, ErrAuthentication, err)
	}
	log.Debug().Str("vault", p.url).Msg("key vault: authenticated")
	return nil
}

func (p *KeyVaultProvider) Resolve(ctx context.Context, name string) (string, error) {
	resp, err := p.client.GetSecret(ctx, name, latestVersion, nil)
	if err != nil {
		return "", fmt.Errorf("get secret %q: %w", name, classify(err))
	}
	if resp.Value == nil {
		return "", fmt.Errorf("get secret %q: %w", name, ErrSecretNotFound)
	}
	return *resp.Value, nil
}

func (p *KeyVaultProvider) Healthy(ctx context.Context) (bool, int64, error) {
	start := time.Now()
	err := p.Authenticate(ctx)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return false, latency, err
	}
	return true, latency, nil
}

// classify maps Key Vault and identity failures onto the package sentinels,
// keeping the original error in the chain.
func classify(err error) error {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", ErrSecretNotFound, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %w", ErrAccessDenied, err)
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %w", ErrAuthentication, err)
		}
		return err
	}
	var authErr *azidentity.AuthenticationFailedError
	if errors.As(err, &authErr) {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return err
}
