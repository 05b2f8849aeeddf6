package provider

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/quantumventures/credentials/internal/config"
)

// FromConfig builds a Manager from the config's provider list. The Azure
// credential chain is built once and shared by every Key Vault provider.
func FromConfig(ctx context.Context, providers []config.ProviderConfig) (*Manager, error) {
	var (
		ps   []Provider
		cred azcore.TokenCredential
	)
	for _, pc := range providers {
		switch pc.Type {
		case config.ProviderKeyVault:
			if cred == nil {
				c, err := azidentity.NewDefaultAzureCredential(nil)
				if err != nil {
					return nil, fmt.Errorf("provider %q: %w: %w", pc.Name, ErrAuthentication, err)
				}
				cred = c
			}
			p, err := NewKeyVaultProvider(pc.Name, pc.URL, pc.Priority, cred)
			if err != nil {
				return nil, fmt.Errorf("provider %q: %w", pc.Name, err)
			}
			ps = append(ps, p)
		case config.ProviderEnv:
			ps = append(ps, NewEnvProvider(pc.Name, pc.Prefix, pc.Priority))
		case config.ProviderOnePassword:
			p, err := NewOnePasswordProvider(ctx, pc.Name, pc.Token, pc.Vault, pc.Field, pc.Priority)
			if err != nil {
				return nil, fmt.Errorf("provider %q: %w", pc.Name, err)
			}
			ps = append(ps, p)
		default:
			return nil, fmt.Errorf("unknown provider type: %q", pc.Type)
		}
	}
	return NewManager(ps), nil
}
