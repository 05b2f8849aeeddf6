package provider

import "github.com/Azure/azure-sdk-for-go/sdk/azcore"

func NewKeyVaultProviderWithClient(name, vaultURL string, priority int, cred azcore.TokenCredential, client secretGetter) *KeyVaultProvider {
	return &KeyVaultProvider{
		name:     name,
		url:      vaultURL,
		priority: priority,
		cred:     cred,
		client:   client,
	}
}

func SetLookup(p *EnvProvider, lookup func(string) (string, bool)) {
	p.lookup = lookup
}
