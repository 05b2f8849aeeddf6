package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultVaultName = "quantumkeys"

	ProviderKeyVault    = "keyvault"
	ProviderEnv         = "env"
	ProviderOnePassword = "onepassword"
)

type Config struct {
	APIToken string `yaml:"-"` // from QV_API_TOKEN env

	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	Vault struct {
		Name string `yaml:"name"`
		URL  string `yaml:"url"`
	} `yaml:"vault"`

	Providers []ProviderConfig `yaml:"providers"`

	Secrets SecretNames `yaml:"secrets"`

	Database struct {
		Port                  int    `yaml:"port"`
		Tenant                string `yaml:"tenant"`
		HostNameInCertificate string `yaml:"host_name_in_certificate"`
		LoginTimeout          int    `yaml:"login_timeout"`
	} `yaml:"database"`
}

// SecretNames maps each credential to the vault secret holding it.
type SecretNames struct {
	Server   string `yaml:"server"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Storage  string `yaml:"storage"`
}

type ProviderConfig struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	URL      string `yaml:"url"`
	Token    string `yaml:"token"`
	Vault    string `yaml:"vault"`
	Field    string `yaml:"field"`
	Prefix   string `yaml:"prefix"`
	Priority int    `yaml:"priority"`
}

// VaultURL returns the configured vault URL, deriving it from the vault name
// when no explicit URL is set.
func (c *Config) VaultURL() string {
	if c.Vault.URL != "" {
		return c.Vault.URL
	}
	return fmt.Sprintf("https://%s.vault.azure.net", c.Vault.Name)
}

func Load(path string) (*Config, error) {
	cfg := &Config{}

	// Defaults
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8766
	cfg.Vault.Name = DefaultVaultName
	cfg.Secrets = SecretNames{
		Server:   "QuantumDB-Server",
		Database: "QuantumDB-Database",
		Username: "QuantumDB-username",
		Password: "QuantumDB-password",
		Storage:  "storage-phoenixus-connection-string",
	}
	cfg.Database.Port = 1433
	cfg.Database.Tenant = "quantum"
	cfg.Database.HostNameInCertificate = "*.database.windows.net"
	cfg.Database.LoginTimeout = 30

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// Env overrides
	if v := os.Getenv("QV_API_TOKEN"); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv("QV_KEYVAULT_NAME"); v != "" {
		cfg.Vault.Name = v
	}
	if v := os.Getenv("QV_KEYVAULT_URL"); v != "" {
		cfg.Vault.URL = v
	}

	// The Key Vault is always the primary source unless providers were listed explicitly.
	if len(cfg.Providers) == 0 {
		cfg.Providers = append(cfg.Providers, ProviderConfig{
			Name:     cfg.Vault.Name,
			Type:     ProviderKeyVault,
			Priority: 1,
		})
	}
	for i := range cfg.Providers {
		if cfg.Providers[i].Type == ProviderKeyVault && cfg.Providers[i].URL == "" {
			cfg.Providers[i].URL = cfg.VaultURL()
		}
	}

	if v := os.Getenv("QV_SECRET_PREFIX"); v != "" {
		for i := range cfg.Providers {
			if cfg.Providers[i].Type == ProviderEnv {
				cfg.Providers[i].Prefix = v
			}
		}
	}
	if v := os.Getenv("OP_SERVICE_ACCOUNT_TOKEN"); v != "" {
		for i := range cfg.Providers {
			if cfg.Providers[i].Type == ProviderOnePassword {
				cfg.Providers[i].Token = v
			}
		}
	}

	return cfg, nil
}
