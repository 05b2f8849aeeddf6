package credentials

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/quantumventures/credentials/internal/config"
	"github.com/quantumventures/credentials/internal/provider"
)

var (
	instanceMu    sync.Mutex
	instance      *Credentials
	instanceGroup singleflight.Group

	loadDefault = LoadDefault
)

// Instance returns the process-wide Credentials, loading them with
// LoadDefault on first use. Concurrent first callers share a single load, run
// with the context of the caller that started it. A failed load is not
// remembered; the next call tries again.
//
// Prefer New and passing the result explicitly; Instance exists for code
// that cannot be handed a *Credentials.
func Instance(ctx context.Context) (*Credentials, error) {
	instanceMu.Lock()
	c := instance
	instanceMu.Unlock()
	if c != nil {
		return c, nil
	}

	v, err, _ := instanceGroup.Do("instance", func() (interface{}, error) {
		instanceMu.Lock()
		existing := instance
		instanceMu.Unlock()
		if existing != nil {
			return existing, nil
		}

		c, err := loadDefault(ctx)
		if err != nil {
			return nil, err
		}
		instanceMu.Lock()
		instance = c
		instanceMu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Credentials), nil
}

// LoadDefault loads the configuration named by QV_CONFIG (defaults apply when
// unset) and builds Credentials from it.
func LoadDefault(ctx context.Context) (*Credentials, error) {
	cfg, err := config.Load(os.Getenv("QV_CONFIG"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return FromConfig(ctx, cfg)
}

// FromConfig builds the configured providers and loads Credentials through them.
func FromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Credentials, error) {
	mgr, err := provider.FromConfig(ctx, cfg.Providers)
	if err != nil {
		return nil, fmt.Errorf("create provider manager: %w", err)
	}
	return New(ctx, mgr, append(ConfigOptions(cfg), opts...)...)
}

// ConfigOptions translates the secret names and database settings of cfg.
func ConfigOptions(cfg *config.Config) []Option {
	return []Option{
		WithSecretNames(SecretNames{
			Server:   cfg.Secrets.Server,
			Database: cfg.Secrets.Database,
			Username: cfg.Secrets.Username,
			Password: cfg.Secrets.Password,
			Storage:  cfg.Secrets.Storage,
		}),
		WithDatabaseSettings(DatabaseSettings{
			Port:                  cfg.Database.Port,
			Tenant:                cfg.Database.Tenant,
			HostNameInCertificate: cfg.Database.HostNameInCertificate,
			LoginTimeout:          time.Duration(cfg.Database.LoginTimeout) * time.Second,
		}),
	}
}
