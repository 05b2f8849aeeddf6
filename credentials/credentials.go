// Package credentials loads the credentials shared by Quantum Ventures
// projects from Azure Key Vault and hands out Quantum DB connections and the
// Phoenix US storage connection string.
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quantumventures/credentials/internal/metrics"
)

// Resolver fetches a secret by name and reports which source served it.
// *provider.Manager satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, name string) (value string, source string, err error)
}

// Authenticator is implemented by resolvers that must establish an identity
// before fetching secrets.
type Authenticator interface {
	Authenticate(ctx context.Context) error
}

// SecretNames maps each credential to the vault secret holding it.
type SecretNames struct {
	Server   string
	Database string
	Username string
	Password string
	Storage  string
}

var DefaultSecretNames = SecretNames{
	Server:   "QuantumDB-Server",
	Database: "QuantumDB-Database",
	Username: "QuantumDB-username",
	Password: "QuantumDB-password",
	Storage:  "storage-phoenixus-connection-string",
}

type options struct {
	names    SecretNames
	database DatabaseSettings
	dialer   Dialer
	status   zerolog.Logger
	reg      prometheus.Registerer
}

type Option func(*options)

// WithSecretNames overrides the vault secret names.
func WithSecretNames(n SecretNames) Option {
	return func(o *options) { o.names = n }
}

// WithDatabaseSettings overrides the fixed descriptor settings.
func WithDatabaseSettings(s DatabaseSettings) Option {
	return func(o *options) { o.database = s }
}

func WithDialer(d Dialer) Option {
	return func(o *options) { o.dialer = d }
}

// WithStatusLogger sets where verbose connection notices are written.
func WithStatusLogger(l zerolog.Logger) Option {
	return func(o *options) { o.status = l }
}

// WithRegisterer registers fetch and connection metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.reg = reg }
}

// Credentials holds the secrets loaded at construction. It is read-only
// afterwards and safe for concurrent use.
type Credentials struct {
	descriptor Descriptor
	storage    string
	source     map[string]string
	dialer     Dialer
	status     zerolog.Logger
	metrics    *metrics.Metrics
}

// New authenticates r, fetches every secret and assembles the Quantum DB
// descriptor. Any failure aborts construction and no Credentials is returned.
func New(ctx context.Context, r Resolver, opts ...Option) (*Credentials, error) {
	o := options{
		names:    DefaultSecretNames,
		database: DefaultDatabaseSettings,
		dialer:   MSSQLDialer{},
		status:   log.Logger,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Credentials{
		source:  make(map[string]string),
		dialer:  o.dialer,
		status:  o.status,
		metrics: metrics.New(o.reg),
	}

	if a, ok := r.(Authenticator); ok {
		if err := a.Authenticate(ctx); err != nil {
			if !errors.Is(err, ErrAuthentication) {
				err = fmt.Errorf("%w: %w", ErrAuthentication, err)
			}
			return nil, fmt.Errorf("authenticate to vault: %w", err)
		}
	}

	fetch := func(name string) (string, error) {
		val, source, err := r.Resolve(ctx, name)
		c.metrics.ObserveFetch(name, err)
		if err != nil {
			return "", fmt.Errorf("load secret %q: %w", name, err)
		}
		c.source[name] = source
		return val, nil
	}

	// Quantum DB connection string
	server, err := fetch(o.names.Server)
	if err != nil {
		return nil, err
	}
	database, err := fetch(o.names.Database)
	if err != nil {
		return nil, err
	}
	username, err := fetch(o.names.Username)
	if err != nil {
		return nil, err
	}
	password, err := fetch(o.names.Password)
	if err != nil {
		return nil, err
	}
	c.descriptor = NewDescriptor(server, database, username, password, o.database)

	// Azure Blob Storage
	if c.storage, err = fetch(o.names.Storage); err != nil {
		return nil, err
	}

	log.Info().
		Str("host", server).
		Str("database", database).
		Int("secrets", len(c.source)).
		Msg("credentials: loaded")
	return c, nil
}

// Descriptor returns the base Quantum DB descriptor.
func (c *Credentials) Descriptor() Descriptor { return c.descriptor }

// StorageConnectionString returns the Phoenix US storage connection string
// exactly as stored in the vault.
func (c *Credentials) StorageConnectionString() string { return c.storage }

// Source reports which provider served a secret, or "" if it was not loaded.
func (c *Credentials) Source(secret string) string { return c.source[secret] }

// ConnectOptions tunes a single Connection call.
type ConnectOptions struct {
	// Verbose writes a notice to the status logger before and after connecting.
	Verbose bool
	// ReadOnly routes the connection to a read-only replica.
	ReadOnly bool
}

// Connection opens a Quantum DB connection. ReadOnly applies to this call
// only. The caller must close the returned handle.
func (c *Credentials) Connection(ctx context.Context, opts ConnectOptions) (*sql.DB, error) {
	d := c.descriptor
	target, intent := "Quantum DB", "readwrite"
	if opts.ReadOnly {
		d = d.WithReadOnly()
		target, intent = "Quantum DB (read-only)", "readonly"
	}

	attempt := uuid.NewString()
	if opts.Verbose {
		c.status.Info().Msg("Connecting to " + target + "...")
	}

	start := time.Now()
	db, err := c.dialer.Open(ctx, d)
	elapsed := time.Since(start)
	c.metrics.ObserveConnect(intent, elapsed, err)
	if err != nil {
		log.Error().Err(err).Str("attempt", attempt).Str("intent", intent).Str("host", d.Host).Msg("credentials: connect failed")
		return nil, &ConnectionError{Err: err}
	}
	log.Debug().Str("attempt", attempt).Str("intent", intent).Dur("elapsed", elapsed).Msg("credentials: connected")

	if opts.Verbose {
		c.status.Info().Msg("Connected to " + target + ".")
	}
	return db, nil
}
