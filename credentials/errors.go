package credentials

import "github.com/quantumventures/credentials/internal/provider"

var (
	ErrAuthentication = provider.ErrAuthentication
	ErrSecretNotFound = provider.ErrSecretNotFound
	ErrAccessDenied   = provider.ErrAccessDenied
)

// ConnectionError is returned when the database refuses or cannot be reached
// after the credentials were loaded. Callers may retry.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "error connecting to Quantum DB: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error { return e.Err }
