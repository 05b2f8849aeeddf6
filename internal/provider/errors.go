package provider

import "errors"

var (
	// ErrAuthentication means no identity source could be used to reach the backend.
	ErrAuthentication = errors.New("authentication failed")
	// ErrSecretNotFound means the backend has no value under the requested name.
	ErrSecretNotFound = errors.New("secret not found")
	// ErrAccessDenied means the identity is not allowed to read the secret.
	ErrAccessDenied = errors.New("access denied")
)
