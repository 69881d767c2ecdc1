package secret

import "errors"

var (
	// ErrInvalidRef indicates a malformed secretref value.
	ErrInvalidRef = errors.New("secret: invalid secret reference")

	// ErrProviderNotRegistered indicates a reference names an unknown provider.
	ErrProviderNotRegistered = errors.New("secret: provider not registered")

	// ErrNotFound indicates the provider has no value for the reference.
	ErrNotFound = errors.New("secret: not found")

	// ErrEmptySecret indicates a strict resolver received an empty value.
	ErrEmptySecret = errors.New("secret: empty value")

	// ErrMissingEnv indicates ${VAR} names an unset environment variable.
	ErrMissingEnv = errors.New("secret: missing required environment variables")
)
