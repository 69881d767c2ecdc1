package config

import "errors"

var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrReadConfig wraps failures reading the config or .env file.
	ErrReadConfig = errors.New("config: read failed")
)
