package health

import "errors"

// Errors carried by unhealthy results and aggregator lookups.
var (
	ErrCheckTimeout    = errors.New("health: check did not finish before the deadline")
	ErrCheckerNotFound = errors.New("health: no checker registered under that name")
	ErrMemoryCritical  = errors.New("health: heap usage above critical threshold")
)
