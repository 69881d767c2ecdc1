package generation

import "errors"

var (
	ErrInvalidConfig    = errors.New("generation: invalid configuration")
	ErrGenerationFailed = errors.New("generation: request failed")
)
