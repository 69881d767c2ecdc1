package generation

import (
	"fmt"
	"time"
)

// Config holds settings for a language-model backed generator.
type Config struct {
	// APIKey authenticates with the provider. Empty falls back to OPENAI_API_KEY.
	APIKey string

	// Model is the model identifier, e.g. "gpt-4o-mini".
	Model string

	// BaseURL overrides the API endpoint (optional).
	BaseURL string

	// Temperature controls randomness. Nil leaves it to the provider; zero
	// is sent as zero.
	Temperature *float64

	// MaxTokens limits the response length (0 = provider default).
	MaxTokens int

	// MaxChoices caps the number of choices returned per segment.
	MaxChoices int

	// RequestTimeout bounds one API request (0 = no per-request limit).
	RequestTimeout time.Duration
}

// Float returns a pointer to v, for Config.Temperature.
func Float(v float64) *float64 {
	return &v
}

// DefaultConfig returns defaults suited to short interactive segments.
func DefaultConfig() Config {
	return Config{
		Model:      "gpt-4o-mini",
		MaxTokens:  400,
		MaxChoices: 3,
	}
}

// Validate checks fields that have no fallback.
func (c Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("%w: missing model name", ErrInvalidConfig)
	}
	if c.MaxChoices <= 0 {
		return fmt.Errorf("%w: max choices must be positive", ErrInvalidConfig)
	}
	if t := c.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("%w: temperature must be within [0, 2]", ErrInvalidConfig)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("%w: max tokens must not be negative", ErrInvalidConfig)
	}
	return nil
}
