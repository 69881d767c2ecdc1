package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/jonwraymond/storycache/observe"
)

// minSigningKeyLen is the shortest accepted HS256 key, in bytes.
const minSigningKeyLen = 32

// Validate checks every section. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	sections := []struct {
		name string
		fn   func() error
	}{
		{"cache", c.Cache.validate},
		{"server", c.Server.validate},
		{"observe", c.Observe.validate},
		{"auth", c.Auth.validate},
		{"generation", c.Generation.validate},
	}
	for _, s := range sections {
		if err := s.fn(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, s.name, err)
		}
	}
	return nil
}

func (c *CacheConfig) validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.MaxEntries, validation.Required, validation.Min(1)),
		validation.Field(&c.DegradedRatio, validation.Min(0.0).Exclusive(), validation.Max(1.0)),
	)
}

func (c *ServerConfig) validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.ReadTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.ShutdownTimeout, validation.Required, validation.Min(time.Second)),
	)
}

func (c *ObserveConfig) validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ServiceName, validation.Required),
		validation.Field(&c.TracingExporter,
			validation.When(c.TracingEnabled, validation.Required, validation.In(toAny(observe.ValidTracingExporters)...))),
		validation.Field(&c.SamplePct, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.MetricsExporter,
			validation.When(c.MetricsEnabled, validation.Required, validation.In(toAny(observe.ValidMetricsExporters)...))),
		validation.Field(&c.LogLevel, validation.Required, validation.In(toAny(observe.ValidLogLevels)...)),
	)
}

func (c *AuthConfig) validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SigningKey,
			validation.When(c.Enabled, validation.Required, validation.Length(minSigningKeyLen, 0))),
		validation.Field(&c.AdminRole, validation.When(c.Enabled, validation.Required)),
		validation.Field(&c.Leeway, validation.Min(time.Duration(0))),
	)
}

func (c *GenerationConfig) validate() error {
	openai := c.Backend == BackendOpenAI
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendOpenAI, BackendMock)),
		validation.Field(&c.Model, validation.When(openai, validation.Required)),
		validation.Field(&c.BaseURL, is.RequestURL),
		validation.Field(&c.Temperature, validation.Min(0.0), validation.Max(2.0)),
		validation.Field(&c.MaxTokens, validation.Min(0)),
		validation.Field(&c.MaxChoices, validation.Required, validation.Min(1), validation.Max(10)),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.MaxAttempts, validation.Required, validation.Min(1)),
		validation.Field(&c.Backoff, validation.In("exponential", "linear", "constant")),
		validation.Field(&c.BreakerFailures, validation.Required, validation.Min(1)),
		validation.Field(&c.BreakerReset, validation.Required, validation.Min(time.Second)),
	)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
