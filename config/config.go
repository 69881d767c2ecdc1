package config

import (
	"time"

	"github.com/jonwraymond/storycache/auth"
	"github.com/jonwraymond/storycache/cache"
	"github.com/jonwraymond/storycache/generation"
	"github.com/jonwraymond/storycache/observe"
	"github.com/jonwraymond/storycache/resilience"
)

// Config is the complete service configuration.
type Config struct {
	Cache      CacheConfig      `mapstructure:"cache"`
	Server     ServerConfig     `mapstructure:"server"`
	Observe    ObserveConfig    `mapstructure:"observe"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Generation GenerationConfig `mapstructure:"generation"`
}

// CacheConfig configures the context cache and its health check.
type CacheConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	MaxEntries    int           `mapstructure:"max_entries"`
	DegradedRatio float64       `mapstructure:"degraded_ratio"`
}

// ServerConfig configures the admin HTTP listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MemoryLimit     uint64        `mapstructure:"memory_limit"`
}

// ObserveConfig configures telemetry.
type ObserveConfig struct {
	ServiceName     string  `mapstructure:"service_name"`
	Version         string  `mapstructure:"version"`
	TracingEnabled  bool    `mapstructure:"tracing_enabled"`
	TracingExporter string  `mapstructure:"tracing_exporter"`
	SamplePct       float64 `mapstructure:"sample_pct"`
	MetricsEnabled  bool    `mapstructure:"metrics_enabled"`
	MetricsExporter string  `mapstructure:"metrics_exporter"`
	LogLevel        string  `mapstructure:"log_level"`
}

// AuthConfig configures JWT authentication of the admin surface.
type AuthConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	SigningKey string        `mapstructure:"signing_key"`
	Issuer     string        `mapstructure:"issuer"`
	Audience   string        `mapstructure:"audience"`
	AdminRole  string        `mapstructure:"admin_role"`
	Leeway     time.Duration `mapstructure:"leeway"`
}

// GenerationConfig configures the generator backend and its resilience.
type GenerationConfig struct {
	Backend         string        `mapstructure:"backend"`
	APIKey          string        `mapstructure:"api_key"`
	Model           string        `mapstructure:"model"`
	BaseURL         string        `mapstructure:"base_url"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	MaxChoices      int           `mapstructure:"max_choices"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxAttempts     int           `mapstructure:"max_attempts"`
	Backoff         string        `mapstructure:"backoff"`
	BreakerFailures int           `mapstructure:"breaker_failures"`
	BreakerReset    time.Duration `mapstructure:"breaker_reset"`
}

// Generator backends.
const (
	BackendOpenAI = "openai"
	BackendMock   = "mock"
)

// ToCache converts to the cache package configuration.
func (c CacheConfig) ToCache() cache.Config {
	return cache.Config{TTL: c.TTL, MaxEntries: c.MaxEntries}
}

// ToObserve converts to the observe package configuration. Logging is
// always enabled.
func (c ObserveConfig) ToObserve() observe.Config {
	return observe.Config{
		ServiceName: c.ServiceName,
		Version:     c.Version,
		Tracing: observe.TracingConfig{
			Enabled:   c.TracingEnabled,
			Exporter:  c.TracingExporter,
			SamplePct: c.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.MetricsEnabled,
			Exporter: c.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.LogLevel,
		},
	}
}

// ToJWT converts to the auth package configuration.
func (c AuthConfig) ToJWT() auth.JWTConfig {
	return auth.JWTConfig{
		Issuer:   c.Issuer,
		Audience: c.Audience,
		Leeway:   c.Leeway,
	}
}

// ToGenerator converts to the generation package configuration.
func (c GenerationConfig) ToGenerator() generation.Config {
	return generation.Config{
		APIKey:         c.APIKey,
		Model:          c.Model,
		BaseURL:        c.BaseURL,
		Temperature:    generation.Float(c.Temperature),
		MaxTokens:      c.MaxTokens,
		MaxChoices:     c.MaxChoices,
		RequestTimeout: c.Timeout,
	}
}

// Executor builds the resilience executor wrapping each generation.
func (c GenerationConfig) Executor() *resilience.Executor {
	return resilience.NewExecutor(
		resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts: c.MaxAttempts,
			Strategy:    resilience.ParseBackoffStrategy(c.Backoff),
			Jitter:      true,
		})),
		resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			MaxFailures:  c.BreakerFailures,
			ResetTimeout: c.BreakerReset,
		})),
		resilience.WithTimeout(c.Timeout),
	)
}
