package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/storycache/resilience"
)

func validConfig() Config {
	return Config{
		Cache:  CacheConfig{TTL: time.Minute, MaxEntries: 10, DegradedRatio: 0.9},
		Server: ServerConfig{Addr: ":0", ShutdownTimeout: 5 * time.Second},
		Observe: ObserveConfig{
			ServiceName:     "storycache",
			MetricsEnabled:  true,
			MetricsExporter: "prometheus",
			LogLevel:        "info",
		},
		Auth: AuthConfig{Enabled: true, SigningKey: testKey, AdminRole: "admin"},
		Generation: GenerationConfig{
			Backend:         BackendOpenAI,
			Model:           "gpt-4o-mini",
			MaxChoices:      3,
			Timeout:         time.Second,
			MaxAttempts:     3,
			BreakerFailures: 5,
			BreakerReset:    30 * time.Second,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero ttl", mutate: func(c *Config) { c.Cache.TTL = 0 }, wantErr: "cache"},
		{name: "negative ttl", mutate: func(c *Config) { c.Cache.TTL = -time.Second }, wantErr: "cache"},
		{name: "zero max entries", mutate: func(c *Config) { c.Cache.MaxEntries = 0 }, wantErr: "cache"},
		{name: "degraded ratio above one", mutate: func(c *Config) { c.Cache.DegradedRatio = 1.5 }, wantErr: "cache"},
		{name: "missing addr", mutate: func(c *Config) { c.Server.Addr = "" }, wantErr: "server"},
		{name: "unknown metrics exporter", mutate: func(c *Config) { c.Observe.MetricsExporter = "statsd" }, wantErr: "observe"},
		{name: "disabled metrics ignores exporter", mutate: func(c *Config) {
			c.Observe.MetricsEnabled = false
			c.Observe.MetricsExporter = "statsd"
		}},
		{name: "bad log level", mutate: func(c *Config) { c.Observe.LogLevel = "trace" }, wantErr: "observe"},
		{name: "sample pct out of range", mutate: func(c *Config) { c.Observe.SamplePct = 1.5 }, wantErr: "observe"},
		{name: "short signing key", mutate: func(c *Config) { c.Auth.SigningKey = "short" }, wantErr: "auth"},
		{name: "auth disabled needs no key", mutate: func(c *Config) {
			c.Auth.Enabled = false
			c.Auth.SigningKey = ""
		}},
		{name: "unknown backend", mutate: func(c *Config) { c.Generation.Backend = "llama" }, wantErr: "generation"},
		{name: "mock needs no model", mutate: func(c *Config) {
			c.Generation.Backend = BackendMock
			c.Generation.Model = ""
		}},
		{name: "bad base url", mutate: func(c *Config) { c.Generation.BaseURL = "not a url" }, wantErr: "generation"},
		{name: "unknown backoff", mutate: func(c *Config) { c.Generation.Backoff = "fibonacci" }, wantErr: "generation"},
		{name: "too many choices", mutate: func(c *Config) { c.Generation.MaxChoices = 11 }, wantErr: "generation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConversions(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.Issuer = "storycache"
	cfg.Auth.Leeway = time.Second

	cc := cfg.Cache.ToCache()
	assert.Equal(t, time.Minute, cc.TTL)
	assert.Equal(t, 10, cc.MaxEntries)

	oc := cfg.Observe.ToObserve()
	require.NoError(t, oc.Validate())
	assert.True(t, oc.Logging.Enabled)
	assert.Equal(t, "prometheus", oc.Metrics.Exporter)

	jc := cfg.Auth.ToJWT()
	assert.Equal(t, "storycache", jc.Issuer)
	assert.Equal(t, time.Second, jc.Leeway)

	gc := cfg.Generation.ToGenerator()
	require.NoError(t, gc.Validate())
	assert.Equal(t, time.Second, gc.RequestTimeout)
	require.NotNil(t, gc.Temperature, "a configured temperature of 0 must reach the generator")
	assert.Zero(t, *gc.Temperature)

	cfg.Generation.Backoff = "linear"
	exec := cfg.Generation.Executor()
	assert.NotNil(t, exec.CircuitBreaker())
	require.NotNil(t, exec.Retry())
	assert.Equal(t, resilience.BackoffLinear, exec.Retry().Config().Strategy)
}
