package config

import (
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "STORYCACHE"

var defaults = map[string]any{
	"cache.ttl":            5 * time.Minute,
	"cache.max_entries":    500,
	"cache.degraded_ratio": 0.9,

	"server.addr":             ":8080",
	"server.read_timeout":     10 * time.Second,
	"server.shutdown_timeout": 15 * time.Second,
	"server.memory_limit":     uint64(0),

	"observe.service_name":     "storycache",
	"observe.version":          "dev",
	"observe.tracing_enabled":  false,
	"observe.tracing_exporter": "none",
	"observe.sample_pct":       1.0,
	"observe.metrics_enabled":  true,
	"observe.metrics_exporter": "prometheus",
	"observe.log_level":        "info",

	"auth.enabled":     true,
	"auth.signing_key": "",
	"auth.issuer":      "",
	"auth.audience":    "",
	"auth.admin_role":  "admin",
	"auth.leeway":      30 * time.Second,

	"generation.backend":          BackendOpenAI,
	"generation.api_key":          "",
	"generation.model":            "gpt-4o-mini",
	"generation.base_url":         "",
	"generation.temperature":      0.8,
	"generation.max_tokens":       400,
	"generation.max_choices":      3,
	"generation.timeout":          20 * time.Second,
	"generation.max_attempts":     3,
	"generation.backoff":          "exponential",
	"generation.breaker_failures": 5,
	"generation.breaker_reset":    30 * time.Second,
}

func setDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}
