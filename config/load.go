package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jonwraymond/storycache/secret"
)

// LoadOptions selects the optional sources read by Load.
type LoadOptions struct {
	// ConfigFile is a YAML file path. Empty means defaults and environment only.
	ConfigFile string

	// EnvFile is a dotenv file loaded before reading the environment.
	// A missing file is ignored.
	EnvFile string

	// Resolver resolves secret references in credential fields.
	// Nil uses env and file providers rooted at SecretsDir.
	Resolver *secret.Resolver

	// SecretsDir is the base directory of the file provider.
	SecretsDir string
}

// Load reads, resolves, and validates the configuration.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: env file %s: %w", ErrReadConfig, opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrReadConfig, opts.ConfigFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidConfig, err)
	}

	resolver := opts.Resolver
	if resolver == nil {
		resolver = secret.NewResolver(false, secret.NewEnvProvider(), secret.NewFileProvider(opts.SecretsDir))
		defer resolver.Close()
	}
	if err := cfg.ResolveSecrets(ctx, resolver); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolveSecrets replaces secret references in credential fields.
func (c *Config) ResolveSecrets(ctx context.Context, r *secret.Resolver) error {
	for _, f := range []struct {
		name string
		ptr  *string
	}{
		{"auth.signing_key", &c.Auth.SigningKey},
		{"generation.api_key", &c.Generation.APIKey},
	} {
		if *f.ptr == "" {
			continue
		}
		resolved, err := r.ResolveValue(ctx, *f.ptr)
		if err != nil {
			return fmt.Errorf("config: resolve %s: %w", f.name, err)
		}
		*f.ptr = resolved
	}
	return nil
}
