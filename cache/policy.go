package cache

import "time"

const (
	// DefaultTTL is the entry lifetime used by DefaultConfig.
	DefaultTTL = 5 * time.Minute

	// DefaultMaxEntries is the per-mapping bound used by DefaultConfig.
	DefaultMaxEntries = 500
)

// Config configures expiry and size bounds. Both values apply uniformly to
// the segment and choice mappings.
type Config struct {
	// TTL is how long an entry stays readable after insertion.
	// An entry read at or after insertedAt+TTL is treated as absent.
	TTL time.Duration

	// MaxEntries bounds each mapping independently.
	MaxEntries int
}

// DefaultConfig returns the default cache configuration.
// TTL: 5 minutes, MaxEntries: 500
func DefaultConfig() Config {
	return Config{
		TTL:        DefaultTTL,
		MaxEntries: DefaultMaxEntries,
	}
}

// Validate rejects non-positive values. Nothing is clamped.
func (c Config) Validate() error {
	if c.TTL <= 0 {
		return ErrInvalidTTL
	}
	if c.MaxEntries <= 0 {
		return ErrInvalidMaxEntries
	}
	return nil
}

// Expired reports whether an entry inserted at insertedAt is expired at now.
func (c Config) Expired(insertedAt, now time.Time) bool {
	return now.Sub(insertedAt) >= c.TTL
}
