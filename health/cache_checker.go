package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/storycache/cache"
)

// DefaultDegradedRatio is the store occupancy at which the cache reports
// Degraded.
const DefaultDegradedRatio = 0.9

// StatsSource is the part of the cache the checker reads.
type StatsSource interface {
	Stats() cache.Stats
}

// CacheCheckerConfig configures a CacheChecker.
type CacheCheckerConfig struct {
	// DegradedRatio is the fraction of MaxEntries at which either store
	// counts as full. Values outside (0, 1] use DefaultDegradedRatio.
	DegradedRatio float64
}

// CacheChecker reports cache occupancy from unexpired entries only, so
// entries past their TTL that nobody has read yet do not count. Degraded
// means "at capacity": further insertions evict live results. It is
// informational and readiness still answers 200; the cache never becomes
// unhealthy.
type CacheChecker struct {
	source StatsSource
	config CacheCheckerConfig
}

var _ Checker = (*CacheChecker)(nil)

// NewCacheChecker creates a checker for source.
func NewCacheChecker(source StatsSource, config CacheCheckerConfig) *CacheChecker {
	if config.DegradedRatio <= 0 || config.DegradedRatio > 1 {
		config.DegradedRatio = DefaultDegradedRatio
	}
	return &CacheChecker{source: source, config: config}
}

// Name returns "cache".
func (c *CacheChecker) Name() string {
	return "cache"
}

// Check compares each store's live entry count with MaxEntries.
func (c *CacheChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context cancelled", err)
	}

	s := c.source.Stats()
	details := map[string]any{
		"segments":      s.Segments,
		"choices":       s.Choices,
		"live_segments": s.LiveSegments,
		"live_choices":  s.LiveChoices,
		"max_entries":   s.MaxEntries,
		"hits":          s.Hits,
		"misses":        s.Misses,
		"evictions":     s.Evictions,
		"expirations":   s.Expirations,
		"clears":        s.Clears,
	}
	if s.MaxEntries <= 0 {
		return Healthy("cache unbounded").WithDetails(details)
	}

	fullest := max(s.LiveSegments, s.LiveChoices)
	ratio := float64(fullest) / float64(s.MaxEntries)
	details["occupancy"] = ratio

	if ratio >= c.config.DegradedRatio {
		return Degraded(fmt.Sprintf("cache near capacity: %d/%d entries", fullest, s.MaxEntries)).WithDetails(details)
	}
	return Healthy(fmt.Sprintf("cache occupancy %.0f%%", ratio*100)).WithDetails(details)
}
