package health

import (
	"context"
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
)

// MemoryCheckerConfig configures the memory health checker.
type MemoryCheckerConfig struct {
	// Limit is the heap size the process is expected to stay under, in
	// bytes. Zero uses the memory obtained from the OS.
	Limit uint64

	// WarningThreshold is the fraction of Limit that reports Degraded.
	// Default: 0.8
	WarningThreshold float64

	// CriticalThreshold is the fraction of Limit that reports Unhealthy.
	// Default: 0.95
	CriticalThreshold float64
}

// MemoryChecker watches heap usage. The cache lives entirely in memory, so
// heap growth is the first sign that MaxEntries is set too high.
type MemoryChecker struct {
	config  MemoryCheckerConfig
	readMem func(*runtime.MemStats)
}

var _ Checker = (*MemoryChecker)(nil)

// NewMemoryChecker creates a new memory health checker.
func NewMemoryChecker(config MemoryCheckerConfig) *MemoryChecker {
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= config.WarningThreshold || config.CriticalThreshold > 1 {
		config.CriticalThreshold = 0.95
		if config.CriticalThreshold <= config.WarningThreshold {
			config.CriticalThreshold = 1
		}
	}
	return &MemoryChecker{config: config, readMem: runtime.ReadMemStats}
}

// Name returns "memory".
func (m *MemoryChecker) Name() string {
	return "memory"
}

// Check compares the live heap with the configured limit.
func (m *MemoryChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context cancelled", err)
	}

	var stats runtime.MemStats
	m.readMem(&stats)

	limit := m.config.Limit
	if limit == 0 {
		limit = stats.Sys
	}
	details := map[string]any{
		"heap_alloc_bytes": stats.HeapAlloc,
		"limit_bytes":      limit,
		"num_gc":           stats.NumGC,
		"goroutines":       runtime.NumGoroutine(),
	}
	if limit == 0 {
		return Healthy("memory stats unavailable").WithDetails(details)
	}

	ratio := float64(stats.HeapAlloc) / float64(limit)
	details["usage_percent"] = ratio * 100
	usage := fmt.Sprintf("%s of %s", humanize.IBytes(stats.HeapAlloc), humanize.IBytes(limit))

	switch {
	case ratio >= m.config.CriticalThreshold:
		return Unhealthy("memory usage critical: "+usage, ErrMemoryCritical).WithDetails(details)
	case ratio >= m.config.WarningThreshold:
		return Degraded("memory usage high: " + usage).WithDetails(details)
	default:
		return Healthy("memory usage normal: " + usage).WithDetails(details)
	}
}
