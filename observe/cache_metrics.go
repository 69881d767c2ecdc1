package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/storycache/cache"
)

// CacheMetrics exports cache events as OpenTelemetry counters. It
// implements cache.Recorder.
type CacheMetrics struct {
	hits        metric.Int64Counter
	misses      metric.Int64Counter
	expirations metric.Int64Counter
	evictions   metric.Int64Counter
	clears      metric.Int64Counter
}

var _ cache.Recorder = (*CacheMetrics)(nil)

// NewCacheMetrics creates the storycache.* counters on meter.
func NewCacheMetrics(meter metric.Meter) (*CacheMetrics, error) {
	m := &CacheMetrics{}
	for _, c := range []struct {
		dst  *metric.Int64Counter
		name string
		desc string
		unit string
	}{
		{&m.hits, "storycache.hits", "Cache lookups that returned a live entry", "{lookup}"},
		{&m.misses, "storycache.misses", "Cache lookups that found no live entry", "{lookup}"},
		{&m.expirations, "storycache.expirations", "Entries removed on access because their TTL elapsed", "{entry}"},
		{&m.evictions, "storycache.evictions", "Entries removed to stay within the size bound", "{entry}"},
		{&m.clears, "storycache.clears", "Entries removed by Clear", "{entry}"},
	} {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}
	return m, nil
}

func kindAttr(kind cache.Kind) metric.AddOption {
	return metric.WithAttributes(attribute.String("cache.kind", kind.String()))
}

// RecordHit counts a cache hit.
func (m *CacheMetrics) RecordHit(ctx context.Context, kind cache.Kind) {
	m.hits.Add(ctx, 1, kindAttr(kind))
}

// RecordMiss counts a cache miss.
func (m *CacheMetrics) RecordMiss(ctx context.Context, kind cache.Kind) {
	m.misses.Add(ctx, 1, kindAttr(kind))
}

// RecordExpiration counts a lazily expired entry.
func (m *CacheMetrics) RecordExpiration(ctx context.Context, kind cache.Kind) {
	m.expirations.Add(ctx, 1, kindAttr(kind))
}

// RecordEviction counts entries evicted by one insertion.
func (m *CacheMetrics) RecordEviction(ctx context.Context, kind cache.Kind, count int) {
	if count <= 0 {
		return
	}
	m.evictions.Add(ctx, int64(count), kindAttr(kind))
}

// RecordClear counts entries dropped by Clear.
func (m *CacheMetrics) RecordClear(ctx context.Context, removed int) {
	if removed <= 0 {
		return
	}
	m.clears.Add(ctx, int64(removed))
}
