package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics counts generation calls. RecordGeneration must be cheap and safe
// for concurrent use.
type Metrics interface {
	RecordGeneration(ctx context.Context, meta GenerationMeta, duration time.Duration, err error)
}

// Generation instrument names.
const (
	MetricGenerateTotal    = "story.generate.total"
	MetricGenerateErrors   = "story.generate.errors"
	MetricGenerateDuration = "story.generate.duration_ms"
)

type generationMetrics struct {
	calls    metric.Int64Counter
	failures metric.Int64Counter
	latency  metric.Float64Histogram
}

// NewMetrics registers the generation instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	var (
		m   generationMetrics
		err error
	)
	if m.calls, err = meter.Int64Counter(MetricGenerateTotal,
		metric.WithDescription("Story generation calls"),
		metric.WithUnit("{call}")); err != nil {
		return nil, err
	}
	if m.failures, err = meter.Int64Counter(MetricGenerateErrors,
		metric.WithDescription("Failed story generation calls"),
		metric.WithUnit("{error}")); err != nil {
		return nil, err
	}
	if m.latency, err = meter.Float64Histogram(MetricGenerateDuration,
		metric.WithDescription("Story generation latency"),
		metric.WithUnit("ms")); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordGeneration labels by kind and backend only. Story fields and user
// ids would make the series unbounded.
func (m *generationMetrics) RecordGeneration(ctx context.Context, meta GenerationMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(generationAttrs(meta)...)
	m.calls.Add(ctx, 1, opt)
	if err != nil {
		m.failures.Add(ctx, 1, opt)
	}
	m.latency.Record(ctx, float64(duration.Milliseconds()), opt)
}

func generationAttrs(meta GenerationMeta) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("story.kind", meta.Kind.String())}
	if meta.Backend != "" {
		attrs = append(attrs, attribute.String("story.backend", meta.Backend))
	}
	return attrs
}

type noopMetrics struct{}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics { return noopMetrics{} }

func (noopMetrics) RecordGeneration(context.Context, GenerationMeta, time.Duration, error) {}
