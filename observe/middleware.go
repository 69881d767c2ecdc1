package observe

import (
	"context"
	"time"
)

// GenerateFunc performs one generation call. Results are delivered through
// the closure; the middleware only observes the error.
type GenerateFunc func(ctx context.Context, meta GenerationMeta) error

// Middleware wraps generation calls with tracing, metrics, and logging.
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe GenerateFunc.
//   - Context: the wrapped function receives a context carrying the span.
//   - Errors: errors from the wrapped function are recorded and propagated unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware. Nil components are replaced with
// no-op implementations.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NopTracer()
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps a GenerateFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn GenerateFunc) GenerateFunc {
	return func(ctx context.Context, meta GenerationMeta) error {
		if err := meta.Validate(); err != nil {
			return err
		}

		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		err := fn(ctx, meta)

		duration := time.Since(start)
		m.tracer.EndSpan(span, err)
		m.metrics.RecordGeneration(ctx, meta, duration, err)

		logger := m.logger.WithGeneration(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			logger.Error(ctx, "story generation failed", fields...)
		} else {
			logger.Info(ctx, "story generation completed", fields...)
		}

		return err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
