package resilience

import (
	"context"
	"testing"
	"time"
)

func BenchmarkCircuitBreaker_ExecuteClosed(b *testing.B) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})
	ctx := context.Background()
	op := func(context.Context) error { return nil }

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = cb.Execute(ctx, op)
	}
}

func BenchmarkExecutor_AllPatterns(b *testing.B) {
	e := NewExecutor(
		WithCircuitBreaker(NewCircuitBreaker(CircuitBreakerConfig{})),
		WithRetry(NewRetry(RetryConfig{})),
		WithTimeout(time.Second),
	)
	ctx := context.Background()
	op := func(context.Context) (string, error) { return "ok", nil }

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Do(ctx, e, op)
	}
}
