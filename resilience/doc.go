// Package resilience guards calls to the story generation backend.
//
// Generation calls are slow, rate-limited upstream, and occasionally fail.
// The patterns here are composed by Executor around each call:
//
//   - Circuit Breaker: stops calling a backend that keeps failing and lets a
//     single probe through after a cool-down.
//
//   - Retry: retries transient failures with exponential, linear or constant
//     backoff. Errors wrapped with Permanent are never retried.
//
//   - Timeout: bounds each individual attempt.
//
// # Usage
//
//	executor := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	        MaxFailures:  5,
//	        ResetTimeout: 30 * time.Second,
//	    })),
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{MaxAttempts: 3})),
//	    resilience.WithTimeout(20*time.Second),
//	)
//
//	segment, err := resilience.Do(ctx, executor, func(ctx context.Context) (string, error) {
//	    return generator.GenerateSegment(ctx, sc)
//	})
package resilience
