package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// BackoffStrategy shapes the delay between attempts.
type BackoffStrategy int

const (
	BackoffExponential BackoffStrategy = iota
	BackoffLinear
	BackoffConstant
)

var backoffNames = [...]string{"exponential", "linear", "constant"}

func (s BackoffStrategy) String() string {
	if s < 0 || int(s) >= len(backoffNames) {
		return "unknown"
	}
	return backoffNames[s]
}

// ParseBackoffStrategy is the inverse of String. Unknown names, including
// the empty string, mean BackoffExponential.
func ParseBackoffStrategy(name string) BackoffStrategy {
	for i, n := range backoffNames {
		if n == name {
			return BackoffStrategy(i)
		}
	}
	return BackoffExponential
}

// Retry defaults.
const (
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = 100 * time.Millisecond
	DefaultMaxDelay     = 30 * time.Second
	DefaultMultiplier   = 2.0
)

type RetryConfig struct {
	// MaxAttempts counts the first call.
	MaxAttempts int

	// InitialDelay is the wait before the second attempt; later waits
	// grow from it per Strategy, capped at MaxDelay.
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64 // exponential only
	Strategy     BackoffStrategy

	// Jitter adds up to a quarter of the delay at random.
	Jitter bool

	// RetryIf reports whether err deserves another attempt. Nil means
	// DefaultRetryIf.
	RetryIf func(err error) bool

	// OnRetry runs before each wait.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry re-runs a failing generation call with backoff.
type Retry struct {
	config RetryConfig
}

func NewRetry(config RetryConfig) *Retry {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = DefaultInitialDelay
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = DefaultMaxDelay
	}
	if config.Multiplier <= 0 {
		config.Multiplier = DefaultMultiplier
	}
	if config.RetryIf == nil {
		config.RetryIf = DefaultRetryIf
	}
	return &Retry{config: config}
}

// DefaultRetryIf refuses Permanent errors, caller cancellation and an open
// circuit. Everything else is retried.
func DefaultRetryIf(err error) bool {
	switch {
	case err == nil, IsPermanent(err), isCancellation(err):
		return false
	default:
		return !errors.Is(err, ErrCircuitOpen)
	}
}

// Execute calls op until it succeeds, RetryIf refuses the error or the
// attempts are used up, and returns the last error as is. Cancelling ctx
// during a wait returns ctx.Err().
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil || attempt >= r.config.MaxAttempts || !r.config.RetryIf(err) {
			return err
		}

		delay := r.calculateDelay(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}
		if werr := sleep(ctx, delay); werr != nil {
			return werr
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *Retry) calculateDelay(attempt int) time.Duration {
	c := r.config
	var delay time.Duration
	switch c.Strategy {
	case BackoffConstant:
		delay = c.InitialDelay
	case BackoffLinear:
		delay = c.InitialDelay * time.Duration(attempt)
	default:
		delay = time.Duration(float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt-1)))
	}
	delay = min(delay, c.MaxDelay)

	if c.Jitter && delay >= 4 {
		// #nosec G404 -- timing variance, not security.
		delay += time.Duration(rand.Int64N(int64(delay / 4)))
	}
	return delay
}

func (r *Retry) Config() RetryConfig {
	return r.config
}
