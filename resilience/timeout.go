package resilience

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds one attempt when TimeoutConfig.Timeout is unset.
const DefaultTimeout = 30 * time.Second

type TimeoutConfig struct {
	Timeout time.Duration
}

// Timeout gives every wrapped call its own deadline.
type Timeout struct {
	config TimeoutConfig
}

func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Timeout{config: config}
}

// Execute runs op under a derived deadline and returns ErrTimeout once it
// passes, without waiting for op. A late result is dropped. Cancellation of
// the parent ctx is returned as is.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- op(ctx) }()

	var err error
	select {
	case err = <-done:
		if ctx.Err() == nil {
			return err
		}
	case <-ctx.Done():
		err = ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

func (t *Timeout) Config() TimeoutConfig {
	return t.config
}
