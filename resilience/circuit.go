package resilience

import (
	"context"
	"sync"
	"time"
)

// State is the position of a CircuitBreaker.
type State int

const (
	StateClosed State = iota
	StateOpen
	// StateHalfOpen admits HalfOpenMaxRequests probe calls.
	StateHalfOpen
)

var stateNames = [...]string{"closed", "open", "half-open"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Circuit breaker defaults.
const (
	DefaultMaxFailures  = 5
	DefaultResetTimeout = 30 * time.Second
)

type CircuitBreakerConfig struct {
	// MaxFailures consecutive failures open the circuit.
	MaxFailures int

	// ResetTimeout is measured from the last failure. Once it passes the
	// circuit turns half-open.
	ResetTimeout time.Duration

	HalfOpenMaxRequests int

	// OnStateChange runs under the breaker lock and must not call back
	// into the breaker.
	OnStateChange func(from, to State)

	// IsFailure reports whether err counts against the backend. Nil counts
	// every error except caller cancellation.
	IsFailure func(err error) bool

	Now func() time.Time
}

// CircuitBreaker stops calling a generation backend that keeps failing.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
	probes      int
	rejected    uint64
}

func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = DefaultMaxFailures
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = DefaultResetTimeout
	}
	if config.HalfOpenMaxRequests <= 0 {
		config.HalfOpenMaxRequests = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil && !isCancellation(err) }
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &CircuitBreaker{config: config}
}

// Execute calls op unless the circuit rejects it with ErrCircuitOpen.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.admit(); err != nil {
		return err
	}
	err := op(ctx)
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

// Reset closes the circuit and clears the failure count.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.probes = 0
	cb.setLocked(StateClosed)
}

func (cb *CircuitBreaker) Config() CircuitBreakerConfig {
	return cb.config
}

// CircuitBreakerMetrics is a point-in-time snapshot of a breaker.
type CircuitBreakerMetrics struct {
	State       State
	Failures    int
	Rejected    uint64
	LastFailure time.Time
}

func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return CircuitBreakerMetrics{
		State:       cb.stateLocked(),
		Failures:    cb.failures,
		Rejected:    cb.rejected,
		LastFailure: cb.lastFailure,
	}
}

func (cb *CircuitBreaker) admit() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state := cb.stateLocked()
	if state == StateHalfOpen && cb.probes < cb.config.HalfOpenMaxRequests {
		cb.probes++
		return nil
	}
	if state == StateClosed {
		return nil
	}
	cb.rejected++
	return ErrCircuitOpen
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !cb.config.IsFailure(err) {
		if cb.state != StateOpen {
			cb.failures = 0
			cb.setLocked(StateClosed)
		}
		return
	}

	switch cb.state {
	case StateClosed:
		cb.failures++
		cb.lastFailure = cb.config.Now()
		if cb.failures >= cb.config.MaxFailures {
			cb.setLocked(StateOpen)
		}
	case StateHalfOpen:
		// a failed probe restarts the open window
		cb.lastFailure = cb.config.Now()
		cb.setLocked(StateOpen)
	}
}

// stateLocked moves an open circuit to half-open once ResetTimeout has
// elapsed, then reports the state.
func (cb *CircuitBreaker) stateLocked() State {
	if cb.state == StateOpen && cb.config.Now().Sub(cb.lastFailure) >= cb.config.ResetTimeout {
		cb.setLocked(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) setLocked(to State) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	if to == StateHalfOpen {
		cb.probes = 0
	}
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}
