package health

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultCheckTimeout bounds a run of checks when AggregatorConfig leaves
// Timeout unset.
const DefaultCheckTimeout = 10 * time.Second

type AggregatorConfig struct {
	// Timeout bounds Check and CheckAll as a whole.
	Timeout time.Duration

	// MaxConcurrency caps parallel checks in CheckAll. Zero is unlimited.
	MaxConcurrency int
}

type namedChecker struct {
	name    string
	checker Checker
}

// Aggregator runs a set of named checkers and folds their results into one
// status. Checkers are reported in registration order.
type Aggregator struct {
	config AggregatorConfig

	mu       sync.RWMutex
	checkers []namedChecker
}

func NewAggregator(config ...AggregatorConfig) *Aggregator {
	a := &Aggregator{}
	if len(config) > 0 {
		a.config = config[0]
	}
	if a.config.Timeout <= 0 {
		a.config.Timeout = DefaultCheckTimeout
	}
	return a
}

func (a *Aggregator) indexOf(name string) int {
	return slices.IndexFunc(a.checkers, func(nc namedChecker) bool { return nc.name == name })
}

// Register adds checker under name. Registering a name again replaces the
// checker but keeps its position.
func (a *Aggregator) Register(name string, checker Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i := a.indexOf(name); i >= 0 {
		a.checkers[i].checker = checker
		return
	}
	a.checkers = append(a.checkers, namedChecker{name: name, checker: checker})
}

func (a *Aggregator) Unregister(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i := a.indexOf(name); i >= 0 {
		a.checkers = slices.Delete(a.checkers, i, i+1)
	}
}

func (a *Aggregator) CheckerNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, len(a.checkers))
	for i, nc := range a.checkers {
		names[i] = nc.name
	}
	return names
}

func (a *Aggregator) snapshot() []namedChecker {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.checkers)
}

// Check runs the checker registered under name.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	i := a.indexOf(name)
	var checker Checker
	if i >= 0 {
		checker = a.checkers[i].checker
	}
	a.mu.RUnlock()
	if checker == nil {
		return Result{}, ErrCheckerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()
	return runCheck(ctx, checker), nil
}

// CheckAll runs every checker in parallel under one shared deadline. A
// checker still running at the deadline reports ErrCheckTimeout.
func (a *Aggregator) CheckAll(ctx context.Context) map[string]Result {
	checkers := a.snapshot()
	results := make(map[string]Result, len(checkers))
	if len(checkers) == 0 {
		return results
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	out := make([]Result, len(checkers))
	var g errgroup.Group
	if a.config.MaxConcurrency > 0 {
		g.SetLimit(a.config.MaxConcurrency)
	}
	for i, nc := range checkers {
		g.Go(func() error {
			out[i] = runCheck(ctx, nc.checker)
			return nil
		})
	}
	_ = g.Wait()

	for i, nc := range checkers {
		results[nc.name] = out[i]
	}
	return results
}

// OverallStatus returns the worst status in results; healthy when empty.
func (a *Aggregator) OverallStatus(results map[string]Result) Status {
	overall := StatusHealthy
	for _, r := range results {
		overall = max(overall, r.Status)
	}
	return overall
}

func runCheck(ctx context.Context, checker Checker) Result {
	start := time.Now()
	ch := make(chan Result, 1)
	go func() {
		r := checker.Check(ctx)
		r.Duration = time.Since(start)
		if r.Timestamp.IsZero() {
			r.Timestamp = start
		}
		ch <- r
	}()

	select {
	case r := <-ch:
		return r
	case <-ctx.Done():
		r := Unhealthy("check timed out", ErrCheckTimeout)
		r.Duration = time.Since(start)
		r.Timestamp = start
		return r
	}
}
