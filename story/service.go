package story

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/storycache/cache"
	"github.com/jonwraymond/storycache/observe"
	"github.com/jonwraymond/storycache/resilience"
)

// Option configures a Service.
type Option func(*Service)

// WithExecutor runs every generation through e.
func WithExecutor(e *resilience.Executor) Option {
	return func(s *Service) {
		if e != nil {
			s.executor = e
		}
	}
}

// WithMiddleware observes every generation with m.
func WithMiddleware(m *observe.Middleware) Option {
	return func(s *Service) {
		if m != nil {
			s.middleware = m
		}
	}
}

// WithBackend sets the backend label reported in telemetry.
func WithBackend(name string) Option {
	return func(s *Service) {
		s.backend = name
	}
}

// WithIDGenerator overrides how generation ids are produced.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Service serves story content from a Store, generating on miss.
//
// Contract:
//   - Concurrency: safe for concurrent use. Concurrent misses for the same
//     context and kind share a single generation.
//   - Errors: generation failures are returned and never stored.
//   - Ownership: returned choice slices belong to the caller.
type Service struct {
	store      Store
	gen        Generator
	executor   *resilience.Executor
	middleware *observe.Middleware
	backend    string
	newID      func() string
	group      singleflight.Group
}

// NewService creates a Service over store and gen.
func NewService(store Store, gen Generator, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if gen == nil {
		return nil, ErrNilGenerator
	}
	s := &Service{
		store:      store,
		gen:        gen,
		executor:   resilience.NewExecutor(resilience.WithTimeout(resilience.DefaultTimeout)),
		middleware: observe.NewMiddleware(nil, nil, nil),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Segment returns the story segment for sc, generating and caching it on miss.
func (s *Service) Segment(ctx context.Context, sc cache.StoryContext) (string, error) {
	if sc.UserID == "" {
		return "", ErrMissingUser
	}
	if seg, ok := s.store.GetStorySegment(ctx, sc); ok {
		return seg, nil
	}

	return shared(ctx, s, flightKey(cache.KindSegment, sc), func(ctx context.Context) (string, error) {
		if seg, ok := s.store.GetStorySegment(ctx, sc); ok {
			return seg, nil
		}
		seg, err := generate(ctx, s, cache.KindSegment, sc, func(ctx context.Context) (string, error) {
			seg, err := s.gen.GenerateSegment(ctx, sc)
			if err != nil {
				return "", err
			}
			seg = strings.TrimSpace(seg)
			if seg == "" {
				return "", resilience.Permanent(ErrEmptyGeneration)
			}
			return seg, nil
		})
		if err != nil {
			return "", err
		}
		s.store.SetStorySegment(ctx, sc, seg)
		return seg, nil
	})
}

// Choices returns the choices for sc. The segment is obtained first, from
// the cache or by generating it, and handed to the generator.
func (s *Service) Choices(ctx context.Context, sc cache.StoryContext) ([]string, error) {
	if sc.UserID == "" {
		return nil, ErrMissingUser
	}
	if choices, ok := s.store.GetChoices(ctx, sc); ok {
		return choices, nil
	}

	choices, err := shared(ctx, s, flightKey(cache.KindChoices, sc), func(ctx context.Context) ([]string, error) {
		if choices, ok := s.store.GetChoices(ctx, sc); ok {
			return choices, nil
		}
		segment, err := s.Segment(ctx, sc)
		if err != nil {
			return nil, err
		}
		choices, err := generate(ctx, s, cache.KindChoices, sc, func(ctx context.Context) ([]string, error) {
			choices, err := s.gen.GenerateChoices(ctx, sc, segment)
			if err != nil {
				return nil, err
			}
			if len(choices) == 0 {
				return nil, resilience.Permanent(ErrEmptyGeneration)
			}
			return choices, nil
		})
		if err != nil {
			return nil, err
		}
		s.store.SetChoices(ctx, sc, choices)
		return choices, nil
	})
	if err != nil {
		return nil, err
	}
	// Shared callers must not alias one another's slice.
	return slices.Clone(choices), nil
}

// Reset clears all cached content.
func (s *Service) Reset(ctx context.Context) {
	s.store.Clear(ctx)
}

// shared runs fn once per key across concurrent callers. fn runs detached
// from the first caller's cancellation and is bounded by the executor
// timeout instead. Each caller stops waiting when its own ctx is done.
func shared[T any](ctx context.Context, s *Service, key string, fn func(context.Context) (T, error)) (T, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		return fn(detached)
	})

	var zero T
	select {
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		return r.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func generate[T any](ctx context.Context, s *Service, kind cache.Kind, sc cache.StoryContext, op func(context.Context) (T, error)) (T, error) {
	meta := observe.MetaFor(kind, sc, s.backend)
	meta.ID = s.newID()

	var out T
	err := s.middleware.Wrap(func(ctx context.Context, _ observe.GenerationMeta) error {
		v, err := resilience.Do(ctx, s.executor, op)
		if err != nil {
			return err
		}
		out = v
		return nil
	})(ctx, meta)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("generate %s: %w", kind, err)
	}
	return out, nil
}

func flightKey(kind cache.Kind, sc cache.StoryContext) string {
	return kind.String() + "|" + sc.Key()
}
