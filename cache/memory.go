package cache

import (
	"context"
	"slices"
	"sync"
)

// Stats is a point-in-time snapshot of cache occupancy and counters.
// Segments and Choices count stored entries, including expired ones not yet
// observed; LiveSegments and LiveChoices count only unexpired entries.
type Stats struct {
	Segments     int
	Choices      int
	LiveSegments int
	LiveChoices  int
	MaxEntries   int
	Hits         uint64
	Misses       uint64
	Expirations  uint64
	Evictions    uint64
	Clears       uint64
}

// Option configures a ContextCache.
type Option func(*ContextCache)

// WithClock sets the time source used for insertion timestamps and expiry.
func WithClock(clock Clock) Option {
	return func(c *ContextCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithKeyer sets the key derivation used for both mappings.
func WithKeyer(keyer Keyer) Option {
	return func(c *ContextCache) {
		if keyer != nil {
			c.keyer = keyer
		}
	}
}

// WithRecorder sets the telemetry hook.
func WithRecorder(r Recorder) Option {
	return func(c *ContextCache) {
		if r != nil {
			c.recorder = r
		}
	}
}

// ContextCache memoizes story segments and choice lists by StoryContext.
//
// Both mappings share one mutex. Every operation, including a read that
// drops an expired entry, runs under it; nothing blocks while it is held.
type ContextCache struct {
	config   Config
	clock    Clock
	keyer    Keyer
	recorder Recorder

	mu       sync.Mutex
	segments *store[string]
	choices  *store[[]string]
	stats    Stats
}

// NewContextCache creates a cache with the given configuration.
// It returns ErrInvalidTTL or ErrInvalidMaxEntries for non-positive values.
func NewContextCache(config Config, opts ...Option) (*ContextCache, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &ContextCache{
		config:   config,
		clock:    SystemClock{},
		keyer:    NewDelimitedKeyer(),
		recorder: NopRecorder{},
		segments: newStore[string](),
		choices:  newStore[[]string](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the configuration the cache was built with.
func (c *ContextCache) Config() Config {
	return c.config
}

// GetStorySegment returns the segment stored for sc.
// Returns ("", false) when absent or expired; an expired entry is removed.
func (c *ContextCache) GetStorySegment(ctx context.Context, sc StoryContext) (string, bool) {
	return lookup(ctx, c, KindSegment, c.segments, sc)
}

// SetStorySegment stores segment for sc, timestamped now.
func (c *ContextCache) SetStorySegment(ctx context.Context, sc StoryContext, segment string) {
	insert(ctx, c, KindSegment, c.segments, sc, segment)
}

// GetChoices returns a copy of the choice list stored for sc.
// Returns (nil, false) when absent or expired; an expired entry is removed.
func (c *ContextCache) GetChoices(ctx context.Context, sc StoryContext) ([]string, bool) {
	choices, ok := lookup(ctx, c, KindChoices, c.choices, sc)
	if !ok {
		return nil, false
	}
	return slices.Clone(choices), true
}

// SetChoices stores a copy of choices for sc, timestamped now.
func (c *ContextCache) SetChoices(ctx context.Context, sc StoryContext, choices []string) {
	insert(ctx, c, KindChoices, c.choices, sc, slices.Clone(choices))
}

// Invalidate removes the segment and choice entries for sc. Idempotent.
func (c *ContextCache) Invalidate(_ context.Context, sc StoryContext) {
	key := c.keyer.Key(sc)

	c.mu.Lock()
	c.segments.remove(key)
	c.choices.remove(key)
	c.mu.Unlock()
}

// Clear empties both mappings. Clearing an empty cache is a no-op apart
// from the clear counter.
func (c *ContextCache) Clear(ctx context.Context) {
	c.mu.Lock()
	removed := c.segments.reset() + c.choices.reset()
	c.stats.Clears++
	c.mu.Unlock()

	c.recorder.RecordClear(ctx, removed)
}

// Len returns the number of stored entries of the given kind, including
// entries that have expired but not been read since.
func (c *ContextCache) Len(kind Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch kind {
	case KindSegment:
		return c.segments.len()
	case KindChoices:
		return c.choices.len()
	default:
		return 0
	}
}

// Stats returns a snapshot of occupancy and counters.
func (c *ContextCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	s := c.stats
	s.Segments = c.segments.len()
	s.Choices = c.choices.len()
	s.LiveSegments = c.segments.live(now, c.config)
	s.LiveChoices = c.choices.live(now, c.config)
	s.MaxEntries = c.config.MaxEntries
	return s
}

func lookup[V any](ctx context.Context, c *ContextCache, kind Kind, s *store[V], sc StoryContext) (V, bool) {
	key := c.keyer.Key(sc)

	c.mu.Lock()
	value, state := s.get(key, c.clock.Now(), c.config)
	switch state {
	case lookupHit:
		c.stats.Hits++
	case lookupExpired:
		c.stats.Expirations++
		c.stats.Misses++
	default:
		c.stats.Misses++
	}
	c.mu.Unlock()

	switch state {
	case lookupHit:
		c.recorder.RecordHit(ctx, kind)
	case lookupExpired:
		c.recorder.RecordExpiration(ctx, kind)
		c.recorder.RecordMiss(ctx, kind)
	default:
		c.recorder.RecordMiss(ctx, kind)
	}
	return value, state == lookupHit
}

func insert[V any](ctx context.Context, c *ContextCache, kind Kind, s *store[V], sc StoryContext, value V) {
	key := c.keyer.Key(sc)

	c.mu.Lock()
	evicted := s.put(key, value, c.clock.Now(), c.config.MaxEntries)
	c.stats.Evictions += uint64(evicted)
	c.mu.Unlock()

	if evicted > 0 {
		c.recorder.RecordEviction(ctx, kind, evicted)
	}
}

// Ensure ContextCache implements StoryCache
var _ StoryCache = (*ContextCache)(nil)
