package cache

import (
	"context"
	"errors"
)

// Sentinel errors for cache construction.
var (
	ErrInvalidTTL        = errors.New("cache: ttl must be positive")
	ErrInvalidMaxEntries = errors.New("cache: max entries must be positive")
)

// Kind identifies one of the two mappings held by a ContextCache.
type Kind string

const (
	// KindSegment is the mapping of story segment text.
	KindSegment Kind = "segment"
	// KindChoices is the mapping of ordered choice lists.
	KindChoices Kind = "choices"
)

// String returns the kind label used in telemetry.
func (k Kind) String() string {
	return string(k)
}

// StoryCache is the interface for memoizing generated story content.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: ctx carries telemetry only; no method blocks or honors cancellation.
// - Errors: no method fails. Get* returns ok=false on miss or expiry.
type StoryCache interface {
	// GetStorySegment returns the segment stored for sc.
	GetStorySegment(ctx context.Context, sc StoryContext) (string, bool)

	// SetStorySegment stores segment for sc, evicting oldest entries if needed.
	SetStorySegment(ctx context.Context, sc StoryContext, segment string)

	// GetChoices returns a copy of the choice list stored for sc.
	GetChoices(ctx context.Context, sc StoryContext) ([]string, bool)

	// SetChoices stores a copy of choices for sc, evicting oldest entries if needed.
	SetChoices(ctx context.Context, sc StoryContext, choices []string)

	// Clear removes every entry from both mappings.
	Clear(ctx context.Context)
}
