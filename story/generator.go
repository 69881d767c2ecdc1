package story

import (
	"context"

	"github.com/jonwraymond/storycache/cache"
)

// Generator produces story content for a context.
//
// Implementations may be slow, non-deterministic, and fail transiently.
// They must be safe for concurrent use.
type Generator interface {
	// GenerateSegment produces the next narrative segment for sc.
	GenerateSegment(ctx context.Context, sc cache.StoryContext) (string, error)

	// GenerateChoices produces the ordered choices that follow segment.
	GenerateChoices(ctx context.Context, sc cache.StoryContext, segment string) ([]string, error)
}

// Store is the subset of cache.StoryCache used by Service.
type Store interface {
	GetStorySegment(ctx context.Context, sc cache.StoryContext) (string, bool)
	SetStorySegment(ctx context.Context, sc cache.StoryContext, segment string)
	GetChoices(ctx context.Context, sc cache.StoryContext) ([]string, bool)
	SetChoices(ctx context.Context, sc cache.StoryContext, choices []string)
	Clear(ctx context.Context)
}

var _ Store = (cache.StoryCache)(nil)
