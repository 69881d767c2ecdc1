package story

import (
	"context"
	"testing"

	"github.com/jonwraymond/storycache/cache"
)

type constGenerator struct{}

func (constGenerator) GenerateSegment(context.Context, cache.StoryContext) (string, error) {
	return "segment", nil
}

func (constGenerator) GenerateChoices(context.Context, cache.StoryContext, string) ([]string, error) {
	return []string{"a", "b", "c"}, nil
}

func BenchmarkService_SegmentHit(b *testing.B) {
	c, _ := cache.NewContextCache(cache.DefaultConfig())
	svc, _ := NewService(c, constGenerator{})
	ctx := context.Background()
	_, _ = svc.Segment(ctx, testContext)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = svc.Segment(ctx, testContext)
	}
}

func BenchmarkService_ChoicesHit(b *testing.B) {
	c, _ := cache.NewContextCache(cache.DefaultConfig())
	svc, _ := NewService(c, constGenerator{})
	ctx := context.Background()
	_, _ = svc.Choices(ctx, testContext)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = svc.Choices(ctx, testContext)
	}
}
