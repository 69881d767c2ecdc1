package health

import (
	"context"
	"testing"
)

func BenchmarkAggregator_CheckAll(b *testing.B) {
	agg := NewAggregator()
	for _, name := range []string{"cache", "memory", "generator"} {
		agg.Register(name, staticChecker(name, Healthy("")))
	}
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = agg.CheckAll(ctx)
	}
}

func BenchmarkCacheChecker_Check(b *testing.B) {
	c := NewCacheChecker(fixedStats{Segments: 5, LiveSegments: 5, Choices: 3, LiveChoices: 3, MaxEntries: 10}, CacheCheckerConfig{})
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = c.Check(ctx)
	}
}
