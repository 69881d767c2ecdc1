package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func BenchmarkContextCache_GetHit(b *testing.B) {
	c, _ := NewContextCache(DefaultConfig())
	ctx := context.Background()
	sc := StoryContext{UserID: "bench", Genre: "fantasy", Tone: "epic"}
	c.SetStorySegment(ctx, sc, "A dragon circles the keep.")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.GetStorySegment(ctx, sc)
	}
}

func BenchmarkContextCache_GetMiss(b *testing.B) {
	c, _ := NewContextCache(DefaultConfig())
	ctx := context.Background()
	sc := StoryContext{UserID: "nobody"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.GetStorySegment(ctx, sc)
	}
}

func BenchmarkContextCache_SetWithEviction(b *testing.B) {
	c, _ := NewContextCache(Config{TTL: time.Minute, MaxEntries: 128})
	ctx := context.Background()

	contexts := make([]StoryContext, 1024)
	for i := range contexts {
		contexts[i] = StoryContext{UserID: fmt.Sprintf("user-%d", i)}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.SetStorySegment(ctx, contexts[i%len(contexts)], "segment")
	}
}

func BenchmarkContextCache_SetChoices(b *testing.B) {
	c, _ := NewContextCache(DefaultConfig())
	ctx := context.Background()
	sc := StoryContext{UserID: "bench"}
	choices := []string{"fight", "flee", "parley"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.SetChoices(ctx, sc, choices)
	}
}

func BenchmarkContextCache_Parallel(b *testing.B) {
	c, _ := NewContextCache(Config{TTL: time.Minute, MaxEntries: 256})
	ctx := context.Background()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			sc := StoryContext{UserID: fmt.Sprintf("user-%d", i%512)}
			if i%4 == 0 {
				c.SetStorySegment(ctx, sc, "segment")
			} else {
				c.GetStorySegment(ctx, sc)
			}
			i++
		}
	})
}

func BenchmarkKeyer(b *testing.B) {
	sc := StoryContext{UserID: "user-42", Genre: "mystery", Tone: "tense", Character: "Iris", Setting: "train"}

	b.Run("delimited", func(b *testing.B) {
		k := NewDelimitedKeyer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = k.Key(sc)
		}
	})

	b.Run("hashed", func(b *testing.B) {
		k := NewHashedKeyer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = k.Key(sc)
		}
	})
}
