package observe

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/jonwraymond/storycache/cache"
)

func BenchmarkLogger_Info(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "story generation completed", Field{Key: "duration_ms", Value: 12.0})
	}
}

func BenchmarkLogger_WithGeneration(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = logger.WithGeneration(testMeta)
	}
}

func BenchmarkLogger_LevelFiltered(b *testing.B) {
	logger := NewLoggerWithWriter("error", io.Discard)
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		logger.Debug(ctx, "filtered")
	}
}

func BenchmarkMiddleware_Wrap(b *testing.B) {
	_, tracer := newSpanRecorder()
	_, mp := newManualMeter()
	metrics, _ := NewMetrics(mp.Meter("bench"))
	mw := NewMiddleware(tracer, metrics, NopLogger())
	fn := mw.Wrap(func(context.Context, GenerationMeta) error { return nil })
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = fn(ctx, testMeta)
	}
}

func BenchmarkCacheMetrics_RecordHit(b *testing.B) {
	_, mp := newManualMeter()
	cm, _ := NewCacheMetrics(mp.Meter("bench"))
	ctx := context.Background()

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			cm.RecordHit(ctx, cache.KindSegment)
		}
	})
}

func BenchmarkMetrics_RecordGeneration(b *testing.B) {
	_, mp := newManualMeter()
	m, _ := NewMetrics(mp.Meter("bench"))
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m.RecordGeneration(ctx, testMeta, time.Millisecond, nil)
	}
}
