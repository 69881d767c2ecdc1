package cache

import "context"

// Recorder receives cache events for telemetry.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Calls happen after the cache lock is released and must return quickly.
// - Errors: implementations must not panic.
type Recorder interface {
	RecordHit(ctx context.Context, kind Kind)
	RecordMiss(ctx context.Context, kind Kind)
	RecordExpiration(ctx context.Context, kind Kind)
	RecordEviction(ctx context.Context, kind Kind, count int)
	RecordClear(ctx context.Context, removed int)
}

// NopRecorder discards every event.
type NopRecorder struct{}

func (NopRecorder) RecordHit(context.Context, Kind)           {}
func (NopRecorder) RecordMiss(context.Context, Kind)          {}
func (NopRecorder) RecordExpiration(context.Context, Kind)    {}
func (NopRecorder) RecordEviction(context.Context, Kind, int) {}
func (NopRecorder) RecordClear(context.Context, int)          {}

var _ Recorder = NopRecorder{}
