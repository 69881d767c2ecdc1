// Package observe provides observability primitives for story generation
// and the story result cache.
//
// It is a pure instrumentation library: no generation, no caching, no I/O
// beyond exporter setup. The story service wraps each generation call with
// Middleware, and CacheMetrics is plugged into the cache as its Recorder.
package observe
