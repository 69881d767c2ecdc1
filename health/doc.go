// Package health reports whether the story cache service is fit to serve.
//
// A Checker reports one component's Status: Healthy, Degraded, or
// Unhealthy. An Aggregator runs registered checkers in parallel and
// combines their results, and the HTTP handlers expose them as liveness,
// readiness, and detailed probes.
//
// # Basic Usage
//
//	agg := health.NewAggregator()
//	agg.Register("cache", health.NewCacheChecker(contextCache, health.CacheCheckerConfig{}))
//	agg.Register("memory", health.NewMemoryChecker(health.MemoryCheckerConfig{}))
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// # HTTP Endpoints
//
//	r := chi.NewRouter()
//	health.RegisterHandlers(r, agg) // /healthz, /readyz, /health
//
// A cache that is close to its size bound reports Degraded: it still
// serves, but new insertions are evicting live entries.
package health
