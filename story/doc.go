// Package story serves story segments and choices through the context cache.
//
// Service is a read-through front for a Generator: a lookup in the cache
// either returns stored content or triggers exactly one generation per
// story context at a time. Generation runs through a resilience.Executor
// and is observed by an observe.Middleware. Failed generations are never
// cached.
//
// The cache itself never generates; Service is the only writer.
package story
