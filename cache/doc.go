// Package cache provides the context-keyed result cache for generated story
// content.
//
// A ContextCache memoizes story segments and choice lists against a
// StoryContext (user, genre, tone, character, setting). Entries expire lazily
// once their TTL has elapsed and each of the two mappings is bounded by
// MaxEntries, evicting the oldest-inserted entries first.
//
// The cache is a pure in-memory store: it never generates content, never
// persists, and never blocks. Callers on a miss generate the value themselves
// and store it back under the same context.
package cache
