package cache

import (
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// entry wraps a stored value with its insertion metadata.
type entry[V any] struct {
	value      V
	insertedAt time.Time
	seq        uint64
}

type lookupState int

const (
	lookupMiss lookupState = iota
	lookupHit
	lookupExpired
)

// store is one insertion-ordered mapping. The list order of entries is the
// order of seq: put always appends with the next seq, so the oldest pair is
// the entry with the smallest seq and eviction never consults insertedAt.
// Entries stamped with the same instant are therefore evicted in insertion
// order. Not safe for concurrent use; ContextCache serializes every call.
type store[V any] struct {
	entries *orderedmap.OrderedMap[string, *entry[V]]
	nextSeq uint64
}

func newStore[V any]() *store[V] {
	return &store[V]{entries: orderedmap.New[string, *entry[V]]()}
}

// get returns the value for key, removing it if it has expired at now.
func (s *store[V]) get(key string, now time.Time, cfg Config) (V, lookupState) {
	var zero V

	e, ok := s.entries.Get(key)
	if !ok {
		return zero, lookupMiss
	}
	if cfg.Expired(e.insertedAt, now) {
		s.entries.Delete(key)
		return zero, lookupExpired
	}
	return e.value, lookupHit
}

// put inserts or overwrites key and then evicts from the oldest end until the
// mapping holds at most limit entries. It returns the number evicted.
func (s *store[V]) put(key string, value V, now time.Time, limit int) int {
	// An overwrite is a fresh insertion: it moves to the newest position.
	s.entries.Delete(key)

	s.nextSeq++
	s.entries.Set(key, &entry[V]{
		value:      value,
		insertedAt: now,
		seq:        s.nextSeq,
	})

	evicted := 0
	for s.entries.Len() > limit {
		oldest := s.entries.Oldest()
		if oldest == nil {
			break
		}
		s.entries.Delete(oldest.Key)
		evicted++
	}
	return evicted
}

// remove deletes key and reports whether it was present.
func (s *store[V]) remove(key string) bool {
	_, ok := s.entries.Delete(key)
	return ok
}

// reset drops every entry and returns how many were held.
func (s *store[V]) reset() int {
	n := s.entries.Len()
	if n > 0 {
		s.entries = orderedmap.New[string, *entry[V]]()
	}
	return n
}

// live counts entries not yet expired at now. Expired entries stay stored
// until a read or eviction removes them, so live may be below len.
func (s *store[V]) live(now time.Time, cfg Config) int {
	n := 0
	for pair := s.entries.Oldest(); pair != nil; pair = pair.Next() {
		if !cfg.Expired(pair.Value.insertedAt, now) {
			n++
		}
	}
	return n
}

func (s *store[V]) len() int {
	return s.entries.Len()
}

// keys returns the stored keys from oldest to newest.
func (s *store[V]) keys() []string {
	keys := make([]string, 0, s.entries.Len())
	for pair := s.entries.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}
