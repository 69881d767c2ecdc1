package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// KeySeparator joins the escaped context fields of a canonical key.
const KeySeparator = "\x1f"

// Keyer derives the store key for a story context.
//
// Contract:
// - Determinism: equal contexts must produce equal keys.
// - Injectivity: contexts differing in any field must produce different keys.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	Key(sc StoryContext) string
}

// DelimitedKeyer produces the canonical key: the five fields in fixed order,
// escaped and joined by KeySeparator.
type DelimitedKeyer struct{}

// NewDelimitedKeyer creates the canonical keyer.
func NewDelimitedKeyer() *DelimitedKeyer {
	return &DelimitedKeyer{}
}

// Key returns the canonical key for sc.
func (k *DelimitedKeyer) Key(sc StoryContext) string {
	return canonicalKey(sc)
}

// HashedKeyer produces fixed-length keys.
// Format: story:<hex SHA-256 of the canonical key>
type HashedKeyer struct{}

// NewHashedKeyer creates a SHA-256 based keyer.
func NewHashedKeyer() *HashedKeyer {
	return &HashedKeyer{}
}

// Key returns the hashed key for sc.
func (k *HashedKeyer) Key(sc StoryContext) string {
	sum := sha256.Sum256([]byte(canonicalKey(sc)))
	return "story:" + hex.EncodeToString(sum[:])
}

// fieldEscaper removes every raw separator from a field value. Backslash is
// escaped first so the encoding stays reversible.
var fieldEscaper = strings.NewReplacer(`\`, `\\`, KeySeparator, `\x1f`)

func canonicalKey(sc StoryContext) string {
	fields := sc.Fields()

	var b strings.Builder
	size := len(fields) - 1
	for _, f := range fields {
		size += len(f)
	}
	b.Grow(size)

	for i, f := range fields {
		if i > 0 {
			b.WriteString(KeySeparator)
		}
		if strings.ContainsAny(f, `\`+KeySeparator) {
			b.WriteString(fieldEscaper.Replace(f))
		} else {
			b.WriteString(f)
		}
	}
	return b.String()
}

// Ensure keyers implement Keyer
var (
	_ Keyer = (*DelimitedKeyer)(nil)
	_ Keyer = (*HashedKeyer)(nil)
)
