package cache

// StoryContext is the semantic key under which generated content is memoized.
//
// UserID is required by callers; the remaining fields are optional and the
// empty string stands for "unset". Two contexts are equivalent iff every
// field is equal, so StoryContext is usable directly with ==.
type StoryContext struct {
	UserID    string
	Genre     string
	Tone      string
	Character string
	Setting   string
}

// Fields returns the context fields in canonical key order.
func (sc StoryContext) Fields() [5]string {
	return [5]string{sc.UserID, sc.Genre, sc.Tone, sc.Character, sc.Setting}
}

// Key returns the canonical key string for sc.
func (sc StoryContext) Key() string {
	return canonicalKey(sc)
}

// IsZero reports whether every field is empty.
func (sc StoryContext) IsZero() bool {
	return sc == StoryContext{}
}
