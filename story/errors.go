package story

import "errors"

var (
	// ErrNilStore is returned by NewService when store is nil.
	ErrNilStore = errors.New("story: store is nil")

	// ErrNilGenerator is returned by NewService when gen is nil.
	ErrNilGenerator = errors.New("story: generator is nil")

	// ErrMissingUser indicates a story context without a user id.
	ErrMissingUser = errors.New("story: user id is required")

	// ErrEmptyGeneration indicates the generator produced no content.
	ErrEmptyGeneration = errors.New("story: generator returned empty content")
)
