package store

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("store: record not found")

	// ErrDuplicateSlug is returned by Save when a scoped unique constraint on
	// the slug attribute rejects the write. The caller re-resolves and retries.
	ErrDuplicateSlug = errors.New("store: duplicate slug within scope")
)
