package slugkit

import "errors"

var (
	// ErrConfiguration is returned at setup time when a definition references
	// an unknown field or association, or is internally inconsistent. Never
	// retried.
	ErrConfiguration = errors.New("slugkit: invalid slug definition")

	// ErrUnknownType is returned when an entity's type has no registered
	// definition.
	ErrUnknownType = errors.New("slugkit: no definition registered for type")

	// ErrNotFound is returned by the OrFail lookup variants when no entity
	// holds the slug.
	ErrNotFound = errors.New("slugkit: slug not found")

	// ErrEmptyCandidate is returned when normalization yields an empty string
	// and the definition has no fallback token configured.
	ErrEmptyCandidate = errors.New("slugkit: slug candidate is empty")

	// ErrPersistentConflict is returned when the bounded retry loop exhausts
	// its attempts without achieving a unique write.
	ErrPersistentConflict = errors.New("slugkit: could not resolve a unique slug")
)
