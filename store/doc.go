// Package store defines the document-store contract the slug engine runs
// against: scoped slug-claim queries, history reclaim, unique-index
// management, and slug-based lookups.
//
// The engine never wraps a read query and the following write in one
// transaction. Adapters are the authoritative backstop for concurrent
// creation: Save must map a scoped unique-constraint violation on the slug
// attribute to ErrDuplicateSlug so the engine can re-resolve and retry.
//
// Three adapters ship with the module:
//
//   - store/memory: mutex-guarded in-memory store for tests and examples
//   - store/mongo: MongoDB collections with partial unique indexes
//   - store/postgres: PostgreSQL jsonb documents with expression indexes
package store
