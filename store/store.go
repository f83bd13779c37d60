package store

import (
	"context"
	"maps"
	"slices"
)

// Record is the engine's view of a persisted entity. Adapters translate it to
// and from their native document shape.
type Record struct {
	// ID is the entity's unique identifier. Adapters assign one on insert
	// when empty.
	ID string

	// Type is the concrete entity type name; RootType is the non-abstract
	// base of its hierarchy. For standalone types the two are equal, and
	// RootType names the collection (or table partition) the record lives in.
	Type     string
	RootType string

	// ParentID identifies the immediate parent container instance for
	// embedded entities. Empty for top-level records.
	ParentID string

	// Refs maps association names to target entity IDs.
	Refs map[string]string

	// Fields holds the entity's document fields by name.
	Fields map[string]any

	// Attr is the attribute name the slug is persisted under. Defaults to
	// "slug" when empty.
	Attr string

	// Slug is the current slug value; SlugHistory lists previously assigned
	// values, most recent last, without duplicates.
	Slug        string
	SlugHistory []string
}

// SlugAttr returns the attribute name the slug is persisted under.
func (r *Record) SlugAttr() string {
	if r.Attr == "" {
		return "slug"
	}
	return r.Attr
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.Refs = maps.Clone(r.Refs)
	c.Fields = maps.Clone(r.Fields)
	c.SlugHistory = slices.Clone(r.SlugHistory)
	return &c
}

// Filter bounds a query to one scope instance within a root type. Nil or
// empty members do not restrict the result set.
type Filter struct {
	// Type is the hierarchy root type whose records participate.
	Type string

	// Attr is the slug attribute name the query inspects.
	Attr string

	// ParentID restricts to siblings of one container instance. The pointer
	// distinguishes "no restriction" (nil) from "top-level records" (empty).
	ParentID *string

	// Refs restricts to records whose named references point at the same
	// targets.
	Refs map[string]string

	// Fields restricts to records whose named fields hold equal values.
	Fields map[string]any

	// ExcludeID removes one entity (the one being saved) from the result.
	ExcludeID string
}

// SlugAttr returns the slug attribute name the filter inspects.
func (f Filter) SlugAttr() string {
	if f.Attr == "" {
		return "slug"
	}
	return f.Attr
}

// Claim is one slug value held by a live entity in scope, either as its
// current slug or as a history entry.
type Claim struct {
	EntityID    string
	Value       string
	FromHistory bool
}

// IndexSpec describes a slug uniqueness index over one scope.
type IndexSpec struct {
	// ScopeFields are the document paths that partition the namespace, e.g.
	// "parent_id", "refs.author", "fields.publisher".
	ScopeFields []string

	// Attr is the indexed slug attribute.
	Attr string

	// Unique requests constraint enforcement rather than a plain index.
	Unique bool
}

// Store is the document-store handle consumed by the slug engine.
//
// All methods operate on live records only: deleting an entity implicitly
// removes its current and historical slugs from every conflict set.
type Store interface {
	// Get fetches a record by root type and ID. Returns ErrNotFound when the
	// record does not exist.
	Get(ctx context.Context, rootType, id string) (*Record, error)

	// Save inserts or updates a record, assigning an ID on insert when empty.
	// A scoped unique-constraint violation on the slug attribute is reported
	// as ErrDuplicateSlug; other store errors propagate unchanged.
	Save(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting a missing record is a no-op.
	Delete(ctx context.Context, rootType, id string) error

	// Claims returns every slug value held within the filtered scope,
	// excluding the filter's ExcludeID entity. History entries are included
	// only when includeHistory is set.
	Claims(ctx context.Context, f Filter, includeHistory bool) ([]Claim, error)

	// PullHistory removes value from the slug history of every record in the
	// filtered scope and reports how many records were modified.
	PullHistory(ctx context.Context, f Filter, value string) (int, error)

	// FindBySlug returns the records in the filtered scope whose current slug
	// equals value or, when includeHistory is set, whose history contains it.
	FindBySlug(ctx context.Context, f Filter, value string, includeHistory bool) ([]*Record, error)

	// EnsureIndex creates the slug index for one root type, if missing.
	EnsureIndex(ctx context.Context, rootType string, spec IndexSpec) error
}
