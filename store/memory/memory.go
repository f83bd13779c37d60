// Package memory provides an in-memory document store for tests, examples,
// and single-process setups. Unique slug indexes registered via EnsureIndex
// are enforced on Save, which makes the adapter a faithful stand-in for the
// constraint-backed stores when exercising the engine's retry path.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/slugkit/store"
)

// Store is a mutex-guarded in-memory document store.
type Store struct {
	mu      sync.RWMutex
	records map[string]map[string]*store.Record // root type -> id -> record
	indexes map[string][]store.IndexSpec        // root type -> index specs
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		records: make(map[string]map[string]*store.Record),
		indexes: make(map[string][]store.IndexSpec),
	}
}

// Get fetches a record by root type and ID.
func (s *Store) Get(_ context.Context, rootType, id string) (*store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[rootType][id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rec.Clone(), nil
}

// Save inserts or updates a record, assigning a UUID on insert when the ID is
// empty. Registered unique indexes are checked before the write; a violation
// returns store.ErrDuplicateSlug and leaves the store unchanged.
func (s *Store) Save(_ context.Context, rec *store.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.RootType == "" {
		rec.RootType = rec.Type
	}

	if err := s.checkUnique(rec); err != nil {
		return err
	}

	coll, ok := s.records[rec.RootType]
	if !ok {
		coll = make(map[string]*store.Record)
		s.records[rec.RootType] = coll
	}
	coll[rec.ID] = rec.Clone()
	return nil
}

// Delete removes a record. Missing records are ignored.
func (s *Store) Delete(_ context.Context, rootType, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records[rootType], id)
	return nil
}

// Claims returns every slug value held within the filtered scope.
func (s *Store) Claims(_ context.Context, f store.Filter, includeHistory bool) ([]store.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var claims []store.Claim
	for _, rec := range s.records[f.Type] {
		if !matches(rec, f) {
			continue
		}
		if rec.Slug != "" {
			claims = append(claims, store.Claim{EntityID: rec.ID, Value: rec.Slug})
		}
		if includeHistory {
			for _, v := range rec.SlugHistory {
				claims = append(claims, store.Claim{EntityID: rec.ID, Value: v, FromHistory: true})
			}
		}
	}
	return claims, nil
}

// PullHistory removes value from the slug history of every record in scope.
func (s *Store) PullHistory(_ context.Context, f store.Filter, value string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	modified := 0
	for _, rec := range s.records[f.Type] {
		if !matches(rec, f) {
			continue
		}
		if i := slices.Index(rec.SlugHistory, value); i >= 0 {
			rec.SlugHistory = slices.Delete(rec.SlugHistory, i, i+1)
			modified++
		}
	}
	return modified, nil
}

// FindBySlug returns the records in scope holding value as their current slug
// or, when includeHistory is set, in their history.
func (s *Store) FindBySlug(_ context.Context, f store.Filter, value string, includeHistory bool) ([]*store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*store.Record
	for _, rec := range s.records[f.Type] {
		if !matches(rec, f) {
			continue
		}
		if rec.Slug == value || (includeHistory && slices.Contains(rec.SlugHistory, value)) {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

// EnsureIndex registers an index spec for a root type. Duplicate registrations
// are collapsed.
func (s *Store) EnsureIndex(_ context.Context, rootType string, spec store.IndexSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.indexes[rootType] {
		if existing.Attr == spec.Attr && slices.Equal(existing.ScopeFields, spec.ScopeFields) {
			return nil
		}
	}
	s.indexes[rootType] = append(s.indexes[rootType], spec)
	return nil
}

// checkUnique verifies rec against every unique index of its root type.
// Caller must hold the mutex.
func (s *Store) checkUnique(rec *store.Record) error {
	if rec.Slug == "" {
		return nil
	}
	for _, spec := range s.indexes[rec.RootType] {
		if !spec.Unique || spec.Attr != rec.SlugAttr() {
			continue
		}
		for _, other := range s.records[rec.RootType] {
			if other.ID == rec.ID || other.Slug != rec.Slug {
				continue
			}
			if sameScope(rec, other, spec.ScopeFields) {
				return store.ErrDuplicateSlug
			}
		}
	}
	return nil
}

// sameScope reports whether two records share every scope field value.
func sameScope(a, b *store.Record, scopeFields []string) bool {
	for _, field := range scopeFields {
		if scopeValue(a, field) != scopeValue(b, field) {
			return false
		}
	}
	return true
}

// scopeValue reads a scope field by document path: "parent_id", "refs.<name>",
// or "fields.<name>".
func scopeValue(rec *store.Record, path string) string {
	switch {
	case path == "parent_id":
		return rec.ParentID
	case len(path) > 5 && path[:5] == "refs.":
		return rec.Refs[path[5:]]
	case len(path) > 7 && path[:7] == "fields.":
		return fmt.Sprint(rec.Fields[path[7:]])
	default:
		return ""
	}
}

// matches applies the filter's scope predicates to a record.
func matches(rec *store.Record, f store.Filter) bool {
	if f.ExcludeID != "" && rec.ID == f.ExcludeID {
		return false
	}
	if f.ParentID != nil && rec.ParentID != *f.ParentID {
		return false
	}
	for name, target := range f.Refs {
		if rec.Refs[name] != target {
			return false
		}
	}
	for name, want := range f.Fields {
		if !reflect.DeepEqual(rec.Fields[name], want) {
			return false
		}
	}
	return true
}

var _ store.Store = (*Store)(nil)
