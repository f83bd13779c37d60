package slugkit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/slugkit/store"
)

// FindBySlug resolves a slug to its owning entity within the type's
// namespace. Current slugs are matched first; when the definition keeps
// history, retired slugs resolve to the same entity. Returns (nil, nil) when
// no entity holds the slug.
func (m *Manager) FindBySlug(ctx context.Context, typeName, slug string) (*store.Record, error) {
	e, err := m.reg.lookup(typeName)
	if err != nil {
		return nil, err
	}
	if slug == "" {
		return nil, nil
	}

	if m.cache == nil {
		return m.resolveBySlug(ctx, e, slug)
	}

	key := lookupKey(e, slug)
	if id, err := m.cache.Get(ctx, key); err == nil {
		rec, err := m.store.Get(ctx, e.rootType(), id)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		// Stale entry: the entity is gone.
		m.dropLookupKey(ctx, key)
	}

	// Deduplicate concurrent misses for the same slug.
	v, err, _ := m.group.Do(key, func() (any, error) {
		rec, err := m.resolveBySlug(ctx, e, slug)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			if err := m.cache.Set(ctx, key, rec.ID); err != nil {
				m.log.DebugContext(ctx, "lookup cache set failed",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
			}
		}
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	rec, _ := v.(*store.Record)
	return rec, nil
}

// FindBySlugOrFail resolves a slug like FindBySlug but reports a missing
// entity as ErrNotFound instead of an empty result.
func (m *Manager) FindBySlugOrFail(ctx context.Context, typeName, slug string) (*store.Record, error) {
	rec, err := m.FindBySlug(ctx, typeName, slug)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, slug)
	}
	return rec, nil
}

// FindAllBySlug returns every entity of the type holding the slug, currently
// or historically. Across scope instances the same slug may legitimately
// belong to several entities.
func (m *Manager) FindAllBySlug(ctx context.Context, typeName, slug string) ([]*store.Record, error) {
	e, err := m.reg.lookup(typeName)
	if err != nil {
		return nil, err
	}
	if slug == "" {
		return nil, nil
	}
	f := store.Filter{Type: e.rootType(), Attr: e.def.attribute}
	return m.store.FindBySlug(ctx, f, slug, e.def.history)
}

// resolveBySlug matches current slugs first, then history entries when the
// definition keeps them.
func (m *Manager) resolveBySlug(ctx context.Context, e *entry, slug string) (*store.Record, error) {
	f := store.Filter{Type: e.rootType(), Attr: e.def.attribute}

	recs, err := m.store.FindBySlug(ctx, f, slug, false)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 && e.def.history {
		recs, err = m.store.FindBySlug(ctx, f, slug, true)
		if err != nil {
			return nil, err
		}
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}

// invalidateLookup drops cached resolutions for the given slug values.
func (m *Manager) invalidateLookup(ctx context.Context, e *entry, slugs ...string) {
	if m.cache == nil {
		return
	}
	for _, s := range slugs {
		if s == "" {
			continue
		}
		m.dropLookupKey(ctx, lookupKey(e, s))
	}
}

func (m *Manager) dropLookupKey(ctx context.Context, key string) {
	if err := m.cache.Delete(ctx, key); err != nil {
		m.log.DebugContext(ctx, "lookup cache delete failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

func lookupKey(e *entry, slug string) string {
	return e.rootType() + ":" + e.def.attribute + ":" + slug
}
