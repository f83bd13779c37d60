package slugkit

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/slugkit/pkg/slugify"
	"github.com/dmitrymomot/slugkit/store"
)

// Manager orchestrates slug generation around entity lifecycle events. It is
// stateless between invocations: every call is self-contained given the
// record and the store handle, so one Manager serves any number of concurrent
// saves without extra locking.
type Manager struct {
	store store.Store
	reg   *Registry
	log   *slog.Logger
	cache LookupCache
	group singleflight.Group
}

// New creates a slug manager over a document store and a definition registry.
func New(st store.Store, reg *Registry, opts ...Option) *Manager {
	m := &Manager{
		store: st,
		reg:   reg,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnCreate computes and persists the slug for a new entity. An explicit
// pre-set slug value is respected verbatim: normalization and uniqueness
// resolution are skipped, and the value is persisted so future queries see it
// as in use.
func (m *Manager) OnCreate(ctx context.Context, rec *store.Record) error {
	e, err := m.prepare(rec)
	if err != nil {
		return err
	}
	if rec.Slug != "" {
		return m.store.Save(ctx, rec)
	}
	return m.assign(ctx, e, rec)
}

// OnUpdate persists an entity, recomputing its slug only when the definition
// is not permanent and a slugged field value differs from the previously
// persisted one. Records never seen by the engine fall back to the create
// path.
func (m *Manager) OnUpdate(ctx context.Context, rec *store.Record) error {
	e, err := m.prepare(rec)
	if err != nil {
		return err
	}

	prev, err := m.store.Get(ctx, e.rootType(), rec.ID)
	if errors.Is(err, store.ErrNotFound) {
		return m.OnCreate(ctx, rec)
	}
	if err != nil {
		return err
	}

	// Carry forward persisted slug state the caller may not have loaded. The
	// two are independent: a partial view can hold the current slug without
	// its history, and saving such a record must not erase the stored ledger.
	if rec.Slug == "" && prev.Slug != "" {
		rec.Slug = prev.Slug
	}
	if rec.SlugHistory == nil && prev.SlugHistory != nil {
		rec.SlugHistory = slices.Clone(prev.SlugHistory)
	}

	if rec.Slug != "" && (e.def.permanent || !e.changed(prev, rec)) {
		return m.store.Save(ctx, rec)
	}
	return m.assign(ctx, e, rec)
}

// OnDelete removes an entity. Its current and historical slugs drop out of
// every conflict set implicitly, since queries only see live records.
func (m *Manager) OnDelete(ctx context.Context, rec *store.Record) error {
	e, err := m.prepare(rec)
	if err != nil {
		return err
	}
	if err := m.store.Delete(ctx, e.rootType(), rec.ID); err != nil {
		return err
	}
	m.invalidateLookup(ctx, e, rec.Slug)
	return nil
}

// EnsureSlug lazily backfills an entity persisted without ever running slug
// generation (e.g. inserted directly into the store). The computed slug is
// persisted immediately, so subsequent reads are stable.
func (m *Manager) EnsureSlug(ctx context.Context, rec *store.Record) (string, error) {
	e, err := m.prepare(rec)
	if err != nil {
		return "", err
	}
	if rec.Slug != "" {
		return rec.Slug, nil
	}
	m.log.InfoContext(ctx, "backfilling missing slug",
		slog.String("type", rec.Type),
		slog.String("id", rec.ID),
	)
	if err := m.assign(ctx, e, rec); err != nil {
		return "", err
	}
	return rec.Slug, nil
}

// SetupIndexes creates the scoped unique slug index for every registered
// definition that requested one. Call once at startup, after registration.
func (m *Manager) SetupIndexes(ctx context.Context) error {
	for _, e := range m.reg.all() {
		if !e.def.uniqueIndex {
			continue
		}
		spec := store.IndexSpec{
			ScopeFields: e.def.scope.indexFields(),
			Attr:        e.def.attribute,
			Unique:      true,
		}
		if err := m.store.EnsureIndex(ctx, e.rootType(), spec); err != nil {
			return err
		}
	}
	return nil
}

// prepare resolves the record's definition and stamps the derived persistence
// metadata (hierarchy root, slug attribute) onto it.
func (m *Manager) prepare(rec *store.Record) (*entry, error) {
	e, err := m.reg.lookup(rec.Type)
	if err != nil {
		return nil, err
	}
	rec.RootType = e.rootType()
	rec.Attr = e.def.attribute
	return e, nil
}

// assign runs the full recompute path: normalize, resolve scope, resolve
// uniqueness, mutate history, persist. On a unique-constraint rejection the
// whole path is retried with a fresh in-use set, bounded by the definition's
// retry budget.
func (m *Manager) assign(ctx context.Context, e *entry, rec *store.Record) error {
	def := e.def

	baseSlug := rec.Slug
	baseHistory := slices.Clone(rec.SlugHistory)

	for attempt := 0; ; attempt++ {
		rec.Slug = baseSlug
		rec.SlugHistory = slices.Clone(baseHistory)

		candidate := slugify.Make(e.extract(rec))
		if candidate == "" {
			if def.fallback == "" {
				return ErrEmptyCandidate
			}
			candidate = slugify.Make(def.fallback)
			if candidate == "" {
				return ErrEmptyCandidate
			}
		}

		f := def.scope.filter(rec, e.rootType(), def.attribute)
		res, err := resolveUnique(ctx, m.store, candidate, f, def)
		if err != nil {
			return err
		}

		// Idempotence: an equal outcome writes neither slug nor history.
		if res.slug == rec.Slug {
			return m.store.Save(ctx, rec)
		}

		old := rec.Slug
		rec.Slug = res.slug
		recordHistory(def, rec, old)

		err = m.store.Save(ctx, rec)
		if err == nil {
			// Pull the value from other entities' histories only once the
			// claim is committed; a rejected write must not strip entries for
			// a value that was never taken.
			if res.reclaim {
				if _, err := reclaimHistory(ctx, m.store, f, res.slug); err != nil {
					return err
				}
			}
			m.invalidateLookup(ctx, e, old, res.slug)
			return nil
		}
		if !errors.Is(err, store.ErrDuplicateSlug) {
			return err
		}
		if attempt >= def.maxRetries {
			return errors.Join(ErrPersistentConflict, err)
		}

		// Lost a creation race: the in-use set has changed under us, so the
		// full path re-runs rather than just the write.
		m.log.WarnContext(ctx, "slug write rejected by unique index, re-resolving",
			slog.String("type", rec.Type),
			slog.String("slug", res.slug),
			slog.Int("attempt", attempt+1),
		)
	}
}
