package slugkit

import (
	"context"
	"slices"

	"github.com/dmitrymomot/slugkit/store"
)

// recordHistory updates the record's history sequence after a slug change.
// The newly current value is removed (an entity reclaiming its own retired
// slug must not keep it as history), and oldSlug is appended unless it is
// empty (fresh creation) or already present. No-op when history is disabled.
func recordHistory(def *Definition, rec *store.Record, oldSlug string) {
	if !def.history {
		return
	}
	if i := slices.Index(rec.SlugHistory, rec.Slug); i >= 0 {
		rec.SlugHistory = slices.Delete(rec.SlugHistory, i, i+1)
	}
	if oldSlug == "" || oldSlug == rec.Slug || slices.Contains(rec.SlugHistory, oldSlug) {
		return
	}
	rec.SlugHistory = append(rec.SlugHistory, oldSlug)
}

// reclaimHistory releases value from every other entity's history within the
// scope, so a value held only as stale history stops shadowing its reuse as a
// current slug. Returns the number of entities whose history was modified.
func reclaimHistory(ctx context.Context, st store.Store, f store.Filter, value string) (int, error) {
	return st.PullHistory(ctx, f, value)
}
