package slugkit

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/slugkit/store"
)

// resolution is the outcome of a uniqueness check: the final slug and whether
// it must first be reclaimed from another entity's history.
type resolution struct {
	slug    string
	reclaim bool
}

// resolveUnique computes the final unique slug for candidate within the
// filtered scope. It only reads from the store; committing the result (and
// any history mutation) is the manager's responsibility.
//
// Blocking values are the current slugs of other live entities in scope plus
// the definition's reserved words. A value held purely as stale history does
// not block: it is reported as reclaimable and released before reuse. Suffix
// search starts at 1 and takes the smallest free counter.
func resolveUnique(ctx context.Context, st store.Store, candidate string, f store.Filter, def *Definition) (resolution, error) {
	claims, err := st.Claims(ctx, f, def.history)
	if err != nil {
		return resolution{}, err
	}

	current := make(map[string]struct{})
	historical := make(map[string]struct{})
	for _, c := range claims {
		if c.FromHistory {
			historical[c.Value] = struct{}{}
			continue
		}
		current[c.Value] = struct{}{}
	}

	blocked := func(value string) bool {
		if def.isReserved(value) {
			return true
		}
		_, taken := current[value]
		return taken
	}

	pick := func(value string) resolution {
		_, held := historical[value]
		return resolution{slug: value, reclaim: held}
	}

	if !blocked(candidate) {
		return pick(candidate), nil
	}
	for n := 1; ; n++ {
		suffixed := fmt.Sprintf("%s-%d", candidate, n)
		if !blocked(suffixed) {
			return pick(suffixed), nil
		}
	}
}
