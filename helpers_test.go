package slugkit_test

import (
	"context"
	"sync/atomic"

	"github.com/dmitrymomot/slugkit/store"
	"github.com/dmitrymomot/slugkit/store/memory"
)

// countingStore counts slug queries so tests can assert cache hits bypass the
// store.
type countingStore struct {
	store.Store
	slugQueries atomic.Int64
}

func newCountingStore() *countingStore {
	return &countingStore{Store: memory.New()}
}

func (s *countingStore) FindBySlug(ctx context.Context, f store.Filter, value string, includeHistory bool) ([]*store.Record, error) {
	s.slugQueries.Add(1)
	return s.Store.FindBySlug(ctx, f, value, includeHistory)
}

// racingStore injects a competing writer: right before the first Save of a
// record with the contested slug, another record claiming the same value
// lands in the underlying store. The write then fails on the unique index
// exactly as a lost creation race would.
type racingStore struct {
	store.Store
	contested string
	fired     atomic.Bool
}

func newRacingStore(contested string) *racingStore {
	return &racingStore{Store: memory.New(), contested: contested}
}

func (s *racingStore) Save(ctx context.Context, rec *store.Record) error {
	if rec.Slug == s.contested && s.fired.CompareAndSwap(false, true) {
		rival := &store.Record{
			Type:     rec.Type,
			RootType: rec.RootType,
			Attr:     rec.Attr,
			Fields:   map[string]any{"title": "rival"},
			Slug:     s.contested,
		}
		if err := s.Store.Save(ctx, rival); err != nil {
			return err
		}
	}
	return s.Store.Save(ctx, rec)
}

// rejectingStore fails every write with a unique-constraint violation,
// simulating contention that never resolves.
type rejectingStore struct {
	store.Store
	saves atomic.Int64
}

func newRejectingStore() *rejectingStore {
	return &rejectingStore{Store: memory.New()}
}

func (s *rejectingStore) Save(context.Context, *store.Record) error {
	s.saves.Add(1)
	return store.ErrDuplicateSlug
}

// vetoStore rejects writes of one slug value with a unique-constraint
// violation once armed, passing everything else through. Unlike
// rejectingStore it lets the test set up real records first.
type vetoStore struct {
	store.Store
	vetoed string
	armed  atomic.Bool
}

func newVetoStore(vetoed string) *vetoStore {
	return &vetoStore{Store: memory.New(), vetoed: vetoed}
}

func (s *vetoStore) Save(ctx context.Context, rec *store.Record) error {
	if s.armed.Load() && rec.Slug == s.vetoed {
		return store.ErrDuplicateSlug
	}
	return s.Store.Save(ctx, rec)
}
