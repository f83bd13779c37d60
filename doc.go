// Package slugkit generates URL-safe, human-readable identifiers for
// persisted entities and guarantees their uniqueness within a configurable
// scope, with optional history of retired slugs.
//
// The engine coordinates four pieces around a document store: text
// normalization (pkg/slugify), scope resolution (which sibling set a slug
// must be unique within), collision resolution (counter suffixing against the
// in-use set), and a per-entity history ledger that keeps old slugs
// resolvable until they are reclaimed.
//
// # Quick Start
//
// Declare each slugged type once at startup, then route entity lifecycle
// events through the Manager:
//
//	reg := slugkit.NewRegistry()
//	err := reg.Register(
//	    slugkit.TypeInfo{Name: "book", Fields: []string{"title"}},
//	    slugkit.NewDefinition(
//	        slugkit.Fields("title"),
//	        slugkit.WithHistory(),
//	        slugkit.ReservedWords("new", "edit"),
//	        slugkit.WithUniqueIndex(),
//	    ),
//	)
//
//	mgr := slugkit.New(memory.New(), reg)
//	_ = mgr.SetupIndexes(ctx)
//
//	book := &store.Record{Type: "book", Fields: map[string]any{"title": "A Thousand Plateaus"}}
//	_ = mgr.OnCreate(ctx, book)
//	// book.Slug == "a-thousand-plateaus"
//
// Subsequent creations with the same title receive counter suffixes in
// creation order: "a-thousand-plateaus-1", "a-thousand-plateaus-2", and so
// on. Renaming a slugged field retires the old slug into the entity's
// history, where lookups still resolve it:
//
//	rec, _ := mgr.FindBySlug(ctx, "book", "a-thousand-plateaus")
//
// # Scopes
//
// Uniqueness is checked within one of four sibling sets, fixed per type:
//
//	slugkit.Unscoped()                     // all records of the root type
//	slugkit.InContainer("magazine.issues") // siblings of one parent instance
//	slugkit.ByReference("publisher")       // records referencing the same target
//	slugkit.ByFields("country", "city")    // records with equal local fields
//
// Types in a hierarchy share the root type's namespace, so subtypes never
// escape uniqueness checks against siblings of other subtypes.
//
// # Concurrency
//
// The read query and the following write are not one atomic transaction. The
// authoritative backstop is the scoped unique index declared via
// WithUniqueIndex and created by SetupIndexes: a race loser's write is
// rejected by the store, and the Manager re-runs the full recompute path with
// a fresh in-use set, bounded by the definition's retry budget.
//
// Store adapters live in store/memory, store/mongo, and store/postgres.
package slugkit
