package slugkit_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/slugkit"
	"github.com/dmitrymomot/slugkit/pkg/logger"
	"github.com/dmitrymomot/slugkit/store"
	"github.com/dmitrymomot/slugkit/store/memory"
)

func TestLoadDefinitions(t *testing.T) {
	t.Parallel()

	t.Run("full document", func(t *testing.T) {
		t.Parallel()

		doc := `
definitions:
  - type: book
    declared_fields: [title]
    fields: [title]
    history: true
    reserved: [new, edit]
    unique_index: true
  - type: chapter
    declared_fields: [name]
    declared_refs: [book]
    fields: [name]
    scope:
      kind: reference
      association: book
  - type: issue
    embedded_in: magazine.issues
    declared_fields: [name]
    fields: [name]
    attribute: permalink
    permanent: true
    fallback: issue
    max_retries: 5
    scope:
      kind: container
      parent_path: magazine.issues
`
		defs, err := slugkit.LoadDefinitions(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, defs, 3)

		reg := slugkit.NewRegistry()
		require.NoError(t, slugkit.RegisterAll(reg, defs))

		// The loaded definitions drive generation end to end.
		ctx := context.Background()
		mgr := slugkit.New(memory.New(), reg, slugkit.WithLogger(logger.NewDiscard()))
		require.NoError(t, mgr.SetupIndexes(ctx))

		book := &store.Record{Type: "book", Fields: map[string]any{"title": "New"}}
		require.NoError(t, mgr.OnCreate(ctx, book))
		assert.Equal(t, "new-1", book.Slug, "reserved word from yaml applies")

		issue := &store.Record{Type: "issue", ParentID: "m1", Fields: map[string]any{"name": "###"}}
		require.NoError(t, mgr.OnCreate(ctx, issue))
		assert.Equal(t, "issue", issue.Slug, "fallback from yaml applies")
		assert.Equal(t, "permalink", issue.Attr, "custom attribute from yaml applies")
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()

		_, err := slugkit.LoadDefinitions(strings.NewReader("definitions: []"))
		require.ErrorIs(t, err, slugkit.ErrConfiguration)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := slugkit.LoadDefinitions(strings.NewReader("definitions: ["))
		require.ErrorIs(t, err, slugkit.ErrConfiguration)
	})

	t.Run("unknown scope kind", func(t *testing.T) {
		t.Parallel()

		doc := `
definitions:
  - type: book
    declared_fields: [title]
    fields: [title]
    scope:
      kind: galaxy
`
		_, err := slugkit.LoadDefinitions(strings.NewReader(doc))
		require.ErrorIs(t, err, slugkit.ErrConfiguration)
		assert.ErrorContains(t, err, `unknown scope kind "galaxy"`)
	})

	t.Run("invalid definitions surface at registration", func(t *testing.T) {
		t.Parallel()

		doc := `
definitions:
  - type: book
    declared_fields: [title]
    fields: [subtitle]
`
		defs, err := slugkit.LoadDefinitions(strings.NewReader(doc))
		require.NoError(t, err)

		err = slugkit.RegisterAll(slugkit.NewRegistry(), defs)
		require.ErrorIs(t, err, slugkit.ErrConfiguration)
	})
}
