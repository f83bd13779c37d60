package slugkit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/slugkit"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	valid := slugkit.TypeInfo{Name: "article", Fields: []string{"headline"}}

	tests := []struct {
		name    string
		info    slugkit.TypeInfo
		def     *slugkit.Definition
		wantErr string
	}{
		{
			name: "valid definition",
			info: valid,
			def:  slugkit.NewDefinition(slugkit.Fields("headline")),
		},
		{
			name:    "missing type name",
			info:    slugkit.TypeInfo{Fields: []string{"headline"}},
			def:     slugkit.NewDefinition(slugkit.Fields("headline")),
			wantErr: "type name is required",
		},
		{
			name:    "nil definition",
			info:    valid,
			def:     nil,
			wantErr: "nil definition",
		},
		{
			name:    "no fields and no derive function",
			info:    valid,
			def:     slugkit.NewDefinition(),
			wantErr: "neither slugged fields nor a derive function",
		},
		{
			name:    "unknown slugged field",
			info:    valid,
			def:     slugkit.NewDefinition(slugkit.Fields("subtitle")),
			wantErr: `unknown slugged field "subtitle"`,
		},
		{
			name:    "empty slug attribute",
			info:    valid,
			def:     slugkit.NewDefinition(slugkit.Fields("headline"), slugkit.Attribute("")),
			wantErr: "empty slug attribute",
		},
		{
			name: "container scope on non-embedded type",
			info: valid,
			def: slugkit.NewDefinition(
				slugkit.Fields("headline"),
				slugkit.Scoped(slugkit.InContainer("magazine.articles")),
			),
			wantErr: "container scope on non-embedded type",
		},
		{
			name: "reference scope with unknown association",
			info: valid,
			def: slugkit.NewDefinition(
				slugkit.Fields("headline"),
				slugkit.Scoped(slugkit.ByReference("author")),
			),
			wantErr: `unknown association "author"`,
		},
		{
			name: "reference scope keys on declared inverse",
			info: slugkit.TypeInfo{Name: "article", Fields: []string{"headline"}, Refs: []string{"byline"}},
			def: slugkit.NewDefinition(
				slugkit.Fields("headline"),
				slugkit.Scoped(slugkit.ByReferenceInverse("articles", "byline")),
			),
		},
		{
			name: "field scope with unknown field",
			info: valid,
			def: slugkit.NewDefinition(
				slugkit.Fields("headline"),
				slugkit.Scoped(slugkit.ByFields("section")),
			),
			wantErr: `unknown scope field "section"`,
		},
		{
			name: "field scope without fields",
			info: valid,
			def: slugkit.NewDefinition(
				slugkit.Fields("headline"),
				slugkit.Scoped(slugkit.ByFields()),
			),
			wantErr: "field scope without field names",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := slugkit.NewRegistry().Register(tt.info, tt.def)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, slugkit.ErrConfiguration)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	t.Run("duplicate registration", func(t *testing.T) {
		t.Parallel()

		reg := slugkit.NewRegistry()
		def := slugkit.NewDefinition(slugkit.Fields("headline"))
		require.NoError(t, reg.Register(valid, def))

		err := reg.Register(valid, def)
		require.ErrorIs(t, err, slugkit.ErrConfiguration)
		assert.ErrorContains(t, err, "already registered")
	})

	t.Run("must register panics on invalid definition", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			slugkit.NewRegistry().MustRegister(valid, nil)
		})
	})
}
