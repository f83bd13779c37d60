package slugkit

import (
	"slices"

	"github.com/dmitrymomot/slugkit/store"
)

// DeriveFunc produces the raw slug text for an entity, instead of joining the
// configured field values. It may read any field of the record.
type DeriveFunc func(rec *store.Record) string

// TypeInfo declares the shape of a slugged entity type: its document fields,
// named associations, hierarchy root, and embedding path. Definitions are
// validated against it once at registration, so misconfigured field or
// association names fail at setup time rather than during slug generation.
type TypeInfo struct {
	// Name is the concrete type name entities carry in Record.Type.
	Name string

	// Root is the non-abstract base type of a hierarchy. Empty means the type
	// is its own root. Subtypes sharing a root share one slug namespace.
	Root string

	// Fields lists the document field names present on the type.
	Fields []string

	// Refs lists the named associations present on the type.
	Refs []string

	// EmbeddedIn is the parent embedding path for container-nested types,
	// e.g. "magazine.issues". Empty for top-level types.
	EmbeddedIn string
}

// RootType returns the hierarchy root, falling back to the type's own name.
func (ti TypeInfo) RootType() string {
	if ti.Root != "" {
		return ti.Root
	}
	return ti.Name
}

func (ti TypeInfo) hasField(name string) bool {
	return slices.Contains(ti.Fields, name)
}

func (ti TypeInfo) hasRef(name string) bool {
	return slices.Contains(ti.Refs, name)
}

// Definition configures slug behavior for one entity type. Build it with
// NewDefinition and register it once at startup; definitions are immutable
// afterwards.
type Definition struct {
	fields      []string
	derive      DeriveFunc
	attribute   string
	scope       Scope
	history     bool
	permanent   bool
	reserved    map[string]struct{}
	fallback    string
	uniqueIndex bool
	maxRetries  int
}

// DefinitionOption configures a Definition.
type DefinitionOption func(*Definition)

// NewDefinition builds a slug definition. By default the slug is stored under
// the "slug" attribute, scoped globally, without history, recomputed whenever
// a slugged field changes, with up to 3 retries on write conflicts.
func NewDefinition(opts ...DefinitionOption) *Definition {
	def := &Definition{
		attribute:  "slug",
		scope:      Unscoped(),
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(def)
	}
	return def
}

// Fields names the entity fields the slug text is derived from, joined with a
// single space in the given order.
func Fields(names ...string) DefinitionOption {
	return func(d *Definition) {
		d.fields = names
	}
}

// DeriveWith installs a custom derivation function in place of field joining.
func DeriveWith(fn DeriveFunc) DefinitionOption {
	return func(d *Definition) {
		d.derive = fn
	}
}

// Attribute overrides the attribute name the slug is persisted under.
// Default: "slug".
func Attribute(name string) DefinitionOption {
	return func(d *Definition) {
		d.attribute = name
	}
}

// Scoped sets the uniqueness scope.
// Default: Unscoped().
func Scoped(s Scope) DefinitionOption {
	return func(d *Definition) {
		d.scope = s
	}
}

// WithHistory retains retired slugs and makes them resolvable by lookups.
func WithHistory() DefinitionOption {
	return func(d *Definition) {
		d.history = true
	}
}

// Permanent freezes the slug after first assignment; later field changes
// never regenerate it.
func Permanent() DefinitionOption {
	return func(d *Definition) {
		d.permanent = true
	}
}

// ReservedWords lists slugs that are never assigned bare; a candidate equal
// to one resolves with a counter suffix instead.
func ReservedWords(words ...string) DefinitionOption {
	return func(d *Definition) {
		if d.reserved == nil {
			d.reserved = make(map[string]struct{}, len(words))
		}
		for _, w := range words {
			d.reserved[w] = struct{}{}
		}
	}
}

// WithFallback substitutes token when normalization yields an empty string.
// Without a fallback the save is rejected with ErrEmptyCandidate.
func WithFallback(token string) DefinitionOption {
	return func(d *Definition) {
		d.fallback = token
	}
}

// WithUniqueIndex requests a scoped unique index on the slug attribute when
// Manager.SetupIndexes runs. The index is the authoritative backstop for
// concurrent creation races.
func WithUniqueIndex() DefinitionOption {
	return func(d *Definition) {
		d.uniqueIndex = true
	}
}

// MaxRetries bounds recompute attempts after unique-constraint rejections.
// Default: 3.
func MaxRetries(n int) DefinitionOption {
	return func(d *Definition) {
		d.maxRetries = n
	}
}

// isReserved reports whether value may not be assigned bare.
func (d *Definition) isReserved(value string) bool {
	_, ok := d.reserved[value]
	return ok
}
