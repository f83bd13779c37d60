package slugkit

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/dmitrymomot/slugkit/pkg/slugify"
	"github.com/dmitrymomot/slugkit/store"
)

// entry is a registered type: its declared shape, its definition, and the
// field extractor resolved once at registration time.
type entry struct {
	info    TypeInfo
	def     *Definition
	extract func(rec *store.Record) string
}

// rootType returns the hierarchy root the entry's records live under.
func (e *entry) rootType() string {
	return e.info.RootType()
}

// changed reports whether any slugged field value differs between the
// previously persisted record and the current one. Raw values are compared;
// normalization-equal changes are caught later by the idempotence rule.
func (e *entry) changed(prev, cur *store.Record) bool {
	if e.def.derive != nil {
		return e.def.derive(prev) != e.def.derive(cur)
	}
	for _, name := range e.def.fields {
		if !reflect.DeepEqual(prev.Fields[name], cur.Fields[name]) {
			return true
		}
	}
	return false
}

// Registry holds slug definitions keyed by concrete type name. Register every
// type once at startup; lookups afterwards are read-only and safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRegistry creates an empty definition registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register validates def against the declared type shape and stores it.
// Invalid field or association references fail here, at setup time, never
// during slug generation.
func (r *Registry) Register(info TypeInfo, def *Definition) error {
	if info.Name == "" {
		return fmt.Errorf("%w: type name is required", ErrConfiguration)
	}
	if def == nil {
		return fmt.Errorf("%w: nil definition for type %q", ErrConfiguration, info.Name)
	}
	if def.attribute == "" {
		return fmt.Errorf("%w: empty slug attribute on type %q", ErrConfiguration, info.Name)
	}
	if len(def.fields) == 0 && def.derive == nil {
		return fmt.Errorf("%w: type %q has neither slugged fields nor a derive function", ErrConfiguration, info.Name)
	}
	for _, name := range def.fields {
		if !info.hasField(name) {
			return fmt.Errorf("%w: unknown slugged field %q on type %q", ErrConfiguration, name, info.Name)
		}
	}
	if err := def.scope.validate(info); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[info.Name]; exists {
		return fmt.Errorf("%w: type %q already registered", ErrConfiguration, info.Name)
	}
	r.entries[info.Name] = &entry{
		info:    info,
		def:     def,
		extract: newExtractor(def),
	}
	return nil
}

// MustRegister registers a definition or panics. Intended for package-level
// setup where a misconfiguration should halt startup.
func (r *Registry) MustRegister(info TypeInfo, def *Definition) {
	if err := r.Register(info, def); err != nil {
		panic(err)
	}
}

// lookup resolves the entry for a concrete type name.
func (r *Registry) lookup(typeName string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}
	return e, nil
}

// all returns every registered entry.
func (r *Registry) all() []*entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	return entries
}

// newExtractor resolves the raw slug text source once, per the definition:
// either the custom derive function or space-joined field values.
func newExtractor(def *Definition) func(rec *store.Record) string {
	if def.derive != nil {
		return def.derive
	}
	fields := def.fields
	return func(rec *store.Record) string {
		values := make([]string, 0, len(fields))
		for _, name := range fields {
			values = append(values, fieldString(rec.Fields[name]))
		}
		return slugify.Join(values...)
	}
}

// fieldString renders a document field value as raw slug text.
func fieldString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
