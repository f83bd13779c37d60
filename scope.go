package slugkit

import (
	"fmt"

	"github.com/dmitrymomot/slugkit/store"
)

// ScopeKind identifies which sibling set participates in uniqueness checks.
// The kind is fixed per entity type for the lifetime of the process.
type ScopeKind int

const (
	// ScopeNone checks uniqueness across every record of the root type.
	ScopeNone ScopeKind = iota

	// ScopeContainer checks uniqueness among siblings embedded in the same
	// parent container instance.
	ScopeContainer

	// ScopeReference checks uniqueness among records referencing the same
	// target through a named association.
	ScopeReference

	// ScopeFields checks uniqueness among records whose named local fields
	// hold equal values.
	ScopeFields
)

// Scope describes the uniqueness boundary of a slugged type.
type Scope struct {
	Kind ScopeKind

	// ParentPath is the embedding path for ScopeContainer, e.g.
	// "magazine.issues". Informational: the predicate keys on the parent
	// instance ID.
	ParentPath string

	// Assoc names the association for ScopeReference. Inverse, when set,
	// names the reciprocal association the foreign key actually lives under
	// on the sibling side; the predicate then keys on Inverse instead of
	// scanning the full collection.
	Assoc   string
	Inverse string

	// FieldNames lists the local fields for ScopeFields. Order-independent.
	FieldNames []string
}

// Unscoped returns the global scope.
func Unscoped() Scope {
	return Scope{Kind: ScopeNone}
}

// InContainer scopes uniqueness to siblings within one parent container.
func InContainer(parentPath string) Scope {
	return Scope{Kind: ScopeContainer, ParentPath: parentPath}
}

// ByReference scopes uniqueness to records referencing the same target.
func ByReference(assoc string) Scope {
	return Scope{Kind: ScopeReference, Assoc: assoc}
}

// ByReferenceInverse scopes uniqueness through the reciprocal association,
// for associations declared on the many side without a directly filterable
// foreign key.
func ByReferenceInverse(assoc, inverse string) Scope {
	return Scope{Kind: ScopeReference, Assoc: assoc, Inverse: inverse}
}

// ByFields scopes uniqueness to records with equal values in the named local
// fields.
func ByFields(fields ...string) Scope {
	return Scope{Kind: ScopeFields, FieldNames: fields}
}

// refKey returns the association name the foreign key is stored under.
func (s Scope) refKey() string {
	if s.Inverse != "" {
		return s.Inverse
	}
	return s.Assoc
}

// filter builds the store predicate bounding rec's uniqueness checks. The
// predicate always targets the hierarchy root type so subtypes never escape
// checks against siblings of other subtypes.
func (s Scope) filter(rec *store.Record, rootType, attr string) store.Filter {
	f := store.Filter{
		Type:      rootType,
		Attr:      attr,
		ExcludeID: rec.ID,
	}
	switch s.Kind {
	case ScopeContainer:
		parent := rec.ParentID
		f.ParentID = &parent
	case ScopeReference:
		f.Refs = map[string]string{s.refKey(): rec.Refs[s.refKey()]}
	case ScopeFields:
		f.Fields = make(map[string]any, len(s.FieldNames))
		for _, name := range s.FieldNames {
			f.Fields[name] = rec.Fields[name]
		}
	}
	return f
}

// indexFields returns the document paths that partition the slug namespace,
// used when declaring the scoped unique index.
func (s Scope) indexFields() []string {
	switch s.Kind {
	case ScopeContainer:
		return []string{"parent_id"}
	case ScopeReference:
		return []string{"refs." + s.refKey()}
	case ScopeFields:
		fields := make([]string, len(s.FieldNames))
		for i, name := range s.FieldNames {
			fields[i] = "fields." + name
		}
		return fields
	default:
		return nil
	}
}

// validate checks the scope's references against the declared type shape.
func (s Scope) validate(info TypeInfo) error {
	switch s.Kind {
	case ScopeNone:
		return nil
	case ScopeContainer:
		if info.EmbeddedIn == "" {
			return fmt.Errorf("%w: container scope on non-embedded type %q", ErrConfiguration, info.Name)
		}
		return nil
	case ScopeReference:
		if s.Assoc == "" {
			return fmt.Errorf("%w: reference scope without an association name", ErrConfiguration)
		}
		if !info.hasRef(s.refKey()) {
			return fmt.Errorf("%w: unknown association %q on type %q", ErrConfiguration, s.refKey(), info.Name)
		}
		return nil
	case ScopeFields:
		if len(s.FieldNames) == 0 {
			return fmt.Errorf("%w: field scope without field names", ErrConfiguration)
		}
		for _, name := range s.FieldNames {
			if !info.hasField(name) {
				return fmt.Errorf("%w: unknown scope field %q on type %q", ErrConfiguration, name, info.Name)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown scope kind %d", ErrConfiguration, s.Kind)
	}
}
