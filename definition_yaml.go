package slugkit

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// TypeDefinition pairs a declared type shape with its slug definition, as
// produced by LoadDefinitions.
type TypeDefinition struct {
	Info TypeInfo
	Def  *Definition
}

// yamlFile is the on-disk shape consumed by LoadDefinitions.
type yamlFile struct {
	Definitions []yamlDefinition `yaml:"definitions"`
}

type yamlDefinition struct {
	Type           string    `yaml:"type"`
	Root           string    `yaml:"root"`
	EmbeddedIn     string    `yaml:"embedded_in"`
	DeclaredFields []string  `yaml:"declared_fields"`
	DeclaredRefs   []string  `yaml:"declared_refs"`
	Fields         []string  `yaml:"fields"`
	Attribute      string    `yaml:"attribute"`
	History        bool      `yaml:"history"`
	Permanent      bool      `yaml:"permanent"`
	Reserved       []string  `yaml:"reserved"`
	Fallback       string    `yaml:"fallback"`
	UniqueIndex    bool      `yaml:"unique_index"`
	MaxRetries     *int      `yaml:"max_retries"`
	Scope          yamlScope `yaml:"scope"`
}

type yamlScope struct {
	Kind        string   `yaml:"kind"`
	ParentPath  string   `yaml:"parent_path"`
	Association string   `yaml:"association"`
	Inverse     string   `yaml:"inverse"`
	Fields      []string `yaml:"fields"`
}

// LoadDefinitions parses slug definitions from a YAML document, for setups
// that declare their slugged types in configuration rather than code. Custom
// derive functions cannot be expressed in YAML; such types register in code.
//
// Example document:
//
//	definitions:
//	  - type: book
//	    declared_fields: [title]
//	    fields: [title]
//	    history: true
//	    reserved: [new, edit]
//	    unique_index: true
func LoadDefinitions(r io.Reader) ([]TypeDefinition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading definitions: %w", ErrConfiguration, err)
	}

	var file yamlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parsing definitions: %w", ErrConfiguration, err)
	}
	if len(file.Definitions) == 0 {
		return nil, fmt.Errorf("%w: no definitions declared", ErrConfiguration)
	}

	out := make([]TypeDefinition, 0, len(file.Definitions))
	for _, yd := range file.Definitions {
		td, err := yd.build()
		if err != nil {
			return nil, err
		}
		out = append(out, td)
	}
	return out, nil
}

// RegisterAll registers every loaded definition, failing on the first
// configuration error.
func RegisterAll(reg *Registry, defs []TypeDefinition) error {
	for _, td := range defs {
		if err := reg.Register(td.Info, td.Def); err != nil {
			return err
		}
	}
	return nil
}

func (yd yamlDefinition) build() (TypeDefinition, error) {
	scope, err := yd.Scope.build(yd.Type)
	if err != nil {
		return TypeDefinition{}, err
	}

	opts := []DefinitionOption{
		Fields(yd.Fields...),
		Scoped(scope),
	}
	if yd.Attribute != "" {
		opts = append(opts, Attribute(yd.Attribute))
	}
	if yd.History {
		opts = append(opts, WithHistory())
	}
	if yd.Permanent {
		opts = append(opts, Permanent())
	}
	if len(yd.Reserved) > 0 {
		opts = append(opts, ReservedWords(yd.Reserved...))
	}
	if yd.Fallback != "" {
		opts = append(opts, WithFallback(yd.Fallback))
	}
	if yd.UniqueIndex {
		opts = append(opts, WithUniqueIndex())
	}
	if yd.MaxRetries != nil {
		opts = append(opts, MaxRetries(*yd.MaxRetries))
	}

	return TypeDefinition{
		Info: TypeInfo{
			Name:       yd.Type,
			Root:       yd.Root,
			Fields:     yd.DeclaredFields,
			Refs:       yd.DeclaredRefs,
			EmbeddedIn: yd.EmbeddedIn,
		},
		Def: NewDefinition(opts...),
	}, nil
}

func (ys yamlScope) build(typeName string) (Scope, error) {
	switch ys.Kind {
	case "", "none":
		return Unscoped(), nil
	case "container":
		return InContainer(ys.ParentPath), nil
	case "reference":
		if ys.Inverse != "" {
			return ByReferenceInverse(ys.Association, ys.Inverse), nil
		}
		return ByReference(ys.Association), nil
	case "fields":
		return ByFields(ys.Fields...), nil
	default:
		return Scope{}, fmt.Errorf("%w: unknown scope kind %q on type %q", ErrConfiguration, ys.Kind, typeName)
	}
}
