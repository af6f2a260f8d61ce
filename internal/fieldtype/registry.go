package fieldtype

import (
	"errors"
	"fmt"
)

var ErrUnknownFieldType = errors.New("unknown field type")

// Registry resolves a field's type tag to its FieldType. It is populated
// once at startup and read-only afterwards; inject it rather than reaching
// for a global so the graph code stays testable in isolation.
type Registry struct {
	types map[string]FieldType
}

func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]FieldType),
	}
}

func (r *Registry) Register(ft FieldType) {
	r.types[ft.Type()] = ft
}

func (r *Registry) Get(tag string) (FieldType, error) {
	ft, ok := r.types[tag]
	if !ok {
		return nil, fmt.Errorf("%q: %w", tag, ErrUnknownFieldType)
	}
	return ft, nil
}

// Default returns a registry with all built-in field types.
func Default() *Registry {
	r := NewRegistry()
	r.Register(TextFieldType{})
	r.Register(NumberFieldType{})
	r.Register(FormulaFieldType{})
	r.Register(LinkRowFieldType{})
	r.Register(LookupFieldType{})
	return r
}
