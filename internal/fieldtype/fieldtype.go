package fieldtype

import (
	"context"

	"github.com/emrgen/fieldgraph/internal/model"
)

// Dependency is one dependency a field wants, as described by its type.
// A bare FieldName is a same-table reference; when ThroughFieldName is set
// the target is reached in another table through that link row field.
// Descriptors are ephemeral, only edges are persisted.
type Dependency struct {
	ThroughFieldName string `json:"through_field_name,omitempty"`
	FieldName        string `json:"field_name"`
}

// FieldResolver is the read view field types use to resolve names while
// describing their dependencies. Lookups return (nil, nil) when no live
// field matches.
type FieldResolver interface {
	LookupByName(ctx context.Context, tableID, name string) (*model.Field, error)
	LookupPrimary(ctx context.Context, tableID string) (*model.Field, error)
}

// FieldType is the behaviour behind a field's type tag.
type FieldType interface {
	Type() string
	// GetFieldDependencies returns the dependency descriptors for the
	// field, or nil when the type computes nothing.
	GetFieldDependencies(ctx context.Context, field *model.Field, resolver FieldResolver) ([]Dependency, error)
}
