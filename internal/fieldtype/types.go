package fieldtype

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/emrgen/fieldgraph/internal/model"
)

// TextFieldType is a plain value column with no dependencies.
type TextFieldType struct{}

func (TextFieldType) Type() string { return model.FieldTypeText }

func (TextFieldType) GetFieldDependencies(ctx context.Context, field *model.Field, resolver FieldResolver) ([]Dependency, error) {
	return nil, nil
}

type NumberFieldType struct{}

func (NumberFieldType) Type() string { return model.FieldTypeNumber }

func (NumberFieldType) GetFieldDependencies(ctx context.Context, field *model.Field, resolver FieldResolver) ([]Dependency, error) {
	return nil, nil
}

// FormulaFieldType reads back the references the formula parser stored on
// the field. The parser is an external collaborator; this type does not
// interpret the formula text itself.
type FormulaFieldType struct{}

func (FormulaFieldType) Type() string { return model.FieldTypeFormula }

func (FormulaFieldType) GetFieldDependencies(ctx context.Context, field *model.Field, resolver FieldResolver) ([]Dependency, error) {
	if field.References == "" {
		return nil, nil
	}

	var refs []Dependency
	if err := json.Unmarshal([]byte(field.References), &refs); err != nil {
		return nil, fmt.Errorf("field %s has invalid references: %w", field.ID, err)
	}

	return refs, nil
}

// LinkRowFieldType depends on the primary field of the table it links to,
// reached through itself.
type LinkRowFieldType struct{}

func (LinkRowFieldType) Type() string { return model.FieldTypeLinkRow }

func (LinkRowFieldType) GetFieldDependencies(ctx context.Context, field *model.Field, resolver FieldResolver) ([]Dependency, error) {
	if field.LinkRowTableID == nil {
		return nil, nil
	}

	primary, err := resolver.LookupPrimary(ctx, *field.LinkRowTableID)
	if err != nil {
		return nil, err
	}
	if primary == nil {
		// The linked table has no primary field to display, so there is
		// nothing to depend on.
		return nil, nil
	}

	return []Dependency{
		{ThroughFieldName: field.Name, FieldName: primary.Name},
	}, nil
}

// LookupFieldType reads a field in another table through a link row field,
// both referenced by name.
type LookupFieldType struct{}

func (LookupFieldType) Type() string { return model.FieldTypeLookup }

func (LookupFieldType) GetFieldDependencies(ctx context.Context, field *model.Field, resolver FieldResolver) ([]Dependency, error) {
	if field.ThroughFieldName == "" || field.TargetFieldName == "" {
		return nil, nil
	}

	return []Dependency{
		{ThroughFieldName: field.ThroughFieldName, FieldName: field.TargetFieldName},
	}, nil
}
