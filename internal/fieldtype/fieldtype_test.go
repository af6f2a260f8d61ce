package fieldtype

import (
	"context"
	"errors"
	"testing"

	"github.com/emrgen/fieldgraph/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	primary *model.Field
}

func (s stubResolver) LookupByName(ctx context.Context, tableID, name string) (*model.Field, error) {
	return nil, nil
}

func (s stubResolver) LookupPrimary(ctx context.Context, tableID string) (*model.Field, error) {
	return s.primary, nil
}

func TestRegistryResolvesBuiltinTypes(t *testing.T) {
	registry := Default()

	for _, tag := range []string{
		model.FieldTypeText,
		model.FieldTypeNumber,
		model.FieldTypeFormula,
		model.FieldTypeLinkRow,
		model.FieldTypeLookup,
	} {
		ft, err := registry.Get(tag)
		require.NoError(t, err)
		assert.Equal(t, tag, ft.Type())
	}

	_, err := registry.Get("hologram")
	assert.True(t, errors.Is(err, ErrUnknownFieldType))
}

func TestFormulaFieldDependencies(t *testing.T) {
	ft := FormulaFieldType{}

	field := &model.Field{Type: model.FieldTypeFormula}
	refs, err := ft.GetFieldDependencies(context.TODO(), field, stubResolver{})
	require.NoError(t, err)
	assert.Nil(t, refs)

	field.References = `[{"field_name":"price"},{"through_field_name":"customer","field_name":"email"}]`
	refs, err = ft.GetFieldDependencies(context.TODO(), field, stubResolver{})
	require.NoError(t, err)
	assert.Equal(t, []Dependency{
		{FieldName: "price"},
		{ThroughFieldName: "customer", FieldName: "email"},
	}, refs)

	field.References = `{broken`
	_, err = ft.GetFieldDependencies(context.TODO(), field, stubResolver{})
	assert.Error(t, err)
}

func TestLinkRowFieldDependencies(t *testing.T) {
	ft := LinkRowFieldType{}
	linked := "table-2"

	field := &model.Field{Name: "customer", Type: model.FieldTypeLinkRow}
	refs, err := ft.GetFieldDependencies(context.TODO(), field, stubResolver{})
	require.NoError(t, err)
	assert.Nil(t, refs)

	field.LinkRowTableID = &linked
	refs, err = ft.GetFieldDependencies(context.TODO(), field, stubResolver{})
	require.NoError(t, err)
	assert.Nil(t, refs)

	primary := &model.Field{Name: "name", TableID: linked, Primary: true}
	refs, err = ft.GetFieldDependencies(context.TODO(), field, stubResolver{primary: primary})
	require.NoError(t, err)
	assert.Equal(t, []Dependency{{ThroughFieldName: "customer", FieldName: "name"}}, refs)
}

func TestLookupFieldDependencies(t *testing.T) {
	ft := LookupFieldType{}

	field := &model.Field{Name: "customer email", Type: model.FieldTypeLookup}
	refs, err := ft.GetFieldDependencies(context.TODO(), field, stubResolver{})
	require.NoError(t, err)
	assert.Nil(t, refs)

	field.ThroughFieldName = "customer"
	field.TargetFieldName = "email"
	refs, err = ft.GetFieldDependencies(context.TODO(), field, stubResolver{})
	require.NoError(t, err)
	assert.Equal(t, []Dependency{{ThroughFieldName: "customer", FieldName: "email"}}, refs)
}
