package dependency

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/emrgen/fieldgraph/internal/fieldtype"
	"github.com/emrgen/fieldgraph/internal/model"
	"github.com/emrgen/fieldgraph/internal/store"
	"github.com/emrgen/fieldgraph/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Handler, store.Store) {
	tester.Setup("dependency")
	s := store.NewGormStore(tester.TestDB())
	return NewHandler(s, fieldtype.Default()), s
}

func createTable(t *testing.T, s store.Store, name string) *model.Table {
	table := &model.Table{ID: uuid.New().String(), Name: name}
	require.NoError(t, s.CreateTable(context.TODO(), table))
	return table
}

func createField(t *testing.T, s store.Store, field *model.Field) *model.Field {
	field.ID = uuid.New().String()
	require.NoError(t, s.CreateField(context.TODO(), field))
	return field
}

func createTextField(t *testing.T, s store.Store, table *model.Table, name string, primary bool) *model.Field {
	return createField(t, s, &model.Field{
		TableID: table.ID,
		Name:    name,
		Type:    model.FieldTypeText,
		Primary: primary,
	})
}

func createFormulaField(t *testing.T, s store.Store, table *model.Table, name string, refs ...fieldtype.Dependency) *model.Field {
	data, err := json.Marshal(refs)
	require.NoError(t, err)

	return createField(t, s, &model.Field{
		TableID:    table.ID,
		Name:       name,
		Type:       model.FieldTypeFormula,
		References: string(data),
	})
}

func createLinkRowField(t *testing.T, s store.Store, table *model.Table, name string, linked *model.Table) *model.Field {
	return createField(t, s, &model.Field{
		TableID:        table.ID,
		Name:           name,
		Type:           model.FieldTypeLinkRow,
		LinkRowTableID: &linked.ID,
	})
}

func createLookupField(t *testing.T, s store.Store, table *model.Table, name, through, target string) *model.Field {
	return createField(t, s, &model.Field{
		TableID:          table.ID,
		Name:             name,
		Type:             model.FieldTypeLookup,
		ThroughFieldName: through,
		TargetFieldName:  target,
	})
}

func rebuild(t *testing.T, h *Handler, s store.Store, field *model.Field) {
	_, err := h.RebuildDependencies(context.TODO(), field, NewFieldCache(s))
	require.NoError(t, err)
}

func edgesOf(t *testing.T, s store.Store, field *model.Field) []*model.FieldDependency {
	edges, err := s.ListDependenciesOf(context.TODO(), field.ID)
	require.NoError(t, err)
	return edges
}

// assertRebuildChangesNothing rebuilds a second time and checks that both
// the row ids and the semantic keys come out identical.
func assertRebuildChangesNothing(t *testing.T, h *Handler, s store.Store, field *model.Field) {
	before := edgesOf(t, s, field)

	changed, err := h.RebuildDependencies(context.TODO(), field, NewFieldCache(s))
	assert.NoError(t, err)
	assert.False(t, changed)

	after := edgesOf(t, s, field)
	require.Equal(t, len(before), len(after))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Key(), after[i].Key())
	}
}
