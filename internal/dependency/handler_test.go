package dependency

import (
	"context"
	"testing"

	"github.com/emrgen/fieldgraph/internal/fieldtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameTableDependencies(t *testing.T) {
	h, s := setup(t)
	table := createTable(t, s, "orders")
	other := createTable(t, s, "customers")

	createTextField(t, s, table, "primary", true)
	createTextField(t, s, other, "primary", true)
	createTextField(t, s, other, "email", false)
	createLinkRowField(t, s, table, "customer", other)
	amount := createTextField(t, s, table, "amount", false)

	formula := createFormulaField(t, s, table, "summary", fieldtype.Dependency{FieldName: "amount"})
	rebuild(t, h, s, formula)
	lookup := createLookupField(t, s, table, "customer email", "customer", "email")
	rebuild(t, h, s, lookup)

	sameTable, err := h.SameTableDependencies(context.TODO(), formula)
	require.NoError(t, err)
	require.Len(t, sameTable, 1)
	assert.Equal(t, amount.ID, sameTable[0].ID)

	// The lookup depends on its via in this table and on the target in
	// the other table; only the via counts.
	sameTable, err = h.SameTableDependencies(context.TODO(), lookup)
	require.NoError(t, err)
	require.Len(t, sameTable, 1)
	assert.Equal(t, "customer", sameTable[0].Name)
}
