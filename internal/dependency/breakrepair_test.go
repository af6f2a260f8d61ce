package dependency

import (
	"context"
	"testing"

	"github.com/emrgen/fieldgraph/internal/fieldtype"
	"github.com/emrgen/fieldgraph/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakDeletesOutboundEdges(t *testing.T) {
	h, s := setup(t)
	table := createTable(t, s, "products")

	createTextField(t, s, table, "first", false)
	formula := createFormulaField(t, s, table, "total", fieldtype.Dependency{FieldName: "first"})
	rebuild(t, h, s, formula)
	require.Len(t, edgesOf(t, s, formula), 1)

	require.NoError(t, s.TrashField(context.TODO(), formula.ID))
	affected, err := h.BreakDependencies(context.TODO(), formula)
	require.NoError(t, err)

	assert.Empty(t, affected)
	assert.Empty(t, edgesOf(t, s, formula))
}

func TestBreakConvertsInboundEdges(t *testing.T) {
	h, s := setup(t)
	table := createTable(t, s, "products")

	first := createTextField(t, s, table, "first", false)
	formula := createFormulaField(t, s, table, "total", fieldtype.Dependency{FieldName: "first"})
	rebuild(t, h, s, formula)

	require.NoError(t, s.TrashField(context.TODO(), first.ID))
	affected, err := h.BreakDependencies(context.TODO(), first)
	require.NoError(t, err)
	assert.Equal(t, []string{formula.ID}, affected)

	edges := edgesOf(t, s, formula)
	require.Len(t, edges, 1)
	assert.True(t, edges[0].Broken())
	assert.Equal(t, "first", *edges[0].BrokenReferenceFieldName)
	assert.Equal(t, table.ID, *edges[0].BrokenReferenceTableID)
}

// Trashing a via link row field collapses every edge routed through it,
// and recreating a field with the same name relinks by name.
func TestTrashingViaBreaksAndRepairs(t *testing.T) {
	h, s := setup(t)
	table := createTable(t, s, "orders")
	other := createTable(t, s, "customers")

	createTextField(t, s, table, "primary", true)
	createTextField(t, s, other, "primary", true)
	createTextField(t, s, other, "email", false)
	link := createLinkRowField(t, s, table, "customer", other)
	lookup := createLookupField(t, s, table, "customer email", "customer", "email")

	rebuild(t, h, s, link)
	rebuild(t, h, s, lookup)
	require.Len(t, edgesOf(t, s, lookup), 2)

	require.NoError(t, s.TrashField(context.TODO(), link.ID))
	affected, err := h.BreakDependencies(context.TODO(), link)
	require.NoError(t, err)
	assert.Equal(t, []string{lookup.ID}, affected)

	for _, edge := range edgesOf(t, s, lookup) {
		assert.True(t, edge.Broken())
		assert.Nil(t, edge.ViaID)
		assert.Equal(t, "customer", *edge.BrokenReferenceFieldName)
		assert.Equal(t, table.ID, *edge.BrokenReferenceTableID)
	}

	// A new link row field with the same name picks the references back
	// up. Both broken edges match but they would repair to the same
	// identity, so one is relinked and the other waits for the next
	// rebuild of the lookup to be cleaned up.
	relink := createLinkRowField(t, s, table, "customer", other)
	repaired, err := h.RepairDependencies(context.TODO(), relink)
	require.NoError(t, err)
	assert.Equal(t, []string{lookup.ID}, repaired)

	edges := edgesOf(t, s, lookup)
	require.Len(t, edges, 2)
	resolved := 0
	for _, edge := range edges {
		if !edge.Broken() {
			resolved++
			assert.Equal(t, relink.ID, *edge.DependencyID)
		}
	}
	assert.Equal(t, 1, resolved)

	// The rebuild settles the via edge again.
	rebuild(t, h, s, lookup)
	keys := make(map[model.DependencyKey]bool)
	for _, edge := range edgesOf(t, s, lookup) {
		keys[edge.Key()] = true
	}
	assert.Len(t, keys, 2)
	assert.True(t, keys[model.DependencyKey{Dependant: lookup.ID, Dependency: relink.ID}])
}

// Trashing the far target keeps the via intact on the broken edge, so the
// repaired edge comes back with the same route.
func TestTrashingTargetKeepsVia(t *testing.T) {
	h, s := setup(t)
	table := createTable(t, s, "orders")
	other := createTable(t, s, "customers")

	createTextField(t, s, table, "primary", true)
	createTextField(t, s, other, "primary", true)
	target := createTextField(t, s, other, "email", false)
	link := createLinkRowField(t, s, table, "customer", other)
	lookup := createLookupField(t, s, table, "customer email", "customer", "email")

	rebuild(t, h, s, link)
	rebuild(t, h, s, lookup)

	require.NoError(t, s.TrashField(context.TODO(), target.ID))
	affected, err := h.BreakDependencies(context.TODO(), target)
	require.NoError(t, err)
	assert.Equal(t, []string{lookup.ID}, affected)

	edges := edgesOf(t, s, lookup)
	require.Len(t, edges, 2)
	for _, edge := range edges {
		if edge.Broken() {
			assert.Equal(t, "email", *edge.BrokenReferenceFieldName)
			assert.Equal(t, other.ID, *edge.BrokenReferenceTableID)
			require.NotNil(t, edge.ViaID)
			assert.Equal(t, link.ID, *edge.ViaID)
		} else {
			assert.Equal(t, link.ID, *edge.DependencyID)
		}
	}

	recreated := createTextField(t, s, other, "email", false)
	repaired, err := h.RepairDependencies(context.TODO(), recreated)
	require.NoError(t, err)
	assert.Equal(t, []string{lookup.ID}, repaired)

	keys := make(map[model.DependencyKey]bool)
	for _, edge := range edgesOf(t, s, lookup) {
		assert.False(t, edge.Broken())
		keys[edge.Key()] = true
	}
	assert.True(t, keys[model.DependencyKey{Dependant: lookup.ID, Dependency: recreated.ID, Via: link.ID}])
}

func TestRepairSkipsWouldBeCycle(t *testing.T) {
	h, s := setup(t)
	table := createTable(t, s, "products")

	first := createFormulaField(t, s, table, "first", fieldtype.Dependency{FieldName: "second"})
	rebuild(t, h, s, first)
	require.True(t, edgesOf(t, s, first)[0].Broken())

	second := createFormulaField(t, s, table, "second", fieldtype.Dependency{FieldName: "first"})
	rebuild(t, h, s, second)

	// Relinking first -> second would close the cycle through
	// second -> first, so the edge silently stays broken.
	repaired, err := h.RepairDependencies(context.TODO(), second)
	require.NoError(t, err)
	assert.Empty(t, repaired)

	edges := edgesOf(t, s, first)
	require.Len(t, edges, 1)
	assert.True(t, edges[0].Broken())
}

func TestRepairMatchesNameAndTableExactly(t *testing.T) {
	h, s := setup(t)
	table := createTable(t, s, "products")
	other := createTable(t, s, "customers")

	formula := createFormulaField(t, s, table, "total", fieldtype.Dependency{FieldName: "ghost"})
	rebuild(t, h, s, formula)

	// Same name in another table does not match.
	stranger := createTextField(t, s, other, "ghost", false)
	repaired, err := h.RepairDependencies(context.TODO(), stranger)
	require.NoError(t, err)
	assert.Empty(t, repaired)

	// A different name in the right table does not match either.
	near := createTextField(t, s, table, "ghost2", false)
	repaired, err = h.RepairDependencies(context.TODO(), near)
	require.NoError(t, err)
	assert.Empty(t, repaired)

	ghost := createTextField(t, s, table, "ghost", false)
	repaired, err = h.RepairDependencies(context.TODO(), ghost)
	require.NoError(t, err)
	assert.Equal(t, []string{formula.ID}, repaired)

	edges := edgesOf(t, s, formula)
	require.Len(t, edges, 1)
	assert.False(t, edges[0].Broken())
	assert.Equal(t, ghost.ID, *edges[0].DependencyID)
}
