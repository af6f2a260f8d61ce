package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string {
	return &s
}

// Two edges with the same (dependant, dependency, via) are the same edge
// no matter their row ids; changing any one component of the identity
// produces a distinct key.
func TestDependencyKeyIdentity(t *testing.T) {
	a, b, c := "field-a", "field-b", "field-c"

	first := &FieldDependency{ID: 1, DependantID: a, DependencyID: strp(b)}
	second := &FieldDependency{ID: 99, DependantID: a, DependencyID: strp(b)}
	assert.Equal(t, first.Key(), second.Key())

	edges := []*FieldDependency{
		{DependantID: a, DependencyID: strp(b)},
		{DependantID: a, DependencyID: strp(c)},
		{DependantID: b, DependencyID: strp(c)},
		{DependantID: a, DependencyID: strp(b), ViaID: strp(c)},
		{DependantID: a, BrokenReferenceFieldName: strp("b"), BrokenReferenceTableID: strp("table-1")},
		{DependantID: a, BrokenReferenceFieldName: strp("b"), BrokenReferenceTableID: strp("table-2")},
		{DependantID: a, BrokenReferenceFieldName: strp("c"), BrokenReferenceTableID: strp("table-1")},
		{DependantID: a, ViaID: strp(c), BrokenReferenceFieldName: strp("b"), BrokenReferenceTableID: strp("table-1")},
	}

	keys := make(map[DependencyKey]int)
	for i, edge := range edges {
		if previous, ok := keys[edge.Key()]; ok {
			t.Fatalf("edges %d and %d share a key", previous, i)
		}
		keys[edge.Key()] = i
	}
	assert.Len(t, keys, len(edges))
}

func TestDependencyBroken(t *testing.T) {
	resolved := &FieldDependency{DependantID: "a", DependencyID: strp("b")}
	assert.False(t, resolved.Broken())

	broken := &FieldDependency{DependantID: "a", BrokenReferenceFieldName: strp("b")}
	assert.True(t, broken.Broken())
}

func TestFieldTrashed(t *testing.T) {
	field := &Field{ID: "field-a"}
	assert.False(t, field.Trashed())
}
