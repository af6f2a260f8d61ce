package dependency

import (
	"context"
	"errors"

	"github.com/emrgen/fieldgraph/internal/fieldtype"
	"github.com/emrgen/fieldgraph/internal/model"
	"github.com/emrgen/fieldgraph/internal/store"
	"gorm.io/gorm"
)

var _ fieldtype.FieldResolver = (*FieldCache)(nil)

type nameKey struct {
	tableID string
	name    string
}

// cached lookups remember misses too; a nil field means the name was
// looked up and not found.
type cacheEntry struct {
	field *model.Field
}

// FieldCache memoizes field lookups for the duration of a single graph
// operation, giving the constructor and checker a stable read view while
// one field's dependencies are resolved. It must not be reused across
// operations: a cache outliving its transaction serves stale reads.
type FieldCache struct {
	store   store.FieldStore
	byName  map[nameKey]cacheEntry
	primary map[string]cacheEntry
}

func NewFieldCache(s store.FieldStore) *FieldCache {
	return &FieldCache{
		store:   s,
		byName:  make(map[nameKey]cacheEntry),
		primary: make(map[string]cacheEntry),
	}
}

// LookupByName resolves a live field by table and name, returning
// (nil, nil) when no such field exists.
func (c *FieldCache) LookupByName(ctx context.Context, tableID, name string) (*model.Field, error) {
	key := nameKey{tableID: tableID, name: name}
	if entry, ok := c.byName[key]; ok {
		return entry.field, nil
	}

	field, err := c.store.GetFieldByName(ctx, tableID, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.byName[key] = cacheEntry{}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.byName[key] = cacheEntry{field: field}
	return field, nil
}

// LookupPrimary resolves the primary field of a table, returning
// (nil, nil) when the table has none.
func (c *FieldCache) LookupPrimary(ctx context.Context, tableID string) (*model.Field, error) {
	if entry, ok := c.primary[tableID]; ok {
		return entry.field, nil
	}

	field, err := c.store.GetPrimaryField(ctx, tableID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.primary[tableID] = cacheEntry{}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.primary[tableID] = cacheEntry{field: field}
	return field, nil
}
