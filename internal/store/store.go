package store

import (
	"context"

	"github.com/emrgen/fieldgraph/internal/model"
)

type Store interface {
	TableStore
	FieldStore
	DependencyStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type TableStore interface {
	// CreateTable creates a new table.
	CreateTable(ctx context.Context, table *model.Table) error
	// GetTable retrieves a table by ID.
	GetTable(ctx context.Context, id string) (*model.Table, error)
	// ListTables retrieves all tables.
	ListTables(ctx context.Context) ([]*model.Table, error)
}

type FieldStore interface {
	// CreateField creates a new field.
	CreateField(ctx context.Context, field *model.Field) error
	// GetField retrieves a live field by ID.
	GetField(ctx context.Context, id string) (*model.Field, error)
	// GetFieldWithTrashed retrieves a field by ID even when it is trashed.
	GetFieldWithTrashed(ctx context.Context, id string) (*model.Field, error)
	// GetFieldByName retrieves a live field by table and name.
	GetFieldByName(ctx context.Context, tableID, name string) (*model.Field, error)
	// GetPrimaryField retrieves the primary field of a table.
	GetPrimaryField(ctx context.Context, tableID string) (*model.Field, error)
	// ListFields retrieves the live fields of a table.
	ListFields(ctx context.Context, tableID string) ([]*model.Field, error)
	// ListFieldsFromIDs retrieves live fields by IDs.
	ListFieldsFromIDs(ctx context.Context, ids []string) ([]*model.Field, error)
	// UpdateField updates a field.
	UpdateField(ctx context.Context, field *model.Field) error
	// TrashField soft deletes a field.
	TrashField(ctx context.Context, id string) error
	// RestoreField clears the soft delete and returns the restored field.
	RestoreField(ctx context.Context, id string) (*model.Field, error)
	// EraseField permanently deletes a field.
	EraseField(ctx context.Context, id string) error
	// CountFields returns the total number of live fields.
	CountFields(ctx context.Context) (int64, error)
}

type DependencyStore interface {
	// CreateDependencies inserts dependency edges in bulk.
	CreateDependencies(ctx context.Context, deps []*model.FieldDependency) error
	// UpdateDependencies saves modified dependency edges in bulk.
	UpdateDependencies(ctx context.Context, deps []*model.FieldDependency) error
	// DeleteDependencies deletes dependency edges by row ID.
	DeleteDependencies(ctx context.Context, ids []uint) error
	// DeleteDependenciesOf deletes all outbound edges of a dependant.
	DeleteDependenciesOf(ctx context.Context, dependantID string) error
	// ListDependenciesOf retrieves the outbound edges of a dependant.
	ListDependenciesOf(ctx context.Context, dependantID string) ([]*model.FieldDependency, error)
	// ListDependants retrieves the edges targeting a field.
	ListDependants(ctx context.Context, fieldID string) ([]*model.FieldDependency, error)
	// ListVias retrieves the edges routed through a field.
	ListVias(ctx context.Context, fieldID string) ([]*model.FieldDependency, error)
	// ListResolvedDependenciesOf retrieves the resolved outbound edges of
	// the given dependants.
	ListResolvedDependenciesOf(ctx context.Context, dependantIDs []string) ([]*model.FieldDependency, error)
	// ListBrokenReferences retrieves the broken edges expecting a name to
	// reappear in a table.
	ListBrokenReferences(ctx context.Context, tableID, name string) ([]*model.FieldDependency, error)
	// ListAllBrokenReferences retrieves every broken edge.
	ListAllBrokenReferences(ctx context.Context) ([]*model.FieldDependency, error)
}
