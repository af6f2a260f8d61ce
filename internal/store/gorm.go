package store

import (
	"context"

	"github.com/emrgen/fieldgraph/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(NewGormStore(tx))
	})
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) CreateTable(ctx context.Context, table *model.Table) error {
	return g.db.WithContext(ctx).Create(table).Error
}

func (g *GormStore) GetTable(ctx context.Context, id string) (*model.Table, error) {
	var table model.Table
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&table).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (g *GormStore) ListTables(ctx context.Context) ([]*model.Table, error) {
	var tables []*model.Table
	err := g.db.WithContext(ctx).Order("created_at").Find(&tables).Error
	return tables, err
}

func (g *GormStore) CreateField(ctx context.Context, field *model.Field) error {
	return g.db.WithContext(ctx).Create(field).Error
}

func (g *GormStore) GetField(ctx context.Context, id string) (*model.Field, error) {
	var field model.Field
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&field).Error
	if err != nil {
		return nil, err
	}
	return &field, nil
}

func (g *GormStore) GetFieldWithTrashed(ctx context.Context, id string) (*model.Field, error) {
	var field model.Field
	err := g.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&field).Error
	if err != nil {
		return nil, err
	}
	return &field, nil
}

func (g *GormStore) GetFieldByName(ctx context.Context, tableID, name string) (*model.Field, error) {
	var field model.Field
	err := g.db.WithContext(ctx).Where("table_id = ? AND name = ?", tableID, name).First(&field).Error
	if err != nil {
		return nil, err
	}
	return &field, nil
}

func (g *GormStore) GetPrimaryField(ctx context.Context, tableID string) (*model.Field, error) {
	var field model.Field
	err := g.db.WithContext(ctx).Where("table_id = ? AND \"primary\" = ?", tableID, true).First(&field).Error
	if err != nil {
		return nil, err
	}
	return &field, nil
}

func (g *GormStore) ListFields(ctx context.Context, tableID string) ([]*model.Field, error) {
	var fields []*model.Field
	err := g.db.WithContext(ctx).Where("table_id = ?", tableID).Order("created_at").Find(&fields).Error
	return fields, err
}

func (g *GormStore) ListFieldsFromIDs(ctx context.Context, ids []string) ([]*model.Field, error) {
	var fields []*model.Field
	err := g.db.WithContext(ctx).Where("id in (?)", ids).Find(&fields).Error
	return fields, err
}

func (g *GormStore) UpdateField(ctx context.Context, field *model.Field) error {
	return g.db.WithContext(ctx).Save(field).Error
}

func (g *GormStore) TrashField(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Field{}).Error
}

func (g *GormStore) RestoreField(ctx context.Context, id string) (*model.Field, error) {
	err := g.db.WithContext(ctx).Unscoped().Model(&model.Field{}).
		Where("id = ?", id).Update("deleted_at", nil).Error
	if err != nil {
		logrus.Errorf("restoring field %s: %v", id, err)
		return nil, err
	}

	return g.GetField(ctx, id)
}

func (g *GormStore) EraseField(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&model.Field{}).Error
}

func (g *GormStore) CountFields(ctx context.Context) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Field{}).Count(&count).Error
	return count, err
}

func (g *GormStore) CreateDependencies(ctx context.Context, deps []*model.FieldDependency) error {
	if len(deps) == 0 {
		return nil
	}
	return g.db.WithContext(ctx).Create(deps).Error
}

func (g *GormStore) UpdateDependencies(ctx context.Context, deps []*model.FieldDependency) error {
	for _, dep := range deps {
		// Save skips nil pointer columns, so write the full row explicitly
		// to persist a column transitioning back to null.
		err := g.db.WithContext(ctx).Model(&model.FieldDependency{}).
			Where("id = ?", dep.ID).
			Select("dependency_id", "via_id", "broken_reference_field_name", "broken_reference_table_id").
			Updates(map[string]interface{}{
				"dependency_id":               dep.DependencyID,
				"via_id":                      dep.ViaID,
				"broken_reference_field_name": dep.BrokenReferenceFieldName,
				"broken_reference_table_id":   dep.BrokenReferenceTableID,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *GormStore) DeleteDependencies(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return g.db.WithContext(ctx).Where("id in (?)", ids).Delete(&model.FieldDependency{}).Error
}

func (g *GormStore) DeleteDependenciesOf(ctx context.Context, dependantID string) error {
	return g.db.WithContext(ctx).Where("dependant_id = ?", dependantID).Delete(&model.FieldDependency{}).Error
}

func (g *GormStore) ListDependenciesOf(ctx context.Context, dependantID string) ([]*model.FieldDependency, error) {
	var deps []*model.FieldDependency
	err := g.db.WithContext(ctx).Where("dependant_id = ?", dependantID).Order("id").Find(&deps).Error
	return deps, err
}

func (g *GormStore) ListDependants(ctx context.Context, fieldID string) ([]*model.FieldDependency, error) {
	var deps []*model.FieldDependency
	err := g.db.WithContext(ctx).Where("dependency_id = ?", fieldID).Order("id").Find(&deps).Error
	return deps, err
}

func (g *GormStore) ListVias(ctx context.Context, fieldID string) ([]*model.FieldDependency, error) {
	var deps []*model.FieldDependency
	err := g.db.WithContext(ctx).Where("via_id = ?", fieldID).Order("id").Find(&deps).Error
	return deps, err
}

func (g *GormStore) ListResolvedDependenciesOf(ctx context.Context, dependantIDs []string) ([]*model.FieldDependency, error) {
	if len(dependantIDs) == 0 {
		return nil, nil
	}
	var deps []*model.FieldDependency
	err := g.db.WithContext(ctx).
		Where("dependant_id in (?) AND dependency_id IS NOT NULL", dependantIDs).
		Find(&deps).Error
	return deps, err
}

func (g *GormStore) ListBrokenReferences(ctx context.Context, tableID, name string) ([]*model.FieldDependency, error) {
	var deps []*model.FieldDependency
	err := g.db.WithContext(ctx).
		Where("broken_reference_table_id = ? AND broken_reference_field_name = ?", tableID, name).
		Order("id").Find(&deps).Error
	return deps, err
}

func (g *GormStore) ListAllBrokenReferences(ctx context.Context) ([]*model.FieldDependency, error) {
	var deps []*model.FieldDependency
	err := g.db.WithContext(ctx).
		Where("broken_reference_field_name IS NOT NULL").
		Order("id").Find(&deps).Error
	return deps, err
}
