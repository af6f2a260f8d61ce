package service

import (
	"context"
	"errors"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/fieldgraph/internal/dependency"
	"github.com/emrgen/fieldgraph/internal/fieldtype"
	"github.com/emrgen/fieldgraph/internal/model"
	"github.com/emrgen/fieldgraph/internal/queue"
	"github.com/emrgen/fieldgraph/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NewFieldService creates a new FieldService.
func NewFieldService(s store.Store, registry *fieldtype.Registry, q queue.InvalidationQueue) *FieldService {
	return &FieldService{
		store:    s,
		registry: registry,
		queue:    q,
	}
}

// FieldService runs the field lifecycle and keeps the dependency graph
// consistent through it. Every mutating operation runs in one transaction
// and afterwards publishes the fields whose dependency sets changed.
type FieldService struct {
	store    store.Store
	registry *fieldtype.Registry
	queue    queue.InvalidationQueue
}

// CreateTable creates a new empty table.
func (s *FieldService) CreateTable(ctx context.Context, name string) (*model.Table, error) {
	table := &model.Table{
		ID:   uuid.New().String(),
		Name: name,
	}
	if err := s.store.CreateTable(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

// CreateField creates a field, relinks any broken references waiting for
// its name and builds its own dependencies.
func (s *FieldService) CreateField(ctx context.Context, field *model.Field) (*model.Field, error) {
	if field.ID == "" {
		field.ID = uuid.New().String()
	}
	if field.IsLinkRow() && field.LinkRowTableID == nil {
		return nil, ErrLinkRowTableMissing
	}

	var invalidated []string
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		invalidated, err = createFieldTx(ctx, tx, s.registry, field)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, invalidated, "field_created")
	return field, nil
}

// createFieldTx is the transactional body of CreateField, shared with the
// schema importer.
func createFieldTx(ctx context.Context, tx store.Store, registry *fieldtype.Registry, field *model.Field) ([]string, error) {
	if err := checkNameFree(ctx, tx, field.TableID, field.Name); err != nil {
		return nil, err
	}
	if err := tx.CreateField(ctx, field); err != nil {
		return nil, err
	}

	handler := dependency.NewHandler(tx, registry)
	repaired, err := handler.RepairDependencies(ctx, field)
	if err != nil {
		return nil, err
	}

	changed, err := handler.RebuildDependencies(ctx, field, dependency.NewFieldCache(tx))
	if err != nil {
		return nil, err
	}

	if changed {
		repaired = append(repaired, field.ID)
	}
	return repaired, nil
}

// RenameField renames a field and relinks any broken references waiting
// for the new name.
func (s *FieldService) RenameField(ctx context.Context, id, name string) (*model.Field, error) {
	var field *model.Field
	var invalidated []string
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		field, err = tx.GetField(ctx, id)
		if err != nil {
			return err
		}
		if field.Name == name {
			return nil
		}
		if err := checkNameFree(ctx, tx, field.TableID, name); err != nil {
			return err
		}

		field.Name = name
		if err := tx.UpdateField(ctx, field); err != nil {
			return err
		}

		handler := dependency.NewHandler(tx, s.registry)
		repaired, err := handler.RepairDependencies(ctx, field)
		if err != nil {
			return err
		}

		changed, err := handler.RebuildDependencies(ctx, field, dependency.NewFieldCache(tx))
		if err != nil {
			return err
		}

		invalidated = repaired
		if changed {
			invalidated = append(invalidated, field.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, invalidated, "field_renamed")
	return field, nil
}

// UpdateField applies a mutation to a field's type specific settings and
// rebuilds its dependencies. The mutator runs inside the transaction on
// the freshly loaded field. When the mutation changes the field's type or
// linked table, the edge sets of every field depending on it or routing
// through it are rebuilt as well: a via edge through a field that is no
// longer a link row is invalid, and a dependency through a field that
// just became one resolves differently.
func (s *FieldService) UpdateField(ctx context.Context, id string, mutate func(field *model.Field) error) (*model.Field, error) {
	var field *model.Field
	var invalidated []string
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		field, err = tx.GetField(ctx, id)
		if err != nil {
			return err
		}
		prevType := field.Type
		prevLinkTable := field.LinkRowTableID
		if err := mutate(field); err != nil {
			return err
		}
		if field.IsLinkRow() && field.LinkRowTableID == nil {
			return ErrLinkRowTableMissing
		}
		if err := tx.UpdateField(ctx, field); err != nil {
			return err
		}

		handler := dependency.NewHandler(tx, s.registry)
		cache := dependency.NewFieldCache(tx)
		changed, err := handler.RebuildDependencies(ctx, field, cache)
		if err != nil {
			return err
		}
		if changed {
			invalidated = append(invalidated, field.ID)
		}

		if prevType == field.Type && strPtrEqual(prevLinkTable, field.LinkRowTableID) {
			return nil
		}
		dependants, err := dependantFields(ctx, tx, field.ID)
		if err != nil {
			return err
		}
		for _, dep := range dependants {
			changed, err := handler.RebuildDependencies(ctx, dep, cache)
			if err != nil {
				return err
			}
			if changed {
				invalidated = append(invalidated, dep.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, invalidated, "field_updated")
	return field, nil
}

// TrashField soft deletes a field and breaks every edge pointing at it.
func (s *FieldService) TrashField(ctx context.Context, id string) error {
	var invalidated []string
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		field, err := tx.GetField(ctx, id)
		if err != nil {
			return err
		}
		if field.Primary {
			return ErrCannotTrashPrimary
		}
		if err := tx.TrashField(ctx, id); err != nil {
			return err
		}

		handler := dependency.NewHandler(tx, s.registry)
		invalidated, err = handler.BreakDependencies(ctx, field)
		return err
	})
	if err != nil {
		return err
	}

	s.publish(ctx, invalidated, "field_trashed")
	return nil
}

// RestoreField brings a trashed field back, repairing broken references to
// its name and rebuilding its own dependencies.
func (s *FieldService) RestoreField(ctx context.Context, id string) (*model.Field, error) {
	var field *model.Field
	var invalidated []string
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		trashed, err := tx.GetFieldWithTrashed(ctx, id)
		if err != nil {
			return err
		}
		if !trashed.Trashed() {
			return ErrFieldNotTrashed
		}
		if err := checkNameFree(ctx, tx, trashed.TableID, trashed.Name); err != nil {
			return err
		}

		field, err = tx.RestoreField(ctx, id)
		if err != nil {
			return err
		}

		handler := dependency.NewHandler(tx, s.registry)
		repaired, err := handler.RepairDependencies(ctx, field)
		if err != nil {
			return err
		}

		changed, err := handler.RebuildDependencies(ctx, field, dependency.NewFieldCache(tx))
		if err != nil {
			return err
		}

		invalidated = repaired
		if changed {
			invalidated = append(invalidated, field.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, invalidated, "field_restored")
	return field, nil
}

// EraseField permanently deletes a field. A live field is broken out of
// the graph first; a trashed one already was when it was trashed.
func (s *FieldService) EraseField(ctx context.Context, id string) error {
	var invalidated []string
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		field, err := tx.GetFieldWithTrashed(ctx, id)
		if err != nil {
			return err
		}
		if !field.Trashed() {
			handler := dependency.NewHandler(tx, s.registry)
			invalidated, err = handler.BreakDependencies(ctx, field)
			if err != nil {
				return err
			}
		}
		return tx.EraseField(ctx, id)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, invalidated, "field_erased")
	return nil
}

// GetField retrieves a live field.
func (s *FieldService) GetField(ctx context.Context, id string) (*model.Field, error) {
	return s.store.GetField(ctx, id)
}

// ListFields retrieves the live fields of a table.
func (s *FieldService) ListFields(ctx context.Context, tableID string) ([]*model.Field, error) {
	return s.store.ListFields(ctx, tableID)
}

// ListDependencies retrieves the outbound dependency edges of a field.
func (s *FieldService) ListDependencies(ctx context.Context, fieldID string) ([]*model.FieldDependency, error) {
	return s.store.ListDependenciesOf(ctx, fieldID)
}

// ListDependants retrieves the edges of fields depending on the given one.
func (s *FieldService) ListDependants(ctx context.Context, fieldID string) ([]*model.FieldDependency, error) {
	return s.store.ListDependants(ctx, fieldID)
}

func (s *FieldService) publish(ctx context.Context, fieldIDs []string, reason string) {
	if s.queue == nil || len(fieldIDs) == 0 {
		return
	}
	err := s.queue.Publish(ctx, &queue.Invalidation{FieldIDs: fieldIDs, Reason: reason})
	if err != nil {
		// The graph mutation is already committed; losing the signal is
		// logged, not rolled back.
		logrus.Errorf("publishing invalidation for %v: %v", fieldIDs, err)
	}
}

// dependantFields loads every field with an edge targeting or routed
// through the given field, each once.
func dependantFields(ctx context.Context, tx store.Store, fieldID string) ([]*model.Field, error) {
	inbound, err := tx.ListDependants(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	vias, err := tx.ListVias(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	ids := mapset.NewSet[string]()
	for _, edge := range inbound {
		ids.Add(edge.DependantID)
	}
	for _, edge := range vias {
		ids.Add(edge.DependantID)
	}
	if ids.Cardinality() == 0 {
		return nil, nil
	}
	return tx.ListFieldsFromIDs(ctx, ids.ToSlice())
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func checkNameFree(ctx context.Context, tx store.Store, tableID, name string) error {
	_, err := tx.GetFieldByName(ctx, tableID, name)
	if err == nil {
		return ErrFieldNameInUse
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}
