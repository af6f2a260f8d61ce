package dependency

import (
	"context"
	"fmt"

	"github.com/emrgen/fieldgraph/internal/fieldtype"
	"github.com/emrgen/fieldgraph/internal/model"
)

// constructDependency translates one descriptor into the edge rows it
// implies, not yet persisted. A name that cannot be resolved produces a
// broken edge carrying the name and the table it is expected to reappear
// in, never an error; the only failure is a field naming itself.
func (h *Handler) constructDependency(ctx context.Context, field *model.Field, ref fieldtype.Dependency, cache *FieldCache) ([]*model.FieldDependency, error) {
	if ref.ThroughFieldName == "" {
		if ref.FieldName == field.Name {
			return nil, fmt.Errorf("field %q: %w", field.Name, ErrSelfReference)
		}

		target, err := cache.LookupByName(ctx, field.TableID, ref.FieldName)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return []*model.FieldDependency{
				brokenEdge(field, ref.FieldName, field.TableID, nil),
			}, nil
		}
		return []*model.FieldDependency{
			resolvedEdge(field, target.ID, nil),
		}, nil
	}

	via, err := cache.LookupByName(ctx, field.TableID, ref.ThroughFieldName)
	if err != nil {
		return nil, err
	}
	if via == nil {
		// The via field is unknown, so the target table cannot be known
		// either. Break at the via level and wait for its name to appear.
		return []*model.FieldDependency{
			brokenEdge(field, ref.ThroughFieldName, field.TableID, nil),
		}, nil
	}

	if !via.IsLinkRow() || via.LinkRowTableID == nil {
		// Depending through a non-relational field degrades to a direct
		// dependency on it, so its renames and deletes are still observed.
		return []*model.FieldDependency{
			resolvedEdge(field, via.ID, nil),
		}, nil
	}

	target, err := cache.LookupByName(ctx, *via.LinkRowTableID, ref.FieldName)
	if err != nil {
		return nil, err
	}
	if target == nil {
		// The via is known, only the far side target is missing.
		return []*model.FieldDependency{
			brokenEdge(field, ref.FieldName, *via.LinkRowTableID, &via.ID),
		}, nil
	}

	if via.ID == field.ID {
		// A link row field reaching through itself depends on the far
		// target directly; its own removal deletes the edge outright.
		return []*model.FieldDependency{
			resolvedEdge(field, target.ID, nil),
		}, nil
	}

	return []*model.FieldDependency{
		// Depend on the via directly as well, so its rename or delete
		// notifies the dependant.
		resolvedEdge(field, via.ID, nil),
		resolvedEdge(field, target.ID, &via.ID),
	}, nil
}

func resolvedEdge(dependant *model.Field, dependencyID string, viaID *string) *model.FieldDependency {
	return &model.FieldDependency{
		DependantID:  dependant.ID,
		DependencyID: &dependencyID,
		ViaID:        viaID,
	}
}

func brokenEdge(dependant *model.Field, name, tableID string, viaID *string) *model.FieldDependency {
	return &model.FieldDependency{
		DependantID:              dependant.ID,
		ViaID:                    viaID,
		BrokenReferenceFieldName: &name,
		BrokenReferenceTableID:   &tableID,
	}
}
