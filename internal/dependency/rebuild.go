package dependency

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/fieldgraph/internal/fieldtype"
	"github.com/emrgen/fieldgraph/internal/model"
)

// RebuildDependencies recomputes and persists the outbound edge set of one
// field, leaving every other field's edges untouched. Edges that are
// semantically unchanged keep their rows, so edge ids stay stable across
// rebuilds. Returns whether anything was created or deleted.
//
// The desired set is computed and validated in full before any write: a
// self reference or a would-be cycle aborts with no mutation.
func (h *Handler) RebuildDependencies(ctx context.Context, field *model.Field, cache *FieldCache) (bool, error) {
	desired, err := h.constructDependencies(ctx, field, cache)
	if err != nil {
		return false, err
	}

	current, err := h.store.ListDependenciesOf(ctx, field.ID)
	if err != nil {
		return false, err
	}

	// Diff on semantic identity. Desired edges found in the current set
	// keep their rows; whatever remains of the current set afterwards is
	// stale and gets deleted.
	currentByKey := make(map[model.DependencyKey]*model.FieldDependency, len(current))
	for _, edge := range current {
		currentByKey[edge.Key()] = edge
	}

	var toCreate []*model.FieldDependency
	seen := mapset.NewSet[model.DependencyKey]()
	for _, edge := range desired {
		key := edge.Key()
		if !seen.Add(key) {
			continue
		}
		if _, ok := currentByKey[key]; ok {
			delete(currentByKey, key)
			continue
		}
		toCreate = append(toCreate, edge)
	}

	for _, edge := range toCreate {
		if edge.DependencyID == nil {
			// Broken edges carry no resolved target and cannot close a
			// cycle.
			continue
		}
		circular, err := h.willCauseCircularDep(ctx, field.ID, *edge.DependencyID)
		if err != nil {
			return false, err
		}
		if circular {
			return false, fmt.Errorf("field %q: %w", field.Name, ErrCircularDependency)
		}
	}

	if err := h.store.CreateDependencies(ctx, toCreate); err != nil {
		return false, err
	}

	var staleIDs []uint
	for _, edge := range currentByKey {
		staleIDs = append(staleIDs, edge.ID)
	}
	if err := h.store.DeleteDependencies(ctx, staleIDs); err != nil {
		return false, err
	}

	return len(toCreate) > 0 || len(staleIDs) > 0, nil
}

// CheckForCircular validates the field's descriptors against the current
// graph without mutating it. It reports the self reference or cycle a
// rebuild would hit, for callers that want to validate before touching the
// field itself.
func (h *Handler) CheckForCircular(ctx context.Context, field *model.Field, cache *FieldCache) error {
	refs, err := h.fieldDependencies(ctx, field, cache)
	if err != nil {
		return err
	}

	for _, ref := range refs {
		target, err := h.dependencyTarget(ctx, field, ref, cache)
		if err != nil {
			return err
		}
		if target == nil {
			continue
		}
		if target.ID == field.ID {
			return fmt.Errorf("field %q: %w", field.Name, ErrSelfReference)
		}
		circular, err := h.willCauseCircularDep(ctx, field.ID, target.ID)
		if err != nil {
			return err
		}
		if circular {
			return fmt.Errorf("field %q: %w", field.Name, ErrCircularDependency)
		}
	}
	return nil
}

func (h *Handler) fieldDependencies(ctx context.Context, field *model.Field, cache *FieldCache) ([]fieldtype.Dependency, error) {
	ft, err := h.registry.Get(field.Type)
	if err != nil {
		return nil, err
	}
	return ft.GetFieldDependencies(ctx, field, cache)
}

func (h *Handler) constructDependencies(ctx context.Context, field *model.Field, cache *FieldCache) ([]*model.FieldDependency, error) {
	refs, err := h.fieldDependencies(ctx, field, cache)
	if err != nil {
		return nil, err
	}

	var desired []*model.FieldDependency
	for _, ref := range refs {
		edges, err := h.constructDependency(ctx, field, ref, cache)
		if err != nil {
			return nil, err
		}
		desired = append(desired, edges...)
	}
	return desired, nil
}

// dependencyTarget resolves a descriptor to the field it would end up
// depending on, or nil when any part of the path is missing.
func (h *Handler) dependencyTarget(ctx context.Context, field *model.Field, ref fieldtype.Dependency, cache *FieldCache) (*model.Field, error) {
	if ref.ThroughFieldName == "" {
		return cache.LookupByName(ctx, field.TableID, ref.FieldName)
	}

	via, err := cache.LookupByName(ctx, field.TableID, ref.ThroughFieldName)
	if err != nil || via == nil {
		return nil, err
	}
	if !via.IsLinkRow() || via.LinkRowTableID == nil {
		return via, nil
	}
	return cache.LookupByName(ctx, *via.LinkRowTableID, ref.FieldName)
}
