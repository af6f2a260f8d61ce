package dependency

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/fieldgraph/internal/model"
	"github.com/sirupsen/logrus"
)

// BreakDependencies severs the graph around a deleted or trashed field.
// Its own outbound edges are deleted outright; every edge targeting it
// becomes broken, keeping the field's name and table so it can be relinked
// later; for link row fields, every edge routed through it collapses to a
// broken edge as well, since the via path no longer exists. Returns the
// dependants whose edges changed.
func (h *Handler) BreakDependencies(ctx context.Context, field *model.Field) ([]string, error) {
	if err := h.store.DeleteDependenciesOf(ctx, field.ID); err != nil {
		return nil, err
	}

	affected := mapset.NewSet[string]()
	var changed []*model.FieldDependency

	inbound, err := h.store.ListDependants(ctx, field.ID)
	if err != nil {
		return nil, err
	}
	for _, edge := range inbound {
		edge.DependencyID = nil
		edge.BrokenReferenceFieldName = ptr(field.Name)
		edge.BrokenReferenceTableID = ptr(field.TableID)
		changed = append(changed, edge)
		affected.Add(edge.DependantID)
	}

	if field.IsLinkRow() {
		vias, err := h.store.ListVias(ctx, field.ID)
		if err != nil {
			return nil, err
		}
		for _, edge := range vias {
			edge.ViaID = nil
			edge.DependencyID = nil
			edge.BrokenReferenceFieldName = ptr(field.Name)
			edge.BrokenReferenceTableID = ptr(field.TableID)
			changed = append(changed, edge)
			affected.Add(edge.DependantID)
		}
	}

	if err := h.store.UpdateDependencies(ctx, changed); err != nil {
		return nil, err
	}

	return affected.ToSlice(), nil
}

// RepairDependencies relinks broken edges whose recorded name and table
// match the given field, typically right after it was created, renamed or
// restored. An edge whose repair would close a cycle is silently left
// broken, as is one whose repaired identity would duplicate an existing
// edge of the same dependant. Returns the dependants that got an edge
// repaired; a non-empty result means their values need recomputing.
func (h *Handler) RepairDependencies(ctx context.Context, field *model.Field) ([]string, error) {
	broken, err := h.store.ListBrokenReferences(ctx, field.TableID, field.Name)
	if err != nil {
		return nil, err
	}
	if len(broken) == 0 {
		return nil, nil
	}

	dependantIDs := mapset.NewSet[string]()
	for _, edge := range broken {
		dependantIDs.Add(edge.DependantID)
	}
	resolved, err := h.store.ListResolvedDependenciesOf(ctx, dependantIDs.ToSlice())
	if err != nil {
		return nil, err
	}
	taken := mapset.NewSet[model.DependencyKey]()
	for _, edge := range resolved {
		taken.Add(edge.Key())
	}

	affected := mapset.NewSet[string]()
	var repaired []*model.FieldDependency
	for _, edge := range broken {
		circular, err := h.willCauseCircularDep(ctx, edge.DependantID, field.ID)
		if err != nil {
			return nil, err
		}
		if circular {
			logrus.Infof("leaving dependency %d of field %s broken, repairing it would create a cycle", edge.ID, edge.DependantID)
			continue
		}

		edge.DependencyID = ptr(field.ID)
		edge.BrokenReferenceFieldName = nil
		edge.BrokenReferenceTableID = nil
		if !taken.Add(edge.Key()) {
			// Another edge of this dependant already has this identity;
			// the next rebuild of the dependant cleans this one up.
			edge.DependencyID = nil
			edge.BrokenReferenceFieldName = ptr(field.Name)
			edge.BrokenReferenceTableID = ptr(field.TableID)
			continue
		}

		repaired = append(repaired, edge)
		affected.Add(edge.DependantID)
	}

	if err := h.store.UpdateDependencies(ctx, repaired); err != nil {
		return nil, err
	}

	return affected.ToSlice(), nil
}

func ptr(s string) *string {
	return &s
}
