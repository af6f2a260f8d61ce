package dependency

import (
	"context"

	"github.com/emrgen/fieldgraph/internal/fieldtype"
	"github.com/emrgen/fieldgraph/internal/model"
	"github.com/emrgen/fieldgraph/internal/store"
)

// Handler maintains the persisted field dependency graph. It is cheap to
// construct; build one per transaction so every read and write goes
// through the same store.
type Handler struct {
	store    store.Store
	registry *fieldtype.Registry
}

func NewHandler(s store.Store, registry *fieldtype.Registry) *Handler {
	return &Handler{
		store:    s,
		registry: registry,
	}
}

// SameTableDependencies returns the resolved fields the given field
// directly depends on within its own table.
func (h *Handler) SameTableDependencies(ctx context.Context, field *model.Field) ([]*model.Field, error) {
	edges, err := h.store.ListDependenciesOf(ctx, field.ID)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, edge := range edges {
		if edge.DependencyID != nil {
			ids = append(ids, *edge.DependencyID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	fields, err := h.store.ListFieldsFromIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var sameTable []*model.Field
	for _, f := range fields {
		if f.TableID == field.TableID {
			sameTable = append(sameTable, f)
		}
	}
	return sameTable, nil
}
