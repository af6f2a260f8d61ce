package service

import (
	"context"
	"encoding/json"

	"github.com/emrgen/fieldgraph/internal/dependency"
	"github.com/emrgen/fieldgraph/internal/fieldtype"
	"github.com/emrgen/fieldgraph/internal/model"
	"github.com/emrgen/fieldgraph/internal/store"
	"github.com/google/uuid"
)

// tableSchema is the serialized form of a table. Lookup and formula
// references are kept by name, never by id, so a round trip through
// export and import can relink them even when the fields they point at
// are created in a different order or do not exist yet.
type tableSchema struct {
	Name   string        `json:"name"`
	Fields []fieldSchema `json:"fields"`
}

type fieldSchema struct {
	Name             string                 `json:"name"`
	Type             string                 `json:"type"`
	Primary          bool                   `json:"primary,omitempty"`
	LinkRowTableID   string                 `json:"link_row_table_id,omitempty"`
	ThroughFieldName string                 `json:"through_field_name,omitempty"`
	TargetFieldName  string                 `json:"target_field_name,omitempty"`
	Formula          string                 `json:"formula,omitempty"`
	References       []fieldtype.Dependency `json:"references,omitempty"`
}

// ExportTable serializes a table and its live fields.
func (s *FieldService) ExportTable(ctx context.Context, tableID string) ([]byte, error) {
	table, err := s.store.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	fields, err := s.store.ListFields(ctx, tableID)
	if err != nil {
		return nil, err
	}

	schema := tableSchema{Name: table.Name}
	for _, field := range fields {
		fs := fieldSchema{
			Name:             field.Name,
			Type:             field.Type,
			Primary:          field.Primary,
			ThroughFieldName: field.ThroughFieldName,
			TargetFieldName:  field.TargetFieldName,
			Formula:          field.Formula,
		}
		if field.LinkRowTableID != nil {
			fs.LinkRowTableID = *field.LinkRowTableID
		}
		if field.References != "" {
			if err := json.Unmarshal([]byte(field.References), &fs.References); err != nil {
				return nil, err
			}
		}
		schema.Fields = append(schema.Fields, fs)
	}

	return json.MarshalIndent(schema, "", "  ")
}

// ImportTable creates a table from an exported schema. Fields are created
// one by one; references to fields that do not exist yet start out as
// broken edges and get repaired as their targets are created, so the field
// order in the schema does not matter. A final rebuild pass settles edges
// whose construction needed the full table, such as lookup edges through a
// link row field created after the lookup.
func (s *FieldService) ImportTable(ctx context.Context, data []byte) (*model.Table, error) {
	var schema tableSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, err
	}

	table := &model.Table{
		ID:   uuid.New().String(),
		Name: schema.Name,
	}

	var invalidated []string
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.CreateTable(ctx, table); err != nil {
			return err
		}

		created := make([]*model.Field, 0, len(schema.Fields))
		for _, fs := range schema.Fields {
			field := &model.Field{
				ID:               uuid.New().String(),
				TableID:          table.ID,
				Name:             fs.Name,
				Type:             fs.Type,
				Primary:          fs.Primary,
				ThroughFieldName: fs.ThroughFieldName,
				TargetFieldName:  fs.TargetFieldName,
				Formula:          fs.Formula,
			}
			if fs.LinkRowTableID != "" {
				linkTableID := fs.LinkRowTableID
				field.LinkRowTableID = &linkTableID
			}
			if len(fs.References) > 0 {
				refs, err := json.Marshal(fs.References)
				if err != nil {
					return err
				}
				field.References = string(refs)
			}

			changed, err := createFieldTx(ctx, tx, s.registry, field)
			if err != nil {
				return err
			}
			invalidated = append(invalidated, changed...)
			created = append(created, field)
		}

		handler := dependency.NewHandler(tx, s.registry)
		cache := dependency.NewFieldCache(tx)
		for _, field := range created {
			changed, err := handler.RebuildDependencies(ctx, field, cache)
			if err != nil {
				return err
			}
			if changed {
				invalidated = append(invalidated, field.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, invalidated, "table_imported")
	return table, nil
}
