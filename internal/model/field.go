package model

import (
	"time"

	"gorm.io/gorm"
)

// Field type tags. The set is closed: every field row carries exactly one
// of these and the fieldtype registry resolves the tag to its behaviour.
const (
	FieldTypeText    = "text"
	FieldTypeNumber  = "number"
	FieldTypeFormula = "formula"
	FieldTypeLinkRow = "link_row"
	FieldTypeLookup  = "lookup"
)

// Field is a column of a table. Type specific settings live in the
// nullable columns below; which ones are meaningful is decided by Type.
//
// The soft delete column doubles as the trashed flag: trashed fields are
// invisible to name lookups but keep their rows so they can be restored.
type Field struct {
	ID        string `gorm:"primaryKey;uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
	TableID   string         `gorm:"uuid;not null;index:idx_fields_table_id"`
	Name      string         `gorm:"not null;index"`
	Type      string         `gorm:"not null"`
	Primary   bool           `gorm:"not null;default:false"`

	// link_row: the table the relationship points at.
	LinkRowTableID *string `gorm:"uuid"`

	// lookup: the link row field to reach through and the field to read in
	// the linked table, both by name so they survive the target being
	// deleted and recreated.
	ThroughFieldName string
	TargetFieldName  string

	// formula: the raw formula and the field references extracted from it
	// by the formula parser, stored as a JSON list of reference specs.
	Formula    string
	References string
}

func (f *Field) TableName() string {
	return "fields"
}

// Trashed reports whether the field is soft deleted.
func (f *Field) Trashed() bool {
	return f.DeletedAt.Valid
}

func (f *Field) IsLinkRow() bool {
	return f.Type == FieldTypeLinkRow
}
