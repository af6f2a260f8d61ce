package model

import "time"

// FieldDependency is a directed edge in the field dependency graph. The
// dependant's computed value needs the dependency to be valid.
//
// An edge is either resolved (DependencyID set) or broken (the broken
// reference columns set). A broken edge remembers the name it used to
// target and the table that name is expected to reappear in, so a later
// create or rename can relink it purely by name.
//
// Via, when set, is the link row field the dependency is reached through.
// It lives in the dependant's table.
type FieldDependency struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	DependantID  string  `gorm:"uuid;not null;index:idx_field_dependencies_dependant_id"`
	DependencyID *string `gorm:"uuid;index:idx_field_dependencies_dependency_id"`
	ViaID        *string `gorm:"uuid;index:idx_field_dependencies_via_id"`

	BrokenReferenceFieldName *string
	BrokenReferenceTableID   *string `gorm:"uuid;index"`
}

func (d *FieldDependency) TableName() string {
	return "field_dependencies"
}

// Broken reports whether the edge currently has no resolved target.
func (d *FieldDependency) Broken() bool {
	return d.DependencyID == nil
}

// DependencyKey is the semantic identity of an edge. Two edges with the
// same key are the same dependency regardless of row id, which is what
// rebuild diffing and duplicate detection compare on.
type DependencyKey struct {
	Dependant   string
	Dependency  string
	Via         string
	BrokenName  string
	BrokenTable string
}

// Key derives the canonical identity of the edge.
func (d *FieldDependency) Key() DependencyKey {
	return DependencyKey{
		Dependant:   d.DependantID,
		Dependency:  strOrEmpty(d.DependencyID),
		Via:         strOrEmpty(d.ViaID),
		BrokenName:  strOrEmpty(d.BrokenReferenceFieldName),
		BrokenTable: strOrEmpty(d.BrokenReferenceTableID),
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
