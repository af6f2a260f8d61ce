package model

import (
	"time"

	"gorm.io/gorm"
)

// Table is a named container of fields. Link row fields point at another
// table, which is what makes cross-table dependencies possible.
type Table struct {
	ID        string `gorm:"primaryKey;uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
	Name      string         `gorm:"not null"`
}

func (t *Table) TableName() string {
	return "tables"
}
