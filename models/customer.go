package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Customer struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"type:varchar(100);not null" json:"name"`
	Address string `gorm:"type:varchar(255);not null" json:"address"`
	// NameKey is Name folded for case-insensitive lookups. Folding happens in
	// Go because SQL LOWER() only folds ASCII on some engines.
	NameKey   string    `gorm:"type:varchar(100);not null;default:'';index" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// CustomerNameKey folds a customer name for comparison.
func CustomerNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BeforeSave keeps NameKey in step with Name.
func (c *Customer) BeforeSave(tx *gorm.DB) error {
	c.NameKey = CustomerNameKey(c.Name)
	return nil
}
