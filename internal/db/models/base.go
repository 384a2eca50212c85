// Package models contains database model definitions.
package models

import (
	"time"
)

// Timestamps adds creation and update times managed by gorm.
type Timestamps struct {
	// CreatedAt is set on insert.
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	// UpdatedAt is refreshed on every update.
	UpdatedAt time.Time `json:"updated_at"`
}

// Base is embedded by every model: an auto-increment primary key plus timestamps.
type Base struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamps
}

// GetID returns the primary key.
func (b Base) GetID() uint64 {
	return b.ID
}
