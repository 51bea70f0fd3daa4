package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity is the base embedded in every persisted record. IDs are opaque
// UUIDs assigned once at creation; CreatedAt is set by gorm and never updated.
type Entity struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate assigns the record ID. Promoted to every model embedding Entity.
func (e *Entity) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
