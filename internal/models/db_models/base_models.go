package db_models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel is embedded by rows keyed on a generated UUID. Timestamps are unix seconds
// and rows are hard-deleted: planner removals and subscription cancellations never need recovery.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt int64     `gorm:"autoCreateTime"`
	UpdatedAt int64     `gorm:"autoUpdateTime"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
