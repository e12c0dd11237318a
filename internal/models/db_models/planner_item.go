package db_models

import (
	"gorm.io/datatypes"
)

// PlannerItem stores a generation result together with the module that produced it,
// since the result JSON itself carries no discriminant.
type PlannerItem struct {
	BaseModel
	AccountID  string         `gorm:"size:128;not null;index"`
	ModuleType ModuleType     `gorm:"size:16;not null"`
	Result     datatypes.JSON `gorm:"not null"`
	Note       *string        `gorm:"size:500"`
	SavedAt    int64          `gorm:"not null;index"` // unix millis
}
