package request_models

import (
	"encoding/json"

	"healwise/internal/models/db_models"
)

type CreatePlannerItemRequest struct {
	ModuleType db_models.ModuleType `json:"moduleType" binding:"required,moduletype"`
	Result     json.RawMessage      `json:"result" binding:"required"`
	Note       *string              `json:"note" binding:"omitempty,max=500"`
}
