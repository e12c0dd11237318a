package response_models

import (
	"encoding/json"
	"time"

	"healwise/internal/models/db_models"
)

type PlannerItemResponse struct {
	ID         string               `json:"id"`
	ModuleType db_models.ModuleType `json:"moduleType"`
	Result     json.RawMessage      `json:"result"`
	Note       *string              `json:"note,omitempty"`
	SavedAt    string               `json:"savedAt"`
}

type PlannerListResponse struct {
	Items []PlannerItemResponse `json:"items"`
}

func NewPlannerItemResponse(item db_models.PlannerItem) PlannerItemResponse {
	return PlannerItemResponse{
		ID:         item.ID.String(),
		ModuleType: item.ModuleType,
		Result:     json.RawMessage(item.Result),
		Note:       item.Note,
		SavedAt:    time.UnixMilli(item.SavedAt).UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}
