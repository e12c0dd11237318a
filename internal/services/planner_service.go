package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"healwise/internal/models/db_models"
	"healwise/internal/models/request_models"
	"healwise/internal/models/response_models"
	"healwise/internal/repositories"
	"healwise/pkg/utils"
)

type PlannerServiceInterface interface {
	ListItems(ctx context.Context, accountID string) (response_models.PlannerListResponse, error)
	SaveItem(ctx context.Context, accountID string, req request_models.CreatePlannerItemRequest) (response_models.PlannerItemResponse, error)
	RemoveItem(ctx context.Context, accountID, itemID string) error
	ClearItems(ctx context.Context, accountID string) error
}

type PlannerService struct {
	plannerRepo repositories.PlannerRepository
	now         func() int64
	logger      *zap.Logger
}

func NewPlannerService(plannerRepo repositories.PlannerRepository, logger *zap.Logger) PlannerServiceInterface {
	return &PlannerService{
		plannerRepo: plannerRepo,
		now:         utils.NowUnixMillis,
		logger:      logger.Named("planner"),
	}
}

func (s *PlannerService) ListItems(ctx context.Context, accountID string) (response_models.PlannerListResponse, error) {
	items, err := s.plannerRepo.ListByAccount(ctx, accountID)
	if err != nil {
		s.logger.Error("list planner items", zap.String("account_id", accountID), zap.Error(err))
		return response_models.PlannerListResponse{}, utils.ErrDatabaseError
	}

	resp := response_models.PlannerListResponse{Items: make([]response_models.PlannerItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, response_models.NewPlannerItemResponse(item))
	}
	return resp, nil
}

func (s *PlannerService) SaveItem(ctx context.Context, accountID string, req request_models.CreatePlannerItemRequest) (response_models.PlannerItemResponse, error) {
	if !json.Valid(req.Result) {
		return response_models.PlannerItemResponse{}, utils.ErrInvalidPayload
	}

	item := &db_models.PlannerItem{
		AccountID:  accountID,
		ModuleType: req.ModuleType,
		Result:     datatypes.JSON(req.Result),
		SavedAt:    s.now(),
	}
	if req.Note != nil {
		if note := strings.TrimSpace(*req.Note); note != "" {
			item.Note = &note
		}
	}

	if err := s.plannerRepo.Insert(ctx, item); err != nil {
		s.logger.Error("save planner item", zap.String("account_id", accountID), zap.Error(err))
		return response_models.PlannerItemResponse{}, utils.ErrDatabaseError
	}
	return response_models.NewPlannerItemResponse(*item), nil
}

func (s *PlannerService) RemoveItem(ctx context.Context, accountID, itemID string) error {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return utils.ErrRecordNotFound
	}

	found, err := s.plannerRepo.Delete(ctx, accountID, id)
	if err != nil {
		s.logger.Error("delete planner item", zap.String("account_id", accountID), zap.Error(err))
		return utils.ErrDatabaseError
	}
	if !found {
		return utils.ErrRecordNotFound
	}
	return nil
}

func (s *PlannerService) ClearItems(ctx context.Context, accountID string) error {
	n, err := s.plannerRepo.DeleteAllByAccount(ctx, accountID)
	if err != nil {
		s.logger.Error("clear planner", zap.String("account_id", accountID), zap.Error(err))
		return utils.ErrDatabaseError
	}
	s.logger.Info("planner cleared", zap.String("account_id", accountID), zap.Int64("removed", n))
	return nil
}
