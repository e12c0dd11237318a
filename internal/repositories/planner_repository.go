package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"healwise/internal/models/db_models"
)

type PlannerRepository interface {
	ListByAccount(ctx context.Context, accountID string) ([]db_models.PlannerItem, error)
	Insert(ctx context.Context, item *db_models.PlannerItem) error
	Delete(ctx context.Context, accountID string, id uuid.UUID) (bool, error)
	DeleteAllByAccount(ctx context.Context, accountID string) (int64, error)
}

type plannerRepository struct {
	db *gorm.DB
}

func NewPlannerRepository(db *gorm.DB) PlannerRepository {
	return &plannerRepository{db: db}
}

// ListByAccount returns the newest saves first.
func (p *plannerRepository) ListByAccount(ctx context.Context, accountID string) ([]db_models.PlannerItem, error) {
	var items []db_models.PlannerItem
	err := p.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("saved_at DESC").
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (p *plannerRepository) Insert(ctx context.Context, item *db_models.PlannerItem) error {
	return p.db.WithContext(ctx).Create(item).Error
}

func (p *plannerRepository) Delete(ctx context.Context, accountID string, id uuid.UUID) (bool, error) {
	res := p.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		Delete(&db_models.PlannerItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (p *plannerRepository) DeleteAllByAccount(ctx context.Context, accountID string) (int64, error) {
	res := p.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Delete(&db_models.PlannerItem{})
	return res.RowsAffected, res.Error
}
