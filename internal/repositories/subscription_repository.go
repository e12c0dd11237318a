package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"healwise/internal/models/db_models"
)

type SubscriptionRepository interface {
	// Record stores a subscription once per provider session; redelivered webhooks are no-ops.
	Record(ctx context.Context, sub *db_models.Subscription) error
	CancelByCustomer(ctx context.Context, customerID string, at int64) (int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (s *subscriptionRepository) Record(ctx context.Context, sub *db_models.Subscription) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "provider_session_id"}}, DoNothing: true}).
		Create(sub).Error
}

func (s *subscriptionRepository) CancelByCustomer(ctx context.Context, customerID string, at int64) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("provider_customer_id = ? AND status = ?", customerID, db_models.SubStatusActive).
		Updates(map[string]interface{}{"status": db_models.SubStatusCanceled, "canceled_at": at})
	return res.RowsAffected, res.Error
}
