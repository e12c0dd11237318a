package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"healwise/internal/models/db_models"
)

// UsageRepository is the relational quota store. Increments and rollovers are single
// conditional UPDATEs so concurrent writers never lose a commit.
type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

func (r *UsageRepository) Read(ctx context.Context, accountID string, bucket db_models.UsageBucket, periodKey string) (db_models.UsageCounter, error) {
	rec, err := r.current(ctx, accountID, bucket, periodKey)
	if err != nil {
		return db_models.UsageCounter{}, err
	}
	return rec.Counter(), nil
}

func (r *UsageRepository) Commit(ctx context.Context, accountID string, bucket db_models.UsageBucket, periodKey string, amount int) (db_models.UsageCounter, error) {
	for attempt := 0; attempt < 2; attempt++ {
		rec, err := r.current(ctx, accountID, bucket, periodKey)
		if err != nil {
			return db_models.UsageCounter{}, err
		}

		res := r.db.WithContext(ctx).
			Model(&db_models.UsageRecord{}).
			Where("id = ? AND period_key = ?", rec.ID, periodKey).
			Update("used", gorm.Expr("used + ?", amount))
		if res.Error != nil {
			return db_models.UsageCounter{}, fmt.Errorf("increment usage: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// period moved underneath us; reload and try once more
			continue
		}

		updated, err := r.find(ctx, accountID, bucket)
		if err != nil {
			return db_models.UsageCounter{}, err
		}
		return updated.Counter(), nil
	}
	return db_models.UsageCounter{}, fmt.Errorf("increment usage: period changed during commit")
}

// current returns the record for periodKey, creating it or rolling it over first.
func (r *UsageRepository) current(ctx context.Context, accountID string, bucket db_models.UsageBucket, periodKey string) (db_models.UsageRecord, error) {
	rec, err := r.find(ctx, accountID, bucket)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seed := db_models.UsageRecord{AccountID: accountID, Bucket: bucket, PeriodKey: periodKey}
		err = r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "account_id"}, {Name: "bucket"}},
				DoNothing: true,
			}).
			Create(&seed).Error
		if err != nil {
			return db_models.UsageRecord{}, fmt.Errorf("create usage counter: %w", err)
		}
		rec, err = r.find(ctx, accountID, bucket)
	}
	if err != nil {
		return db_models.UsageRecord{}, fmt.Errorf("load usage counter: %w", err)
	}

	if rec.PeriodKey == periodKey {
		return rec, nil
	}

	err = r.db.WithContext(ctx).
		Model(&db_models.UsageRecord{}).
		Where("id = ? AND period_key = ?", rec.ID, rec.PeriodKey).
		Updates(map[string]interface{}{"used": 0, "period_key": periodKey}).Error
	if err != nil {
		return db_models.UsageRecord{}, fmt.Errorf("roll over usage counter: %w", err)
	}
	return r.find(ctx, accountID, bucket)
}

func (r *UsageRepository) find(ctx context.Context, accountID string, bucket db_models.UsageBucket) (db_models.UsageRecord, error) {
	var rec db_models.UsageRecord
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND bucket = ?", accountID, bucket).
		First(&rec).Error
	return rec, err
}
