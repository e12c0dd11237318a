package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"healwise/internal/models/db_models"
)

type ProfileRepository interface {
	FindById(ctx context.Context, id string) (*db_models.Profile, error)
	FindByStripeCustomer(ctx context.Context, customerID string) (*db_models.Profile, error)
	// Insert creates the profile unless a row with the same id already exists.
	Insert(ctx context.Context, profile *db_models.Profile) error
	Save(ctx context.Context, profile *db_models.Profile) error
	UpdatePlan(ctx context.Context, id string, tier db_models.SubscriptionTier) error
	SetStripeCustomer(ctx context.Context, id, customerID string) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindById returns nil, nil for an unknown account. Find with Limit(1) keeps first-sight
// lookups out of gorm's error log.
func (p *profileRepository) FindById(ctx context.Context, id string) (*db_models.Profile, error) {
	return p.findOne(ctx, "id = ?", id)
}

func (p *profileRepository) FindByStripeCustomer(ctx context.Context, customerID string) (*db_models.Profile, error) {
	return p.findOne(ctx, "stripe_customer_id = ?", customerID)
}

func (p *profileRepository) findOne(ctx context.Context, query string, arg any) (*db_models.Profile, error) {
	var profile db_models.Profile
	res := p.db.WithContext(ctx).Where(query, arg).Limit(1).Find(&profile)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &profile, nil
}

func (p *profileRepository) Insert(ctx context.Context, profile *db_models.Profile) error {
	return p.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(profile).Error
}

func (p *profileRepository) Save(ctx context.Context, profile *db_models.Profile) error {
	return p.db.WithContext(ctx).Save(profile).Error
}

func (p *profileRepository) UpdatePlan(ctx context.Context, id string, tier db_models.SubscriptionTier) error {
	res := p.db.WithContext(ctx).
		Model(&db_models.Profile{}).
		Where("id = ?", id).
		Update("plan", tier)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (p *profileRepository) SetStripeCustomer(ctx context.Context, id, customerID string) error {
	return p.db.WithContext(ctx).
		Model(&db_models.Profile{}).
		Where("id = ?", id).
		Update("stripe_customer_id", customerID).Error
}
